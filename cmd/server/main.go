// Piggy Risk - transaction risk scoring and integrity service
package main

import (
	"context"
	"os"

	"github.com/TaddsTechnology/piggy-risk/internal/config"
	"github.com/TaddsTechnology/piggy-risk/internal/logging"
	"github.com/TaddsTechnology/piggy-risk/internal/server"
	"github.com/TaddsTechnology/piggy-risk/internal/traces"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Create logger
	logger := logging.New("info", "text")

	logger.Info("starting piggy-risk",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"alert_threshold", cfg.AlertThreshold,
		"signing_enabled", cfg.SigningSecret != "",
	)

	// Initialize tracing (no-op when no OTLP endpoint is configured)
	ctx := context.Background()
	shutdownTraces, err := traces.Init(ctx, cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTraces(context.Background()) }()

	// Create and run server
	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
