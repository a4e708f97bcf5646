package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TaddsTechnology/piggy-risk/internal/circuitbreaker"
	"github.com/TaddsTechnology/piggy-risk/internal/retry"
)

// WebhookSink delivers alerts to an external HTTP endpoint. Delivery is
// asynchronous and best-effort; transient failures are retried with backoff
// and a circuit breaker stops hammering an endpoint that keeps failing.
type WebhookSink struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

// NewWebhookSink creates a sink posting alerts to the given URL.
func NewWebhookSink(url string, logger *slog.Logger) *WebhookSink {
	return &WebhookSink{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(5, 30*time.Second),
		logger:  logger,
	}
}

func (s *WebhookSink) Publish(ctx context.Context, alert *Alert) {
	go s.deliver(alert)
}

func (s *WebhookSink) deliver(alert *Alert) {
	if !s.breaker.Allow(s.url) {
		s.logger.Warn("alert webhook circuit open, dropping alert", "alert_id", alert.ID)
		return
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = retry.Do(ctx, 3, 500*time.Millisecond, func() error {
		return s.post(ctx, body)
	})
	if err != nil {
		s.breaker.RecordFailure(s.url)
		s.logger.Warn("alert webhook delivery failed", "alert_id", alert.ID, "error", err)
		return
	}
	s.breaker.RecordSuccess(s.url)
}

func (s *WebhookSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The endpoint rejected the payload; retrying won't help.
		return retry.Permanent(fmt.Errorf("webhook rejected with status %d", resp.StatusCode))
	default:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
}
