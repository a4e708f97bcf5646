package aml

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TaddsTechnology/piggy-risk/internal/metrics"
	"github.com/TaddsTechnology/piggy-risk/internal/traces"
	"github.com/TaddsTechnology/piggy-risk/internal/transaction"
)

// EventEmitter receives finished reports for real-time streaming.
type EventEmitter interface {
	EmitAMLReport(report map[string]interface{})
}

// Handler provides HTTP endpoints for AML analysis.
type Handler struct {
	analyzer *Analyzer
	events   EventEmitter
}

// NewHandler creates a new AML handler.
func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// WithEvents adds a real-time event emitter.
func (h *Handler) WithEvents(events EventEmitter) *Handler {
	h.events = events
	return h
}

// RegisterRoutes sets up AML routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/aml/analyze", h.AnalyzeMonth)
	r.GET("/aml/users/:userId/reports", h.ListReports)
}

// AnalyzeRequest is the input for POST /v1/aml/analyze.
type AnalyzeRequest struct {
	UserID       string                    `json:"userId" binding:"required"`
	Transactions []transaction.Transaction `json:"transactions"`
}

// AnalyzeMonth handles POST /v1/aml/analyze
func (h *Handler) AnalyzeMonth(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "aml.analyze",
		traces.UserID(req.UserID),
	)
	defer span.End()

	report := h.analyzer.Analyze(ctx, req.UserID, req.Transactions)
	span.SetAttributes(traces.RiskScore(report.Score), traces.RiskLevel(string(report.Category)))

	metrics.AMLReportsTotal.WithLabelValues(string(report.Category)).Inc()

	if h.events != nil {
		h.events.EmitAMLReport(map[string]interface{}{
			"id":       report.ID,
			"userId":   report.UserID,
			"score":    float64(report.Score),
			"category": string(report.Category),
		})
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ListReports handles GET /v1/aml/users/:userId/reports
func (h *Handler) ListReports(c *gin.Context) {
	if h.analyzer.store == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "audit_disabled",
			"message": "Report audit trail is not configured",
		})
		return
	}

	userID := c.Param("userId")
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
			if limit > 200 {
				limit = 200
			}
		}
	}

	reports, err := h.analyzer.store.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}
