package fraud

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TaddsTechnology/piggy-risk/internal/metrics"
	"github.com/TaddsTechnology/piggy-risk/internal/profile"
	"github.com/TaddsTechnology/piggy-risk/internal/traces"
	"github.com/TaddsTechnology/piggy-risk/internal/transaction"
)

// EventEmitter receives scored assessments for real-time streaming.
type EventEmitter interface {
	EmitFraudScore(assessment map[string]interface{})
}

// Handler provides HTTP endpoints for fraud scoring.
type Handler struct {
	engine *Engine
	events EventEmitter
}

// NewHandler creates a new fraud handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// WithEvents adds a real-time event emitter.
func (h *Handler) WithEvents(events EventEmitter) *Handler {
	h.events = events
	return h
}

// RegisterRoutes sets up fraud scoring routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/fraud/score", h.ScoreTransaction)
	r.GET("/fraud/users/:userId/assessments", h.ListAssessments)
}

// ScoreRequest is the input for POST /v1/fraud/score.
type ScoreRequest struct {
	Transaction transaction.Transaction   `json:"transaction" binding:"required"`
	Profile     profile.BehaviorProfile   `json:"profile"`
	Recent      []transaction.Transaction `json:"recentTransactions"`
}

// ScoreTransaction handles POST /v1/fraud/score
func (h *Handler) ScoreTransaction(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if err := req.Transaction.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_transaction",
			"message": err.Error(),
		})
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "fraud.score",
		traces.UserID(req.Transaction.UserID),
		traces.TransactionID(req.Transaction.ID),
	)
	defer span.End()

	assessment := h.engine.Score(ctx, &req.Transaction, &req.Profile, req.Recent)
	span.SetAttributes(traces.RiskScore(assessment.Score), traces.RiskLevel(string(assessment.Level)))

	metrics.FraudAssessmentsTotal.WithLabelValues(string(assessment.Level)).Inc()
	if assessment.Blocked {
		metrics.FraudBlockedTotal.Inc()
	}

	if h.events != nil {
		h.events.EmitFraudScore(map[string]interface{}{
			"id":            assessment.ID,
			"transactionId": assessment.TransactionID,
			"userId":        assessment.UserID,
			"score":         float64(assessment.Score),
			"level":         string(assessment.Level),
			"blocked":       assessment.Blocked,
		})
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

// ListAssessments handles GET /v1/fraud/users/:userId/assessments
func (h *Handler) ListAssessments(c *gin.Context) {
	if h.engine.store == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "audit_disabled",
			"message": "Assessment audit trail is not configured",
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

	assessments, err := h.engine.store.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"count":       len(assessments),
	})
}
