package monitor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TaddsTechnology/piggy-risk/internal/metrics"
)

// Handler provides HTTP endpoints for activity reporting.
type Handler struct {
	monitor *Monitor
}

// NewHandler creates a new monitor handler.
func NewHandler(monitor *Monitor) *Handler {
	return &Handler{monitor: monitor}
}

// RegisterRoutes sets up monitor routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/monitor/report", h.Report)
	r.GET("/monitor/activity", h.AllActivity)
	r.GET("/monitor/users/:userId/activity", h.Activity)
	r.GET("/monitor/users/:userId/alerts", h.ListAlerts)
	r.DELETE("/monitor/users/:userId/activity", h.Reset)
}

// ReportRequest is the input for POST /v1/monitor/report.
type ReportRequest struct {
	UserID       string         `json:"userId" binding:"required"`
	ActivityType string         `json:"activityType" binding:"required"`
	Details      map[string]any `json:"details"`
}

// Report handles POST /v1/monitor/report
func (h *Handler) Report(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	count, alert := h.monitor.Report(c.Request.Context(), req.UserID, req.ActivityType, req.Details)

	resp := gin.H{
		"count":   count,
		"alerted": alert != nil,
	}
	if alert != nil {
		metrics.ActivityAlertsTotal.Inc()
		resp["alert"] = alert
	}
	c.JSON(http.StatusOK, resp)
}

// AllActivity handles GET /v1/monitor/activity
func (h *Handler) AllActivity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"activity": h.monitor.AllActivity(),
	})
}

// Activity handles GET /v1/monitor/users/:userId/activity
func (h *Handler) Activity(c *gin.Context) {
	userID := c.Param("userId")
	c.JSON(http.StatusOK, gin.H{
		"userId":   userID,
		"activity": h.monitor.Activity(userID),
	})
}

// ListAlerts handles GET /v1/monitor/users/:userId/alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	if h.monitor.AlertStore() == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "audit_disabled",
			"message": "Alert audit trail is not configured",
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

	alerts, err := h.monitor.AlertStore().ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// Reset handles DELETE /v1/monitor/users/:userId/activity
func (h *Handler) Reset(c *gin.Context) {
	userID := c.Param("userId")
	h.monitor.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"userId": userID, "reset": true})
}
