package integrity

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TaddsTechnology/piggy-risk/internal/metrics"
	"github.com/TaddsTechnology/piggy-risk/internal/transaction"
)

// Handler provides HTTP endpoints for hashing and signing transactions.
type Handler struct {
	service *Service
}

// NewHandler creates a new integrity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up integrity routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/integrity/hash", h.Hash)
	r.POST("/integrity/sign", h.Sign)
	r.POST("/integrity/verify-hash", h.VerifyHash)
	r.POST("/integrity/verify-signature", h.VerifySignature)
}

// HashRequest carries a transaction to digest or sign.
type HashRequest struct {
	Transaction transaction.Transaction `json:"transaction" binding:"required"`
}

// VerifyHashRequest carries a transaction and the digest to check it against.
type VerifyHashRequest struct {
	Transaction transaction.Transaction `json:"transaction" binding:"required"`
	Hash        string                  `json:"hash" binding:"required"`
}

// VerifySignatureRequest carries a transaction and the signature to check.
type VerifySignatureRequest struct {
	Transaction transaction.Transaction `json:"transaction" binding:"required"`
	Signature   string                  `json:"signature" binding:"required"`
}

// Hash handles POST /v1/integrity/hash
func (h *Handler) Hash(c *gin.Context) {
	var req HashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hash": h.service.Hash(req.Transaction)})
}

// Sign handles POST /v1/integrity/sign
func (h *Handler) Sign(c *gin.Context) {
	var req HashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if !h.service.CanSign() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "signing_disabled",
			"message": "No signing secret is configured",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signature": h.service.Sign(req.Transaction)})
}

// VerifyHash handles POST /v1/integrity/verify-hash
func (h *Handler) VerifyHash(c *gin.Context) {
	var req VerifyHashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	valid := h.service.VerifyHash(req.Transaction, req.Hash)
	metrics.IntegrityChecksTotal.WithLabelValues("hash", resultLabel(valid)).Inc()

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// VerifySignature handles POST /v1/integrity/verify-signature
func (h *Handler) VerifySignature(c *gin.Context) {
	var req VerifySignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	valid := h.service.VerifySignature(req.Transaction, req.Signature)
	metrics.IntegrityChecksTotal.WithLabelValues("signature", resultLabel(valid)).Inc()

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func resultLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
