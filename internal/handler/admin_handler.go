package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/storage"
)

// AdminHandler serves the audit log summaries.
type AdminHandler struct {
	callRepo storage.CallRepository
	logger   *zap.Logger
}

func NewAdminHandler(callRepo storage.CallRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		callRepo: callRepo,
		logger:   logger,
	}
}

// Stats returns model call totals per provider.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.callRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting model calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	providers, err := h.callRepo.Stats(ctx)
	if err != nil {
		h.logger.Error("aggregating model calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	var succeeded, failed int64
	for _, p := range providers {
		succeeded += p.Succeeded
		failed += p.Failed
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"succeeded": succeeded,
		"failed":    failed,
		"providers": providers,
	})
}

// Calls lists the audit rows of one request, oldest first.
// Route: GET /api/v1/admin/calls/:request_id
func (h *AdminHandler) Calls(c *gin.Context) {
	requestID := c.Param("request_id")

	calls, err := h.callRepo.ListByRequest(c.Request.Context(), requestID)
	if err != nil {
		h.logger.Error("listing model calls", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if len(calls) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no calls recorded for request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID,
		"calls":      calls,
	})
}
