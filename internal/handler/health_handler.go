// Package handler contains the gin handlers. Each handler owns only its
// dependencies; routing lives in internal/server.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles liveness checks.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthz reports that the process is serving. It does not contact upstreams.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "crypto-advisor",
	})
}
