// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/config"
	"github.com/aspirebot/crypto-advisor/internal/handler"
	"github.com/aspirebot/crypto-advisor/internal/middleware"
	"github.com/aspirebot/crypto-advisor/internal/storage"
	"github.com/aspirebot/crypto-advisor/internal/validation"
)

// Deps are the collaborators the handlers need. CallRepo is nil when the
// audit log is disabled, and the admin routes are then not registered.
type Deps struct {
	Validator   *validation.RequestValidator
	Recommender handler.Recommender
	CallRepo    storage.CallRepository
}

// RegisterRoutes sets up all HTTP routes on the gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	recommendHandler := handler.NewRecommendHandler(deps.Validator, deps.Recommender, logger)

	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("")
	public.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	public.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		public.POST("/recommend", recommendHandler.Recommend)
		public.OPTIONS("/recommend", func(c *gin.Context) {})
	}

	if deps.CallRepo != nil {
		adminHandler := handler.NewAdminHandler(deps.CallRepo, logger)

		admin := r.Group("/api/v1/admin")
		admin.Use(middleware.AdminKeyAuth(cfg.Admin.APIKeys))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/calls/:request_id", adminHandler.Calls)
		}
	}
}
