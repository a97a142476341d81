package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/internal/metrics"
	"github.com/guttosm/giga-bot/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	// WebhookPath is the path segment the chat platform posts updates to, without slashes.
	WebhookPath string
	RateLimit   int
	RateWindow  time.Duration
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		WebhookPath: "tg-webhook",
		RateLimit:   120,
		RateWindow:  time.Minute,
	}
}

var infraPaths = []string{"/healthz", "/readyz", "/metrics"}

// NewRouter creates and configures the Gin router for the bot.
func NewRouter(webhook *WebhookHandler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router)
	registerInfrastructureRoutes(router, healthHandler)
	registerWebhookRoute(router, webhook, &cfg)

	router.NoRoute(middleware.NotFound())

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine) {
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.RequestLogger(infraPaths...),
		middleware.ErrorHandler(),
	)
}

// registerInfrastructureRoutes registers health and metrics routes.
// promhttp negotiates its own compression, so only health sits behind gzip.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler) {
	if healthHandler != nil {
		healthHandler.Register(router.Group("", middleware.Compression()))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerWebhookRoute registers the update endpoint with per-IP rate limiting.
func registerWebhookRoute(router *gin.Engine, webhook *WebhookHandler, cfg *RouterConfig) {
	if webhook == nil || cfg.WebhookPath == "" {
		return
	}

	handlers := make([]gin.HandlerFunc, 0, 2)
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		handlers = append(handlers, limiter.RateLimit())
	}
	handlers = append(handlers, webhook.Handle)

	router.POST("/"+cfg.WebhookPath, handlers...)
}
