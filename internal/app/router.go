// Package app provides router configuration.
package app

import (
	"github.com/guttosm/giga-bot/config"
	"github.com/guttosm/giga-bot/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Webhook       *http.WebhookHandler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(handler http.UpdateHandler, services *ServiceComponents, cfg config.Config) *RouterComponents {
	webhook := http.NewWebhookHandler(handler, cfg.Server.HandlerTimeout)
	healthHandler := http.NewHealthHandler()

	if services != nil {
		for name, cb := range services.Breakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
		if services.Stats != nil {
			healthHandler.RegisterCache("stats", services.Stats)
		}
		if services.Market != nil {
			healthHandler.RegisterCache("market", services.Market)
		}
	}

	return &RouterComponents{
		Webhook:       webhook,
		HealthHandler: healthHandler,
		Config: http.RouterConfig{
			WebhookPath: cfg.Server.WebhookPath,
			RateLimit:   cfg.Server.RateLimit,
			RateWindow:  cfg.Server.RateWindow,
		},
	}
}
