// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/config"
	"github.com/guttosm/giga-bot/internal/bot"
	"github.com/guttosm/giga-bot/internal/http"
	"github.com/guttosm/giga-bot/internal/i18n"
	"github.com/guttosm/giga-bot/internal/telegram"
	"github.com/rs/zerolog/log"
)

// LocaleAuto makes the bot reply in each user's client language.
const LocaleAuto = "auto"

const webhookRegisterTimeout = 30 * time.Second

// WebhookRegistrar points the chat platform at the webhook URL.
type WebhookRegistrar interface {
	RegisterWebhook(ctx context.Context, url string, dropPending bool) error
}

// App is the fully wired bot.
type App struct {
	Router    *gin.Engine
	Webhook   *http.WebhookHandler
	Services  *ServiceComponents
	registrar WebhookRegistrar
	cfg       config.Config
}

// InitializeApp creates and wires all application dependencies.
// It fails when the bot token is rejected by the chat platform.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	client, err := telegram.New(cfg.Telegram.Token, telegram.WithEndpoint(cfg.Telegram.APIEndpoint))
	if err != nil {
		return nil, err
	}
	return newApp(cfg, client, client), nil
}

func newApp(cfg config.Config, messenger bot.Messenger, registrar WebhookRegistrar) *App {
	services := InitializeServices(cfg)

	dispatcher := bot.NewDispatcher(messenger, services.Stats, services.Market, services.Charts,
		dispatcherOptions(cfg.Telegram.Locale)...)

	routerComponents := InitializeRouter(dispatcher, services, cfg)

	return &App{
		Router:    http.NewRouter(routerComponents.Webhook, routerComponents.HealthHandler, routerComponents.Config),
		Webhook:   routerComponents.Webhook,
		Services:  services,
		registrar: registrar,
		cfg:       cfg,
	}
}

func dispatcherOptions(locale string) []bot.Option {
	if strings.EqualFold(strings.TrimSpace(locale), LocaleAuto) {
		return []bot.Option{bot.WithUserLocale()}
	}
	return []bot.Option{bot.WithLocale(i18n.LocaleFor(locale, i18n.DefaultLocale))}
}

// RegisterWebhook sets the webhook URL derived from the configuration.
func (a *App) RegisterWebhook(ctx context.Context) error {
	url := a.cfg.WebhookURL()
	ctx, cancel := context.WithTimeout(ctx, webhookRegisterTimeout)
	defer cancel()

	if err := a.registrar.RegisterWebhook(ctx, url, a.cfg.Telegram.DropPendingUpdates); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}
	log.Info().
		Str("webhook_url", url).
		Bool("drop_pending_updates", a.cfg.Telegram.DropPendingUpdates).
		Msg("Webhook registered")
	return nil
}

// NewServer returns the HTTP server for the app. In-flight updates are drained on shutdown.
func (a *App) NewServer() *Server {
	server := NewServer(a.Router, a.cfg.Server.Port)
	server.OnShutdown(a.Webhook.Wait)
	return server
}

// Run binds the port, registers the webhook and serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext is Run with an explicit lifetime.
func (a *App) RunContext(ctx context.Context) error {
	server := a.NewServer()
	ln, err := server.Listen()
	if err != nil {
		return err
	}
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("path", "/"+a.cfg.Server.WebhookPath).
		Msg("Starting webhook server")

	if err := a.RegisterWebhook(ctx); err != nil {
		_ = ln.Close()
		return err
	}
	return server.Serve(ctx, ln)
}
