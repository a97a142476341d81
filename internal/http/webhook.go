// Package http exposes the webhook endpoint and the infrastructure routes.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guttosm/giga-bot/internal/bot"
	"github.com/guttosm/giga-bot/internal/domain/dto"
	"github.com/guttosm/giga-bot/internal/logger"
	"github.com/guttosm/giga-bot/internal/metrics"
	"github.com/guttosm/giga-bot/internal/telegram"
)

const defaultHandlerTimeout = 60 * time.Second

// UpdateHandler processes one chat update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u bot.Update) error
}

// WebhookHandler acknowledges every delivered update at once and processes it in the background.
type WebhookHandler struct {
	handler UpdateHandler
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewWebhookHandler creates a WebhookHandler. Each update gets at most timeout to complete.
func NewWebhookHandler(handler UpdateHandler, timeout time.Duration) *WebhookHandler {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &WebhookHandler{handler: handler, timeout: timeout}
}

// Handle decodes the update and always answers 200 with a JSON ack.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var raw tgbotapi.Update
	if err := c.ShouldBindJSON(&raw); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Warn().
			Err(err).
			Str("component", "webhook").
			Msg("Undecodable update")
		metrics.RecordBotUpdate("invalid", "ignored")
		c.JSON(http.StatusOK, dto.WebhookAck{OK: true})
		return
	}

	update, ok := telegram.FromTelegram(raw)
	if !ok {
		metrics.RecordBotUpdate("unsupported", "ignored")
		c.JSON(http.StatusOK, dto.WebhookAck{OK: true})
		return
	}

	// The request context ends with the response; processing must outlive it. The request id
	// set by middleware.RequestID travels with the values.
	ctx := context.WithoutCancel(c.Request.Context())

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.process(ctx, update)
	}()

	c.JSON(http.StatusOK, dto.WebhookAck{OK: true})
}

func (h *WebhookHandler) process(ctx context.Context, u bot.Update) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	log := logger.FromContext(ctx).With().Str("component", "webhook").Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Int("update_id", u.ID).
				Msg("PANIC recovered while handling update")
		}
	}()

	if err := h.handler.HandleUpdate(ctx, u); err != nil {
		log.Error().
			Err(err).
			Int("update_id", u.ID).
			Int64("chat_id", u.Chat.ID).
			Msg("Update handling failed")
	}
}

// Wait blocks until every in-flight update finished or ctx is done.
func (h *WebhookHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
