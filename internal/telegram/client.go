// Package telegram adapts the Telegram Bot API to the bot package.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guttosm/giga-bot/internal/bot"
	"github.com/guttosm/giga-bot/internal/metrics"
	"github.com/rs/zerolog/log"
)

const chartFileName = "chart.png"

// Client sends replies through the Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

type options struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*options)

// WithEndpoint overrides the Bot API endpoint format, e.g. "https://api.telegram.org/bot%s/%s".
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP client used for Bot API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// New creates a Client and verifies the token with getMe.
func New(token string, opts ...Option) (*Client, error) {
	o := options{
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, o.endpoint, o.httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	log.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")
	return &Client{api: api}, nil
}

// Username returns the bot's @username without the at sign.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// SendText posts a message, with an inline keyboard when kb is not empty.
func (c *Client) SendText(ctx context.Context, chatID int64, text string, kb bot.Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if len(kb) > 0 {
		msg.ReplyMarkup = inlineKeyboard(kb)
	}
	return c.send(ctx, "sendMessage", msg)
}

// EditText replaces the text and keyboard of an existing message.
func (c *Client) EditText(ctx context.Context, chatID int64, messageID int, text string, kb bot.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if len(kb) > 0 {
		markup := inlineKeyboard(kb)
		edit.ReplyMarkup = &markup
	}
	return c.request(ctx, "editMessageText", edit)
}

// SendPhoto uploads a PNG with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: chartFileName, Bytes: png})
	photo.Caption = caption
	return c.send(ctx, "sendPhoto", photo)
}

// AnswerCallback stops the client's loading indicator, optionally showing a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	answer := tgbotapi.NewCallback(callbackID, text)
	answer.CacheTime = 0
	return c.request(ctx, "answerCallbackQuery", answer)
}

// RegisterWebhook points Telegram at url.
func (c *Client) RegisterWebhook(ctx context.Context, url string, dropPending bool) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("telegram: webhook url: %w", err)
	}
	wh.DropPendingUpdates = dropPending
	if err := c.request(ctx, "setWebhook", wh); err != nil {
		return err
	}
	log.Info().Str("webhook_url", url).Bool("drop_pending_updates", dropPending).Msg("Webhook registered")
	return nil
}

// DeleteWebhook removes the webhook registration.
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	return c.request(ctx, "deleteWebhook", tgbotapi.DeleteWebhookConfig{DropPendingUpdates: dropPending})
}

func (c *Client) send(ctx context.Context, method string, msg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	_, err := c.api.Send(msg)
	metrics.RecordUpstreamRequest("telegram_"+method, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method string, cfg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	_, err := c.api.Request(cfg)
	metrics.RecordUpstreamRequest("telegram_"+method, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	return nil
}

func inlineKeyboard(kb bot.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
