package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/giga-bot/internal/convert"
	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/i18n"
	"github.com/guttosm/giga-bot/internal/logger"
	"github.com/guttosm/giga-bot/internal/metrics"
	"github.com/guttosm/giga-bot/internal/service"
	"github.com/guttosm/giga-bot/internal/timeseries"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type handlerFunc func(ctx context.Context, u Update, locale string) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLocale sets the reply language.
func WithLocale(locale string) Option {
	return func(d *Dispatcher) {
		if locale != "" {
			d.locale = locale
		}
	}
}

// WithUserLocale replies in each user's client language when it is supported.
func WithUserLocale() Option {
	return func(d *Dispatcher) {
		d.userLocale = true
	}
}

// WithTranslator replaces the message catalog.
func WithTranslator(t *i18n.Translator) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.translator = t
		}
	}
}

// Dispatcher routes commands and button presses to their handlers.
type Dispatcher struct {
	messenger  Messenger
	stats      service.StatsReader
	market     service.MarketReader
	charts     service.ChartGenerator
	translator *i18n.Translator
	locale     string
	userLocale bool

	commands  map[string]handlerFunc
	callbacks map[string]handlerFunc
}

// NewDispatcher creates a Dispatcher replying through messenger.
func NewDispatcher(messenger Messenger, stats service.StatsReader, market service.MarketReader, charts service.ChartGenerator, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		messenger:  messenger,
		stats:      stats,
		market:     market,
		charts:     charts,
		translator: i18n.GetTranslator(),
		locale:     i18n.DefaultLocale,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.commands = map[string]handlerFunc{
		"/start":    d.handleStart,
		"/users":    d.handleUsers,
		"/crypto":   d.handleCrypto,
		"/snapshot": d.handleSnapshot,
		"/convert":  d.handleConvert,
		"/conv":     d.handleConvert,
		"/charts":   d.handleCharts,
		"/chatid":   d.handleChatID,
		"!users":    d.handleUsers,
		"!crypto":   d.handleCrypto,
		"!charts":   d.handleCharts,
		"!convert":  d.handleConvert,
		"!conv":     d.handleConvert,
	}
	d.callbacks = map[string]handlerFunc{
		CallbackMenuSnapshot:    d.menu(d.handleSnapshot),
		CallbackMenuUsers:       d.menu(d.handleUsers),
		CallbackMenuCrypto:      d.menu(d.handleCrypto),
		CallbackMenuCharts:      d.menu(d.handleCharts),
		CallbackMenuChatID:      d.menu(d.handleChatID),
		CallbackRefreshUsers:    d.refreshUsers,
		CallbackLegacyRefresh:   d.refreshUsers,
		CallbackRefreshCrypto:   d.refreshCrypto,
		CallbackRefreshSnapshot: d.refreshSnapshot,
		CallbackRefreshCharts:   d.refreshCharts,
		CallbackBackMenu:        d.backToMenu,
	}
	return d
}

// HandleUpdate runs the handler matching u. Unrecognized updates are ignored. The returned
// error reports a failure to deliver a reply; data failures are answered in the chat.
func (d *Dispatcher) HandleUpdate(ctx context.Context, u Update) error {
	name, handler := d.route(u)
	if handler == nil {
		metrics.RecordBotUpdate("unknown", "ignored")
		return nil
	}

	l := logger.FromContext(ctx).With().
		Int("update_id", u.ID).
		Int64("chat_id", u.Chat.ID).
		Str("command", name).
		Logger()

	if err := handler(ctx, u, d.localeFor(u)); err != nil {
		metrics.RecordBotUpdate(name, "error")
		l.Error().Err(err).Msg("Failed to handle update")
		return fmt.Errorf("handle %s: %w", name, err)
	}
	metrics.RecordBotUpdate(name, "ok")
	l.Debug().Msg("Update handled")
	return nil
}

func (d *Dispatcher) route(u Update) (string, handlerFunc) {
	if u.Callback != nil {
		return u.Callback.Data, d.callbacks[u.Callback.Data]
	}
	name, ok := commandName(u.Text)
	if !ok {
		return "", nil
	}
	return name, d.commands[name]
}

// commandName extracts the lower-cased "/cmd" or "!cmd" token, dropping a "@botname" suffix.
func commandName(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	token := strings.ToLower(fields[0])
	if len(token) < 2 || (token[0] != '/' && token[0] != '!') {
		return "", false
	}
	if at := strings.IndexByte(token, '@'); at > 0 && token[0] == '/' {
		token = token[:at]
	}
	return token, true
}

func (d *Dispatcher) localeFor(u Update) string {
	if d.userLocale {
		return i18n.LocaleFor(u.LanguageCode, d.locale)
	}
	return d.locale
}

// menu answers the button press before running h.
func (d *Dispatcher) menu(h handlerFunc) handlerFunc {
	return func(ctx context.Context, u Update, locale string) error {
		d.answer(ctx, u, "")
		return h(ctx, u, locale)
	}
}

func (d *Dispatcher) handleStart(ctx context.Context, u Update, locale string) error {
	return d.messenger.SendText(ctx, u.Chat.ID, d.translator.Translate(i18n.KeyMenuPrompt, locale), d.startKeyboard(locale))
}

func (d *Dispatcher) backToMenu(ctx context.Context, u Update, locale string) error {
	d.answer(ctx, u, "")
	return d.editOrSend(ctx, u, d.translator.Translate(i18n.KeyMenuPrompt, locale), d.startKeyboard(locale))
}

func (d *Dispatcher) handleChatID(ctx context.Context, u Update, locale string) error {
	title := u.Chat.Title
	if title == "" {
		title = "-"
	}
	text := d.translator.Format(i18n.KeyChatIDBody, locale, u.Chat.ID, u.Chat.Type, title)
	return d.messenger.SendText(ctx, u.Chat.ID, text, d.backKeyboard(locale))
}

func (d *Dispatcher) handleUsers(ctx context.Context, u Update, locale string) error {
	stats, err := d.stats.Get(ctx, false)
	if err != nil {
		warnDataFailure(err, "users")
		return d.reply(ctx, u, i18n.KeyUsersFailed, locale)
	}
	return d.messenger.SendText(ctx, u.Chat.ID, d.usersText(stats, locale), d.sectionKeyboard(locale, CallbackRefreshUsers))
}

func (d *Dispatcher) refreshUsers(ctx context.Context, u Update, locale string) error {
	d.answer(ctx, u, d.translator.Translate(i18n.KeyRefreshing, locale))
	stats, err := d.stats.Get(ctx, true)
	if err != nil {
		warnDataFailure(err, "users")
		return d.reply(ctx, u, i18n.KeyUsersRefreshFail, locale)
	}
	return d.editOrSend(ctx, u, d.usersText(stats, locale), d.sectionKeyboard(locale, CallbackRefreshUsers))
}

func (d *Dispatcher) usersText(stats model.UserStats, locale string) string {
	if pct, ok := stats.JuicedPercent(); ok {
		return d.translator.Format(i18n.KeyUsersBodyPercent, locale, formatInt(stats.Users), formatInt(stats.Juiced), pct)
	}
	return d.translator.Format(i18n.KeyUsersBody, locale, formatInt(stats.Users), formatInt(stats.Juiced))
}

func (d *Dispatcher) handleCrypto(ctx context.Context, u Update, locale string) error {
	text, err := d.cryptoText(ctx, false, locale)
	if err != nil {
		warnDataFailure(err, "crypto")
		return d.reply(ctx, u, i18n.KeyCryptoFailed, locale)
	}
	return d.messenger.SendText(ctx, u.Chat.ID, text, d.sectionKeyboard(locale, CallbackRefreshCrypto))
}

func (d *Dispatcher) refreshCrypto(ctx context.Context, u Update, locale string) error {
	d.answer(ctx, u, d.translator.Translate(i18n.KeyRefreshing, locale))
	text, err := d.cryptoText(ctx, true, locale)
	if err != nil {
		warnDataFailure(err, "crypto")
		return d.reply(ctx, u, i18n.KeyCryptoRefreshFail, locale)
	}
	return d.editOrSend(ctx, u, text, d.sectionKeyboard(locale, CallbackRefreshCrypto))
}

// cryptoText fetches the market snapshot and both 24h changes concurrently.
func (d *Dispatcher) cryptoText(ctx context.Context, force bool, locale string) (string, error) {
	var prices model.MarketPrices
	changes := make([]timeseries.Measure, len(model.Coins))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prices, err = d.market.Get(gctx, force)
		return err
	})
	for i, coin := range model.Coins {
		i, coin := i, coin
		g.Go(func() error {
			changes[i] = d.market.Change24h(gctx, coin)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(model.Coins)+1)
	for i, coin := range model.Coins {
		lines = append(lines, d.translator.Format(i18n.KeyCryptoLine, locale, coin, formatUSD(prices.Price(coin)), formatPct(changes[i])))
	}
	lines = append(lines, d.translator.Format(i18n.KeyCryptoFXLine, locale, formatRUB(prices.USDRUB)))
	return strings.Join(lines, "\n"), nil
}

// handleSnapshot always forces both caches.
func (d *Dispatcher) handleSnapshot(ctx context.Context, u Update, locale string) error {
	var (
		stats  model.UserStats
		crypto string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = d.stats.Get(gctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		crypto, err = d.cryptoText(gctx, true, locale)
		return err
	})
	if err := g.Wait(); err != nil {
		warnDataFailure(err, "snapshot")
		return d.reply(ctx, u, i18n.KeySnapshotFailed, locale)
	}

	text := d.translator.Format(i18n.KeySnapshotBody, locale, d.usersText(stats, locale), crypto)
	return d.messenger.SendText(ctx, u.Chat.ID, text, d.sectionKeyboard(locale, CallbackRefreshSnapshot))
}

func (d *Dispatcher) refreshSnapshot(ctx context.Context, u Update, locale string) error {
	d.answer(ctx, u, d.translator.Translate(i18n.KeyRefreshing, locale))
	return d.handleSnapshot(ctx, u, locale)
}

// handleCharts renders every coin concurrently and posts the photos in display order.
func (d *Dispatcher) handleCharts(ctx context.Context, u Update, locale string) error {
	charts := make([]service.Chart, len(model.Coins))
	errs := make([]error, len(model.Coins))

	var g errgroup.Group
	for i, coin := range model.Coins {
		i, coin := i, coin
		g.Go(func() error {
			charts[i], errs[i] = d.charts.Coin(ctx, coin)
			return nil
		})
	}
	_ = g.Wait()

	for i, coin := range model.Coins {
		if errs[i] != nil {
			warnDataFailure(errs[i], "charts")
			key := i18n.KeyChartsNoData
			if errors.Is(errs[i], service.ErrRender) {
				key = i18n.KeyChartsFailed
			}
			text := d.translator.Format(key, locale, coin)
			if err := d.messenger.SendText(ctx, u.Chat.ID, text, nil); err != nil {
				return err
			}
			continue
		}
		if err := d.messenger.SendPhoto(ctx, u.Chat.ID, charts[i].PNG, d.chartCaption(charts[i], locale)); err != nil {
			return err
		}
	}

	footer := d.translator.Translate(i18n.KeyChartsFooter, locale)
	return d.messenger.SendText(ctx, u.Chat.ID, footer, d.sectionKeyboard(locale, CallbackRefreshCharts))
}

func (d *Dispatcher) refreshCharts(ctx context.Context, u Update, locale string) error {
	d.answer(ctx, u, d.translator.Translate(i18n.KeyRefreshingCharts, locale))
	return d.handleCharts(ctx, u, locale)
}

func (d *Dispatcher) chartCaption(c service.Chart, locale string) string {
	lines := []string{fmt.Sprintf("%s: %s", c.Coin, formatUSD(measurePtr(c.Analysis.Current)))}
	for _, delta := range c.Analysis.Deltas {
		label := d.translator.Translate(i18n.KeyChartWindowPrefix+delta.Window.Label, locale)
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", label, formatUSDDelta(delta.Absolute), formatPct(delta.Percent)))
	}
	return strings.Join(lines, "\n")
}

// handleConvert always forces a fresh market snapshot.
func (d *Dispatcher) handleConvert(ctx context.Context, u Update, locale string) error {
	req, err := convert.ParseCommand(u.Text)
	switch {
	case errors.Is(err, convert.ErrUnknownUnit):
		return d.reply(ctx, u, i18n.KeyConvertUnsupported, locale)
	case err != nil:
		return d.reply(ctx, u, i18n.KeyConvertUsage, locale)
	}

	prices, err := d.market.Get(ctx, true)
	if err != nil {
		warnDataFailure(err, "convert")
		return d.reply(ctx, u, i18n.KeyConvertNoRates, locale)
	}
	out, err := convert.Convert(req.Amount, req.From, req.To, prices)
	if err != nil {
		log.Warn().Err(err).Str("from", string(req.From)).Str("to", string(req.To)).Msg("Conversion not possible")
		return d.reply(ctx, u, i18n.KeyConvertNoRates, locale)
	}

	text := d.translator.Format(i18n.KeyConvertResult, locale,
		req.Amount.String(), strings.ToUpper(string(req.From)), formatAmount(string(req.To), out))
	return d.messenger.SendText(ctx, u.Chat.ID, text, nil)
}

func (d *Dispatcher) reply(ctx context.Context, u Update, key, locale string) error {
	return d.messenger.SendText(ctx, u.Chat.ID, d.translator.Translate(key, locale), nil)
}

// editOrSend edits the message the pressed button belongs to, or posts a new one when that fails.
func (d *Dispatcher) editOrSend(ctx context.Context, u Update, text string, kb Keyboard) error {
	if u.Callback != nil && u.Callback.MessageID != 0 {
		err := d.messenger.EditText(ctx, u.Chat.ID, u.Callback.MessageID, text, kb)
		if err == nil {
			return nil
		}
		log.Debug().Err(err).Int64("chat_id", u.Chat.ID).Msg("Edit failed, sending new message")
	}
	return d.messenger.SendText(ctx, u.Chat.ID, text, kb)
}

// answer acknowledges a button press. Failures only cost the client its spinner.
func (d *Dispatcher) answer(ctx context.Context, u Update, text string) {
	if u.Callback == nil {
		return
	}
	if err := d.messenger.AnswerCallback(ctx, u.Callback.ID, text); err != nil {
		log.Debug().Err(err).Str("callback_id", u.Callback.ID).Msg("Failed to answer callback")
	}
}

func warnDataFailure(err error, section string) {
	log.Warn().Err(err).Str("section", section).Msg("Upstream data unavailable")
}
