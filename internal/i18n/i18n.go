// Package i18n provides translations for chat replies and HTTP error messages.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (Russian).
	DefaultLocale = "ru"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale or key is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// Format translates key and formats it with args.
func (t *Translator) Format(key, locale string, args ...any) string {
	return fmt.Sprintf(t.Translate(key, locale), args...)
}

// Supported reports whether locale has its own message table.
func (t *Translator) Supported(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// LocaleFor maps a language tag such as "en-US" to a supported locale, or returns fallback.
func LocaleFor(tag, fallback string) string {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		lang = lang[:idx]
	}
	if lang != "" && GetTranslator().Supported(lang) {
		return lang
	}
	if fallback != "" && GetTranslator().Supported(fallback) {
		return fallback
	}
	return DefaultLocale
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// e.g. "en-US,en;q=0.9,ru;q=0.8"
	first := strings.Split(acceptLang, ",")[0]
	return LocaleFor(strings.Split(first, ";")[0], DefaultLocale)
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"ru": {
			ErrKeyInvalidRequest:    "Некорректный запрос",
			ErrKeyInternalError:     "Внутренняя ошибка",
			ErrKeyNotFound:          "Не найдено",
			ErrKeyRateLimitExceeded: "Слишком много запросов, попробуйте позже",

			KeyMenuPrompt: "Выберите действие:",

			KeyButtonSnapshot: "All stats",
			KeyButtonUsers:    "Giga users",
			KeyButtonCrypto:   "Crypto price",
			KeyButtonCharts:   "Crypto charts",
			KeyButtonChatID:   "ChatID",
			KeyButtonRefresh:  "⟳ Обновить",
			KeyButtonBack:     "⬅️ Назад в меню",

			KeyRefreshing:       "Обновляю…",
			KeyRefreshingCharts: "Обновляю графики…",

			KeyUsersBody:        "Users: %s\nJuiced: %s",
			KeyUsersBodyPercent: "Users: %s\nJuiced: %s (%.1f%%)",
			KeyUsersFailed:      "Не удалось получить данные с сайта.",
			KeyUsersRefreshFail: "Не удалось обновить данные.",

			KeyCryptoLine:        "%s: %s (%s за 24ч)",
			KeyCryptoFXLine:      "USD/RUB: %s",
			KeyCryptoFailed:      "Не удалось получить цены/изменение/курс.",
			KeyCryptoRefreshFail: "Не удалось обновить цены/курс.",

			KeySnapshotBody:   "Snapshot\n\nGiga\n%s\n\nCrypto\n%s",
			KeySnapshotFailed: "Не удалось собрать snapshot.",

			KeyChartsFooter:              "Crypto charts (7d)",
			KeyChartsNoData:              "%s: не удалось получить данные.",
			KeyChartsFailed:              "%s: не удалось построить график.",
			KeyChartWindowPrefix + "1h":  "1ч",
			KeyChartWindowPrefix + "6h":  "6ч",
			KeyChartWindowPrefix + "24h": "24ч",

			KeyConvertUsage:       "Использование: /convert 0.05 btc rub",
			KeyConvertUnsupported: "Поддержка: usd, rub, btc, eth. Пример: /convert 100 usd rub",
			KeyConvertNoRates:     "Нет котировок для конвертации, попробуйте ещё раз.",
			KeyConvertResult:      "%s %s = %s",

			KeyChatIDBody: "chat_id: %d\ntype: %s\ntitle: %s",
		},
		"en": {
			ErrKeyInvalidRequest:    "Invalid request",
			ErrKeyInternalError:     "An unexpected error occurred",
			ErrKeyNotFound:          "Not found",
			ErrKeyRateLimitExceeded: "Too many requests, please try again later",

			KeyMenuPrompt: "Choose an action:",

			KeyButtonSnapshot: "All stats",
			KeyButtonUsers:    "Giga users",
			KeyButtonCrypto:   "Crypto price",
			KeyButtonCharts:   "Crypto charts",
			KeyButtonChatID:   "ChatID",
			KeyButtonRefresh:  "⟳ Refresh",
			KeyButtonBack:     "⬅️ Back to menu",

			KeyRefreshing:       "Refreshing…",
			KeyRefreshingCharts: "Refreshing charts…",

			KeyUsersBody:        "Users: %s\nJuiced: %s",
			KeyUsersBodyPercent: "Users: %s\nJuiced: %s (%.1f%%)",
			KeyUsersFailed:      "Could not retrieve data from the site.",
			KeyUsersRefreshFail: "Could not refresh data.",

			KeyCryptoLine:        "%s: %s (%s in 24h)",
			KeyCryptoFXLine:      "USD/RUB: %s",
			KeyCryptoFailed:      "Could not retrieve prices, changes or the rate.",
			KeyCryptoRefreshFail: "Could not refresh prices or the rate.",

			KeySnapshotBody:   "Snapshot\n\nGiga\n%s\n\nCrypto\n%s",
			KeySnapshotFailed: "Could not build the snapshot.",

			KeyChartsFooter:              "Crypto charts (7d)",
			KeyChartsNoData:              "%s: could not retrieve data.",
			KeyChartsFailed:              "%s: could not build the chart.",
			KeyChartWindowPrefix + "1h":  "1h",
			KeyChartWindowPrefix + "6h":  "6h",
			KeyChartWindowPrefix + "24h": "24h",

			KeyConvertUsage:       "Usage: /convert 0.05 btc rub",
			KeyConvertUnsupported: "Supported: usd, rub, btc, eth. Example: /convert 100 usd rub",
			KeyConvertNoRates:     "No quotes available for conversion, please try again.",
			KeyConvertResult:      "%s %s = %s",

			KeyChatIDBody: "chat_id: %d\ntype: %s\ntitle: %s",
		},
	}
}
