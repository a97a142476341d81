// Package config provides configuration management for the bot.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server         ServerConfig
	Telegram       TelegramConfig
	Cache          CacheConfig
	Upstream       UpstreamConfig
	CircuitBreaker CircuitBreakerConfig
	Log            LogConfig
}

// ServerConfig holds webhook HTTP server configuration.
type ServerConfig struct {
	Port        string
	WebhookPath string
	BaseURL     string
	RateLimit   int
	RateWindow  time.Duration
	// HandlerTimeout bounds the processing of a single chat update.
	HandlerTimeout time.Duration
}

// TelegramConfig holds chat transport configuration.
type TelegramConfig struct {
	Token              string
	DropPendingUpdates bool
	// Locale is a fixed reply language, or "auto" to follow each user's client language.
	Locale string
	// APIEndpoint is the Bot API URL format with placeholders for token and method.
	APIEndpoint string
}

// CacheConfig holds freshness limits for cached upstream data.
type CacheConfig struct {
	StatsTTL  time.Duration
	MarketTTL time.Duration
}

// UpstreamConfig holds third-party endpoint configuration.
type UpstreamConfig struct {
	StatsURL            string
	Timeout             time.Duration
	ChartTimeout        time.Duration
	BinanceURL          string
	CoinbaseURL         string
	ExchangeRateHostURL string
	OpenERURL           string
	QuickChartURL       string
}

// CircuitBreakerConfig holds per-provider breaker settings.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "10000"),
			WebhookPath:    strings.Trim(getEnv("WEBHOOK_PATH", "tg-webhook"), "/ "),
			BaseURL:        strings.TrimRight(getEnv("BASE_URL", os.Getenv("RENDER_EXTERNAL_URL")), "/"),
			RateLimit:      getEnvInt("RATE_LIMIT", 120),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			HandlerTimeout: getEnvDuration("HANDLER_TIMEOUT", 60*time.Second),
		},
		Telegram: TelegramConfig{
			Token:              strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
			DropPendingUpdates: getEnvBool("DROP_PENDING_UPDATES", true),
			Locale:             getEnv("BOT_LOCALE", "ru"),
			APIEndpoint:        getEnv("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
		},
		Cache: CacheConfig{
			StatsTTL:  getEnvSeconds("CACHE_TTL", 30*time.Second),
			MarketTTL: getEnvSeconds("CRYPTO_CACHE_TTL", 30*time.Second),
		},
		Upstream: UpstreamConfig{
			StatsURL:            getEnv("API_URL", "https://giganoob.com/data/html/users_snapshot.json"),
			Timeout:             getEnvSeconds("UPSTREAM_TIMEOUT", 15*time.Second),
			ChartTimeout:        getEnvSeconds("CHART_TIMEOUT", 25*time.Second),
			BinanceURL:          getEnv("BINANCE_URL", "https://api.binance.com"),
			CoinbaseURL:         getEnv("COINBASE_URL", "https://api.coinbase.com"),
			ExchangeRateHostURL: getEnv("EXCHANGERATE_HOST_URL", "https://api.exchangerate.host"),
			OpenERURL:           getEnv("OPEN_ER_URL", "https://open.er-api.com"),
			QuickChartURL:       getEnv("QUICKCHART_URL", "https://quickchart.io"),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 1),
			Timeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// WebhookURL returns the public URL the chat platform should post updates to.
func (c Config) WebhookURL() string {
	return c.Server.BaseURL + "/" + c.Server.WebhookPath
}

// Validate reports missing settings required to run the bot.
func (c Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Server.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL or RENDER_EXTERNAL_URL is required"))
	}
	if c.Server.WebhookPath == "" {
		errs = append(errs, errors.New("WEBHOOK_PATH must not be empty"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvSeconds accepts a bare number of seconds ("30") or a Go duration ("30s").
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	return defaultValue
}
