//go:build !integration

package app

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/giga-bot/config"
)

// newUpstreams serves every provider the bot talks to. Binance spot and exchangerate.host
// fail so the fallback providers are exercised.
func newUpstreams(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users_snapshot.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totals":{"users":1234,"juiced":617}}`))
	})
	mux.HandleFunc("/api/v3/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	mux.HandleFunc("/api/v3/ticker/24hr", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"priceChangePercent":"1.50"}`))
	})
	mux.HandleFunc("/v2/prices/BTC-USD/spot", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"amount":"65000.50","currency":"USD"}}`))
	})
	mux.HandleFunc("/v2/prices/ETH-USD/spot", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"amount":"3200","currency":"USD"}}`))
	})
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/v6/latest/USD", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","rates":{"RUB":92.5}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// fakeBotAPI records Bot API calls by method name.
type fakeBotAPI struct {
	*httptest.Server
	mu    sync.Mutex
	calls map[string][]map[string]string
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	f := &fakeBotAPI{calls: make(map[string][]map[string]string)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeBotAPI) serve(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	_ = r.ParseForm()
	params := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		params[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	f.calls[method] = append(f.calls[method], params)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Giga","username":"giga_bot"}}`))
	case "sendMessage":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":100,"date":1700000000,"chat":{"id":42,"type":"private"}}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}
}

func (f *fakeBotAPI) endpoint() string {
	return f.URL + "/bot%s/%s"
}

func (f *fakeBotAPI) Calls(method string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.calls[method]...)
}

func testConfig(upstreamURL, botEndpoint string) config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			WebhookPath:    "tg-webhook",
			BaseURL:        "https://bot.example.com",
			RateLimit:      100,
			RateWindow:     time.Minute,
			HandlerTimeout: 5 * time.Second,
		},
		Telegram: config.TelegramConfig{
			Token:              "123:abc",
			DropPendingUpdates: true,
			Locale:             "en",
			APIEndpoint:        botEndpoint,
		},
		Cache: config.CacheConfig{
			StatsTTL:  time.Minute,
			MarketTTL: time.Minute,
		},
		Upstream: config.UpstreamConfig{
			StatsURL:            upstreamURL + "/users_snapshot.json",
			Timeout:             2 * time.Second,
			ChartTimeout:        2 * time.Second,
			BinanceURL:          upstreamURL,
			CoinbaseURL:         upstreamURL,
			ExchangeRateHostURL: upstreamURL,
			OpenERURL:           upstreamURL,
			QuickChartURL:       upstreamURL,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 1,
			Timeout:          time.Minute,
		},
	}
}

func textUpdateJSON(text string) string {
	return fmt.Sprintf(`{"update_id":1,"message":{"message_id":3,"date":1700000000,`+
		`"chat":{"id":42,"type":"private"},"from":{"id":42,"is_bot":false,"first_name":"A"},"text":%q}}`, text)
}
