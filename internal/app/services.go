// Package app provides service initialization.
package app

import (
	"github.com/guttosm/giga-bot/config"
	"github.com/guttosm/giga-bot/internal/circuitbreaker"
	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/service"
	"github.com/guttosm/giga-bot/internal/upstream"
)

// Breaker names, also used as readiness check names.
const (
	BreakerStats            = "stats_site"
	BreakerBinance          = "binance"
	BreakerCoinbase         = "coinbase"
	BreakerExchangeRateHost = "exchangerate_host"
	BreakerOpenER           = "open_er"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Stats    *service.StatsService
	Market   *service.MarketService
	Charts   *service.ChartService
	Breakers map[string]*circuitbreaker.CircuitBreaker
}

// InitializeServices builds the upstream providers, their fallback chains and the cached services.
func InitializeServices(cfg config.Config) *ServiceComponents {
	client := upstream.NewClient(upstream.WithTimeout(cfg.Upstream.Timeout))

	breakers := make(map[string]*circuitbreaker.CircuitBreaker)
	breaker := func(name string) *circuitbreaker.CircuitBreaker {
		cb := circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
			Timeout:          cfg.CircuitBreaker.Timeout,
			Name:             name,
		})
		breakers[name] = cb
		return cb
	}

	site := upstream.NewStatsProvider(client, cfg.Upstream.StatsURL)
	binance := upstream.NewBinance(client, cfg.Upstream.BinanceURL)
	coinbase := upstream.NewCoinbase(client, cfg.Upstream.CoinbaseURL)
	erHost := upstream.NewExchangeRateHost(client, cfg.Upstream.ExchangeRateHostURL)
	openER := upstream.NewOpenER(client, cfg.Upstream.OpenERURL)
	quickChart := upstream.NewQuickChart(client, cfg.Upstream.QuickChartURL, cfg.Upstream.ChartTimeout)

	statsChain := upstream.NewChain("stats",
		upstream.Step[model.UserStats]{Name: BreakerStats, Fetch: site.Fetch, Breaker: breaker(BreakerStats)},
	)
	quotesChain := upstream.NewChain("crypto",
		upstream.Step[upstream.Quotes]{Name: BreakerBinance, Fetch: binance.SpotPrices, Breaker: breaker(BreakerBinance)},
		upstream.Step[upstream.Quotes]{Name: BreakerCoinbase, Fetch: coinbase.SpotPrices, Breaker: breaker(BreakerCoinbase)},
	)
	ratesChain := upstream.NewChain("usd_rub",
		upstream.Step[float64]{Name: BreakerExchangeRateHost, Fetch: erHost.USDRUB, Breaker: breaker(BreakerExchangeRateHost)},
		upstream.Step[float64]{Name: BreakerOpenER, Fetch: openER.USDRUB, Breaker: breaker(BreakerOpenER)},
	)

	return &ServiceComponents{
		Stats:    service.NewStatsService(statsChain, cfg.Cache.StatsTTL),
		Market:   service.NewMarketService(quotesChain, ratesChain, binance, cfg.Cache.MarketTTL),
		Charts:   service.NewChartService(binance, quickChart),
		Breakers: breakers,
	}
}
