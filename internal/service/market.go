package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/giga-bot/internal/cache"
	"github.com/guttosm/giga-bot/internal/domain/model"
	"github.com/guttosm/giga-bot/internal/timeseries"
	"github.com/guttosm/giga-bot/internal/upstream"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MarketKey is the cache key of the market snapshot.
const MarketKey = "market_prices"

// ErrMarketUnavailable is returned when neither crypto nor FX quotes could be fetched.
var ErrMarketUnavailable = errors.New("market data unavailable")

// QuoteSource returns BTC and ETH spot prices.
type QuoteSource interface {
	Fetch(ctx context.Context) (upstream.Quotes, error)
}

// RateSource returns the USD/RUB rate.
type RateSource interface {
	Fetch(ctx context.Context) (float64, error)
}

// ChangeSource returns the 24h change percentage of a coin.
type ChangeSource interface {
	Change24h(ctx context.Context, coin model.Coin) (float64, error)
}

// MarketReader defines the interface for reading market data.
type MarketReader interface {
	Get(ctx context.Context, force bool) (model.MarketPrices, error)
	Change24h(ctx context.Context, coin model.Coin) timeseries.Measure
}

// MarketService serves crypto prices and the USD/RUB rate through a TTL cache.
type MarketService struct {
	quotes  QuoteSource
	rates   RateSource
	changes ChangeSource
	store   *cache.Store[model.MarketPrices]
	ttl     time.Duration
}

// NewMarketService creates a MarketService. A partial snapshot is usable as long as one quote
// is present.
func NewMarketService(quotes QuoteSource, rates RateSource, changes ChangeSource, ttl time.Duration, opts ...cache.Option[model.MarketPrices]) *MarketService {
	opts = append([]cache.Option[model.MarketPrices]{
		cache.WithUsable[model.MarketPrices](model.MarketPrices.Any),
	}, opts...)
	return &MarketService{
		quotes:  quotes,
		rates:   rates,
		changes: changes,
		store:   cache.New("market", opts...),
		ttl:     ttl,
	}
}

// Get returns the market snapshot, fetching it when the cached copy is stale or force is set.
func (s *MarketService) Get(ctx context.Context, force bool) (model.MarketPrices, error) {
	return s.store.Get(ctx, MarketKey, s.ttl, force, s.fetch)
}

// fetch queries crypto and FX sources in parallel. One failing leg leaves its fields nil.
func (s *MarketService) fetch(ctx context.Context) (model.MarketPrices, error) {
	var (
		prices   model.MarketPrices
		quoteErr error
		rateErr  error
	)

	// Legs never fail the group; each error is kept so a partial snapshot can be served.
	var g errgroup.Group
	g.Go(func() error {
		q, err := s.quotes.Fetch(ctx)
		if err != nil {
			quoteErr = err
			return nil
		}
		prices.BTC, prices.ETH = &q.BTC, &q.ETH
		return nil
	})
	g.Go(func() error {
		rate, err := s.rates.Fetch(ctx)
		if err != nil {
			rateErr = err
			return nil
		}
		prices.USDRUB = &rate
		return nil
	})
	_ = g.Wait()

	if quoteErr != nil && rateErr != nil {
		return model.MarketPrices{}, fmt.Errorf("%w: %w", ErrMarketUnavailable, errors.Join(quoteErr, rateErr))
	}
	if quoteErr != nil {
		log.Warn().Err(quoteErr).Msg("Crypto quotes unavailable, serving partial market data")
	}
	if rateErr != nil {
		log.Warn().Err(rateErr).Msg("USD/RUB rate unavailable, serving partial market data")
	}
	return prices, nil
}

// Change24h returns the coin's 24h change percentage. It is not cached and any failure
// degrades to an unknown measure.
func (s *MarketService) Change24h(ctx context.Context, coin model.Coin) timeseries.Measure {
	pct, err := s.changes.Change24h(ctx, coin)
	if err != nil {
		log.Debug().Err(err).Str("coin", string(coin)).Msg("24h change unavailable")
		return timeseries.Unknown
	}
	return timeseries.Known(pct)
}

// Stats exposes the underlying store counters.
func (s *MarketService) Stats() cache.Stats {
	return s.store.Stats()
}
