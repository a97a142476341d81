// Package service serves the bot's data: cached user stats, cached market prices and coin charts.
package service

import (
	"context"
	"time"

	"github.com/guttosm/giga-bot/internal/cache"
	"github.com/guttosm/giga-bot/internal/domain/model"
)

// StatsKey is the cache key of the site user counters.
const StatsKey = "user_stats"

// StatsFetcher downloads a fresh user snapshot.
type StatsFetcher interface {
	Fetch(ctx context.Context) (model.UserStats, error)
}

// StatsReader defines the interface for reading cached user counters.
type StatsReader interface {
	Get(ctx context.Context, force bool) (model.UserStats, error)
}

// StatsService serves user counters through a TTL cache.
type StatsService struct {
	source StatsFetcher
	store  *cache.Store[model.UserStats]
	ttl    time.Duration
}

// NewStatsService creates a StatsService. A snapshot is only served from cache while both
// counters are present.
func NewStatsService(source StatsFetcher, ttl time.Duration, opts ...cache.Option[model.UserStats]) *StatsService {
	opts = append([]cache.Option[model.UserStats]{
		cache.WithUsable[model.UserStats](model.UserStats.Complete),
	}, opts...)
	return &StatsService{
		source: source,
		store:  cache.New("stats", opts...),
		ttl:    ttl,
	}
}

// Get returns the user counters, fetching them when the cached copy is stale or force is set.
func (s *StatsService) Get(ctx context.Context, force bool) (model.UserStats, error) {
	return s.store.Get(ctx, StatsKey, s.ttl, force, s.source.Fetch)
}

// Stats exposes the underlying store counters.
func (s *StatsService) Stats() cache.Stats {
	return s.store.Stats()
}
