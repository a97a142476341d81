// Package cache provides a TTL-bounded, single-flight cache for values fetched from upstream sources.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/giga-bot/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// defaultFetchTimeout bounds a shared fetch when the store is not configured otherwise.
const defaultFetchTimeout = time.Minute

// FetchFunc produces a fresh value for a key. It owns its own timeout and fallback policy.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// UsableFunc reports whether a cached value may be served without a refresh.
type UsableFunc[V any] func(V) bool

// Clock is a monotonic time source used to measure entry age.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now returns time.Now(), whose monotonic reading keeps Sub immune to wall-clock changes.
func (systemClock) Now() time.Time { return time.Now() }

// Stats provides store performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Fetches   int64
	Coalesced int64
	Failures  int64
}

// slot holds the state for a single key. Slots are never removed.
type slot[V any] struct {
	mu        sync.Mutex
	value     V
	fetchedAt time.Time
	hasValue  bool
}

// Store caches one value per key and guarantees at most one concurrent fetch per key.
type Store[V any] struct {
	name         string
	clock        Clock
	usable       UsableFunc[V]
	fetchTimeout time.Duration

	mu    sync.RWMutex
	slots map[string]*slot[V]
	group singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	fetches   atomic.Int64
	coalesced atomic.Int64
	failures  atomic.Int64
	// waiting counts callers currently blocked on a refresh.
	waiting atomic.Int64
}

// Option configures a Store.
type Option[V any] func(*Store[V])

// WithClock replaces the clock used to age entries.
func WithClock[V any](c Clock) Option[V] {
	return func(s *Store[V]) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithUsable sets the predicate a cached value must pass to be served.
func WithUsable[V any](fn UsableFunc[V]) Option[V] {
	return func(s *Store[V]) {
		if fn != nil {
			s.usable = fn
		}
	}
}

// WithFetchTimeout bounds a single shared fetch.
func WithFetchTimeout[V any](d time.Duration) Option[V] {
	return func(s *Store[V]) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New creates a Store. The name labels metrics and log lines.
func New[V any](name string, opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		name:         name,
		clock:        systemClock{},
		usable:       func(V) bool { return true },
		fetchTimeout: defaultFetchTimeout,
		slots:        make(map[string]*slot[V]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store name.
func (s *Store[V]) Name() string {
	return s.name
}

// getSlot returns the slot for key, creating it on first access.
func (s *Store[V]) getSlot(key string) *slot[V] {
	s.mu.RLock()
	sl, ok := s.slots[key]
	s.mu.RUnlock()
	if ok {
		return sl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double-check after acquiring lock
	if sl, ok = s.slots[key]; ok {
		return sl
	}
	sl = &slot[V]{}
	s.slots[key] = sl
	return sl
}

// lookup returns the cached value when it is younger than ttl and usable.
func (s *Store[V]) lookup(sl *slot[V], ttl time.Duration) (V, bool) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if !sl.hasValue || s.clock.Now().Sub(sl.fetchedAt) >= ttl || !s.usable(sl.value) {
		var zero V
		return zero, false
	}
	return sl.value, true
}

// Get returns the value for key, refreshing it through fetch when it is missing, older than
// ttl, not usable, or force is set.
//
// A fresh value is returned without waiting, even while a refresh for the key is running.
// Otherwise the caller joins the refresh in flight, or starts one, and receives its outcome.
// A failed fetch leaves the previous value in place for later callers, but the error is
// returned to everyone who shared that fetch. The fetch is detached from the caller that
// started it, so a caller leaving early on ctx does not fail the others.
func (s *Store[V]) Get(ctx context.Context, key string, ttl time.Duration, force bool, fetch FetchFunc[V]) (V, error) {
	sl := s.getSlot(key)

	if !force {
		if v, ok := s.lookup(sl, ttl); ok {
			s.hits.Add(1)
			metrics.RecordCacheOperation(s.name, "get", "hit")
			return v, nil
		}
	}

	led := false
	ch := s.group.DoChan(key, func() (any, error) {
		led = true
		return s.refresh(ctx, key, sl, ttl, force, fetch)
	})
	s.waiting.Add(1)
	defer s.waiting.Add(-1)

	select {
	case res := <-ch:
		if !led {
			s.coalesced.Add(1)
			metrics.RecordCacheOperation(s.name, "get", "coalesced")
		}
		v, _ := res.Val.(V)
		return v, res.Err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// refresh runs inside the singleflight group, once per flight.
func (s *Store[V]) refresh(ctx context.Context, key string, sl *slot[V], ttl time.Duration, force bool, fetch FetchFunc[V]) (V, error) {
	// A flight that finished between the caller's lookup and this one may have filled the slot.
	if !force {
		if v, ok := s.lookup(sl, ttl); ok {
			s.hits.Add(1)
			metrics.RecordCacheOperation(s.name, "get", "hit")
			return v, nil
		}
		metrics.RecordCacheOperation(s.name, "get", "miss")
	} else {
		metrics.RecordCacheOperation(s.name, "get", "forced")
	}
	s.misses.Add(1)
	s.fetches.Add(1)

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	start := time.Now()
	v, err := invoke(fetchCtx, fetch)

	sl.mu.Lock()
	if err == nil {
		sl.value = v
		sl.fetchedAt = s.clock.Now()
		sl.hasValue = true
	}
	sl.mu.Unlock()

	if err != nil {
		s.failures.Add(1)
		metrics.RecordCacheOperation(s.name, "refresh", "error")
		log.Warn().
			Err(err).
			Str("store", s.name).
			Str("key", key).
			Dur("duration", time.Since(start)).
			Msg("Cache refresh failed")
		return v, err
	}

	metrics.RecordCacheOperation(s.name, "refresh", "success")
	log.Debug().
		Str("store", s.name).
		Str("key", key).
		Dur("duration", time.Since(start)).
		Msg("Cache refreshed")
	return v, nil
}

// invoke turns a panicking fetch into a PanicError.
func invoke[V any](ctx context.Context, fetch FetchFunc[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			v, err = zero, &PanicError{Value: r}
		}
	}()
	return fetch(ctx)
}

// peek returns the cached value for key without fetching, regardless of age.
func (s *Store[V]) peek(key string) (V, bool) {
	sl := s.getSlot(key)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.value, sl.hasValue
}

// Age returns how long ago key was last fetched successfully.
func (s *Store[V]) Age(key string) (time.Duration, bool) {
	sl := s.getSlot(key)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if !sl.hasValue {
		return 0, false
	}
	return s.clock.Now().Sub(sl.fetchedAt), true
}

// Stats returns a snapshot of the store counters.
func (s *Store[V]) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Fetches:   s.fetches.Load(),
		Coalesced: s.coalesced.Load(),
		Failures:  s.failures.Load(),
	}
}
