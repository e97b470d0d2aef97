package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/pkg/cache"
	"github.com/wonny/niftyscreen/pkg/logger"
	"github.com/wonny/niftyscreen/pkg/redis"
)

// Provider is the market data source behind the fetcher
type Provider interface {
	FetchHistory(ctx context.Context, symbol contracts.Symbol) ([]contracts.Bar, error)
	FetchFundamentals(ctx context.Context, symbol contracts.Symbol) (*contracts.Fundamentals, error)
}

// Fetcher builds QuoteRecords and caches them per symbol
// SSOT: every quote read goes through this fetcher
type Fetcher struct {
	provider Provider
	memory   *cache.Memory[*contracts.QuoteRecord]
	shared   *redis.Cache
	group    singleflight.Group
	workers  int
	now      cache.Clock
	logger   *logger.Logger
}

// NewFetcher creates a fetcher caching quotes for ttl and fetching with the given worker count
func NewFetcher(provider Provider, ttl time.Duration, workers int, log *logger.Logger) *Fetcher {
	if workers < 1 {
		workers = 1
	}

	return &Fetcher{
		provider: provider,
		memory:   cache.NewMemory[*contracts.QuoteRecord](ttl),
		workers:  workers,
		now:      time.Now,
		logger:   log.WithModule("quotes"),
	}
}

// WithSharedCache adds a Redis second-level cache
func (f *Fetcher) WithSharedCache(shared *redis.Cache) *Fetcher {
	f.shared = shared
	return f
}

// WithClock replaces the time source for cache expiry and FetchedAt stamps
func (f *Fetcher) WithClock(now cache.Clock) *Fetcher {
	f.now = now
	f.memory.WithClock(now)
	return f
}

// PurgeExpired evicts stale quotes from the in-process cache
func (f *Fetcher) PurgeExpired() int {
	return f.memory.Purge()
}

// Fetch returns the quote record for symbol, from cache when fresh
// Concurrent calls for one symbol share a single provider round-trip
func (f *Fetcher) Fetch(ctx context.Context, symbol contracts.Symbol) (*contracts.QuoteRecord, error) {
	key := redis.QuoteKey(symbol.String())

	if q, ok := f.memory.Get(key); ok {
		return q, nil
	}

	v, err, _ := f.group.Do(key, func() (interface{}, error) {
		if q, ok := f.memory.Get(key); ok {
			return q, nil
		}

		if q := f.readShared(ctx, key); q != nil {
			f.memory.Set(key, q)
			return q, nil
		}

		q, err := f.load(ctx, symbol)
		if err != nil {
			return nil, err
		}

		f.memory.Set(key, q)
		f.writeShared(ctx, key, q)
		return q, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*contracts.QuoteRecord), nil
}

// load pulls history and fundamentals; only a history failure drops the symbol
func (f *Fetcher) load(ctx context.Context, symbol contracts.Symbol) (*contracts.QuoteRecord, error) {
	history, err := f.provider.FetchHistory(ctx, symbol)
	if err != nil {
		if errors.Is(err, contracts.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", contracts.ErrUnavailable, err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s: empty price history", contracts.ErrUnavailable, symbol)
	}

	fundamentals, err := f.provider.FetchFundamentals(ctx, symbol)
	if err != nil {
		f.logger.WithError(err).WithField("symbol", symbol).Debug("Fundamentals unavailable, keeping price history only")
		fundamentals = nil
	}

	return contracts.NewQuoteRecord(symbol, history, fundamentals, f.now()), nil
}

func (f *Fetcher) readShared(ctx context.Context, key string) *contracts.QuoteRecord {
	if !f.shared.Enabled() {
		return nil
	}

	var q contracts.QuoteRecord
	found, err := f.shared.Get(ctx, key, &q)
	if err != nil {
		f.logger.WithError(err).WithField("key", key).Warn("Shared cache read failed")
		return nil
	}
	if !found {
		return nil
	}

	return &q
}

func (f *Fetcher) writeShared(ctx context.Context, key string, q *contracts.QuoteRecord) {
	if !f.shared.Enabled() {
		return
	}

	if err := f.shared.Set(ctx, key, q, f.memory.TTL()); err != nil {
		f.logger.WithError(err).WithField("key", key).Warn("Shared cache write failed")
	}
}
