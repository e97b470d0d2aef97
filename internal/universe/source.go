package universe

import (
	"context"
	_ "embed"
	"sync"
	"time"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/external/nse"
	"github.com/wonny/niftyscreen/pkg/cache"
	"github.com/wonny/niftyscreen/pkg/logger"
	"github.com/wonny/niftyscreen/pkg/redis"
)

//go:embed fallback.csv
var fallbackCSV []byte

const cacheKey = "nifty50"

// Lister downloads the constituent list
type Lister interface {
	FetchConstituents(ctx context.Context) ([]contracts.Constituent, error)
}

// Listing is the symbol universe served to the pipeline
type Listing struct {
	Constituents []contracts.Constituent `json:"constituents"`
	Fallback     bool                    `json:"fallback"`
	FetchedAt    time.Time               `json:"fetched_at"`
}

// Symbols returns the tickers in list order
func (l *Listing) Symbols() []contracts.Symbol {
	return contracts.Symbols(l.Constituents)
}

// Name returns the company name for symbol, or "" when unknown
func (l *Listing) Name(symbol contracts.Symbol) string {
	for _, c := range l.Constituents {
		if c.Symbol == symbol {
			return c.CompanyName
		}
	}
	return ""
}

// Source serves the index universe from the remote list, falling back to the embedded one
type Source struct {
	lister Lister
	cache  *cache.Memory[*Listing]
	shared *redis.Cache
	now    cache.Clock
	logger *logger.Logger
	mu     sync.Mutex
}

// NewSource creates a Source caching results for ttl
func NewSource(lister Lister, ttl time.Duration, log *logger.Logger) *Source {
	return &Source{
		lister: lister,
		cache:  cache.NewMemory[*Listing](ttl),
		now:    time.Now,
		logger: log.WithModule("universe"),
	}
}

// WithSharedCache lets several processes share a successfully downloaded list
func (s *Source) WithSharedCache(shared *redis.Cache) *Source {
	s.shared = shared
	return s
}

// WithClock replaces the time source for cache expiry and FetchedAt stamps
func (s *Source) WithClock(now cache.Clock) *Source {
	s.now = now
	s.cache.WithClock(now)
	return s
}

// List returns the universe; it never fails, a broken endpoint yields the fallback list
func (s *Source) List(ctx context.Context) *Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	if listing, ok := s.cache.Get(cacheKey); ok {
		return listing
	}

	if listing := s.readShared(ctx); listing != nil {
		s.cache.Set(cacheKey, listing)
		return listing
	}

	listing := &Listing{FetchedAt: s.now()}

	list, err := s.lister.FetchConstituents(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Could not download Nifty 50 list, using default list")
		listing.Constituents = Fallback()
		listing.Fallback = true
	} else {
		listing.Constituents = list
		s.logger.WithField("count", len(list)).Info("Universe loaded")
		s.writeShared(ctx, listing)
	}

	s.cache.Set(cacheKey, listing)
	return listing
}

func (s *Source) readShared(ctx context.Context) *Listing {
	if !s.shared.Enabled() {
		return nil
	}

	var listing Listing
	found, err := s.shared.Get(ctx, redis.UniverseKey(cacheKey), &listing)
	if err != nil {
		s.logger.WithError(err).Warn("Shared universe read failed")
		return nil
	}
	if !found || len(listing.Constituents) == 0 {
		return nil
	}

	return &listing
}

func (s *Source) writeShared(ctx context.Context, listing *Listing) {
	if !s.shared.Enabled() {
		return
	}

	if err := s.shared.Set(ctx, redis.UniverseKey(cacheKey), listing, s.cache.TTL()); err != nil {
		s.logger.WithError(err).Warn("Shared universe write failed")
	}
}

// Fallback returns a copy of the embedded default universe
func Fallback() []contracts.Constituent {
	list, err := nse.ParseConstituents(fallbackCSV)
	if err != nil {
		panic("universe: embedded fallback list is invalid: " + err.Error())
	}
	return list
}
