package commands

import (
	"context"
	"fmt"

	"github.com/wonny/niftyscreen/internal/external/nse"
	"github.com/wonny/niftyscreen/internal/external/yahoo"
	"github.com/wonny/niftyscreen/internal/pipeline"
	"github.com/wonny/niftyscreen/internal/quotes"
	"github.com/wonny/niftyscreen/internal/strategy"
	"github.com/wonny/niftyscreen/internal/strategyconfig"
	"github.com/wonny/niftyscreen/internal/universe"
	"github.com/wonny/niftyscreen/pkg/config"
	"github.com/wonny/niftyscreen/pkg/httputil"
	"github.com/wonny/niftyscreen/pkg/logger"
	"github.com/wonny/niftyscreen/pkg/redis"
)

// cachePrefix namespaces shared cache keys in Redis
const cachePrefix = "niftyscreen"

// app holds the wired components shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	runner   *pipeline.Runner
	fetcher  *quotes.Fetcher
	defaults strategy.Params
}

// newApp loads configuration and wires the screening pipeline
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	defaults, err := strategyconfig.Load(cfg.StrategyConfig)
	if err != nil {
		return nil, fmt.Errorf("load strategy config: %w", err)
	}

	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing with in-memory caches only")
		rdb = redis.Disabled()
	}
	shared := redis.NewCache(rdb, cachePrefix)

	nseHTTP := httputil.New(cfg, log).WithHeader("Referer", "https://www.nseindia.com/")
	yahooHTTP := httputil.New(cfg, log).WithCookieJar()
	if rdb.Enabled() {
		limiter := redis.NewRateLimiter(rdb, cachePrefix)
		nseHTTP.WithRateLimiter(limiter, redis.NSERateLimit)
		yahooHTTP.WithRateLimiter(limiter, redis.YahooRateLimit)
	}

	source := universe.NewSource(nse.NewClient(nseHTTP, cfg.Universe.URL, log), cfg.Universe.TTL, log).
		WithSharedCache(shared)
	fetcher := quotes.NewFetcher(yahoo.NewClient(yahooHTTP, cfg, log), cfg.QuoteTTL, cfg.FetchWorkers, log).
		WithSharedCache(shared)

	runner := pipeline.NewRunner(source, fetcher, strategy.NewEvaluator(log), log)

	return &app{
		cfg:      cfg,
		log:      log,
		redis:    rdb,
		runner:   runner,
		fetcher:  fetcher,
		defaults: defaults,
	}, nil
}

// Close releases external connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
