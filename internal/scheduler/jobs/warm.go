package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/niftyscreen/internal/pipeline"
	"github.com/wonny/niftyscreen/internal/quotes"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// Collector is the part of the pipeline the warmer drives
type Collector interface {
	Collect(ctx context.Context, progress quotes.Progress) (*pipeline.Collection, error)
}

// Purger drops expired cache entries and reports how many went
type Purger interface {
	PurgeExpired() int
}

// WarmJob refreshes the universe and quote caches ahead of interactive screens
type WarmJob struct {
	collector Collector
	purger    Purger
	schedule  string
	logger    *logger.Logger
}

// NewWarmJob creates a new cache warm-up job
func NewWarmJob(collector Collector, schedule string, log *logger.Logger) *WarmJob {
	return &WarmJob{
		collector: collector,
		schedule:  schedule,
		logger:    log.WithModule("warm_job"),
	}
}

// WithPurger evicts expired entries before each warm-up
func (j *WarmJob) WithPurger(p Purger) *WarmJob {
	j.purger = p
	return j
}

// Name returns the job name
func (j *WarmJob) Name() string {
	return "quote_cache_warm"
}

// Schedule returns the cron schedule (with seconds)
func (j *WarmJob) Schedule() string {
	return j.schedule
}

// Run collects the whole universe once, filling the caches
func (j *WarmJob) Run(ctx context.Context) error {
	purged := 0
	if j.purger != nil {
		purged = j.purger.PurgeExpired()
	}

	collection, err := j.collector.Collect(ctx, nil)
	if err != nil {
		return fmt.Errorf("warm caches: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"fetched":  len(collection.Dataset),
		"failed":   len(collection.Failed),
		"fallback": collection.Listing != nil && collection.Listing.Fallback,
		"purged":   purged,
	}).Info("Caches warmed")

	return nil
}
