package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/indicators"
	"github.com/wonny/niftyscreen/internal/quotes"
	"github.com/wonny/niftyscreen/internal/strategy"
	"github.com/wonny/niftyscreen/internal/universe"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// FallbackWarning is surfaced when the remote constituent list could not be used
const FallbackWarning = "Could not download Nifty 50 list from NSE. Using a default list."

// UniverseSource lists the symbols to screen
type UniverseSource interface {
	List(ctx context.Context) *universe.Listing
}

// QuoteFetcher loads quote records
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol contracts.Symbol) (*contracts.QuoteRecord, error)
	FetchAll(ctx context.Context, symbols []contracts.Symbol, progress quotes.Progress) *quotes.Batch
}

// Collection is the enriched universe ready for screening
type Collection struct {
	Dataset     contracts.Dataset
	Listing     *universe.Listing
	Failed      []contracts.Symbol
	CollectedAt time.Time
}

// Warnings returns the user-facing notes about degraded data
func (c *Collection) Warnings() []string {
	var warnings []string
	if c.Listing != nil && c.Listing.Fallback {
		warnings = append(warnings, FallbackWarning)
	}
	if len(c.Failed) > 0 {
		total := len(c.Failed) + len(c.Dataset)
		warnings = append(warnings, fmt.Sprintf("Could not fetch data for %d of %d stocks; they were skipped.", len(c.Failed), total))
	}
	return warnings
}

// Report is one screening run as shown to the user
type Report struct {
	Result           *contracts.ScreenResult `json:"result"`
	Description      strategy.Description    `json:"description"`
	Failed           int                     `json:"failed"`
	FallbackUniverse bool                    `json:"fallback_universe"`
	Notice           string                  `json:"notice,omitempty"`
	Warnings         []string                `json:"warnings,omitempty"`
}

// Runner wires symbol source, quote fetcher, indicator engine and evaluator
// SSOT: the screening flow is assembled here only
type Runner struct {
	universe  UniverseSource
	fetcher   QuoteFetcher
	evaluator *strategy.Evaluator
	logger    *logger.Logger
}

// NewRunner creates a new pipeline runner
func NewRunner(u UniverseSource, f QuoteFetcher, e *strategy.Evaluator, log *logger.Logger) *Runner {
	return &Runner{
		universe:  u,
		fetcher:   f,
		evaluator: e,
		logger:    log.WithModule("pipeline"),
	}
}

// Universe returns the current symbol listing
func (r *Runner) Universe(ctx context.Context) *universe.Listing {
	return r.universe.List(ctx)
}

// Collect fetches every symbol of the universe and computes its indicators
// Fails only when not a single symbol could be fetched
func (r *Runner) Collect(ctx context.Context, progress quotes.Progress) (*Collection, error) {
	start := time.Now()

	listing := r.universe.List(ctx)
	batch := r.fetcher.FetchAll(ctx, listing.Symbols(), progress)

	dataset := make(contracts.Dataset, len(batch.Quotes))
	for sym, q := range batch.Quotes {
		dataset[sym] = &contracts.StockSnapshot{
			Quote:      q,
			Indicators: indicators.Compute(q.History),
		}
	}

	collection := &Collection{
		Dataset:     dataset,
		Listing:     listing,
		Failed:      batch.Failed,
		CollectedAt: time.Now(),
	}

	if len(dataset) == 0 {
		r.logger.WithField("symbols", len(listing.Constituents)).Error("No stock data could be fetched")
		return collection, contracts.ErrNoData
	}

	r.logger.WithFields(map[string]interface{}{
		"symbols":  len(listing.Constituents),
		"fetched":  len(dataset),
		"failed":   len(batch.Failed),
		"fallback": listing.Fallback,
		"duration": time.Since(start),
	}).Info("Collection completed")

	return collection, nil
}

// Screen collects the universe and applies one strategy to it
func (r *Runner) Screen(ctx context.Context, name strategy.Name, params strategy.Params, progress quotes.Progress) (*Report, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	collection, err := r.Collect(ctx, progress)
	if err != nil {
		return nil, err
	}

	return r.Evaluate(collection, name, params)
}

// Evaluate applies one strategy to an existing collection
func (r *Runner) Evaluate(collection *Collection, name strategy.Name, params strategy.Params) (*Report, error) {
	result, err := r.evaluator.Evaluate(collection.Dataset, name, params)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", name, err)
	}

	report := &Report{
		Result:           result,
		Description:      strategy.Describe(name, params),
		Failed:           len(collection.Failed),
		FallbackUniverse: collection.Listing != nil && collection.Listing.Fallback,
		Warnings:         collection.Warnings(),
	}
	if result.Empty() {
		report.Notice = strategy.NoMatchesHint
	}

	return report, nil
}

// Stock returns one symbol's quote and indicator series for drill-down
func (r *Runner) Stock(ctx context.Context, symbol contracts.Symbol) (*contracts.StockSnapshot, error) {
	q, err := r.fetcher.Fetch(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	return &contracts.StockSnapshot{
		Quote:      q,
		Indicators: indicators.Compute(q.History),
	}, nil
}
