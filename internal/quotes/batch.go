package quotes

import (
	"context"
	"sync"

	"github.com/wonny/niftyscreen/internal/contracts"
)

// Progress is called once per finished symbol with done running 1..total
type Progress func(done, total int, symbol contracts.Symbol)

// Batch is the outcome of fetching a whole universe
type Batch struct {
	Quotes map[contracts.Symbol]*contracts.QuoteRecord
	Failed []contracts.Symbol // input order
	Errors map[contracts.Symbol]error

	// NoFundamentals lists fetched symbols that carry price history only, input order
	NoFundamentals []contracts.Symbol
}

type fetchResult struct {
	index int
	quote *contracts.QuoteRecord
	err   error
}

// FetchAll fetches every symbol on the worker pool; individual failures never abort the batch
// progress may be nil and is always invoked from the calling goroutine
func (f *Fetcher) FetchAll(ctx context.Context, symbols []contracts.Symbol, progress Progress) *Batch {
	total := len(symbols)
	batch := &Batch{
		Quotes: make(map[contracts.Symbol]*contracts.QuoteRecord, total),
		Errors: make(map[contracts.Symbol]error),
	}
	if total == 0 {
		return batch
	}

	workers := f.workers
	if workers > total {
		workers = total
	}

	f.logger.WithFields(map[string]interface{}{
		"symbols": total,
		"workers": workers,
	}).Info("Starting quote collection")

	indexCh := make(chan int, total)
	resultCh := make(chan fetchResult, total)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.worker(ctx, symbols, indexCh, resultCh)
		}()
	}

	for i := range symbols {
		indexCh <- i
	}
	close(indexCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	failed := make([]bool, total)
	done := 0
	for result := range resultCh {
		sym := symbols[result.index]
		done++

		if result.err != nil {
			failed[result.index] = true
			batch.Errors[sym] = result.err
			f.logger.WithError(result.err).WithField("symbol", sym).Debug("Quote fetch failed")
		} else {
			batch.Quotes[sym] = result.quote
		}

		if progress != nil {
			progress(done, total, sym)
		}
	}

	for i, sym := range symbols {
		if failed[i] {
			batch.Failed = append(batch.Failed, sym)
			continue
		}
		if q := batch.Quotes[sym]; q != nil && !q.HasFundamentals {
			batch.NoFundamentals = append(batch.NoFundamentals, sym)
		}
	}

	logEntry := f.logger.WithFields(map[string]interface{}{
		"success": len(batch.Quotes),
		"failed":  len(batch.Failed),
		"total":   total,
	})
	if len(batch.Failed) > 0 {
		logEntry.Warn("Quote collection completed with failures")
	} else {
		logEntry.Info("Quote collection completed")
	}

	if len(batch.NoFundamentals) > 0 {
		f.logger.WithFields(map[string]interface{}{
			"without_fundamentals": len(batch.NoFundamentals),
			"fetched":              len(batch.Quotes),
		}).Warn("Fundamentals missing for some symbols; quality, growth and value cannot rate them")
	}

	return batch
}

func (f *Fetcher) worker(ctx context.Context, symbols []contracts.Symbol, indexCh <-chan int, resultCh chan<- fetchResult) {
	for i := range indexCh {
		select {
		case <-ctx.Done():
			resultCh <- fetchResult{index: i, err: ctx.Err()}
			continue
		default:
		}

		q, err := f.Fetch(ctx, symbols[i])
		resultCh <- fetchResult{index: i, quote: q, err: err}
	}
}
