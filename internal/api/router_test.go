package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/niftyscreen/internal/api/handlers"
	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/pipeline"
	"github.com/wonny/niftyscreen/internal/quotes"
	"github.com/wonny/niftyscreen/internal/scheduler"
	"github.com/wonny/niftyscreen/internal/strategy"
	"github.com/wonny/niftyscreen/internal/universe"
	"github.com/wonny/niftyscreen/pkg/logger"
)

type fakeUniverse struct{ listing *universe.Listing }

func (u *fakeUniverse) List(ctx context.Context) *universe.Listing { return u.listing }

type fakeFetcher struct {
	quotes map[contracts.Symbol]*contracts.QuoteRecord
}

func (f *fakeFetcher) Fetch(ctx context.Context, symbol contracts.Symbol) (*contracts.QuoteRecord, error) {
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, contracts.ErrUnavailable
}

func (f *fakeFetcher) FetchAll(ctx context.Context, symbols []contracts.Symbol, progress quotes.Progress) *quotes.Batch {
	batch := &quotes.Batch{Quotes: map[contracts.Symbol]*contracts.QuoteRecord{}, Errors: map[contracts.Symbol]error{}}
	for _, sym := range symbols {
		if q, ok := f.quotes[sym]; ok {
			batch.Quotes[sym] = q
		} else {
			batch.Failed = append(batch.Failed, sym)
		}
	}
	return batch
}

type fakeScheduler struct {
	started []string
}

func (s *fakeScheduler) GetJobStats() map[string]scheduler.JobStats {
	return map[string]scheduler.JobStats{"quote_cache_warm": {JobName: "quote_cache_warm", TotalRuns: 3}}
}

func (s *fakeScheduler) GetJobHistory(jobName string, n int) ([]scheduler.JobResult, error) {
	if jobName != "quote_cache_warm" {
		return nil, scheduler.ErrJobNotFound
	}
	results := []scheduler.JobResult{
		{JobName: jobName, Attempts: 1, Success: true},
		{JobName: jobName, Attempts: 3, Error: "provider timeout"},
		{JobName: jobName, Attempts: 1, Success: true},
	}
	if n < len(results) {
		results = results[len(results)-n:]
	}
	return results, nil
}

func (s *fakeScheduler) RunJob(jobName string) error {
	if jobName != "quote_cache_warm" {
		return scheduler.ErrJobNotFound
	}
	s.started = append(s.started, jobName)
	return nil
}

func history(n int) []contracts.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, n)
	for i := range bars {
		bars[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Close: 100 + float64(i%3), Volume: 500}
	}
	return bars
}

func newTestRouter(quoteMap map[contracts.Symbol]*contracts.QuoteRecord) http.Handler {
	l := &universe.Listing{Constituents: []contracts.Constituent{{Symbol: "TCS"}, {Symbol: "ITC"}}}
	runner := pipeline.NewRunner(&fakeUniverse{listing: l}, &fakeFetcher{quotes: quoteMap}, strategy.NewEvaluator(logger.Nop()), logger.Nop())

	return NewRouter(Handlers{
		Screen:   handlers.NewScreenHandler(runner, strategy.DefaultParams(), logger.Nop()),
		Stock:    handlers.NewStockHandler(runner, ".NS", logger.Nop()),
		Universe: handlers.NewUniverseHandler(runner),
		Jobs:     handlers.NewJobsHandler(&fakeScheduler{}),
	}, logger.Nop())
}

func defaultQuotes() map[contracts.Symbol]*contracts.QuoteRecord {
	return map[contracts.Symbol]*contracts.QuoteRecord{
		"TCS": contracts.NewQuoteRecord("TCS", history(30), &contracts.Fundamentals{
			CompanyName:    "Tata Consultancy Services Ltd.",
			ReturnOnEquity: contracts.Float(0.45),
			DebtToEquity:   contracts.Float(0.1),
		}, time.Now()),
		"ITC": contracts.NewQuoteRecord("ITC", history(30), &contracts.Fundamentals{
			ReturnOnEquity: contracts.Float(0.25),
			DebtToEquity:   contracts.Float(0.0),
		}, time.Now()),
	}
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newTestRouter(defaultQuotes()), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestScreenEndpoint(t *testing.T) {
	rec, body := get(t, newTestRouter(defaultQuotes()), "/api/screen/quality?raw=true")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "quality", data["strategy"])

	entries := data["result"].(map[string]interface{})["entries"].([]interface{})
	require.Len(t, entries, 2)
	assert.Equal(t, "TCS", entries[0].(map[string]interface{})["symbol"])

	rows := data["table"].(map[string]interface{})["rows"].([]interface{})
	assert.Len(t, rows, 2)
	assert.NotNil(t, data["raw_data"])
}

func TestScreenEndpoint_QualityParams(t *testing.T) {
	rec, body := get(t, newTestRouter(defaultQuotes()), "/api/screen/Quality?min_roe=0.3&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	entries := data["result"].(map[string]interface{})["entries"].([]interface{})
	assert.Len(t, entries, 1)
}

func TestScreenEndpoint_NoMatches(t *testing.T) {
	_, body := get(t, newTestRouter(defaultQuotes()), "/api/screen/growth")
	data := body["data"].(map[string]interface{})
	assert.Equal(t, strategy.NoMatchesHint, data["notice"])
}

func TestScreenEndpoint_BadRequests(t *testing.T) {
	router := newTestRouter(defaultQuotes())

	tests := []struct {
		name string
		path string
	}{
		{"unknown strategy", "/api/screen/astrology"},
		{"non-numeric param", "/api/screen/quality?max_de=lots"},
		{"nan thresholds", "/api/screen/quality?max_de=NaN&min_roe=NaN"},
		{"out of range roe", "/api/screen/quality?min_roe=0.75"},
		{"limit above cap", "/api/screen/value?limit=50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, router, tt.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestScreenEndpoint_NoData(t *testing.T) {
	rec, _ := get(t, newTestRouter(nil), "/api/screen/value")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStockEndpoint(t *testing.T) {
	router := newTestRouter(defaultQuotes())

	rec, body := get(t, router, "/api/stocks/tcs.ns?days=10")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "TCS", data["symbol"])
	assert.Len(t, data["series"].([]interface{}), 10)

	rec, _ = get(t, router, "/api/stocks/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniverseAndJobsEndpoints(t *testing.T) {
	router := newTestRouter(defaultQuotes())

	_, body := get(t, router, "/api/universe")
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["constituents"].([]interface{}), 2)
	assert.Equal(t, false, data["fallback"])

	_, body = get(t, router, "/api/jobs")
	jobs := body["data"].(map[string]interface{})
	assert.Contains(t, jobs, "quote_cache_warm")

	_, body = get(t, router, "/api/strategies")
	assert.Len(t, body["data"].([]interface{}), 4)
}

func TestJobEndpoints(t *testing.T) {
	sched := &fakeScheduler{}
	router := NewRouter(Handlers{
		Screen:   handlers.NewScreenHandler(nil, strategy.DefaultParams(), logger.Nop()),
		Stock:    handlers.NewStockHandler(nil, ".NS", logger.Nop()),
		Universe: handlers.NewUniverseHandler(nil),
		Jobs:     handlers.NewJobsHandler(sched),
	}, logger.Nop())

	rec, body := get(t, router, "/api/jobs/quote_cache_warm/history?limit=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "quote_cache_warm", data["job"])
	assert.Len(t, data["results"].([]interface{}), 2)

	rec, _ = get(t, router, "/api/jobs/quote_cache_warm/history?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, router, "/api/jobs/nightly/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/quote_cache_warm/run", nil)
	run := httptest.NewRecorder()
	router.ServeHTTP(run, req)
	assert.Equal(t, http.StatusAccepted, run.Code)
	assert.Equal(t, []string{"quote_cache_warm"}, sched.started)

	req = httptest.NewRequest(http.MethodPost, "/api/jobs/nightly/run", nil)
	run = httptest.NewRecorder()
	router.ServeHTTP(run, req)
	assert.Equal(t, http.StatusNotFound, run.Code)
}

func TestJobEndpoints_WithoutScheduler(t *testing.T) {
	router := NewRouter(Handlers{
		Screen:   handlers.NewScreenHandler(nil, strategy.DefaultParams(), logger.Nop()),
		Stock:    handlers.NewStockHandler(nil, ".NS", logger.Nop()),
		Universe: handlers.NewUniverseHandler(nil),
		Jobs:     handlers.NewJobsHandler(nil),
	}, logger.Nop())

	rec, body := get(t, router, "/api/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["data"])

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/quote_cache_warm/run", nil)
	run := httptest.NewRecorder()
	router.ServeHTTP(run, req)
	assert.Equal(t, http.StatusNotFound, run.Code)
}
