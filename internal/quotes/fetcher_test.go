package quotes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/pkg/logger"
)

type fakeProvider struct {
	historyCalls      int32
	fundamentalsCalls int32
	failHistory       map[contracts.Symbol]bool
	failFundamentals  map[contracts.Symbol]bool
	release           chan struct{}
}

func (p *fakeProvider) FetchHistory(ctx context.Context, symbol contracts.Symbol) ([]contracts.Bar, error) {
	atomic.AddInt32(&p.historyCalls, 1)
	if p.release != nil {
		<-p.release
	}
	if p.failHistory[symbol] {
		return nil, contracts.ErrNetworkFailure
	}
	return []contracts.Bar{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Close: 100},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 101},
	}, nil
}

func (p *fakeProvider) FetchFundamentals(ctx context.Context, symbol contracts.Symbol) (*contracts.Fundamentals, error) {
	atomic.AddInt32(&p.fundamentalsCalls, 1)
	if p.failFundamentals[symbol] {
		return nil, errors.New("summary unavailable")
	}
	return &contracts.Fundamentals{
		CompanyName:    string(symbol) + " Ltd.",
		ReturnOnEquity: contracts.Float(0.2),
	}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFetch_BuildsRecord(t *testing.T) {
	f := NewFetcher(&fakeProvider{}, 10*time.Minute, 2, logger.Nop())

	q, err := f.Fetch(context.Background(), "TCS")
	require.NoError(t, err)

	assert.Equal(t, "TCS Ltd.", q.CompanyName)
	assert.Equal(t, 0.2, *q.ReturnOnEquity)
	require.NotNil(t, q.CurrentPrice)
	assert.Equal(t, 101.0, *q.CurrentPrice)
	assert.Len(t, q.History, 2)
}

func TestFetch_HistoryFailureIsUnavailable(t *testing.T) {
	p := &fakeProvider{failHistory: map[contracts.Symbol]bool{"BAD": true}}
	f := NewFetcher(p, 10*time.Minute, 1, logger.Nop())

	_, err := f.Fetch(context.Background(), "BAD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrUnavailable))
	assert.True(t, errors.Is(err, contracts.ErrNetworkFailure))
}

func TestFetch_FundamentalsFailureKeepsHistory(t *testing.T) {
	p := &fakeProvider{failFundamentals: map[contracts.Symbol]bool{"ITC": true}}
	f := NewFetcher(p, 10*time.Minute, 1, logger.Nop())

	q, err := f.Fetch(context.Background(), "ITC")
	require.NoError(t, err)
	assert.Equal(t, "ITC", q.CompanyName)
	assert.Nil(t, q.ReturnOnEquity)
	assert.Nil(t, q.DebtToEquity)
	assert.Len(t, q.History, 2)
}

func TestFetch_CacheTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	p := &fakeProvider{}
	f := NewFetcher(p, 10*time.Minute, 1, logger.Nop()).WithClock(clock.Now)
	ctx := context.Background()

	first, err := f.Fetch(ctx, "INFY")
	require.NoError(t, err)

	clock.Advance(9 * time.Minute)
	second, err := f.Fetch(ctx, "INFY")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.historyCalls))

	clock.Advance(time.Minute)
	_, err = f.Fetch(ctx, "INFY")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&p.historyCalls))
}

func TestPurgeExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	f := NewFetcher(&fakeProvider{}, 10*time.Minute, 1, logger.Nop()).WithClock(clock.Now)
	ctx := context.Background()

	_, err := f.Fetch(ctx, "INFY")
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)
	_, err = f.Fetch(ctx, "TCS")
	require.NoError(t, err)

	assert.Equal(t, 0, f.PurgeExpired())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, f.PurgeExpired())
	assert.Equal(t, 1, f.memory.Len())
}

func TestFetch_FailuresAreNotCached(t *testing.T) {
	p := &fakeProvider{failHistory: map[contracts.Symbol]bool{"BAD": true}}
	f := NewFetcher(p, 10*time.Minute, 1, logger.Nop())

	_, _ = f.Fetch(context.Background(), "BAD")
	_, _ = f.Fetch(context.Background(), "BAD")
	assert.Equal(t, int32(2), atomic.LoadInt32(&p.historyCalls))
}

func TestFetch_ConcurrentCallsShareOneFetch(t *testing.T) {
	p := &fakeProvider{release: make(chan struct{})}
	f := NewFetcher(p, 10*time.Minute, 1, logger.Nop())

	var wg sync.WaitGroup
	results := make([]*contracts.QuoteRecord, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q, err := f.Fetch(context.Background(), "HDFCBANK")
			assert.NoError(t, err)
			results[i] = q
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(p.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&p.historyCalls))
	assert.Same(t, results[0], results[1])
}
