package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/pkg/config"
	"github.com/wonny/niftyscreen/pkg/httputil"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// summaryModules are the quoteSummary sections holding the fields we read
const summaryModules = "price,summaryDetail,financialData,defaultKeyStatistics"

// Client is a Yahoo Finance chart and quoteSummary client
type Client struct {
	httpClient   *httputil.Client
	limiter      *rate.Limiter
	logger       *logger.Logger
	chartURL     string
	summaryURL   string
	cookieURL    string
	crumbURL     string
	historyRange string
	suffix       string

	crumbMu sync.Mutex
	crumb   string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Yahoo.RateLimit), 1),
		logger:       log.WithModule("yahoo"),
		chartURL:     cfg.Yahoo.ChartURL,
		summaryURL:   cfg.Yahoo.SummaryURL,
		cookieURL:    cfg.Yahoo.CookieURL,
		crumbURL:     cfg.Yahoo.CrumbURL,
		historyRange: cfg.Yahoo.HistoryRange,
		suffix:       cfg.Universe.SymbolSuffix,
	}
}

// FetchHistory fetches daily bars covering the configured range, oldest first
func (c *Client) FetchHistory(ctx context.Context, symbol contracts.Symbol) ([]contracts.Bar, error) {
	endpoint := fmt.Sprintf("%s/%s?range=%s&interval=1d",
		c.chartURL, url.PathEscape(symbol.ProviderTicker(c.suffix)), url.QueryEscape(c.historyRange))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	bars, err := ParseChart(body)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Fetched price history")

	return bars, nil
}

// FetchFundamentals fetches the named fundamentals snapshot
// quoteSummary needs a session crumb; a 401 refreshes it once
func (c *Client) FetchFundamentals(ctx context.Context, symbol contracts.Symbol) (*contracts.Fundamentals, error) {
	body, err := c.getSummary(ctx, symbol, false)
	if isUnauthorized(err) {
		c.logger.WithField("symbol", symbol).Debug("Crumb rejected, refreshing")
		body, err = c.getSummary(ctx, symbol, true)
	}
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", symbol, err)
	}

	f, err := ParseSummary(body)
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", symbol, err)
	}

	return f, nil
}

func (c *Client) getSummary(ctx context.Context, symbol contracts.Symbol, refresh bool) ([]byte, error) {
	crumb, err := c.sessionCrumb(ctx, refresh)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s?modules=%s&crumb=%s",
		c.summaryURL, url.PathEscape(symbol.ProviderTicker(c.suffix)), summaryModules, url.QueryEscape(crumb))

	return c.get(ctx, endpoint)
}

// sessionCrumb returns the cached crumb, or visits the cookie endpoint and asks for a new one
func (c *Client) sessionCrumb(ctx context.Context, refresh bool) (string, error) {
	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()

	if c.crumb != "" && !refresh {
		return c.crumb, nil
	}

	// The cookie host answers 404 but still sets the session cookie
	resp, err := c.httpClient.Get(ctx, c.cookieURL)
	if err != nil {
		return "", fmt.Errorf("%w: session cookie: %v", contracts.ErrNetworkFailure, err)
	}
	resp.Body.Close()

	body, err := c.get(ctx, c.crumbURL)
	if err != nil {
		return "", fmt.Errorf("crumb: %w", err)
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("%w: crumb endpoint returned no crumb", contracts.ErrNetworkFailure)
	}

	c.crumb = crumb
	c.logger.Debug("Obtained quoteSummary crumb")

	return crumb, nil
}

func isUnauthorized(err error) bool {
	var statusErr *httputil.StatusError
	return errors.As(err, &statusErr) &&
		(statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden)
}

// get waits for the limiter and maps provider failures onto the contract errors
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", contracts.ErrNetworkFailure, err)
	}

	body, err := c.httpClient.GetBody(ctx, endpoint)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", contracts.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", contracts.ErrNetworkFailure, err)
	}

	return body, nil
}
