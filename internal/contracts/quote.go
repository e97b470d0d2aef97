package contracts

import "time"

// Bar is one trading day of price history
type Bar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// QuoteRecord is the per-symbol snapshot produced by the quote fetcher
// Read-only once built; fundamentals are nil when the provider omitted them
type QuoteRecord struct {
	Symbol      Symbol `json:"symbol"`
	CompanyName string `json:"company_name"`

	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`

	// Valuation
	TrailingPE  *float64 `json:"trailing_pe"`
	PriceToBook *float64 `json:"price_to_book"`

	// Quality
	ReturnOnEquity *float64 `json:"return_on_equity"` // fraction, 0.18 = 18%
	DebtToEquity   *float64 `json:"debt_to_equity"`   // ratio, 0.45 = 45%

	// Growth
	RevenueGrowth *float64 `json:"revenue_growth"` // fraction, year over year

	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low"`

	HasFundamentals bool `json:"has_fundamentals"` // false when only price history could be fetched

	History   []Bar     `json:"history"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LastClose returns the most recent close in the history
func (q *QuoteRecord) LastClose() *float64 {
	if len(q.History) == 0 {
		return nil
	}
	return Float(q.History[len(q.History)-1].Close)
}

// Fundamentals is the provider's snapshot of named numeric fields
type Fundamentals struct {
	CompanyName      string
	CurrentPrice     *float64
	MarketCap        *float64
	TrailingPE       *float64
	PriceToBook      *float64
	ReturnOnEquity   *float64
	DebtToEquity     *float64
	RevenueGrowth    *float64
	FiftyTwoWeekHigh *float64
	FiftyTwoWeekLow  *float64
}

// NewQuoteRecord combines price history with an optional fundamentals snapshot
// When fundamentals lack a current price the last close stands in for it
func NewQuoteRecord(symbol Symbol, history []Bar, f *Fundamentals, fetchedAt time.Time) *QuoteRecord {
	q := &QuoteRecord{
		Symbol:    symbol,
		History:   history,
		FetchedAt: fetchedAt,
	}

	if f != nil {
		q.HasFundamentals = true
		q.CompanyName = f.CompanyName
		q.CurrentPrice = f.CurrentPrice
		q.MarketCap = f.MarketCap
		q.TrailingPE = f.TrailingPE
		q.PriceToBook = f.PriceToBook
		q.ReturnOnEquity = f.ReturnOnEquity
		q.DebtToEquity = f.DebtToEquity
		q.RevenueGrowth = f.RevenueGrowth
		q.FiftyTwoWeekHigh = f.FiftyTwoWeekHigh
		q.FiftyTwoWeekLow = f.FiftyTwoWeekLow
	}

	if q.CompanyName == "" {
		q.CompanyName = string(symbol)
	}
	if q.CurrentPrice == nil {
		q.CurrentPrice = q.LastClose()
	}

	return q
}
