package report

import (
	"strconv"

	"github.com/wonny/niftyscreen/internal/contracts"
)

// ChartPoint is one day of the drill-down charts
type ChartPoint struct {
	Date   string   `json:"date"`
	Close  float64  `json:"close"`
	SMA50  *float64 `json:"sma_50"`
	SMA200 *float64 `json:"sma_200"`
	RSI    *float64 `json:"rsi"`
	Volume int64    `json:"volume"`
}

// StockDetail is the drill-down view of one symbol
type StockDetail struct {
	Symbol           contracts.Symbol `json:"symbol"`
	CompanyName      string           `json:"company_name"`
	CurrentPrice     string           `json:"current_price"`
	MarketCap        string           `json:"market_cap"`
	TrailingPE       string           `json:"pe_ratio"`
	PriceToBook      string           `json:"pb_ratio"`
	ReturnOnEquity   string           `json:"roe"`
	DebtToEquity     string           `json:"debt_to_equity"`
	RevenueGrowth    string           `json:"revenue_growth"`
	FiftyTwoWeekHigh string           `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  string           `json:"fifty_two_week_low"`
	Series           []ChartPoint     `json:"series"`
}

// Detail builds the drill-down view, keeping the last days of the series (all when days <= 0)
func Detail(snap *contracts.StockSnapshot, days int) *StockDetail {
	q := snap.Quote
	d := &StockDetail{
		Symbol:           q.Symbol,
		CompanyName:      q.CompanyName,
		CurrentPrice:     Number(q.CurrentPrice),
		MarketCap:        MarketCap(q.MarketCap),
		TrailingPE:       Number(q.TrailingPE),
		PriceToBook:      Number(q.PriceToBook),
		ReturnOnEquity:   Percent(q.ReturnOnEquity),
		DebtToEquity:     Number(q.DebtToEquity),
		RevenueGrowth:    Percent(q.RevenueGrowth),
		FiftyTwoWeekHigh: Number(q.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  Number(q.FiftyTwoWeekLow),
	}

	points := snap.Indicators.Tail(days)
	d.Series = make([]ChartPoint, 0, len(points))
	for _, p := range points {
		d.Series = append(d.Series, ChartPoint{
			Date:   p.Date.Format("2006-01-02"),
			Close:  p.Close,
			SMA50:  p.SMA50,
			SMA200: p.SMA200,
			RSI:    p.RSI,
			Volume: p.Volume,
		})
	}

	return d
}

// Summary renders the headline numbers of a drill-down as a two-column table
func (d *StockDetail) Summary() *Table {
	return &Table{
		Title:   d.CompanyName + " (" + d.Symbol.String() + ")",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Current Price", d.CurrentPrice},
			{"Market Cap", d.MarketCap},
			{"P/E Ratio", d.TrailingPE},
			{"P/B Ratio", d.PriceToBook},
			{"ROE", d.ReturnOnEquity},
			{"Debt to Equity", d.DebtToEquity},
			{"Revenue Growth", d.RevenueGrowth},
			{"52 Week High", d.FiftyTwoWeekHigh},
			{"52 Week Low", d.FiftyTwoWeekLow},
		},
	}
}

// SeriesTable renders the chart series as rows
func (d *StockDetail) SeriesTable() *Table {
	t := &Table{
		Headers: []string{"Date", "Close", "SMA_50", "SMA_200", "RSI", "Volume"},
		Rows:    make([][]string, 0, len(d.Series)),
	}
	for _, p := range d.Series {
		c := p.Close
		t.Rows = append(t.Rows, []string{
			p.Date, Number(&c), Number(p.SMA50), Number(p.SMA200), Number(p.RSI), formatInt(p.Volume),
		})
	}
	return t
}

func formatInt(v int64) string {
	return groupThousands(strconv.FormatInt(v, 10))
}
