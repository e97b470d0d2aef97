package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/strategy"
)

// Table is a rendered-ready grid of strings
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// row is what a column reads from
type row struct {
	symbol contracts.Symbol
	quote  *contracts.QuoteRecord
	latest contracts.IndicatorPoint
}

type column struct {
	header string
	value  func(r row) string
}

var (
	colSymbol  = column{"Symbol", func(r row) string { return r.symbol.String() }}
	colCompany = column{"Company Name", func(r row) string { return companyName(r) }}
	colPrice   = column{"Current Price", func(r row) string { return Number(r.quote.CurrentPrice) }}
	colROE     = column{"ROE", func(r row) string { return Percent(r.quote.ReturnOnEquity) }}
	colDE      = column{"Debt to Equity", func(r row) string { return Number(r.quote.DebtToEquity) }}
	colPE      = column{"P/E Ratio", func(r row) string { return Number(r.quote.TrailingPE) }}
	colPB      = column{"P/B Ratio", func(r row) string { return Number(r.quote.PriceToBook) }}
	colGrowth  = column{"Revenue Growth", func(r row) string { return Percent(r.quote.RevenueGrowth) }}
	colMcap    = column{"Market Cap", func(r row) string { return MarketCap(r.quote.MarketCap) }}
	colRSI     = column{"RSI", func(r row) string { return Number(r.latest.RSI) }}
	colSMA50   = column{"SMA_50", func(r row) string { return Number(r.latest.SMA50) }}
	colSMA200  = column{"SMA_200", func(r row) string { return Number(r.latest.SMA200) }}
)

// displayColumns are the result columns of each strategy
var displayColumns = map[strategy.Name][]column{
	strategy.Quality:  {colSymbol, colCompany, colPrice, colROE, colDE, colPE, colMcap},
	strategy.Growth:   {colSymbol, colCompany, colPrice, colGrowth, colPE, colMcap},
	strategy.Value:    {colSymbol, colCompany, colPrice, colPE, colPB, colDE, colMcap},
	strategy.Momentum: {colSymbol, colCompany, colPrice, colRSI, colSMA50, colSMA200},
}

// rawView lists the inputs each strategy filters on and how they are sorted
type rawView struct {
	columns   []column
	key       func(r row) *float64
	ascending bool
}

var rawViews = map[strategy.Name]rawView{
	strategy.Quality: {
		columns: []column{colSymbol, colDE, colROE},
		key:     func(r row) *float64 { return r.quote.ReturnOnEquity },
	},
	strategy.Growth: {
		columns: []column{colSymbol, colGrowth},
		key:     func(r row) *float64 { return r.quote.RevenueGrowth },
	},
	strategy.Value: {
		columns:   []column{colSymbol, colPE, colPB},
		key:       func(r row) *float64 { return r.quote.TrailingPE },
		ascending: true,
	},
	strategy.Momentum: {
		columns: []column{colSymbol, colPrice, colSMA50, colSMA200, colRSI},
		key:     func(r row) *float64 { return r.latest.RSI },
	},
}

func companyName(r row) string {
	if r.quote.CompanyName == "" {
		return NA
	}
	return r.quote.CompanyName
}

func headers(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.header
	}
	return out
}

func cells(cols []column, r row) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.value(r)
	}
	return out
}

// Results renders the ranked entries of a screen with the strategy's display columns
func Results(result *contracts.ScreenResult) (*Table, error) {
	name, err := strategy.Parse(result.Strategy)
	if err != nil {
		return nil, err
	}

	cols := displayColumns[name]
	t := &Table{
		Title:   fmt.Sprintf("Top Stocks based on %s Strategy", name.Title()),
		Headers: append([]string{"#"}, headers(cols)...),
		Rows:    make([][]string, 0, len(result.Entries)),
	}

	for _, e := range result.Entries {
		r := row{symbol: e.Symbol, quote: e.Quote, latest: e.Latest}
		t.Rows = append(t.Rows, append([]string{fmt.Sprintf("%d", e.Rank)}, cells(cols, r)...))
	}

	return t, nil
}

// RawData renders the unfiltered strategy inputs of every symbol, absent keys last
func RawData(dataset contracts.Dataset, name strategy.Name) (*Table, error) {
	view, ok := rawViews[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contracts.ErrUnknownStrategy, name)
	}

	rows := make([]row, 0, len(dataset))
	for sym, snap := range dataset {
		if snap == nil || snap.Quote == nil {
			continue
		}
		rows = append(rows, row{symbol: sym, quote: snap.Quote, latest: snap.Indicators.Latest()})
	}

	sort.Slice(rows, func(i, j int) bool {
		ki, kj := view.key(rows[i]), view.key(rows[j])
		switch {
		case ki == nil && kj == nil:
			return rows[i].symbol < rows[j].symbol
		case ki == nil:
			return false
		case kj == nil:
			return true
		case *ki == *kj:
			return rows[i].symbol < rows[j].symbol
		case view.ascending:
			return *ki < *kj
		default:
			return *ki > *kj
		}
	})

	t := &Table{
		Title:   fmt.Sprintf("Raw Data for %s", name.Title()),
		Headers: headers(view.columns),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, cells(view.columns, r))
	}

	return t, nil
}

// Render writes the table as padded text columns
func Render(w io.Writer, t *Table) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, r := range t.Rows {
		for i, c := range r {
			if i < len(widths) && utf8.RuneCountInString(c) > widths[i] {
				widths[i] = utf8.RuneCountInString(c)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(t.Title + "\n")
	}
	writeLine(&b, t.Headers, widths)

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	if total > 2 {
		total -= 2
	}
	b.WriteString(strings.Repeat("─", total) + "\n")

	for _, r := range t.Rows {
		writeLine(&b, r, widths)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeLine(b *strings.Builder, cells []string, widths []int) {
	for i, c := range cells {
		if i >= len(widths) {
			break
		}
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)+2))
		}
	}
	b.WriteString("\n")
}
