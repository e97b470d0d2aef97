package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/indicators"
	"github.com/wonny/niftyscreen/internal/strategy"
	"github.com/wonny/niftyscreen/pkg/logger"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"number", Number(contracts.Float(3812.254)), "3812.25"},
		{"number absent", Number(nil), NA},
		{"percent", Percent(contracts.Float(0.1234)), "12.34%"},
		{"percent negative", Percent(contracts.Float(-0.05)), "-5.00%"},
		{"percent absent", Percent(nil), NA},
		{"market cap", MarketCap(contracts.Float(1.5e12)), "₹150,000.00 Cr"},
		{"market cap small", MarketCap(contracts.Float(123456789)), "₹12.35 Cr"},
		{"market cap absent", MarketCap(nil), NA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0.50", groupThousands("0.50"))
	assert.Equal(t, "999", groupThousands("999"))
	assert.Equal(t, "1,000", groupThousands("1000"))
	assert.Equal(t, "1,234,567.89", groupThousands("1234567.89"))
	assert.Equal(t, "-12,345.00", groupThousands("-12345.00"))
}

func bars(n int) []contracts.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]contracts.Bar, n)
	for i := range out {
		out[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Close: 100 + float64(i), Volume: 1000}
	}
	return out
}

func snapshot(sym contracts.Symbol, f *contracts.Fundamentals) *contracts.StockSnapshot {
	q := contracts.NewQuoteRecord(sym, bars(20), f, time.Now())
	return &contracts.StockSnapshot{Quote: q, Indicators: indicators.Compute(q.History)}
}

func dataset() contracts.Dataset {
	return contracts.Dataset{
		"TCS": snapshot("TCS", &contracts.Fundamentals{
			CompanyName:    "Tata Consultancy Services Ltd.",
			ReturnOnEquity: contracts.Float(0.45),
			DebtToEquity:   contracts.Float(0.09),
			TrailingPE:     contracts.Float(29.4),
			MarketCap:      contracts.Float(1.38e13),
		}),
		"ITC": snapshot("ITC", &contracts.Fundamentals{
			CompanyName:    "ITC Ltd.",
			ReturnOnEquity: contracts.Float(0.28),
			DebtToEquity:   contracts.Float(0.01),
		}),
		"NODATA": snapshot("NODATA", nil),
	}
}

func TestResults_QualityColumns(t *testing.T) {
	result, err := strategy.NewEvaluator(logger.Nop()).Evaluate(dataset(), strategy.Quality, strategy.DefaultParams())
	require.NoError(t, err)

	table, err := Results(result)
	require.NoError(t, err)

	assert.Equal(t, "Top Stocks based on Quality Investing Strategy", table.Title)
	assert.Equal(t, []string{"#", "Symbol", "Company Name", "Current Price", "ROE", "Debt to Equity", "P/E Ratio", "Market Cap"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "TCS", "Tata Consultancy Services Ltd.", "119.00", "45.00%", "0.09", "29.40", "₹1,380,000.00 Cr"}, table.Rows[0])
	assert.Equal(t, NA, table.Rows[1][6], "ITC has no P/E")
}

func TestResults_UnknownStrategy(t *testing.T) {
	_, err := Results(&contracts.ScreenResult{Strategy: "magic"})
	assert.Error(t, err)
}

func TestRawData_SortsAbsentLast(t *testing.T) {
	table, err := RawData(dataset(), strategy.Quality)
	require.NoError(t, err)

	assert.Equal(t, []string{"Symbol", "Debt to Equity", "ROE"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "TCS", table.Rows[0][0])
	assert.Equal(t, "ITC", table.Rows[1][0])
	assert.Equal(t, []string{"NODATA", NA, NA}, table.Rows[2])
}

func TestRawData_ValueAscending(t *testing.T) {
	ds := contracts.Dataset{
		"A": snapshot("A", &contracts.Fundamentals{TrailingPE: contracts.Float(30)}),
		"B": snapshot("B", &contracts.Fundamentals{TrailingPE: contracts.Float(10)}),
	}
	table, err := RawData(ds, strategy.Value)
	require.NoError(t, err)
	assert.Equal(t, "B", table.Rows[0][0])
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, &Table{
		Title:   "Demo",
		Headers: []string{"Symbol", "Market Cap"},
		Rows:    [][]string{{"TCS", "₹1.00 Cr"}, {"RELIANCE", NA}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Demo", lines[0])
	assert.Equal(t, "Symbol    Market Cap", lines[1])
	assert.Equal(t, "TCS       ₹1.00 Cr", lines[3])
	assert.Equal(t, "RELIANCE  N/A", lines[4])
}

func TestDetail(t *testing.T) {
	snap := snapshot("TCS", &contracts.Fundamentals{CompanyName: "TCS Ltd.", ReturnOnEquity: contracts.Float(0.5)})

	d := Detail(snap, 5)
	assert.Equal(t, "TCS Ltd.", d.CompanyName)
	assert.Equal(t, "50.00%", d.ReturnOnEquity)
	assert.Equal(t, NA, d.DebtToEquity)
	require.Len(t, d.Series, 5)
	assert.Equal(t, "2024-01-20", d.Series[4].Date)
	assert.Equal(t, 119.0, d.Series[4].Close)
	assert.NotNil(t, d.Series[4].RSI)
	assert.Nil(t, d.Series[4].SMA50)

	assert.Len(t, Detail(snap, 0).Series, 20)
	assert.Len(t, d.Summary().Rows, 9)
	assert.Equal(t, "1,000", d.SeriesTable().Rows[0][5])
}
