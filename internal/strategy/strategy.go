package strategy

import (
	"fmt"
	"strings"

	"github.com/wonny/niftyscreen/internal/contracts"
)

// Name identifies one of the screening strategies
type Name string

const (
	Quality  Name = "quality"
	Growth   Name = "growth"
	Value    Name = "value"
	Momentum Name = "momentum"
)

// All lists the strategies in menu order
var All = []Name{Quality, Growth, Value, Momentum}

// Fixed thresholds of the non-adjustable strategies
const (
	GrowthMinRevenueGrowth = 0.15
	ValueMaxPE             = 25.0
	ValueMaxPB             = 3.0
	MomentumMaxRSI         = 75.0
)

// MaxResults caps every screen
const MaxResults = 15

// NoMatchesHint is shown when a screen comes back empty
const NoMatchesHint = "No stocks met the criteria for this strategy from the Nifty 50 list. Please try relaxing your criteria."

var aliases = map[string]Name{
	"quality":            Quality,
	"quality investing":  Quality,
	"growth":             Growth,
	"growth investing":   Growth,
	"value":              Value,
	"value investing":    Value,
	"momentum":           Momentum,
	"technical":          Momentum,
	"technical momentum": Momentum,
}

// Parse resolves a strategy name case-insensitively
func Parse(s string) (Name, error) {
	key := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "-", " "))), " ")
	if name, ok := aliases[key]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q (valid: quality, growth, value, momentum)", contracts.ErrUnknownStrategy, s)
}

// Title returns the display name
func (n Name) Title() string {
	switch n {
	case Quality:
		return "Quality Investing"
	case Growth:
		return "Growth Investing"
	case Value:
		return "Value Investing"
	case Momentum:
		return "Technical Momentum"
	default:
		return string(n)
	}
}

// Params are the user-adjustable thresholds; only Quality reads the ratios
type Params struct {
	MaxDebtToEquity float64 `json:"max_debt_to_equity" yaml:"max_debt_to_equity"`
	MinROE          float64 `json:"min_roe" yaml:"min_roe"` // fraction, 0.12 = 12%
	MaxResults      int     `json:"max_results" yaml:"max_results"`
}

// DefaultParams returns the stock defaults
func DefaultParams() Params {
	return Params{
		MaxDebtToEquity: 1.5,
		MinROE:          0.12,
		MaxResults:      MaxResults,
	}
}

// Validate checks the adjustable ranges: D/E 0-5, ROE 0-50%, 1-15 results
func (p Params) Validate() error {
	if !inRange(p.MaxDebtToEquity, 0, 5) {
		return contracts.ValidationError{Field: "max_debt_to_equity", Message: "must be between 0 and 5"}
	}
	if !inRange(p.MinROE, 0, 0.5) {
		return contracts.ValidationError{Field: "min_roe", Message: "must be between 0 and 0.50"}
	}
	if p.MaxResults < 1 || p.MaxResults > MaxResults {
		return contracts.ValidationError{Field: "max_results", Message: fmt.Sprintf("must be between 1 and %d", MaxResults)}
	}
	return nil
}

// inRange is false for NaN, which compares false against any bound
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Description explains a strategy's criteria to the user
type Description struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Criteria string `json:"criteria"`
	SortedBy string `json:"sorted_by"`
}

// Describe returns the criteria text for name under params
func Describe(name Name, p Params) Description {
	switch name {
	case Quality:
		return Description{
			Title:    name.Title(),
			Summary:  "Financially healthy companies with strong, stable performance.",
			Criteria: fmt.Sprintf("Debt to Equity <= %.1f and Return on Equity >= %.0f%%", p.MaxDebtToEquity, p.MinROE*100),
			SortedBy: "Return on Equity (descending)",
		}
	case Growth:
		return Description{
			Title:    name.Title(),
			Summary:  "Companies with strong growth in revenue.",
			Criteria: fmt.Sprintf("Revenue Growth > %.0f%%", GrowthMinRevenueGrowth*100),
			SortedBy: "Revenue Growth (descending)",
		}
	case Value:
		return Description{
			Title:    name.Title(),
			Summary:  "Undervalued stocks trading below their intrinsic value.",
			Criteria: fmt.Sprintf("P/E Ratio < %.0f, P/B Ratio < %.0f", ValueMaxPE, ValueMaxPB),
			SortedBy: "P/E Ratio (ascending - lower is better)",
		}
	case Momentum:
		return Description{
			Title:    name.Title(),
			Summary:  "Stocks in a strong uptrend.",
			Criteria: fmt.Sprintf("Current Price > 50-Day SMA, 50-Day SMA > 200-Day SMA, RSI < %.0f", MomentumMaxRSI),
			SortedBy: "RSI (descending - higher indicates stronger momentum)",
		}
	default:
		return Description{Title: string(name)}
	}
}
