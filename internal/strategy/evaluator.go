package strategy

import (
	"fmt"
	"sort"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/pkg/logger"
)

const reasonMissingField = "missing_field"

// rule checks one snapshot; an empty reason means it passed and key is its sort value
type rule struct {
	check     func(s *contracts.StockSnapshot, p Params) (key float64, reason string)
	ascending bool
}

var rules = map[Name]rule{
	Quality:  {check: checkQuality},
	Growth:   {check: checkGrowth},
	Value:    {check: checkValue, ascending: true},
	Momentum: {check: checkMomentum},
}

// Evaluator applies one strategy's filter and ranking to a dataset
// SSOT: screening predicates live here only
type Evaluator struct {
	logger *logger.Logger
}

// NewEvaluator creates a new evaluator
func NewEvaluator(log *logger.Logger) *Evaluator {
	return &Evaluator{logger: log.WithModule("strategy")}
}

// Evaluate filters dataset with the named strategy, sorts by its key and keeps the top entries
// An empty result is not an error
func (e *Evaluator) Evaluate(dataset contracts.Dataset, name Name, params Params) (*contracts.ScreenResult, error) {
	r, ok := rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contracts.ErrUnknownStrategy, name)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Deterministic base order so ties rank by symbol
	symbols := make([]contracts.Symbol, 0, len(dataset))
	for sym := range dataset {
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	passed := make([]contracts.ScreenEntry, 0)
	excluded := make(map[string]int)

	for _, sym := range symbols {
		snap := dataset[sym]
		if snap == nil || snap.Quote == nil {
			excluded[reasonMissingField]++
			continue
		}

		key, reason := r.check(snap, params)
		if reason != "" {
			excluded[reason]++
			continue
		}

		passed = append(passed, contracts.ScreenEntry{
			Symbol:    sym,
			Quote:     snap.Quote,
			Latest:    snap.Indicators.Latest(),
			SortValue: key,
		})
	}

	sort.SliceStable(passed, func(i, j int) bool {
		if r.ascending {
			return passed[i].SortValue < passed[j].SortValue
		}
		return passed[i].SortValue > passed[j].SortValue
	})

	matched := len(passed)
	if len(passed) > params.MaxResults {
		passed = passed[:params.MaxResults]
	}
	for i := range passed {
		passed[i].Rank = i + 1
	}

	result := &contracts.ScreenResult{
		Strategy:  string(name),
		Params:    paramsFor(name, params),
		Entries:   passed,
		Matched:   matched,
		Evaluated: len(dataset),
		Excluded:  excluded,
	}

	e.logger.WithFields(map[string]interface{}{
		"strategy":  name,
		"evaluated": len(dataset),
		"matched":   matched,
		"returned":  len(passed),
		"filters":   excluded,
	}).Info("Screening completed")

	return result, nil
}

func paramsFor(name Name, p Params) map[string]float64 {
	if name != Quality {
		return nil
	}
	return map[string]float64{
		"max_debt_to_equity": p.MaxDebtToEquity,
		"min_roe":            p.MinROE,
	}
}

func checkQuality(s *contracts.StockSnapshot, p Params) (float64, string) {
	q := s.Quote
	if !contracts.Present(q.DebtToEquity, q.ReturnOnEquity) {
		return 0, reasonMissingField
	}
	if *q.DebtToEquity > p.MaxDebtToEquity {
		return 0, "debt_to_equity"
	}
	if *q.ReturnOnEquity < p.MinROE {
		return 0, "roe"
	}
	return *q.ReturnOnEquity, ""
}

func checkGrowth(s *contracts.StockSnapshot, _ Params) (float64, string) {
	q := s.Quote
	if !contracts.Present(q.RevenueGrowth) {
		return 0, reasonMissingField
	}
	if *q.RevenueGrowth <= GrowthMinRevenueGrowth {
		return 0, "revenue_growth"
	}
	return *q.RevenueGrowth, ""
}

// Negative P/E or P/B means losses or negative book value, not cheapness
func checkValue(s *contracts.StockSnapshot, _ Params) (float64, string) {
	q := s.Quote
	if !contracts.Present(q.TrailingPE, q.PriceToBook) {
		return 0, reasonMissingField
	}
	if *q.TrailingPE <= 0 || *q.TrailingPE >= ValueMaxPE {
		return 0, "pe"
	}
	if *q.PriceToBook <= 0 || *q.PriceToBook >= ValueMaxPB {
		return 0, "pb"
	}
	return *q.TrailingPE, ""
}

func checkMomentum(s *contracts.StockSnapshot, _ Params) (float64, string) {
	latest := s.Indicators.Latest()
	price := s.Quote.CurrentPrice
	if !contracts.Present(price, latest.SMA50, latest.SMA200, latest.RSI) {
		return 0, reasonMissingField
	}
	if *price <= *latest.SMA50 {
		return 0, "below_sma50"
	}
	if *latest.SMA50 <= *latest.SMA200 {
		return 0, "sma50_below_sma200"
	}
	if *latest.RSI >= MomentumMaxRSI {
		return 0, "overbought"
	}
	return *latest.RSI, ""
}
