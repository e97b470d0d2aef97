package contracts

import "time"

// IndicatorPoint holds the derived indicators for one trading day
type IndicatorPoint struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
	SMA50  *float64  `json:"sma_50"`
	SMA200 *float64  `json:"sma_200"`
	RSI    *float64  `json:"rsi"`
}

// IndicatorRecord is aligned one-to-one with the price history it was computed from
type IndicatorRecord struct {
	Points []IndicatorPoint `json:"points"`
}

// Latest returns the most recent point, or an empty point when there is no history
func (r *IndicatorRecord) Latest() IndicatorPoint {
	if r == nil || len(r.Points) == 0 {
		return IndicatorPoint{}
	}
	return r.Points[len(r.Points)-1]
}

// Len returns the number of points
func (r *IndicatorRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Points)
}

// Tail returns the last n points (all of them when n <= 0 or n exceeds the length)
func (r *IndicatorRecord) Tail(n int) []IndicatorPoint {
	if r == nil {
		return nil
	}
	if n <= 0 || n >= len(r.Points) {
		return r.Points
	}
	return r.Points[len(r.Points)-n:]
}

// StockSnapshot is one symbol's quote and indicators, the unit the evaluator screens
type StockSnapshot struct {
	Quote      *QuoteRecord     `json:"quote"`
	Indicators *IndicatorRecord `json:"indicators"`
}

// Dataset is the enriched universe, unordered and keyed by symbol
type Dataset map[Symbol]*StockSnapshot
