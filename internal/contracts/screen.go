package contracts

// ScreenEntry is one ranked row of a screen
type ScreenEntry struct {
	Rank      int            `json:"rank"` // 1-based
	Symbol    Symbol         `json:"symbol"`
	Quote     *QuoteRecord   `json:"-"`
	Latest    IndicatorPoint `json:"latest"`
	SortValue float64        `json:"sort_value"`
}

// ScreenResult is the ordered, truncated output of one strategy evaluation
type ScreenResult struct {
	Strategy  string             `json:"strategy"`
	Params    map[string]float64 `json:"params,omitempty"`
	Entries   []ScreenEntry      `json:"entries"`
	Matched   int                `json:"matched"`   // before truncation
	Evaluated int                `json:"evaluated"` // dataset size
	Excluded  map[string]int     `json:"excluded"`  // reason -> count
}

// Empty reports whether no symbol passed the strategy
func (r *ScreenResult) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// Symbols returns the ranked tickers in order
func (r *ScreenResult) Symbols() []Symbol {
	if r == nil {
		return nil
	}
	out := make([]Symbol, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Symbol)
	}
	return out
}
