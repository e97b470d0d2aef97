package contracts

import "strings"

// Symbol is an exchange ticker without the provider suffix (e.g. "RELIANCE")
type Symbol string

// Constituent is one entry of the index constituent list
type Constituent struct {
	Symbol      Symbol `json:"symbol"`
	CompanyName string `json:"company_name,omitempty"`
}

// NormalizeSymbol trims and upper-cases a ticker and strips a known provider suffix
func NormalizeSymbol(raw, suffix string) Symbol {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if suffix != "" {
		s = strings.TrimSuffix(s, strings.ToUpper(suffix))
	}
	return Symbol(s)
}

// ProviderTicker returns the ticker as the market data provider expects it
func (s Symbol) ProviderTicker(suffix string) string {
	return string(s) + suffix
}

// String implements fmt.Stringer
func (s Symbol) String() string {
	return string(s)
}

// Symbols extracts the tickers from a constituent list, preserving order
func Symbols(list []Constituent) []Symbol {
	out := make([]Symbol, 0, len(list))
	for _, c := range list {
		out = append(out, c.Symbol)
	}
	return out
}
