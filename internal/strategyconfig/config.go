package strategyconfig

import "github.com/wonny/niftyscreen/internal/strategy"

// Config is the optional strategy defaults file
//
//	quality:
//	  max_debt_to_equity: 1.5
//	  min_roe: 0.12
//	max_results: 15
type Config struct {
	Quality    QualityConfig `yaml:"quality"`
	MaxResults int           `yaml:"max_results"`
}

// QualityConfig holds the default Quality thresholds
type QualityConfig struct {
	MaxDebtToEquity *float64 `yaml:"max_debt_to_equity"`
	MinROE          *float64 `yaml:"min_roe"`
}

// Params overlays the file onto the stock defaults
func (c *Config) Params() strategy.Params {
	p := strategy.DefaultParams()
	if c == nil {
		return p
	}
	if c.Quality.MaxDebtToEquity != nil {
		p.MaxDebtToEquity = *c.Quality.MaxDebtToEquity
	}
	if c.Quality.MinROE != nil {
		p.MinROE = *c.Quality.MinROE
	}
	if c.MaxResults != 0 {
		p.MaxResults = c.MaxResults
	}
	return p
}
