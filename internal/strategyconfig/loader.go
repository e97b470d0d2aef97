package strategyconfig

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/niftyscreen/internal/strategy"
)

// Load reads the YAML file at path; an empty path yields the stock defaults
func Load(path string) (strategy.Params, error) {
	if path == "" {
		return strategy.DefaultParams(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return strategy.Params{}, fmt.Errorf("read strategy config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML strictly: unknown keys are an error, not a silent typo
func Parse(data []byte) (strategy.Params, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return strategy.Params{}, fmt.Errorf("decode strategy config: %w", err)
	}

	params := cfg.Params()
	if err := params.Validate(); err != nil {
		return strategy.Params{}, err
	}

	return params, nil
}
