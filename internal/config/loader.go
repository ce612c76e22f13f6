package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TCI_CONFIG is set
//  3. env (prefix TCI_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TCI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TCI_ADDR, TCI_MIN_OBSERVATIONS, ...
	// Map env keys like TCI_MIN_OBSERVATIONS -> min_observations (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("TCI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tci_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the fitting core cannot run under.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.Benchmarks) == 0:
		return fmt.Errorf("%w: benchmarks must not be empty", ErrInvalidConfig)
	case c.MinObservations < 1:
		return fmt.Errorf("%w: min_observations must be positive", ErrInvalidConfig)
	case c.ScaleFactor <= 0:
		return fmt.Errorf("%w: scale_factor must be positive", ErrInvalidConfig)
	case c.SlopeMin <= 0 || c.SlopeMax <= c.SlopeMin:
		return fmt.Errorf("%w: slope bounds must satisfy 0 < slope_min < slope_max", ErrInvalidConfig)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be positive", ErrInvalidConfig)
	case c.ForecastMonths < 0:
		return fmt.Errorf("%w: forecast_months must not be negative", ErrInvalidConfig)
	}
	return nil
}
