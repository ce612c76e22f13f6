// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Benchmarks is the ordered benchmark key list: the column order of
	// the score matrix and the iteration order of the scorer.
	Benchmarks []string `koanf:"benchmarks"`

	// MinObservations is the minimum number of observed benchmarks a
	// model needs before it receives a composite score.
	MinObservations int `koanf:"min_observations"`

	// BaseScore and ScaleFactor map raw fitted capability onto the
	// displayed index scale.
	BaseScore   float64 `koanf:"base_score"`
	ScaleFactor float64 `koanf:"scale_factor"`

	// SlopeMin and SlopeMax bound benchmark discrimination during fitting.
	SlopeMin float64 `koanf:"slope_min"`
	SlopeMax float64 `koanf:"slope_max"`

	// MaxIterations caps the optimizer's descent iterations.
	MaxIterations int `koanf:"max_iterations"`

	// ForecastMonths is the default forward projection horizon.
	ForecastMonths int `koanf:"forecast_months"`

	// PreserveExisting keeps externally supplied composite scores instead
	// of recomputing them.
	PreserveExisting bool `koanf:"preserve_existing"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
		Benchmarks:          []string{"teleqna", "3gpp_tsg", "math500", "teletables", "netops"},
		MinObservations:     3,
		BaseScore:           100,
		ScaleFactor:         15,
		SlopeMin:            0.25,
		SlopeMax:            4.0,
		MaxIterations:       500,
		ForecastMonths:      12,
		PreserveExisting:    false,
	}
}
