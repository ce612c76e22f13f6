// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry.
type Entry struct {
	Rank     int     `json:"rank"`
	Model    string  `json:"model"`
	Provider string  `json:"provider"`
	TCI      float64 `json:"tci"`
	StdErr   float64 `json:"stderr"`
	Source   string  `json:"source"` // "scored" or "override"
}

// Trend summarizes the fitted capability trend for annotation text.
type Trend struct {
	Slope         float64 `json:"slope"` // index points per millisecond
	Intercept     float64 `json:"intercept"`
	R2            float64 `json:"r2"`
	GrowthPerYear float64 `json:"growth_per_year"`
	Current       float64 `json:"current"`
	Projected     float64 `json:"projected"`
	Points        int     `json:"points"`
}
