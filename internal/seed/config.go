// Package seed generates a synthetic model fleet and smoke-tests a
// running capability index service with it.
package seed

import "time"

// Config holds configuration for the seed run.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumModels int           // Number of synthetic models to generate
	TopN      int           // Number of leaderboard entries to fetch back
	Timeout   time.Duration // HTTP request timeout
	Seed      int64         // RNG seed; same seed, same fleet
	Verbose   bool          // Enable verbose logging
}

// Record mirrors the wire schema for POST /records.
type Record struct {
	Model       string            `json:"model"`
	Provider    string            `json:"provider"`
	ReleaseDate string            `json:"release_date,omitempty"`
	Scores      map[string]*Score `json:"scores"`
}

// Score is one benchmark result on the wire.
type Score struct {
	Value  float64 `json:"value"`
	StdErr float64 `json:"stderr,omitempty"`
}

// Entry mirrors a leaderboard entry on the wire.
type Entry struct {
	Rank     int     `json:"rank"`
	Model    string  `json:"model"`
	Provider string  `json:"provider"`
	TCI      float64 `json:"tci"`
	StdErr   float64 `json:"stderr"`
	Source   string  `json:"source"`
}

// IngestAck mirrors the response from record submission.
type IngestAck struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Stats holds seed run statistics.
type Stats struct {
	ModelsGenerated    int
	RecordsAccepted    int
	LeaderboardEntries int
	StartTime          time.Time
	Duration           time.Duration
}
