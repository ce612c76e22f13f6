// Package model contains domain models passed between layers.
package model

import (
	"regexp"
	"strconv"
	"time"
)

// Score bounds accepted from upstream data.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Score is one observed benchmark result for a model.
// Value is on the 0-100 reporting scale; StdErr, when known, is on the
// same scale.
type Score struct {
	Value  float64 `json:"value"`
	StdErr float64 `json:"stderr,omitempty"`
}

// BenchmarkRecord is one model's observed results across the benchmark
// suite, as supplied by the upstream data collaborator. Identified by
// Model+Provider. Records are immutable once ingested.
type BenchmarkRecord struct {
	Model       string            `json:"model"`
	Provider    string            `json:"provider"`
	ReleaseDate string            `json:"release_date,omitempty"` // ISO-8601, may be empty
	Scores      map[string]*Score `json:"scores"`                 // keyed by benchmark key; nil or absent means no data

	// TCI and TCIStdErr carry an externally supplied composite score.
	// They are only honored when the scorer runs in preserve-existing
	// mode; zero means "not supplied".
	TCI       float64 `json:"tci,omitempty"`
	TCIStdErr float64 `json:"tci_stderr,omitempty"`
}

// Key returns the upsert identity of the record.
func (r BenchmarkRecord) Key() string {
	return r.Provider + "/" + r.Model
}

// Score returns the observed score for a benchmark key and whether one
// exists. A nil entry counts as absent.
func (r BenchmarkRecord) Score(key string) (Score, bool) {
	s, ok := r.Scores[key]
	if !ok || s == nil {
		return Score{}, false
	}
	return *s, true
}

// ObservedCount returns how many benchmarks have a score for this record.
func (r BenchmarkRecord) ObservedCount() int {
	n := 0
	for _, s := range r.Scores {
		if s != nil {
			n++
		}
	}
	return n
}

// Valid reports whether every observed score lies inside [MinScore, MaxScore].
func (r BenchmarkRecord) Valid() bool {
	if r.Model == "" || r.Provider == "" {
		return false
	}
	for _, s := range r.Scores {
		if s == nil {
			continue
		}
		if s.Value < MinScore || s.Value > MaxScore {
			return false
		}
	}
	return true
}

// TimeSeriesPoint is a (timestamp, score) observation used as regression
// input. X is milliseconds since the Unix epoch.
type TimeSeriesPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// versionPattern matches a trailing major.minor version in a model name,
// e.g. "falcon-7.2-instruct" -> 7.2.
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// Version-estimate anchors: major version 1 maps to versionEpochYear and
// each major version adds roughly a year.
const (
	versionEpochYear   = 2022
	monthsPerMinorStep = 3
)

// ReleaseTime returns the record's release date. Explicit ISO-8601
// metadata always wins; when it is missing or unparseable the date is
// estimated from a version number embedded in the model name. The
// estimate is approximate and may mis-order models released close
// together; callers that care about exact chronology should supply
// release_date. Returns ok=false when neither source yields a date.
func (r BenchmarkRecord) ReleaseTime() (time.Time, bool) {
	if r.ReleaseDate != "" {
		if t, err := time.Parse("2006-01-02", r.ReleaseDate); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, r.ReleaseDate); err == nil {
			return t, true
		}
	}
	return estimateFromVersion(r.Model)
}

// estimateFromVersion derives an approximate release date from the first
// major.minor pair in the model name.
func estimateFromVersion(name string) (time.Time, bool) {
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil || major < 1 {
		return time.Time{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	year := versionEpochYear + (major - 1)
	month := 1 + minor*monthsPerMinorStep
	for month > 12 {
		month -= 12
		year++
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}
