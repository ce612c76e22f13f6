// Package repository defines the benchmark record store interface and errors.
package repository

import (
	"context"

	"github.com/okian/tci/internal/domain/model"
)

// Store provides read/write access to the ingested benchmark records.
// Implementations must preserve first-arrival order across upserts: the
// record list is the row order of the score matrix, and re-ingesting a
// known model must not move it.
type Store interface {
	// Upsert inserts or replaces the record keyed by provider/model.
	// Returns true when the record was new, false when it replaced an
	// existing one.
	Upsert(ctx context.Context, rec model.BenchmarkRecord) (bool, error)

	// Get returns the record for a provider/model key.
	// Returns ErrNotFound when the key is unknown.
	Get(ctx context.Context, key string) (model.BenchmarkRecord, error)

	// List returns all records in first-arrival order. The returned
	// slice is a copy and safe to hold across further writes.
	List(ctx context.Context) []model.BenchmarkRecord

	// Count returns the number of records tracked.
	Count(ctx context.Context) int
}
