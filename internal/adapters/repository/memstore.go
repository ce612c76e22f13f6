package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/tci/internal/domain/model"
	"github.com/okian/tci/pkg/metrics"
)

// MemStore is the in-memory Store implementation.
//
// Records live in an append-only order slice plus a key index; upserts of
// known keys replace in place so matrix row order stays stable no matter
// how often the upstream collaborator re-publishes a model.
type MemStore struct {
	mu    sync.RWMutex
	order []string
	byKey map[string]model.BenchmarkRecord
}

// NewMemStore creates an empty in-memory record store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		byKey: make(map[string]model.BenchmarkRecord),
	}
}

// Upsert inserts or replaces rec, keyed by provider/model.
func (s *MemStore) Upsert(_ context.Context, rec model.BenchmarkRecord) (bool, error) {
	if !rec.Valid() {
		return false, fmt.Errorf("%w: %s", ErrInvalidRecord, rec.Key())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()
	_, known := s.byKey[key]
	if !known {
		s.order = append(s.order, key)
	}
	s.byKey[key] = rec
	metrics.UpdateRecordCount(len(s.order))
	return !known, nil
}

// Get returns the record for a provider/model key.
func (s *MemStore) Get(_ context.Context, key string) (model.BenchmarkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byKey[key]
	if !ok {
		return model.BenchmarkRecord{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return rec, nil
}

// List returns a copy of all records in first-arrival order.
func (s *MemStore) List(_ context.Context) []model.BenchmarkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.BenchmarkRecord, len(s.order))
	for i, key := range s.order {
		out[i] = s.byKey[key]
	}
	return out
}

// Count returns the number of records tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
