// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	repository "github.com/okian/tci/internal/adapters/repository"
	"github.com/okian/tci/internal/domain/forecast"
	"github.com/okian/tci/internal/domain/irt"
	"github.com/okian/tci/internal/domain/matrix"
	"github.com/okian/tci/internal/domain/model"
	"github.com/okian/tci/internal/domain/regression"
	scorerpkg "github.com/okian/tci/internal/domain/tci"
	"github.com/okian/tci/internal/domain/types"
	"github.com/okian/tci/pkg/logger"
	"github.com/okian/tci/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMinObservations = 3
	defaultBaseScore       = 100.0
	defaultScaleFactor     = 15.0
	defaultForecastMonths  = 12
)

// snapshot is one memoized fit of the current record set. Rebuilt only
// when the record-set fingerprint changes; immutable once published.
type snapshot struct {
	fingerprint  uint64
	entries      []types.Entry // ranked, best first
	byModel      map[string]types.Entry
	points       []model.TimeSeriesPoint // release time vs composite score
	loss         float64
	iterations   int
	scored       int
	insufficient int
	overridden   int
	builtAt      time.Time
}

// Service implements the API dependencies for the capability index system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	fitter    *irt.Fitter
	scorer    *scorerpkg.Scorer
	generator *forecast.Generator

	// Configuration
	benchmarks       []string
	minObservations  int
	baseScore        float64
	scaleFactor      float64
	slopeMin         float64
	slopeMax         float64
	maxIterations    int
	forecastMonths   int
	preserveExisting bool

	// State
	started bool
	snap    *snapshot

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBenchmarks sets the ordered benchmark key list.
func WithBenchmarks(keys []string) Option {
	return func(s *Service) {
		if len(keys) > 0 {
			s.benchmarks = keys
		}
	}
}

// WithMinObservations sets the minimum observed benchmarks per scored model.
func WithMinObservations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minObservations = n
		}
	}
}

// WithReportingScale sets the base score and scale factor of the index.
func WithReportingScale(base, scale float64) Option {
	return func(s *Service) {
		if scale > 0 {
			s.baseScore = base
			s.scaleFactor = scale
		}
	}
}

// WithSlopeBounds sets the discrimination bounds used during fitting.
func WithSlopeBounds(minSlope, maxSlope float64) Option {
	return func(s *Service) {
		if minSlope > 0 && maxSlope > minSlope {
			s.slopeMin = minSlope
			s.slopeMax = maxSlope
		}
	}
}

// WithMaxIterations caps optimizer iterations.
func WithMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithForecastMonths sets the default forward projection horizon.
func WithForecastMonths(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.forecastMonths = n
		}
	}
}

// WithPreserveExisting keeps externally supplied composite scores.
func WithPreserveExisting(preserve bool) Option {
	return func(s *Service) {
		s.preserveExisting = preserve
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		benchmarks:      []string{"teleqna", "3gpp_tsg", "math500", "teletables", "netops"},
		minObservations: defaultMinObservations,
		baseScore:       defaultBaseScore,
		scaleFactor:     defaultScaleFactor,
		forecastMonths:  defaultForecastMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.store = repository.NewMemStore(ctx)

	fitterOpts := []irt.Option{}
	if s.slopeMin > 0 && s.slopeMax > s.slopeMin {
		fitterOpts = append(fitterOpts, irt.WithSlopeBounds(s.slopeMin, s.slopeMax))
	}
	if s.maxIterations > 0 {
		fitterOpts = append(fitterOpts, irt.WithMaxIterations(s.maxIterations))
	}
	s.fitter = irt.NewFitter(fitterOpts...)
	s.scorer = scorerpkg.NewScorer(
		scorerpkg.WithReportingScale(s.baseScore, s.scaleFactor),
		scorerpkg.WithMinObservations(s.minObservations),
		scorerpkg.WithPreserveExisting(s.preserveExisting),
	)
	s.generator = forecast.NewGenerator()

	s.started = true
	s.logger.Info(ctx, "capability index service started",
		logger.Int("benchmarks", len(s.benchmarks)),
		logger.Int("minObservations", s.minObservations),
		logger.Float64("baseScore", s.baseScore),
	)
	return nil
}

// Stop shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.snap = nil
	s.logger.Info(context.Background(), "capability index service stopped")
}

// Ingest upserts a batch of benchmark records. Invalid records are
// rejected individually; the rest of the batch still lands. Returns the
// number of records accepted.
func (s *Service) Ingest(ctx context.Context, recs []model.BenchmarkRecord) (int, error) {
	accepted := 0
	var firstErr error
	for _, rec := range recs {
		if _, err := s.store.Upsert(ctx, rec); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn(ctx, "rejected record",
				logger.String("key", rec.Key()),
				logger.Error(err),
			)
			continue
		}
		accepted++
	}
	return accepted, firstErr
}

// TopN returns the top N leaderboard entries from the current snapshot.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	snap := s.current(ctx)
	if n > len(snap.entries) {
		n = len(snap.entries)
	}
	out := make([]types.Entry, n)
	copy(out, snap.entries[:n])
	return out, nil
}

// Rank returns the entry for a model name or provider/model key.
func (s *Service) Rank(ctx context.Context, name string) (types.Entry, error) {
	snap := s.current(ctx)
	if e, ok := snap.byModel[name]; ok {
		return e, nil
	}
	return types.Entry{}, fmt.Errorf("%w: %s", repository.ErrNotFound, name)
}

// Trend returns the fitted capability trend summary.
func (s *Service) Trend(ctx context.Context) (types.Trend, error) {
	snap := s.current(ctx)
	fit := regression.Compute(snap.points)
	if fit == nil {
		return types.Trend{}, nil
	}
	maxX := snap.points[0].X
	for _, p := range snap.points[1:] {
		if p.X > maxX {
			maxX = p.X
		}
	}
	endX := maxX + float64(s.forecastMonths)*forecast.MsPerMonth
	return types.Trend{
		Slope:         fit.Slope,
		Intercept:     fit.Intercept,
		R2:            fit.R2,
		GrowthPerYear: fit.Slope * forecast.MsPerYear,
		Current:       fit.At(maxX),
		Projected:     fit.At(endX),
		Points:        fit.N(),
	}, nil
}

// Forecast returns the stitched historical+forward band series. A
// non-positive months value falls back to the configured horizon.
func (s *Service) Forecast(ctx context.Context, months int) ([]forecast.BandPoint, forecast.Summary, error) {
	if months <= 0 {
		months = s.forecastMonths
	}
	snap := s.current(ctx)
	series, sum := s.generator.Generate(snap.points, months)
	return series, sum, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	snap := s.current(ctx)

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	return map[string]interface{}{
		"started":          started,
		"records":          s.store.Count(ctx),
		"benchmarks":       len(s.benchmarks),
		"modelsScored":     snap.scored,
		"modelsSkipped":    snap.insufficient,
		"modelsOverridden": snap.overridden,
		"fitLoss":          snap.loss,
		"fitIterations":    snap.iterations,
		"snapshotBuiltAt":  snap.builtAt.UTC().Format(time.RFC3339),
	}
}

// current returns the snapshot for the present record set, refitting
// only when the set's content fingerprint has changed.
func (s *Service) current(ctx context.Context) *snapshot {
	records := s.store.List(ctx)
	fp := fingerprint(records, s.benchmarks)

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil && snap.fingerprint == fp {
		metrics.RecordFitCacheHit()
		return snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: another reader may have refit while we waited.
	if s.snap != nil && s.snap.fingerprint == fp {
		metrics.RecordFitCacheHit()
		return s.snap
	}
	s.snap = s.rebuild(ctx, records, fp)
	return s.snap
}

// rebuild runs matrix construction, the IRT fit and scoring for the
// given record list, producing a fresh snapshot.
func (s *Service) rebuild(ctx context.Context, records []model.BenchmarkRecord, fp uint64) *snapshot {
	start := time.Now()

	sm := matrix.Build(records, s.benchmarks)
	params := s.fitter.Fit(sm)

	snap := &snapshot{
		fingerprint: fp,
		byModel:     make(map[string]types.Entry),
		loss:        params.Loss,
		iterations:  params.Iterations,
		builtAt:     start,
	}

	for _, rec := range records {
		comp := s.scorer.Score(rec, s.benchmarks, params)
		switch comp.Source {
		case scorerpkg.Insufficient:
			snap.insufficient++
			continue
		case scorerpkg.Override:
			snap.overridden++
		default:
			snap.scored++
		}

		entry := types.Entry{
			Model:    rec.Model,
			Provider: rec.Provider,
			TCI:      comp.Value,
			StdErr:   comp.StdErr,
			Source:   comp.Source.String(),
		}
		snap.entries = append(snap.entries, entry)

		if t, ok := rec.ReleaseTime(); ok {
			snap.points = append(snap.points, model.TimeSeriesPoint{
				X: float64(t.UnixMilli()),
				Y: comp.Value,
			})
		}
	}

	// Rank: score desc, model asc for deterministic ties.
	sort.SliceStable(snap.entries, func(i, j int) bool {
		if snap.entries[i].TCI != snap.entries[j].TCI {
			return snap.entries[i].TCI > snap.entries[j].TCI
		}
		return snap.entries[i].Model < snap.entries[j].Model
	})
	for i := range snap.entries {
		snap.entries[i].Rank = i + 1
		snap.byModel[snap.entries[i].Model] = snap.entries[i]
		snap.byModel[snap.entries[i].Provider+"/"+snap.entries[i].Model] = snap.entries[i]
	}

	durationMs := float64(time.Since(start).Microseconds()) / 1e3
	metrics.RecordFitRun(durationMs, params.Iterations, params.Loss)
	metrics.UpdateScoringOutcome(snap.scored, snap.insufficient, snap.overridden)

	s.logger.Info(ctx, "rebuilt fit snapshot",
		logger.Int("models", len(records)),
		logger.Int("scored", snap.scored),
		logger.Int("skipped", snap.insufficient),
		logger.Int("iterations", params.Iterations),
		logger.Float64("loss", params.Loss),
	)
	return snap
}

// fingerprint hashes the record set content together with the benchmark
// key order, so either changing invalidates the memoized snapshot.
func fingerprint(records []model.BenchmarkRecord, benchmarks []string) uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	for _, key := range benchmarks {
		_, _ = h.WriteString(key)
		_, _ = h.WriteString("|")
	}
	for _, rec := range records {
		_, _ = h.WriteString(rec.Key())
		_, _ = h.WriteString("@")
		_, _ = h.WriteString(rec.ReleaseDate)
		writeFloat(rec.TCI)
		writeFloat(rec.TCIStdErr)
		for _, key := range benchmarks {
			sc, ok := rec.Score(key)
			_, _ = h.WriteString(strconv.FormatBool(ok))
			if ok {
				writeFloat(sc.Value)
				writeFloat(sc.StdErr)
			}
		}
		_, _ = h.WriteString(";")
	}
	return h.Sum64()
}
