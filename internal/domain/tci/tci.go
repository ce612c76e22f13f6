// Package tci derives the Telco Capability Index from fitted 2PL
// parameters and a model's observed benchmark scores.
package tci

import (
	"math"

	"github.com/okian/tci/internal/domain/irt"
	"github.com/okian/tci/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultBaseScore       = 100.0
	defaultScaleFactor     = 15.0
	defaultMinObservations = 3

	// logitClamp keeps observed proportions away from 0 and 1 so the
	// log-odds transform stays finite.
	logitClamp = 1e-4

	// Default standard-error heuristic for scores reported without one:
	// a floor of 2 points plus a penalty that grows as the score drops.
	defaultStderrFloor = 2.0
	defaultStderrSlope = 0.08
)

// Source identifies how a composite value was produced.
type Source int

// Composite result variants.
const (
	// Insufficient means the model had too few observed benchmarks to
	// score. Value and StdErr are meaningless.
	Insufficient Source = iota
	// Scored means the value was computed from fitted parameters.
	Scored
	// Override means an externally supplied value was preserved.
	Override
)

// String returns the wire name of the source tag.
func (s Source) String() string {
	switch s {
	case Scored:
		return "scored"
	case Override:
		return "override"
	default:
		return "insufficient"
	}
}

// Composite is a model's index value with its propagated standard error.
// Check Source before reading Value: an Insufficient composite carries no
// number, deliberately, so thin evidence never renders as a zero.
type Composite struct {
	Source Source
	Value  float64
	StdErr float64
}

// Valid reports whether the composite carries a usable value.
func (c Composite) Valid() bool {
	return c.Source != Insufficient
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithReportingScale sets the base score and scale factor that map raw
// capability onto the displayed index.
func WithReportingScale(base, scale float64) Option {
	return func(s *Scorer) {
		if scale > 0 {
			s.baseScore = base
			s.scaleFactor = scale
		}
	}
}

// WithMinObservations sets the minimum number of observed benchmarks a
// model needs before it can be scored.
func WithMinObservations(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.minObservations = n
		}
	}
}

// WithPreserveExisting makes the scorer keep an externally supplied
// composite untouched instead of recomputing it.
func WithPreserveExisting(preserve bool) Option {
	return func(s *Scorer) {
		s.preserveExisting = preserve
	}
}

// Scorer computes composite scores from fitted parameters. Stateless
// after construction; safe for concurrent use.
type Scorer struct {
	baseScore        float64
	scaleFactor      float64
	minObservations  int
	preserveExisting bool
}

// NewScorer creates a Scorer with default configuration.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		baseScore:       defaultBaseScore,
		scaleFactor:     defaultScaleFactor,
		minObservations: defaultMinObservations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the composite index for one record against the given
// benchmark key order and fitted parameters.
func (s *Scorer) Score(rec model.BenchmarkRecord, benchmarks []string, params *irt.Parameters) Composite {
	if s.preserveExisting && rec.TCI != 0 {
		return Composite{Source: Override, Value: rec.TCI, StdErr: rec.TCIStdErr}
	}

	type obs struct {
		p      float64 // observed proportion, clamped
		stderr float64 // stderr on the proportion scale
		diff   float64
		slope  float64
	}
	var observed []obs
	for _, key := range benchmarks {
		sc, ok := rec.Score(key)
		if !ok {
			continue
		}
		p := clamp(sc.Value/model.MaxScore, logitClamp, 1-logitClamp)
		se := sc.StdErr
		if se <= 0 {
			se = defaultStderrFloor + defaultStderrSlope*(model.MaxScore-sc.Value)
		}
		observed = append(observed, obs{
			p:      p,
			stderr: se / model.MaxScore,
			diff:   params.Difficulty[key],
			slope:  params.Slope[key],
		})
	}
	if len(observed) < s.minObservations {
		return Composite{Source: Insufficient}
	}

	// Discrimination-weighted average of difficulty-adjusted log-odds.
	totalWeight := 0.0
	weightedSum := 0.0
	variance := 0.0
	for _, o := range observed {
		adjusted := logit(o.p) + o.diff
		weightedSum += o.slope * adjusted
		totalWeight += o.slope

		// Propagate score uncertainty through d(logit)/dp = 1/(p(1-p)).
		dLogit := 1 / (o.p * (1 - o.p))
		variance += o.slope * o.slope * dLogit * dLogit * o.stderr * o.stderr
	}
	if totalWeight <= 0 {
		return Composite{Source: Insufficient}
	}

	raw := weightedSum / totalWeight
	value := s.baseScore + raw*s.scaleFactor
	scale := s.scaleFactor / totalWeight
	stderr := math.Sqrt(variance * scale * scale)

	return Composite{
		Source: Scored,
		Value:  round1(value),
		StdErr: round1(stderr),
	}
}

// logit is the log-odds transform; callers clamp p first.
func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place, the reporting precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
