// Package irt fits a two-parameter logistic (2PL) item-response model to
// a masked score matrix. Each benchmark b gets a difficulty D_b and a
// discrimination slope A_b, each model m a capability C_m, such that the
// predicted success probability is sigmoid(A_b * (C_m - D_b)).
//
// The fit minimizes squared error over observed cells plus L2 penalties
// pulling difficulty toward 0, slope toward 1 and capability toward 0,
// using gradient descent with momentum and an adaptive learning rate.
// There is no randomness anywhere: identical inputs reproduce identical
// parameters.
package irt

import (
	"math"

	"github.com/okian/tci/internal/domain/matrix"
)

// Default optimizer configuration constants.
const (
	defaultLearnRate     = 0.1
	defaultLearnRateGrow = 1.05
	defaultLearnRateCap  = 1.0
	defaultMomentum      = 0.9
	defaultMaxIterations = 500
	defaultSlopeMin      = 0.25
	defaultSlopeMax      = 4.0
	defaultLambdaDiff    = 0.05
	defaultLambdaSlope   = 0.05
	defaultLambdaAbility = 0.01
	defaultGradEpsilon   = 1e-6
	defaultLossEpsilon   = 1e-9

	// underdeterminedScale multiplies every regularization strength when
	// the observed cells cannot pin down the free parameters.
	underdeterminedScale = 2.0

	// sigmoidClamp bounds the logistic argument to keep exp finite.
	sigmoidClamp = 30.0

	// Default parameter values used when fitting cannot run and as the
	// optimizer's starting point.
	defaultDifficulty = 0.0
	defaultSlope      = 1.0
	defaultAbility    = 0.0
)

// Parameters is the immutable result of one fitting run.
// Every benchmark key from the input has a Difficulty and Slope entry and
// every model a Capability entry, even when fitting could not run.
type Parameters struct {
	Difficulty map[string]float64
	Slope      map[string]float64
	Capability map[string]float64

	Loss       float64
	Iterations int
	Models     int
	Benchmarks int
}

// Option applies a configuration option to the Fitter.
type Option func(*Fitter)

// WithLearnRate sets the initial learning rate.
func WithLearnRate(lr float64) Option {
	return func(f *Fitter) {
		if lr > 0 {
			f.learnRate = lr
		}
	}
}

// WithMaxIterations caps the number of descent iterations.
func WithMaxIterations(n int) Option {
	return func(f *Fitter) {
		if n > 0 {
			f.maxIterations = n
		}
	}
}

// WithSlopeBounds sets the [min, max] projection bounds applied to the
// discrimination slopes after every update.
func WithSlopeBounds(minSlope, maxSlope float64) Option {
	return func(f *Fitter) {
		if minSlope > 0 && maxSlope > minSlope {
			f.slopeMin = minSlope
			f.slopeMax = maxSlope
		}
	}
}

// WithRegularization sets the L2 strengths for difficulty, slope and
// capability.
func WithRegularization(diff, slope, ability float64) Option {
	return func(f *Fitter) {
		if diff >= 0 {
			f.lambdaDiff = diff
		}
		if slope >= 0 {
			f.lambdaSlope = slope
		}
		if ability >= 0 {
			f.lambdaAbility = ability
		}
	}
}

// WithMomentum sets the velocity decay factor.
func WithMomentum(m float64) Option {
	return func(f *Fitter) {
		if m >= 0 && m < 1 {
			f.momentum = m
		}
	}
}

// Fitter holds optimizer configuration. A single Fitter may be shared:
// all mutable fitting state lives in a per-call state value, so
// concurrent Fit calls on different matrices are safe.
type Fitter struct {
	learnRate     float64
	learnRateGrow float64
	learnRateCap  float64
	momentum      float64
	maxIterations int
	slopeMin      float64
	slopeMax      float64
	lambdaDiff    float64
	lambdaSlope   float64
	lambdaAbility float64
	gradEpsilon   float64
	lossEpsilon   float64
}

// NewFitter creates a Fitter with default configuration.
func NewFitter(opts ...Option) *Fitter {
	f := &Fitter{
		learnRate:     defaultLearnRate,
		learnRateGrow: defaultLearnRateGrow,
		learnRateCap:  defaultLearnRateCap,
		momentum:      defaultMomentum,
		maxIterations: defaultMaxIterations,
		slopeMin:      defaultSlopeMin,
		slopeMax:      defaultSlopeMax,
		lambdaDiff:    defaultLambdaDiff,
		lambdaSlope:   defaultLambdaSlope,
		lambdaAbility: defaultLambdaAbility,
		gradEpsilon:   defaultGradEpsilon,
		lossEpsilon:   defaultLossEpsilon,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// fitState is the mutable state of one fitting run. The flat parameter
// vector is laid out as [D_1..D_B, A_1..A_B, C_1..C_M].
type fitState struct {
	params   []float64
	velocity []float64
	grad     []float64
	learn    float64
	loss     float64
}

func newFitState(benchmarks, models int, learn float64) *fitState {
	n := 2*benchmarks + models
	s := &fitState{
		params:   make([]float64, n),
		velocity: make([]float64, n),
		grad:     make([]float64, n),
		learn:    learn,
	}
	for b := 0; b < benchmarks; b++ {
		s.params[b] = defaultDifficulty
		s.params[benchmarks+b] = defaultSlope
	}
	for m := 0; m < models; m++ {
		s.params[2*benchmarks+m] = defaultAbility
	}
	return s
}

// sigmoid is the clamped logistic function.
func sigmoid(z float64) float64 {
	if z > sigmoidClamp {
		z = sigmoidClamp
	} else if z < -sigmoidClamp {
		z = -sigmoidClamp
	}
	return 1 / (1 + math.Exp(-z))
}

// Fit runs the 2PL fit over the observed cells of sm.
// With no models, no benchmarks or no observed cells it returns the
// default parameters without iterating.
func (f *Fitter) Fit(sm *matrix.ScoreMatrix) *Parameters {
	nb := len(sm.Benchmarks)
	nm := len(sm.Models)

	out := &Parameters{
		Difficulty: make(map[string]float64, nb),
		Slope:      make(map[string]float64, nb),
		Capability: make(map[string]float64, nm),
		Models:     nm,
		Benchmarks: nb,
	}
	for _, key := range sm.Benchmarks {
		out.Difficulty[key] = defaultDifficulty
		out.Slope[key] = defaultSlope
	}
	for _, name := range sm.Models {
		out.Capability[name] = defaultAbility
	}

	observed := sm.ObservedCells()
	if nm == 0 || nb == 0 || observed == 0 {
		return out
	}

	lambdaDiff := f.lambdaDiff
	lambdaSlope := f.lambdaSlope
	lambdaAbility := f.lambdaAbility
	if observed < 2*nb+nm {
		// Underdetermined: fewer observations than free parameters.
		lambdaDiff *= underdeterminedScale
		lambdaSlope *= underdeterminedScale
		lambdaAbility *= underdeterminedScale
	}

	st := newFitState(nb, nm, f.learnRate)
	st.loss = f.lossAndGrad(sm, st, lambdaDiff, lambdaSlope, lambdaAbility)

	iter := 0
	for ; iter < f.maxIterations; iter++ {
		if norm(st.grad) < f.gradEpsilon {
			break
		}

		// Momentum step.
		for i := range st.params {
			st.velocity[i] = f.momentum*st.velocity[i] - st.learn*st.grad[i]
			st.params[i] += st.velocity[i]
		}

		// Projection: slopes stay inside their bounds.
		for b := 0; b < nb; b++ {
			a := st.params[nb+b]
			if a < f.slopeMin {
				st.params[nb+b] = f.slopeMin
			} else if a > f.slopeMax {
				st.params[nb+b] = f.slopeMax
			}
		}

		prev := st.loss
		st.loss = f.lossAndGrad(sm, st, lambdaDiff, lambdaSlope, lambdaAbility)

		if st.loss > prev {
			// Overshot: damp both the step size and the accumulated velocity.
			st.learn /= 2
			for i := range st.velocity {
				st.velocity[i] /= 2
			}
			continue
		}
		if prev-st.loss < f.lossEpsilon {
			iter++
			break
		}
		st.learn = math.Min(st.learn*f.learnRateGrow, f.learnRateCap)
	}

	for b, key := range sm.Benchmarks {
		out.Difficulty[key] = st.params[b]
		out.Slope[key] = st.params[nb+b]
	}
	for m, name := range sm.Models {
		out.Capability[name] = st.params[2*nb+m]
	}
	out.Loss = st.loss
	out.Iterations = iter
	return out
}

// lossAndGrad evaluates the regularized squared-error loss at st.params
// and writes the analytic gradient into st.grad in the same pass.
func (f *Fitter) lossAndGrad(sm *matrix.ScoreMatrix, st *fitState, lambdaDiff, lambdaSlope, lambdaAbility float64) float64 {
	nb := len(sm.Benchmarks)
	nm := len(sm.Models)
	for i := range st.grad {
		st.grad[i] = 0
	}

	loss := 0.0
	for m := 0; m < nm; m++ {
		ability := st.params[2*nb+m]
		for b := 0; b < nb; b++ {
			if !sm.Mask[m][b] {
				continue
			}
			diff := st.params[b]
			slope := st.params[nb+b]
			p := sigmoid(slope * (ability - diff))
			e := sm.Scores[m][b] - p
			loss += e * e

			// d(loss)/dp = -2e, chained through dp/dz = p(1-p),
			// then dz/dD = -A, dz/dA = C - D, dz/dC = A.
			g := -2 * e * p * (1 - p)
			st.grad[b] += g * -slope
			st.grad[nb+b] += g * (ability - diff)
			st.grad[2*nb+m] += g * slope
		}
	}

	for b := 0; b < nb; b++ {
		d := st.params[b]
		a := st.params[nb+b]
		loss += lambdaDiff*d*d + lambdaSlope*(a-1)*(a-1)
		st.grad[b] += 2 * lambdaDiff * d
		st.grad[nb+b] += 2 * lambdaSlope * (a - 1)
	}
	for m := 0; m < nm; m++ {
		c := st.params[2*nb+m]
		loss += lambdaAbility * c * c
		st.grad[2*nb+m] += 2 * lambdaAbility * c
	}
	return loss
}

// norm returns the Euclidean norm of v.
func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
