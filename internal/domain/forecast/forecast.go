// Package forecast stitches a fitted trend line into one plottable time
// series: a historical segment carrying the confidence band and a forward
// segment carrying the wider prediction band.
package forecast

import (
	"github.com/okian/tci/internal/domain/model"
	"github.com/okian/tci/internal/domain/regression"
)

// Calendar constants on the millisecond x-axis.
const (
	msPerDay = 24 * 60 * 60 * 1000.0

	// MsPerMonth and MsPerYear convert the per-millisecond slope onto
	// calendar horizons.
	MsPerMonth = 30.44 * msPerDay
	MsPerYear  = 365.25 * msPerDay
)

// Default sampling density per segment.
const (
	defaultHistoricalSamples = 40
	defaultForecastSamples   = 20
	minPoints                = 3
)

// BandPoint is one sample of the stitched series. Historical samples use
// the confidence interval, forecast samples the prediction interval.
type BandPoint struct {
	X          float64 `json:"x"` // ms since epoch
	Value      float64 `json:"value"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	IsForecast bool    `json:"is_forecast"`
}

// Summary carries the headline trend statistics for annotation text.
type Summary struct {
	Current       float64 `json:"current"`         // fitted value at the last data point
	Projected     float64 `json:"projected"`       // fitted value at the forecast end
	GrowthPerYear float64 `json:"growth_per_year"` // slope scaled to a year
	R2            float64 `json:"r2"`
	Points        int     `json:"points"`
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSamples sets the number of samples in the historical and forecast
// segments.
func WithSamples(historical, forward int) Option {
	return func(g *Generator) {
		if historical > 1 {
			g.historicalSamples = historical
		}
		if forward > 0 {
			g.forecastSamples = forward
		}
	}
}

// Generator produces forecast series from time-stamped scores.
type Generator struct {
	historicalSamples int
	forecastSamples   int
}

// NewGenerator creates a Generator with default sampling density.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		historicalSamples: defaultHistoricalSamples,
		forecastSamples:   defaultForecastSamples,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate fits a trend to the points and samples it from the earliest
// data timestamp to horizonMonths past the latest. Fewer than 3 points,
// or an unfittable set, yields an empty series and zero statistics.
func (g *Generator) Generate(points []model.TimeSeriesPoint, horizonMonths int) ([]BandPoint, Summary) {
	if len(points) < minPoints {
		return nil, Summary{}
	}
	fit := regression.Compute(points)
	if fit == nil {
		return nil, Summary{}
	}

	minX, maxX := points[0].X, points[0].X
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	endX := maxX + float64(horizonMonths)*MsPerMonth

	series := make([]BandPoint, 0, g.historicalSamples+g.forecastSamples)

	// Historical segment: confidence band, inclusive of both endpoints.
	step := (maxX - minX) / float64(g.historicalSamples-1)
	for i := 0; i < g.historicalSamples; i++ {
		x := minX + float64(i)*step
		v := fit.At(x)
		m := fit.ConfidenceMargin(x)
		series = append(series, BandPoint{X: x, Value: v, Lower: v - m, Upper: v + m})
	}

	// Forward segment: prediction band, exclusive of the stitch point.
	if horizonMonths > 0 {
		step = (endX - maxX) / float64(g.forecastSamples)
		for i := 1; i <= g.forecastSamples; i++ {
			x := maxX + float64(i)*step
			v := fit.At(x)
			m := fit.PredictionMargin(x)
			series = append(series, BandPoint{X: x, Value: v, Lower: v - m, Upper: v + m, IsForecast: true})
		}
	}

	sum := Summary{
		Current:       fit.At(maxX),
		Projected:     fit.At(endX),
		GrowthPerYear: fit.Slope * MsPerYear,
		R2:            fit.R2,
		Points:        fit.N(),
	}
	return series, sum
}
