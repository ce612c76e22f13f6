// Package regression implements ordinary least squares over time-stamped
// scores, with confidence and prediction interval math for trend bands.
package regression

import (
	"math"

	"github.com/okian/tci/internal/domain/model"
)

// zScore95 is the two-sided 95% normal quantile used for all margins.
const zScore95 = 1.96

// minPointsForFit is the smallest sample OLS is defined for; interval
// widths additionally need minPointsForIntervals (n-2 > 0).
const (
	minPointsForFit       = 2
	minPointsForIntervals = 3
)

// Fit is a fitted least-squares line over (time, score) points.
// Obtained from Compute; nil means no fit was possible.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64

	n     int
	meanX float64
	ssx   float64
	// residual standard deviation sqrt(SSres/(n-2)); 0 below 3 points.
	s float64
}

// Compute fits a least-squares line to the points. It returns nil when
// fewer than 2 points exist or when every x is identical, since a
// vertical line cannot be expressed as y = a + bx.
func Compute(points []model.TimeSeriesPoint) *Fit {
	n := len(points)
	if n < minPointsForFit {
		return nil
	}

	meanX, meanY := 0.0, 0.0
	for _, p := range points {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= float64(n)
	meanY /= float64(n)

	ssx, sxy := 0.0, 0.0
	for _, p := range points {
		dx := p.X - meanX
		ssx += dx * dx
		sxy += dx * (p.Y - meanY)
	}
	if ssx == 0 {
		return nil
	}

	slope := sxy / ssx
	intercept := meanY - slope*meanX

	ssTotal, ssResidual := 0.0, 0.0
	for _, p := range points {
		dy := p.Y - meanY
		ssTotal += dy * dy
		residual := p.Y - (intercept + slope*p.X)
		ssResidual += residual * residual
	}
	r2 := 1.0
	if ssTotal > 0 {
		r2 = 1 - ssResidual/ssTotal
	}

	f := &Fit{
		Slope:     slope,
		Intercept: intercept,
		R2:        r2,
		n:         n,
		meanX:     meanX,
		ssx:       ssx,
	}
	if n >= minPointsForIntervals {
		f.s = math.Sqrt(ssResidual / float64(n-2))
	}
	return f
}

// N returns the number of points the line was fitted to.
func (f *Fit) N() int { return f.n }

// At evaluates the fitted line at x.
func (f *Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// ConfidenceMargin returns the 95% margin on the mean trend value at x:
// z * s * sqrt(1/n + (x-meanX)^2/SSx). Zero-width below 3 points.
func (f *Fit) ConfidenceMargin(x float64) float64 {
	if f.n < minPointsForIntervals {
		return 0
	}
	dx := x - f.meanX
	return zScore95 * f.s * math.Sqrt(1/float64(f.n)+dx*dx/f.ssx)
}

// PredictionMargin returns the 95% margin on an individual future
// observation at x: z * s * sqrt(1 + 1/n + (x-meanX)^2/SSx). The leading
// 1 makes it at least as wide as the confidence margin everywhere.
func (f *Fit) PredictionMargin(x float64) float64 {
	if f.n < minPointsForIntervals {
		return 0
	}
	dx := x - f.meanX
	return zScore95 * f.s * math.Sqrt(1+1/float64(f.n)+dx*dx/f.ssx)
}
