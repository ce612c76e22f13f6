package regression_test

import (
	"testing"

	"github.com/okian/tci/internal/domain/model"
	"github.com/okian/tci/internal/domain/regression"
	. "github.com/smartystreets/goconvey/convey"
)

func pts(pairs ...float64) []model.TimeSeriesPoint {
	out := make([]model.TimeSeriesPoint, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.TimeSeriesPoint{X: pairs[i], Y: pairs[i+1]})
	}
	return out
}

func TestCompute(t *testing.T) {
	Convey("Given a perfectly linear sample", t, func() {
		// y = 2x + 3
		fit := regression.Compute(pts(0, 3, 1, 5, 2, 7, 3, 9, 4, 11))

		Convey("Then the line is recovered exactly", func() {
			So(fit, ShouldNotBeNil)
			So(fit.Slope, ShouldAlmostEqual, 2)
			So(fit.Intercept, ShouldAlmostEqual, 3)
			So(fit.R2, ShouldAlmostEqual, 1)
			So(fit.N(), ShouldEqual, 5)
		})

		Convey("Then At interpolates and extrapolates on it", func() {
			So(fit.At(2), ShouldAlmostEqual, 7)
			So(fit.At(10), ShouldAlmostEqual, 23)
		})

		Convey("Then residual-free data gives zero-width intervals", func() {
			So(fit.ConfidenceMargin(2), ShouldAlmostEqual, 0)
			So(fit.PredictionMargin(2), ShouldAlmostEqual, 0)
		})
	})

	Convey("Given a noisy sample", t, func() {
		fit := regression.Compute(pts(0, 3.2, 1, 4.7, 2, 7.4, 3, 8.6, 4, 11.3))

		Convey("Then the trend is roughly recovered", func() {
			So(fit, ShouldNotBeNil)
			So(fit.Slope, ShouldAlmostEqual, 2, 0.2)
			So(fit.R2, ShouldBeGreaterThan, 0.95)
			So(fit.R2, ShouldBeLessThan, 1)
		})

		Convey("Then margins widen away from the sample mean", func() {
			So(fit.ConfidenceMargin(10), ShouldBeGreaterThan, fit.ConfidenceMargin(2))
		})

		Convey("Then the prediction band contains the confidence band", func() {
			for _, x := range []float64{-2, 0, 2, 4, 10} {
				So(fit.PredictionMargin(x), ShouldBeGreaterThan, fit.ConfidenceMargin(x))
			}
		})
	})

	Convey("Given a flat sample", t, func() {
		fit := regression.Compute(pts(0, 5, 1, 5, 2, 5, 3, 5))

		Convey("Then the fit is a horizontal line with R2 of one", func() {
			So(fit, ShouldNotBeNil)
			So(fit.Slope, ShouldAlmostEqual, 0)
			So(fit.Intercept, ShouldAlmostEqual, 5)
			So(fit.R2, ShouldEqual, 1)
		})
	})

	Convey("Given degenerate samples", t, func() {
		Convey("When there are fewer than two points", func() {
			So(regression.Compute(nil), ShouldBeNil)
			So(regression.Compute(pts(1, 2)), ShouldBeNil)
		})

		Convey("When every x is identical", func() {
			So(regression.Compute(pts(3, 1, 3, 2, 3, 9)), ShouldBeNil)
		})

		Convey("When exactly two points exist", func() {
			fit := regression.Compute(pts(0, 1, 2, 5))

			Convey("Then the line passes through both with no interval width", func() {
				So(fit, ShouldNotBeNil)
				So(fit.Slope, ShouldAlmostEqual, 2)
				So(fit.Intercept, ShouldAlmostEqual, 1)
				So(fit.ConfidenceMargin(1), ShouldEqual, 0)
				So(fit.PredictionMargin(1), ShouldEqual, 0)
			})
		})
	})
}
