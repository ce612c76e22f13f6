package tci_test

import (
	"testing"

	"github.com/okian/tci/internal/domain/irt"
	"github.com/okian/tci/internal/domain/matrix"
	"github.com/okian/tci/internal/domain/model"
	"github.com/okian/tci/internal/domain/tci"
	. "github.com/smartystreets/goconvey/convey"
)

var benchmarkKeys = []string{"teleqna", "math500", "netops"}

func record(name string, values map[string]float64) model.BenchmarkRecord {
	scores := make(map[string]*model.Score, len(values))
	for k, v := range values {
		scores[k] = &model.Score{Value: v}
	}
	return model.BenchmarkRecord{Model: name, Provider: "acme", Scores: scores}
}

// fitFleet builds a matrix from the records and fits parameters for it.
func fitFleet(records []model.BenchmarkRecord) *irt.Parameters {
	return irt.NewFitter().Fit(matrix.Build(records, benchmarkKeys))
}

func TestScore(t *testing.T) {
	Convey("Given a scorer with default configuration", t, func() {
		scorer := tci.NewScorer()

		fleet := []model.BenchmarkRecord{
			record("frontier-1.0", map[string]float64{"teleqna": 92, "math500": 88, "netops": 90}),
			record("strong-1.0", map[string]float64{"teleqna": 74, "math500": 70, "netops": 72}),
			record("mid-1.0", map[string]float64{"teleqna": 55, "math500": 50, "netops": 52}),
			record("thin-1.0", map[string]float64{"teleqna": 60}),
		}
		params := fitFleet(fleet)

		Convey("When scoring a fully observed model", func() {
			comp := scorer.Score(fleet[0], benchmarkKeys, params)

			Convey("Then it is scored with a positive standard error", func() {
				So(comp.Source, ShouldEqual, tci.Scored)
				So(comp.Valid(), ShouldBeTrue)
				So(comp.StdErr, ShouldBeGreaterThan, 0)
			})

			Convey("Then the value sits on the reporting scale", func() {
				// One decimal place of precision.
				So(comp.Value*10, ShouldAlmostEqual, float64(int(comp.Value*10+0.5)), 1e-9)
				So(comp.Value, ShouldBeGreaterThan, 100)
			})
		})

		Convey("When scoring models with a clear quality gap", func() {
			top := scorer.Score(fleet[0], benchmarkKeys, params)
			bottom := scorer.Score(fleet[2], benchmarkKeys, params)

			Convey("Then the stronger model scores higher", func() {
				So(top.Value, ShouldBeGreaterThan, bottom.Value)
			})
		})

		Convey("When a model has fewer observations than the minimum", func() {
			comp := scorer.Score(fleet[3], benchmarkKeys, params)

			Convey("Then it is marked insufficient rather than scored low", func() {
				So(comp.Source, ShouldEqual, tci.Insufficient)
				So(comp.Valid(), ShouldBeFalse)
			})
		})

		Convey("When two models report identical results", func() {
			twinA := record("twin-1.0", map[string]float64{"teleqna": 66, "math500": 61, "netops": 64})
			twinB := record("twin-2.0", map[string]float64{"teleqna": 66, "math500": 61, "netops": 64})
			p := fitFleet(append(fleet, twinA, twinB))

			Convey("Then their composites are identical", func() {
				So(scorer.Score(twinA, benchmarkKeys, p), ShouldResemble, scorer.Score(twinB, benchmarkKeys, p))
			})
		})
	})

	Convey("Given a scorer that preserves existing values", t, func() {
		scorer := tci.NewScorer(tci.WithPreserveExisting(true))
		params := fitFleet(nil)

		Convey("When the record carries a non-zero composite", func() {
			rec := record("legacy-1.0", map[string]float64{"teleqna": 80, "math500": 75, "netops": 70})
			rec.TCI = 112.5
			rec.TCIStdErr = 1.8
			comp := scorer.Score(rec, benchmarkKeys, params)

			Convey("Then the supplied value wins untouched", func() {
				So(comp.Source, ShouldEqual, tci.Override)
				So(comp.Value, ShouldEqual, 112.5)
				So(comp.StdErr, ShouldEqual, 1.8)
			})
		})

		Convey("When the record has no composite yet", func() {
			rec := record("fresh-1.0", map[string]float64{"teleqna": 80, "math500": 75, "netops": 70})
			comp := scorer.Score(rec, benchmarkKeys, params)

			Convey("Then it is scored normally", func() {
				So(comp.Source, ShouldEqual, tci.Scored)
			})
		})
	})

	Convey("Given a scorer with a single-benchmark minimum", t, func() {
		scorer := tci.NewScorer(tci.WithMinObservations(1))
		params := fitFleet(nil) // default parameters: D=0, A=1 everywhere

		Convey("When scoring models on one shared benchmark", func() {
			low := scorer.Score(record("low-1.0", map[string]float64{"teleqna": 40}), benchmarkKeys, params)
			high := scorer.Score(record("high-1.0", map[string]float64{"teleqna": 85}), benchmarkKeys, params)

			Convey("Then the index is monotone in the raw score", func() {
				So(low.Source, ShouldEqual, tci.Scored)
				So(high.Value, ShouldBeGreaterThan, low.Value)
			})

			Convey("Then a 50% score lands exactly on the base", func() {
				mid := scorer.Score(record("mid-2.0", map[string]float64{"teleqna": 50}), benchmarkKeys, params)
				So(mid.Value, ShouldEqual, 100)
			})
		})

		Convey("When the reported score sits at the extremes", func() {
			floor := scorer.Score(record("floor-1.0", map[string]float64{"teleqna": 0}), benchmarkKeys, params)
			ceil := scorer.Score(record("ceil-1.0", map[string]float64{"teleqna": 100}), benchmarkKeys, params)

			Convey("Then clamping keeps both finite", func() {
				So(floor.Source, ShouldEqual, tci.Scored)
				So(ceil.Source, ShouldEqual, tci.Scored)
				So(ceil.Value, ShouldBeGreaterThan, floor.Value)
			})
		})

		Convey("When three models tie on the only benchmark", func() {
			fleet := []model.BenchmarkRecord{
				record("tie-1.0", map[string]float64{"teleqna": 80}),
				record("tie-2.0", map[string]float64{"teleqna": 80}),
				record("tie-3.0", map[string]float64{"teleqna": 80}),
			}
			p := fitFleet(fleet)

			Convey("Then all three composites are identical", func() {
				first := scorer.Score(fleet[0], benchmarkKeys, p)
				So(first.Source, ShouldEqual, tci.Scored)
				So(scorer.Score(fleet[1], benchmarkKeys, p), ShouldResemble, first)
				So(scorer.Score(fleet[2], benchmarkKeys, p), ShouldResemble, first)
			})
		})

		Convey("When a score arrives with an explicit standard error", func() {
			tight := record("tight-1.0", map[string]float64{"teleqna": 70})
			tight.Scores["teleqna"].StdErr = 0.5
			loose := record("loose-1.0", map[string]float64{"teleqna": 70})

			tightComp := scorer.Score(tight, benchmarkKeys, params)
			looseComp := scorer.Score(loose, benchmarkKeys, params)

			Convey("Then the explicit error beats the heuristic", func() {
				So(tightComp.StdErr, ShouldBeLessThan, looseComp.StdErr)
			})
		})
	})

	Convey("Given a custom reporting scale", t, func() {
		scorer := tci.NewScorer(tci.WithReportingScale(50, 10), tci.WithMinObservations(1))
		params := fitFleet(nil)

		Convey("When scoring a 50% result", func() {
			comp := scorer.Score(record("mid-1.0", map[string]float64{"teleqna": 50}), benchmarkKeys, params)

			Convey("Then the base score shifts accordingly", func() {
				So(comp.Value, ShouldEqual, 50)
			})
		})
	})
}

func TestSourceString(t *testing.T) {
	Convey("Given the composite source tags", t, func() {
		Convey("Then each renders its wire name", func() {
			So(tci.Insufficient.String(), ShouldEqual, "insufficient")
			So(tci.Scored.String(), ShouldEqual, "scored")
			So(tci.Override.String(), ShouldEqual, "override")
		})
	})
}
