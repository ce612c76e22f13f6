package matrix_test

import (
	"testing"

	"github.com/okian/tci/internal/domain/matrix"
	"github.com/okian/tci/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(name, provider string, scores map[string]float64) model.BenchmarkRecord {
	m := make(map[string]*model.Score, len(scores))
	for k, v := range scores {
		m[k] = &model.Score{Value: v}
	}
	return model.BenchmarkRecord{Model: name, Provider: provider, Scores: m}
}

func TestBuild(t *testing.T) {
	Convey("Given a record list and a benchmark key order", t, func() {
		keys := []string{"teleqna", "math500", "netops"}
		records := []model.BenchmarkRecord{
			rec("alpha-1.0", "acme", map[string]float64{"teleqna": 80, "math500": 60}),
			rec("beta-2.0", "nimbus", map[string]float64{"netops": 45}),
			rec("gamma-1.5", "acme", map[string]float64{"teleqna": 100, "math500": 0, "netops": 50}),
		}

		Convey("When building the score matrix", func() {
			sm := matrix.Build(records, keys)

			Convey("Then model order matches input order", func() {
				So(sm.Models, ShouldResemble, []string{"alpha-1.0", "beta-2.0", "gamma-1.5"})
				So(sm.Benchmarks, ShouldResemble, keys)
			})

			Convey("Then observed cells are normalized to [0,1]", func() {
				So(sm.Scores[0][0], ShouldAlmostEqual, 0.8)
				So(sm.Scores[0][1], ShouldAlmostEqual, 0.6)
				So(sm.Scores[2][0], ShouldAlmostEqual, 1.0)
				So(sm.Scores[2][1], ShouldAlmostEqual, 0.0)
				So(sm.Mask[2][1], ShouldBeTrue) // an observed zero is still observed
			})

			Convey("Then missing cells are zero-filled and masked out", func() {
				So(sm.Scores[0][2], ShouldEqual, 0)
				So(sm.Mask[0][2], ShouldBeFalse)
				So(sm.Mask[1][0], ShouldBeFalse)
				So(sm.Mask[1][2], ShouldBeTrue)
			})

			Convey("Then observed counts line up", func() {
				So(sm.ObservedCells(), ShouldEqual, 6)
				So(sm.ObservedInRow(0), ShouldEqual, 2)
				So(sm.ObservedInRow(1), ShouldEqual, 1)
				So(sm.ObservedInRow(2), ShouldEqual, 3)
			})
		})

		Convey("When building from no records", func() {
			sm := matrix.Build(nil, keys)

			Convey("Then the matrix is empty but keeps the key order", func() {
				So(sm.Models, ShouldBeEmpty)
				So(sm.Benchmarks, ShouldResemble, keys)
				So(sm.ObservedCells(), ShouldEqual, 0)
			})
		})

		Convey("When a score entry is nil", func() {
			records := []model.BenchmarkRecord{{
				Model:    "delta-1.0",
				Provider: "acme",
				Scores:   map[string]*model.Score{"teleqna": nil},
			}}
			sm := matrix.Build(records, keys)

			Convey("Then the cell counts as absent", func() {
				So(sm.Mask[0][0], ShouldBeFalse)
				So(sm.ObservedCells(), ShouldEqual, 0)
			})
		})
	})
}
