package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("index"),
			WithHistogramBuckets([]float64{1, 10, 100}),
		)
		So(m, ShouldNotBeNil)

		Convey("When gathering right after construction", func() {
			families, err := registry.Gather()

			Convey("Then counters and histograms are registered", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_index_fit_runs_total"], ShouldBeTrue)
				So(names["test_index_fit_iterations"], ShouldBeTrue)
				So(names["test_index_record_count"], ShouldBeTrue)
			})
		})

		Convey("When options carry zero values", func() {
			other := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
			)

			Convey("Then the defaults are preserved", func() {
				So(other.namespace, ShouldEqual, "tci")
				So(other.subsystem, ShouldEqual, "index")
				So(other.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager from init", t, func() {
		So(globalManager, ShouldNotBeNil)
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When recording through the package-level helpers", func() {
			RecordFitRun(12.5, 42, 0.031)
			RecordFitCacheHit()
			UpdateScoringOutcome(10, 2, 1)
			UpdateRecordCount(13)
			RecordHTTPRequest("leaderboard", "GET", "200")
			RecordHTTPRequestDuration("leaderboard", "GET", "200", 3.2)
			RecordErrorByType("client_error", "medium")
			RecordErrorByEndpoint("records", "POST", "client_error")
			RecordErrorLatency("http", "client_error", 1.1)
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(9)

			Convey("Then the registry gathers without error", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
