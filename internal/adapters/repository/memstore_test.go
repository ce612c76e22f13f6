package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/tci/internal/adapters/repository"
	"github.com/okian/tci/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newRecord(name string, teleqna float64) model.BenchmarkRecord {
	return model.BenchmarkRecord{
		Model:    name,
		Provider: "acme",
		Scores:   map[string]*model.Score{"teleqna": {Value: teleqna}},
	}
}

func TestMemStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)

		Convey("When upserting a fresh record", func() {
			created, err := store.Upsert(ctx, newRecord("alpha-1.0", 70))

			Convey("Then it is reported as new", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And it can be read back by key", func() {
				rec, err := store.Get(ctx, "acme/alpha-1.0")
				So(err, ShouldBeNil)
				So(rec.Model, ShouldEqual, "alpha-1.0")
			})
		})

		Convey("When upserting the same key twice", func() {
			_, err := store.Upsert(ctx, newRecord("alpha-1.0", 70))
			So(err, ShouldBeNil)
			created, err := store.Upsert(ctx, newRecord("alpha-1.0", 85))

			Convey("Then the second write replaces in place", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)

				rec, err := store.Get(ctx, "acme/alpha-1.0")
				So(err, ShouldBeNil)
				So(rec.Scores["teleqna"].Value, ShouldEqual, 85)
			})
		})

		Convey("When upserting an invalid record", func() {
			bad := newRecord("alpha-1.0", 120)
			_, err := store.Upsert(ctx, bad)

			Convey("Then the write is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When reading a missing key", func() {
			_, err := store.Get(ctx, "acme/nope-1.0")

			Convey("Then a not-found error comes back", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing after interleaved writes", func() {
			_, _ = store.Upsert(ctx, newRecord("alpha-1.0", 70))
			_, _ = store.Upsert(ctx, newRecord("beta-1.0", 60))
			_, _ = store.Upsert(ctx, newRecord("gamma-1.0", 50))
			// Re-publishing alpha must not move it to the back.
			_, _ = store.Upsert(ctx, newRecord("alpha-1.0", 75))

			records := store.List(ctx)

			Convey("Then first-arrival order is preserved", func() {
				So(records, ShouldHaveLength, 3)
				So(records[0].Model, ShouldEqual, "alpha-1.0")
				So(records[1].Model, ShouldEqual, "beta-1.0")
				So(records[2].Model, ShouldEqual, "gamma-1.0")
				So(records[0].Scores["teleqna"].Value, ShouldEqual, 75)
			})

			Convey("Then the returned slice is a copy", func() {
				records[0].Model = "mutated"
				again := store.List(ctx)
				So(again[0].Model, ShouldEqual, "alpha-1.0")
			})
		})
	})

	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					name := fmt.Sprintf("worker-%d.%d", n, j)
					_, _ = store.Upsert(ctx, newRecord(name, 50))
				}
			}(i)
		}
		wg.Wait()

		Convey("Then every distinct key survives exactly once", func() {
			So(store.Count(ctx), ShouldEqual, 400)
			So(store.List(ctx), ShouldHaveLength, 400)
		})
	})
}
