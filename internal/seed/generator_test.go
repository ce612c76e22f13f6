package seed

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateFleet(t *testing.T) {
	Convey("Given a fleet size and seed", t, func() {
		records := generateFleet(50, 7)

		Convey("Then the requested number of models comes back", func() {
			So(records, ShouldHaveLength, 50)
		})

		Convey("Then every record is well formed", func() {
			for _, rec := range records {
				So(rec.Model, ShouldNotBeEmpty)
				So(rec.Provider, ShouldNotBeEmpty)
				So(rec.ReleaseDate, ShouldNotBeEmpty)
				for key, s := range rec.Scores {
					So(benchmarkKeys, ShouldContain, key)
					So(s.Value, ShouldBeBetweenOrEqual, 0, 100)
				}
			}
		})

		Convey("Then some benchmarks are missing across the fleet", func() {
			total := 0
			for _, rec := range records {
				total += len(rec.Scores)
			}
			So(total, ShouldBeLessThan, 50*len(benchmarkKeys))
			So(total, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given two runs with different seeds", t, func() {
		a := generateFleet(10, 1)
		b := generateFleet(10, 2)

		Convey("Then the fleets differ", func() {
			diff := 0
			for i := range a {
				if a[i].Provider != b[i].Provider || len(a[i].Scores) != len(b[i].Scores) {
					diff++
					continue
				}
				for key, s := range a[i].Scores {
					if other, ok := b[i].Scores[key]; !ok || other.Value != s.Value {
						diff++
						break
					}
				}
			}
			So(diff, ShouldBeGreaterThan, 0)
		})
	})
}

func TestVerifyRanking(t *testing.T) {
	Convey("Given leaderboard entries", t, func() {
		Convey("When ranks are sequential and scores decline", func() {
			entries := []Entry{
				{Rank: 1, Model: "a-1.0", TCI: 110},
				{Rank: 2, Model: "b-1.0", TCI: 105},
				{Rank: 3, Model: "c-1.0", TCI: 105},
			}
			So(verifyRanking(entries), ShouldBeNil)
		})

		Convey("When a rank is skipped", func() {
			entries := []Entry{
				{Rank: 1, Model: "a-1.0", TCI: 110},
				{Rank: 3, Model: "b-1.0", TCI: 105},
			}
			So(verifyRanking(entries), ShouldNotBeNil)
		})

		Convey("When a score rises down the board", func() {
			entries := []Entry{
				{Rank: 1, Model: "a-1.0", TCI: 100},
				{Rank: 2, Model: "b-1.0", TCI: 109},
			}
			So(verifyRanking(entries), ShouldNotBeNil)
		})

		Convey("When the board is empty", func() {
			So(verifyRanking(nil), ShouldBeNil)
		})
	})
}
