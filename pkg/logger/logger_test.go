package logger

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			log := Get()
			So(log, ShouldNotBeNil)

			// Smoke the level methods; output goes to stdout.
			ctx := context.Background()
			log.Info(ctx, "info message", String("key", "value"))
			log.Warn(ctx, "warn message", Int("count", 3))
			log.Error(ctx, "error message", Float64("score", 101.5))
			log.Debug(ctx, "debug message", Any("payload", []int{1, 2}))
		})

		Convey("Then Named wraps without losing the interface", func() {
			So(Named("scoring"), ShouldNotBeNil)
		})

		Convey("Then Sync is a no-op", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When parsing known levels", func() {
			for _, lvl := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When parsing an unknown level", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})

		Convey("When setting a level directly", func() {
			SetLevel(slog.LevelDebug)
			So(levelVar.Level(), ShouldEqual, slog.LevelDebug)
			SetLevel(slog.LevelInfo)
		})
	})
}
