package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/runsight/crossover/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When fetching the global instance", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)

			Convey("Then logging at every level does not panic", func() {
				ctx := context.Background()
				So(func() {
					l.Debug(ctx, "debug", logger.String("k", "v"))
					l.Info(ctx, "info", logger.Int("n", 1))
					l.Warn(ctx, "warn", logger.Float64("f", 1.5))
					l.Error(ctx, "error", logger.Bool("b", true), logger.Any("x", struct{}{}))
				}, ShouldNotPanic)
			})
		})

		Convey("When scoping a named logger", func() {
			l := logger.Named("convergence")
			So(l, ShouldNotBeNil)
			So(func() { l.Info(context.Background(), "scoped") }, ShouldNotPanic)
		})

		Convey("When parsing level strings", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)

			logger.SetLevel(slog.LevelInfo)
		})
	})
}
