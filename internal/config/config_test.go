package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/runsight/crossover/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given no file and no env overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.ScanStepKM, ShouldEqual, 0.01)
			So(cfg.TimeToleranceSec, ShouldEqual, 3.0)
			So(cfg.MinOverlapSec, ShouldEqual, 5.0)
			So(cfg.TemporalBinThresholdMin, ShouldEqual, 10.0)
			So(cfg.SpatialBinThresholdM, ShouldEqual, 100.0)
			So(cfg.QueueSize, ShouldEqual, 10_000)
			So(cfg.MaxHotspotLimit, ShouldEqual, 100)
		})
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CROSSOVER_ADDR", ":7070")
	t.Setenv("CROSSOVER_TIME_TOLERANCE_SEC", "4.5")
	t.Setenv("CROSSOVER_LOG_LEVEL", "debug")

	Convey("Given env overrides with the CROSSOVER_ prefix", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.TimeToleranceSec, ShouldEqual, 4.5)
			So(cfg.LogLevel, ShouldEqual, "debug")

			Convey("And untouched keys keep their defaults", func() {
				So(cfg.ScanStepKM, ShouldEqual, 0.01)
			})
		})
	})
}

func TestFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "addr: \":6060\"\nmin_overlap_sec: 8\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CROSSOVER_CONFIG", path)
	t.Setenv("CROSSOVER_ADDR", ":5050")

	Convey("Given a config file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env beats file beats defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":5050")
			So(cfg.MinOverlapSec, ShouldEqual, 8.0)
			So(cfg.QueueSize, ShouldEqual, 10_000)
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given an out-of-band tolerance", t, func() {
		t.Setenv("CROSSOVER_TIME_TOLERANCE_SEC", "1")
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the config sentinel", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "time_tolerance_sec")
		})
	})

	Convey("Given a non-positive scan step", t, func() {
		t.Setenv("CROSSOVER_SCAN_STEP_KM", "0")
		_, err := config.Load(context.Background())

		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "scan_step_km")
	})
}
