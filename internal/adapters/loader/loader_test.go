package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/runsight/crossover/internal/adapters/loader"
	"github.com/runsight/crossover/internal/domain/dedupe"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const validRoster = `event,runner_id,pace_min_per_km,start_offset_sec
marathon,1,5.0,0
marathon,2,4.5,30
half,1,6.0,0
`

const validCourse = `start_times:
  marathon: 420
  half: 480
segments:
  - segment_id: S1
    label: river path
    event_a: half
    event_b: marathon
    from_km_a: 2
    to_km_a: 7
    from_km_b: 12
    to_km_b: 17
    flow: overtake
    overtake: true
  - segment_id: S2
    event_a: half
    event_b: marathon
    from_km_a: 8
    to_km_a: 8
    from_km_b: 18
    to_km_b: 18
    flow: merge
`

func TestLoadRunners(t *testing.T) {
	Convey("Given a loader", t, func() {
		ctx := context.Background()
		l := loader.New(dedupe.NewInMemoryDeduper())

		Convey("When the roster is valid", func() {
			path := writeFile(t, "runners.csv", validRoster)
			cohorts, err := l.LoadRunners(ctx, path)

			Convey("Then runners are grouped by event", func() {
				So(err, ShouldBeNil)
				So(cohorts, ShouldHaveLength, 2)
				So(cohorts["marathon"], ShouldHaveLength, 2)
				So(cohorts["half"], ShouldHaveLength, 1)
			})

			Convey("Then pace is converted to seconds per km", func() {
				So(err, ShouldBeNil)
				So(cohorts["marathon"][0].PaceSecPerKM, ShouldEqual, 300)
				So(cohorts["marathon"][1].StartOffsetSec, ShouldEqual, 30)
			})
		})

		Convey("When the roster repeats a runner", func() {
			body := validRoster + "marathon,1,5.5,10\n"
			path := writeFile(t, "runners.csv", body)
			cohorts, err := l.LoadRunners(ctx, path)

			Convey("Then the duplicate row is dropped", func() {
				So(err, ShouldBeNil)
				So(cohorts["marathon"], ShouldHaveLength, 2)
				So(cohorts["marathon"][0].PaceSecPerKM, ShouldEqual, 300)
			})
		})

		Convey("When no deduper is supplied", func() {
			keepAll := loader.New(nil)
			body := validRoster + "marathon,1,5.5,10\n"
			path := writeFile(t, "runners.csv", body)
			cohorts, err := keepAll.LoadRunners(ctx, path)

			Convey("Then every row is kept", func() {
				So(err, ShouldBeNil)
				So(cohorts["marathon"], ShouldHaveLength, 3)
			})
		})

		Convey("When the header is wrong", func() {
			path := writeFile(t, "runners.csv", "event,id,pace\nmarathon,1,5\n")
			_, err := l.LoadRunners(ctx, path)

			So(err, ShouldWrap, loader.ErrLoadRunners)
		})

		Convey("When a row fails validation", func() {
			body := "event,runner_id,pace_min_per_km,start_offset_sec\nmarathon,1,-5,0\n"
			path := writeFile(t, "runners.csv", body)
			_, err := l.LoadRunners(ctx, path)

			So(err, ShouldWrap, loader.ErrLoadRunners)
		})

		Convey("When a field is not numeric", func() {
			body := "event,runner_id,pace_min_per_km,start_offset_sec\nmarathon,1,fast,0\n"
			path := writeFile(t, "runners.csv", body)
			_, err := l.LoadRunners(ctx, path)

			So(err, ShouldWrap, loader.ErrLoadRunners)
		})

		Convey("When the file does not exist", func() {
			_, err := l.LoadRunners(ctx, filepath.Join(t.TempDir(), "nope.csv"))
			So(err, ShouldWrap, loader.ErrLoadRunners)
		})
	})
}

func TestLoadCourse(t *testing.T) {
	Convey("Given a loader", t, func() {
		ctx := context.Background()
		l := loader.New(nil)

		Convey("When the course plan is valid", func() {
			path := writeFile(t, "course.yaml", validCourse)
			starts, segments, err := l.LoadCourse(ctx, path)

			Convey("Then start times and segments are returned", func() {
				So(err, ShouldBeNil)
				So(starts["marathon"], ShouldEqual, 420)
				So(starts["half"], ShouldEqual, 480)
				So(segments, ShouldHaveLength, 2)
				So(segments[0].SegmentID, ShouldEqual, "S1")
				So(segments[0].Flow, ShouldEqual, model.FlowOvertake)
				So(segments[0].Overtake, ShouldBeTrue)
			})

			Convey("Then a zero-length window still loads", func() {
				// Malformed windows are a per-segment skip downstream,
				// not a load failure.
				So(err, ShouldBeNil)
				So(segments[1].WindowA(), ShouldEqual, 0)
			})
		})

		Convey("When a segment has an unknown flow", func() {
			body := `start_times:
  marathon: 420
segments:
  - segment_id: S1
    event_a: marathon
    event_b: marathon
    from_km_a: 0
    to_km_a: 1
    from_km_b: 0
    to_km_b: 1
    flow: sideways
`
			path := writeFile(t, "course.yaml", body)
			_, _, err := l.LoadCourse(ctx, path)

			So(err, ShouldWrap, loader.ErrLoadCourse)
		})

		Convey("When the plan has no segments", func() {
			path := writeFile(t, "course.yaml", "start_times:\n  marathon: 420\n")
			_, _, err := l.LoadCourse(ctx, path)

			So(err, ShouldWrap, loader.ErrLoadCourse)
		})
	})
}

func TestLoadDataset(t *testing.T) {
	Convey("Given valid roster and course files", t, func() {
		ctx := context.Background()
		l := loader.New(dedupe.NewInMemoryDeduper())
		runnersPath := writeFile(t, "runners.csv", validRoster)
		coursePath := writeFile(t, "course.yaml", validCourse)

		Convey("When loading the dataset", func() {
			ds, err := l.LoadDataset(ctx, runnersPath, coursePath)

			Convey("Then both inputs are bundled", func() {
				So(err, ShouldBeNil)
				So(ds.Runners, ShouldHaveLength, 2)
				So(ds.Starts, ShouldHaveLength, 2)
				So(ds.Segments, ShouldHaveLength, 2)
				So(ds.Cohort("half"), ShouldHaveLength, 1)
				So(ds.Cohort("ultra"), ShouldBeEmpty)
			})
		})
	})
}
