package report_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRun() model.RunResult {
	return model.RunResult{
		RunID:      "run-1",
		StartedAt:  time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 27, 8, 0, 2, 0, time.UTC),
		Segments: []model.SegmentResult{
			{
				SegmentID:      "S1",
				Label:          "river path",
				EventA:         "fast",
				EventB:         "slow",
				HasConvergence: true,
				Convergence:    &model.ConvergencePoint{KMA: 9.07, KMB: 9.07},
				Overlap: model.OverlapResult{
					OvertakingA:          1,
					OvertakingB:          1,
					CopresenceA:          2,
					CopresenceB:          2,
					UniqueEncounters:     3,
					ParticipantsInvolved: 4,
				},
			},
			{
				SegmentID:  "S2",
				EventA:     "fast",
				EventB:     "ghost",
				SkipReason: model.SkipMissingStart,
			},
		},
		Summary: model.RunSummary{
			SegmentsProcessed:       1,
			SegmentsWithConvergence: 1,
			SegmentsSkipped:         1,
		},
	}
}

func sampleDataset() model.Dataset {
	return model.Dataset{
		Runners: map[string][]model.RunnerRecord{
			"fast": {
				{Event: "fast", RunnerID: "1", PaceSecPerKM: 240},
				{Event: "fast", RunnerID: "2", PaceSecPerKM: 260},
			},
			"slow": {
				{Event: "slow", RunnerID: "1", PaceSecPerKM: 480},
			},
		},
		Starts: model.StartTimes{"fast": 460, "slow": 420},
	}
}

func TestWriteMarkdown(t *testing.T) {
	Convey("Given a finished run", t, func() {
		var b strings.Builder

		Convey("When rendering Markdown", func() {
			err := report.WriteMarkdown(&b, sampleRun(), sampleDataset())
			out := b.String()

			Convey("Then the report carries the run identity and totals", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "run-1")
				So(out, ShouldContainSubstring, "| 1 | 1 | 1 |")
			})

			Convey("Then every event appears with its pace stats", func() {
				So(out, ShouldContainSubstring, "| fast | 2 |")
				So(out, ShouldContainSubstring, "| slow | 1 |")
				// Mean of 240 and 260 s/km is 4.17 min/km.
				So(out, ShouldContainSubstring, "4.17")
			})

			Convey("Then converged and skipped segments both render", func() {
				So(out, ShouldContainSubstring, "| S1 | yes | 9.07 |")
				So(out, ShouldContainSubstring, "skipped (missing_start_time)")
			})
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a finished run", t, func() {
		var b strings.Builder

		Convey("When exporting CSV", func() {
			err := report.WriteCSV(&b, sampleRun())
			So(err, ShouldBeNil)

			rows, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then a header and one row per segment come back", func() {
				So(rows, ShouldHaveLength, 3)
				So(rows[0][0], ShouldEqual, "segment_id")
			})

			Convey("Then converged rows carry the point coordinates", func() {
				So(rows[1][0], ShouldEqual, "S1")
				So(rows[1][4], ShouldEqual, "true")
				So(rows[1][6], ShouldEqual, "9.07")
			})

			Convey("Then skipped rows stay empty where nothing applies", func() {
				So(rows[2][0], ShouldEqual, "S2")
				So(rows[2][5], ShouldEqual, "missing_start_time")
				So(rows[2][6], ShouldEqual, "")
			})
		})
	})
}
