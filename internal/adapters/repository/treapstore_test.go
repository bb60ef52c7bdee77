package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/runsight/crossover/internal/adapters/repository"
	"github.com/runsight/crossover/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func segResult(id, label string, participants, encounters int) model.SegmentResult {
	return model.SegmentResult{
		SegmentID: id,
		Label:     label,
		Overlap: model.OverlapResult{
			ParticipantsInvolved: participants,
			UniqueEncounters:     encounters,
		},
	}
}

func TestRunStorage(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := repository.NewTreapStore(ctx)

		Convey("When no runs exist", func() {
			_, err := s.GetRun(ctx, "missing")
			So(err, ShouldEqual, repository.ErrNotFound)

			_, err = s.LatestRun(ctx)
			So(err, ShouldEqual, repository.ErrNotFound)

			So(s.Count(ctx), ShouldEqual, 0)
		})

		Convey("When runs are stored", func() {
			first := model.RunResult{RunID: "r1"}
			second := model.RunResult{RunID: "r2"}
			So(s.PutRun(ctx, first), ShouldBeNil)
			So(s.PutRun(ctx, second), ShouldBeNil)

			Convey("Then they can be fetched by id", func() {
				got, err := s.GetRun(ctx, "r1")
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, "r1")
			})

			Convey("Then the latest run is the most recent", func() {
				got, err := s.LatestRun(ctx)
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, "r2")
				So(s.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When more runs arrive than the store keeps", func() {
			small := repository.NewTreapStore(ctx, repository.WithMaxRuns(2))
			for i := 1; i <= 3; i++ {
				So(small.PutRun(ctx, model.RunResult{RunID: fmt.Sprintf("r%d", i)}), ShouldBeNil)
			}

			Convey("Then the oldest run is evicted", func() {
				So(small.Count(ctx), ShouldEqual, 2)
				_, err := small.GetRun(ctx, "r1")
				So(err, ShouldEqual, repository.ErrNotFound)

				got, err := small.LatestRun(ctx)
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, "r3")
			})
		})
	})
}

func TestHotspots(t *testing.T) {
	Convey("Given a store with one indexed run", t, func() {
		ctx := context.Background()
		s := repository.NewTreapStore(ctx)

		run := model.RunResult{
			RunID: "r1",
			Segments: []model.SegmentResult{
				segResult("S1", "city loop", 40, 300),
				segResult("S2", "river path", 120, 900),
				segResult("S3", "bridge", 40, 250),
				segResult("S4", "finish straight", 7, 12),
			},
		}
		So(s.PutRun(ctx, run), ShouldBeNil)

		Convey("When listing the top hotspots", func() {
			top, err := s.TopHotspots(ctx, 3)
			So(err, ShouldBeNil)

			Convey("Then segments rank by participants, ties by id", func() {
				So(top, ShouldHaveLength, 3)
				So(top[0].SegmentID, ShouldEqual, "S2")
				So(top[0].Rank, ShouldEqual, 1)
				So(top[0].Participants, ShouldEqual, 120)
				So(top[0].Encounters, ShouldEqual, 900)
				So(top[1].SegmentID, ShouldEqual, "S1")
				So(top[2].SegmentID, ShouldEqual, "S3")
			})
		})

		Convey("When asking for more than exist", func() {
			top, err := s.TopHotspots(ctx, 50)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 4)
		})

		Convey("When the limit is invalid", func() {
			_, err := s.TopHotspots(ctx, 0)
			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})

		Convey("When ranking a single segment", func() {
			h, err := s.HotspotRank(ctx, "S3")
			So(err, ShouldBeNil)
			So(h.Rank, ShouldEqual, 3)
			So(h.Label, ShouldEqual, "bridge")

			_, err = s.HotspotRank(ctx, "nope")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When a newer run changes a segment's score", func() {
			update := model.RunResult{
				RunID: "r2",
				Segments: []model.SegmentResult{
					segResult("S4", "finish straight", 500, 4000),
				},
			}
			So(s.PutRun(ctx, update), ShouldBeNil)

			Convey("Then the index reflects the newest numbers", func() {
				top, err := s.TopHotspots(ctx, 1)
				So(err, ShouldBeNil)
				So(top[0].SegmentID, ShouldEqual, "S4")
				So(top[0].Participants, ShouldEqual, 500)

				h, err := s.HotspotRank(ctx, "S2")
				So(err, ShouldBeNil)
				So(h.Rank, ShouldEqual, 2)
			})
		})
	})
}
