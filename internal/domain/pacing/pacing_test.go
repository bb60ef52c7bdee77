package pacing_test

import (
	"testing"

	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/pacing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestArrival(t *testing.T) {
	Convey("Given an arrival-time model", t, func() {
		starts := model.StartTimes{"marathon": 420, "half": 480}
		m := pacing.New(starts)

		Convey("When predicting a single runner", func() {
			r := model.RunnerRecord{
				Event:          "marathon",
				RunnerID:       "1",
				PaceSecPerKM:   300, // 5 min/km
				StartOffsetSec: 30,
			}

			Convey("Then arrival is start + offset + pace*km", func() {
				// 420*60 + 30 + 300*10 = 28230
				So(m.Arrival(r, 10), ShouldEqual, 28230)
			})

			Convey("Then km zero yields the runner's own start", func() {
				So(m.Arrival(r, 0), ShouldEqual, 420*60+30)
			})
		})

		Convey("When checking start times", func() {
			So(m.HasStart("marathon"), ShouldBeTrue)
			So(m.HasStart("half"), ShouldBeTrue)
			So(m.HasStart("ultra"), ShouldBeFalse)
		})
	})
}

func TestArrivalAll(t *testing.T) {
	Convey("Given a cohort of one event", t, func() {
		m := pacing.New(model.StartTimes{"half": 480})
		cohort := []model.RunnerRecord{
			{Event: "half", RunnerID: "1", PaceSecPerKM: 240, StartOffsetSec: 0},
			{Event: "half", RunnerID: "2", PaceSecPerKM: 300, StartOffsetSec: 60},
		}

		Convey("When computing all arrivals at one km", func() {
			out := m.ArrivalAll(nil, cohort, 5)

			Convey("Then every runner matches the scalar prediction", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0], ShouldEqual, m.Arrival(cohort[0], 5))
				So(out[1], ShouldEqual, m.Arrival(cohort[1], 5))
			})
		})

		Convey("When reusing the buffer across scan steps", func() {
			buf := m.ArrivalAll(nil, cohort, 5)
			buf = m.ArrivalAll(buf, cohort, 6)

			Convey("Then the buffer is overwritten, not appended", func() {
				So(buf, ShouldHaveLength, 2)
				So(buf[0], ShouldEqual, m.Arrival(cohort[0], 6))
			})
		})

		Convey("When the cohort is empty", func() {
			So(m.ArrivalAll(nil, nil, 5), ShouldBeEmpty)
		})
	})
}
