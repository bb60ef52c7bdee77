package axis_test

import (
	"testing"

	"github.com/runsight/crossover/internal/domain/axis"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Given the fraction clamp", t, func() {
		Convey("When the value is inside [0,1]", func() {
			v, reason := axis.Clamp(0.42)
			So(v, ShouldEqual, 0.42)
			So(reason, ShouldEqual, axis.ReasonNone)
		})

		Convey("When the value sits exactly on a boundary", func() {
			v, reason := axis.Clamp(0)
			So(v, ShouldEqual, 0)
			So(reason, ShouldEqual, axis.ReasonNone)

			v, reason = axis.Clamp(1)
			So(v, ShouldEqual, 1)
			So(reason, ShouldEqual, axis.ReasonNone)
		})

		Convey("When the value is negative", func() {
			v, reason := axis.Clamp(-0.001)
			So(v, ShouldEqual, 0)
			So(reason, ShouldEqual, axis.ReasonNegative)
		})

		Convey("When the value exceeds one", func() {
			v, reason := axis.Clamp(1.001)
			So(v, ShouldEqual, 1)
			So(reason, ShouldEqual, axis.ReasonExceedsOne)
		})
	})
}

func TestMapper(t *testing.T) {
	Convey("Given two windows measuring the same ground", t, func() {
		Convey("When the windows differ in offset and length", func() {
			// A: 10-12 km, B: 30-34 km. Same stretch, B's ruler is
			// stretched 2x.
			m, err := axis.NewMapper(10, 12, 30, 34)
			So(err, ShouldBeNil)

			Convey("Then fractions are linear in A's window", func() {
				f, reason := m.Fraction(11)
				So(f, ShouldEqual, 0.5)
				So(reason, ShouldEqual, axis.ReasonNone)
			})

			Convey("Then mapped positions stay proportional on B's ruler", func() {
				kmB, reason := m.AToB(10)
				So(kmB, ShouldEqual, 30)
				So(reason, ShouldEqual, axis.ReasonNone)

				kmB, _ = m.AToB(11)
				So(kmB, ShouldEqual, 32)

				kmB, _ = m.AToB(12)
				So(kmB, ShouldEqual, 34)
			})

			Convey("Then out-of-window positions clamp to the segment ends", func() {
				kmB, reason := m.AToB(9.5)
				So(kmB, ShouldEqual, 30)
				So(reason, ShouldEqual, axis.ReasonNegative)

				kmB, reason = m.AToB(12.5)
				So(kmB, ShouldEqual, 34)
				So(reason, ShouldEqual, axis.ReasonExceedsOne)
			})
		})

		Convey("When a window is degenerate", func() {
			Convey("Then a zero-length A window is rejected", func() {
				_, err := axis.NewMapper(10, 10, 30, 34)
				So(err, ShouldEqual, axis.ErrDegenerateWindow)
			})

			Convey("Then an inverted B window is rejected", func() {
				_, err := axis.NewMapper(10, 12, 34, 30)
				So(err, ShouldEqual, axis.ErrDegenerateWindow)
			})
		})
	})
}
