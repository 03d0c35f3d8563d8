package pbp_test

import (
	"testing"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassifiers(t *testing.T) {
	Convey("Given play-by-play events", t, func() {
		Convey("When classifying missed shots", func() {
			So(pbp.IsMissedShot(pbp.Event{Type: pbp.EventMissedShot}), ShouldBeTrue)
			So(pbp.IsMissedShot(pbp.Event{Type: pbp.EventMadeShot}), ShouldBeFalse)
			So(pbp.IsMissedShot(pbp.Event{Type: pbp.EventRebound}), ShouldBeFalse)

			Convey("Then the zero value is never a missed shot", func() {
				So(pbp.IsMissedShot(pbp.Event{}), ShouldBeFalse)
			})
		})

		Convey("When classifying offensive rebounds", func() {
			reb := pbp.Event{Type: pbp.EventRebound, TeamID: 1610612747}

			So(pbp.IsOffensiveRebound(reb, 1610612747), ShouldBeTrue)
			So(pbp.IsOffensiveRebound(reb, 1610612738), ShouldBeFalse)

			Convey("Then non-rebound events never qualify", func() {
				miss := pbp.Event{Type: pbp.EventMissedShot, TeamID: 1610612747}
				So(pbp.IsOffensiveRebound(miss, 1610612747), ShouldBeFalse)
			})
		})

		Convey("When classifying scores", func() {
			So(pbp.IsScore(pbp.Event{Type: pbp.EventMadeShot}), ShouldBeTrue)
			So(pbp.IsScore(pbp.Event{Type: pbp.EventFreeThrow}), ShouldBeTrue)
			So(pbp.IsScore(pbp.Event{Type: pbp.EventMissedShot}), ShouldBeFalse)
			So(pbp.IsScore(pbp.Event{Type: pbp.EventTurnover}), ShouldBeFalse)
		})

		Convey("When classifying unknown event codes", func() {
			unknown := pbp.Event{Type: pbp.EventType(13)}

			Convey("Then no predicate matches", func() {
				So(pbp.IsMissedShot(unknown), ShouldBeFalse)
				So(pbp.IsScore(unknown), ShouldBeFalse)
				So(pbp.IsOffensiveRebound(unknown, 0), ShouldBeFalse)
			})
		})
	})
}

func TestExtractPoints(t *testing.T) {
	Convey("Given scoring plays with description text", t, func() {
		Convey("When the description carries a three-point marker", func() {
			e := pbp.Event{Type: pbp.EventMadeShot, HomeDescription: "James 26' 3PT Jump Shot (12 PTS)"}
			So(pbp.ExtractPoints(e), ShouldEqual, 3)
		})

		Convey("When the marker is spelled out", func() {
			e := pbp.Event{Type: pbp.EventMadeShot, VisitorDescription: "Curry Three Point Shot"}
			So(pbp.ExtractPoints(e), ShouldEqual, 3)
		})

		Convey("When the description carries a free-throw marker", func() {
			e := pbp.Event{Type: pbp.EventFreeThrow, HomeDescription: "Davis Free Throw 1 of 2 (8 PTS)"}
			So(pbp.ExtractPoints(e), ShouldEqual, 1)
		})

		Convey("When the description carries a technical marker", func() {
			e := pbp.Event{Type: pbp.EventFreeThrow, VisitorDescription: "Tatum Technical (1 PTS)"}
			So(pbp.ExtractPoints(e), ShouldEqual, 1)
		})

		Convey("When both three-point and free-throw markers appear", func() {
			e := pbp.Event{Type: pbp.EventMadeShot, HomeDescription: "3PT after Technical"}

			Convey("Then the three-point category wins", func() {
				So(pbp.ExtractPoints(e), ShouldEqual, 3)
			})
		})

		Convey("When the description has no recognized marker", func() {
			e := pbp.Event{Type: pbp.EventMadeShot, HomeDescription: "Jokic Driving Layup (20 PTS)"}
			So(pbp.ExtractPoints(e), ShouldEqual, 2)
		})

		Convey("When the description is empty", func() {
			So(pbp.ExtractPoints(pbp.Event{Type: pbp.EventMadeShot}), ShouldEqual, 2)
		})

		Convey("When matching is case-sensitive", func() {
			e := pbp.Event{Type: pbp.EventMadeShot, HomeDescription: "three point shot"}

			Convey("Then a lowercase marker does not match", func() {
				So(pbp.ExtractPoints(e), ShouldEqual, 2)
			})
		})
	})
}

func TestEventDescription(t *testing.T) {
	Convey("Given events with broadcast descriptions", t, func() {
		Convey("When only one side has text", func() {
			So(pbp.Event{HomeDescription: "home"}.Description(), ShouldEqual, "home")
			So(pbp.Event{VisitorDescription: "visitor"}.Description(), ShouldEqual, "visitor")
		})

		Convey("When both sides have text", func() {
			e := pbp.Event{HomeDescription: "home", VisitorDescription: "visitor"}
			So(e.Description(), ShouldEqual, "home visitor")
		})

		Convey("When neither side has text", func() {
			So(pbp.Event{}.Description(), ShouldEqual, "")
		})
	})
}
