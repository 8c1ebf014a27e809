package story_test

import (
	"testing"

	"github.com/okian/marquee/internal/domain/story"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNavigator(t *testing.T) {
	Convey("Given a new navigator", t, func() {
		var n story.Navigator

		Convey("Then it starts at the first step", func() {
			So(n.Step(), ShouldEqual, story.First)
		})

		Convey("When retreating at the first step", func() {
			got := n.Prev()

			Convey("Then it stays put", func() {
				So(got, ShouldEqual, story.First)
				So(n.Step(), ShouldEqual, story.First)
			})
		})

		Convey("When advancing past the last step", func() {
			for range 10 {
				n.Next()
			}

			Convey("Then it stops at the last step", func() {
				So(n.Step(), ShouldEqual, story.Last)
				So(n.Next(), ShouldEqual, story.Last)
			})

			Convey("And reset returns to the first step", func() {
				n.Reset()
				So(n.Step(), ShouldEqual, story.First)
			})
		})
	})

	Convey("Given every step below the last", t, func() {
		Convey("Then next followed by prev returns to the start", func() {
			for s := story.First; s < story.Last; s++ {
				n := story.NewNavigator(s)
				n.Next()
				So(n.Prev(), ShouldEqual, s)
			}
		})
	})

	Convey("Given out of range positions", t, func() {
		Convey("Then they are clamped", func() {
			So(story.NewNavigator(0).Step(), ShouldEqual, story.First)
			So(story.NewNavigator(9).Step(), ShouldEqual, story.Last)
			So(story.Clamp(-3), ShouldEqual, story.First)
		})
	})
}

func TestTransitions(t *testing.T) {
	Convey("Given the pure transitions", t, func() {
		So(story.Prev(story.First), ShouldEqual, story.First)
		So(story.Next(story.Last), ShouldEqual, story.Last)
		So(story.Next(story.Stars), ShouldEqual, story.HiddenGems)
		So(story.Prev(story.Export), ShouldEqual, story.Compare)
	})
}

func TestCaption(t *testing.T) {
	Convey("Given each step", t, func() {
		Convey("Then its caption names the step", func() {
			So(story.Overview.Caption(), ShouldStartWith, "Step 1")
			So(story.HiddenGems.Caption(), ShouldContainSubstring, "Hidden gems")
			So(story.Export.Caption(), ShouldStartWith, "Step 5")
		})
	})
}
