package chart_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/okian/marquee/internal/adapters/chart"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func dataset() model.Dataset {
	return model.NewDataset(nil, []model.Record{
		{Actor: "A", MovieCount: 10, Rating: 8, FameScore: 5, TalentScore: 9, BalanceScore: 7},
		{Actor: "B", MovieCount: 2, Rating: 6, FameScore: 9, TalentScore: 3, BalanceScore: 6},
		{Actor: "C", MovieCount: 4, Rating: 7, FameScore: math.NaN(), TalentScore: 4, BalanceScore: 5},
	})
}

func TestBuildScatter(t *testing.T) {
	Convey("Given a dataset with one unplottable record", t, func() {
		ds := dataset()

		Convey("When no focus is set", func() {
			p := chart.BuildScatter(ds, "")

			Convey("Then only complete points are plotted and nothing is highlighted", func() {
				So(p.Points, ShouldHaveLength, 2)
				So(p.Highlighted(), ShouldBeFalse)
				So(p.Label, ShouldBeEmpty)
			})
		})

		Convey("When the focus names a present actor", func() {
			p := chart.BuildScatter(ds, "A")

			Convey("Then its point is highlighted with its name", func() {
				So(p.Highlighted(), ShouldBeTrue)
				So(p.Highlight[0].Fame, ShouldEqual, 5)
				So(p.Highlight[0].Talent, ShouldEqual, 9)
				So(p.Label, ShouldEqual, "A")
			})
		})

		Convey("When the focus names an absent actor", func() {
			p := chart.BuildScatter(ds, "Z")

			Convey("Then there is no highlight", func() {
				So(p.Highlighted(), ShouldBeFalse)
			})
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r := chart.NewRenderer(chart.WithSize(320, 200))
		ctx := context.Background()

		Convey("When rendering a highlighted plot as SVG", func() {
			var buf bytes.Buffer
			err := r.Render(ctx, &buf, chart.BuildScatter(dataset(), "A"), chart.FormatSVG)

			Convey("Then an SVG document is written", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When rendering a plot as PNG", func() {
			var buf bytes.Buffer
			err := r.Render(ctx, &buf, chart.BuildScatter(dataset(), ""), chart.FormatPNG)

			Convey("Then a decodable PNG of the configured size is written", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 320)
				So(img.Bounds().Dy(), ShouldEqual, 200)
			})
		})

		Convey("When rendering a single point", func() {
			single := model.NewDataset(nil, []model.Record{
				{Actor: "A", FameScore: 5, TalentScore: 9, BalanceScore: 7},
			})
			var buf bytes.Buffer
			err := r.Render(ctx, &buf, chart.BuildScatter(single, "A"), chart.FormatSVG)

			Convey("Then it still renders", func() {
				So(err, ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When rendering an empty plot", func() {
			var svg, pngBuf bytes.Buffer
			errSVG := r.Render(ctx, &svg, chart.Plot{}, chart.FormatSVG)
			errPNG := r.Render(ctx, &pngBuf, chart.Plot{}, chart.FormatPNG)

			Convey("Then a blank placeholder is written instead of failing", func() {
				So(errSVG, ShouldBeNil)
				So(strings.HasPrefix(svg.String(), "<svg"), ShouldBeTrue)
				So(errPNG, ShouldBeNil)
				_, err := png.Decode(&pngBuf)
				So(err, ShouldBeNil)
			})
		})

		Convey("When asking for an unknown format", func() {
			var buf bytes.Buffer
			err := r.Render(ctx, &buf, chart.Plot{}, chart.Format("gif"))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, chart.ErrUnknownFormat), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When checking content types", func() {
			So(chart.FormatSVG.ContentType(), ShouldEqual, "image/svg+xml")
			So(chart.FormatPNG.ContentType(), ShouldEqual, "image/png")
		})
	})
}
