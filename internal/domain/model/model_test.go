package model_test

import (
	"math"
	"testing"

	model "github.com/okian/marquee/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAction(t *testing.T) {
	convey.Convey("Given the widget actions", t, func() {
		convey.Convey("Then every declared action should be valid", func() {
			for _, a := range []model.Action{
				model.ActionView, model.ActionSetFilter, model.ActionSetFocus,
				model.ActionToggleStory, model.ActionPrev, model.ActionNext, model.ActionSetCompare,
			} {
				convey.So(a.Valid(), convey.ShouldBeTrue)
			}
		})

		convey.Convey("And unknown or empty actions should be invalid", func() {
			convey.So(model.Action("").Valid(), convey.ShouldBeFalse)
			convey.So(model.Action("reset").Valid(), convey.ShouldBeFalse)
			convey.So(model.Action("NEXT").Valid(), convey.ShouldBeFalse)
		})
	})
}

func TestRecordValue(t *testing.T) {
	convey.Convey("Given a record", t, func() {
		r := model.Record{Actor: "A", MovieCount: 10, Rating: 7, FameScore: 4, TalentScore: 8, BalanceScore: 6}

		convey.Convey("Then numeric columns should resolve by name", func() {
			convey.So(r.Value(model.ColumnMovieCount), convey.ShouldEqual, 10)
			convey.So(r.Value(model.ColumnRating), convey.ShouldEqual, 7)
			convey.So(r.Value(model.ColumnFameScore), convey.ShouldEqual, 4)
			convey.So(r.Value(model.ColumnTalentScore), convey.ShouldEqual, 8)
			convey.So(r.Value(model.ColumnBalanceScore), convey.ShouldEqual, 6)
		})

		convey.Convey("And non-numeric or unknown columns should be NaN", func() {
			convey.So(math.IsNaN(r.Value(model.ColumnActor)), convey.ShouldBeTrue)
			convey.So(math.IsNaN(r.Value("genre")), convey.ShouldBeTrue)
		})
	})
}

func TestDataset(t *testing.T) {
	convey.Convey("Given a dataset built from records", t, func() {
		cols := []string{"actor", "movie_count", "rating", "fameScore", "talentScore", "balanceScore", "genre"}
		recs := []model.Record{
			{Actor: "A", MovieCount: 10, Rating: 7},
			{Actor: "B", MovieCount: 2, Rating: 9},
			{Actor: "C", MovieCount: math.NaN(), Rating: 5},
		}
		ds := model.NewDataset(cols, recs)

		convey.Convey("Then it should keep source order and columns", func() {
			convey.So(ds.Len(), convey.ShouldEqual, 3)
			convey.So(ds.At(1).Actor, convey.ShouldEqual, "B")
			convey.So(ds.Columns(), convey.ShouldResemble, cols)
		})

		convey.Convey("And it should not share storage with its inputs", func() {
			recs[0].Actor = "changed"
			cols[0] = "changed"
			convey.So(ds.At(0).Actor, convey.ShouldEqual, "A")
			convey.So(ds.Columns()[0], convey.ShouldEqual, "actor")
		})

		convey.Convey("And accessors should return copies", func() {
			got := ds.Records()
			got[0].Actor = "changed"
			c := ds.Columns()
			c[0] = "changed"
			convey.So(ds.At(0).Actor, convey.ShouldEqual, "A")
			convey.So(ds.Columns()[0], convey.ShouldEqual, "actor")
		})

		convey.Convey("And Where should filter in order, keeping columns", func() {
			sub := ds.Where(func(r model.Record) bool { return r.Rating >= 7 })
			convey.So(sub.Len(), convey.ShouldEqual, 2)
			convey.So(sub.At(0).Actor, convey.ShouldEqual, "A")
			convey.So(sub.At(1).Actor, convey.ShouldEqual, "B")
			convey.So(sub.Columns(), convey.ShouldResemble, cols)
		})

		convey.Convey("And Column should carry NaN for missing values", func() {
			vals := ds.Column(model.ColumnMovieCount)
			convey.So(vals[:2], convey.ShouldResemble, []float64{10, 2})
			convey.So(math.IsNaN(vals[2]), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a dataset without explicit columns", t, func() {
		ds := model.NewDataset(nil, nil)

		convey.Convey("Then it should use the canonical column order", func() {
			convey.So(ds.Len(), convey.ShouldEqual, 0)
			convey.So(ds.Columns(), convey.ShouldResemble, model.RequiredColumns)
		})

		convey.Convey("And the zero value should behave the same", func() {
			var zero model.Dataset
			convey.So(zero.Columns(), convey.ShouldResemble, model.RequiredColumns)
			convey.So(zero.Where(func(model.Record) bool { return true }).Len(), convey.ShouldEqual, 0)
		})
	})
}
