package kpi_test

import (
	"math"
	"testing"

	"github.com/okian/marquee/internal/domain/kpi"
	"github.com/okian/marquee/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given a dataset with a single actor", t, func() {
		ds := model.NewDataset(nil, []model.Record{
			{Actor: "A", MovieCount: 10, Rating: 8, FameScore: 5, TalentScore: 9, BalanceScore: 7},
		})

		Convey("Then the averages equal that actor's scores", func() {
			s := kpi.Summarize(ds)
			So(s.AvgFame, ShouldEqual, 5)
			So(s.AvgTalent, ShouldEqual, 9)
			So(s.AvgBalance, ShouldEqual, 7)
		})
	})

	Convey("Given an empty dataset", t, func() {
		ds := model.NewDataset(nil, nil)

		Convey("Then every KPI is NaN and nothing panics", func() {
			So(func() { kpi.Summarize(ds) }, ShouldNotPanic)
			s := kpi.Summarize(ds)
			So(math.IsNaN(s.AvgFame), ShouldBeTrue)
			So(math.IsNaN(s.AvgTalent), ShouldBeTrue)
			So(math.IsNaN(s.AvgBalance), ShouldBeTrue)
		})
	})

	Convey("Given records with missing values", t, func() {
		nan := math.NaN()
		ds := model.NewDataset(nil, []model.Record{
			{Actor: "A", FameScore: 4, TalentScore: nan, BalanceScore: nan},
			{Actor: "B", FameScore: nan, TalentScore: nan, BalanceScore: nan},
			{Actor: "C", FameScore: 8, TalentScore: nan, BalanceScore: nan},
		})

		Convey("Then missing values are skipped rather than counted as zero", func() {
			s := kpi.Summarize(ds)
			So(s.AvgFame, ShouldEqual, 6)
		})

		Convey("And an all-missing column stays NaN", func() {
			s := kpi.Summarize(ds)
			So(math.IsNaN(s.AvgTalent), ShouldBeTrue)
			So(math.IsNaN(s.AvgBalance), ShouldBeTrue)
		})
	})
}

func TestQuantile(t *testing.T) {
	Convey("Given the values 1 through 4", t, func() {
		values := []float64{4, 1, 3, 2}

		Convey("Then the median interpolates between the middle ranks", func() {
			So(kpi.Quantile(values, 0.5), ShouldEqual, 2.5)
		})

		Convey("And the 75th percentile interpolates linearly", func() {
			So(kpi.Quantile(values, 0.75), ShouldAlmostEqual, 3.25, 1e-9)
		})

		Convey("And the extremes are the min and max", func() {
			So(kpi.Quantile(values, 0), ShouldEqual, 1)
			So(kpi.Quantile(values, 1), ShouldEqual, 4)
		})

		Convey("And the input slice is left untouched", func() {
			kpi.Quantile(values, 0.5)
			So(values, ShouldResemble, []float64{4, 1, 3, 2})
		})
	})

	Convey("Given only missing values", t, func() {
		Convey("Then the quantile is NaN", func() {
			So(math.IsNaN(kpi.Quantile([]float64{math.NaN()}, 0.5)), ShouldBeTrue)
			So(math.IsNaN(kpi.Quantile(nil, 0.75)), ShouldBeTrue)
		})
	})

	Convey("Given a single value", t, func() {
		Convey("Then every quantile is that value", func() {
			So(kpi.Quantile([]float64{7}, 0.75), ShouldEqual, 7)
		})
	})
}
