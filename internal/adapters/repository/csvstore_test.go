package repository_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/marquee/internal/adapters/repository"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const rankingCSV = "\ufeffactor,movie_count,rating,fameScore,talentScore,balanceScore,industry\n" +
	"A,10,8,5,9,7,Hindi\n" +
	"B,2,6,9,3,6,Hindi\n" +
	"C,4,n/a,,7.5,6.25,Tamil\n"

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "BollywoodActorRanking.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	Convey("Given a ranking CSV with a BOM, an extra column and bad cells", t, func() {
		ds, err := repository.Parse(strings.NewReader(rankingCSV), ',')

		Convey("Then it parses every row in file order", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 3)
			So(ds.At(0).Actor, ShouldEqual, "A")
			So(ds.At(2).Actor, ShouldEqual, "C")
		})

		Convey("And numeric columns are coerced", func() {
			So(ds.At(0).MovieCount, ShouldEqual, 10)
			So(ds.At(2).TalentScore, ShouldEqual, 7.5)
		})

		Convey("And unparseable or blank cells become NaN", func() {
			So(math.IsNaN(ds.At(2).Rating), ShouldBeTrue)
			So(math.IsNaN(ds.At(2).FameScore), ShouldBeTrue)
		})

		Convey("And the header keeps source order with the BOM stripped", func() {
			So(ds.Columns()[0], ShouldEqual, model.ColumnActor)
			So(ds.Columns()[6], ShouldEqual, "industry")
			So(ds.At(2).Extra["industry"], ShouldEqual, "Tamil")
		})
	})

	Convey("Given a CSV missing a required column", t, func() {
		_, err := repository.Parse(strings.NewReader("actor,rating\nA,5\n"), ',')

		Convey("Then it reports the missing column", func() {
			So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
			So(repository.Unavailable(err), ShouldBeTrue)
		})
	})

	Convey("Given a CSV with only a header", t, func() {
		_, err := repository.Parse(strings.NewReader("actor,movie_count,rating,fameScore,talentScore,balanceScore\n"), ',')

		Convey("Then the dataset is empty", func() {
			So(errors.Is(err, repository.ErrEmptyDataset), ShouldBeTrue)
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := repository.Parse(strings.NewReader(""), ',')
		So(errors.Is(err, repository.ErrEmptyDataset), ShouldBeTrue)
	})

	Convey("Given a semicolon separated file", t, func() {
		in := "actor;movie_count;rating;fameScore;talentScore;balanceScore\nA;1;2;3;4;5\n"
		ds, err := repository.Parse(strings.NewReader(in), ';')
		So(err, ShouldBeNil)
		So(ds.At(0).BalanceScore, ShouldEqual, 5)
	})
}

func TestCSVStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store over an existing file", t, func() {
		path := writeTemp(t, rankingCSV)
		s, err := repository.Open(ctx, path)
		So(err, ShouldBeNil)

		Convey("When the file disappears after the first load", func() {
			So(os.Remove(path), ShouldBeNil)
			ds, err := s.Dataset(ctx)

			Convey("Then the cached dataset is still served", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 3)
				So(s.Path(), ShouldEqual, path)
			})
		})
	})

	Convey("Given a store over a missing file", t, func() {
		s, err := repository.Open(ctx, filepath.Join(t.TempDir(), "nope.csv"))

		Convey("Then loading fails with not found", func() {
			So(errors.Is(err, repository.ErrDatasetNotFound), ShouldBeTrue)
			So(s, ShouldNotBeNil)
		})

		Convey("And the failure is cached", func() {
			_, again := s.Dataset(ctx)
			So(errors.Is(again, repository.ErrDatasetNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a store with a custom delimiter", t, func() {
		path := writeTemp(t, "actor\tmovie_count\trating\tfameScore\ttalentScore\tbalanceScore\nA\t1\t2\t3\t4\t5\n")
		s, err := repository.Open(ctx, path, repository.WithComma('\t'))
		So(err, ShouldBeNil)
		ds, _ := s.Dataset(ctx)
		So(ds.At(0).Actor, ShouldEqual, "A")
	})
}
