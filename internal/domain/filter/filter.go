// Package filter derives the user-selected subset of the actor dataset and the
// widget bounds that constrain the selection.
package filter

import (
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/marquee/internal/domain/model"
)

// Rating scale limits.
const (
	RatingFloor   = 0.0
	RatingCeiling = 10.0
)

// Criteria selects records by minimum movie count and inclusive rating range.
type Criteria struct {
	MinMovieCount int     `json:"minMovieCount"`
	RatingLow     float64 `json:"ratingLow"`
	RatingHigh    float64 `json:"ratingHigh"`
}

// Normalize returns c with RatingLow <= RatingHigh.
func (c Criteria) Normalize() Criteria {
	if c.RatingLow > c.RatingHigh {
		c.RatingLow, c.RatingHigh = c.RatingHigh, c.RatingLow
	}
	return c
}

// Match reports whether r satisfies c. Missing movie counts or ratings never match.
func (c Criteria) Match(r model.Record) bool {
	return r.MovieCount >= float64(c.MinMovieCount) &&
		r.Rating >= c.RatingLow &&
		r.Rating <= c.RatingHigh
}

// Apply returns the records of ds matching c, in their original order.
func Apply(ds model.Dataset, c Criteria) model.Dataset {
	c = c.Normalize()
	return ds.Where(c.Match)
}

// Bounds describes the ranges offered by the filter widgets.
type Bounds struct {
	MinMovieCount int     `json:"minMovieCount"`
	MaxMovieCount int     `json:"maxMovieCount"`
	RatingLow     float64 `json:"ratingLow"`  // default selection, dataset minimum
	RatingHigh    float64 `json:"ratingHigh"` // default selection, dataset maximum
}

// BoundsOf computes widget bounds from the full dataset.
func BoundsOf(ds model.Dataset) Bounds {
	movieLo, movieHi := span(ds.Column(model.ColumnMovieCount))
	ratingLo, ratingHi := span(ds.Column(model.ColumnRating))

	b := Bounds{RatingLow: RatingFloor, RatingHigh: RatingCeiling}
	if !math.IsNaN(movieLo) {
		b.MinMovieCount = int(math.Floor(movieLo))
		b.MaxMovieCount = int(math.Ceil(movieHi))
	}
	if !math.IsNaN(ratingLo) {
		b.RatingLow = clamp(ratingLo, RatingFloor, RatingCeiling)
		b.RatingHigh = clamp(ratingHi, RatingFloor, RatingCeiling)
	}
	return b
}

// Default returns the initial criteria: preferredMin clamped into the movie
// count bounds and the full dataset rating span.
func Default(b Bounds, preferredMin int) Criteria {
	return Criteria{
		MinMovieCount: ClampMovieCount(b, preferredMin),
		RatingLow:     b.RatingLow,
		RatingHigh:    b.RatingHigh,
	}
}

// ClampMovieCount keeps n within the slider bounds.
func ClampMovieCount(b Bounds, n int) int {
	return max(b.MinMovieCount, min(b.MaxMovieCount, n))
}

// ClampRating keeps v within the rating scale.
func ClampRating(v float64) float64 {
	if math.IsNaN(v) {
		return RatingFloor
	}
	return clamp(v, RatingFloor, RatingCeiling)
}

// ActorOptions returns the distinct actor names of ds in collation order.
func ActorOptions(ds model.Dataset) []string {
	names := distinct(ds)
	collate.New(language.English).SortStrings(names)
	return names
}

// CompareOptions returns the distinct actor names of ds in order of first appearance.
func CompareOptions(ds model.Dataset) []string {
	return distinct(ds)
}

// Contains reports whether an actor named name is in ds.
func Contains(ds model.Dataset, name string) bool {
	for i := range ds.Len() {
		if ds.At(i).Actor == name {
			return true
		}
	}
	return false
}

func distinct(ds model.Dataset) []string {
	seen := make(map[string]struct{}, ds.Len())
	names := make([]string, 0, ds.Len())
	for i := range ds.Len() {
		name := ds.At(i).Actor
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return slices.Clip(names)
}

// span returns the min and max of the non-NaN values, or NaN, NaN.
func span(values []float64) (float64, float64) {
	lo, hi := math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
