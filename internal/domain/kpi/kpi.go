// Package kpi computes the aggregate figures shown in the dashboard KPI row.
//
// Missing values are NaN and are skipped by every function here; a column with
// no present values yields NaN rather than zero.
package kpi

import (
	"math"
	"slices"

	"github.com/okian/marquee/internal/domain/model"
)

// Summary holds the KPI card values for a dataset.
type Summary struct {
	AvgFame    float64 `json:"avgFame"`
	AvgTalent  float64 `json:"avgTalent"`
	AvgBalance float64 `json:"avgBalance"`
}

// Summarize returns the mean fame, talent and balance scores of ds.
func Summarize(ds model.Dataset) Summary {
	return Summary{
		AvgFame:    Mean(ds.Column(model.ColumnFameScore)),
		AvgTalent:  Mean(ds.Column(model.ColumnTalentScore)),
		AvgBalance: Mean(ds.Column(model.ColumnBalanceScore)),
	}
}

// Mean returns the arithmetic mean of the non-NaN values.
func Mean(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Quantile returns the q-th quantile (0 <= q <= 1) of the non-NaN values,
// interpolating linearly between the two closest ranks.
func Quantile(values []float64, q float64) float64 {
	present := present(values)
	if len(present) == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	q = math.Min(1, math.Max(0, q))
	slices.Sort(present)

	pos := q * float64(len(present)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return present[lo]
	}
	frac := pos - float64(lo)
	return present[lo] + (present[hi]-present[lo])*frac
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
