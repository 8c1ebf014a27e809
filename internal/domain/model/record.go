// Package model contains domain models passed between layers.
package model

import (
	"math"
	"slices"
)

// Canonical column names of the actor ranking file.
const (
	ColumnActor        = "actor"
	ColumnMovieCount   = "movie_count"
	ColumnRating       = "rating"
	ColumnFameScore    = "fameScore"
	ColumnTalentScore  = "talentScore"
	ColumnBalanceScore = "balanceScore"
)

// RequiredColumns lists the columns every dataset must carry, in display order.
var RequiredColumns = []string{
	ColumnActor,
	ColumnMovieCount,
	ColumnRating,
	ColumnFameScore,
	ColumnTalentScore,
	ColumnBalanceScore,
}

// Record is one row of the actor ranking file.
// Numeric fields hold NaN when the source cell was missing or unparseable.
type Record struct {
	Actor        string  `json:"actor"`
	MovieCount   float64 `json:"movie_count"` // whole number
	Rating       float64 `json:"rating"`
	FameScore    float64 `json:"fameScore"`
	TalentScore  float64 `json:"talentScore"`
	BalanceScore float64 `json:"balanceScore"`

	// Extra holds cells of non-canonical columns, keyed by header name.
	Extra map[string]string `json:"-"`
}

// Value returns the numeric value of a canonical numeric column.
// Unknown columns yield NaN.
func (r Record) Value(column string) float64 {
	switch column {
	case ColumnMovieCount:
		return r.MovieCount
	case ColumnRating:
		return r.Rating
	case ColumnFameScore:
		return r.FameScore
	case ColumnTalentScore:
		return r.TalentScore
	case ColumnBalanceScore:
		return r.BalanceScore
	default:
		return math.NaN()
	}
}

// Dataset is an ordered, immutable sequence of records in source order.
type Dataset struct {
	columns []string
	records []Record
}

// NewDataset builds a dataset from records. When columns is empty the
// canonical column order is used.
func NewDataset(columns []string, records []Record) Dataset {
	if len(columns) == 0 {
		columns = RequiredColumns
	}
	return Dataset{
		columns: slices.Clone(columns),
		records: slices.Clone(records),
	}
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// At returns the i-th record.
func (d Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of the records.
func (d Dataset) Records() []Record { return slices.Clone(d.records) }

// Columns returns the source column order.
func (d Dataset) Columns() []string {
	if len(d.columns) == 0 {
		return slices.Clone(RequiredColumns)
	}
	return slices.Clone(d.columns)
}

// Where returns the records matching keep, preserving order and columns.
func (d Dataset) Where(keep func(Record) bool) Dataset {
	out := make([]Record, 0, len(d.records))
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Dataset{columns: d.columns, records: out}
}

// Column returns the values of a numeric column in record order.
func (d Dataset) Column(column string) []float64 {
	vals := make([]float64, len(d.records))
	for i, r := range d.records {
		vals[i] = r.Value(column)
	}
	return vals
}
