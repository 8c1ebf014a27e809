// Package export writes the filtered actor set as a downloadable file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/metrics"
)

// Format is a download encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding the rows of an XLSX export.
const SheetName = "bollywood_filtered"

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Filename returns base with f's extension, e.g. "bollywood_filtered.xlsx".
func (f Format) Filename(base string) string {
	return strings.TrimSuffix(base, ".csv") + "." + string(f)
}

// Write encodes ds to w in format f.
func Write(w io.Writer, ds model.Dataset, f Format) error {
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(w, ds)
	case FormatXLSX:
		err = WriteXLSX(w, ds)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err == nil {
		metrics.RecordExport(string(f))
	}
	return err
}

// WriteCSV writes a header row in source column order followed by one line per
// record. Missing numeric cells are written empty.
func WriteCSV(w io.Writer, ds model.Dataset) error {
	cw := csv.NewWriter(w)
	columns := ds.Columns()
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	line := make([]string, len(columns))
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		for j, col := range columns {
			line[j] = Cell(r, col)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
// Numeric cells are stored as numbers.
func WriteXLSX(w io.Writer, ds model.Dataset) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	columns := ds.Columns()
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: bold}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = xlsxCell(r, col)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}

// Cell renders column col of r as text.
func Cell(r model.Record, col string) string {
	switch col {
	case model.ColumnActor:
		return r.Actor
	case model.ColumnMovieCount, model.ColumnRating, model.ColumnFameScore,
		model.ColumnTalentScore, model.ColumnBalanceScore:
		v := r.Value(col)
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return r.Extra[col]
	}
}

func xlsxCell(r model.Record, col string) interface{} {
	switch col {
	case model.ColumnActor:
		return r.Actor
	case model.ColumnMovieCount, model.ColumnRating, model.ColumnFameScore,
		model.ColumnTalentScore, model.ColumnBalanceScore:
		v := r.Value(col)
		if math.IsNaN(v) {
			return nil
		}
		return v
	default:
		return r.Extra[col]
	}
}
