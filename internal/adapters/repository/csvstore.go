package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVStore loads the actor ranking CSV once and serves it from memory.
type CSVStore struct {
	path   string
	comma  rune
	logger logger.Logger

	once sync.Once
	ds   model.Dataset
	err  error
}

// NewCSVStore creates a store reading path on first use.
func NewCSVStore(path string, opts ...Option) *CSVStore {
	s := &CSVStore{
		path:  path,
		comma: ',',
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}
	return s
}

// Open creates a store and loads it immediately, so load failures surface at startup.
func Open(ctx context.Context, path string, opts ...Option) (*CSVStore, error) {
	s := NewCSVStore(path, opts...)
	if _, err := s.Dataset(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Path returns the source file path.
func (s *CSVStore) Path() string { return s.path }

// Dataset returns the cached dataset, loading it on the first call.
func (s *CSVStore) Dataset(ctx context.Context) (model.Dataset, error) {
	s.once.Do(func() {
		start := time.Now()
		s.ds, s.err = s.load()
		if s.err != nil {
			s.logger.Error(ctx, "dataset load failed", logger.String("path", s.path), logger.Error(s.err))
			return
		}
		metrics.UpdateDatasetRows(s.ds.Len())
		s.logger.Info(ctx, "dataset loaded",
			logger.String("path", s.path),
			logger.Int("rows", s.ds.Len()),
			logger.Int("columns", len(s.ds.Columns())),
			logger.Any("elapsed", time.Since(start)),
		)
	})
	return s.ds, s.err
}

func (s *CSVStore) load() (model.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, s.path)
		}
		return model.Dataset{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, s.comma)
}

// Parse reads an actor ranking CSV. Numeric columns are coerced to float64;
// cells that fail to parse become NaN. A file without data rows is ErrEmptyDataset.
func Parse(r io.Reader, comma rune) (model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Dataset{}, ErrEmptyDataset
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range model.RequiredColumns {
		if _, ok := index[col]; !ok {
			return model.Dataset{}, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		records = append(records, recordOf(header, index, row))
	}
	if len(records) == 0 {
		return model.Dataset{}, ErrEmptyDataset
	}
	return model.NewDataset(header, records), nil
}

func recordOf(header []string, index map[string]int, row []string) model.Record {
	cell := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}
	rec := model.Record{
		Actor:        strings.TrimSpace(cell(model.ColumnActor)),
		MovieCount:   number(cell(model.ColumnMovieCount)),
		Rating:       number(cell(model.ColumnRating)),
		FameScore:    number(cell(model.ColumnFameScore)),
		TalentScore:  number(cell(model.ColumnTalentScore)),
		BalanceScore: number(cell(model.ColumnBalanceScore)),
	}
	for i, name := range header {
		if isRequired(name) || i >= len(row) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[name] = row[i]
	}
	return rec
}

// number parses a numeric cell; blanks and garbage are NaN.
func number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isRequired(name string) bool {
	for _, col := range model.RequiredColumns {
		if col == name {
			return true
		}
	}
	return false
}
