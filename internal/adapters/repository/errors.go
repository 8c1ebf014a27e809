package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyDataset    = errors.New("dataset is empty")
	ErrMissingColumn   = errors.New("dataset column missing")
	ErrMalformed       = errors.New("dataset malformed")
)

// Unavailable reports whether err means the dataset cannot be shown at all.
func Unavailable(err error) bool {
	return errors.Is(err, ErrDatasetNotFound) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrMalformed)
}
