// Package repository provides the read-only actor dataset.
//
// The dataset is read from disk once per process; every later call returns the
// cached, immutable copy.
package repository

import (
	"context"

	"github.com/okian/marquee/internal/domain/model"
)

// Store provides read access to the actor dataset.
type Store interface {
	// Dataset returns the loaded dataset. The first call reads the source;
	// later calls return the cached result, including a cached load error.
	Dataset(ctx context.Context) (model.Dataset, error)

	// Path returns the configured source location.
	Path() string
}
