package repository

import "github.com/okian/marquee/pkg/logger"

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) Option {
	return func(s *CSVStore) {
		if r != 0 {
			s.comma = r
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *CSVStore) {
		if l != nil {
			s.logger = l
		}
	}
}
