package service

import (
	"time"

	"github.com/okian/marquee/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxSessions sets how many sessions are kept in memory.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithTopN sets the row count of the top-N tables.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.renderOpts.TopN = n
		}
	}
}

// WithMaxCompare caps how many actors can be compared at once.
func WithMaxCompare(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.renderOpts.MaxCompare = n
		}
	}
}

// WithDefaultMinMovieCount sets the movie count filter of new sessions.
func WithDefaultMinMovieCount(n int) Option {
	return func(s *Service) {
		s.defaultMinMovieCount = n
	}
}

// WithEventTimeout bounds how long Submit waits for the loop.
func WithEventTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.eventTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
