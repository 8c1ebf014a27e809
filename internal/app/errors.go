package service

import "errors"

// Sentinel kinds returned by Submit. Callers map them to transport errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrUnavailable  = errors.New("dataset unavailable")
	ErrInvalidEvent = errors.New("invalid event")
	ErrBackpressure = errors.New("event queue full")
	ErrTimeout      = errors.New("event timed out")
)
