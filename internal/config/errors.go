package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	// ErrInvalidConfig wraps every validation failure, naming the offending key.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures to read or decode the config file or env.
	ErrLoadConfig = errors.New("load config failed")
)
