// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns defaults; Load(ctx) layers a config file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath is the actor ranking CSV read once at startup.
	DataPath string `koanf:"data_path"`

	// DataDelimiter is the CSV field separator; empty means ",".
	DataDelimiter string `koanf:"data_delimiter"`

	// DefaultMinMovieCount is the initial movie count filter, clamped to the data.
	DefaultMinMovieCount int `koanf:"default_min_movie_count"`

	// TopN bounds the top-by-fame and top-by-balance tables.
	TopN int `koanf:"top_n"`

	// MaxCompare caps how many actors can be compared at once.
	MaxCompare int `koanf:"max_compare"`

	// QueueSize bounds the in-memory input event queue.
	QueueSize int `koanf:"queue_size"`

	// MaxSessions bounds the number of dashboard sessions kept in memory.
	MaxSessions int `koanf:"max_sessions"`

	// EventTimeoutMS is how long a request waits for its event to be processed.
	EventTimeoutMS int `koanf:"event_timeout_ms"`

	// ChartWidth and ChartHeight size the scatter image in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `koanf:"otel_endpoint"`

	// ServiceName identifies this process in traces.
	ServiceName string `koanf:"service_name"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8501",
		DataPath:             "projects/bollywood-dashboard/BollywoodActorRanking.csv",
		DefaultMinMovieCount: 5,
		TopN:                 10,
		MaxCompare:           2,
		QueueSize:            1024,
		MaxSessions:          10_000,
		EventTimeoutMS:       5_000,
		ChartWidth:           960,
		ChartHeight:          520,
		ServiceName:          "marquee",
	}
}
