// Package loadtest drives concurrent simulated browser sessions against a
// running dashboard and checks every rendered view for consistency.
package loadtest

import (
	"time"

	"github.com/okian/marquee/internal/domain/dashboard"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL          string        // Base URL of the service
	Sessions         int           // Number of simulated browser sessions
	EventsPerSession int           // Widget events sent by each session
	Workers          int           // Sessions driven concurrently
	Timeout          time.Duration // HTTP request timeout
	OutputFile       string        // Transcript output file
	LogFile          string        // Log file for test output
	Verbose          bool          // Enable verbose logging
}

// Event is the JSON body of POST /api/events.
type Event struct {
	EventID       string   `json:"event_id"`
	Action        string   `json:"action"`
	MinMovieCount *int     `json:"min_movie_count,omitempty"`
	RatingLow     *float64 `json:"rating_low,omitempty"`
	RatingHigh    *float64 `json:"rating_high,omitempty"`
	Focus         string   `json:"focus,omitempty"`
	StoryEnabled  bool     `json:"story_enabled"`
	Compare       []string `json:"compare,omitempty"`
}

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Step is one event of a session transcript and its outcome.
type Step struct {
	Session   int                  `json:"session"`
	Event     Event                `json:"event"`
	Status    int                  `json:"status"`
	View      *dashboard.ViewModel `json:"view,omitempty"`
	Violation string               `json:"violation,omitempty"`
}

// Stats holds test statistics.
type Stats struct {
	SessionsStarted  int
	SessionsFinished int
	EventsSubmitted  int
	EventsSuccessful int
	EventsRejected   int
	EventsFailed     int
	Violations       int
	ExportsVerified  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
