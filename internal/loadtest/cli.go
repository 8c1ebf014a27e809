package loadtest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/marquee/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger writing to both stdout and a log file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		logFile = "loadtest_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Marquee Load Test
=================

Simulates concurrent browser sessions clicking through the dashboard and checks
every rendered view and both exports for consistency.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8501")
  -sessions int
        Number of simulated browser sessions (default 50)
  -events int
        Widget events per session (default 40)
  -workers int
        Sessions driven concurrently (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write the event transcript to this JSON file
  -log string
        Log file for test output (default: loadtest_TIMESTAMP.log)
  -verbose
        Include rendered views in the transcript and log failed events
  -help
        Show this help message

Examples:
  # Test with default settings
  go run ./cmd/loadtest

  # Hammer a local instance
  go run ./cmd/loadtest -sessions 500 -events 100 -workers 32 -url http://localhost:8080
`)
}
