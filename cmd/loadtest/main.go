package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/marquee/internal/loadtest"
)

// Default configuration constants.
const (
	defaultSessions    = 50
	defaultEvents      = 40
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL    = flag.String("url", "http://localhost:8501", "Base URL of the service")
		sessions   = flag.Int("sessions", defaultSessions, "Number of simulated browser sessions")
		events     = flag.Int("events", defaultEvents, "Widget events per session")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Sessions driven concurrently")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the event transcript to this JSON file")
		logFile    = flag.String("log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return 0
	}

	closer, err := loadtest.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:          *baseURL,
		Sessions:         *sessions,
		EventsPerSession: *events,
		Workers:          *workers,
		Timeout:          *timeout,
		OutputFile:       *outputFile,
		LogFile:          *logFile,
		Verbose:          *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		if errors.Is(err, loadtest.ErrViolations) {
			return 2
		}
		return 1
	}
	return 0
}
