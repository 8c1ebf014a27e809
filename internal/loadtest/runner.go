package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/marquee/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// ErrViolations is returned by Run when any rendered view failed verification.
var ErrViolations = errors.New("load test found view violations")

// counters aggregates results across session workers.
type counters struct {
	started, finished                       atomic.Int64
	submitted, successful, rejected, failed atomic.Int64
	violations, exports                     atomic.Int64
}

// Run executes the complete load test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting dashboard load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.Sessions),
		logger.Int("eventsPerSession", config.EventsPerSession),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Drive sessions concurrently
	transcript, c := runSessions(ctx, config)

	// Step 3: Save transcript
	if config.OutputFile != "" {
		if err := saveTranscript(ctx, config.OutputFile, transcript); err != nil {
			log.Warn(ctx, "failed to save transcript", logger.Error(err))
		}
	}

	stats.SessionsStarted = int(c.started.Load())
	stats.SessionsFinished = int(c.finished.Load())
	stats.EventsSubmitted = int(c.submitted.Load())
	stats.EventsSuccessful = int(c.successful.Load())
	stats.EventsRejected = int(c.rejected.Load())
	stats.EventsFailed = int(c.failed.Load())
	stats.Violations = int(c.violations.Load())
	stats.ExportsVerified = int(c.exports.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is up and its dataset is loaded.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client, err := newHTTPClient(config.BaseURL, config.Timeout)
	if err != nil {
		return err
	}

	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	_, _ = readResponseBody(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	// A missing dataset answers 503 on every dashboard route.
	if _, err := client.fetchView(ctx); err != nil {
		return fmt.Errorf("dashboard unavailable: %w", err)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runSessions drives config.Sessions sessions through a worker pool.
func runSessions(ctx context.Context, config *Config) ([]Step, *counters) {
	c := &counters{}
	transcripts := make([][]Step, config.Sessions)

	sessionChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	progressCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()
	go reportProgress(progressCtx, config, c)

	workers := max(1, min(config.Workers, config.Sessions))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range sessionChan {
				if ctx.Err() != nil {
					return
				}
				transcripts[id] = runSession(ctx, config, id, c)
			}
		}()
	}

	go func() {
		defer close(sessionChan)
		for id := range config.Sessions {
			select {
			case <-ctx.Done():
				return
			case sessionChan <- id:
			}
		}
	}()

	wg.Wait()

	var all []Step
	for _, t := range transcripts {
		all = append(all, t...)
	}
	return all, c
}

// runSession plays one browser session: load the view, send random events
// verifying each transition, then check both exports against the final view.
func runSession(ctx context.Context, config *Config, id int, c *counters) []Step {
	log := logger.Get()
	c.started.Add(1)

	client, err := newHTTPClient(config.BaseURL, config.Timeout)
	if err != nil {
		log.Error(ctx, "session setup failed", logger.Int("session", id), logger.Error(err))
		return nil
	}

	current, err := client.fetchView(ctx)
	if err != nil {
		c.failed.Add(1)
		log.Warn(ctx, "initial view failed", logger.Int("session", id), logger.Error(err))
		return nil
	}
	if err := verifyView(current); err != nil {
		c.violations.Add(1)
		log.Error(ctx, "initial view invalid", logger.Int("session", id), logger.Error(err))
	}

	steps := make([]Step, 0, config.EventsPerSession)
	for range config.EventsPerSession {
		if ctx.Err() != nil {
			break
		}
		e := generateEvent(current)
		status, vm, err := client.submitEvent(ctx, e)
		c.submitted.Add(1)
		step := Step{Session: id, Event: e, Status: status}

		switch {
		case err == nil:
			c.successful.Add(1)
			if verr := verifyTransition(current, vm, e); verr != nil {
				c.violations.Add(1)
				step.Violation = verr.Error()
				log.Error(ctx, "view violation", logger.Int("session", id), logger.String("action", e.Action), logger.Error(verr))
			}
			current = vm
			if config.Verbose {
				step.View = vm
			}
		case status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
			c.rejected.Add(1)
		default:
			c.failed.Add(1)
			if config.Verbose {
				log.Warn(ctx, "event failed", logger.Int("session", id), logger.String("action", e.Action), logger.Error(err))
			}
		}
		steps = append(steps, step)
	}

	if err := verifyExports(ctx, client, current.Filtered); err != nil {
		if errors.Is(err, ErrViolation) {
			c.violations.Add(1)
		} else {
			c.failed.Add(1)
		}
		log.Error(ctx, "export check failed", logger.Int("session", id), logger.Error(err))
	} else {
		c.exports.Add(1)
	}

	c.finished.Add(1)
	return steps
}

// reportProgress logs running totals until ctx is done.
func reportProgress(ctx context.Context, config *Config, c *counters) {
	ticker := time.NewTicker(ProgressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Get().Info(ctx, "progress",
				logger.Int("sessionsFinished", int(c.finished.Load())),
				logger.Int("sessions", config.Sessions),
				logger.Int("eventsSubmitted", int(c.submitted.Load())),
				logger.Int("violations", int(c.violations.Load())))
		}
	}
}

// saveTranscript writes every submitted event and its outcome as a JSON array.
func saveTranscript(ctx context.Context, filename string, steps []Step) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(steps); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	logger.Get().Info(ctx, "transcript saved to file", logger.String("filename", filename), logger.Int("steps", len(steps)))
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, eventsPerSecond float64

	if stats.EventsSubmitted > 0 {
		successRate = float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("sessionsStarted", stats.SessionsStarted),
		logger.Int("sessionsFinished", stats.SessionsFinished),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsSuccessful", stats.EventsSuccessful),
		logger.Int("eventsRejected", stats.EventsRejected),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("violations", stats.Violations),
		logger.Int("exportsVerified", stats.ExportsVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
