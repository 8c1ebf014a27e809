// Package service ties the dataset, the session store and the event loop
// together and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	eventqueue "github.com/okian/marquee/internal/adapters/mq/queue"
	"github.com/okian/marquee/internal/adapters/mq/worker"
	"github.com/okian/marquee/internal/adapters/repository"
	"github.com/okian/marquee/internal/adapters/session"
	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/internal/domain/filter"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
	"github.com/okian/marquee/pkg/tracing"
)

// Default service configuration.
const (
	defaultQueueSize     = 1024
	defaultMaxSessions   = 10_000
	defaultMinMovieCount = 5
	defaultEventTimeout  = 5 * time.Second
	loopShutdownTimeout  = 5 * time.Second
)

// Story transition directions as recorded in metrics.
const (
	directionPrev = "prev"
	directionNext = "next"
)

// reply is what the loop hands back to a waiting Submit call.
type reply struct {
	vm  dashboard.ViewModel
	err error
}

// Service processes dashboard input events for every session.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	sessions   session.Store
	eventQueue eventqueue.Queue
	loop       *worker.Loop

	// Dataset, fixed after Start
	dataset model.Dataset
	bounds  filter.Bounds
	dataErr error
	reducer dashboard.Reducer

	// Configuration
	queueSize            int
	maxSessions          int
	defaultMinMovieCount int
	eventTimeout         time.Duration
	renderOpts           dashboard.Options

	pendingMu sync.Mutex
	pending   map[string]chan reply

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service reading its dataset from store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:                store,
		queueSize:            defaultQueueSize,
		maxSessions:          defaultMaxSessions,
		defaultMinMovieCount: defaultMinMovieCount,
		eventTimeout:         defaultEventTimeout,
		renderOpts: dashboard.Options{
			TopN:       dashboard.DefaultTopN,
			MaxCompare: dashboard.DefaultMaxCompare,
		},
		pending: make(map[string]chan reply),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and starts the event loop.
// A missing or empty dataset is not a start failure: the service runs and
// every Submit reports ErrUnavailable.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting dashboard service...")

	ds, err := s.store.Dataset(ctx)
	if err != nil {
		s.dataErr = err
		s.logger.Warn(ctx, "dataset unavailable, serving error page",
			logger.String("path", s.store.Path()),
			logger.Error(err),
		)
	} else {
		s.dataset = ds
		s.bounds = filter.BoundsOf(ds)
	}
	s.reducer = dashboard.Reducer{Bounds: s.bounds, MaxCompare: s.renderOpts.MaxCompare}

	s.sessions = session.NewInMemoryStore(session.WithMaxSize(s.maxSessions))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.loop = worker.NewLoop(s.eventQueue, s, worker.WithName("dashboard"))

	// The loop outlives the request that started the service.
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.loop.Run(loopCtx)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("rows", s.dataset.Len()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxSessions", s.maxSessions),
		logger.Int("topN", s.renderOpts.TopN),
	)

	return nil
}

// Stop closes the queue, lets the loop drain and shuts it down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	_ = s.eventQueue.Close()

	select {
	case <-s.loop.Done():
	case <-time.After(loopShutdownTimeout):
		s.logger.Warn(ctx, "event loop did not drain in time")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, loopShutdownTimeout)
	defer cancel()
	if err := s.loop.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "event loop shutdown failed", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "dashboard service stopped")
}

// Available reports nil when the dataset loaded, otherwise the load error.
func (s *Service) Available() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	if s.dataErr != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, s.dataErr)
	}
	return nil
}

// Submit enqueues e and waits for the loop to apply it, returning the
// re-rendered view of e's session.
func (s *Service) Submit(ctx context.Context, e model.Event) (dashboard.ViewModel, error) { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	if err := s.Available(); err != nil {
		return dashboard.ViewModel{}, err
	}
	if e.SessionID == "" {
		return dashboard.ViewModel{}, fmt.Errorf("%w: missing session", ErrInvalidEvent)
	}
	if !e.Action.Valid() {
		return dashboard.ViewModel{}, fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, e.Action)
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.TS.IsZero() {
		e.TS = time.Now()
	}

	ch := make(chan reply, 1)
	s.pendingMu.Lock()
	s.pending[e.EventID] = ch
	s.pendingMu.Unlock()
	defer s.forget(e.EventID)

	if err := s.eventQueue.Enqueue(ctx, e); err != nil {
		return dashboard.ViewModel{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}

	timer := time.NewTimer(s.eventTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.vm, r.err
	case <-timer.C:
		metrics.RecordEventRejected("timeout")
		return dashboard.ViewModel{}, fmt.Errorf("%w: after %s", ErrTimeout, s.eventTimeout)
	case <-ctx.Done():
		return dashboard.ViewModel{}, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

// View renders the current state of a session without changing it.
func (s *Service) View(ctx context.Context, sessionID string) (dashboard.ViewModel, error) {
	return s.Submit(ctx, model.Event{SessionID: sessionID, Action: model.ActionView})
}

// Handle applies one event on the loop goroutine. It implements worker.Handler.
func (s *Service) Handle(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	ctx, span := tracing.Tracer().Start(ctx, "dashboard.handle_event",
		trace.WithAttributes(
			attribute.String("event.id", e.EventID),
			attribute.String("event.action", string(e.Action)),
		),
	)
	defer span.End()

	prev, ok := s.sessions.Load(ctx, e.SessionID)
	if !ok {
		prev = dashboard.NewState(s.bounds, s.defaultMinMovieCount)
	}

	next := s.reducer.Apply(prev, e)
	switch e.Action {
	case model.ActionPrev:
		metrics.RecordStoryTransition(directionPrev, next.Step != prev.Step)
	case model.ActionNext:
		metrics.RecordStoryTransition(directionNext, next.Step != prev.Step)
	}
	s.sessions.Save(ctx, e.SessionID, next)

	vm := s.render(ctx, next)
	span.SetAttributes(
		attribute.Int("dashboard.step", int(next.Step)),
		attribute.String("dashboard.mode", vm.Mode),
		attribute.Int("dashboard.filtered", vm.Filtered),
	)

	if !s.deliver(e.EventID, reply{vm: vm}) {
		span.SetStatus(codes.Error, "caller gone")
		s.logger.Debug(ctx, "no caller waiting for event", logger.String("eventID", e.EventID))
	}
	return nil
}

func (s *Service) render(ctx context.Context, st dashboard.State) dashboard.ViewModel {
	_, span := tracing.Tracer().Start(ctx, "dashboard.render")
	defer span.End()

	start := time.Now()
	vm := dashboard.Render(st, s.dataset, s.bounds, s.renderOpts)
	metrics.RecordRenderLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateFilteredRows(vm.Filtered)
	return vm
}

// deliver hands r to the caller waiting on id, if any.
func (s *Service) deliver(id string, r reply) bool {
	s.pendingMu.Lock()
	ch, ok := s.pending[id]
	delete(s.pending, id)
	s.pendingMu.Unlock()
	if !ok {
		return false
	}
	ch <- r
	return true
}

func (s *Service) forget(id string) {
	s.pendingMu.Lock()
	delete(s.pending, id)
	s.pendingMu.Unlock()
}

// Dataset returns the full loaded dataset.
func (s *Service) Dataset() (model.Dataset, error) {
	if err := s.Available(); err != nil {
		return model.Dataset{}, err
	}
	return s.dataset, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"queueSize":   s.queueSize,
		"maxSessions": s.maxSessions,
		"topN":        s.renderOpts.TopN,
		"maxCompare":  s.renderOpts.MaxCompare,
	}

	if s.store != nil {
		stats["dataPath"] = s.store.Path()
	}

	if s.started {
		stats["datasetAvailable"] = s.dataErr == nil
		stats["totalActors"] = s.dataset.Len()
		stats["queueLength"] = s.eventQueue.Len()
		stats["sessions"] = s.sessions.Size()

		s.pendingMu.Lock()
		stats["pendingEvents"] = len(s.pending)
		s.pendingMu.Unlock()
	}

	return stats
}
