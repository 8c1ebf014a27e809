// Package worker runs the single event loop applying dashboard input events.
//
// Exactly one goroutine consumes the queue so events of a session are applied
// in arrival order and state updates never race.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

// Event abstracts what the loop reads off the queue.
type Event = model.Event

// Handler applies one event. Errors are logged and do not stop the loop.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	return f(ctx, e)
}

// Queue defines how the loop receives events.
type Queue interface {
	Dequeue() <-chan Event
}

// Loop consumes the queue and hands every event to the handler.
type Loop struct {
	queue   Queue
	handler Handler
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewLoop creates an event loop with configuration options.
func NewLoop(queue Queue, handler Handler, opts ...Option) *Loop {
	l := &Loop{
		queue:    queue,
		handler:  handler,
		name:     "event-loop",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.logger = l.logger.Named(l.name)
	return l
}

// Run processes events until the queue is closed and drained, ctx is
// canceled, or Shutdown is called.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	events := l.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			l.process(ctx, event)
		}
	}
}

// Shutdown stops the loop and waits for the in-flight event to finish.
func (l *Loop) Shutdown(ctx context.Context) error {
	select {
	case <-l.shutdown:
	default:
		close(l.shutdown)
	}

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		l.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) process(ctx context.Context, event Event) { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordEventRejected("panic")
			l.logger.Error(ctx, "event handler panicked",
				logger.String("eventID", event.EventID),
				logger.Any("panic", r),
			)
		}
	}()

	if err := l.handler.Handle(ctx, event); err != nil {
		metrics.RecordEventRejected("handler_error")
		l.logger.Error(ctx, "error processing event",
			logger.String("eventID", event.EventID),
			logger.String("action", string(event.Action)),
			logger.Error(err),
		)
		return
	}

	metrics.RecordEventProcessed(string(event.Action))
	l.logger.Debug(ctx, "event processed",
		logger.String("eventID", event.EventID),
		logger.String("action", string(event.Action)),
		logger.Duration("took", time.Since(start)),
	)
}
