package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/marquee/internal/adapters/mq/worker"
	model "github.com/okian/marquee/internal/domain/model"
	logging "github.com/okian/marquee/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan chan worker.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan worker.Event, 10),
	}
}

func (mq *mockQueue) Dequeue() <-chan worker.Event {
	return mq.eventChan
}

func (mq *mockQueue) addEvent(event worker.Event) { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	mq.eventChan <- event
}

type recordingHandler struct {
	mu     sync.Mutex
	seen   []string
	errors map[string]error
	panics map[string]bool
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		errors: make(map[string]error),
		panics: make(map[string]bool),
	}
}

func (h *recordingHandler) Handle(_ context.Context, e worker.Event) error { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, e.EventID)
	if h.panics[e.EventID] {
		panic("boom")
	}
	return h.errors[e.EventID]
}

func (h *recordingHandler) processed() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestLoop(t *testing.T) {
	convey.Convey("Given a new event loop", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		h := newRecordingHandler()

		convey.Convey("When creating a loop with default options", func() {
			l := worker.NewLoop(q, h)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(l, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a loop with custom options", func() {
			l := worker.NewLoop(q, h, worker.WithName("dashboard"), worker.WithLogger(logging.Get()))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(l, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a loop", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			l := worker.NewLoop(q, h)
			go l.Run(ctx)

			convey.Convey("And when processing events", func() {
				q.addEvent(worker.Event{EventID: "e1", Action: model.ActionNext})
				q.addEvent(worker.Event{EventID: "e2", Action: model.ActionPrev})
				q.addEvent(worker.Event{EventID: "e3", Action: model.ActionView})

				convey.Convey("Then it should handle them in arrival order", func() {
					ok := waitFor(func() bool { return len(h.processed()) == 3 })
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(h.processed(), convey.ShouldResemble, []string{"e1", "e2", "e3"})
				})
			})

			convey.Convey("And when the handler fails", func() {
				h.errors["bad"] = errors.New("handler failed")
				q.addEvent(worker.Event{EventID: "bad", Action: model.ActionView})
				q.addEvent(worker.Event{EventID: "good", Action: model.ActionView})

				convey.Convey("Then the loop keeps going", func() {
					ok := waitFor(func() bool { return len(h.processed()) == 2 })
					convey.So(ok, convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when the handler panics", func() {
				h.panics["bad"] = true
				q.addEvent(worker.Event{EventID: "bad", Action: model.ActionView})
				q.addEvent(worker.Event{EventID: "good", Action: model.ActionView})

				convey.Convey("Then the loop recovers and keeps going", func() {
					ok := waitFor(func() bool { return len(h.processed()) == 2 })
					convey.So(ok, convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()

				err := l.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(l.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When the queue is closed", func() {
			l := worker.NewLoop(q, h)
			q.addEvent(worker.Event{EventID: "last", Action: model.ActionView})
			close(q.eventChan)

			go l.Run(context.Background())

			convey.Convey("Then the loop drains and stops", func() {
				select {
				case <-l.Done():
				case <-time.After(time.Second):
				}
				convey.So(h.processed(), convey.ShouldResemble, []string{"last"})
			})
		})

		convey.Convey("When context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			l := worker.NewLoop(q, worker.HandlerFunc(func(context.Context, worker.Event) error { return nil }))

			go l.Run(ctx)
			cancel()

			convey.Convey("Then the loop should stop", func() {
				stopped := false
				select {
				case <-l.Done():
					stopped = true
				case <-time.After(time.Second):
				}
				convey.So(stopped, convey.ShouldBeTrue)
			})
		})
	})
}
