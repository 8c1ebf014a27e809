package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/internal/adapters/session"
	"github.com/okian/marquee/internal/domain/story"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryStore(t *testing.T) {
	Convey("Given a new in-memory session store", t, func() {
		ctx := context.Background()

		Convey("When it is empty", func() {
			s := session.NewInMemoryStore()

			Convey("Then loading any session misses", func() {
				_, ok := s.Load(ctx, "missing")
				So(ok, ShouldBeFalse)
				So(s.Size(), ShouldEqual, 0)
			})
		})

		Convey("When a state is saved", func() {
			s := session.NewInMemoryStore()
			st := dashboard.State{Focus: "Actor A", Step: story.Stars, Compare: []string{"Actor A"}}
			s.Save(ctx, "sess-1", st)

			Convey("Then it can be loaded back", func() {
				got, ok := s.Load(ctx, "sess-1")
				So(ok, ShouldBeTrue)
				So(got.Focus, ShouldEqual, "Actor A")
				So(got.Step, ShouldEqual, story.Stars)
				So(s.Size(), ShouldEqual, 1)
			})

			Convey("Then mutating the loaded state does not leak into the store", func() {
				got, _ := s.Load(ctx, "sess-1")
				got.Compare[0] = "Someone Else"

				again, _ := s.Load(ctx, "sess-1")
				So(again.Compare[0], ShouldEqual, "Actor A")
			})

			Convey("And saved again under the same id", func() {
				st.Focus = "Actor B"
				s.Save(ctx, "sess-1", st)

				Convey("Then it is replaced without growing", func() {
					got, _ := s.Load(ctx, "sess-1")
					So(got.Focus, ShouldEqual, "Actor B")
					So(s.Size(), ShouldEqual, 1)
				})
			})

			Convey("And deleted", func() {
				s.Delete(ctx, "sess-1")

				Convey("Then it is gone", func() {
					_, ok := s.Load(ctx, "sess-1")
					So(ok, ShouldBeFalse)
					So(s.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When the store is bounded", func() {
			s := session.NewInMemoryStore(session.WithMaxSize(2))
			s.Save(ctx, "a", dashboard.State{Focus: "a"})
			s.Save(ctx, "b", dashboard.State{Focus: "b"})

			Convey("And the oldest session was touched", func() {
				_, _ = s.Load(ctx, "a")
				s.Save(ctx, "c", dashboard.State{Focus: "c"})

				Convey("Then the least recently used one is evicted", func() {
					_, okA := s.Load(ctx, "a")
					_, okB := s.Load(ctx, "b")
					_, okC := s.Load(ctx, "c")
					So(okA, ShouldBeTrue)
					So(okB, ShouldBeFalse)
					So(okC, ShouldBeTrue)
					So(s.Size(), ShouldEqual, 2)
				})
			})

			Convey("And a third session arrives untouched", func() {
				s.Save(ctx, "c", dashboard.State{Focus: "c"})

				Convey("Then the first one is evicted", func() {
					_, okA := s.Load(ctx, "a")
					So(okA, ShouldBeFalse)
					So(s.Size(), ShouldEqual, 2)
				})
			})
		})

		Convey("When the store has max size one", func() {
			s := session.NewInMemoryStore(session.WithMaxSize(1))
			s.Save(ctx, "a", dashboard.State{})
			s.Save(ctx, "b", dashboard.State{})
			s.Save(ctx, "a", dashboard.State{})

			Convey("Then only the latest survives", func() {
				_, okA := s.Load(ctx, "a")
				_, okB := s.Load(ctx, "b")
				So(okA, ShouldBeTrue)
				So(okB, ShouldBeFalse)
				So(s.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the store is unbounded", func() {
			s := session.NewInMemoryStore(session.WithMaxSize(0))
			const n = 500
			for i := 0; i < n; i++ {
				s.Save(ctx, fmt.Sprintf("sess-%d", i), dashboard.State{})
			}

			Convey("Then nothing is evicted", func() {
				So(s.Size(), ShouldEqual, int64(n))
			})
		})
	})
}

func TestInMemoryStoreConcurrency(t *testing.T) {
	Convey("Given a bounded store used from many goroutines", t, func() {
		ctx := context.Background()
		s := session.NewInMemoryStore(session.WithMaxSize(50))

		const goroutines = 10
		const perGoroutine = 100

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					id := fmt.Sprintf("sess-%d-%d", g, i)
					s.Save(ctx, id, dashboard.State{Focus: id})
					_, _ = s.Load(ctx, id)
					if i%3 == 0 {
						s.Delete(ctx, id)
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the size never exceeds the bound", func() {
			So(s.Size(), ShouldBeLessThanOrEqualTo, 50)
			So(s.Size(), ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}

func TestSessionIDs(t *testing.T) {
	Convey("Given freshly generated session ids", t, func() {
		a, b := session.NewID(), session.NewID()

		Convey("Then they are distinct and valid", func() {
			So(a, ShouldNotEqual, b)
			So(session.ValidID(a), ShouldBeTrue)
		})

		Convey("Then arbitrary strings are rejected", func() {
			So(session.ValidID(""), ShouldBeFalse)
			So(session.ValidID("not-a-session"), ShouldBeFalse)
		})
	})
}
