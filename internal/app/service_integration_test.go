package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/marquee/internal/adapters/repository"
	service "github.com/okian/marquee/internal/app"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/story"
	. "github.com/smartystreets/goconvey/convey"
)

const rankingCSV = `actor,movie_count,rating,fameScore,talentScore,balanceScore,industry
Amitabh Bachchan,190,7.4,9.8,9.1,9.4,Hindi
Shah Rukh Khan,90,7.1,9.9,8.2,9.0,Hindi
Nawazuddin Siddiqui,60,7.9,6.1,9.3,7.7,Hindi
Pankaj Tripathi,45,7.8,5.9,9.0,7.4,Hindi
Rajkummar Rao,35,7.6,6.3,8.8,7.5,Hindi
Newcomer,2,,1.0,2.0,1.5,Hindi
`

func writeRanking(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "BollywoodActorRanking.csv")
	if err := os.WriteFile(path, []byte(rankingCSV), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service reading a real CSV file", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := repository.Open(ctx, writeRanking(t))
		So(err, ShouldBeNil)

		svc := service.New(store, service.WithQueueSize(64), service.WithTopN(3))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a session views the dashboard", func() {
			vm, err := svc.View(ctx, "s1")

			Convey("Then the default filter drops the newcomer", func() {
				So(err, ShouldBeNil)
				So(vm.Total, ShouldEqual, 6)
				So(vm.Filtered, ShouldEqual, 5)
				So(vm.TopBalance.Rows, ShouldHaveLength, 3)
				So(vm.TopBalance.Rows[0][0], ShouldEqual, "Amitabh Bachchan")
			})
		})

		Convey("When the story is walked to the hidden gems step", func() {
			for _, e := range []model.Event{
				{SessionID: "s1", Action: model.ActionToggleStory, StoryEnabled: true},
				{SessionID: "s1", Action: model.ActionNext},
				{SessionID: "s1", Action: model.ActionNext},
			} {
				_, err := svc.Submit(ctx, e)
				So(err, ShouldBeNil)
			}
			vm, err := svc.View(ctx, "s1")

			Convey("Then the gems table lists high talent, low fame actors", func() {
				So(err, ShouldBeNil)
				So(vm.Step, ShouldEqual, story.HiddenGems)
				So(vm.HiddenGems, ShouldNotBeNil)
				So(vm.HiddenGems.Rows, ShouldNotBeEmpty)
				for _, row := range vm.HiddenGems.Rows {
					So(row[0], ShouldNotEqual, "Shah Rukh Khan")
				}
			})
		})

		Convey("When the focus actor is set", func() {
			vm, err := svc.Submit(ctx, model.Event{SessionID: "s1", Action: model.ActionSetFocus, Focus: "Pankaj Tripathi"})

			Convey("Then the scatter highlights it", func() {
				So(err, ShouldBeNil)
				So(vm.Scatter.Highlighted, ShouldBeTrue)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service used by many sessions concurrently", t, func() {
		ctx := context.Background()
		svc := started(scenario(), service.WithQueueSize(1024))
		defer svc.Stop()

		const sessions = 20
		const steps = 10

		var wg sync.WaitGroup
		errs := make(chan error, sessions*steps)
		final := make([]story.Step, sessions)
		for i := 0; i < sessions; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("session-%d", i)
				for j := 0; j < steps; j++ {
					vm, err := svc.Submit(ctx, model.Event{SessionID: id, Action: model.ActionNext})
					if err != nil {
						errs <- err
						return
					}
					final[i] = vm.Step
				}
			}(i)
		}
		wg.Wait()
		close(errs)

		Convey("Then every event is applied and each session ends on the last step", func() {
			So(len(errs), ShouldEqual, 0)
			for _, step := range final {
				So(step, ShouldEqual, story.Last)
			}
			So(svc.GetStats()["sessions"], ShouldEqual, int64(sessions))
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service whose loop is slower than its timeout", t, func() {
		svc := started(scenario(), service.WithEventTimeout(time.Nanosecond))
		defer svc.Stop()

		Convey("When many events are submitted", func() {
			timeouts := 0
			for i := 0; i < 50; i++ {
				_, err := svc.View(context.Background(), "s1")
				if errors.Is(err, service.ErrTimeout) {
					timeouts++
				}
			}

			Convey("Then at least some time out", func() {
				So(timeouts, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a service with a tiny queue flooded concurrently", t, func() {
		svc := started(scenario(), service.WithQueueSize(1))
		defer svc.Stop()

		var wg sync.WaitGroup
		var mu sync.Mutex
		rejected := 0
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.View(context.Background(), "s1")
				if errors.Is(err, service.ErrBackpressure) {
					mu.Lock()
					rejected++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then rejected events report backpressure and the rest succeed", func() {
			So(rejected, ShouldBeLessThan, 200)
		})
	})
}
