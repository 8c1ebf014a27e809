package loadtest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/internal/domain/filter"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/story"
	"github.com/okian/marquee/internal/domain/view"
)

// ErrViolation marks a rendered view that contradicts the event that produced it.
var ErrViolation = errors.New("view violation")

// verifyView checks the invariants every rendered view must hold.
func verifyView(vm *dashboard.ViewModel) error {
	switch {
	case !vm.Step.Valid():
		return fmt.Errorf("%w: step %d outside [%d, %d]", ErrViolation, vm.Step, story.First, story.Last)
	case !slices.Equal(vm.Blocks, view.Select(vm.StoryEnabled, vm.Step)):
		return fmt.Errorf("%w: blocks %v for story=%t step=%d", ErrViolation, vm.Blocks, vm.StoryEnabled, vm.Step)
	case vm.Filtered > vm.Total:
		return fmt.Errorf("%w: filtered %d exceeds total %d", ErrViolation, vm.Filtered, vm.Total)
	case vm.Criteria.RatingLow > vm.Criteria.RatingHigh:
		return fmt.Errorf("%w: rating range %.1f > %.1f", ErrViolation, vm.Criteria.RatingLow, vm.Criteria.RatingHigh)
	case vm.Criteria.RatingLow < filter.RatingFloor || vm.Criteria.RatingHigh > filter.RatingCeiling:
		return fmt.Errorf("%w: rating range outside [%.0f, %.0f]", ErrViolation, filter.RatingFloor, filter.RatingCeiling)
	case vm.Compare != nil && len(vm.Compare.Selected) > vm.Compare.Max:
		return fmt.Errorf("%w: %d actors compared, max %d", ErrViolation, len(vm.Compare.Selected), vm.Compare.Max)
	case vm.StoryEnabled != (vm.Caption != ""):
		return fmt.Errorf("%w: caption %q with story=%t", ErrViolation, vm.Caption, vm.StoryEnabled)
	}
	return nil
}

// verifyTransition checks that got is what prev becomes after event e.
func verifyTransition(prev, got *dashboard.ViewModel, e Event) error {
	if err := verifyView(got); err != nil {
		return err
	}

	wantStep := prev.Step
	switch model.Action(e.Action) {
	case model.ActionPrev:
		wantStep = story.Prev(prev.Step)
	case model.ActionNext:
		wantStep = story.Next(prev.Step)
	case model.ActionToggleStory:
		if got.StoryEnabled != e.StoryEnabled {
			return fmt.Errorf("%w: story=%t after toggle to %t", ErrViolation, got.StoryEnabled, e.StoryEnabled)
		}
	case model.ActionSetFocus:
		if got.Focus != strings.TrimSpace(e.Focus) {
			return fmt.Errorf("%w: focus %q after selecting %q", ErrViolation, got.Focus, e.Focus)
		}
	case model.ActionSetFilter:
		if got.Criteria.MinMovieCount < got.Bounds.MinMovieCount || got.Criteria.MinMovieCount > got.Bounds.MaxMovieCount {
			return fmt.Errorf("%w: min movie count %d outside [%d, %d]", ErrViolation,
				got.Criteria.MinMovieCount, got.Bounds.MinMovieCount, got.Bounds.MaxMovieCount)
		}
	}
	if got.Step != wantStep {
		return fmt.Errorf("%w: %s moved step %d to %d, want %d", ErrViolation, e.Action, prev.Step, got.Step, wantStep)
	}
	if model.Action(e.Action) != model.ActionToggleStory && got.StoryEnabled != prev.StoryEnabled {
		return fmt.Errorf("%w: %s changed story mode", ErrViolation, e.Action)
	}
	return nil
}
