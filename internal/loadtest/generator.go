package loadtest

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/marquee/internal/domain/dashboard"
	"github.com/okian/marquee/internal/domain/filter"
	"github.com/okian/marquee/internal/domain/model"
)

// Ratings are generated on a 0.1 grid.
const ratingStep = 10

// Action weights out of weightTotal; story navigation dominates.
var actionWeights = []struct {
	action model.Action
	weight int64
}{
	{model.ActionNext, 25},
	{model.ActionPrev, 15},
	{model.ActionToggleStory, 10},
	{model.ActionSetFilter, 20},
	{model.ActionSetFocus, 15},
	{model.ActionSetCompare, 10},
	{model.ActionView, 5},
}

const weightTotal = 100

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// pickAction draws an action according to actionWeights.
func pickAction() model.Action {
	n := randomInt(weightTotal)
	for _, w := range actionWeights {
		if n < w.weight {
			return w.action
		}
		n -= w.weight
	}
	return model.ActionView
}

// generateEvent builds the next widget event for a session currently showing vm.
func generateEvent(vm *dashboard.ViewModel) Event {
	action := pickAction()
	e := Event{
		EventID:      uuid.NewString(),
		Action:       string(action),
		StoryEnabled: vm.StoryEnabled,
	}

	switch action {
	case model.ActionSetFilter:
		minCount := vm.Bounds.MinMovieCount
		if span := vm.Bounds.MaxMovieCount - vm.Bounds.MinMovieCount; span > 0 {
			minCount += int(randomInt(int64(span) + 1))
		}
		// Either order; the server normalizes the range.
		low := randomRating()
		high := randomRating()
		e.MinMovieCount = &minCount
		e.RatingLow = &low
		e.RatingHigh = &high
	case model.ActionSetFocus:
		e.Focus = pickName(vm.FocusOptions)
	case model.ActionToggleStory:
		e.StoryEnabled = !vm.StoryEnabled
	case model.ActionSetCompare:
		// Ask for one more than allowed to exercise truncation.
		limit := dashboard.DefaultMaxCompare
		if vm.Compare != nil && vm.Compare.Max > 0 {
			limit = vm.Compare.Max
		}
		for range limit + 1 {
			if name := pickName(vm.FocusOptions); name != "" {
				e.Compare = append(e.Compare, name)
			}
		}
	}
	return e
}

// randomRating returns a rating in [0, 10] on a 0.1 grid.
func randomRating() float64 {
	return float64(randomInt(int64(filter.RatingCeiling*ratingStep)+1)) / ratingStep
}

// pickName returns a random entry of names, or "" one time in len+1 to clear
// the selection.
func pickName(names []string) string {
	i := randomInt(int64(len(names)) + 1)
	if i == int64(len(names)) {
		return ""
	}
	return names[i]
}
