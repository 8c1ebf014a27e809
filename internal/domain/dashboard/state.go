// Package dashboard holds per-session dashboard state and the pure render
// pipeline turning that state and the dataset into a view model.
package dashboard

import (
	"slices"
	"strings"

	"github.com/okian/marquee/internal/domain/filter"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/story"
)

// DefaultMaxCompare caps how many actors can be compared side by side.
const DefaultMaxCompare = 2

// State is everything the widgets of one session have selected.
type State struct {
	Criteria     filter.Criteria `json:"criteria"`
	Focus        string          `json:"focus"`
	StoryEnabled bool            `json:"storyEnabled"`
	Step         story.Step      `json:"step"`
	Compare      []string        `json:"compare"`
}

// NewState returns the state of a fresh session.
func NewState(b filter.Bounds, preferredMin int) State {
	return State{
		Criteria: filter.Default(b, preferredMin),
		Step:     story.First,
	}
}

// Reducer applies input events to a state, enforcing widget constraints.
type Reducer struct {
	Bounds     filter.Bounds
	MaxCompare int
}

// Apply returns the state after event e. Unknown actions leave s unchanged.
func (r Reducer) Apply(s State, e model.Event) State {
	s.Compare = slices.Clone(s.Compare)
	switch e.Action {
	case model.ActionSetFilter:
		s.Criteria = filter.Criteria{
			MinMovieCount: filter.ClampMovieCount(r.Bounds, e.MinMovieCount),
			RatingLow:     filter.ClampRating(e.RatingLow),
			RatingHigh:    filter.ClampRating(e.RatingHigh),
		}.Normalize()
	case model.ActionSetFocus:
		s.Focus = strings.TrimSpace(e.Focus)
	case model.ActionToggleStory:
		s.StoryEnabled = e.StoryEnabled
	case model.ActionPrev:
		s.Step = story.NewNavigator(s.Step).Prev()
	case model.ActionNext:
		s.Step = story.NewNavigator(s.Step).Next()
	case model.ActionSetCompare:
		s.Compare = limitCompare(e.Compare, r.maxCompare())
	case model.ActionView:
	}
	s.Step = story.Clamp(s.Step)
	return s
}

func (r Reducer) maxCompare() int {
	if r.MaxCompare <= 0 {
		return DefaultMaxCompare
	}
	return r.MaxCompare
}

// limitCompare drops blanks and repeats and keeps at most n names.
func limitCompare(names []string, n int) []string {
	out := make([]string, 0, n)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(out, name) {
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, name)
	}
	return out
}
