// Package model contains domain models passed between layers.
package model

import "time"

// Action names an input event coming from a dashboard widget.
type Action string

// Supported actions.
const (
	ActionView        Action = "view"
	ActionSetFilter   Action = "set_filter"
	ActionSetFocus    Action = "set_focus"
	ActionToggleStory Action = "toggle_story"
	ActionPrev        Action = "prev"
	ActionNext        Action = "next"
	ActionSetCompare  Action = "set_compare"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionSetFilter, ActionSetFocus, ActionToggleStory,
		ActionPrev, ActionNext, ActionSetCompare:
		return true
	}
	return false
}

// Event is one widget interaction, processed by the event loop in arrival order.
type Event struct {
	EventID   string // correlates the reply with the waiting caller
	SessionID string
	Action    Action

	// set_filter
	MinMovieCount int
	RatingLow     float64
	RatingHigh    float64

	Focus        string   // set_focus; "" clears the highlight
	StoryEnabled bool     // toggle_story
	Compare      []string // set_compare

	TS time.Time
}
