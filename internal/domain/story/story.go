// Package story implements the guided story-mode stepper.
package story

// Step is the current story-mode position, always within [First, Last].
type Step int

// Step limits.
const (
	First Step = 1
	Last  Step = 5
)

// Named steps.
const (
	Overview Step = iota + 1
	Stars
	HiddenGems
	Compare
	Export
)

// Clamp returns s moved into [First, Last].
func Clamp(s Step) Step {
	return max(First, min(Last, s))
}

// Prev moves one step back, stopping at First.
func Prev(s Step) Step {
	return Clamp(s - 1)
}

// Next moves one step forward, stopping at Last.
func Next(s Step) Step {
	return Clamp(s + 1)
}

// Valid reports whether s lies within [First, Last].
func (s Step) Valid() bool {
	return s >= First && s <= Last
}

// Caption is the sidebar hint for a step.
func (s Step) Caption() string {
	switch Clamp(s) {
	case Overview:
		return "Step 1 — Overview: See KPIs and global distribution of Fame/Talent"
	case Stars:
		return "Step 2 — Stars: Identify top fame actors and inspect talent distribution"
	case HiddenGems:
		return "Step 3 — Hidden gems: Find high-talent low-fame actors"
	case Compare:
		return "Step 4 — Compare: Choose two actors to compare profiles"
	default:
		return "Step 5 — Export: Download filtered data and next steps"
	}
}

// Navigator holds one session's story position.
// The zero value starts at First.
type Navigator struct {
	step Step
}

// NewNavigator returns a navigator positioned at s (clamped).
func NewNavigator(s Step) *Navigator {
	return &Navigator{step: Clamp(s)}
}

// Step returns the current position.
func (n *Navigator) Step() Step {
	if !n.step.Valid() {
		return First
	}
	return n.step
}

// Prev retreats one step and returns the new position.
func (n *Navigator) Prev() Step {
	n.step = Prev(n.Step())
	return n.step
}

// Next advances one step and returns the new position.
func (n *Navigator) Next() Step {
	n.step = Next(n.Step())
	return n.step
}

// Reset returns to First.
func (n *Navigator) Reset() {
	n.step = First
}
