// Package view decides which dashboard blocks are rendered for a given
// story-mode setting and step.
package view

import (
	"fmt"

	"github.com/okian/marquee/internal/domain/story"
)

// Block identifies one visual block of the dashboard.
type Block string

// Dashboard blocks.
const (
	BlockScatter    Block = "scatter"
	BlockTopBalance Block = "top_balance"
	BlockTopFame    Block = "top_fame"
	BlockHiddenGems Block = "hidden_gems"
	BlockCompare    Block = "compare"
	BlockExport     Block = "export"
)

// Mode is the rendering variant: free exploration or one story step.
type Mode int

// Modes.
const (
	ModeExplore Mode = iota
	ModeOverview
	ModeStars
	ModeHiddenGems
	ModeCompare
	ModeExport
)

// Modes lists every mode, in order.
var Modes = []Mode{ModeExplore, ModeOverview, ModeStars, ModeHiddenGems, ModeCompare, ModeExport}

// ModeOf maps the story-mode toggle and step to a mode.
// The step is ignored when story mode is off.
func ModeOf(storyEnabled bool, step story.Step) Mode {
	if !storyEnabled {
		return ModeExplore
	}
	switch story.Clamp(step) {
	case story.Overview:
		return ModeOverview
	case story.Stars:
		return ModeStars
	case story.HiddenGems:
		return ModeHiddenGems
	case story.Compare:
		return ModeCompare
	default:
		return ModeExport
	}
}

// Blocks returns the blocks rendered in mode m.
func (m Mode) Blocks() []Block {
	switch m {
	case ModeExplore:
		return []Block{BlockScatter, BlockTopBalance}
	case ModeOverview:
		return []Block{BlockScatter}
	case ModeStars:
		return []Block{BlockTopFame}
	case ModeHiddenGems:
		return []Block{BlockHiddenGems}
	case ModeCompare:
		return []Block{BlockCompare}
	case ModeExport:
		return []Block{BlockExport}
	}
	panic(fmt.Sprintf("view: unhandled mode %d", int(m)))
}

// String names the mode.
func (m Mode) String() string {
	switch m {
	case ModeExplore:
		return "explore"
	case ModeOverview:
		return "overview"
	case ModeStars:
		return "stars"
	case ModeHiddenGems:
		return "hidden_gems"
	case ModeCompare:
		return "compare"
	case ModeExport:
		return "export"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Select returns the blocks for the story-mode toggle and step.
func Select(storyEnabled bool, step story.Step) []Block {
	return ModeOf(storyEnabled, step).Blocks()
}

// Has reports whether blocks contains b.
func Has(blocks []Block, b Block) bool {
	for _, x := range blocks {
		if x == b {
			return true
		}
	}
	return false
}
