package session

import "github.com/vk/propreg/internal/decl"

// Round is one discovery pass as seen by the session.
type Round interface {
	// Roots returns the root declarations newly visible in this round.
	Roots() []*decl.Unit
	// Over reports whether the host will not run any further rounds.
	Over() bool
}

// Pass is a plain Round.
type Pass struct {
	Units []*decl.Unit
	Last  bool
}

func (p Pass) Roots() []*decl.Unit { return p.Units }
func (p Pass) Over() bool          { return p.Last }
