package comet

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
)

// State is a comet's lifecycle stage.
type State int

const (
	Spawning State = iota
	Traversing
	FadingOut
	Removed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Traversing:
		return "traversing"
	case FadingOut:
		return "fading-out"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// OffscreenMargin is how far outside the container comets start and end.
const OffscreenMargin = 100.0

// Comet is one live comet: a root group positioned at the head centre
// holding tail, halo and head elements.
type Comet struct {
	ID    int
	Type  Type
	Style Style
	Start core.Vec2
	End   core.Vec2
	State State

	Root stage.ID
	Tail stage.ID
	Halo stage.ID
	Head stage.ID
}

// Delta returns the full travel vector.
func (c *Comet) Delta() core.Vec2 {
	return c.End.Sub(c.Start)
}

// Angle returns the heading in radians.
func (c *Comet) Angle() float64 {
	return c.Delta().Angle()
}

// Duration returns how long the traversal takes.
func (c *Comet) Duration() time.Duration {
	return TraversalDuration(c.Style.Speed)
}

// TraversalDuration converts a style speed into a traversal time.
func TraversalDuration(speed float64) time.Duration {
	if speed <= 0 || math.IsNaN(speed) {
		return 0
	}
	return time.Duration(12 / speed * float64(time.Second))
}

// Path returns start and end points for comet id within a w×h container.
// Odd ids cross from upper-left to lower-right; even ids take the mirrored
// path.
func Path(id int, w, h float64) (start, end core.Vec2) {
	left := core.Vec2{X: -OffscreenMargin, Y: h * 0.25}
	right := core.Vec2{X: w + OffscreenMargin, Y: h * 0.75}
	if id%2 == 1 {
		return left, right
	}
	return right, left
}
