package field

import (
	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
)

// Particle is one drifting point of light.
type Particle struct {
	Pos     core.Vec2 // Current position in px, container-relative
	Target  core.Vec2 // Position the particle eases toward
	Size    float64   // Diameter in px
	Hue     float64   // Degrees, within the blue-violet band
	Element stage.ID  // Backing stage element

	lit bool // Hover transition currently applied
}

// step moves the particle a fixed fraction of the way to its target.
// The step is a convex combination, so it never overshoots.
func (p *Particle) step() {
	p.Pos = p.Pos.Lerp(p.Target, EaseFactor)
}
