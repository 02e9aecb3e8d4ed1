// Package starfield scatters faint twinkling stars over a container.
package starfield

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
	"github.com/vovakirdan/tui-cosmos/internal/tween"
)

// Count is the number of stars per generation.
const Count = 40

const zStar = 1

// Star is one background star. Pos is in percent of the container;
// the star's opacity swings between Opacity and Twinkle every Period.
type Star struct {
	Size    float64
	Pos     core.Vec2
	Opacity float64
	Twinkle float64
	Period  time.Duration
	Element stage.ID
}

// Generate appends Count stars to container, each twinkling forever.
// Positions are relative, so the stars follow container resizes.
func Generate(st *stage.Stage, container stage.ID, tw *tween.Engine, rng *rand.Rand) ([]Star, error) {
	stars := make([]Star, 0, Count)
	for i := 0; i < Count; i++ {
		s := Star{
			Size:    rng.Float64()*1.2 + 0.3,
			Pos:     core.Vec2{X: rng.Float64() * 100, Y: rng.Float64() * 100},
			Opacity: rng.Float64()*0.4 + 0.1,
		}
		s.Twinkle = rng.Float64()*0.6 + 0.2
		s.Period = time.Duration((2 + rng.Float64()*4) * float64(time.Second))

		el, err := st.Create(container, stage.KindStar)
		if err != nil {
			return stars, fmt.Errorf("starfield: %w", err)
		}
		el.Class = "background-star"
		el.Z = zStar
		el.Relative = true
		el.Anchor = core.Vec2{X: s.Pos.X / 100, Y: s.Pos.Y / 100}
		el.Size = s.Size
		el.Color = core.ColorWhite
		el.Props.Set(stage.PropOpacity, s.Opacity)
		el.Props.Set(stage.PropGlow, s.Size*2)
		s.Element = el.ID

		tw.To(el.ID, tween.Vars{stage.PropOpacity: s.Twinkle}, tween.Options{
			Duration: s.Period,
			Ease:     tween.SineInOut,
			Repeat:   -1,
			Yoyo:     true,
		})
		stars = append(stars, s)
	}
	return stars, nil
}
