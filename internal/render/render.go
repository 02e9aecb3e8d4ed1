// Package render rasterizes a stage into a terminal screen buffer.
//
// Every element adds light to the cells it covers; overlapping light sums
// the way additive blending does on a dark page. Each cell then shows the
// glyph of its most important contributor in the summed color.
package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Rasterizer draws stages onto screens. It keeps its buffers between
// frames and is not safe for concurrent use.
type Rasterizer struct {
	cellW float64
	cellH float64
	cv    canvas
}

// New creates a rasterizer mapping one cell to cellW×cellH pixels.
func New(cellW, cellH int) *Rasterizer {
	if cellW <= 0 {
		cellW = core.DefaultCellW
	}
	if cellH <= 0 {
		cellH = core.DefaultCellH
	}
	return &Rasterizer{cellW: float64(cellW), cellH: float64(cellH)}
}

// Draw clears dst and paints every element of st onto it.
func (r *Rasterizer) Draw(st *stage.Stage, dst *core.Screen) {
	dst.Clear()
	r.cv.reset(dst.Width(), dst.Height(), r.cellW, r.cellH)

	var texts []textRun
	st.Walk(func(e *stage.Element, at stage.Placement) {
		if at.Opacity <= 0 {
			return
		}
		switch e.Kind {
		case stage.KindParticle:
			r.particle(e, at)
		case stage.KindStar:
			r.star(e, at)
		case stage.KindCometTail:
			r.tail(e, at)
		case stage.KindCometHalo:
			r.halo(e, at)
		case stage.KindCometHead:
			r.head(e, at)
		case stage.KindText:
			texts = append(texts, textRun{e: e, at: at})
		}
	})
	r.cv.flush(dst)

	for _, t := range texts {
		r.text(dst, t)
	}
}

func (r *Rasterizer) particle(e *stage.Element, at stage.Placement) {
	col := colorful.Hsl(e.Hue, 1, clamp01(e.Props.Get(stage.PropLightness)))
	size := e.Size * at.Scale
	glow := e.Props.Get(stage.PropGlow) * at.Scale

	cx, cy := r.cv.cellAt(at.Pos)
	glyph := '•'
	if size >= r.cellW {
		glyph = '●'
	}
	r.cv.add(cx, cy, col, at.Opacity, glyph, priParticle)

	// Two soft rings: full strength out to glow, half strength to 2*glow.
	reach := 2 * glow
	if reach <= 0 {
		return
	}
	x0, y0, x1, y1 := r.cv.span(at.Pos, reach, reach)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x == cx && y == cy {
				continue
			}
			d := r.cv.centre(x, y).Dist(at.Pos)
			s := 0.45*falloff(d, glow) + 0.2*falloff(d, reach)
			r.cv.add(x, y, col, s*at.Opacity, 0, priGlow)
		}
	}
}

func (r *Rasterizer) star(e *stage.Element, at stage.Placement) {
	cx, cy := r.cv.cellAt(at.Pos)
	glyph := '·'
	if e.Size*at.Scale >= 1 {
		glyph = '∙'
	}
	r.cv.add(cx, cy, colorOf(e.Color, white), at.Opacity, glyph, priStar)
}

// tail draws a wedge that starts as a point at the head and widens
// backwards, fading from half strength at the head to nothing at the end.
func (r *Rasterizer) tail(e *stage.Element, at stage.Placement) {
	length := e.Size * at.Scale
	width := e.Width * at.Scale
	if length <= 0 {
		return
	}
	blur := e.Props.Get(stage.PropBlur) * at.Scale
	strength := at.Opacity * e.Props.Get(stage.PropBrightness)
	head := colorOf(e.Color, white)
	tailCol := colorOf(e.Color2, head)

	dir := core.Vec2{X: math.Cos(at.Rotation), Y: math.Sin(at.Rotation)}
	reach := length + blur
	x0, y0, x1, y1 := r.cv.span(at.Pos, reach, reach)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			rel := r.cv.centre(x, y).Sub(at.Pos)
			behind := -(rel.X*dir.X + rel.Y*dir.Y)
			if behind < 0 || behind > length {
				continue
			}
			across := math.Abs(rel.X*dir.Y - rel.Y*dir.X)
			s := behind / length // 0 at head, 1 at far end
			half := width / 2 * s
			edge := 1.0
			if across > half {
				if blur <= 0 || across > half+blur {
					continue
				}
				edge = 1 - (across-half)/blur
			}
			alpha := TailAlpha(1-s) * edge
			col := tailCol.BlendRgb(head, clamp01((1-s-0.4)/0.6))
			r.cv.add(x, y, col, alpha*strength, tailRune(alpha), priTail)
		}
	}
}

// TailAlpha is the tail gradient: p runs from 0 at the far end to 1 at the
// head.
func TailAlpha(p float64) float64 {
	stops := []struct{ at, alpha float64 }{
		{0, 0},
		{0.2, 0x20 / 255.0},
		{0.4, 0x40 / 255.0},
		{0.7, 0x60 / 255.0},
		{1, 0x80 / 255.0},
	}
	p = clamp01(p)
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if p <= b.at {
			t := (p - a.at) / (b.at - a.at)
			return a.alpha + (b.alpha-a.alpha)*t
		}
	}
	return stops[len(stops)-1].alpha
}

func tailRune(alpha float64) rune {
	switch {
	case alpha < 0.12:
		return '·'
	case alpha < 0.3:
		return '░'
	default:
		return '▒'
	}
}

func (r *Rasterizer) halo(e *stage.Element, at stage.Placement) {
	radius := e.Size * at.Scale / 2
	if radius <= 0 {
		return
	}
	blur := e.Props.Get(stage.PropBlur) * at.Scale
	head := colorOf(e.Color, white)
	tailCol := colorOf(e.Color2, head)
	reach := radius + blur

	x0, y0, x1, y1 := r.cv.span(at.Pos, reach, reach)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := r.cv.centre(x, y).Dist(at.Pos)
			f := d / radius
			if f > 0.8 {
				continue
			}
			alpha := HaloAlpha(f)
			col := head.BlendRgb(tailCol, clamp01(f/0.5))
			r.cv.add(x, y, col, alpha*at.Opacity*3, 0, priHalo)
		}
	}
}

// HaloAlpha is the halo's radial gradient at f, the distance from the
// centre as a fraction of the radius.
func HaloAlpha(f float64) float64 {
	const inner, mid = 0x30 / 255.0, 0x15 / 255.0
	switch {
	case f < 0:
		return inner
	case f <= 0.5:
		return inner + (mid-inner)*f/0.5
	case f <= 0.8:
		return mid * (1 - (f-0.5)/0.3)
	default:
		return 0
	}
}

func (r *Rasterizer) head(e *stage.Element, at stage.Placement) {
	radius := e.Size * at.Scale / 2
	brightness := e.Props.Get(stage.PropBrightness)
	head := colorOf(e.Color, white)
	tailCol := colorOf(e.Color2, head)

	cx, cy := r.cv.cellAt(at.Pos)
	centre := white.BlendRgb(head, 0.5)
	r.cv.add(cx, cy, centre, at.Opacity*brightness, '●', priHead)

	x0, y0, x1, y1 := r.cv.span(at.Pos, radius, radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x == cx && y == cy {
				continue
			}
			f := r.cv.centre(x, y).Dist(at.Pos) / radius
			if f > 1 {
				continue
			}
			col := head.BlendRgb(tailCol, clamp01((f-0.5)/0.4))
			r.cv.add(x, y, col, at.Opacity*brightness*0.6, '•', priHead)
		}
	}
}

type textRun struct {
	e  *stage.Element
	at stage.Placement
}

// text draws centred text over the light layer.
func (r *Rasterizer) text(dst *core.Screen, t textRun) {
	if t.at.Opacity < 0.05 || t.e.Text == "" {
		return
	}
	col := colorOf(t.e.Color, white)
	dim := colorful.Color{R: col.R * t.at.Opacity, G: col.G * t.at.Opacity, B: col.B * t.at.Opacity}
	cx, cy := r.cv.cellAt(t.at.Pos)
	runes := []rune(t.e.Text)
	dst.DrawText(cx-len(runes)/2, cy, t.e.Text, toCore(dim))
}

func colorOf(c core.Color, fallback colorful.Color) colorful.Color {
	if c.IsDefault() {
		return fallback
	}
	return toColorful(c)
}

// falloff is 1 at distance 0 and falls linearly to 0 at radius.
func falloff(d, radius float64) float64 {
	if radius <= 0 || d >= radius {
		return 0
	}
	return 1 - d/radius
}

func clamp01(v float64) float64 {
	return core.ClampF(v, 0, 1)
}
