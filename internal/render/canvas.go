package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-cosmos/internal/core"
)

// Glyph priorities. Higher wins a cell.
const (
	priNone = iota
	priGlow
	priStar
	priTail
	priHalo
	priParticle
	priHead
	priText
)

// Cells whose brightest channel stays below this are left blank.
const visibleThreshold = 0.04

// canvas accumulates additive light per terminal cell.
type canvas struct {
	w, h     int
	cellW    float64
	cellH    float64
	light    []colorful.Color
	glyph    []rune
	priority []int
}

func (c *canvas) reset(w, h int, cellW, cellH float64) {
	c.w, c.h = w, h
	c.cellW, c.cellH = cellW, cellH
	n := w * h
	if cap(c.light) < n {
		c.light = make([]colorful.Color, n)
		c.glyph = make([]rune, n)
		c.priority = make([]int, n)
	}
	c.light = c.light[:n]
	c.glyph = c.glyph[:n]
	c.priority = c.priority[:n]
	for i := range c.light {
		c.light[i] = colorful.Color{}
		c.glyph[i] = 0
		c.priority[i] = priNone
	}
}

// centre returns the pixel centre of a cell.
func (c *canvas) centre(x, y int) core.Vec2 {
	return core.Vec2{X: (float64(x) + 0.5) * c.cellW, Y: (float64(y) + 0.5) * c.cellH}
}

// cellAt returns the cell containing a pixel position.
func (c *canvas) cellAt(p core.Vec2) (int, int) {
	return floor(p.X / c.cellW), floor(p.Y / c.cellH)
}

// span returns the clipped cell range covering a pixel box around p.
func (c *canvas) span(p core.Vec2, rx, ry float64) (x0, y0, x1, y1 int) {
	x0 = core.Max(0, floor((p.X-rx)/c.cellW))
	y0 = core.Max(0, floor((p.Y-ry)/c.cellH))
	x1 = core.Min(c.w-1, floor((p.X+rx)/c.cellW))
	y1 = core.Min(c.h-1, floor((p.Y+ry)/c.cellH))
	return
}

// add blends light of the given color and strength into a cell, and
// offers a glyph at the given priority.
func (c *canvas) add(x, y int, col colorful.Color, strength float64, r rune, pri int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || strength <= 0 {
		return
	}
	i := y*c.w + x
	l := c.light[i]
	c.light[i] = colorful.Color{
		R: l.R + col.R*strength,
		G: l.G + col.G*strength,
		B: l.B + col.B*strength,
	}
	if r != 0 && pri > c.priority[i] {
		c.glyph[i] = r
		c.priority[i] = pri
	}
}

// flush writes every lit cell to the screen.
func (c *canvas) flush(dst *core.Screen) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			i := y*c.w + x
			l := c.light[i].Clamped()
			peak := max(l.R, l.G, l.B)
			if peak < visibleThreshold {
				continue
			}
			r := c.glyph[i]
			if r == 0 {
				r = glowRune(peak)
			}
			dst.SetCell(x, y, r, toCore(l))
		}
	}
}

// glowRune picks a shading glyph for a cell lit only by glow.
func glowRune(intensity float64) rune {
	switch {
	case intensity < 0.15:
		return '·'
	case intensity < 0.35:
		return '∙'
	default:
		return '•'
	}
}

func toColorful(c core.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func toCore(c colorful.Color) core.Color {
	r, g, b := c.Clamped().RGB255()
	return core.RGB(r, g, b)
}

func floor(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}
