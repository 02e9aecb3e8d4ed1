package stage

import "github.com/vovakirdan/tui-cosmos/internal/core"

// ID identifies an element on a stage. The zero value is never issued.
type ID uint64

// Kind tells the rasterizer how to draw an element.
type Kind int

const (
	KindGroup Kind = iota // Container or composite root; draws nothing itself
	KindParticle
	KindStar
	KindCometTail
	KindCometHalo
	KindCometHead
	KindText
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindParticle:
		return "particle"
	case KindStar:
		return "star"
	case KindCometTail:
		return "comet-tail"
	case KindCometHalo:
		return "comet-halo"
	case KindCometHead:
		return "comet-head"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Prop names an animatable numeric property.
type Prop int

const (
	PropX          Prop = iota // Translation in px, relative to Anchor
	PropY                      // Translation in px, relative to Anchor
	PropScale                  // Uniform scale
	PropOpacity                // 0..1
	PropRotation               // Radians
	PropGlow                   // Inner glow radius in px (outer is twice this)
	PropLightness              // HSL lightness 0..1 for hue-colored elements
	PropBrightness             // Color multiplier, 1 = unchanged
	PropBlur                   // Blur radius in px
	PropPulse                  // Transient scale multiplier on top of PropScale
	propCount
)

// Props holds the animatable state of an element.
type Props struct {
	values [propCount]float64
}

// DefaultProps returns identity values: no translation, full scale and opacity.
func DefaultProps() Props {
	var p Props
	p.values[PropScale] = 1
	p.values[PropOpacity] = 1
	p.values[PropBrightness] = 1
	p.values[PropPulse] = 1
	return p
}

// Get returns the value of a property. Unknown properties read as zero.
func (p *Props) Get(k Prop) float64 {
	if k < 0 || k >= propCount {
		return 0
	}
	return p.values[k]
}

// Set assigns a property. Unknown properties are ignored.
func (p *Props) Set(k Prop, v float64) {
	if k < 0 || k >= propCount {
		return
	}
	p.values[k] = v
}

// Element is one renderable node: a dot, a comet part, a star, a text line,
// or a group that positions its children.
type Element struct {
	ID       ID
	Kind     Kind
	Class    string
	Parent   ID
	Z        int
	Anchor   core.Vec2 // Base position; fractions of the container when Relative
	Relative bool
	Size     float64 // Diameter or length in px
	Width    float64 // Secondary extent in px (tail thickness)
	Hue      float64 // Degrees, for hue-colored elements
	Color    core.Color
	Color2   core.Color // Gradient end color
	Text     string
	Props    Props

	children []ID
}

// Position returns the element's local position: Anchor (resolved against
// the container size when Relative) plus translation.
func (e *Element) Position(containerW, containerH float64) core.Vec2 {
	base := e.Anchor
	if e.Relative {
		base = core.Vec2{X: e.Anchor.X * containerW, Y: e.Anchor.Y * containerH}
	}
	return core.Vec2{
		X: base.X + e.Props.Get(PropX),
		Y: base.Y + e.Props.Get(PropY),
	}
}
