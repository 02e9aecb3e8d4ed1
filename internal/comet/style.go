package comet

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-cosmos/internal/core"
)

// Type selects a comet's palette and pace.
type Type int

const (
	Blue Type = iota // Cool palette, slightly slower
	Pink             // Warm palette
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Blue:
		return "blue"
	case Pink:
		return "pink"
	default:
		return "unknown"
	}
}

// ParseType converts a name to a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blue", "cool":
		return Blue, nil
	case "pink", "warm":
		return Pink, nil
	default:
		return Blue, fmt.Errorf("comet: unknown type %q", s)
	}
}

// Style is the visual configuration of one comet type.
type Style struct {
	Head       core.Color
	Tail       core.Color
	HeadSize   float64 // Head diameter in px
	Speed      float64 // Traversal takes 12/Speed seconds
	TailLength float64 // px
}

var styles = map[Type]Style{
	Blue: {
		Head:       core.RGB(0x00, 0xff, 0xff),
		Tail:       core.RGB(0x00, 0x80, 0xff),
		HeadSize:   26,
		Speed:      0.14,
		TailLength: 150,
	},
	Pink: {
		Head:       core.RGB(0xff, 0x00, 0xff),
		Tail:       core.RGB(0xff, 0x00, 0x80),
		HeadSize:   24,
		Speed:      0.15,
		TailLength: 140,
	},
}

// StyleFor returns the style of a comet type. Unknown types get the
// warm style.
func StyleFor(t Type) Style {
	if s, ok := styles[t]; ok {
		return s
	}
	return styles[Pink]
}
