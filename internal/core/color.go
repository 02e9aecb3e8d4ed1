package core

import "fmt"

// Color is a 24-bit foreground color for a screen cell.
// The zero value means "terminal default"; any color built with RGB
// carries a presence bit so pure black stays distinguishable from default.
type Color uint32

const colorSet = 1 << 24

// Predefined colors used by overlays and text.
const (
	ColorDefault Color = 0
	ColorWhite   Color = colorSet | 0xFFFFFF
	ColorGray    Color = colorSet | 0x8A8A8A
	ColorDimGray Color = colorSet | 0x4E4E4E
	ColorCyan    Color = colorSet | 0x00FFFF
	ColorMagenta Color = colorSet | 0xFF00FF
	ColorViolet  Color = colorSet | 0x8A7BFF
)

// RGB builds a color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color(colorSet | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// IsDefault reports whether the color is the terminal default.
func (c Color) IsDefault() bool {
	return c&colorSet == 0
}

// RGB returns the 8-bit channels of the color.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as "#rrggbb", or "" for the default color.
func (c Color) Hex() string {
	if c.IsDefault() {
		return ""
	}
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
