package core

// Default pixel size of one terminal cell. Effect constants are expressed
// in pixels, so the container is measured as cells × cell size.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// RuntimeConfig contains configuration passed to effects at initialization.
// Effects use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic simulation
	CellW    int   // Pixels per cell horizontally
	CellH    int   // Pixels per cell vertically
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
		CellW:    DefaultCellW,
		CellH:    DefaultCellH,
	}
}

// cellSize returns the configured cell size, falling back to defaults.
func (c RuntimeConfig) cellSize() (float64, float64) {
	w, h := c.CellW, c.CellH
	if w <= 0 {
		w = DefaultCellW
	}
	if h <= 0 {
		h = DefaultCellH
	}
	return float64(w), float64(h)
}

// ContainerSize returns the screen dimensions in pixels.
func (c RuntimeConfig) ContainerSize() (w, h float64) {
	cw, ch := c.cellSize()
	return float64(c.ScreenW) * cw, float64(c.ScreenH) * ch
}

// CellToPx returns the pixel coordinates of the centre of cell (x, y).
func (c RuntimeConfig) CellToPx(x, y int) Vec2 {
	cw, ch := c.cellSize()
	return Vec2{X: (float64(x) + 0.5) * cw, Y: (float64(y) + 0.5) * ch}
}

// PxToCell returns the cell containing the pixel position p.
func (c RuntimeConfig) PxToCell(p Vec2) (int, int) {
	cw, ch := c.cellSize()
	return floorInt(p.X / cw), floorInt(p.Y / ch)
}

// EffectStats summarizes one effect run for telemetry.
type EffectStats struct {
	Frames        int     // Ticks simulated
	CometsSpawned int     // Comets created, including respawns
	Explosions    int     // Title clicks that triggered an explosion
	PeakScale     float64 // Largest wheel zoom reached
}
