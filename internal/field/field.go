// Package field implements the interactive particle field: a few hundred
// glowing dots that drift toward lattice points and react to the pointer,
// wheel, drag, and an explosion trigger.
package field

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/sched"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
	"github.com/vovakirdan/tui-cosmos/internal/tween"
)

// ContainerName is the stage container the field draws into.
const ContainerName = "particles-container"

// Field tunables.
const (
	ParticleCount = 300
	GridCols      = 20
	GridRows      = 15

	EaseFactor = 0.05 // Fraction of the remaining distance covered per tick

	MinSize   = 4.0
	SizeRange = 8.0
	MinHue    = 240.0
	HueRange  = 60.0

	RepulsionRadius = 150.0
	PushStrength    = 15.0

	WheelFactor = 0.001
	MinScale    = 0.5
	MaxScale    = 3.0

	DragFactor = 0.1

	ExplosionSpread  = 200.0 // Offsets fall in [-Spread/2, Spread/2)
	ExplosionRestore = time.Second
)

// Visual states of a particle.
const (
	restLightness = 0.6
	restGlow      = 10.0
	restOpacity   = 0.7
	restPulse     = 1.0
	restDuration  = 500 * time.Millisecond

	litLightness = 0.7
	litGlow      = 20.0
	litOpacity   = 1.0
	litPulse     = 1.8
	litDuration  = 300 * time.Millisecond
)

// ErrNoContainer is returned when the particles container is absent.
var ErrNoContainer = errors.New("field: particles container not found")

// Deps are the collaborators a Controller needs.
type Deps struct {
	Stage  *stage.Stage
	Tweens *tween.Engine
	Timers *sched.Scheduler
	Rand   *rand.Rand
	Logger *log.Logger
}

// Controller owns the particle collection and every interaction on it.
// All methods must be called from the single update loop.
type Controller struct {
	stage     *stage.Stage
	tweens    *tween.Engine
	timers    *sched.Scheduler
	rng       *rand.Rand
	logger    *log.Logger
	container stage.ID

	particles []Particle
	grid      []core.Vec2
	scale     float64
	mouse     core.Vec2

	dragging bool
	dragLast core.Vec2

	explodeTimer sched.TimerID
	explodeSaved []core.Vec2

	explosions int
	peakScale  float64
}

// New binds a controller to the particles container of the stage.
// Returns ErrNoContainer if the container does not exist.
func New(d Deps) (*Controller, error) {
	if d.Stage == nil {
		return nil, ErrNoContainer
	}
	container, ok := d.Stage.Container(ContainerName)
	if !ok {
		return nil, ErrNoContainer
	}
	if d.Tweens == nil {
		d.Tweens = tween.NewEngine(d.Stage)
	}
	if d.Timers == nil {
		d.Timers = sched.New()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return &Controller{
		stage:     d.Stage,
		tweens:    d.Tweens,
		timers:    d.Timers,
		rng:       d.Rand,
		logger:    d.Logger,
		container: container,
		scale:     1,
		peakScale: 1,
	}, nil
}

// CreateParticles discards any existing particles and creates a fresh
// batch at random positions inside the container, each targeting its own
// starting point.
func (c *Controller) CreateParticles() {
	c.stage.Clear(c.container)
	c.cancelExplosion()
	c.particles = make([]Particle, 0, ParticleCount)

	w, h := c.stage.Size()
	for i := 0; i < ParticleCount; i++ {
		el, err := c.stage.Create(c.container, stage.KindParticle)
		if err != nil {
			c.logger.Warn("cannot create particle element", "error", err)
			return
		}

		start := core.Vec2{X: c.rng.Float64() * w, Y: c.rng.Float64() * h}
		p := Particle{
			Pos:     start,
			Target:  start,
			Size:    c.rng.Float64()*SizeRange + MinSize,
			Hue:     MinHue + c.rng.Float64()*HueRange,
			Element: el.ID,
		}

		el.Class = "particle"
		el.Size = p.Size
		el.Hue = p.Hue
		c.tweens.Set(el.ID, tween.Vars{
			stage.PropX:         start.X,
			stage.PropY:         start.Y,
			stage.PropLightness: restLightness,
			stage.PropGlow:      restGlow,
			stage.PropOpacity:   restOpacity,
		})
		c.particles = append(c.particles, p)
	}
}

// CreateGrid rebuilds the target lattice from the current container size
// and points every particle at a uniformly random lattice point.
// Several particles may share a point.
func (c *Controller) CreateGrid() {
	w, h := c.stage.Size()
	c.grid = Lattice(w, h, GridCols, GridRows)
	if len(c.grid) == 0 {
		return
	}
	for i := range c.particles {
		c.particles[i].Target = c.grid[c.rng.Intn(len(c.grid))]
	}
}

// Lattice returns the cell centres of a cols×rows grid covering w×h,
// row by row.
func Lattice(w, h float64, cols, rows int) []core.Vec2 {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cellW := w / float64(cols)
	cellH := h / float64(rows)
	points := make([]core.Vec2, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			points = append(points, core.Vec2{
				X: float64(col)*cellW + cellW/2,
				Y: float64(r)*cellH + cellH/2,
			})
		}
	}
	return points
}

// Step advances every particle one frame toward its target and writes
// position and global scale to its element. Particles whose element has
// gone missing still move but are not drawn.
func (c *Controller) Step() {
	for i := range c.particles {
		p := &c.particles[i]
		p.step()
		c.tweens.Set(p.Element, tween.Vars{
			stage.PropX:     p.Pos.X,
			stage.PropY:     p.Pos.Y,
			stage.PropScale: c.scale,
		})
	}
}

// PointerMove applies pointer repulsion for a pointer at pos.
// Particles inside the repulsion radius are pushed away and light up;
// the rest pull their targets in to 5% of the way from where they are and dim.
func (c *Controller) PointerMove(pos core.Vec2) {
	c.mouse = pos
	for i := range c.particles {
		p := &c.particles[i]
		away := p.Pos.Sub(pos)
		distance := away.Len()

		if distance < RepulsionRadius {
			force := Force(distance)
			angle := away.Angle()
			p.Target = core.Vec2{
				X: p.Pos.X + math.Cos(angle)*force*PushStrength,
				Y: p.Pos.Y + math.Sin(angle)*force*PushStrength,
			}
			c.light(p)
			continue
		}

		p.Target = p.Pos.Lerp(p.Target, EaseFactor)
		c.dim(p)
	}
}

// Force returns the repulsion strength at the given distance from the
// pointer: 1 at the pointer, falling linearly to 0 at the radius.
func Force(distance float64) float64 {
	if distance >= RepulsionRadius {
		return 0
	}
	if distance < 0 {
		distance = 0
	}
	return (RepulsionRadius - distance) / RepulsionRadius
}

func (c *Controller) light(p *Particle) {
	if p.lit {
		return
	}
	p.lit = true
	c.tweens.To(p.Element, tween.Vars{
		stage.PropPulse:     litPulse,
		stage.PropGlow:      litGlow,
		stage.PropLightness: litLightness,
		stage.PropOpacity:   litOpacity,
	}, tween.Options{Duration: litDuration})
}

func (c *Controller) dim(p *Particle) {
	if !p.lit {
		return
	}
	p.lit = false
	c.tweens.To(p.Element, tween.Vars{
		stage.PropPulse:     restPulse,
		stage.PropGlow:      restGlow,
		stage.PropLightness: restLightness,
		stage.PropOpacity:   restOpacity,
	}, tween.Options{Duration: restDuration})
}

// Wheel adjusts the global scale by a wheel delta in pixels.
func (c *Controller) Wheel(deltaY float64) {
	c.scale = core.ClampF(c.scale-deltaY*WheelFactor, MinScale, MaxScale)
	if c.scale > c.peakScale {
		c.peakScale = c.scale
	}
}

// PointerDown starts a drag at pos.
func (c *Controller) PointerDown(pos core.Vec2) {
	c.dragging = true
	c.dragLast = pos
}

// DocumentPointerMove pans every target by a fraction of the pointer's
// movement since the last move, while a drag is active. It is fed every
// pointer move, including those outside the container.
func (c *Controller) DocumentPointerMove(pos core.Vec2) {
	if !c.dragging {
		return
	}
	delta := pos.Sub(c.dragLast).Scale(DragFactor)
	for i := range c.particles {
		c.particles[i].Target = c.particles[i].Target.Add(delta)
	}
	c.dragLast = pos
}

// PointerUp ends any active drag.
func (c *Controller) PointerUp() {
	c.dragging = false
}

// Explode scatters every particle's target around its current position,
// then restores the pre-explosion targets after ExplosionRestore.
// A second explosion before the restore re-scatters but keeps the targets
// saved by the first, and the restore is pushed back.
func (c *Controller) Explode() {
	if c.timers.Pending(c.explodeTimer) {
		c.timers.Cancel(c.explodeTimer)
	} else {
		c.explodeSaved = make([]core.Vec2, len(c.particles))
		for i, p := range c.particles {
			c.explodeSaved[i] = p.Target
		}
	}

	for i := range c.particles {
		p := &c.particles[i]
		p.Target = core.Vec2{
			X: p.Pos.X + (c.rng.Float64()-0.5)*ExplosionSpread,
			Y: p.Pos.Y + (c.rng.Float64()-0.5)*ExplosionSpread,
		}
	}
	c.explosions++

	c.explodeTimer = c.timers.After(ExplosionRestore, c.restoreExplosion)
}

func (c *Controller) restoreExplosion() {
	saved := c.explodeSaved
	c.explodeSaved = nil
	c.explodeTimer = 0
	if len(saved) != len(c.particles) {
		return
	}
	for i := range c.particles {
		c.particles[i].Target = saved[i]
	}
}

func (c *Controller) cancelExplosion() {
	if c.explodeTimer != 0 {
		c.timers.Cancel(c.explodeTimer)
	}
	c.explodeTimer = 0
	c.explodeSaved = nil
}

// Resize records new container dimensions and rebuilds the lattice.
// Particles keep their positions and ease toward the new lattice.
func (c *Controller) Resize(w, h float64) {
	c.stage.Resize(w, h)
	c.CreateGrid()
}

// Particles returns a copy of the particle collection.
func (c *Controller) Particles() []Particle {
	out := make([]Particle, len(c.particles))
	copy(out, c.particles)
	return out
}

// Len returns the number of particles.
func (c *Controller) Len() int {
	return len(c.particles)
}

// Grid returns a copy of the current lattice.
func (c *Controller) Grid() []core.Vec2 {
	out := make([]core.Vec2, len(c.grid))
	copy(out, c.grid)
	return out
}

// Scale returns the global wheel scale.
func (c *Controller) Scale() float64 {
	return c.scale
}

// PeakScale returns the largest scale reached so far.
func (c *Controller) PeakScale() float64 {
	return c.peakScale
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Mouse returns the last pointer position seen by PointerMove.
func (c *Controller) Mouse() core.Vec2 {
	return c.mouse
}

// Explosions returns how many explosions have been triggered.
func (c *Controller) Explosions() int {
	return c.explosions
}
