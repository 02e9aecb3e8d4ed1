// Package scene composes the stage, clocks and effect layers into one
// runnable animation: a star field with recurring comets, the interactive
// particle field, and a title that explodes the field when clicked.
package scene

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cosmos/internal/comet"
	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/field"
	"github.com/vovakirdan/tui-cosmos/internal/render"
	"github.com/vovakirdan/tui-cosmos/internal/sched"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
	"github.com/vovakirdan/tui-cosmos/internal/starfield"
	"github.com/vovakirdan/tui-cosmos/internal/tween"
)

// ResizeDebounce is how long the container must stay unchanged before
// layouts are rebuilt.
const ResizeDebounce = 300 * time.Millisecond

// DefaultWheelNotch is the pixel delta of one wheel notch.
const DefaultWheelNotch = 100.0

const heroContainer = "hero"

// Intro reveal of the title lines.
const (
	introDuration = 1500 * time.Millisecond
	introStagger  = 300 * time.Millisecond
	introOffsetY  = 50.0
)

// Layers selects which effects a scene runs.
type Layers struct {
	Particles bool
	Comets    bool
}

// AllLayers enables every effect.
var AllLayers = Layers{Particles: true, Comets: true}

// Options configure a scene beyond its runtime config.
type Options struct {
	Layers     Layers
	Title      string
	Subtitle   string
	WheelNotch float64 // px per wheel notch; 0 means DefaultWheelNotch
	Logger     *log.Logger
}

// Scene is one running animation. It is driven from a single goroutine.
type Scene struct {
	cfg    core.RuntimeConfig
	opts   Options
	logger *log.Logger

	stage  *stage.Stage
	tweens *tween.Engine
	timers *sched.Scheduler
	rng    *rand.Rand
	raster *render.Rasterizer

	field  *field.Controller
	comets *comet.Spawner
	stars  []starfield.Star

	title    stage.ID
	subtitle stage.ID

	resizeTimer sched.TimerID
	pending     core.RuntimeConfig
	paused      bool
	frames      int
}

// New builds a scene for the given screen and starts every enabled layer.
func New(cfg core.RuntimeConfig, opts Options) *Scene {
	s := newScene(opts)
	s.Reset(cfg)
	return s
}

// newScene returns a scene that has not been laid out yet; Reset must run
// before anything else.
func newScene(opts Options) *Scene {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.WheelNotch <= 0 {
		opts.WheelNotch = DefaultWheelNotch
	}
	return &Scene{opts: opts, logger: opts.Logger}
}

// Reset discards all state and rebuilds the scene for cfg.
func (s *Scene) Reset(cfg core.RuntimeConfig) {
	if s.timers != nil {
		s.timers.Stop()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	s.cfg = cfg
	s.pending = cfg

	w, h := cfg.ContainerSize()
	s.stage = stage.New(w, h)
	s.tweens = tween.NewEngine(s.stage)
	s.timers = sched.New()
	s.rng = rand.New(rand.NewSource(cfg.Seed))
	s.raster = render.New(cfg.CellW, cfg.CellH)
	s.field = nil
	s.comets = nil
	s.stars = nil
	s.resizeTimer = 0
	s.paused = false
	s.frames = 0

	if s.opts.Layers.Comets {
		s.stage.AddContainer(comet.ContainerName, 0)
	}
	if s.opts.Layers.Particles {
		s.stage.AddContainer(field.ContainerName, 1)
	}
	s.stage.AddContainer(heroContainer, 2)

	if s.opts.Layers.Comets {
		s.attachComets()
	}
	if s.opts.Layers.Particles {
		s.attachField()
	}
	s.buildHero()
}

// attachField binds the particle field. A missing container is logged and
// the scene runs without particles.
func (s *Scene) attachField() {
	f, err := field.New(field.Deps{
		Stage:  s.stage,
		Tweens: s.tweens,
		Timers: s.timers,
		Rand:   s.rng,
		Logger: s.logger,
	})
	if err != nil {
		if errors.Is(err, field.ErrNoContainer) {
			s.logger.Error("particles container not found")
		} else {
			s.logger.Error("particle field unavailable", "error", err)
		}
		s.field = nil
		return
	}
	s.field = f
	f.CreateParticles()
	f.CreateGrid()
	s.logger.Info("interactive stars initialized", "particles", f.Len())
}

// attachComets starts the star field and comets. A missing container is
// logged and the scene runs without them.
func (s *Scene) attachComets() {
	sp, err := comet.New(comet.Deps{
		Stage:  s.stage,
		Tweens: s.tweens,
		Timers: s.timers,
		Rand:   s.rng,
		Logger: s.logger,
	})
	if err != nil {
		s.logger.Error("comets container not found")
		s.comets = nil
		return
	}
	s.comets = sp
	s.restartComets()
	s.logger.Info("comets system initialized")
}

// restartComets clears the comets container, regenerates the background
// stars and restarts both comets with the usual stagger.
func (s *Scene) restartComets() {
	container, ok := s.stage.Container(comet.ContainerName)
	if !ok || s.comets == nil {
		return
	}
	s.stage.Clear(container)
	stars, err := starfield.Generate(s.stage, container, s.tweens, s.rng)
	if err != nil {
		s.logger.Warn("background stars incomplete", "error", err)
	}
	s.stars = stars
	s.comets.Start()
}

func (s *Scene) buildHero() {
	container, ok := s.stage.Container(heroContainer)
	if !ok {
		return
	}
	lines := []struct {
		text string
		y    float64
		col  core.Color
		id   *stage.ID
	}{
		{s.opts.Title, 0.45, core.ColorWhite, &s.title},
		{s.opts.Subtitle, 0.55, core.ColorGray, &s.subtitle},
	}
	for i, l := range lines {
		*l.id = 0
		if l.text == "" {
			continue
		}
		el, err := s.stage.Create(container, stage.KindText)
		if err != nil {
			continue
		}
		el.Text = l.text
		el.Relative = true
		el.Anchor = core.Vec2{X: 0.5, Y: l.y}
		el.Color = l.col
		*l.id = el.ID

		s.tweens.From(el.ID, tween.Vars{
			stage.PropY:       introOffsetY,
			stage.PropOpacity: 0,
		}, tween.Options{
			Duration: introDuration,
			Delay:    time.Duration(i) * introStagger,
			Ease:     tween.Power3Out,
		})
	}
}

// Step advances the scene by dt: timers fire, tweens advance, and the
// particles take one easing step. Does nothing while paused.
func (s *Scene) Step(dt time.Duration) {
	if s.paused {
		return
	}
	s.timers.Advance(dt)
	s.tweens.Advance(dt)
	if s.field != nil {
		s.field.Step()
	}
	s.frames++
}

// Handle routes a pointer or wheel event. A press on the title explodes
// the field instead of starting a drag.
func (s *Scene) Handle(ev core.InputEvent) {
	if s.field == nil {
		return
	}
	switch ev.Type {
	case core.EventPointerMove:
		s.field.PointerMove(ev.Pos)
		s.field.DocumentPointerMove(ev.Pos)
	case core.EventPointerDown:
		if s.HitTitle(ev.Pos) {
			s.field.Explode()
			return
		}
		s.field.PointerDown(ev.Pos)
	case core.EventPointerUp:
		s.field.PointerUp()
	case core.EventWheel:
		s.field.Wheel(ev.DeltaY)
	}
}

// Do performs a keyboard action.
func (s *Scene) Do(a core.Action) {
	switch a {
	case core.ActionZoomIn:
		s.Handle(core.InputEvent{Type: core.EventWheel, DeltaY: -s.opts.WheelNotch})
	case core.ActionZoomOut:
		s.Handle(core.InputEvent{Type: core.EventWheel, DeltaY: s.opts.WheelNotch})
	case core.ActionExplode:
		if s.field != nil {
			s.field.Explode()
		}
	case core.ActionPause:
		s.paused = !s.paused
	}
}

// HitTitle reports whether pos falls on the title text.
func (s *Scene) HitTitle(pos core.Vec2) bool {
	el, ok := s.stage.Lookup(s.title)
	if !ok || el.Text == "" {
		return false
	}
	w, h := s.stage.Size()
	tx, ty := s.cfg.PxToCell(el.Position(w, h))
	px, py := s.cfg.PxToCell(pos)
	n := len([]rune(el.Text))
	return core.NewRect(tx-n/2, ty, n, 1).Contains(px, py)
}

// Resize records new screen dimensions. The layout is rebuilt once no
// further resize arrives for ResizeDebounce.
func (s *Scene) Resize(width, height int) {
	s.pending.ScreenW = width
	s.pending.ScreenH = height
	if s.resizeTimer != 0 {
		s.timers.Cancel(s.resizeTimer)
	}
	s.resizeTimer = s.timers.After(ResizeDebounce, s.applyResize)
}

func (s *Scene) applyResize() {
	s.resizeTimer = 0
	s.cfg.ScreenW = s.pending.ScreenW
	s.cfg.ScreenH = s.pending.ScreenH
	w, h := s.cfg.ContainerSize()
	s.stage.Resize(w, h)
	s.logger.Debug("container resized", "width", w, "height", h)

	s.restartComets()
	if s.field != nil {
		s.field.Resize(w, h)
	}
}

// Render draws the scene into dst.
func (s *Scene) Render(dst *core.Screen) {
	s.raster.Draw(s.stage, dst)
}

// Close stops every pending timer. The scene must not be stepped after.
func (s *Scene) Close() {
	if s.comets != nil {
		s.comets.Stop()
	}
	if s.timers != nil {
		s.timers.Stop()
	}
}

// Stats summarizes the run so far.
func (s *Scene) Stats() core.EffectStats {
	st := core.EffectStats{Frames: s.frames, PeakScale: 1}
	if s.comets != nil {
		st.CometsSpawned = s.comets.Spawned()
	}
	if s.field != nil {
		st.Explosions = s.field.Explosions()
		st.PeakScale = s.field.PeakScale()
	}
	return st
}

// Paused reports whether the simulation is frozen.
func (s *Scene) Paused() bool {
	return s.paused
}

// Dragging reports whether the pointer is dragging the field.
func (s *Scene) Dragging() bool {
	return s.field != nil && s.field.Dragging()
}

// Scale returns the field's zoom, or 1 without a field.
func (s *Scene) Scale() float64 {
	if s.field == nil {
		return 1
	}
	return s.field.Scale()
}

// Now returns the scene's simulated time.
func (s *Scene) Now() time.Duration {
	return s.timers.Now()
}

// Config returns the runtime config the layout currently reflects.
func (s *Scene) Config() core.RuntimeConfig {
	return s.cfg
}

// Field returns the particle field, or nil when the layer is off.
func (s *Scene) Field() *field.Controller {
	return s.field
}

// Comets returns the comet spawner, or nil when the layer is off.
func (s *Scene) Comets() *comet.Spawner {
	return s.comets
}

// Stage returns the scene's element tree.
func (s *Scene) Stage() *stage.Stage {
	return s.stage
}
