package scene

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cosmos/internal/comet"
	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/field"
	"github.com/vovakirdan/tui-cosmos/internal/registry"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
	"github.com/vovakirdan/tui-cosmos/internal/starfield"
)

const frame = 16 * time.Millisecond

func testConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.ScreenW = 100
	cfg.ScreenH = 40
	cfg.Seed = 42
	return cfg
}

func newTestScene(t *testing.T, layers Layers) *Scene {
	t.Helper()
	s := New(testConfig(), Options{Layers: layers, Title: DefaultTitle, Subtitle: DefaultSubtitle})
	t.Cleanup(s.Close)
	return s
}

func run(s *Scene, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		s.Step(frame)
	}
}

func TestEndToEnd(t *testing.T) {
	s := newTestScene(t, AllLayers)

	if s.Field() == nil || s.Field().Len() != field.ParticleCount {
		t.Fatal("particle field not initialized")
	}
	if _, ok := s.Comets().Comet(1); !ok {
		t.Fatal("first comet not spawned")
	}
	if _, ok := s.Comets().Comet(2); ok {
		t.Fatal("second comet spawned without stagger")
	}

	run(s, time.Second)
	if _, ok := s.Comets().Comet(2); !ok {
		t.Fatal("second comet missing after 1s")
	}

	// Pointer interaction pushes nearby particles.
	p := s.Field().Particles()[0]
	s.Handle(core.InputEvent{Type: core.EventPointerMove, Pos: p.Pos.Add(core.Vec2{X: 10})})
	if got := s.Field().Particles()[0]; got.Target.X >= p.Pos.X {
		t.Errorf("particle not pushed away: target %v, pos %v", got.Target, p.Pos)
	}

	s.Handle(core.InputEvent{Type: core.EventWheel, DeltaY: -500})
	if s.Scale() != 1.5 {
		t.Errorf("Scale() = %v, want 1.5", s.Scale())
	}

	scr := core.NewScreen(100, 40)
	s.Render(scr)
	lit := 0
	for y := 0; y < scr.Height(); y++ {
		for x := 0; x < scr.Width(); x++ {
			if !scr.IsBlank(x, y) {
				lit++
			}
		}
	}
	if lit < 100 {
		t.Errorf("only %d cells drawn", lit)
	}

	st := s.Stats()
	if st.Frames != 63 || st.CometsSpawned != 2 || st.PeakScale != 1.5 {
		t.Errorf("Stats() = %+v", st)
	}

	s.Close()
	if s.timers.Len() != 0 {
		t.Errorf("timers after Close = %d", s.timers.Len())
	}
}

func TestTitleClickExplodes(t *testing.T) {
	s := newTestScene(t, AllLayers)
	run(s, 2*time.Second)

	cfg := s.Config()
	// Title centre: (0.5, 0.45) of 800x640 px is cell (50, 18).
	onTitle := cfg.CellToPx(46, 18)
	if !s.HitTitle(onTitle) {
		t.Fatal("HitTitle() = false on the title")
	}
	if s.HitTitle(cfg.CellToPx(44, 18)) || s.HitTitle(cfg.CellToPx(50, 19)) {
		t.Fatal("HitTitle() = true beside the title")
	}

	s.Handle(core.InputEvent{Type: core.EventPointerDown, Pos: onTitle})
	if s.Stats().Explosions != 1 {
		t.Errorf("Explosions = %d, want 1", s.Stats().Explosions)
	}
	if s.Dragging() {
		t.Error("title press started a drag")
	}

	s.Handle(core.InputEvent{Type: core.EventPointerDown, Pos: cfg.CellToPx(2, 2)})
	if !s.Dragging() {
		t.Error("press off the title did not start a drag")
	}
	s.Handle(core.InputEvent{Type: core.EventPointerUp})
	if s.Dragging() {
		t.Error("drag still active after release")
	}

	s.Do(core.ActionExplode)
	if s.Stats().Explosions != 2 {
		t.Errorf("Explosions = %d, want 2", s.Stats().Explosions)
	}
}

func TestIntroReveal(t *testing.T) {
	s := newTestScene(t, Layers{})
	el, ok := s.Stage().Lookup(s.subtitle)
	if !ok {
		t.Fatal("subtitle missing")
	}
	if got := el.Props.Get(stage.PropY); got != 50 {
		t.Errorf("subtitle starts at offset %v, want 50", got)
	}
	if got := el.Props.Get(stage.PropOpacity); got != 0 {
		t.Errorf("subtitle starts at opacity %v, want 0", got)
	}

	run(s, 2*time.Second)
	title, _ := s.Stage().Lookup(s.title)
	for _, e := range []*stage.Element{title, el} {
		y, o := e.Props.Get(stage.PropY), e.Props.Get(stage.PropOpacity)
		if y != 0 || o != 1 {
			t.Errorf("%q after intro: offset=%v opacity=%v, want 0 and 1", e.Text, y, o)
		}
	}
}

func TestResizeIsDebounced(t *testing.T) {
	s := newTestScene(t, AllLayers)

	s.Step(200 * time.Millisecond)
	s.Resize(120, 40)
	s.Step(200 * time.Millisecond)
	s.Resize(140, 50)
	s.Step(299 * time.Millisecond)
	if w, _ := s.Stage().Size(); w != 800 {
		t.Fatalf("resized before debounce elapsed: width %v", w)
	}

	spawned := s.Comets().Spawned()
	s.Step(time.Millisecond)
	w, h := s.Stage().Size()
	if w != 140*8 || h != 50*16 {
		t.Fatalf("stage size = %vx%v, want 1120x800", w, h)
	}
	if got := s.Config().ScreenW; got != 140 {
		t.Errorf("ScreenW = %d, want 140", got)
	}

	grid := s.Field().Grid()
	if grid[0] != (core.Vec2{X: 28, Y: 800.0 / 15 / 2}) {
		t.Errorf("grid not rebuilt: first point %v", grid[0])
	}

	// Comets restarted: blue respawned immediately, pink pending.
	if s.Comets().Spawned() != spawned+1 {
		t.Errorf("Spawned() = %d, want %d", s.Comets().Spawned(), spawned+1)
	}
	container, _ := s.Stage().Container(comet.ContainerName)
	if n := len(s.Stage().Children(container)); n != starfield.Count+1 {
		t.Errorf("comets container holds %d elements, want %d", n, starfield.Count+1)
	}
	c, _ := s.Comets().Comet(1)
	if c.End.X != 1120+comet.OffscreenMargin {
		t.Errorf("comet path not resized: end %v", c.End)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	s := newTestScene(t, AllLayers)
	s.Do(core.ActionPause)
	if !s.Paused() {
		t.Fatal("Paused() = false")
	}
	s.Step(time.Second)
	if s.Now() != 0 || s.Stats().Frames != 0 {
		t.Errorf("paused scene advanced: now=%v frames=%d", s.Now(), s.Stats().Frames)
	}
	s.Do(core.ActionPause)
	s.Step(time.Second)
	if s.Now() != time.Second {
		t.Errorf("Now() = %v, want 1s", s.Now())
	}
}

func TestZoomActions(t *testing.T) {
	s := newTestScene(t, Layers{Particles: true})
	s.Do(core.ActionZoomIn)
	s.Do(core.ActionZoomIn)
	s.Do(core.ActionZoomOut)
	if got := s.Scale(); got < 1.0999 || got > 1.1001 {
		t.Errorf("Scale() = %v, want 1.1", got)
	}
}

func TestMissingParticlesContainer(t *testing.T) {
	var buf bytes.Buffer
	s := New(testConfig(), Options{Layers: AllLayers, Logger: log.New(&buf)})
	defer s.Close()

	container, _ := s.Stage().Container(field.ContainerName)
	s.Stage().Remove(container)
	s.attachField()

	if s.Field() != nil {
		t.Fatal("field attached without a container")
	}
	if !strings.Contains(buf.String(), "particles container not found") {
		t.Errorf("log = %q", buf.String())
	}

	// The rest of the scene keeps running.
	s.Handle(core.InputEvent{Type: core.EventPointerDown})
	s.Do(core.ActionExplode)
	run(s, time.Second)
	if st := s.Stats(); st.PeakScale != 1 || st.Explosions != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestLayers(t *testing.T) {
	particles := newTestScene(t, Layers{Particles: true})
	if particles.Comets() != nil || particles.Field() == nil {
		t.Error("particles-only scene has the wrong layers")
	}
	comets := newTestScene(t, Layers{Comets: true})
	if comets.Field() != nil || comets.Comets() == nil {
		t.Error("comets-only scene has the wrong layers")
	}
	comets.Do(core.ActionExplode)
	comets.Handle(core.InputEvent{Type: core.EventWheel, DeltaY: 100})
	if comets.Scale() != 1 {
		t.Errorf("Scale() = %v without a field", comets.Scale())
	}
}

func TestRegisteredEffects(t *testing.T) {
	for _, id := range []string{"cosmos", "particles", "comets"} {
		t.Run(id, func(t *testing.T) {
			eff, err := registry.Create(id, registry.Env{})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			defer eff.Close()
			if eff.ID() != id {
				t.Errorf("ID() = %q", eff.ID())
			}
			eff.Reset(testConfig())
			eff.Step(frame)
			scr := core.NewScreen(100, 40)
			eff.Render(scr)
			if eff.Stats().Frames != 1 {
				t.Errorf("Frames = %d, want 1", eff.Stats().Frames)
			}
		})
	}
}
