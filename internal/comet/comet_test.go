package comet

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/sched"
	"github.com/vovakirdan/tui-cosmos/internal/stage"
	"github.com/vovakirdan/tui-cosmos/internal/tween"
)

type harness struct {
	stage     *stage.Stage
	tweens    *tween.Engine
	timers    *sched.Scheduler
	spawner   *Spawner
	container stage.ID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := stage.New(1600, 900)
	container := st.AddContainer(ContainerName, 0)
	tw := tween.NewEngine(st)
	tm := sched.New()
	sp, err := New(Deps{
		Stage:  st,
		Tweens: tw,
		Timers: tm,
		Rand:   rand.New(rand.NewSource(3)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &harness{stage: st, tweens: tw, timers: tm, spawner: sp, container: container}
}

// pump runs the clock the way the scene does: timers first, then tweens.
func (h *harness) pump(total, step time.Duration) {
	for d := time.Duration(0); d < total; d += step {
		h.timers.Advance(step)
		h.tweens.Advance(step)
	}
}

func TestNewWithoutContainer(t *testing.T) {
	_, err := New(Deps{Stage: stage.New(100, 100)})
	if !errors.Is(err, ErrNoContainer) {
		t.Fatalf("New() error = %v, want ErrNoContainer", err)
	}
}

func TestPathSymmetry(t *testing.T) {
	sizes := []struct{ w, h float64 }{
		{800, 600},
		{1600, 900},
		{320, 480},
	}
	for _, sz := range sizes {
		s1, e1 := Path(1, sz.w, sz.h)
		s2, e2 := Path(2, sz.w, sz.h)

		if s1 != e2 || e1 != s2 {
			t.Errorf("%vx%v: paths not mirrored: %v->%v vs %v->%v", sz.w, sz.h, s1, e1, s2, e2)
		}
		if s1 != (core.Vec2{X: -100, Y: sz.h * 0.25}) {
			t.Errorf("%vx%v: start = %v", sz.w, sz.h, s1)
		}
		if e1 != (core.Vec2{X: sz.w + 100, Y: sz.h * 0.75}) {
			t.Errorf("%vx%v: end = %v", sz.w, sz.h, e1)
		}
		mid1 := s1.Lerp(e1, 0.5)
		mid2 := s2.Lerp(e2, 0.5)
		if mid1 != mid2 || mid1 != (core.Vec2{X: sz.w / 2, Y: sz.h / 2}) {
			t.Errorf("%vx%v: midpoints %v and %v, want container centre", sz.w, sz.h, mid1, mid2)
		}
	}
}

func TestStyles(t *testing.T) {
	tests := []struct {
		typ    Type
		head   string
		tail   string
		size   float64
		minDur time.Duration
		maxDur time.Duration
	}{
		{Blue, "#00ffff", "#0080ff", 26, 85700 * time.Millisecond, 85720 * time.Millisecond},
		{Pink, "#ff00ff", "#ff0080", 24, 80 * time.Second, 80 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			st := StyleFor(tt.typ)
			if st.Head.Hex() != tt.head || st.Tail.Hex() != tt.tail {
				t.Errorf("colors = %s/%s, want %s/%s", st.Head.Hex(), st.Tail.Hex(), tt.head, tt.tail)
			}
			if st.HeadSize != tt.size {
				t.Errorf("HeadSize = %v, want %v", st.HeadSize, tt.size)
			}
			if got := TraversalDuration(st.Speed); got < tt.minDur || got > tt.maxDur {
				t.Errorf("duration = %v, want [%v, %v]", got, tt.minDur, tt.maxDur)
			}
		})
	}
	if TraversalDuration(0) != 0 {
		t.Error("zero speed should yield zero duration")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"blue", Blue, false},
		{" Pink ", Pink, false},
		{"warm", Pink, false},
		{"green", Blue, true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShimmerRanges(t *testing.T) {
	for now := 0.0; now < 20000; now += 7 {
		v := Shimmer(now, math.Mod(now/20000, 1), 1)
		check := func(name string, got, lo, hi float64) {
			if got < lo-1e-9 || got > hi+1e-9 {
				t.Fatalf("now=%v %s = %v, want [%v, %v]", now, name, got, lo, hi)
			}
		}
		check("head pulse", v.HeadPulse, 0.8, 1.0)
		check("head brightness", v.HeadBrightness, 1.4, 2.0)
		check("halo opacity", v.HaloOpacity, 0.4, 0.8)
		check("halo scale", v.HaloScale, 1.08, 1.1)
		check("tail flicker", v.TailFlicker, 0.55, 0.85)
		check("tail blur", v.TailBlur, 6, 10)
	}
	if got := Shimmer(0, 0, 0); got.HeadBrightness != 1.7 || got.HeadPulse != 0.9 {
		t.Errorf("Shimmer at origin = %+v", got)
	}
	if Progress(50, 0) != 0 || Progress(50, 100) != 0.5 {
		t.Error("Progress mismatch")
	}
}

func TestSpawnBuildsComposite(t *testing.T) {
	h := newHarness(t)
	c := h.spawner.Spawn(Blue, 1)
	if c == nil {
		t.Fatal("Spawn() = nil")
	}
	if c.State != Traversing {
		t.Errorf("State = %v, want traversing", c.State)
	}

	parts := h.stage.Children(c.Root)
	want := []stage.Kind{stage.KindCometTail, stage.KindCometHalo, stage.KindCometHead}
	if len(parts) != len(want) {
		t.Fatalf("parts = %d, want %d", len(parts), len(want))
	}
	prevZ := -1
	for i, id := range parts {
		el, _ := h.stage.Lookup(id)
		if el.Kind != want[i] {
			t.Errorf("part %d kind = %v, want %v", i, el.Kind, want[i])
		}
		if el.Z <= prevZ {
			t.Errorf("part %d z = %d, not above %d", i, el.Z, prevZ)
		}
		prevZ = el.Z
	}

	root, _ := h.stage.Lookup(c.Root)
	wantAngle := math.Atan2(c.End.Y-c.Start.Y, c.End.X-c.Start.X)
	if got := root.Props.Get(stage.PropRotation); got != wantAngle {
		t.Errorf("rotation = %v, want %v", got, wantAngle)
	}
	halo, _ := h.stage.Lookup(c.Halo)
	if got := halo.Props.Get(stage.PropBlur); got != haloBlur {
		t.Errorf("halo blur = %v, want %v", got, haloBlur)
	}
	pos, ok := h.spawner.HeadPosition(c)
	if !ok || pos != c.Start {
		t.Errorf("HeadPosition() = %v, %v, want %v", pos, ok, c.Start)
	}

	h.pump(10*time.Second, 10*time.Millisecond)
	pos, _ = h.spawner.HeadPosition(c)
	if pos.X <= c.Start.X || pos.X >= c.End.X || pos.Y <= c.Start.Y || pos.Y >= c.End.Y {
		t.Errorf("head at %v after 10s, want strictly between %v and %v", pos, c.Start, c.End)
	}
	head, _ := h.stage.Lookup(c.Head)
	if got := head.Props.Get(stage.PropBrightness); got < 1.4 || got > 2.0 {
		t.Errorf("head brightness = %v", got)
	}
}

func TestRespawnCycle(t *testing.T) {
	h := newHarness(t)
	sp := h.spawner
	step := 10 * time.Millisecond

	first := sp.Spawn(Blue, 1)
	h.pump(first.Duration(), step)
	if first.State != FadingOut {
		t.Fatalf("after traversal state = %v, want fading-out", first.State)
	}

	for i := 0; sp.Live() > 0; i++ {
		if i > 300 {
			t.Fatal("comet never removed")
		}
		h.pump(step, step)
	}
	if first.State != Removed {
		t.Fatalf("state = %v, want removed", first.State)
	}
	if h.stage.Exists(first.Root) {
		t.Fatal("comet elements still on stage")
	}
	if !sp.PendingSpawn(1) {
		t.Fatal("no respawn scheduled")
	}
	removedAt := h.timers.Now()

	for i := 0; sp.Live() == 0; i++ {
		if i > 500 {
			t.Fatal("comet never respawned")
		}
		h.pump(step, step)
	}
	delay := h.timers.Now() - removedAt
	if delay < RespawnMin || delay > RespawnMin+RespawnJitter+step {
		t.Errorf("respawn delay = %v, want [%v, %v)", delay, RespawnMin, RespawnMin+RespawnJitter)
	}

	second, ok := sp.Comet(1)
	if !ok || second == first {
		t.Fatal("respawned comet missing")
	}
	if second.Type != Blue || second.State != Traversing {
		t.Errorf("respawned comet = %v/%v", second.Type, second.State)
	}
	if sp.Spawned() != 2 {
		t.Errorf("Spawned() = %d, want 2", sp.Spawned())
	}
	if n := len(h.stage.Children(h.container)); n != 1 {
		t.Errorf("container holds %d comets, want 1", n)
	}
}

func TestStartStaggersSecondComet(t *testing.T) {
	h := newHarness(t)
	sp := h.spawner
	sp.Start()

	if _, ok := sp.Comet(1); !ok {
		t.Fatal("comet 1 not spawned immediately")
	}
	h.timers.Advance(Stagger - time.Millisecond)
	if _, ok := sp.Comet(2); ok {
		t.Fatal("comet 2 spawned early")
	}
	h.timers.Advance(time.Millisecond)
	c, ok := sp.Comet(2)
	if !ok {
		t.Fatal("comet 2 not spawned after stagger")
	}
	if c.Type != Pink {
		t.Errorf("comet 2 type = %v, want pink", c.Type)
	}
	s1, _ := sp.Comet(1)
	if s1.Start != c.End {
		t.Errorf("comet 2 does not mirror comet 1: %v vs %v", c.End, s1.Start)
	}
}

func TestRestartKeepsOneCometPerID(t *testing.T) {
	h := newHarness(t)
	sp := h.spawner

	sp.Start()
	h.timers.Advance(200 * time.Millisecond)
	sp.Start()

	// The first start's stagger would have fired at 500ms.
	h.timers.Advance(400 * time.Millisecond)
	if _, ok := sp.Comet(2); ok {
		t.Fatal("stale stagger spawned comet 2")
	}
	h.timers.Advance(100 * time.Millisecond)
	if _, ok := sp.Comet(2); !ok {
		t.Fatal("comet 2 missing after restart stagger")
	}
	if n := len(h.stage.Children(h.container)); n != 2 {
		t.Errorf("container holds %d comets, want 2", n)
	}
	if sp.Spawned() != 3 {
		t.Errorf("Spawned() = %d, want 3", sp.Spawned())
	}
}

func TestSpawnReplacesLiveComet(t *testing.T) {
	h := newHarness(t)
	sp := h.spawner
	old := sp.Spawn(Blue, 1)
	replacement := sp.Spawn(Pink, 1)

	if old.State != Removed || h.stage.Exists(old.Root) {
		t.Error("old comet not removed")
	}
	if c, _ := sp.Comet(1); c != replacement {
		t.Error("slot does not hold the replacement")
	}
	if sp.Live() != 1 {
		t.Errorf("Live() = %d, want 1", sp.Live())
	}
}

func TestStopCancelsPendingSpawns(t *testing.T) {
	h := newHarness(t)
	sp := h.spawner
	sp.Start()
	sp.Stop()

	if sp.PendingSpawn(2) || h.timers.Len() != 0 {
		t.Fatalf("pending timers after Stop: %d", h.timers.Len())
	}
	h.timers.Advance(time.Second)
	if _, ok := sp.Comet(2); ok {
		t.Error("comet 2 spawned after Stop")
	}
	if sp.Spawn(Blue, 3) != nil {
		t.Error("Spawn() after Stop returned a comet")
	}

	// The comet in flight finishes but does not come back.
	c, _ := sp.Comet(1)
	h.pump(c.Duration()+FadeDuration+100*time.Millisecond, 20*time.Millisecond)
	if sp.Live() != 0 || h.timers.Len() != 0 {
		t.Errorf("after stop: live=%d timers=%d", sp.Live(), h.timers.Len())
	}
}

func TestClearedContainerIsTolerated(t *testing.T) {
	h := newHarness(t)
	sp := h.spawner
	sp.Start()
	h.timers.Advance(Stagger)

	h.stage.Clear(h.container)
	h.pump(time.Second, 10*time.Millisecond)
	if h.tweens.Len() != 0 {
		t.Errorf("tweens on removed comets = %d, want 0", h.tweens.Len())
	}

	sp.Start()
	if _, ok := sp.Comet(1); !ok {
		t.Fatal("restart after clear did not spawn comet 1")
	}
	if n := len(h.stage.Children(h.container)); n != 1 {
		t.Errorf("container holds %d comets, want 1", n)
	}
}
