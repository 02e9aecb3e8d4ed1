// Package comet runs the recurring comets: each id has exactly one live
// comet that crosses the container, fades out, and respawns after a
// random pause.
package comet

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

// ContainerName is the stage container comets and background stars share.
const ContainerName = "comets-container"

// Timing.
const (
	Stagger         = 500 * time.Millisecond // Delay before the second comet
	FadeDuration    = 1500 * time.Millisecond
	RespawnMin      = 2500 * time.Millisecond
	RespawnJitter   = 2000 * time.Millisecond
	TailFadePeriod  = 1800 * time.Millisecond
	tailBaseOpacity = 0.8
	tailLowOpacity  = 0.65
	haloOpacity     = 0.7
	haloBlur        = 8
	fadeScale       = 0.8
	tailBrightness  = 1.1
	flickerBase     = 0.7
)

// Draw order inside a comet.
const (
	zTail = 1
	zHalo = 5
	zHead = 10
	zRoot = 100
)

// ErrNoContainer is returned when the comets container is absent.
var ErrNoContainer = errors.New("comet: comets container not found")

// Deps are the collaborators a Spawner needs.
type Deps struct {
	Stage  *stage.Stage
	Tweens *tween.Engine
	Timers *sched.Scheduler
	Rand   *rand.Rand
	Logger *log.Logger
}

type slot struct {
	comet *Comet
	timer sched.TimerID // Pending spawn, 0 if none
}

// Spawner owns the comet slots. Ids 1 and 2 are used by Start; any
// positive id may be spawned directly.
type Spawner struct {
	stage     *stage.Stage
	tweens    *tween.Engine
	timers    *sched.Scheduler
	rng       *rand.Rand
	logger    *log.Logger
	container stage.ID

	slots   map[int]*slot
	spawned int
	stopped bool
}

// New binds a spawner to the comets container.
func New(d Deps) (*Spawner, error) {
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
	return &Spawner{
		stage:     d.Stage,
		tweens:    d.Tweens,
		timers:    d.Timers,
		rng:       d.Rand,
		logger:    d.Logger,
		container: container,
		slots:     make(map[int]*slot),
	}, nil
}

// Start spawns the blue comet now and the pink one after Stagger.
// Any comets and pending spawns from an earlier start are discarded, so a
// restart never leaves two comets with the same id.
func (s *Spawner) Start() {
	if s.stopped {
		return
	}
	s.Reset()
	s.Spawn(Blue, 1)
	s.schedule(2, Stagger, Pink)
}

// Reset removes every live comet and cancels every pending spawn.
func (s *Spawner) Reset() {
	for _, sl := range s.slots {
		s.discard(sl)
	}
}

// Stop cancels every pending spawn. Comets in flight finish their pass
// but never respawn.
func (s *Spawner) Stop() {
	s.stopped = true
	for _, sl := range s.slots {
		if sl.timer != 0 {
			s.timers.Cancel(sl.timer)
			sl.timer = 0
		}
	}
}

// Stopped reports whether Stop has been called.
func (s *Spawner) Stopped() bool {
	return s.stopped
}

// Spawn creates a comet of type t in slot id and starts its traversal.
// A comet already live in that slot is removed first.
func (s *Spawner) Spawn(t Type, id int) *Comet {
	if s.stopped {
		return nil
	}
	sl := s.slot(id)
	s.discard(sl)

	w, h := s.stage.Size()
	start, end := Path(id, w, h)
	c := &Comet{
		ID:    id,
		Type:  t,
		Style: StyleFor(t),
		Start: start,
		End:   end,
		State: Spawning,
	}
	if err := s.build(c); err != nil {
		s.logger.Warn("cannot build comet", "id", id, "error", err)
		return nil
	}
	sl.comet = c
	s.spawned++
	s.logger.Debug("comet spawned", "id", id, "type", t, "duration", c.Duration())

	s.traverse(c)
	return c
}

func (s *Spawner) build(c *Comet) error {
	st := c.Style

	root, err := s.stage.Create(s.container, stage.KindGroup)
	if err != nil {
		return err
	}
	root.Class = "comet"
	root.Z = zRoot
	root.Anchor = c.Start
	root.Props.Set(stage.PropRotation, c.Angle())
	c.Root = root.ID

	parts := []struct {
		kind  stage.Kind
		class string
		z     int
		size  float64
		width float64
		id    *stage.ID
	}{
		{stage.KindCometTail, "comet-tail", zTail, st.TailLength, st.HeadSize * 1.8, &c.Tail},
		{stage.KindCometHalo, "comet-head-glow", zHalo, st.HeadSize * 2, 0, &c.Halo},
		{stage.KindCometHead, "comet-head", zHead, st.HeadSize, 0, &c.Head},
	}
	for _, p := range parts {
		el, err := s.stage.Create(root.ID, p.kind)
		if err != nil {
			s.stage.Remove(root.ID)
			return err
		}
		el.Class = p.class
		el.Z = p.z
		el.Size = p.size
		el.Width = p.width
		el.Color = st.Head
		el.Color2 = st.Tail
		*p.id = el.ID
	}

	s.tweens.Set(c.Tail, tween.Vars{
		stage.PropOpacity:    tailBaseOpacity,
		stage.PropBrightness: tailBrightness,
	})
	s.tweens.Set(c.Halo, tween.Vars{
		stage.PropOpacity: haloOpacity,
		stage.PropBlur:    haloBlur,
	})
	return nil
}

func (s *Spawner) traverse(c *Comet) {
	delta := c.Delta()
	c.State = Traversing

	s.tweens.To(c.Root, tween.Vars{
		stage.PropX: delta.X,
		stage.PropY: delta.Y,
	}, tween.Options{
		Duration:   c.Duration(),
		Ease:       tween.Power1Out,
		OnUpdate:   func() { s.update(c) },
		OnComplete: func() { s.fadeOut(c) },
	})

	s.tweens.To(c.Tail, tween.Vars{stage.PropOpacity: tailLowOpacity}, tween.Options{
		Duration: TailFadePeriod,
		Ease:     tween.SineInOut,
		Repeat:   -1,
		Yoyo:     true,
	})
}

// update refreshes the per-frame shimmer of a traversing comet.
// Parts that have vanished are skipped.
func (s *Spawner) update(c *Comet) {
	root, ok := s.stage.Lookup(c.Root)
	if !ok {
		return
	}
	now := float64(s.timers.Now()) / float64(time.Millisecond)
	v := Shimmer(now, Progress(root.Props.Get(stage.PropX), c.Delta().X), c.ID)

	s.tweens.Set(c.Head, tween.Vars{
		stage.PropPulse:      v.HeadPulse,
		stage.PropBrightness: v.HeadBrightness,
	})
	s.tweens.Set(c.Halo, tween.Vars{
		stage.PropOpacity: v.HaloOpacity,
		stage.PropPulse:   v.HaloScale,
	})
	s.tweens.Set(c.Tail, tween.Vars{
		stage.PropBrightness: tailBrightness * v.TailFlicker / flickerBase,
		stage.PropBlur:       v.TailBlur,
	})
}

// ShimmerValues are the per-frame visual parameters of a traversing comet.
type ShimmerValues struct {
	HeadPulse      float64
	HeadBrightness float64
	HaloOpacity    float64
	HaloScale      float64
	TailFlicker    float64
	TailBlur       float64
}

// Shimmer computes the per-frame values at time now (ms) and traversal
// progress in [0,1].
func Shimmer(now, progress float64, id int) ShimmerValues {
	pulse := 0.9 + math.Sin(now*0.004)*0.1
	return ShimmerValues{
		HeadPulse:      pulse,
		HeadBrightness: 1.7 + math.Sin(progress*math.Pi*3)*0.3,
		HaloOpacity:    0.6 + math.Sin(now*0.003)*0.2,
		HaloScale:      1 + pulse*0.1,
		TailFlicker:    0.7 + math.Sin(now*0.002+float64(id))*0.15,
		TailBlur:       8 + math.Sin(now*0.0015)*2,
	}
}

// Progress returns how far along the x axis a comet has travelled.
func Progress(x, deltaX float64) float64 {
	if deltaX == 0 {
		return 0
	}
	return x / deltaX
}

func (s *Spawner) fadeOut(c *Comet) {
	if c.State != Traversing {
		return
	}
	c.State = FadingOut
	s.tweens.To(c.Root, tween.Vars{
		stage.PropOpacity: 0,
		stage.PropScale:   fadeScale,
	}, tween.Options{
		Duration:   FadeDuration,
		Ease:       tween.Power2In,
		OnComplete: func() { s.despawn(c) },
	})
}

func (s *Spawner) despawn(c *Comet) {
	s.stage.Remove(c.Root)
	c.State = Removed

	sl := s.slot(c.ID)
	if sl.comet != c {
		return
	}
	sl.comet = nil
	delay := RespawnMin + time.Duration(s.rng.Float64()*float64(RespawnJitter))
	s.logger.Debug("comet removed", "id", c.ID, "respawn_in", delay)
	s.schedule(c.ID, delay, c.Type)
}

func (s *Spawner) schedule(id int, delay time.Duration, t Type) {
	if s.stopped {
		return
	}
	sl := s.slot(id)
	if sl.timer != 0 {
		s.timers.Cancel(sl.timer)
	}
	sl.timer = s.timers.After(delay, func() {
		sl.timer = 0
		s.Spawn(t, id)
	})
}

// discard removes a slot's live comet and cancels its pending spawn.
func (s *Spawner) discard(sl *slot) {
	if sl.timer != 0 {
		s.timers.Cancel(sl.timer)
		sl.timer = 0
	}
	if sl.comet != nil {
		s.stage.Remove(sl.comet.Root)
		sl.comet.State = Removed
		sl.comet = nil
	}
}

func (s *Spawner) slot(id int) *slot {
	sl, ok := s.slots[id]
	if !ok {
		sl = &slot{}
		s.slots[id] = sl
	}
	return sl
}

// Comet returns the live comet in slot id.
func (s *Spawner) Comet(id int) (*Comet, bool) {
	sl, ok := s.slots[id]
	if !ok || sl.comet == nil {
		return nil, false
	}
	return sl.comet, true
}

// Live returns the number of live comets.
func (s *Spawner) Live() int {
	n := 0
	for _, sl := range s.slots {
		if sl.comet != nil {
			n++
		}
	}
	return n
}

// PendingSpawn reports whether slot id has a spawn scheduled.
func (s *Spawner) PendingSpawn(id int) bool {
	sl, ok := s.slots[id]
	return ok && sl.timer != 0 && s.timers.Pending(sl.timer)
}

// Spawned returns how many comets have been created.
func (s *Spawner) Spawned() int {
	return s.spawned
}

// HeadPosition returns the current head centre of a comet in container
// pixels.
func (s *Spawner) HeadPosition(c *Comet) (core.Vec2, bool) {
	root, ok := s.stage.Lookup(c.Root)
	if !ok {
		return core.Vec2{}, false
	}
	w, h := s.stage.Size()
	return root.Position(w, h), true
}
