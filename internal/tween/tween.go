// Package tween animates stage element properties over time.
//
// It offers the small set of operations the effects need: set properties
// immediately, animate to or from values with easing, repeat and yoyo,
// and per-tick and completion callbacks. Tweens whose element has been
// removed are dropped silently, and their completion callback never runs.
package tween

import (
	"time"

	"github.com/vovakirdan/tui-cosmos/internal/stage"
)

// Vars maps properties to target values.
type Vars map[stage.Prop]float64

// Options controls timing of a tween.
type Options struct {
	Duration   time.Duration
	Delay      time.Duration
	Ease       Ease
	Repeat     int  // Extra iterations; -1 repeats forever
	Yoyo       bool // Reverse direction on every other iteration
	OnUpdate   func()
	OnComplete func()
}

// Tween is one running property animation.
type Tween struct {
	target  stage.ID
	from    Vars
	to      Vars
	opts    Options
	elapsed time.Duration
	started bool
	done    bool
	lazy    bool // Capture start values when the tween starts
}

// Target returns the element the tween animates.
func (t *Tween) Target() stage.ID {
	return t.target
}

// Done reports whether the tween has finished or been killed.
func (t *Tween) Done() bool {
	return t.done
}

// Engine owns the set of active tweens for one stage.
type Engine struct {
	stage     *stage.Stage
	tweens    []*Tween
	pending   []*Tween // Created by callbacks during Advance
	advancing bool
}

// NewEngine creates an engine animating elements of st.
func NewEngine(st *stage.Stage) *Engine {
	return &Engine{stage: st}
}

// Set assigns properties immediately. Returns false if the element is gone.
func (e *Engine) Set(id stage.ID, vars Vars) bool {
	el, ok := e.stage.Lookup(id)
	if !ok {
		return false
	}
	for k, v := range vars {
		el.Props.Set(k, v)
	}
	return true
}

// Get reads the current value of a property.
func (e *Engine) Get(id stage.ID, prop stage.Prop) (float64, bool) {
	el, ok := e.stage.Lookup(id)
	if !ok {
		return 0, false
	}
	return el.Props.Get(prop), true
}

// To animates properties from their current values to vars.
// Any other tween already animating one of the same properties on the same
// element loses that property; a tween left with nothing to animate is
// dropped without completing.
func (e *Engine) To(id stage.ID, vars Vars, opts Options) *Tween {
	t := &Tween{target: id, to: copyVars(vars), opts: normalize(opts), lazy: true}
	e.add(t)
	return t
}

// From animates properties from vars to their current values. The start
// values are applied immediately, before any delay elapses.
func (e *Engine) From(id stage.ID, vars Vars, opts Options) *Tween {
	t := &Tween{target: id, from: copyVars(vars), to: Vars{}, opts: normalize(opts)}
	if el, ok := e.stage.Lookup(id); ok {
		for k, v := range vars {
			t.to[k] = el.Props.Get(k)
			el.Props.Set(k, v)
		}
	}
	e.add(t)
	return t
}

// Kill stops every tween on the element without running completions.
func (e *Engine) Kill(id stage.ID) {
	for _, t := range e.tweens {
		if t.target == id {
			t.done = true
		}
	}
	for _, t := range e.pending {
		if t.target == id {
			t.done = true
		}
	}
	if !e.advancing {
		e.compact()
	}
}

// Len returns the number of active tweens.
func (e *Engine) Len() int {
	n := 0
	for _, t := range e.tweens {
		if !t.done {
			n++
		}
	}
	for _, t := range e.pending {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves every tween forward by dt, applying values and running
// callbacks. Tweens created by callbacks start on the next Advance.
func (e *Engine) Advance(dt time.Duration) {
	e.advancing = true
	for _, t := range e.tweens {
		if t.done {
			continue
		}
		el, ok := e.stage.Lookup(t.target)
		if !ok {
			t.done = true
			continue
		}
		t.elapsed += dt
		if t.elapsed < t.opts.Delay {
			continue
		}
		if !t.started {
			t.started = true
			if t.lazy {
				t.from = Vars{}
				for k := range t.to {
					t.from[k] = el.Props.Get(k)
				}
			}
		}

		progress, finished := t.progress()
		eased := t.opts.Ease(progress)
		for k, to := range t.to {
			from := t.from[k]
			el.Props.Set(k, from+(to-from)*eased)
		}
		if t.opts.OnUpdate != nil {
			t.opts.OnUpdate()
		}
		if finished {
			t.done = true
			if t.opts.OnComplete != nil {
				t.opts.OnComplete()
			}
		}
	}
	e.advancing = false
	e.compact()
	e.tweens = append(e.tweens, e.pending...)
	e.pending = nil
}

// progress returns linear progress within the current iteration and
// whether the whole tween (all repeats) has finished.
func (t *Tween) progress() (float64, bool) {
	active := t.elapsed - t.opts.Delay
	d := t.opts.Duration
	if d <= 0 {
		return 1, true
	}
	iter := int(active / d)
	if t.opts.Repeat >= 0 && iter > t.opts.Repeat {
		last := 1.0
		if t.opts.Yoyo && t.opts.Repeat%2 == 1 {
			last = 0
		}
		return last, true
	}
	if t.opts.Yoyo {
		return Yoyo(float64(active), float64(d), Linear), false
	}
	return float64(active%d) / float64(d), false
}

func (e *Engine) add(t *Tween) {
	overwrite(e.tweens, t)
	overwrite(e.pending, t)
	if e.advancing {
		e.pending = append(e.pending, t)
		return
	}
	e.compact()
	e.tweens = append(e.tweens, t)
}

// overwrite strips t's properties from other live tweens on the same target.
func overwrite(list []*Tween, t *Tween) {
	for _, other := range list {
		if other.done || other.target != t.target {
			continue
		}
		for k := range t.to {
			delete(other.to, k)
			delete(other.from, k)
		}
		if len(other.to) == 0 {
			other.done = true
		}
	}
}

func (e *Engine) compact() {
	kept := e.tweens[:0]
	for _, t := range e.tweens {
		if !t.done {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(e.tweens); i++ {
		e.tweens[i] = nil
	}
	e.tweens = kept
}

func normalize(opts Options) Options {
	if opts.Ease == nil {
		opts.Ease = Power1Out
	}
	return opts
}

func copyVars(v Vars) Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
