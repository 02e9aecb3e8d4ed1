// Package sched provides one-shot timers on a simulated clock.
// Time only moves when the owner calls Advance, so the same code runs under
// the live tick loop and under a fake clock in tests.
package sched

import (
	"container/heap"
	"time"
)

// TimerID identifies a pending timer. The zero value is never issued.
type TimerID uint64

type timer struct {
	id    TimerID
	due   time.Duration
	seq   uint64
	fn    func()
	index int
}

// Scheduler runs callbacks once their due time is reached.
// It is not safe for concurrent use; it lives inside a single update loop.
type Scheduler struct {
	now     time.Duration
	seq     uint64
	queue   timerQueue
	byID    map[TimerID]*timer
	stopped bool
}

// New creates a scheduler whose clock starts at zero.
func New() *Scheduler {
	return &Scheduler{byID: make(map[TimerID]*timer)}
}

// Now returns the simulated time elapsed since creation.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After arranges for fn to run once, d after the current time.
// Negative delays are treated as zero. Returns 0 after Stop.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	if s.stopped || fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &timer{
		id:  TimerID(s.seq),
		due: s.now + d,
		seq: s.seq,
		fn:  fn,
	}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel removes a pending timer. Returns false if it already fired,
// was cancelled, or never existed.
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.byID, id)
	return true
}

// Pending reports whether the timer is still waiting to fire.
func (s *Scheduler) Pending(id TimerID) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Advance moves the clock forward by dt and runs every timer that becomes
// due, in due-time order (ties in scheduling order). Timers scheduled by a
// callback run in the same call if they fall inside the window.
// Returns the number of callbacks run.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	fired := 0
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.due > target {
			break
		}
		heap.Pop(&s.queue)
		delete(s.byID, next.id)
		s.now = next.due
		next.fn()
		fired++
	}
	s.now = target
	return fired
}

// Stop cancels every pending timer and rejects new ones.
func (s *Scheduler) Stop() {
	s.stopped = true
	s.queue = nil
	s.byID = make(map[TimerID]*timer)
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

// timerQueue is a min-heap ordered by due time, then scheduling order.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
