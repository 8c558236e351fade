// Package loop is the single cooperative event loop every show runs on.
//
// Nothing here spawns goroutines: timers fire only from RunDue or Advance,
// on the caller's goroutine, in deadline order. The viewer calls RunDue once
// per tick; the recorder and the tests drive a ManualClock with Advance.
package loop

import (
	"container/heap"
	"time"
)

// Clock reports the loop's notion of now.
type Clock interface {
	Now() time.Time
}

// SystemClock is wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts a manual clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

// Set moves the clock to t. Moving backwards is ignored.
func (c *ManualClock) Set(t time.Time) {
	if t.After(c.now) {
		c.now = t
	}
}

// Timer is a pending callback.
type Timer struct {
	at    time.Time
	seq   uint64
	fn    func()
	index int
	loop  *Loop
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.timers, t.index)
	return true
}

// Loop schedules callbacks against a Clock.
type Loop struct {
	clock  Clock
	timers timerHeap
	seq    uint64
}

// New returns a loop reading time from clock.
func New(clock Clock) *Loop {
	return &Loop{clock: clock}
}

// Now is the clock's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// After schedules fn to run once d has elapsed. A non-positive d runs fn on
// the next RunDue, never synchronously.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.seq++
	t := &Timer{at: l.clock.Now().Add(d), seq: l.seq, fn: fn, loop: l}
	heap.Push(&l.timers, t)
	return t
}

// Pending is the number of scheduled timers.
func (l *Loop) Pending() int {
	return len(l.timers)
}

// RunDue fires every timer whose deadline is not after the clock's now,
// including timers those callbacks schedule for the same instant.
// It returns how many callbacks ran.
func (l *Loop) RunDue() int {
	n := 0
	now := l.clock.Now()
	for len(l.timers) > 0 && !l.timers[0].at.After(now) {
		t := heap.Pop(&l.timers).(*Timer)
		t.fn()
		n++
	}
	return n
}

// Advance moves a ManualClock forward by d, stopping at each timer deadline
// on the way so callbacks observe the time they were scheduled for.
func (l *Loop) Advance(d time.Duration) int {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		return l.RunDue()
	}
	end := mc.Now().Add(d)
	n := 0
	for len(l.timers) > 0 && !l.timers[0].at.After(end) {
		mc.Set(l.timers[0].at)
		n += l.RunDue()
	}
	mc.Set(end)
	n += l.RunDue()
	return n
}

// Drain advances a ManualClock until no timers remain or limit elapses.
// It reports whether the loop went idle.
func (l *Loop) Drain(limit time.Duration) bool {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		l.RunDue()
		return len(l.timers) == 0
	}
	deadline := mc.Now().Add(limit)
	for len(l.timers) > 0 {
		next := l.timers[0].at
		if next.After(deadline) {
			mc.Set(deadline)
			return false
		}
		mc.Set(next)
		l.RunDue()
	}
	return true
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
