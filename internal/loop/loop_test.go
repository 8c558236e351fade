package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAdvanceFiresInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	l := New(clock)

	var order []string
	var seen []time.Duration
	record := func(name string) func() {
		return func() {
			order = append(order, name)
			seen = append(seen, clock.Now().Sub(epoch))
		}
	}

	l.After(300*time.Millisecond, record("c"))
	l.After(100*time.Millisecond, record("a"))
	l.After(200*time.Millisecond, record("b"))
	l.After(100*time.Millisecond, record("a2"))

	n := l.Advance(250 * time.Millisecond)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}, seen)
	assert.Equal(t, 250*time.Millisecond, clock.Now().Sub(epoch))
	assert.Equal(t, 1, l.Pending())
}

func TestZeroDelayNeverRunsSynchronously(t *testing.T) {
	l := New(NewManualClock(epoch))
	ran := false
	l.After(0, func() { ran = true })
	assert.False(t, ran)
	assert.Equal(t, 1, l.RunDue())
	assert.True(t, ran)
}

func TestTimerStop(t *testing.T) {
	l := New(NewManualClock(epoch))
	ran := false
	timer := l.After(time.Second, func() { ran = true })
	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	l.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestCallbacksCanChainTimers(t *testing.T) {
	l := New(NewManualClock(epoch))
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			l.After(100*time.Millisecond, tick)
		}
	}
	l.After(100*time.Millisecond, tick)

	require.True(t, l.Drain(time.Minute))
	assert.Equal(t, 5, count)
}

func TestDrainStopsAtLimit(t *testing.T) {
	clock := NewManualClock(epoch)
	l := New(clock)
	var again func()
	again = func() { l.After(time.Second, again) }
	l.After(time.Second, again)

	assert.False(t, l.Drain(10*time.Second))
	assert.Equal(t, 10*time.Second, clock.Now().Sub(epoch))
}
