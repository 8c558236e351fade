package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/loop"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newStage() (*Stage, *loop.Loop) {
	lp := loop.New(loop.NewManualClock(epoch))
	st := NewStage(lp, geom.Rect{X: 10, Y: 20, W: 400, H: 300}, geom.Size{W: 1000, H: 800},
		Region{Selector: "#a", Rect: geom.Rect{X: 100, Y: 100, W: 50, H: 50}},
		Region{Selector: "#b", Rect: geom.Rect{X: 120, Y: 120, W: 50, H: 50}},
	)
	return st, lp
}

func TestStageHasPlate(t *testing.T) {
	st, _ := newStage()
	assert.True(t, st.HasPlate())

	empty := NewStage(loop.New(loop.NewManualClock(epoch)), geom.Rect{W: 1, H: 1}, geom.Size{})
	assert.False(t, empty.HasPlate())
}

func TestScaleTransitionIsLinear(t *testing.T) {
	st, lp := newStage()
	st.SetScale(3, 400*time.Millisecond)

	assert.Equal(t, 1.0, st.Scale())
	lp.Advance(100 * time.Millisecond)
	assert.InDelta(t, 1.5, st.Scale(), 1e-9)
	lp.Advance(300 * time.Millisecond)
	assert.Equal(t, 3.0, st.Scale())
	assert.Equal(t, 3000.0, st.RenderedPlateWidth())

	// a new transition starts from wherever the old one got to
	st.SetScale(1, 200*time.Millisecond)
	lp.Advance(100 * time.Millisecond)
	assert.InDelta(t, 2.0, st.Scale(), 1e-9)
}

func TestScalingAboutViewportCentre(t *testing.T) {
	st, _ := newStage()
	centre := geom.Pt(210, 170)

	st.SetPlateOffset(centre)
	st.SetScale(2, 0)
	assertNear(t, centre, st.PlateOffset())

	st.SetPlateOffset(geom.Pt(0, 0))
	assertNear(t, geom.Pt(0, 0), st.PlateOffset())
	assertNear(t, geom.Pt(95, 65), st.LocalOffset())
}

func TestElementBoxes(t *testing.T) {
	st, _ := newStage()

	box, ok := st.Element("#a")
	require.True(t, ok)
	assertNear(t, geom.Pt(110, 120), box.Offset)
	assert.Equal(t, geom.Size{W: 50, H: 50}, box.Outer)

	_, ok = st.Element("#zzz")
	assert.False(t, ok)

	sel, ok := st.ElementAt(geom.Pt(135, 145))
	require.True(t, ok)
	assert.Equal(t, "#b", sel, "later regions sit on top")

	sel, ok = st.ElementAt(geom.Pt(115, 125))
	require.True(t, ok)
	assert.Equal(t, "#a", sel)

	_, ok = st.ElementAt(geom.Pt(0, 0))
	assert.False(t, ok)

	assert.Len(t, st.Regions(), 2)
}

func TestAnimateCompletes(t *testing.T) {
	st, lp := newStage()

	done := 0
	st.Animate(geom.Pt(-100, -200), time.Second, "linear", func() { done++ })
	assert.True(t, st.Animating())

	lp.Advance(250 * time.Millisecond)
	assertNear(t, geom.Pt(-25, -50), st.LocalOffset())
	assert.Equal(t, 0, done)

	lp.Advance(750 * time.Millisecond)
	assert.Equal(t, 1, done)
	assert.False(t, st.Animating())
	assertNear(t, geom.Pt(-100, -200), st.LocalOffset())
}

func TestStopFreezesWithoutCallback(t *testing.T) {
	st, lp := newStage()

	done := 0
	st.Animate(geom.Pt(-100, 0), time.Second, "linear", func() { done++ })
	lp.Advance(500 * time.Millisecond)
	st.Stop()

	assertNear(t, geom.Pt(-50, 0), st.LocalOffset())
	assert.True(t, lp.Drain(5*time.Second))
	assert.Equal(t, 0, done)
	assertNear(t, geom.Pt(-50, 0), st.LocalOffset())
}

func TestAnimateSupersedesPrevious(t *testing.T) {
	st, lp := newStage()

	first, second := 0, 0
	st.Animate(geom.Pt(-100, 0), time.Second, "linear", func() { first++ })
	lp.Advance(500 * time.Millisecond)
	st.Animate(geom.Pt(0, -100), 100*time.Millisecond, "swing", func() { second++ })

	require.True(t, lp.Drain(5*time.Second))
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assertNear(t, geom.Pt(0, -100), st.LocalOffset())
}

func TestSnapshot(t *testing.T) {
	st, _ := newStage()
	st.SetScale(2, 0)

	v := st.Snapshot()
	assert.Equal(t, st.Viewport(), v.Viewport)
	assert.Equal(t, st.PlateSize(), v.PlateSize)
	assert.Equal(t, 2.0, v.Scale)
	assertNear(t, st.PlateOffset(), v.PlateOffset)
}

func assertNear(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}
