package scoot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scooter/internal/geom"
)

func TestRadii(t *testing.T) {
	sh, st, _ := newFixture(t, Options{})
	assert.Equal(t, geom.Size{W: 200, H: 150}, sh.ViewportRadius())
	assert.Equal(t, geom.Size{W: 500, H: 400}, sh.PlateRadius())

	st.SetViewport(geom.Rect{W: 401, H: 299})
	assert.Equal(t, geom.Size{W: 200, H: 149}, sh.ViewportRadius())
}

func TestCurrentPosition(t *testing.T) {
	sh, st, _ := newFixtureAt(t, Options{}, geom.Rect{X: 30, Y: 40, W: 400, H: 300})
	assertPoint(t, geom.Pt(-200, -150), sh.CurrentPosition())

	st.SetPlateOffset(geom.Pt(130, 90))
	assertPoint(t, geom.Pt(-100, -100), sh.CurrentPosition())
}

func TestTargetCenter(t *testing.T) {
	sh, _, lp := newFixture(t, Options{})

	got, err := sh.TargetCenter("#lake")
	require.NoError(t, err)
	assertPoint(t, geom.Pt(200, 150), got)

	_, err = sh.TargetCenter("#nope")
	assert.ErrorIs(t, err, ErrUnknownSelector)

	sh.ScootTo(TargetConfig{Target: Origin, Scale: 2, Duration: Dur(0), ScaleDuration: Dur(0)})
	require.True(t, lp.Drain(time.Second))
	require.Equal(t, 2.0, sh.Scale())

	got, err = sh.TargetCenter("#lake")
	require.NoError(t, err)
	assertPoint(t, geom.Pt(400, 300), got)
}

func TestResolveTargets(t *testing.T) {
	sh, _, _ := newFixture(t, Options{})

	tests := []struct {
		name   string
		target Target
		want   geom.Point
	}{
		{name: "coordinates", target: Coordinates{X: 7, Y: -3}, want: geom.Pt(7, -3)},
		{name: "center", target: Center, want: geom.Pt(500, 400)},
		{name: "origin", target: Origin, want: geom.Pt(200, 150)},
		{name: "selector", target: Selector("#peak"), want: geom.Pt(650, 550)},
		{name: "computed", target: Computed(func() Target { return Selector("#lake") }), want: geom.Pt(200, 150)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sh.Resolve(tt.target)
			require.NoError(t, err)
			assertPoint(t, tt.want, got)
		})
	}

	_, err := sh.Resolve(NamedPoint("north"))
	assert.ErrorIs(t, err, ErrUnknownPoint)

	_, err = sh.Resolve(nil)
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestResolveComputed(t *testing.T) {
	nested := Computed(func() Target {
		return Computed(func() Target { return Selector("#lake") })
	})
	assert.Equal(t, Selector("#lake"), resolveComputed(nested))
	assert.Equal(t, Center, resolveComputed(Center))
	assert.Nil(t, resolveComputed(Computed(nil)))

	var self Computed
	self = func() Target { return self }
	assert.Nil(t, resolveComputed(self))
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, Center, ParseTarget("center"))
	assert.Equal(t, Origin, ParseTarget("origin"))
	assert.Equal(t, Selector("#lake"), ParseTarget("#lake"))
}
