package control

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/loop"
	"github.com/ivlev/scooter/internal/scene"
	"github.com/ivlev/scooter/internal/scoot"
)

type fixture struct {
	show     *scoot.Show
	stage    *scene.Stage
	loop     *loop.Loop
	ctrl     *Controller
	arrivals int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	f.loop = loop.New(loop.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	f.stage = scene.NewStage(f.loop, geom.Rect{W: 400, H: 300}, geom.Size{W: 1000, H: 800},
		scene.Region{Selector: "#lake", Rect: geom.Rect{X: 100, Y: 100, W: 200, H: 100}},
		scene.Region{Selector: "#peak", Rect: geom.Rect{X: 600, Y: 500, W: 100, H: 100}},
	)
	sh, err := scoot.New(scoot.Options{
		Targets: map[string]scoot.TriggerSpec{
			"#lake": scoot.Simple{Target: scoot.Selector("#lake")},
			"#peak": scoot.Detailed{Event: scoot.EventEnter, Config: scoot.TargetConfig{
				Target:   scoot.Selector("#peak"),
				Callback: func(error) { f.arrivals++ },
			}},
		},
		Keys:   map[string]string{"1": "#lake"},
		Logger: log.New(io.Discard, "", 0),
	}, f.stage, f.loop)
	require.NoError(t, err)
	f.show = sh
	f.ctrl = NewController(sh, f.stage)
	return f
}

func press(points ...geom.Point) InputFrame {
	return InputFrame{Pointers: points}
}

func TestClickFiresTrigger(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Apply(press(geom.Pt(150, 150)))
	f.ctrl.Apply(press(geom.Pt(152, 151)))
	f.ctrl.Apply(InputFrame{})

	assert.Equal(t, scoot.Selector("#lake"), f.show.State().CurrentTarget)
}

func TestClickOnEmptyPlateDoesNothing(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Apply(press(geom.Pt(20, 20)))
	f.ctrl.Apply(InputFrame{})

	assert.Equal(t, scoot.Center, f.show.State().CurrentTarget)
	assert.Equal(t, scoot.PhaseIdle, f.show.State().Phase)
}

func TestDragPansInsteadOfClicking(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Apply(press(geom.Pt(150, 150)))
	f.ctrl.Apply(press(geom.Pt(160, 150)))
	assert.Equal(t, geom.Pt(10, 0), f.stage.PlateOffset())

	f.ctrl.Apply(InputFrame{})
	assert.Equal(t, scoot.Center, f.show.State().CurrentTarget, "a drag is not a click")
	assert.False(t, f.show.State().Panning)
}

func TestPinchZoomsOnlyWhenFingersMove(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Apply(press(geom.Pt(100, 100), geom.Pt(200, 100)))
	assert.True(t, f.show.State().Pinching)

	f.ctrl.Apply(press(geom.Pt(90, 100), geom.Pt(210, 100)))
	assert.Equal(t, 1.5, f.show.Scale())

	f.loop.Advance(300 * time.Millisecond)
	f.ctrl.Apply(press(geom.Pt(90, 100), geom.Pt(210, 100)))
	assert.Equal(t, 1.5, f.show.Scale(), "resting fingers must not zoom")

	// lift one finger, then the other
	f.ctrl.Apply(press(geom.Pt(90, 100)))
	assert.False(t, f.show.State().Pinching)
	assert.True(t, f.show.State().Panning)

	f.ctrl.Apply(InputFrame{})
	assert.False(t, f.show.State().Panning)
	assert.Equal(t, scoot.Center, f.show.State().CurrentTarget)
}

func TestWheelAndKeys(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Apply(InputFrame{Wheel: 1})
	assert.Equal(t, 1.5, f.show.Scale())
	f.ctrl.Apply(InputFrame{Wheel: -1})
	assert.Equal(t, 1.0, f.show.Scale())

	f.loop.Advance(300 * time.Millisecond)
	f.ctrl.Apply(InputFrame{Keys: []string{"+"}})
	assert.Equal(t, 1.5, f.show.Scale())
	f.ctrl.Apply(InputFrame{Keys: []string{"-"}})
	assert.Equal(t, 1.0, f.show.Scale())

	f.ctrl.Apply(InputFrame{Keys: []string{"1"}})
	assert.Equal(t, scoot.Selector("#lake"), f.show.State().CurrentTarget)
}

func TestHoverFiresEnterOnce(t *testing.T) {
	f := newFixture(t)
	hover := func(x, y float64) {
		f.ctrl.Apply(InputFrame{Hover: geom.Pt(x, y), HasHover: true})
		require.True(t, f.loop.Drain(10*time.Second))
	}

	hover(650, 550)
	assert.Equal(t, 1, f.arrivals)
	assert.Equal(t, scoot.Selector("#peak"), f.show.State().CurrentTarget)

	// #peak now sits in the middle of the viewport
	hover(200, 150)
	assert.Equal(t, 1, f.arrivals, "staying on an element is not a new enter")

	hover(0, 0)
	hover(200, 150)
	assert.Equal(t, 2, f.arrivals)
}

func TestKeyName(t *testing.T) {
	tests := map[string]string{
		"Digit1":         "1",
		"Numpad7":        "7",
		"A":              "a",
		"Space":          "space",
		"Equal":          "+",
		"NumpadAdd":      "+",
		"Minus":          "-",
		"NumpadSubtract": "-",
		"NumpadEnter":    "numpadenter",
	}
	for in, want := range tests {
		assert.Equal(t, want, KeyName(in), in)
	}
}

func TestViewportRect(t *testing.T) {
	window := geom.Size{W: 800, H: 600}

	sf := &config.ShowFile{Viewport: config.ViewportSpec{Width: "50%", Height: "300px"}}
	r, err := ViewportRect(sf, window)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 200, Y: 150, W: 400, H: 300}, r)

	sf.Viewport.Width = "2000px"
	r, err = ViewportRect(sf, window)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 0, Y: 150, W: 800, H: 300}, r)

	r, err = ViewportRect(&config.ShowFile{}, window)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{W: 800, H: 600}, r)

	sf.Viewport.Height = "tall"
	_, err = ViewportRect(sf, window)
	assert.Error(t, err)
}
