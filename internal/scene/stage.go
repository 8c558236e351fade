package scene

import (
	"time"

	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/loop"
	"github.com/ivlev/scooter/internal/renderer"
)

// Region is a named area on the plate, in unscaled plate pixels.
type Region struct {
	Selector string
	Rect     geom.Rect
}

type scaleTransition struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

type moveAnimation struct {
	from, to geom.Point
	start    time.Time
	dur      time.Duration
	ease     renderer.EasingFunc
	timer    *loop.Timer
}

// Stage is an in-memory Scene. Transitions are evaluated lazily against the
// loop's clock; only animation completion needs a timer.
type Stage struct {
	loop     *loop.Loop
	viewport geom.Rect
	plate    geom.Size
	regions  []Region

	pos   geom.Point
	scale scaleTransition
	move  *moveAnimation
}

// NewStage arranges a plate of the given size inside viewport. A zero plate
// size means no plate was supplied.
func NewStage(lp *loop.Loop, viewport geom.Rect, plate geom.Size, regions ...Region) *Stage {
	return &Stage{
		loop:     lp,
		viewport: viewport,
		plate:    plate,
		regions:  regions,
		scale:    scaleTransition{from: 1, to: 1},
	}
}

func (s *Stage) HasPlate() bool {
	return !s.plate.Empty()
}

func (s *Stage) Viewport() geom.Rect {
	return s.viewport
}

// SetViewport resizes or moves the viewport. The plate keeps its local offset.
func (s *Stage) SetViewport(r geom.Rect) {
	s.viewport = r
}

func (s *Stage) PlateSize() geom.Size {
	return s.plate
}

// Regions returns the named regions in declaration order.
func (s *Stage) Regions() []Region {
	return s.regions
}

// Scale is the scaler's rendered scale right now.
func (s *Stage) Scale() float64 {
	tr := s.scale
	if tr.dur <= 0 {
		return tr.to
	}
	elapsed := s.loop.Now().Sub(tr.start)
	if elapsed >= tr.dur {
		return tr.to
	}
	p := renderer.Progress(float64(elapsed), float64(tr.dur))
	return renderer.Lerp(tr.from, tr.to, p)
}

// LocalOffset is the plate's unscaled offset inside the scaler right now.
func (s *Stage) LocalOffset() geom.Point {
	m := s.move
	if m == nil {
		return s.pos
	}
	p := renderer.Progress(float64(s.loop.Now().Sub(m.start)), float64(m.dur))
	e := m.ease(p)
	return geom.Pt(renderer.Lerp(m.from.X, m.to.X, e), renderer.Lerp(m.from.Y, m.to.Y, e))
}

// origin is the scaler's transform origin in page coordinates.
func (s *Stage) origin() geom.Point {
	return geom.Pt(s.viewport.X+s.viewport.W/2, s.viewport.Y+s.viewport.H/2)
}

func (s *Stage) toPage(local geom.Point, scale float64) geom.Point {
	o := s.origin()
	vp := s.viewport.Min()
	// scaler box starts at the viewport corner; scaling pulls it towards o
	return o.Add(vp.Add(local).Sub(o).Mul(scale))
}

func (s *Stage) PlateOffset() geom.Point {
	return s.toPage(s.LocalOffset(), s.Scale())
}

func (s *Stage) SetPlateOffset(p geom.Point) {
	scale := s.Scale()
	if scale == 0 {
		return
	}
	o := s.origin()
	s.pos = p.Sub(o).Mul(1 / scale).Add(o).Sub(s.viewport.Min())
}

func (s *Stage) RenderedPlateWidth() float64 {
	return s.plate.W * s.Scale()
}

func (s *Stage) Element(selector string) (Box, bool) {
	for _, r := range s.regions {
		if r.Selector == selector {
			local := s.LocalOffset().Add(r.Rect.Min())
			return Box{
				Offset: s.toPage(local, s.Scale()),
				Outer:  r.Rect.Size(),
			}, true
		}
	}
	return Box{}, false
}

// ElementAt returns the last-declared region under page point p.
func (s *Stage) ElementAt(p geom.Point) (string, bool) {
	scale := s.Scale()
	if scale == 0 {
		return "", false
	}
	origin := s.PlateOffset()
	local := p.Sub(origin).Mul(1 / scale)
	for i := len(s.regions) - 1; i >= 0; i-- {
		if s.regions[i].Rect.Contains(local) {
			return s.regions[i].Selector, true
		}
	}
	return "", false
}

func (s *Stage) SetScale(scale float64, d time.Duration) {
	s.scale = scaleTransition{
		from:  s.Scale(),
		to:    scale,
		start: s.loop.Now(),
		dur:   d,
	}
}

func (s *Stage) Animate(pos geom.Point, d time.Duration, easing string, done func()) {
	s.Stop()
	m := &moveAnimation{
		from:  s.pos,
		to:    pos,
		start: s.loop.Now(),
		dur:   d,
		ease:  renderer.EasingOrLinear(easing),
	}
	m.timer = s.loop.After(d, func() {
		if s.move != m {
			return
		}
		s.pos = m.to
		s.move = nil
		if done != nil {
			done()
		}
	})
	s.move = m
}

func (s *Stage) Stop() {
	if s.move == nil {
		return
	}
	s.pos = s.LocalOffset()
	s.move.timer.Stop()
	s.move = nil
}

// Animating reports whether a position animation is in flight.
func (s *Stage) Animating() bool {
	return s.move != nil
}

// Snapshot freezes the stage for a renderer.
func (s *Stage) Snapshot() View {
	return View{
		Viewport:    s.viewport,
		PlateSize:   s.plate,
		PlateOffset: s.PlateOffset(),
		Scale:       s.Scale(),
	}
}
