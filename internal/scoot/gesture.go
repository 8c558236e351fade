package scoot

import (
	"time"

	"github.com/ivlev/scooter/internal/geom"
)

const (
	zoomQuantum    = 5.0 / 10
	zoomTransition = 300 * time.Millisecond
	zoomLockPeriod = 200 * time.Millisecond
)

// PanStart anchors a drag at p, in page coordinates. It is ignored when
// panning is disabled or a pinch is in progress.
func (s *Show) PanStart(p geom.Point) {
	if !*s.opts.Pan || s.state.Pinching {
		return
	}
	s.state.DragStart = p
	s.state.Panning = true
}

// PanMove drags the plate by the distance from the anchor to p. Any
// in-flight translate stops first. An axis whose move would expose empty
// space past the plate's edge is dropped and keeps its anchor. PanMove
// reports whether the plate moved.
func (s *Show) PanMove(p geom.Point) bool {
	if !s.state.Panning || s.state.Pinching {
		return false
	}
	s.stopTravel()

	delta := p.Sub(s.state.DragStart)
	cur := s.scene.PlateOffset()
	next := cur

	vp := s.scene.Viewport()
	vr := s.ViewportRadius()
	size := s.scene.PlateSize()
	scale := s.state.Scale

	moved := false

	// the plate's left edge must stay between the viewport centre and the
	// point where its right edge would pass the centre
	x := cur.X + delta.X
	right := vr.W + vp.X
	if x <= right && x >= right-size.W*scale {
		next.X = x
		s.state.DragStart.X = p.X
		moved = true
	}

	y := cur.Y + delta.Y
	bottom := vr.H + vp.Y
	if y < bottom && y >= bottom-size.H*scale {
		next.Y = y
		s.state.DragStart.Y = p.Y
		moved = true
	}

	if !moved {
		return false
	}
	s.scene.SetPlateOffset(next)
	return true
}

// PanEnd releases the drag.
func (s *Show) PanEnd() {
	s.state.Panning = false
}

// PinchStart begins a two-point gesture and suspends panning until it ends.
func (s *Show) PinchStart(a, b geom.Point) {
	s.state.DragStart = a
	s.state.PinchStart = b
	s.state.Pinching = true
	s.state.Panning = false
}

// PinchMove compares the current finger spread with the previous one and
// zooms in if it grew, out if it shrank.
func (s *Show) PinchMove(a, b geom.Point) bool {
	if !s.state.Pinching {
		return false
	}
	before := geom.Distance(s.state.DragStart, s.state.PinchStart)
	after := geom.Distance(a, b)

	dir := ZoomIn
	if before > after {
		dir = ZoomOut
	}

	s.state.DragStart = a
	s.state.PinchStart = b
	return s.Zoom(dir)
}

// PinchEnd finishes the two-point gesture.
func (s *Show) PinchEnd() {
	s.state.Pinching = false
}

// Wheel turns a wheel delta into a zoom impulse: positive zooms in,
// negative zooms out. A zero delta, or a show whose zoom range is a single
// value, does nothing.
func (s *Show) Wheel(delta float64) bool {
	if s.opts.MinZoom == s.opts.MaxZoom || delta == 0 {
		return false
	}
	if delta > 0 {
		return s.Zoom(ZoomIn)
	}
	return s.Zoom(ZoomOut)
}

// Zoom applies one zoom step in dir. Repeats in the same direction are
// locked out for a short period after each accepted step; a reversal goes
// through at once. A step that would leave [MinZoom, MaxZoom] is rejected
// and leaves the lock alone. Zoom reports whether the scale changed.
func (s *Show) Zoom(dir ZoomDirection) bool {
	s.stopTravel()

	if s.state.ZoomLocked && s.state.ZoomDir == dir {
		return false
	}

	scale := s.state.Scale + float64(dir)*zoomQuantum
	if scale < s.opts.MinZoom || scale > s.opts.MaxZoom {
		return false
	}

	s.state.ZoomLocked = true
	s.state.ZoomDir = dir
	s.scene.SetScale(scale, zoomTransition)
	s.state.Scale = scale

	s.loop.After(zoomLockPeriod, func() {
		s.state.ZoomLocked = false
	})
	return true
}
