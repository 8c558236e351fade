package scoot

import (
	"fmt"
	"math"
	"time"

	"github.com/ivlev/scooter/internal/geom"
)

const maxComputedDepth = 8

// ViewportRadius is half the viewport's size, floored.
func (s *Show) ViewportRadius() geom.Size {
	return geom.Radius(s.scene.Viewport().Size())
}

// PlateRadius is half the plate's unscaled size, floored.
func (s *Show) PlateRadius() geom.Size {
	return geom.Radius(s.scene.PlateSize())
}

// CurrentPosition is the plate's rendered top-left relative to the viewport
// centre.
func (s *Show) CurrentPosition() geom.Point {
	vr := s.ViewportRadius()
	return s.scene.PlateOffset().Sub(s.scene.Viewport().Min()).Sub(geom.Pt(vr.W, vr.H))
}

// TargetCenter is the centre of the element matched by sel, measured from
// the plate's rendered top-left. The element's half extents are scaled by
// the show's current scale.
func (s *Show) TargetCenter(sel Selector) (geom.Point, error) {
	box, ok := s.scene.Element(string(sel))
	if !ok {
		return geom.Point{}, &ConfigError{Subject: fmt.Sprintf("selector %q", sel), Err: ErrUnknownSelector}
	}
	half := geom.Radius(box.Outer)
	rel := box.Offset.Sub(s.scene.PlateOffset())
	return geom.Pt(half.W*s.state.Scale+rel.X, half.H*s.state.Scale+rel.Y), nil
}

// CoordinateFix turns a target point into the plate offset that brings it to
// the viewport centre at tc's travel scale.
func (s *Show) CoordinateFix(coords geom.Point, tc TargetConfig) (geom.Point, error) {
	ts := tc.TravelScale
	if ts == 0 || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return geom.Point{}, &GeometryError{Op: "coordinate fix", Err: ErrZeroTravelScale}
	}
	vr := s.ViewportRadius()
	return geom.Pt(-coords.X/ts+vr.W, -coords.Y/ts+vr.H), nil
}

// Resolve turns any target into a point in TargetCenter's space. Center is
// the plate's radius at the current scale; Origin is the viewport radius.
func (s *Show) Resolve(t Target) (geom.Point, error) {
	return s.resolve(t, 0)
}

func (s *Show) resolve(t Target, depth int) (geom.Point, error) {
	switch v := t.(type) {
	case Coordinates:
		return geom.Point(v), nil
	case Selector:
		return s.TargetCenter(v)
	case NamedPoint:
		switch v {
		case Center:
			r := s.PlateRadius()
			return geom.Pt(r.W*s.state.Scale, r.H*s.state.Scale), nil
		case Origin:
			r := s.ViewportRadius()
			return geom.Pt(r.W, r.H), nil
		}
		return geom.Point{}, &ConfigError{Subject: fmt.Sprintf("target %q", string(v)), Err: ErrUnknownPoint}
	case Computed:
		if v == nil || depth >= maxComputedDepth {
			return geom.Point{}, &ConfigError{Subject: "computed target", Err: ErrMissingTarget}
		}
		return s.resolve(v(), depth+1)
	}
	return geom.Point{}, &ConfigError{Subject: "travel", Err: ErrMissingTarget}
}

// resolveComputed calls through Computed targets until it reaches a concrete
// one. It gives up with nil after a few levels.
func resolveComputed(t Target) Target {
	for i := 0; i < maxComputedDepth; i++ {
		c, ok := t.(Computed)
		if !ok {
			return t
		}
		if c == nil {
			return nil
		}
		t = c()
	}
	if _, ok := t.(Computed); ok {
		return nil
	}
	return t
}

// FindDurations splits tc's duration across the path from the current
// position through each waypoint to the target, in proportion to leg length.
func (s *Show) FindDurations(tc TargetConfig) ([]time.Duration, error) {
	points := make([]geom.Point, 0, len(tc.Waypoints)+2)
	points = append(points, s.CurrentPosition())

	for _, wp := range tc.Waypoints {
		p, err := s.resolve(wp, 0)
		if err != nil {
			return nil, fmt.Errorf("waypoint %v: %w", wp, err)
		}
		points = append(points, p)
	}

	p, err := s.resolve(tc.Target, 0)
	if err != nil {
		return nil, fmt.Errorf("target %v: %w", tc.Target, err)
	}
	points = append(points, p)

	total := DefaultDuration
	if tc.Duration != nil {
		total = *tc.Duration
	}
	return geom.AllocateDurations(points, total), nil
}
