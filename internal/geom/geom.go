// Package geom holds the small value types and pure math shared by the
// scene, the travel engine and the renderers.
package geom

import (
	"fmt"
	"math"
	"time"
)

// Point is a 2-D position or offset in pixels.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Size is a width/height pair in pixels.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Empty reports whether either side is zero or negative.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned box: top-left corner plus size.
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Contains reports whether p lies inside r (right and bottom edges excluded).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Radius returns half of each side, floored to whole pixels.
func Radius(s Size) Size {
	return Size{W: math.Floor(s.W / 2), H: math.Floor(s.H / 2)}
}

// Distance is the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

// AllocateDurations splits total across the legs of the path through points,
// proportionally to each leg's length. Every share is truncated to whole
// milliseconds, so the sum may fall short of total by under 1ms per leg.
// A path of zero length is split equally.
func AllocateDurations(points []Point, total time.Duration) []time.Duration {
	if len(points) < 2 {
		return nil
	}

	legs := make([]float64, len(points)-1)
	sum := 0.0
	for i := range legs {
		legs[i] = Distance(points[i], points[i+1])
		sum += legs[i]
	}

	ms := float64(total.Milliseconds())
	durations := make([]time.Duration, len(legs))
	for i, l := range legs {
		var share float64
		if sum == 0 {
			share = ms / float64(len(legs))
		} else {
			share = l * ms / sum
		}
		durations[i] = time.Duration(math.Floor(share)) * time.Millisecond
	}
	return durations
}
