package scoot

import (
	"fmt"
	"time"

	"github.com/ivlev/scooter/internal/geom"
)

// Target is somewhere a show can travel to. It is one of NamedPoint,
// Coordinates, Selector or Computed.
type Target interface {
	isTarget()
	String() string
}

// NamedPoint is a symbolic location resolved against the scene.
type NamedPoint string

const (
	// Center is the plate's own geometric centre.
	Center NamedPoint = "center"
	// Origin is the viewport's geometric centre.
	Origin NamedPoint = "origin"
)

func (NamedPoint) isTarget()        {}
func (n NamedPoint) String() string { return string(n) }

// Coordinates is an explicit offset from the plate origin, in the same
// scaled pixel space TargetCenter produces.
type Coordinates geom.Point

func (Coordinates) isTarget() {}
func (c Coordinates) String() string {
	return geom.Point(c).String()
}

// Selector names an element on the plate.
type Selector string

func (Selector) isTarget()        {}
func (s Selector) String() string { return string(s) }

// Computed produces its target late, at the moment it is needed.
type Computed func() Target

func (Computed) isTarget()      {}
func (Computed) String() string { return "computed" }

// ParseTarget reads the string form used in show files: "center", "origin",
// or a selector.
func ParseTarget(s string) Target {
	switch NamedPoint(s) {
	case Center, Origin:
		return NamedPoint(s)
	}
	return Selector(s)
}

// TargetConfig is a request to move somewhere. Nil durations and zero
// scales mean "not supplied"; Sanitize fills them.
type TargetConfig struct {
	Target        Target
	Duration      *time.Duration
	Easing        string
	Scale         float64
	TravelScale   float64
	ScaleDuration *time.Duration
	Callback      func(error)
	Waypoints     []Target
}

// Dur returns a pointer to d, for the optional duration fields.
func Dur(d time.Duration) *time.Duration {
	return &d
}

func (tc TargetConfig) String() string {
	d, sd := "unset", "unset"
	if tc.Duration != nil {
		d = tc.Duration.String()
	}
	if tc.ScaleDuration != nil {
		sd = tc.ScaleDuration.String()
	}
	return fmt.Sprintf("target=%v duration=%s easing=%q scale=%g travel=%g scaleDuration=%s waypoints=%d",
		tc.Target, d, tc.Easing, tc.Scale, tc.TravelScale, sd, len(tc.Waypoints))
}

// TriggerSpec is what a named trigger dispatches: Simple or Detailed.
type TriggerSpec interface {
	isTriggerSpec()
}

// Simple travels to a target with the show's default animation.
type Simple struct {
	Target Target
}

// Detailed carries a full request and the event that fires it.
type Detailed struct {
	Event  string
	Config TargetConfig
}

func (Simple) isTriggerSpec()   {}
func (Detailed) isTriggerSpec() {}

// Trigger events a viewer can report.
const (
	EventClick = "click"
	EventEnter = "enter"
)
