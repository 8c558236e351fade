package scoot

import (
	"time"

	"github.com/ivlev/scooter/internal/geom"
)

// Phase is where the travel engine currently is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScalingOut
	PhaseTranslating
	PhaseScalingIn
	PhaseWaypointDispatch
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScalingOut:
		return "scaling-out"
	case PhaseTranslating:
		return "translating"
	case PhaseScalingIn:
		return "scaling-in"
	case PhaseWaypointDispatch:
		return "waypoint-dispatch"
	}
	return "unknown"
}

// ZoomDirection is a single zoom impulse.
type ZoomDirection int

const (
	ZoomOut ZoomDirection = -1
	ZoomIn  ZoomDirection = 1
)

// MotionState is the mutable half of a show. Only the travel engine and
// the gesture interpreter write it.
type MotionState struct {
	Phase         Phase
	CurrentTarget Target
	Scale         float64

	DragStart  geom.Point
	PinchStart geom.Point
	Panning    bool
	Pinching   bool

	ZoomLocked bool
	ZoomDir    ZoomDirection

	Queue *WaypointQueue
}

// WaypointQueue holds the legs of a multi-point travel still to run.
// Durations has one more entry than Targets: the last one belongs to Final.
type WaypointQueue struct {
	Targets   []Target
	Durations []time.Duration
	Leg       TargetConfig
	Final     TargetConfig
}

// next pops the next leg. When only the final leg remains it returns Final
// and reports done.
func (q *WaypointQueue) next() (cfg TargetConfig, done bool) {
	if len(q.Targets) > 0 {
		cfg = q.Leg
		cfg.Target = q.Targets[0]
		cfg.Duration = Dur(q.Durations[0])
		q.Targets = q.Targets[1:]
		q.Durations = q.Durations[1:]
		return cfg, false
	}
	q.Durations = nil
	return q.Final, true
}
