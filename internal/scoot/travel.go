package scoot

import (
	"math"
	"time"
)

const scalePollInterval = 100 * time.Millisecond

// ScootTo travels to tc's target: scale to the travel scale, translate, then
// scale to the final scale, each phase strictly after the previous one. With
// waypoints the trip is split into legs that run one after another, and only
// the final leg reports to tc's callback. Failures are logged and passed to
// the callback; they never stop the show.
func (s *Show) ScootTo(tc TargetConfig) {
	s.scootTo(tc, false)
}

// scootTo runs one trip. Unless it is a leg taken from the waypoint queue,
// it replaces whatever travel is in progress: the old queue is dropped, a
// scale phase still being waited on is abandoned and the scaler returns to
// the last settled scale.
func (s *Show) scootTo(tc TargetConfig, fromQueue bool) {
	if !fromQueue {
		s.trip++
		s.state.Queue = nil
		if s.state.Phase == PhaseScalingOut || s.state.Phase == PhaseScalingIn {
			s.scene.SetScale(s.state.Scale, 0)
			s.state.Phase = PhaseIdle
		}
	}
	trip := s.trip

	tc = s.Sanitize(tc)
	tc.Target = resolveComputed(tc.Target)
	if tc.Target == nil {
		s.fail(tc, &ConfigError{Subject: "travel", Err: ErrMissingTarget})
		return
	}

	if len(tc.Waypoints) > 0 {
		s.startWaypoints(tc)
		return
	}

	s.state.CurrentTarget = tc.Target

	s.scaleTo(trip, PhaseScalingOut, tc.TravelScale, tc, func() {
		s.translate(trip, tc, func() {
			s.scaleTo(trip, PhaseScalingIn, tc.Scale, tc, func() {
				s.finish(tc)
			})
		})
	})
}

// scaleTo starts a scale transition and calls next once the rendered plate
// agrees with amount. It is a no-op when the show is already there.
func (s *Show) scaleTo(trip uint64, phase Phase, amount float64, tc TargetConfig, next func()) {
	if s.state.Scale == amount {
		next()
		return
	}

	s.state.Phase = phase
	d := *tc.ScaleDuration
	s.scene.SetScale(amount, d)

	s.loop.After(d, func() {
		deadline := s.loop.Now().Add(s.opts.ScaleTimeout)
		s.awaitScale(trip, phase, amount, deadline, tc, next)
	})
}

func (s *Show) awaitScale(trip uint64, phase Phase, amount float64, deadline time.Time, tc TargetConfig, next func()) {
	if trip != s.trip {
		return
	}

	seen := s.renderedScale()
	if scaleSettled(seen, amount) {
		s.state.Scale = amount
		next()
		return
	}

	if !s.loop.Now().Before(deadline) {
		s.fail(tc, &LivenessError{Phase: phase, Target: amount, Seen: seen, Err: ErrScaleTimeout})
		return
	}

	s.loop.After(scalePollInterval, func() {
		s.awaitScale(trip, phase, amount, deadline, tc, next)
	})
}

// renderedScale is the plate's on-screen width over its layout width.
func (s *Show) renderedScale() float64 {
	w := s.scene.PlateSize().W
	if w <= 0 {
		return 0
	}
	return s.scene.RenderedPlateWidth() / w
}

func scaleSettled(seen, want float64) bool {
	return math.Abs(seen-want) <= 1e-9*math.Max(1, math.Abs(want))
}

func (s *Show) translate(trip uint64, tc TargetConfig, next func()) {
	s.state.Phase = PhaseTranslating

	coords, err := s.resolve(tc.Target, 0)
	if err != nil {
		s.fail(tc, err)
		return
	}
	pos, err := s.CoordinateFix(coords, tc)
	if err != nil {
		s.fail(tc, err)
		return
	}

	s.scene.Stop()
	s.scene.Animate(pos, *tc.Duration, tc.Easing, func() {
		if trip == s.trip {
			next()
		}
	})
}

func (s *Show) finish(tc TargetConfig) {
	s.state.Phase = PhaseIdle
	tc.Callback(nil)
}

func (s *Show) fail(tc TargetConfig, err error) {
	s.logf("[!] show %d: travel to %v: %v", s.id, tc.Target, err)
	s.state.Phase = PhaseIdle
	if tc.Callback != nil {
		tc.Callback(err)
	}
}

// startWaypoints queues one leg per waypoint plus the deferred final leg and
// dispatches the first. Legs hold the travel scale; the final leg carries the
// caller's scale and callback.
func (s *Show) startWaypoints(tc TargetConfig) {
	durations, err := s.FindDurations(tc)
	if err != nil {
		s.fail(tc, err)
		return
	}

	final := tc
	final.Duration = Dur(durations[len(durations)-1])
	final.Waypoints = nil

	q := &WaypointQueue{
		Targets:   append([]Target(nil), tc.Waypoints...),
		Durations: durations,
		Final:     final,
	}

	leg := tc
	leg.Scale = tc.TravelScale
	leg.Waypoints = nil
	leg.Callback = func(err error) {
		// a newer waypoint trip replaced this one
		if s.state.Queue != q {
			return
		}
		if err != nil {
			s.state.Queue = nil
			final.Callback(err)
			return
		}
		s.dispenseWaypoint()
	}
	q.Leg = leg

	s.state.Queue = q
	s.dispenseWaypoint()
}

func (s *Show) dispenseWaypoint() {
	q := s.state.Queue
	if q == nil {
		return
	}
	s.state.Phase = PhaseWaypointDispatch

	cfg, done := q.next()
	if done {
		s.state.Queue = nil
	}
	s.scootTo(cfg, true)
}

// stopTravel halts an in-flight translate. A scale phase already waiting
// for the plate to settle keeps going.
func (s *Show) stopTravel() {
	s.scene.Stop()
	if s.state.Phase == PhaseTranslating {
		s.state.Phase = PhaseIdle
		s.state.Queue = nil
	}
}
