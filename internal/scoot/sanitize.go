package scoot

import (
	"math"
	"time"
)

// Hardcoded animation defaults, used when neither the request nor the
// show's Animation supplies a value.
const (
	DefaultDuration      = 800 * time.Millisecond
	DefaultEasing        = "linear"
	DefaultScale         = 1.0
	DefaultScaleDuration = 400 * time.Millisecond
)

// Animation holds show-wide defaults for travel requests. Unset fields
// fall through to the hardcoded defaults.
type Animation struct {
	Duration      *time.Duration
	Easing        string
	Scale         float64
	TravelScale   float64
	ScaleDuration *time.Duration
	Callback      func(error)
}

func validDuration(d *time.Duration) bool {
	return d != nil && *d >= 0
}

func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0)
}

// Sanitize fills every unset or invalid field of tc, first from defaults
// and then from the hardcoded values. travelScale falls back to
// currentScale. The result is a fresh copy; running it through Sanitize
// again returns it unchanged.
func Sanitize(tc TargetConfig, defaults Animation, currentScale float64) TargetConfig {
	out := tc
	if len(tc.Waypoints) > 0 {
		out.Waypoints = append([]Target(nil), tc.Waypoints...)
	}

	switch {
	case validDuration(tc.Duration):
		out.Duration = Dur(*tc.Duration)
	case validDuration(defaults.Duration):
		out.Duration = Dur(*defaults.Duration)
	default:
		out.Duration = Dur(DefaultDuration)
	}

	switch {
	case tc.Easing != "":
	case defaults.Easing != "":
		out.Easing = defaults.Easing
	default:
		out.Easing = DefaultEasing
	}

	switch {
	case validScale(tc.Scale):
	case validScale(defaults.Scale):
		out.Scale = defaults.Scale
	default:
		out.Scale = DefaultScale
	}

	switch {
	case validScale(tc.TravelScale):
	case validScale(defaults.TravelScale):
		out.TravelScale = defaults.TravelScale
	default:
		out.TravelScale = currentScale
	}

	switch {
	case validDuration(tc.ScaleDuration):
		out.ScaleDuration = Dur(*tc.ScaleDuration)
	case validDuration(defaults.ScaleDuration):
		out.ScaleDuration = Dur(*defaults.ScaleDuration)
	default:
		out.ScaleDuration = Dur(DefaultScaleDuration)
	}

	switch {
	case tc.Callback != nil:
	case defaults.Callback != nil:
		out.Callback = defaults.Callback
	default:
		out.Callback = func(error) {}
	}

	return out
}

// Sanitize normalises tc against this show's defaults and current scale.
func (s *Show) Sanitize(tc TargetConfig) TargetConfig {
	return Sanitize(tc, s.opts.Animation, s.state.Scale)
}
