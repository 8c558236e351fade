package renderer

import (
	"math"
	"strings"
)

// EasingFunc maps linear progress in [0,1] to eased progress.
type EasingFunc func(t float64) float64

var easings = map[string]EasingFunc{
	"linear":         linear,
	"swing":          swing,
	"easeinoutcubic": easeInOutCubic,
	"easeinoutquad":  easeInOutQuad,
	"easeoutquad":    easeOutQuad,
	"smoothstep":     smoothstep,
}

// Easing looks up a named easing curve. Names are case-insensitive and
// ignore dashes, so "ease-in-out-cubic" and "easeInOutCubic" match.
func Easing(name string) (EasingFunc, bool) {
	key := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	fn, ok := easings[key]
	return fn, ok
}

// EasingOrLinear is Easing with a linear fallback.
func EasingOrLinear(name string) EasingFunc {
	if fn, ok := Easing(name); ok {
		return fn
	}
	return linear
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Progress is elapsed/total clamped to [0,1]; a zero total is already done.
func Progress(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, elapsed/total))
}

func linear(t float64) float64 {
	return t
}

// swing is jQuery's default curve.
func swing(t float64) float64 {
	return 0.5 - math.Cos(t*math.Pi)/2
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
