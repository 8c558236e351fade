package scoot

import (
	"errors"
	"fmt"
)

// Sentinels, matched with errors.Is through the typed wrappers below.
var (
	ErrNoPlate         = errors.New("no plate specified")
	ErrMissingTarget   = errors.New("trigger has no target")
	ErrUnknownTrigger  = errors.New("unknown trigger")
	ErrUnknownSelector = errors.New("selector not found on plate")
	ErrUnknownPoint    = errors.New("unknown named point")
	ErrZeroTravelScale = errors.New("travel scale must be a finite non-zero number")
	ErrScaleTimeout    = errors.New("scale transition did not settle")
)

// ConfigError reports a show or trigger that was configured wrongly. The
// offending piece is skipped; the rest of the show keeps working.
type ConfigError struct {
	Subject string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("config error: %v", e.Err)
	}
	return fmt.Sprintf("config error: %s: %v", e.Subject, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// GeometryError reports math that has no defined answer, such as dividing
// by a zero travel scale.
type GeometryError struct {
	Op  string
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error in %s: %v", e.Op, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// LivenessError reports a phase that gave up waiting.
type LivenessError struct {
	Phase  Phase
	Target float64
	Seen   float64
	Err    error
}

func (e *LivenessError) Error() string {
	return fmt.Sprintf("%s: waiting for scale %.3f, still at %.3f: %v", e.Phase, e.Target, e.Seen, e.Err)
}

func (e *LivenessError) Unwrap() error { return e.Err }
