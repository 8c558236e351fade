// Package scoot is the movement and travel engine of a pannable, zoomable
// plate: the session object, the config normaliser, the geometry
// calculator, the gesture interpreter and the three-phase travel state
// machine.
//
// A Show never touches pixels itself. It reads and writes a scene.Scene and
// schedules all of its waiting on a loop.Loop, so everything runs on one
// goroutine.
package scoot

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ivlev/scooter/internal/loop"
	"github.com/ivlev/scooter/internal/scene"
)

// Defaults for Options.
const (
	DefaultInitialScale = 1.0
	DefaultMinZoom      = 1.0
	DefaultMaxZoom      = 4.0
	DefaultScaleTimeout = 5 * time.Second

	resizeDuration = 400 * time.Millisecond
)

// Options configures a show.
type Options struct {
	InitialScale float64
	MinZoom      float64
	MaxZoom      float64
	// Pan enables drag gestures. Nil means enabled.
	Pan *bool
	// StartAt is travelled to on creation unless it is Origin.
	StartAt Target
	// Targets maps a trigger name (usually a plate selector) to what it does.
	Targets map[string]TriggerSpec
	// Keys maps a key name to a trigger name.
	Keys      map[string]string
	Animation Animation
	// ScaleTimeout bounds how long a scale phase may poll before the travel
	// is abandoned with ErrScaleTimeout.
	ScaleTimeout time.Duration
	Logger       *log.Logger
}

func (o Options) withDefaults() Options {
	if !validScale(o.InitialScale) {
		o.InitialScale = DefaultInitialScale
	}
	if !validScale(o.MinZoom) {
		o.MinZoom = DefaultMinZoom
	}
	if !validScale(o.MaxZoom) {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.Pan == nil {
		pan := true
		o.Pan = &pan
	}
	if o.StartAt == nil {
		o.StartAt = Origin
	}
	if o.ScaleTimeout <= 0 {
		o.ScaleTimeout = DefaultScaleTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

var lastID atomic.Uint64

// Show is one widget instance: its options, its motion state and the scene
// it drives.
type Show struct {
	id    uint64
	opts  Options
	scene scene.Scene
	loop  *loop.Loop
	log   *log.Logger
	state MotionState
	trip  uint64 // bumped whenever a travel replaces the current one

	triggers map[string]TriggerSpec
	bindings map[string]string
}

// New builds a show over sc. It fails with ErrNoPlate when the scene has no
// plate; the failure is logged as well as returned. A nil loop runs on the
// system clock.
func New(opts Options, sc scene.Scene, lp *loop.Loop) (*Show, error) {
	opts = opts.withDefaults()

	if sc == nil || !sc.HasPlate() {
		err := &ConfigError{Err: ErrNoPlate}
		opts.Logger.Printf("[!] Scooter - %v", err)
		return nil, err
	}

	if lp == nil {
		lp = loop.New(loop.SystemClock{})
	}

	s := &Show{
		id:       lastID.Add(1),
		opts:     opts,
		scene:    sc,
		loop:     lp,
		log:      opts.Logger,
		triggers: make(map[string]TriggerSpec),
		bindings: make(map[string]string),
		state: MotionState{
			Phase:         PhaseIdle,
			CurrentTarget: Center,
			Scale:         opts.InitialScale,
		},
	}
	sc.SetScale(opts.InitialScale, 0)

	s.attachTargets()

	if s.opts.StartAt != Origin {
		s.ScootTo(TargetConfig{
			Target:   s.opts.StartAt,
			Scale:    1,
			Duration: Dur(0),
		})
	}

	return s, nil
}

// attachTargets validates the configured triggers and binds the ones whose
// selector exists on the plate to their event.
func (s *Show) attachTargets() {
	names := make([]string, 0, len(s.opts.Targets))
	for name := range s.opts.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := s.opts.Targets[name]
		event := EventClick

		switch sp := spec.(type) {
		case Simple:
			if sp.Target == nil {
				s.logf("[!] Scooter - %v", &ConfigError{Subject: fmt.Sprintf("trigger %q", name), Err: ErrMissingTarget})
				continue
			}
		case Detailed:
			if sp.Config.Target == nil {
				s.logf("[!] Scooter - %v", &ConfigError{Subject: fmt.Sprintf("trigger %q improperly configured", name), Err: ErrMissingTarget})
				continue
			}
			if sp.Event != "" {
				event = sp.Event
			}
		default:
			s.logf("[!] Scooter - %v", &ConfigError{Subject: fmt.Sprintf("trigger %q", name), Err: ErrMissingTarget})
			continue
		}

		s.triggers[name] = spec
		if _, ok := s.scene.Element(name); ok {
			s.bindings[name] = event
		}
	}
}

// ID is this show's identifier, unique within the process.
func (s *Show) ID() uint64 {
	return s.id
}

// State returns a copy of the motion state.
func (s *Show) State() MotionState {
	st := s.state
	if s.state.Queue != nil {
		q := *s.state.Queue
		q.Targets = append([]Target(nil), q.Targets...)
		q.Durations = append([]time.Duration(nil), q.Durations...)
		st.Queue = &q
	}
	return st
}

// Scale is the scale the show believes it is at.
func (s *Show) Scale() float64 {
	return s.state.Scale
}

// Options returns the normalised options.
func (s *Show) Options() Options {
	return s.opts
}

// Scene is the scene this show drives.
func (s *Show) Scene() scene.Scene {
	return s.scene
}

// Trigger dispatches the named trigger through the travel engine.
func (s *Show) Trigger(name string) error {
	return s.TriggerThen(name, nil)
}

// TriggerThen is Trigger with a completion hook. done runs after the
// trigger's own callback, with the same error.
func (s *Show) TriggerThen(name string, done func(error)) error {
	spec, ok := s.triggers[name]
	if !ok {
		return fmt.Errorf("trigger %q: %w", name, ErrUnknownTrigger)
	}

	var tc TargetConfig
	switch sp := spec.(type) {
	case Simple:
		tc = TargetConfig{Target: sp.Target}
	case Detailed:
		tc = sp.Config
	}
	tc.Target = resolveComputed(tc.Target)

	if done != nil {
		own := tc.Callback
		if own == nil {
			own = s.opts.Animation.Callback
		}
		tc.Callback = func(err error) {
			if own != nil {
				own(err)
			}
			done(err)
		}
	}
	s.ScootTo(tc)
	return nil
}

// Fire reports a DOM-style event on a plate element. It returns whether a
// trigger was bound to that selector and event.
func (s *Show) Fire(selector, event string) bool {
	bound, ok := s.bindings[selector]
	if !ok || bound != event {
		return false
	}
	if err := s.Trigger(selector); err != nil {
		s.logf("[!] show %d: %v", s.id, err)
		return false
	}
	return true
}

// Key dispatches the trigger bound to a key name, if any.
func (s *Show) Key(key string) bool {
	name, ok := s.opts.Keys[key]
	if !ok {
		return false
	}
	if err := s.Trigger(name); err != nil {
		s.logf("[!] show %d: key %q: %v", s.id, key, err)
		return false
	}
	return true
}

// Triggers lists the usable trigger names in sorted order.
func (s *Show) Triggers() []string {
	names := make([]string, 0, len(s.triggers))
	for name := range s.triggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resize re-centres the current target after the viewport changed size.
func (s *Show) Resize() {
	s.ScootTo(TargetConfig{
		Target:        s.state.CurrentTarget,
		Duration:      Dur(resizeDuration),
		Easing:        "linear",
		Scale:         s.state.Scale,
		TravelScale:   s.state.Scale,
		ScaleDuration: Dur(resizeDuration),
	})
}

func (s *Show) logf(format string, args ...any) {
	if s.log.Writer() == io.Discard {
		return
	}
	s.log.Printf(format, args...)
}

// IsConfigError reports whether err is a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
