package config

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/renderer"
	"github.com/ivlev/scooter/internal/scene"
	"github.com/ivlev/scooter/internal/scoot"
)

const ShowVersion = "1.0"

// ShowFile is a show description on disk. Durations are whole milliseconds.
type ShowFile struct {
	Version      string                  `yaml:"version"`
	Plate        PlateSpec               `yaml:"plate"`
	Link         string                  `yaml:"link,omitempty"` // stamped on recordings as a QR badge
	Viewport     ViewportSpec            `yaml:"viewport"`
	InitialScale float64                 `yaml:"initialScale,omitempty"`
	MinZoom      float64                 `yaml:"minZoom,omitempty"`
	MaxZoom      float64                 `yaml:"maxZoom,omitempty"`
	Pan          *bool                   `yaml:"pan,omitempty"`
	StartAt      *TargetSpec             `yaml:"startAt,omitempty"`
	ScaleTimeout int                     `yaml:"scaleTimeout,omitempty"`
	Animation    AnimationSpec           `yaml:"animation,omitempty"`
	Regions      []RegionSpec            `yaml:"regions"`
	Targets      map[string]TriggerEntry `yaml:"targets,omitempty"`
	Keys         map[string]string       `yaml:"keys,omitempty"`
	Tour         []StopSpec              `yaml:"tour,omitempty"`
}

// PlateSpec says where the plate image comes from.
type PlateSpec struct {
	Input string `yaml:"input"`
	Page  int    `yaml:"page,omitempty"`
	DPI   int    `yaml:"dpi,omitempty"`
}

// ViewportSpec sizes the viewport with CSS-like lengths ("100%", "640px").
type ViewportSpec struct {
	Width      string   `yaml:"width,omitempty"`
	Height     string   `yaml:"height,omitempty"`
	Background []string `yaml:"background,omitempty"`
}

type AnimationSpec struct {
	Duration      *int    `yaml:"duration,omitempty"`
	Easing        string  `yaml:"easing,omitempty"`
	Scale         float64 `yaml:"scale,omitempty"`
	TravelScale   float64 `yaml:"travelScale,omitempty"`
	ScaleDuration *int    `yaml:"scaleDuration,omitempty"`
}

// RegionSpec is a named rectangle on the plate, in plate pixels.
type RegionSpec struct {
	Selector string    `yaml:"selector"`
	Rect     geom.Rect `yaml:"rect"`
	Kind     string    `yaml:"kind,omitempty"`
}

// TargetSpec is a target as written in a show file: a name ("center",
// "origin", a selector) or an [x, y] pair.
type TargetSpec struct {
	Name  string
	Point *geom.Point
}

func (t *TargetSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t.Name, t.Point = node.Value, nil
		return nil
	case yaml.SequenceNode:
		var xy []float64
		if err := node.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: coordinates need exactly 2 numbers, got %d", node.Line, len(xy))
		}
		t.Name, t.Point = "", &geom.Point{X: xy[0], Y: xy[1]}
		return nil
	}
	return fmt.Errorf("line %d: target must be a name or [x, y]", node.Line)
}

func (t TargetSpec) MarshalYAML() (interface{}, error) {
	if t.Point != nil {
		return &yaml.Node{
			Kind:  yaml.SequenceNode,
			Style: yaml.FlowStyle,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: fmt.Sprint(t.Point.X)},
				{Kind: yaml.ScalarNode, Value: fmt.Sprint(t.Point.Y)},
			},
		}, nil
	}
	return t.Name, nil
}

// Target converts to the engine's target type.
func (t TargetSpec) Target() scoot.Target {
	if t.Point != nil {
		return scoot.Coordinates(*t.Point)
	}
	return scoot.ParseTarget(t.Name)
}

// Named returns a TargetSpec for a name or selector.
func Named(name string) *TargetSpec {
	return &TargetSpec{Name: name}
}

// At returns a TargetSpec for explicit coordinates.
func At(x, y float64) *TargetSpec {
	return &TargetSpec{Point: &geom.Point{X: x, Y: y}}
}

// TravelSpec is a full travel request.
type TravelSpec struct {
	Event         string       `yaml:"event,omitempty"`
	Target        *TargetSpec  `yaml:"target,omitempty"`
	Duration      *int         `yaml:"duration,omitempty"`
	Easing        string       `yaml:"easing,omitempty"`
	Scale         float64      `yaml:"scale,omitempty"`
	TravelScale   float64      `yaml:"travelScale,omitempty"`
	ScaleDuration *int         `yaml:"scaleDuration,omitempty"`
	Waypoints     []TargetSpec `yaml:"waypoints,omitempty"`
}

// TargetConfig converts to an engine request. A missing target stays nil;
// the engine reports it.
func (t TravelSpec) TargetConfig() scoot.TargetConfig {
	tc := scoot.TargetConfig{
		Duration:      millis(t.Duration),
		Easing:        t.Easing,
		Scale:         t.Scale,
		TravelScale:   t.TravelScale,
		ScaleDuration: millis(t.ScaleDuration),
	}
	if t.Target != nil {
		tc.Target = t.Target.Target()
	}
	for _, wp := range t.Waypoints {
		tc.Waypoints = append(tc.Waypoints, wp.Target())
	}
	return tc
}

// TriggerEntry is either a bare target or a detailed mapping.
type TriggerEntry struct {
	Simple   TargetSpec
	Detailed *TravelSpec
}

func (e *TriggerEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var ts TravelSpec
		if err := node.Decode(&ts); err != nil {
			return err
		}
		e.Detailed = &ts
		return nil
	}
	e.Detailed = nil
	return node.Decode(&e.Simple)
}

func (e TriggerEntry) MarshalYAML() (interface{}, error) {
	if e.Detailed != nil {
		return e.Detailed, nil
	}
	return e.Simple, nil
}

// Spec converts to the engine's trigger type.
func (e TriggerEntry) Spec() scoot.TriggerSpec {
	if e.Detailed != nil {
		return scoot.Detailed{Event: e.Detailed.Event, Config: e.Detailed.TargetConfig()}
	}
	return scoot.Simple{Target: e.Simple.Target()}
}

// StopSpec is one step of a tour: fire a trigger, or travel somewhere
// directly, then dwell.
type StopSpec struct {
	Trigger    string `yaml:"trigger,omitempty"`
	TravelSpec `yaml:",inline"`
	Dwell      int    `yaml:"dwell,omitempty"`
	Caption    string `yaml:"caption,omitempty"`
}

// DwellDuration is how long the stop is held after arriving.
func (s StopSpec) DwellDuration() time.Duration {
	return time.Duration(max(0, s.Dwell)) * time.Millisecond
}

func millis(ms *int) *time.Duration {
	if ms == nil {
		return nil
	}
	return scoot.Dur(time.Duration(*ms) * time.Millisecond)
}

// ParseShow decodes and validates a show file.
func ParseShow(data []byte) (*ShowFile, error) {
	var sf ShowFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("decode show: %w", err)
	}
	if sf.Version == "" {
		sf.Version = ShowVersion
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// Marshal encodes the show file as YAML.
func (s *ShowFile) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Validate reports every structural problem at once.
func (s *ShowFile) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(s.Regions))
	for i, r := range s.Regions {
		if r.Selector == "" {
			errs = append(errs, fmt.Errorf("region %d: empty selector", i))
			continue
		}
		if seen[r.Selector] {
			errs = append(errs, fmt.Errorf("region %q declared twice", r.Selector))
		}
		seen[r.Selector] = true
		if r.Rect.W <= 0 || r.Rect.H <= 0 {
			errs = append(errs, fmt.Errorf("region %q: empty rect", r.Selector))
		}
	}

	if s.MinZoom > 0 && s.MaxZoom > 0 && s.MinZoom > s.MaxZoom {
		errs = append(errs, fmt.Errorf("minZoom %g above maxZoom %g", s.MinZoom, s.MaxZoom))
	}

	for key, name := range s.Keys {
		if _, ok := s.Targets[name]; !ok {
			errs = append(errs, fmt.Errorf("key %q bound to unknown trigger %q", key, name))
		}
	}

	for i, stop := range s.Tour {
		switch {
		case stop.Trigger != "" && stop.Target != nil:
			errs = append(errs, fmt.Errorf("tour stop %d: both trigger and target", i))
		case stop.Trigger == "" && stop.Target == nil:
			errs = append(errs, fmt.Errorf("tour stop %d: needs a trigger or a target", i))
		case stop.Trigger != "":
			if _, ok := s.Targets[stop.Trigger]; !ok {
				errs = append(errs, fmt.Errorf("tour stop %d: unknown trigger %q", i, stop.Trigger))
			}
		}
	}

	if len(s.Viewport.Background) != 0 && len(s.Viewport.Background) != 2 {
		errs = append(errs, fmt.Errorf("viewport background needs two colours, got %d", len(s.Viewport.Background)))
	}

	return errors.Join(errs...)
}

// Options builds engine options. Unset values are left for the engine's
// defaults.
func (s *ShowFile) Options(logger *log.Logger) scoot.Options {
	opts := scoot.Options{
		InitialScale: s.InitialScale,
		MinZoom:      s.MinZoom,
		MaxZoom:      s.MaxZoom,
		Pan:          s.Pan,
		Keys:         s.Keys,
		ScaleTimeout: time.Duration(s.ScaleTimeout) * time.Millisecond,
		Logger:       logger,
		Animation: scoot.Animation{
			Duration:      millis(s.Animation.Duration),
			Easing:        s.Animation.Easing,
			Scale:         s.Animation.Scale,
			TravelScale:   s.Animation.TravelScale,
			ScaleDuration: millis(s.Animation.ScaleDuration),
		},
	}
	if s.StartAt != nil {
		opts.StartAt = s.StartAt.Target()
	}
	if len(s.Targets) > 0 {
		opts.Targets = make(map[string]scoot.TriggerSpec, len(s.Targets))
		for name, entry := range s.Targets {
			opts.Targets[name] = entry.Spec()
		}
	}
	return opts
}

// StageRegions converts the regions for a scene.Stage, in file order.
func (s *ShowFile) StageRegions() []scene.Region {
	out := make([]scene.Region, 0, len(s.Regions))
	for _, r := range s.Regions {
		out = append(out, scene.Region{Selector: r.Selector, Rect: r.Rect})
	}
	return out
}

// ViewportSize resolves the viewport lengths against the container size.
func (s *ShowFile) ViewportSize(container geom.Size) (geom.Size, error) {
	w, err := ParseLength(s.Viewport.Width, container.W)
	if err != nil {
		return geom.Size{}, fmt.Errorf("viewport width: %w", err)
	}
	h, err := ParseLength(s.Viewport.Height, container.H)
	if err != nil {
		return geom.Size{}, fmt.Errorf("viewport height: %w", err)
	}
	return geom.Size{W: w, H: h}, nil
}

// Background returns the two gradient stops, defaulting to the blue
// gradient.
func (s *ShowFile) Background() (top, bottom color.RGBA, err error) {
	if len(s.Viewport.Background) != 2 {
		return renderer.DefaultGradientTop, renderer.DefaultGradientBottom, nil
	}
	if top, err = renderer.ParseHexColor(s.Viewport.Background[0]); err != nil {
		return
	}
	bottom, err = renderer.ParseHexColor(s.Viewport.Background[1])
	return
}

// TriggerNames lists trigger names in sorted order.
func (s *ShowFile) TriggerNames() []string {
	names := make([]string, 0, len(s.Targets))
	for name := range s.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
