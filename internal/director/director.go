package director

import (
	"fmt"
	"image"
	"math"
	"sort"
	"time"

	"github.com/ivlev/scooter/internal/analyzer"
	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/geom"
)

// Director turns detected regions into a show: one trigger per region,
// number keys for the first nine, and a guided tour through all of them.
type Director struct {
	Viewport geom.Size
	MinDwell time.Duration // Minimum time per region
	MaxDwell time.Duration // Maximum time per region
	MaxZoom  float64
	Travel   time.Duration // Default travel time between stops
	Easing   string
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportWidth, viewportHeight int) *Director {
	return &Director{
		Viewport: geom.Size{W: float64(viewportWidth), H: float64(viewportHeight)},
		MinDwell: time.Second,
		MaxDwell: 3 * time.Second,
		MaxZoom:  3,
		Travel:   800 * time.Millisecond,
		Easing:   "easeInOutCubic",
	}
}

// named is a region with its selector and zoom worked out.
type named struct {
	selector string
	region   analyzer.Region
	zoom     float64
}

// GenerateShow creates a show for a plate from its detected regions.
func (d *Director) GenerateShow(regions []analyzer.Region, plate geom.Size, input string, totalDuration time.Duration) (*config.ShowFile, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions detected")
	}
	if plate.Empty() {
		return nil, fmt.Errorf("empty plate %vx%v", plate.W, plate.H)
	}

	sorted := d.sortRegions(regions)
	dwell := d.calculateDwellTime(totalDuration, len(sorted))

	stops := make([]named, len(sorted))
	for i, r := range sorted {
		stops[i] = named{
			selector: fmt.Sprintf("#region-%d", i+1),
			region:   r,
			zoom:     d.calculateZoom(r.Rect),
		}
	}

	travel := int(d.Travel / time.Millisecond)
	pan := true
	show := &config.ShowFile{
		Version:  config.ShowVersion,
		Plate:    config.PlateSpec{Input: input},
		Viewport: config.ViewportSpec{Width: "100%", Height: "100%"},
		MinZoom:  1,
		MaxZoom:  d.MaxZoom,
		Pan:      &pan,
		Animation: config.AnimationSpec{
			Duration: &travel,
			Easing:   d.Easing,
		},
		Targets: make(map[string]config.TriggerEntry, len(stops)+1),
		Keys:    make(map[string]string),
	}

	for i, s := range stops {
		show.Regions = append(show.Regions, config.RegionSpec{
			Selector: s.selector,
			Rect: geom.Rect{
				X: float64(s.region.Rect.Min.X),
				Y: float64(s.region.Rect.Min.Y),
				W: float64(s.region.Rect.Dx()),
				H: float64(s.region.Rect.Dy()),
			},
			Kind: s.region.Kind,
		})
		show.Targets[s.selector] = config.TriggerEntry{Detailed: &config.TravelSpec{
			Target:      config.Named(s.selector),
			Scale:       s.zoom,
			TravelScale: 1,
		}}
		if i < 9 {
			show.Keys[fmt.Sprint(i+1)] = s.selector
		}
	}

	show.Targets[HomeTrigger] = config.TriggerEntry{Detailed: &config.TravelSpec{
		Target: config.Named("center"),
		Scale:  1,
	}}
	show.Keys["0"] = HomeTrigger

	show.Tour = buildTour(stops, dwell, d.Travel)
	return show, nil
}

// sortRegions sorts regions in reading order (Western: top-to-bottom, left-to-right)
func (d *Director) sortRegions(regions []analyzer.Region) []analyzer.Region {
	sorted := make([]analyzer.Region, len(regions))
	copy(sorted, regions)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Threshold for "same row" (20 pixels)
		threshold := 20

		yDiff := sorted[i].Rect.Min.Y - sorted[j].Rect.Min.Y
		if abs(yDiff) > threshold {
			return sorted[i].Rect.Min.Y < sorted[j].Rect.Min.Y
		}

		// Same row, sort by X
		return sorted[i].Rect.Min.X < sorted[j].Rect.Min.X
	})

	return sorted
}

// calculateDwellTime determines how long to hold each region
func (d *Director) calculateDwellTime(totalDuration time.Duration, regionCount int) time.Duration {
	// Reserve time for the opening and the closing overview
	introOutro := 2 * time.Second
	available := totalDuration - introOutro

	if available <= 0 {
		available = totalDuration
	}

	dwell := available / time.Duration(regionCount)

	if dwell < d.MinDwell {
		dwell = d.MinDwell
	}
	if dwell > d.MaxDwell {
		dwell = d.MaxDwell
	}

	return dwell
}

// calculateZoom determines the scale that fits a region in the viewport
func (d *Director) calculateZoom(rect image.Rectangle) float64 {
	padding := 0.9 // Use 90% of viewport

	viewportW := d.Viewport.W * padding
	viewportH := d.Viewport.H * padding

	w := float64(rect.Dx())
	h := float64(rect.Dy())

	if w == 0 || h == 0 {
		return 1.0
	}

	// Use the smaller scale to ensure the region fits
	zoom := math.Min(viewportW/w, viewportH/h)

	maxZoom := d.MaxZoom
	if maxZoom < 1 {
		maxZoom = 1
	}
	zoom = math.Max(1, math.Min(zoom, maxZoom))

	// Quarter steps read better in a hand-edited file
	return math.Floor(zoom*4) / 4
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
