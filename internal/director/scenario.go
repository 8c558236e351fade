package director

import (
	"fmt"
	"time"

	"github.com/ivlev/scooter/internal/config"
)

// HomeTrigger is the trigger that returns to the plate's overview.
const HomeTrigger = "home"

// buildTour visits every region in order, then sweeps back through them
// to the plate's centre.
func buildTour(stops []named, dwell, travel time.Duration) []config.StopSpec {
	dwellMS := int(dwell / time.Millisecond)
	tour := make([]config.StopSpec, 0, len(stops)+1)

	for i, s := range stops {
		tour = append(tour, config.StopSpec{
			Trigger: s.selector,
			Dwell:   dwellMS,
			Caption: fmt.Sprintf("%d/%d %s", i+1, len(stops), s.region.Kind),
		})
	}

	closing := config.StopSpec{
		TravelSpec: config.TravelSpec{
			Target: config.Named("center"),
			Scale:  1,
		},
		Dwell:   dwellMS,
		Caption: "overview",
	}
	// the last region is where the tour already stands
	for i := len(stops) - 2; i >= 0; i-- {
		closing.Waypoints = append(closing.Waypoints, config.TargetSpec{Name: stops[i].selector})
	}
	if n := len(closing.Waypoints); n > 0 {
		ms := int(travel/time.Millisecond) * (n + 1)
		closing.Duration = &ms
	}

	return append(tour, closing)
}
