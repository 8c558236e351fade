// Package scene describes the viewport / scaler / plate arrangement a show
// moves, and provides Stage, an in-memory implementation of it.
//
// Coordinates follow the page model: the viewport sits somewhere on the
// page, the scaler fills the viewport and scales about its centre, and the
// plate is positioned inside the scaler by an unscaled local offset.
package scene

import (
	"time"

	"github.com/ivlev/scooter/internal/geom"
)

// Scene is what the travel engine and the gesture interpreter read and
// write. Reads always reflect the current instant; implementations must not
// cache geometry across calls.
type Scene interface {
	// HasPlate reports whether a plate was supplied.
	HasPlate() bool

	// Viewport is the viewport box in page coordinates.
	Viewport() geom.Rect

	// PlateSize is the plate's unscaled layout size.
	PlateSize() geom.Size

	// PlateOffset is the rendered top-left of the plate in page coordinates.
	PlateOffset() geom.Point

	// SetPlateOffset places the plate so its rendered top-left lands on p.
	SetPlateOffset(p geom.Point)

	// RenderedPlateWidth is the plate's on-screen width, mid-transition
	// values included.
	RenderedPlateWidth() float64

	// Element resolves a selector on the plate.
	Element(selector string) (Box, bool)

	// SetScale starts a linear scale transition on the scaler.
	SetScale(scale float64, d time.Duration)

	// Animate moves the plate's local offset to pos, calling done once it
	// arrives. A stopped animation never calls done.
	Animate(pos geom.Point, d time.Duration, easing string, done func())

	// Stop halts any in-flight position animation where it stands.
	Stop()
}

// Box is a resolved element: its rendered page offset and unscaled size.
type Box struct {
	Offset geom.Point
	Outer  geom.Size
}

// View is a frozen copy of what a renderer needs to draw one frame.
type View struct {
	Viewport    geom.Rect
	PlateSize   geom.Size
	PlateOffset geom.Point
	Scale       float64
}
