package analyzer

import (
	"fmt"
	"image"
)

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	case "grid":
		return NewGridDetector(3, 3), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}

// GridDetector splits the plate into equal cells. It suits plates with no
// usable contrast, such as photographs.
type GridDetector struct {
	Cols, Rows int
}

func NewGridDetector(cols, rows int) *GridDetector {
	return &GridDetector{Cols: cols, Rows: rows}
}

func (d *GridDetector) Detect(img image.Image) ([]Region, error) {
	if d.Cols <= 0 || d.Rows <= 0 {
		return nil, fmt.Errorf("grid needs positive dimensions, got %dx%d", d.Cols, d.Rows)
	}
	b := img.Bounds()
	if b.Dx() < d.Cols || b.Dy() < d.Rows {
		return nil, fmt.Errorf("image %v too small for a %dx%d grid", b, d.Cols, d.Rows)
	}

	regions := make([]Region, 0, d.Cols*d.Rows)
	for row := 0; row < d.Rows; row++ {
		for col := 0; col < d.Cols; col++ {
			r := image.Rect(
				b.Min.X+col*b.Dx()/d.Cols,
				b.Min.Y+row*b.Dy()/d.Rows,
				b.Min.X+(col+1)*b.Dx()/d.Cols,
				b.Min.Y+(row+1)*b.Dy()/d.Rows,
			)
			regions = append(regions, Region{Rect: r, Kind: "cell", Confidence: 1})
		}
	}
	return regions, nil
}
