package analyzer

import (
	"image"
	"sort"
)

// Region is a detected area of interest on a plate image.
type Region struct {
	Rect       image.Rectangle
	Kind       string  // "header", "text", "figure", "cell", "unknown"
	Confidence float64 // 0.0-1.0
}

// Detector finds regions on a plate image.
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}

// classify guesses a region's kind from its shape.
func classify(r image.Rectangle) string {
	w, h := r.Dx(), r.Dy()
	if w == 0 || h == 0 {
		return "unknown"
	}
	aspect := float64(w) / float64(h)
	switch {
	case aspect >= 6:
		return "header"
	case aspect >= 1.8:
		return "text"
	case aspect >= 0.5:
		return "figure"
	}
	return "unknown"
}

// mergeOverlapping folds together rectangles that intersect after being
// grown by gap pixels, until no two overlap.
func mergeOverlapping(rects []image.Rectangle, gap int) []image.Rectangle {
	out := append([]image.Rectangle(nil), rects...)
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Inset(-gap).Overlaps(out[j]) {
					out[i] = out[i].Union(out[j])
					out = append(out[:j], out[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Min.Y != out[j].Min.Y {
			return out[i].Min.Y < out[j].Min.Y
		}
		return out[i].Min.X < out[j].Min.X
	})
	return out
}
