package analyzer

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ContrastDetector finds regions by Sobel edge detection, dilation and
// connected components. Large images are downscaled first and the regions
// mapped back to the original pixel grid.
type ContrastDetector struct {
	MinRegionArea int     // in original pixels²
	EdgeThreshold float64 // gradient magnitude threshold
	MaxSide       int     // working resolution cap; 0 disables downscaling
	MergeGap      int     // regions closer than this are joined
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinRegionArea: 500,
		EdgeThreshold: 30.0,
		MaxSide:       1200,
		MergeGap:      8,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Region, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot detect regions on an empty image")
	}

	gray, factor := d.workingCopy(img)
	edges := sobel(gray, d.EdgeThreshold)
	grown := dilate(edges, 2, 2)

	var rects []image.Rectangle
	for _, r := range components(grown) {
		orig := image.Rect(
			b.Min.X+int(math.Floor(float64(r.Min.X)*factor)),
			b.Min.Y+int(math.Floor(float64(r.Min.Y)*factor)),
			b.Min.X+int(math.Ceil(float64(r.Max.X)*factor)),
			b.Min.Y+int(math.Ceil(float64(r.Max.Y)*factor)),
		).Intersect(b)
		if orig.Dx()*orig.Dy() >= d.MinRegionArea {
			rects = append(rects, orig)
		}
	}

	rects = mergeOverlapping(rects, d.MergeGap)

	regions := make([]Region, 0, len(rects))
	for _, r := range rects {
		regions = append(regions, Region{
			Rect:       r,
			Kind:       classify(r),
			Confidence: 0.7,
		})
	}
	return regions, nil
}

// workingCopy returns a grayscale copy anchored at (0,0), downscaled so its
// longest side fits MaxSide, and the factor mapping it back to img.
func (d *ContrastDetector) workingCopy(img image.Image) (*image.Gray, float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	factor := 1.0
	if longest := max(w, h); d.MaxSide > 0 && longest > d.MaxSide {
		factor = float64(longest) / float64(d.MaxSide)
		w = max(1, int(float64(w)/factor))
		h = max(1, int(float64(h)/factor))
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if factor == 1 {
		xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, b, xdraw.Src, nil)
	}
	return gray, factor
}

// sobel marks pixels whose gradient magnitude exceeds threshold.
func sobel(gray *image.Gray, threshold float64) *mask {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	edges := make([]bool, w*h)
	at := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			if math.Hypot(gx, gy) > threshold {
				edges[y*w+x] = true
			}
		}
	}
	return &mask{w: w, h: h, on: edges}
}

type mask struct {
	w, h int
	on   []bool
}

// dilate grows the mask by radius pixels in each direction, iterations times.
// The square kernel is applied as a horizontal then a vertical pass.
func dilate(m *mask, radius, iterations int) *mask {
	cur := m
	for i := 0; i < iterations; i++ {
		cur = dilatePass(cur, radius, 1, 0)
		cur = dilatePass(cur, radius, 0, 1)
	}
	return cur
}

func dilatePass(m *mask, radius, dx, dy int) *mask {
	out := &mask{w: m.w, h: m.h, on: make([]bool, len(m.on))}
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !m.on[y*m.w+x] {
				continue
			}
			for k := -radius; k <= radius; k++ {
				nx, ny := x+k*dx, y+k*dy
				if nx >= 0 && nx < m.w && ny >= 0 && ny < m.h {
					out.on[ny*m.w+nx] = true
				}
			}
		}
	}
	return out
}

// components returns the bounding box of every 4-connected set in m.
func components(m *mask) []image.Rectangle {
	visited := make([]bool, len(m.on))
	var rects []image.Rectangle
	var stack []int

	for start, on := range m.on {
		if !on || visited[start] {
			continue
		}
		minX, minY := m.w, m.h
		maxX, maxY := -1, -1

		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%m.w, i/m.w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
				nx, ny := n[0], n[1]
				if nx < 0 || nx >= m.w || ny < 0 || ny >= m.h {
					continue
				}
				j := ny*m.w + nx
				if m.on[j] && !visited[j] {
					visited[j] = true
					stack = append(stack, j)
				}
			}
		}
		rects = append(rects, image.Rect(minX, minY, maxX+1, maxY+1))
	}
	return rects
}
