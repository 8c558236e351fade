package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scooter/internal/geom"
)

// Default viewport background stops.
var (
	DefaultGradientTop    = color.RGBA{R: 0xb8, G: 0xc6, B: 0xdf, A: 0xff}
	DefaultGradientBottom = color.RGBA{R: 0x6d, G: 0x88, B: 0xb7, A: 0xff}
)

// ParseHexColor reads "#rgb" or "#rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Gradient renders a vertical two-stop gradient.
func Gradient(w, h int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		c := color.RGBA{
			R: uint8(math.Round(Lerp(float64(top.R), float64(bottom.R), t))),
			G: uint8(math.Round(Lerp(float64(top.G), float64(bottom.G), t))),
			B: uint8(math.Round(Lerp(float64(top.B), float64(bottom.B), t))),
			A: 0xff,
		}
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

// Placement is where the plate lands in a frame: its top-left relative to
// the viewport corner, and its scale.
type Placement struct {
	Offset geom.Point
	Scale  float64
}

// Painter rasterises a plate into viewport-sized RGBA frames. A Painter is
// read-only after construction and may be shared between goroutines.
type Painter struct {
	background *image.RGBA
	plate      image.Image
	scaler     xdraw.Interpolator
	face       font.Face
	badge      image.Image
}

// NewPainter prepares frames of w×h with the given background stops.
func NewPainter(w, h int, plate image.Image, top, bottom color.RGBA) *Painter {
	return &Painter{
		background: Gradient(w, h, top, bottom),
		plate:      plate,
		scaler:     xdraw.ApproxBiLinear,
		face:       basicfont.Face7x13,
	}
}

// Bounds is the frame rectangle.
func (p *Painter) Bounds() image.Rectangle {
	return p.background.Bounds()
}

// Paint draws the background, then the plate at its placement, then an
// optional caption strip along the bottom edge.
func (p *Painter) Paint(dst *image.RGBA, at Placement, caption string) {
	xdraw.Draw(dst, dst.Bounds(), p.background, image.Point{}, xdraw.Src)

	if p.plate != nil && at.Scale > 0 {
		pb := p.plate.Bounds()
		dr := image.Rect(
			int(math.Round(at.Offset.X)),
			int(math.Round(at.Offset.Y)),
			int(math.Round(at.Offset.X+float64(pb.Dx())*at.Scale)),
			int(math.Round(at.Offset.Y+float64(pb.Dy())*at.Scale)),
		)
		if dr.Overlaps(dst.Bounds()) {
			p.scaler.Scale(dst, dr, p.plate, pb, xdraw.Over, nil)
		}
	}

	if p.badge != nil {
		b, bb := dst.Bounds(), p.badge.Bounds()
		at := image.Pt(b.Max.X-bb.Dx()-badgeMargin, b.Min.Y+badgeMargin)
		xdraw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(bb.Size())}, p.badge, bb.Min, xdraw.Src)
	}

	if caption != "" {
		p.drawCaption(dst, caption)
	}
}

// SetBadge pins img to the top-right corner of every frame. Call it before
// sharing the painter between goroutines.
func (p *Painter) SetBadge(img image.Image) {
	p.badge = img
}

func (p *Painter) drawCaption(dst *image.RGBA, caption string) {
	b := dst.Bounds()
	m := p.face.Metrics()
	lineH := (m.Ascent + m.Descent).Ceil()
	strip := image.Rect(b.Min.X, b.Max.Y-lineH-8, b.Max.X, b.Max.Y)
	xdraw.Draw(dst, strip, image.NewUniform(color.RGBA{A: 0x99}), image.Point{}, xdraw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: p.face,
		Dot: fixed.Point26_6{
			X: fixed.I(b.Min.X + 6),
			Y: fixed.I(b.Max.Y-4) - m.Descent,
		},
	}
	d.DrawString(caption)
}
