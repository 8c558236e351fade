// Package control maps raw pointer, wheel and keyboard input onto a show.
package control

import (
	"math"
	"strings"

	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/scene"
	"github.com/ivlev/scooter/internal/scoot"
)

// tapSlop is how far a press may wander and still count as a click.
const tapSlop = 4.0

// InputFrame is one tick of pointer, wheel and keyboard input, in page
// coordinates.
type InputFrame struct {
	Pointers []geom.Point // pressed pointers; only the first two matter
	Hover    geom.Point
	HasHover bool
	Wheel    float64
	Keys     []string
}

// Controller turns raw input frames into show gestures, clicks and hovers.
type Controller struct {
	show  *scoot.Show
	stage *scene.Stage

	pointers int
	last     [2]geom.Point
	pressAt  geom.Point
	tap      bool
	hovered  string
}

func NewController(show *scoot.Show, stage *scene.Stage) *Controller {
	return &Controller{show: show, stage: stage}
}

// Apply feeds one frame of input to the show.
func (c *Controller) Apply(in InputFrame) {
	n := min(len(in.Pointers), 2)

	switch n {
	case 2:
		a, b := in.Pointers[0], in.Pointers[1]
		switch {
		case c.pointers < 2:
			c.show.PinchStart(a, b)
		case a != c.last[0] || b != c.last[1]:
			c.show.PinchMove(a, b)
		}
		c.last = [2]geom.Point{a, b}
		c.tap = false

	case 1:
		p := in.Pointers[0]
		switch c.pointers {
		case 0:
			c.show.PanStart(p)
			c.pressAt, c.tap = p, true
		case 1:
			if p != c.last[0] {
				if geom.Distance(p, c.pressAt) > tapSlop {
					c.tap = false
				}
				c.show.PanMove(p)
			}
		default:
			// one finger lifted off a pinch
			c.show.PinchEnd()
			c.show.PanStart(p)
		}
		c.last[0] = p

	default:
		switch c.pointers {
		case 1:
			c.show.PanEnd()
			if c.tap {
				c.click(c.last[0])
			}
		case 2:
			c.show.PinchEnd()
		}
		c.tap = false
	}
	c.pointers = n

	if in.HasHover {
		c.hover(in.Hover)
	}
	if in.Wheel != 0 {
		c.show.Wheel(in.Wheel)
	}
	for _, k := range in.Keys {
		c.key(k)
	}
}

func (c *Controller) click(p geom.Point) {
	if sel, ok := c.stage.ElementAt(p); ok {
		c.show.Fire(sel, scoot.EventClick)
	}
}

func (c *Controller) hover(p geom.Point) {
	sel, _ := c.stage.ElementAt(p)
	if sel == c.hovered {
		return
	}
	c.hovered = sel
	if sel != "" {
		c.show.Fire(sel, scoot.EventEnter)
	}
}

func (c *Controller) key(k string) {
	if c.show.Key(k) {
		return
	}
	switch k {
	case "+", "=":
		c.show.Zoom(scoot.ZoomIn)
	case "-":
		c.show.Zoom(scoot.ZoomOut)
	}
}

// KeyName normalises a keyboard key name to the form used in show files:
// "Digit1" and "Numpad1" become "1", letters are lower case.
func KeyName(name string) string {
	switch name {
	case "Equal", "NumpadAdd":
		return "+"
	case "Minus", "NumpadSubtract":
		return "-"
	}
	for _, prefix := range []string{"Digit", "Numpad"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && len(rest) == 1 {
			return rest
		}
	}
	return strings.ToLower(name)
}

// ViewportRect sizes the viewport from the show's lengths and centres it in
// the window. The result is clamped to the window and rounded to whole
// pixels.
func ViewportRect(file *config.ShowFile, window geom.Size) (geom.Rect, error) {
	size, err := file.ViewportSize(window)
	if err != nil {
		return geom.Rect{}, err
	}
	w := math.Round(math.Min(size.W, window.W))
	h := math.Round(math.Min(size.H, window.H))
	return geom.Rect{
		X: math.Floor((window.W - w) / 2),
		Y: math.Floor((window.H - h) / 2),
		W: w,
		H: h,
	}, nil
}
