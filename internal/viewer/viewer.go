// Package viewer hosts a show in an Ebiten window.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/control"
	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/loop"
	"github.com/ivlev/scooter/internal/renderer"
	"github.com/ivlev/scooter/internal/scene"
	"github.com/ivlev/scooter/internal/scoot"
)

var letterbox = color.RGBA{R: 0x20, G: 0x24, B: 0x2c, A: 0xff}

// Game implements ebiten.Game for one show.
type Game struct {
	file  *config.ShowFile
	show  *scoot.Show
	stage *scene.Stage
	loop  *loop.Loop
	ctrl  *control.Controller

	plate      *ebiten.Image
	background *ebiten.Image
	top        color.RGBA
	bottom     color.RGBA

	window image.Point
	hud    bool
}

// New builds a game for a window of width×height.
func New(file *config.ShowFile, plate image.Image, width, height int, logger *log.Logger) (*Game, error) {
	top, bottom, err := file.Background()
	if err != nil {
		return nil, err
	}
	window := geom.Size{W: float64(width), H: float64(height)}
	vp, err := control.ViewportRect(file, window)
	if err != nil {
		return nil, err
	}

	b := plate.Bounds()
	lp := loop.New(loop.SystemClock{})
	stage := scene.NewStage(lp, vp, geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}, file.StageRegions()...)
	show, err := scoot.New(file.Options(logger), stage, lp)
	if err != nil {
		return nil, err
	}

	g := &Game{
		file:   file,
		show:   show,
		stage:  stage,
		loop:   lp,
		ctrl:   control.NewController(show, stage),
		plate:  ebiten.NewImageFromImage(plate),
		top:    top,
		bottom: bottom,
		window: image.Pt(width, height),
	}
	g.rebuildBackground(vp)
	return g, nil
}

// Run opens the window and blocks until it closes.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.window.X, g.window.Y)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.hud = !g.hud
	}

	g.ctrl.Apply(readInput())
	g.loop.RunDue()
	return nil
}

// readInput collects this tick's input. Touches take precedence over the
// mouse.
func readInput() control.InputFrame {
	var in control.InputFrame
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		in.Pointers = append(in.Pointers, geom.Pt(float64(x), float64(y)))
	}

	if len(in.Pointers) == 0 {
		x, y := ebiten.CursorPosition()
		cursor := geom.Pt(float64(x), float64(y))
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			in.Pointers = append(in.Pointers, cursor)
		}
		in.Hover, in.HasHover = cursor, true
	}

	_, in.Wheel = ebiten.Wheel()

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		in.Keys = append(in.Keys, control.KeyName(k.String()))
	}
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := g.stage.Snapshot()
	screen.Fill(letterbox)

	vr := image.Rect(
		int(v.Viewport.X), int(v.Viewport.Y),
		int(v.Viewport.X+v.Viewport.W), int(v.Viewport.Y+v.Viewport.H),
	)
	if vr.Empty() {
		return
	}
	// sub-images keep the screen's coordinates and clip to the viewport
	viewport := screen.SubImage(vr).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(v.Viewport.X, v.Viewport.Y)
	viewport.DrawImage(g.background, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(v.Scale, v.Scale)
	op.GeoM.Translate(v.PlateOffset.X, v.PlateOffset.Y)
	op.Filter = ebiten.FilterLinear
	viewport.DrawImage(g.plate, op)

	if g.hud {
		st := g.show.State()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"scale %.1f  %s  target %v\nTPS %.0f  FPS %.0f\nkeys: %v",
			st.Scale, st.Phase, st.CurrentTarget, ebiten.ActualTPS(), ebiten.ActualFPS(), g.file.Keys,
		))
	}
}

// Layout follows the window size and re-centres the show when it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := image.Pt(outsideWidth, outsideHeight)
	if size != g.window && size.X > 0 && size.Y > 0 {
		g.window = size
		vp, err := control.ViewportRect(g.file, geom.Size{W: float64(size.X), H: float64(size.Y)})
		if err == nil {
			g.stage.SetViewport(vp)
			g.rebuildBackground(vp)
			g.show.Resize()
		}
	}
	return outsideWidth, outsideHeight
}

func (g *Game) rebuildBackground(vp geom.Rect) {
	w, h := max(1, int(vp.W)), max(1, int(vp.H))
	if g.background != nil {
		g.background.Deallocate()
	}
	g.background = ebiten.NewImageFromImage(renderer.Gradient(w, h, g.top, g.bottom))
}
