package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/geom"
	"github.com/ivlev/scooter/internal/loop"
	"github.com/ivlev/scooter/internal/renderer"
	"github.com/ivlev/scooter/internal/scene"
	"github.com/ivlev/scooter/internal/scoot"
	"github.com/ivlev/scooter/internal/system"
	"github.com/ivlev/scooter/internal/video"
)

const (
	// introHold is the overview shown before the first stop.
	introHold = time.Second
	// maxLegTime bounds a single stop's travel.
	maxLegTime = 2 * time.Minute
)

// Frame is one planned video frame.
type Frame struct {
	Index     int
	Placement renderer.Placement
	Caption   string
}

// TourProject records a show's tour into a video.
type TourProject struct {
	Config  *config.Config
	Show    *config.ShowFile
	Plate   image.Image
	Encoder video.VideoEncoder
	Params  config.RecordParams
	Log     *log.Logger
}

func NewTourProject(cfg *config.Config, show *config.ShowFile, plate image.Image, ve video.VideoEncoder) *TourProject {
	return &TourProject{
		Config:  cfg,
		Show:    show,
		Plate:   plate,
		Encoder: ve,
		Params: config.RecordParams{
			Width:    cfg.Width,
			Height:   cfg.Height,
			FPS:      cfg.FPS,
			Workers:  cfg.Workers,
			Captions: true,
		},
		Log: log.Default(),
	}
}

// Plan plays the tour on a simulated clock and samples the stage once per
// frame. Stops that fail are logged and skipped.
func (p *TourProject) Plan() ([]Frame, error) {
	if p.Params.FPS <= 0 {
		return nil, fmt.Errorf("некорректный FPS: %d", p.Params.FPS)
	}
	if len(p.Show.Tour) == 0 {
		return nil, fmt.Errorf("в шоу нет маршрута (tour)")
	}

	b := p.Plate.Bounds()
	plate := geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}
	viewport := geom.Rect{W: float64(p.Params.Width), H: float64(p.Params.Height)}

	lp := loop.New(loop.NewManualClock(time.Unix(0, 0)))
	stage := scene.NewStage(lp, viewport, plate, p.Show.StageRegions()...)
	show, err := scoot.New(p.Show.Options(p.Log), stage, lp)
	if err != nil {
		return nil, err
	}

	step := time.Second / time.Duration(p.Params.FPS)
	var frames []Frame
	capture := func(caption string) {
		lp.Advance(step)
		v := stage.Snapshot()
		frames = append(frames, Frame{
			Index: len(frames),
			Placement: renderer.Placement{
				Offset: v.PlateOffset.Sub(v.Viewport.Min()),
				Scale:  v.Scale,
			},
			Caption: caption,
		})
	}
	hold := func(d time.Duration, caption string) {
		for n := frameCount(d, p.Params.FPS); n > 0; n-- {
			capture(caption)
		}
	}
	travel := func(i int, start func(done func(error)) error, caption string) error {
		arrived := false
		var travelErr error
		if err := start(func(err error) {
			arrived = true
			travelErr = err
		}); err != nil {
			return err
		}
		for elapsed := time.Duration(0); !arrived; elapsed += step {
			if elapsed > maxLegTime {
				return fmt.Errorf("остановка %d не завершилась за %v", i, maxLegTime)
			}
			capture(caption)
		}
		return travelErr
	}

	hold(introHold, "")
	for elapsed := time.Duration(0); show.State().Phase != scoot.PhaseIdle; elapsed += step {
		if elapsed > maxLegTime {
			return nil, fmt.Errorf("начальная позиция не достигнута за %v", maxLegTime)
		}
		capture("")
	}

	for i, stop := range p.Show.Tour {
		start := func(done func(error)) error {
			if stop.Trigger != "" {
				return show.TriggerThen(stop.Trigger, done)
			}
			tc := stop.TargetConfig()
			tc.Callback = done
			show.ScootTo(tc)
			return nil
		}
		if err := travel(i, start, stop.Caption); err != nil {
			if scoot.IsConfigError(err) {
				p.Log.Printf("[!] Остановка %d пропущена, ошибка в шоу: %v", i, err)
			} else {
				p.Log.Printf("[!] Остановка %d пропущена: %v", i, err)
			}
			continue
		}
		hold(stop.DwellDuration(), stop.Caption)
	}

	return frames, nil
}

// frameCount is the number of whole frames covering d.
func frameCount(d time.Duration, fps int) int {
	if d <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * float64(fps)))
}

// Run plans the tour, rasterises frames in parallel batches and streams
// them to the encoder in order.
func (p *TourProject) Run(ctx context.Context) error {
	startTime := time.Now()

	frames, err := p.Plan()
	if err != nil {
		return err
	}
	planTime := time.Since(startTime)

	top, bottom, err := p.Show.Background()
	if err != nil {
		return fmt.Errorf("ошибка фона: %w", err)
	}
	painter := renderer.NewPainter(p.Params.Width, p.Params.Height, p.Plate, top, bottom)
	if p.Show.Link != "" {
		badge, err := renderer.QRBadge(p.Show.Link, p.Params.Height/5)
		if err != nil {
			p.Log.Printf("[!] QR-код не создан: %v", err)
		} else {
			painter.SetBadge(badge)
		}
	}

	fmt.Println("--- [PROJECT: TOUR RECORDER] ---")
	fmt.Printf("[*] Пластина: %s | Кадров: %d (%.1fs)\n", p.Show.Plate.Input, len(frames), float64(len(frames))/float64(p.Params.FPS))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Потоки: %d\n", p.Params.Width, p.Params.Height, p.Params.FPS, p.Params.Workers)
	fmt.Println("-----------------------------")

	if err := os.MkdirAll(filepath.Dir(p.Config.OutputPath), 0755); err != nil {
		return err
	}
	out, err := p.Encoder.Open(ctx, p.Config.OutputPath, p.Params, p.Config.VideoEncoder, p.Config.Quality)
	if err != nil {
		return fmt.Errorf("ошибка запуска энкодера: %w", err)
	}

	renderStart := time.Now()
	if err := p.renderAll(ctx, painter, frames, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("ошибка сборки видео: %w", err)
	}
	renderTime := time.Since(renderStart)

	if p.Config.ShowStats {
		totalTime := time.Since(startTime)
		fmt.Printf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Planning: %.2fs\n"+
				"Render+Encode: %.2fs\n"+
				"Effective FPS: %.2f\n"+
				"%s"+
				"----------------------------\n",
			p.Config.BuildVersion, totalTime.Seconds(), planTime.Seconds(), renderTime.Seconds(),
			float64(len(frames))/totalTime.Seconds(), system.ResourceReport(),
		)
	}

	return nil
}

// renderAll paints frames in batches of a few per worker, then hands each
// batch to the encoder in order. Frame buffers come from the image pool.
func (p *TourProject) renderAll(ctx context.Context, painter *renderer.Painter, frames []Frame, out video.FrameWriter) error {
	workers := max(1, p.Params.Workers)
	batch := workers * 4
	bounds := painter.Bounds()

	for start := 0; start < len(frames); start += batch {
		end := min(start+batch, len(frames))
		imgs := make([]*image.RGBA, end-start)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img := system.GetImage(bounds)
				caption := ""
				if p.Params.Captions {
					caption = frames[i].Caption
				}
				painter.Paint(img, frames[i].Placement, caption)
				imgs[i-start] = img
				return nil
			})
		}
		err := g.Wait()

		for i, img := range imgs {
			if img == nil {
				continue
			}
			if err == nil {
				if werr := out.WriteFrame(img); werr != nil {
					err = werr
				}
			}
			imgs[i] = nil
			system.PutImage(img)
		}
		if err != nil {
			return err
		}
		if every := max(1, p.Params.FPS*5); end == len(frames) || end/every != start/every {
			fmt.Printf("[>] Ready: %d/%d\n", end, len(frames))
		}
	}
	return nil
}
