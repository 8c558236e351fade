package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/director"
	"github.com/ivlev/scooter/internal/engine"
	"github.com/ivlev/scooter/internal/source"
	"github.com/ivlev/scooter/internal/system"
	"github.com/ivlev/scooter/internal/video"
	"github.com/ivlev/scooter/internal/viewer"
)

var version = "dev"

func main() {
	// Создаем нужные директории, если их нет
	for _, d := range []string{"input/plates", "output", director.ShowsDir} {
		os.MkdirAll(d, 0755)
	}

	modePtr := flag.String("mode", "view", "Режим: view (окно), record (видео тура), detect (генерация шоу)")
	inputPtr := flag.String("input", "", "Путь к PDF или изображению пластины (по умолчанию: из шоу или самый свежий файл в input/plates/)")
	pagePtr := flag.Int("page", 0, "Номер страницы PDF (с нуля)")
	dpiPtr := flag.Int("dpi", source.DefaultDPI, "DPI")
	showPtr := flag.String("show", "", "Путь к файлу шоу (по умолчанию: самый свежий в "+director.ShowsDir+")")
	outputPtr := flag.String("output", "", "Путь к видео или шоу (если пусто, генерируется автоматически)")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Потоки")
	detectorPtr := flag.String("detector", "contrast", "Детектор областей: contrast, grid")
	minAreaPtr := flag.Int("min-area", 0, "Минимальная площадь области в пикселях (0 - по умолчанию)")
	maxZoomPtr := flag.Float64("max-zoom", 3, "Максимальный зум при генерации шоу")
	durationPtr := flag.Duration("duration", 20*time.Second, "Длительность тура при генерации шоу")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	cfg := &config.Config{
		Mode:          *modePtr,
		InputPath:     *inputPtr,
		Page:          *pagePtr,
		DPI:           *dpiPtr,
		ShowPath:      *showPtr,
		OutputPath:    *outputPtr,
		Width:         width,
		Height:        height,
		FPS:           *fpsPtr,
		Workers:       *workersPtr,
		Detector:      *detectorPtr,
		MinRegionArea: *minAreaPtr,
		MaxZoom:       *maxZoomPtr,
		TourDuration:  *durationPtr,
		Quality:       *qualityPtr,
		ShowStats:     *statsPtr,
		BuildVersion:  version,
	}

	var err error
	switch cfg.Mode {
	case "detect":
		err = runDetect(cfg)
	case "view":
		err = runView(cfg)
	case "record":
		err = runRecord(cfg)
	default:
		err = fmt.Errorf("неизвестный режим %q", cfg.Mode)
	}
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}

func runDetect(cfg *config.Config) error {
	if err := resolveInput(cfg, nil); err != nil {
		return err
	}
	plate, _, err := source.LoadPlate(cfg.InputPath, cfg.Page, cfg.DPI)
	if err != nil {
		return err
	}

	show, err := engine.GenerateShow(cfg, plate)
	if err != nil {
		return err
	}

	out := cfg.OutputPath
	if out == "" {
		out = director.GenerateShowPath(director.ShowsDir)
	}
	if err := director.WriteShow(show, out); err != nil {
		return err
	}
	fmt.Printf("[+++] Успех! Шоу сохранено: %s\n", out)
	return nil
}

func runView(cfg *config.Config) error {
	show, err := loadShow(cfg)
	if err != nil {
		return err
	}
	plate, _, err := source.LoadPlate(cfg.InputPath, show.Plate.Page, plateDPI(cfg, show))
	if err != nil {
		return err
	}

	game, err := viewer.New(show, plate, cfg.Width, cfg.Height, log.Default())
	if err != nil {
		return err
	}
	fmt.Println("[*] Управление: мышь/касания - перемещение, колесо/щипок - зум, F1 - HUD, Esc - выход")
	return viewer.Run(game, "scooter - "+filepath.Base(cfg.InputPath))
}

func runRecord(cfg *config.Config) error {
	show, err := loadShow(cfg)
	if err != nil {
		return err
	}
	plate, _, err := source.LoadPlate(cfg.InputPath, show.Plate.Page, plateDPI(cfg, show))
	if err != nil {
		return err
	}

	if cfg.OutputPath == "" {
		base := strings.TrimSuffix(filepath.Base(cfg.InputPath), filepath.Ext(cfg.InputPath))
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputPath = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", strings.ReplaceAll(base, " ", "_"), timestamp))
	}
	// yuv420p требует четных размеров
	cfg.Width -= cfg.Width % 2
	cfg.Height -= cfg.Height % 2

	cfg.VideoEncoder = system.GetBestH264Encoder()
	if cfg.VideoEncoder != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
	}
	if cfg.Quality == 0 {
		cfg.Quality = video.DefaultQuality(cfg.VideoEncoder)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewTourProject(cfg, show, plate, &video.FFmpegEncoder{})
	if err := project.Run(ctx); err != nil {
		return fmt.Errorf("ошибка проекта: %w", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputPath)
	return nil
}

// loadShow reads the show named by -show, or the newest one on disk. With
// neither a show nor a saved one, a show is generated for the input plate.
func loadShow(cfg *config.Config) (*config.ShowFile, error) {
	path := cfg.ShowPath
	if path == "" {
		latest, err := director.FindLatestShow(director.ShowsDir)
		if err == nil && cfg.InputPath == "" {
			path = latest
			fmt.Printf("[*] Выбрано шоу: %s\n", path)
		}
	}

	if path == "" {
		if err := resolveInput(cfg, nil); err != nil {
			return nil, err
		}
		plate, _, err := source.LoadPlate(cfg.InputPath, cfg.Page, cfg.DPI)
		if err != nil {
			return nil, err
		}
		return engine.GenerateShow(cfg, plate)
	}

	show, err := director.ReadShow(path)
	if err != nil {
		return nil, err
	}
	if err := resolveInput(cfg, show); err != nil {
		return nil, err
	}
	return show, nil
}

// resolveInput fills cfg.InputPath from the flag, the show, or the newest
// plate in input/plates/, in that order.
func resolveInput(cfg *config.Config, show *config.ShowFile) error {
	if cfg.InputPath != "" {
		return nil
	}
	if show != nil && show.Plate.Input != "" {
		cfg.InputPath = show.Plate.Input
		return nil
	}
	latest, err := system.FindLatestPlate("input/plates")
	if err != nil {
		return fmt.Errorf("%w. Положите PDF или изображение в input/plates/", err)
	}
	cfg.InputPath = latest
	fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	return nil
}

func plateDPI(cfg *config.Config, show *config.ShowFile) int {
	if show.Plate.DPI > 0 {
		return show.Plate.DPI
	}
	return cfg.DPI
}
