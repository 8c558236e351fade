package engine

import (
	"fmt"
	"image"

	"github.com/ivlev/scooter/internal/analyzer"
	"github.com/ivlev/scooter/internal/config"
	"github.com/ivlev/scooter/internal/director"
	"github.com/ivlev/scooter/internal/geom"
)

// GenerateShow detects regions on a plate and lays a show over them.
func GenerateShow(cfg *config.Config, plate image.Image) (*config.ShowFile, error) {
	fmt.Println("[*] Режим генерации шоу...")

	det, err := analyzer.NewDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	if cd, ok := det.(*analyzer.ContrastDetector); ok && cfg.MinRegionArea > 0 {
		cd.MinRegionArea = cfg.MinRegionArea
	}

	regions, err := det.Detect(plate)
	if err != nil {
		return nil, fmt.Errorf("ошибка анализа пластины: %w", err)
	}
	fmt.Printf("[*] Найдено областей: %d\n", len(regions))

	if len(regions) == 0 {
		// Ничего не найдено: разбиваем пластину на сетку
		if regions, err = analyzer.NewGridDetector(3, 3).Detect(plate); err != nil {
			return nil, err
		}
		fmt.Println("[!] Области не найдены, используется сетка 3x3")
	}

	dir := director.NewDirector(cfg.Width, cfg.Height)
	if cfg.MaxZoom > 0 {
		dir.MaxZoom = cfg.MaxZoom
	}

	b := plate.Bounds()
	show, err := dir.GenerateShow(regions, geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}, cfg.InputPath, cfg.TourDuration)
	if err != nil {
		return nil, err
	}
	show.Plate.Page = cfg.Page
	show.Plate.DPI = cfg.DPI
	return show, nil
}
