package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RasterExtensions are the image formats a plate can be decoded from.
var RasterExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp"}

// IsPlateFile reports whether name looks like something Open can read.
func IsPlateFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".pdf" || slices.Contains(RasterExtensions, ext)
}

// ImageSource treats raster files as pages: a single file, or every image
// in a directory in name order.
type ImageSource struct {
	pages []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return &ImageSource{pages: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var pages []string
	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(RasterExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		pages = append(pages, filepath.Join(path, entry.Name()))
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("в папке %s не найдено изображений", path)
	}
	// ReadDir already returns names sorted
	return &ImageSource{pages: pages}, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.pages)
}

func (s *ImageSource) page(index int) (*os.File, error) {
	if index < 0 || index >= len(s.pages) {
		return nil, fmt.Errorf("page %d out of range [0, %d)", index, len(s.pages))
	}
	return os.Open(s.pages[index])
}

// GetPageDimensions reads only the image header.
func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	f, err := s.page(index)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", s.pages[index], err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("%s: empty %s image", s.pages[index], format)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// RenderPage decodes the image; dpi has no meaning for raster input.
func (s *ImageSource) RenderPage(index int, _ int) (image.Image, error) {
	f, err := s.page(index)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.pages[index], err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
