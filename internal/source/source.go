package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/scooter/internal/geom"
)

// DefaultDPI is the rasterisation density for PDF plates.
const DefaultDPI = 150

// Source yields plate images page by page.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a source for path: a PDF through MuPDF, anything else as an
// image file or a directory of images.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

// LoadPlate renders one page of path as a plate image.
func LoadPlate(path string, page, dpi int) (image.Image, geom.Size, error) {
	src, err := Open(path)
	if err != nil {
		return nil, geom.Size{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	if page < 0 || page >= src.PageCount() {
		return nil, geom.Size{}, fmt.Errorf("%s: page %d out of range [0, %d)", path, page, src.PageCount())
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	img, err := src.RenderPage(page, dpi)
	if err != nil {
		return nil, geom.Size{}, fmt.Errorf("render %s page %d: %w", path, page, err)
	}
	b := img.Bounds()
	return img, geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	return f.doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
