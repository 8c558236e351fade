package system

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatestPlate(t *testing.T) {
	dir := t.TempDir()
	names := []string{"old.pdf", "map.PNG", "notes.txt", "new.jpg"}
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, mod, mod)
	}

	got, err := FindLatestPlate(dir)
	if err != nil {
		t.Fatalf("FindLatestPlate: %v", err)
	}
	if filepath.Base(got) != "new.jpg" {
		t.Errorf("got %s, want new.jpg", got)
	}

	os.Remove(filepath.Join(dir, "new.jpg"))
	got, _ = FindLatestPlate(dir)
	if filepath.Base(got) != "map.PNG" {
		t.Errorf("text files must be ignored, got %s", got)
	}
}

func TestFindLatestPlateEmpty(t *testing.T) {
	if _, err := FindLatestPlate(t.TempDir()); err == nil {
		t.Error("expected an error for an empty directory")
	}
}

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		listing, want string
	}{
		{" V..... h264_nvenc  NVIDIA NVENC H.264 encoder\n V..... libx264", "h264_nvenc"},
		{" V..... h264_videotoolbox VideoToolbox H.264 Encoder\n V..... h264_nvenc", "h264_videotoolbox"},
		{" V..... libx264 libx264 H.264", "libx264"},
		{"", "libx264"},
	}
	for _, tt := range tests {
		if got := pickEncoder(tt.listing); got != tt.want {
			t.Errorf("pickEncoder(%q) = %s, want %s", tt.listing, got, tt.want)
		}
	}
}

func TestImagePoolKeepsSizesApart(t *testing.T) {
	p := NewImagePool()
	small := p.Get(image.Rect(0, 0, 4, 4))
	if small.Bounds().Dx() != 4 {
		t.Fatalf("bounds = %v", small.Bounds())
	}
	p.Put(small)

	big := p.Get(image.Rect(0, 0, 8, 8))
	if big.Bounds().Dx() != 8 {
		t.Errorf("pool returned a %v image for an 8x8 request", big.Bounds())
	}

	// foreign sizes are dropped, not pooled
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	p.Put(nil)
}

func TestResourceReport(t *testing.T) {
	report := ResourceReport()
	t.Logf("\n%s", report)
	if DefaultWorkers() < 1 {
		t.Error("DefaultWorkers must be positive")
	}
	for _, line := range strings.Split(strings.TrimSpace(report), "\n") {
		if line != "" && !strings.Contains(line, ":") {
			t.Errorf("malformed report line %q", line)
		}
	}
}
