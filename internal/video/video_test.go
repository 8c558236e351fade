package video

import (
	"bytes"
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/ivlev/scooter/internal/config"
)

func TestBuildFFmpegArgs(t *testing.T) {
	e := &FFmpegEncoder{}
	params := config.RecordParams{Width: 640, Height: 360, FPS: 25}

	tests := []struct {
		encoder string
		quality int
		want    []string
	}{
		{"libx264", 23, []string{"-crf", "23", "-preset", "medium"}},
		{"h264_nvenc", 28, []string{"-cq", "28"}},
		{"h264_videotoolbox", 75, []string{"-b:v", "7500k"}},
	}
	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			args := e.buildFFmpegArgs(params, "out.mp4", tt.encoder, tt.quality)
			if args[len(args)-1] != "out.mp4" {
				t.Errorf("output path should come last: %v", args)
			}
			i := slices.Index(args, "-video_size")
			if i < 0 || args[i+1] != "640x360" {
				t.Errorf("missing frame size: %v", args)
			}
			i = slices.Index(args, "-framerate")
			if i < 0 || args[i+1] != "25" {
				t.Errorf("missing frame rate: %v", args)
			}
			i = slices.Index(args, tt.want[0])
			if i < 0 || !slices.Equal(args[i:i+len(tt.want)], tt.want) {
				t.Errorf("quality args %v not found in %v", tt.want, args)
			}
		})
	}
}

func TestWriteRawRGBA(t *testing.T) {
	// a sub-image has a foreign stride and offset and must be repacked
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	big.SetRGBA(2, 2, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	sub := big.SubImage(image.Rect(2, 2, 4, 4))

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2*2*4 {
		t.Fatalf("wrote %d bytes, want 16", buf.Len())
	}
	if !bytes.Equal(buf.Bytes()[:4], []byte{9, 8, 7, 255}) {
		t.Errorf("first pixel = %v", buf.Bytes()[:4])
	}
}

func TestDefaultQuality(t *testing.T) {
	for enc, want := range map[string]int{"h264_videotoolbox": 75, "h264_nvenc": 28, "libx264": 23, "": 23} {
		if got := DefaultQuality(enc); got != want {
			t.Errorf("DefaultQuality(%q) = %d, want %d", enc, got, want)
		}
	}
}
