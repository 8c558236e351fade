package director

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/scooter/internal/analyzer"
	"github.com/ivlev/scooter/internal/geom"
)

func testRegions() []analyzer.Region {
	return []analyzer.Region{
		{Rect: image.Rect(0, 300, 500, 600), Kind: "figure", Confidence: 0.7},
		{Rect: image.Rect(300, 55, 900, 255), Kind: "text", Confidence: 0.9},
		{Rect: image.Rect(50, 50, 200, 100), Kind: "text", Confidence: 0.8},
	}
}

func TestDirector(t *testing.T) {
	director := NewDirector(1280, 720)

	show, err := director.GenerateShow(testRegions(), geom.Size{W: 1000, H: 800}, "test.png", 10*time.Second)
	if err != nil {
		t.Fatalf("GenerateShow failed: %v", err)
	}
	if err := show.Validate(); err != nil {
		t.Fatalf("generated show does not validate: %v", err)
	}

	if show.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", show.Version)
	}
	if show.Plate.Input != "test.png" {
		t.Errorf("Expected input test.png, got %s", show.Plate.Input)
	}

	// reading order: the two top regions share a row
	wantRects := []geom.Rect{
		{X: 50, Y: 50, W: 150, H: 50},
		{X: 300, Y: 55, W: 600, H: 200},
		{X: 0, Y: 300, W: 500, H: 300},
	}
	if len(show.Regions) != len(wantRects) {
		t.Fatalf("Expected %d regions, got %d", len(wantRects), len(show.Regions))
	}
	for i, want := range wantRects {
		if show.Regions[i].Rect != want {
			t.Errorf("region %d: got %+v, want %+v", i, show.Regions[i].Rect, want)
		}
	}
	if show.Regions[0].Selector != "#region-1" || show.Regions[2].Kind != "figure" {
		t.Errorf("unexpected naming: %+v", show.Regions)
	}

	wantZoom := map[string]float64{"#region-1": 3, "#region-2": 1.75, "#region-3": 2}
	for sel, zoom := range wantZoom {
		entry, ok := show.Targets[sel]
		if !ok || entry.Detailed == nil {
			t.Fatalf("missing detailed trigger for %s", sel)
		}
		if entry.Detailed.Scale != zoom {
			t.Errorf("%s: zoom %v, want %v", sel, entry.Detailed.Scale, zoom)
		}
		if entry.Detailed.Target == nil || entry.Detailed.Target.Name != sel {
			t.Errorf("%s: trigger should travel to itself", sel)
		}
	}

	wantKeys := map[string]string{"1": "#region-1", "2": "#region-2", "3": "#region-3", "0": HomeTrigger}
	for k, v := range wantKeys {
		if show.Keys[k] != v {
			t.Errorf("key %s = %q, want %q", k, show.Keys[k], v)
		}
	}
}

func TestTour(t *testing.T) {
	director := NewDirector(1280, 720)
	show, err := director.GenerateShow(testRegions(), geom.Size{W: 1000, H: 800}, "test.png", 10*time.Second)
	if err != nil {
		t.Fatalf("GenerateShow failed: %v", err)
	}

	// intro/outro reserve 2s, the remaining 8s split three ways
	if len(show.Tour) != 4 {
		t.Fatalf("Expected 4 tour stops, got %d", len(show.Tour))
	}
	for i, stop := range show.Tour[:3] {
		if stop.Dwell != 2666 {
			t.Errorf("stop %d dwell = %d", i, stop.Dwell)
		}
		t.Logf("Stop %d: trigger=%s caption=%q", i, stop.Trigger, stop.Caption)
	}
	if show.Tour[1].Caption != "2/3 text" {
		t.Errorf("caption = %q", show.Tour[1].Caption)
	}

	closing := show.Tour[3]
	if closing.Target == nil || closing.Target.Name != "center" {
		t.Fatalf("closing stop should head for the centre: %+v", closing)
	}
	if len(closing.Waypoints) != 2 || closing.Waypoints[0].Name != "#region-2" || closing.Waypoints[1].Name != "#region-1" {
		t.Errorf("closing waypoints = %+v", closing.Waypoints)
	}
	if closing.Duration == nil || *closing.Duration != 2400 {
		t.Errorf("closing duration = %v", closing.Duration)
	}
}

func TestSingleRegionTour(t *testing.T) {
	director := NewDirector(640, 480)
	show, err := director.GenerateShow(testRegions()[:1], geom.Size{W: 1000, H: 800}, "one.png", 3*time.Second)
	if err != nil {
		t.Fatalf("GenerateShow failed: %v", err)
	}
	closing := show.Tour[len(show.Tour)-1]
	if len(closing.Waypoints) != 0 || closing.Duration != nil {
		t.Errorf("single region needs no sweep: %+v", closing)
	}
}

func TestGenerateShowErrors(t *testing.T) {
	director := NewDirector(640, 480)
	if _, err := director.GenerateShow(nil, geom.Size{W: 10, H: 10}, "x.png", time.Second); err == nil {
		t.Error("expected an error without regions")
	}
	if _, err := director.GenerateShow(testRegions(), geom.Size{}, "x.png", time.Second); err == nil {
		t.Error("expected an error for an empty plate")
	}
}

func TestCalculateDwellTime(t *testing.T) {
	director := NewDirector(1280, 720)
	tests := []struct {
		total time.Duration
		count int
		want  time.Duration
	}{
		{10 * time.Second, 4, 2 * time.Second},
		{100 * time.Second, 2, 3 * time.Second},
		{3 * time.Second, 5, time.Second},
		{time.Second, 1, time.Second},
	}
	for _, tt := range tests {
		if got := director.calculateDwellTime(tt.total, tt.count); got != tt.want {
			t.Errorf("calculateDwellTime(%v, %d) = %v, want %v", tt.total, tt.count, got, tt.want)
		}
	}
}

func TestCalculateZoom(t *testing.T) {
	director := NewDirector(1280, 720)
	tests := []struct {
		rect image.Rectangle
		want float64
	}{
		{image.Rect(0, 0, 0, 10), 1},
		{image.Rect(0, 0, 5000, 5000), 1},
		{image.Rect(0, 0, 10, 10), 3},
		{image.Rect(0, 0, 500, 300), 2},
	}
	for _, tt := range tests {
		if got := director.calculateZoom(tt.rect); got != tt.want {
			t.Errorf("calculateZoom(%v) = %v, want %v", tt.rect, got, tt.want)
		}
	}
}

func TestShowWriteRead(t *testing.T) {
	director := NewDirector(1280, 720)
	show, err := director.GenerateShow(testRegions(), geom.Size{W: 1000, H: 800}, "test.png", 10*time.Second)
	if err != nil {
		t.Fatalf("GenerateShow failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "show.yaml")
	if err := WriteShow(show, path); err != nil {
		t.Fatalf("WriteShow failed: %v", err)
	}

	read, err := ReadShow(path)
	if err != nil {
		t.Fatalf("ReadShow failed: %v", err)
	}
	if read.Version != show.Version {
		t.Errorf("Version mismatch: expected %s, got %s", show.Version, read.Version)
	}
	if len(read.Regions) != len(show.Regions) || len(read.Tour) != len(show.Tour) {
		t.Errorf("Region/tour count mismatch after reading back")
	}
	if read.Targets["#region-2"].Detailed.Scale != 1.75 {
		t.Errorf("trigger scale lost: %+v", read.Targets["#region-2"])
	}
}
