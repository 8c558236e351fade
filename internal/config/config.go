package config

import "time"

// Config is the parsed command line of cmd/scooter.
type Config struct {
	Mode          string // view, record, detect
	InputPath     string
	Page          int
	DPI           int
	ShowPath      string
	OutputPath    string
	Width         int
	Height        int
	FPS           int
	Workers       int
	Detector      string
	MinRegionArea int
	MaxZoom       float64
	TourDuration  time.Duration
	VideoEncoder  string
	Quality       int
	ShowStats     bool
	BuildVersion  string
}

// RecordParams describes the frames of a recorded tour.
type RecordParams struct {
	Width, Height int
	FPS           int
	Workers       int
	Captions      bool
}
