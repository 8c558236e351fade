package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/scooter/internal/config"
)

// VideoEncoder accepts frames one at a time.
type VideoEncoder interface {
	Open(ctx context.Context, videoPath string, params config.RecordParams, encoderName string, quality int) (FrameWriter, error)
}

// FrameWriter takes frames in presentation order. Close flushes the
// encoder and waits for it.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}

type FFmpegEncoder struct{}

// ffmpegStream is one running ffmpeg fed with raw RGBA on stdin.
type ffmpegStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	size   image.Point
	frames int
}

func (e *FFmpegEncoder) Open(
	ctx context.Context,
	videoPath string,
	params config.RecordParams,
	encoderName string,
	quality int,
) (FrameWriter, error) {
	args := e.buildFFmpegArgs(params, videoPath, encoderName, quality)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &ffmpegStream{
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		size:   image.Pt(params.Width, params.Height),
	}, nil
}

func (s *ffmpegStream) WriteFrame(img image.Image) error {
	if img.Bounds().Size() != s.size {
		return fmt.Errorf("frame %d: size %v, stream expects %v", s.frames, img.Bounds().Size(), s.size)
	}
	// Запись raw RGBA данных
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("frame %d: write raw error: %w", s.frames, err)
	}
	s.frames++
	return nil
}

func (s *ffmpegStream) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, s.stderr.String())
	}
	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(
	params config.RecordParams,
	videoPath string,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	// Качество в зависимости от энкодера
	switch encoderName {
	case "h264_videotoolbox":
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// DefaultQuality is the quality setting that suits each encoder.
func DefaultQuality(encoderName string) int {
	switch encoderName {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	}
	return 23
}
