package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ivlev/scooter/internal/source"
)

// FindLatestPlate returns the newest PDF or image file in dir.
func FindLatestPlate(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !source.IsPlateFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено PDF-файлов или изображений", dir)
	}

	return latestFile, nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(listing string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(listing, name) {
			return name
		}
	}
	return "libx264"
}

// DefaultWorkers is the number of physical cores, or logical ones when the
// platform does not report physical cores.
func DefaultWorkers() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ResourceReport describes the host and this process for the performance
// report. Lines that cannot be read are left out.
func ResourceReport() string {
	var b strings.Builder

	if n, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(&b, "CPU Threads: %d\n", n)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(&b, "Memory: %.1f/%.1f GiB (%.0f%%)\n",
			float64(vm.Used)/(1<<30), float64(vm.Total)/(1<<30), vm.UsedPercent)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			fmt.Fprintf(&b, "Process RSS: %.1f MiB\n", float64(mi.RSS)/(1<<20))
		}
	}

	return b.String()
}
