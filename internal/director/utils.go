package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ShowsDir is where generated shows are kept by default.
var ShowsDir = filepath.Join("internal", "shows")

// GenerateShowPath creates a timestamped show filename in dir
func GenerateShowPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("show_%s.yaml", timestamp))
}

// FindLatestShow finds the most recent show file in dir
func FindLatestShow(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read shows directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var shows []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		shows = append(shows, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(shows) == 0 {
		return "", fmt.Errorf("no show files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(shows, func(i, j int) bool {
		return shows[i].mod.After(shows[j].mod)
	})

	return shows[0].path, nil
}
