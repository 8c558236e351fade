package director

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/scooter/internal/config"
)

// WriteShow writes a show to a YAML file, creating its directory
func WriteShow(show *config.ShowFile, path string) error {
	data, err := show.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadShow reads and validates a show from a YAML file
func ReadShow(path string) (*config.ShowFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	show, err := config.ParseShow(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return show, nil
}
