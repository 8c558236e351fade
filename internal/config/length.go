package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLength reads a CSS-like length: "640", "640px" or "75%". Percentages
// resolve against parent; an empty string is "100%".
func ParseLength(s string, parent float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return parent, nil
	}

	percent := false
	switch {
	case strings.HasSuffix(s, "%"):
		percent = true
		s = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative length %q", s)
	}
	if percent {
		return parent * v / 100, nil
	}
	return v, nil
}
