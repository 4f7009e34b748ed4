// Package util holds small parsing helpers shared by the config and CLI.
package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a Go duration such as 500ms or 1m30s, plus whole
// days with a d suffix.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}
	if strings.HasSuffix(s, "d") {
		if n, err := strconv.Atoi(s[:len(s)-1]); err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

// ParseDurationWithDefault is ParseDuration that also accepts a bare integer,
// read in defaultUnit.
func ParseDurationWithDefault(s string, defaultUnit time.Duration) (time.Duration, error) {
	if d, err := ParseDuration(s); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %q (use units like 500%s)", s, suggestUnit(defaultUnit))
	}
	return time.Duration(n) * defaultUnit, nil
}

// suggestUnit returns the short unit suffix for a time.Duration.
func suggestUnit(d time.Duration) string {
	switch d {
	case time.Millisecond:
		return "ms"
	case time.Second:
		return "s"
	case time.Minute:
		return "m"
	case time.Hour:
		return "h"
	default:
		return "ms"
	}
}
