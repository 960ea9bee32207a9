// Package formatting converts between byte counts and the human-readable
// size strings used in configuration values and log output.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

// sizeUnits covers base-1024 magnitudes up to terabytes, the largest size
// a model archive or upload limit plausibly reaches.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with base-1024 units, e.g. "1.5 MB".
// Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}
	if precision < 0 {
		precision = 0
	}

	size := float64(n)
	idx := 0
	for size >= 1024 && idx < len(sizeUnits)-1 {
		size /= 1024
		idx++
	}

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + sizeUnits[idx]
}

// ParseBytes converts a size string such as "50MB" or "1.5 kb" into a byte
// count. A bare number is taken as bytes; the unit is case-insensitive and
// may be separated from the number by a space.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	// Split at the last digit or decimal point.
	split := len(s)
	for split > 0 {
		c := s[split-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		split--
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s[:split]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	unit := strings.ToUpper(strings.TrimSpace(s[split:]))
	if unit == "" {
		return int64(value), nil
	}

	mult := 1.0
	for _, u := range sizeUnits {
		if u == unit {
			return int64(value * mult), nil
		}
		mult *= 1024
	}
	return 0, fmt.Errorf("unknown byte size unit %q", unit)
}
