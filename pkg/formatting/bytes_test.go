package formatting_test

import (
	"testing"

	"github.com/physiome-tools/opbmap/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 1, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 1, "2.0 KB"},
		{"megabytes", 50 * 1024 * 1024, 0, "50 MB"},
		{"negative precision clamped", 1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"bare number", "1024", 1024},
		{"bytes unit", "512B", 512},
		{"megabytes", "50MB", 50 * 1024 * 1024},
		{"lowercase unit", "2kb", 2048},
		{"space before unit", "1 GB", 1024 * 1024 * 1024},
		{"fractional", "1.5KB", 1536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if err != nil {
				t.Fatalf("ParseBytes(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBytesRejects(t *testing.T) {
	for _, input := range []string{"", "abc", "10XB", "-5MB", "2PB"} {
		if _, err := formatting.ParseBytes(input); err == nil {
			t.Errorf("ParseBytes(%q) expected error", input)
		}
	}
}
