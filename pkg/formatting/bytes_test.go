package formatting_test

import (
	"testing"

	"github.com/fra-atlas/atlas/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare count", "4096", 4096, false},
		{"byte unit", "512B", 512, false},
		{"kilobytes", "64KB", 64 << 10, false},
		{"default upload limit", "50MB", 50 << 20, false},
		{"fractional", "1.5MB", 3 << 19, false},
		{"lowercase", "10mb", 10 << 20, false},
		{"spaced", "2 GB", 2 << 30, false},
		{"padded", "  8MB ", 8 << 20, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"unit only", "MB", 0, true},
		{"negative", "-5MB", 0, true},
		{"unknown unit", "5XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{16, 0, "16 B"},
		{1023, 1, "1023 B"},
		{1 << 10, 0, "1 KB"},
		{50 << 20, 0, "50 MB"},
		{3 << 19, 1, "1.5 MB"},
		{3 << 19, -1, "2 MB"},
		{-(2 << 20), 0, "-2 MB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}

func TestFormatParseAgree(t *testing.T) {
	for _, n := range []int64{0, 700, 32 << 10, 50 << 20, 3 << 30} {
		got, err := formatting.ParseBytes(formatting.FormatBytes(n, 0))
		if err != nil {
			t.Fatalf("round trip %d: %v", n, err)
		}
		if got != n {
			t.Errorf("round trip %d = %d", n, got)
		}
	}
}
