package utils

import (
	"testing"
	"time"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", "****"},
		{"short", "sk-123", "****"},
		{"exactly eight", "12345678", "****"},
		{"normal key", "sk-abcdefghijklmnop", "sk-a****mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.key); got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"boundary to kb", 1024, "1 KB"},
		{"kilobytes", 10 * 1024, "10 KB"},
		{"rounded kb", 1536, "2 KB"},
		{"megabytes", 5 * 1024 * 1024, "5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HumanBytes(tt.n); got != tt.want {
				t.Errorf("HumanBytes(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "-" {
		t.Errorf("FormatTime(zero) = %q, want -", got)
	}

	ts := time.Date(2024, 6, 1, 13, 5, 0, 0, time.UTC)
	if got := FormatTime(ts); got != "2024-06-01 13:05" {
		t.Errorf("FormatTime() = %q, want 2024-06-01 13:05", got)
	}
}
