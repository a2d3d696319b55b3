// Package utils holds small display helpers shared by the TUI and CLI.
package utils

import (
	"fmt"
	"time"
)

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// HumanBytes renders a byte count as B, KB or MB.
func HumanBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.0f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.0f MB", float64(n)/(1024*1024))
	}
}

// FormatTime renders a timestamp for list and detail views. The zero
// time renders as a dash (e.g. a batch that has not completed).
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
