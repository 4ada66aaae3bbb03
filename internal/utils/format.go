package utils

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes renders a byte count with binary units
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}

	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatAge renders an entry age as a relative phrase ("5 minutes ago")
func FormatAge(age time.Duration) string {
	return humanize.Time(time.Now().Add(-age))
}

// FormatCount renders an entry count with thousands separators
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
