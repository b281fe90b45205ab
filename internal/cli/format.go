package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatWinRate formats a win rate percentage with one decimal.
func FormatWinRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// FormatTimestamp formats t in local time with the configured layouts.
func FormatTimestamp(t time.Time, dateLayout, timeLayout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout + " " + timeLayout)
}

// ShortID shortens a trade id for tables. UUIDs keep their random tail,
// which stays unique where the time ordered prefix does not.
func ShortID(id string) string {
	if len(id) == 36 && strings.Count(id, "-") == 4 {
		return id[len(id)-8:]
	}
	return TruncateString(id, 13)
}

// ExportFileName is the default export file name for a given day.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("trading-journal-%s.json", t.Format("2006-01-02"))
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
