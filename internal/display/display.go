// Package display provides shared formatting helpers for the text report and the TUI.
package display

import (
	"fmt"
	"strings"
	"time"
)

const (
	// BarWidth is the number of cells the longest block of a day fills.
	BarWidth = 30
	// BarCell is the glyph a duration bar is drawn with.
	BarCell = "█"

	ClockLayout     = "15:04"
	DayHeaderLayout = "Monday, Jan 02"
)

// PromptMark prefixes prompt entries in the TUI tree.
const PromptMark = "✍️"

// GapLabel renders an average prompt gap given in seconds:
// minutes with one decimal from 60s up, whole seconds below, "-" for none.
func GapLabel(seconds float64) string {
	switch {
	case seconds >= 60:
		return fmt.Sprintf("%.1fm", seconds/60)
	case seconds > 0:
		return fmt.Sprintf("%.0fs", seconds)
	default:
		return "-"
	}
}

// DurationLabel renders active minutes rounded to a whole number.
func DurationLabel(minutes float64) string {
	return fmt.Sprintf("%.0f min", minutes)
}

// Hours renders minutes as hours with one decimal.
func Hours(minutes float64) string {
	return fmt.Sprintf("%.1fh", minutes/60)
}

// Bar draws a bar proportional to minutes/longest, BarWidth cells at most.
// The cell count is truncated, so short blocks may get no bar at all.
func Bar(minutes, longest float64) string {
	if longest <= 0 || minutes <= 0 {
		return ""
	}
	n := int(minutes / longest * BarWidth)
	if n > BarWidth {
		n = BarWidth
	}
	return strings.Repeat(BarCell, n)
}

// Clock renders the wall-clock time of t as HH:MM.
func Clock(t time.Time) string {
	return t.Format(ClockLayout)
}

// DayHeader renders a calendar date (YYYY-MM-DD) as "Wednesday, Jan 15".
// Dates that do not parse are returned unchanged.
func DayHeader(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format(DayHeaderLayout)
}

// TruncateText truncates text to maxLen characters, replacing newlines with spaces.
// If truncated, adds "..." suffix.
func TruncateText(s string, maxLen int) string {
	text := strings.NewReplacer("\n", " ", "\r", " ").Replace(s)

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
