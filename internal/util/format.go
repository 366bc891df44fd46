package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate formats a date string (YYYY-MM-DD) for display.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return "Unknown"
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02, 2006")
}

// FormatDateRange formats a trip's start and end dates for display.
func FormatDateRange(start, end string) string {
	s, errS := time.Parse("2006-01-02", strings.TrimSpace(start))
	e, errE := time.Parse("2006-01-02", strings.TrimSpace(end))
	if errS != nil || errE != nil {
		return start + " – " + end
	}
	if s.Year() == e.Year() {
		return fmt.Sprintf("%s – %s", s.Format("Jan 02"), e.Format("Jan 02, 2006"))
	}
	return fmt.Sprintf("%s – %s", s.Format("Jan 02, 2006"), e.Format("Jan 02, 2006"))
}

// TripDays returns the number of days a trip spans, inclusive. Zero when the
// dates do not parse.
func TripDays(start, end string) int {
	s, errS := time.Parse("2006-01-02", strings.TrimSpace(start))
	e, errE := time.Parse("2006-01-02", strings.TrimSpace(end))
	if errS != nil || errE != nil || e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// FormatDuration renders minutes as "2h 15m" / "45m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// FormatCost renders a cost with its currency, omitting trailing cents when
// the amount is whole.
func FormatCost(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%s %d", currency, int64(amount))
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// Truncate shortens a string to width runes, appending an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
