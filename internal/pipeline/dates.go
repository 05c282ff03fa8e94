package pipeline

import (
	"strings"
	"time"
)

// dateLayouts are the accepted fecha layouts, tried in order. The first
// successful parse wins; extending support for a new source format means
// appending a layout here.
var dateLayouts = []string{
	"2006-01-02", // year-month-day
	"02-01-2006", // day-month-year
}

// spanishDays maps Monday=0 .. Sunday=6 to the reported day name.
var spanishDays = [7]string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}

// ParseDate attempts each known layout in order and returns the first match.
// Unparseable input yields nil; the caller keeps the row and counts it.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DayName returns the Spanish weekday name for t (Monday first).
func DayName(t time.Time) string {
	return spanishDays[(int(t.Weekday())+6)%7]
}

// DayNames returns the weekday names Monday first, for chart ordering.
func DayNames() []string {
	names := make([]string, len(spanishDays))
	copy(names, spanishDays[:])
	return names
}
