package persistence

import "time"

// dayBounds maps a timestamp to its UTC calendar-day window [start, end).
// Period boundaries and entry dates carry day precision in the domain, so
// date queries must compare whole days rather than raw timestamps.
func dayBounds(t time.Time) (start, end time.Time) {
	u := t.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
