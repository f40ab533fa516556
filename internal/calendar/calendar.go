// Package calendar has the calendar-day arithmetic shared by reports and alerts.
package calendar

import (
	"math"
	"time"
)

// DateLayout is the layout of date-only fields (expiry dates, campaign and event dates).
const DateLayout = "2006-01-02"

// Day is 24 hours.
const Day = 24 * time.Hour

// ParseDate parses a date-only value at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DaysUntil is the number of started days from now until t, negative when t is past.
func DaysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// DaysBetween counts calendar days from a to b in loc (0 when same day).
func DaysBetween(a, b time.Time, loc *time.Location) int {
	start := StartOfDay(a.In(loc))
	end := StartOfDay(b.In(loc))
	return int(math.Round(end.Sub(start).Hours() / 24))
}
