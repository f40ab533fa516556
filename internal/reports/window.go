package reports

import (
	"fmt"
	"time"

	"api_retail/internal/apperr"
	"api_retail/internal/calendar"
)

// Period names a report window.
type Period string

const (
	Today Period = "today"
	Week  Period = "week"
	Month Period = "month"
	Date  Period = "date"
	All   Period = "all"
)

// Window selects the sales a report covers. Calendar periods are evaluated
// in the store's location.
type Window struct {
	Period Period
	Day    time.Time
}

// ParseWindow builds a window from its period name and, for Date, a YYYY-MM-DD day.
func ParseWindow(period, day string, loc *time.Location) (Window, error) {
	if period == "" {
		period = string(All)
	}
	switch p := Period(period); p {
	case Today, Week, Month, All:
		return Window{Period: p}, nil
	case Date:
		if day == "" {
			return Window{}, apperr.Validation("date", "is required for a date window")
		}
		d, err := calendar.ParseDate(day, loc)
		if err != nil {
			return Window{}, apperr.Validation("date", fmt.Sprintf("must be YYYY-MM-DD, got %q", day))
		}
		return Window{Period: Date, Day: d}, nil
	default:
		return Window{}, apperr.Validation("period", fmt.Sprintf("unknown period %q", period))
	}
}

// Match returns the predicate for the window as seen at now.
func (w Window) Match(now time.Time, loc *time.Location) func(time.Time) bool {
	switch w.Period {
	case Today:
		return func(t time.Time) bool { return calendar.SameDay(t, now, loc) }
	case Week:
		since := now.Add(-7 * calendar.Day)
		return func(t time.Time) bool { return !t.Before(since) && !t.After(now) }
	case Month:
		y, m, _ := now.In(loc).Date()
		return func(t time.Time) bool {
			ty, tm, _ := t.In(loc).Date()
			return ty == y && tm == m
		}
	case Date:
		return func(t time.Time) bool { return calendar.SameDay(t, w.Day, loc) }
	default:
		return func(time.Time) bool { return true }
	}
}

// Since is a rolling window of the last d before now.
func Since(now time.Time, d time.Duration) func(time.Time) bool {
	from := now.Add(-d)
	return func(t time.Time) bool { return !t.Before(from) && !t.After(now) }
}
