package common

import "time"

// DateKeyFormat is the calendar-date key layout used across persisted state.
const DateKeyFormat = "2006-01-02"

// DateKey returns the calendar-date key for t.
func DateKey(t time.Time) string {
	return t.Format(DateKeyFormat)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsTradingDay reports whether t is a weekday that is not in the configured
// holiday list. Holidays are calendar dates in "2006-01-02" form.
func IsTradingDay(t time.Time, holidays []string) bool {
	if IsWeekend(t) {
		return false
	}
	key := DateKey(t)
	for _, h := range holidays {
		if h == key {
			return false
		}
	}
	return true
}

// WeekStart returns the Monday of the week containing t, at midnight in t's
// location.
func WeekStart(t time.Time) time.Time {
	daysBack := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	monday := t.AddDate(0, 0, -daysBack)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// NextWeekStart returns the upcoming Monday at midnight. If t is already a
// Monday the same day is returned, so a reset on Monday anchors that Monday.
func NextWeekStart(t time.Time) time.Time {
	daysAhead := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	monday := t.AddDate(0, 0, daysAhead)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
