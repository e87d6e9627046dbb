// Package schedule implements the pure scheduling core: calendar rules,
// recurrence expansion, overlay merging and attendance statistics. Nothing in
// this package performs I/O or reads an ambient clock; "now" is always an
// explicit parameter so the whole pipeline stays deterministic.
package schedule

import "time"

// DateKey renders the local calendar-day key (YYYY-MM-DD). Override maps for
// whole-day state are keyed by it. The local date is used on purpose: a UTC
// conversion would shift days across timezones.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports calendar-day equality, ignoring time of day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWeekend reports whether the date is a Sunday. Saturdays are not blanket
// weekends; only 2nd and 4th Saturdays count as holidays.
func IsWeekend(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// IsSecondOrFourthSaturday reports whether the date is a Saturday falling in
// the 2nd or 4th 7-day bucket of the month. Buckets are anchored to
// day-of-month 1, not calendar weeks: ceil(dayOfMonth/7).
func IsSecondOrFourthSaturday(date time.Time) bool {
	if date.Weekday() != time.Saturday {
		return false
	}
	weekOfMonth := (date.Day() + 6) / 7
	return weekOfMonth == 2 || weekOfMonth == 4
}

// IsHoliday resolves a date against the explicit holiday list and the
// auto-holiday exclusion list. An excluded auto-holiday is never a holiday,
// even when the same date also appears in the explicit list; exclusion only
// cancels auto detection, never an explicit or custom holiday on a date that
// is not auto-detected.
func IsHoliday(date time.Time, holidays, excludedAutoHolidays []time.Time) bool {
	autoHoliday := IsWeekend(date) || IsSecondOrFourthSaturday(date)
	if autoHoliday && containsDay(excludedAutoHolidays, date) {
		return false
	}
	return autoHoliday || containsDay(holidays, date)
}

// HolidayName names an auto-detected holiday; any other holiday gets the
// generic label. Custom holiday names are supplied by the caller and take
// precedence when known.
func HolidayName(date time.Time) string {
	if IsWeekend(date) {
		return "Sunday"
	}
	if IsSecondOrFourthSaturday(date) {
		return "2nd/4th Saturday"
	}
	return "Holiday"
}

func containsDay(dates []time.Time, date time.Time) bool {
	for _, d := range dates {
		if SameDay(d, date) {
			return true
		}
	}
	return false
}
