package models

import "time"

// DateLayout is the calendar date format used throughout: ISO 8601
// date-only strings, which compare correctly as plain strings.
const DateLayout = "2006-01-02"

// DateOf formats a time as a calendar date string.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// DateAfterDays returns the date the given number of days after t.
func DateAfterDays(t time.Time, days int) string {
	return t.AddDate(0, 0, days).Format(DateLayout)
}
