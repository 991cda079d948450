package shared

import "time"

// Clock supplies the current time. Date-dependent rules (due dates, lateness)
// read "today" through it so tests can pin the calendar.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// DateOf truncates t to its calendar date, expressed at midnight UTC.
// The calendar day is read in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date according to clock
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}

// DaysBetween returns the number of whole days from a to b (both calendar dates)
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
