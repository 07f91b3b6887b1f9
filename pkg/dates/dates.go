package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateFormat is a date-only due value.
	DateFormat = "2006-01-02"
	// DateTimeFormat is a due value with a time component.
	DateTimeFormat = "2006-01-02T15:04"
)

// Clock resolves "today" in a fixed IANA timezone so day boundaries do not
// drift with the process locale.
type Clock struct {
	location *time.Location
}

// NewClock creates a Clock for the given IANA timezone string.
// e.g. "Asia/Jerusalem"
func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Clock{location: loc}, nil
}

// Now returns the current time in the clock's timezone.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.location)
}

// Today returns the current date string in the clock's timezone.
func (c *Clock) Today() string {
	return time.Now().In(c.location).Format(DateFormat)
}

// StartOfDay returns midnight at the start of the given day in the clock's
// timezone.
func (c *Clock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location)
}

// DatePart extracts the date component of a due value, which may be either
// date-only or date-time. Empty input stays empty.
func DatePart(due string) string {
	if len(due) >= len(DateFormat) {
		return due[:len(DateFormat)]
	}
	return due
}

// HasTime reports whether the due value carries a time component.
func HasTime(due string) bool {
	return strings.Contains(due, "T")
}

// Parse converts a due value into a time.Time in loc. Date-only values
// resolve to midnight.
func Parse(due string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if HasTime(due) {
		t, err := time.ParseInLocation(DateTimeFormat, due, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid due time %q: %w", due, err)
		}
		return t, nil
	}
	t, err := time.ParseInLocation(DateFormat, due, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: %w", due, err)
	}
	return t, nil
}

// Valid reports whether due parses as a date or date-time value.
func Valid(due string) bool {
	if due == "" {
		return true
	}
	_, err := Parse(due, time.UTC)
	return err == nil
}

// AddMonths shifts a date string by whole months, clamping like time.Time
// does.
func AddMonths(date string, months int) (string, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, months, 0).Format(DateFormat), nil
}
