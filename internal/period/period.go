// Package period does the calendar arithmetic behind budget periods: end
// dates from a start date and a cadence, and half-open range checks.
package period

import (
	"errors"
	"time"
)

// DateLayout is the wire and storage format for period dates.
const DateLayout = "2006-01-02"

// Unit is the calendar unit a budget recurs in.
type Unit string

const (
	Days   Unit = "days"
	Weeks  Unit = "weeks"
	Months Unit = "months"
	Years  Unit = "years"
)

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case Days, Weeks, Months, Years:
		return true
	}
	return false
}

var (
	ErrInvalidLength = errors.New("period length must be greater than zero")
	ErrInvalidUnit   = errors.New("period type must be one of days, weeks, months, years")
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// EndDate returns the exclusive end of a period that starts on start and
// lasts length units. Months and years keep the day of month and clamp to
// the last day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func EndDate(start time.Time, unit Unit, length int) (time.Time, error) {
	if length < 1 {
		return time.Time{}, ErrInvalidLength
	}

	start = Day(start)
	switch unit {
	case Days:
		return start.AddDate(0, 0, length), nil
	case Weeks:
		return start.AddDate(0, 0, 7*length), nil
	case Months:
		return addMonths(start, length), nil
	case Years:
		return addMonths(start, 12*length), nil
	}
	return time.Time{}, ErrInvalidUnit
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// time.Date normalizes month overflow into the year.
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// Range is the half-open date interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// New returns the range of a period starting on start with the given cadence.
func New(start time.Time, unit Unit, length int) (Range, error) {
	end, err := EndDate(start, unit, length)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: Day(start), End: end}, nil
}

// Overlaps reports whether r and o share at least one day.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether day d is inside the range.
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Ended reports whether the range is over as of today. The end date is
// exclusive, so a period has ended on its end date itself.
func (r Range) Ended(today time.Time) bool {
	return !Day(today).Before(r.End)
}
