/*
Package dates provides the calendar-date capabilities the exercise core
consumes: a day-granular Date value, business-day conventions, and the
Calendar capability used to compute settlement dates.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: An immutable calendar date, normalized to UTC midnight
  - MinDate: The "unbounded past" sentinel, ordered before every real date

DESIGN PRINCIPLES:
  1. Immutability: Date is a value type; every operation returns a new Date
  2. Day granularity: Times-of-day are stripped at construction
  3. Purity: No operation here touches clocks, locales, or I/O

USAGE:
  expiry := dates.New(2024, time.June, 21)
  settle := cal.Advance(expiry, 2, dates.Days, dates.Following)

SEE ALSO:
  - calendar.go: Calendar capability and business-day conventions
  - exercise package: consumes Date for exercise schedules
*/
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire/storage format for dates throughout the engine.
const Layout = "2006-01-02"

// Date is an immutable calendar date with day granularity.
// The zero value is MinDate, the "unbounded past" sentinel.
type Date struct {
	t time.Time
}

// New creates a Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime creates a Date from a time.Time, truncating to day granularity.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Parse converts a YYYY-MM-DD string to a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for static dates known to be well-formed. Panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MinDate returns the sentinel date ordered before every real calendar date.
// It stands for "no lower bound": an American window starting at MinDate is
// exercisable from contract inception.
func MinDate() Date {
	return Date{}
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// IsMin reports whether d is the "unbounded past" sentinel.
func (d Date) IsMin() bool { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Time returns the underlying time.Time (UTC midnight).
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsMin() {
		return "unbounded"
	}
	return d.t.Format(Layout)
}
