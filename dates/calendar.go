/*
calendar.go - Business-day calendars and date adjustment

PURPOSE:
  Implements the Calendar capability consumed by rebate schedules: given an
  exercise date, a settlement offset, and a business-day convention, produce
  the date a cash amount is actually payable.

CONVENTIONS:
  Following:         next business day
  ModifiedFollowing: next business day, unless that crosses a month boundary,
                     in which case the preceding business day
  Preceding:         previous business day
  ModifiedPreceding: previous business day, unless that crosses a month
                     boundary, in which case the following business day
  Unadjusted:        no adjustment

CALENDARS:
  NullCalendar:    every day is a business day (the default for rebate
                   settlement when no market calendar applies)
  WeekendsOnly:    Saturdays and Sundays are non-business days
  HolidayCalendar: weekends plus an explicit holiday set (typically loaded
                   from the sqlite store)

All calendars are pure values, safe for unrestricted concurrent use.

SEE ALSO:
  - date.go: the Date value
  - store/sqlite: persistence of named holiday calendars
*/
package dates

import "fmt"

// =============================================================================
// BUSINESS-DAY CONVENTIONS
// =============================================================================

// BusinessDayConvention selects how a date landing on a non-business day is
// shifted onto a valid one. The zero value is Following.
type BusinessDayConvention int

const (
	Following BusinessDayConvention = iota
	ModifiedFollowing
	Preceding
	ModifiedPreceding
	Unadjusted
)

func (c BusinessDayConvention) String() string {
	switch c {
	case Following:
		return "following"
	case ModifiedFollowing:
		return "modified_following"
	case Preceding:
		return "preceding"
	case ModifiedPreceding:
		return "modified_preceding"
	case Unadjusted:
		return "unadjusted"
	}
	return "unknown"
}

// ParseConvention converts a convention name to its enum value.
// The empty string maps to Following, the default everywhere in the engine.
func ParseConvention(s string) (BusinessDayConvention, error) {
	switch s {
	case "", "following":
		return Following, nil
	case "modified_following":
		return ModifiedFollowing, nil
	case "preceding":
		return Preceding, nil
	case "modified_preceding":
		return ModifiedPreceding, nil
	case "unadjusted":
		return Unadjusted, nil
	}
	return Following, fmt.Errorf("unknown business day convention %q", s)
}

// Conventions lists every supported convention name.
func Conventions() []string {
	return []string{"following", "modified_following", "preceding", "modified_preceding", "unadjusted"}
}

// TimeUnit is the unit of a calendar offset. The zero value is Days.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

func (u TimeUnit) String() string {
	switch u {
	case Days:
		return "days"
	case Weeks:
		return "weeks"
	case Months:
		return "months"
	case Years:
		return "years"
	}
	return "unknown"
}

// =============================================================================
// CALENDAR CAPABILITY
// =============================================================================

// Calendar decides which days are business days and applies date adjustments.
// Implementations must be deterministic, side-effect free, and safe for
// concurrent use.
type Calendar interface {
	Name() string
	IsBusinessDay(d Date) bool

	// Adjust shifts d onto a business day under the given convention.
	Adjust(d Date, convention BusinessDayConvention) Date

	// Advance moves d by n units and adjusts the result. For Days the offset
	// is counted in business days; n == 0 just adjusts d.
	Advance(d Date, n int, unit TimeUnit, convention BusinessDayConvention) Date
}

// adjust implements every convention over a business-day predicate.
func adjust(isBusinessDay func(Date) bool, d Date, convention BusinessDayConvention) Date {
	switch convention {
	case Unadjusted:
		return d

	case Following, ModifiedFollowing:
		adj := d
		for !isBusinessDay(adj) {
			adj = adj.AddDays(1)
		}
		if convention == ModifiedFollowing && adj.Month() != d.Month() {
			return adjust(isBusinessDay, d, Preceding)
		}
		return adj

	case Preceding, ModifiedPreceding:
		adj := d
		for !isBusinessDay(adj) {
			adj = adj.AddDays(-1)
		}
		if convention == ModifiedPreceding && adj.Month() != d.Month() {
			return adjust(isBusinessDay, d, Following)
		}
		return adj
	}
	return d
}

// advance implements Advance over any Calendar.
func advance(cal Calendar, d Date, n int, unit TimeUnit, convention BusinessDayConvention) Date {
	if n == 0 {
		return cal.Adjust(d, convention)
	}
	switch unit {
	case Days:
		step := 1
		if n < 0 {
			step, n = -1, -n
		}
		cur := d
		for i := 0; i < n; i++ {
			cur = cur.AddDays(step)
			for !cal.IsBusinessDay(cur) {
				cur = cur.AddDays(step)
			}
		}
		return cur
	case Weeks:
		return cal.Adjust(d.AddDays(7*n), convention)
	case Months:
		return cal.Adjust(d.AddMonths(n), convention)
	case Years:
		return cal.Adjust(d.AddYears(n), convention)
	}
	return d
}

// =============================================================================
// IMPLEMENTATIONS
// =============================================================================

// NullCalendar treats every day as a business day. It is the default payment
// calendar for rebate schedules.
type NullCalendar struct{}

func (NullCalendar) Name() string            { return "null" }
func (NullCalendar) IsBusinessDay(Date) bool { return true }

func (c NullCalendar) Adjust(d Date, convention BusinessDayConvention) Date {
	return adjust(c.IsBusinessDay, d, convention)
}

func (c NullCalendar) Advance(d Date, n int, unit TimeUnit, convention BusinessDayConvention) Date {
	return advance(c, d, n, unit, convention)
}

// WeekendsOnly treats Saturdays and Sundays as the only non-business days.
type WeekendsOnly struct{}

func (WeekendsOnly) Name() string { return "weekends" }

func (WeekendsOnly) IsBusinessDay(d Date) bool { return !d.IsWeekend() }

func (c WeekendsOnly) Adjust(d Date, convention BusinessDayConvention) Date {
	return adjust(c.IsBusinessDay, d, convention)
}

func (c WeekendsOnly) Advance(d Date, n int, unit TimeUnit, convention BusinessDayConvention) Date {
	return advance(c, d, n, unit, convention)
}

// HolidayCalendar is a weekend calendar with an explicit holiday set,
// typically a named market calendar loaded from the store.
type HolidayCalendar struct {
	name     string
	holidays map[string]struct{}
}

// NewHolidayCalendar builds a calendar from a name and its holiday dates.
// The holiday slice is copied; the calendar is immutable afterwards.
func NewHolidayCalendar(name string, holidays []Date) *HolidayCalendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.String()] = struct{}{}
	}
	return &HolidayCalendar{name: name, holidays: set}
}

func (c *HolidayCalendar) Name() string { return c.name }

func (c *HolidayCalendar) IsBusinessDay(d Date) bool {
	if d.IsWeekend() {
		return false
	}
	_, holiday := c.holidays[d.String()]
	return !holiday
}

func (c *HolidayCalendar) Adjust(d Date, convention BusinessDayConvention) Date {
	return adjust(c.IsBusinessDay, d, convention)
}

func (c *HolidayCalendar) Advance(d Date, n int, unit TimeUnit, convention BusinessDayConvention) Date {
	return advance(c, d, n, unit, convention)
}
