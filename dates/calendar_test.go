package dates_test

import (
	"testing"
	"time"

	"github.com/warp/exercise-engine/dates"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(y int, m time.Month, d int) dates.Date { return dates.New(y, m, d) }

// =============================================================================
// NULL CALENDAR
// =============================================================================

func TestNullCalendar_EveryDayIsBusinessDay(t *testing.T) {
	cal := dates.NullCalendar{}

	saturday := date(2024, time.June, 22)
	if !cal.IsBusinessDay(saturday) {
		t.Error("null calendar should treat Saturday as a business day")
	}
	if got := cal.Adjust(saturday, dates.Following); !got.Equal(saturday) {
		t.Errorf("Adjust on null calendar should be identity, got %v", got)
	}
}

func TestNullCalendar_AdvanceDays(t *testing.T) {
	// GIVEN: A Friday expiry and 2 settlement days on an all-days calendar
	cal := dates.NullCalendar{}
	expiry := date(2024, time.June, 21)

	// WHEN: Advancing two days
	got := cal.Advance(expiry, 2, dates.Days, dates.Following)

	// THEN: The result is the raw calendar date two days later (a Sunday)
	if want := date(2024, time.June, 23); !got.Equal(want) {
		t.Errorf("Advance = %v, want %v", got, want)
	}
}

// =============================================================================
// WEEKENDS-ONLY CALENDAR
// =============================================================================

func TestWeekendsOnly_AdvanceSkipsWeekend(t *testing.T) {
	cal := dates.WeekendsOnly{}
	friday := date(2024, time.June, 21)

	// One business day after Friday is Monday.
	if got, want := cal.Advance(friday, 1, dates.Days, dates.Following), date(2024, time.June, 24); !got.Equal(want) {
		t.Errorf("Advance(+1) = %v, want %v", got, want)
	}
	// One business day back from Monday is Friday.
	if got, want := cal.Advance(date(2024, time.June, 24), -1, dates.Days, dates.Following), friday; !got.Equal(want) {
		t.Errorf("Advance(-1) = %v, want %v", got, want)
	}
}

func TestWeekendsOnly_AdvanceZeroAdjusts(t *testing.T) {
	cal := dates.WeekendsOnly{}
	saturday := date(2024, time.June, 22)

	if got, want := cal.Advance(saturday, 0, dates.Days, dates.Following), date(2024, time.June, 24); !got.Equal(want) {
		t.Errorf("Advance(0, Following) = %v, want %v", got, want)
	}
	if got := cal.Advance(saturday, 0, dates.Days, dates.Unadjusted); !got.Equal(saturday) {
		t.Errorf("Advance(0, Unadjusted) = %v, want %v", got, saturday)
	}
}

func TestWeekendsOnly_Conventions(t *testing.T) {
	cal := dates.WeekendsOnly{}

	// 2024-06-29 is a Saturday; 2024-06-30 a Sunday (month end).
	saturday := date(2024, time.June, 29)
	sunday := date(2024, time.June, 30)

	cases := []struct {
		name       string
		in         dates.Date
		convention dates.BusinessDayConvention
		want       dates.Date
	}{
		{"following rolls forward", saturday, dates.Following, date(2024, time.July, 1)},
		{"preceding rolls back", saturday, dates.Preceding, date(2024, time.June, 28)},
		{"unadjusted keeps the date", saturday, dates.Unadjusted, saturday},
		// Modified following would land in July, so it falls back
		// to the last business day of June.
		{"modified following stays in month", sunday, dates.ModifiedFollowing, date(2024, time.June, 28)},
		{"modified preceding on plain date", date(2024, time.June, 24), dates.ModifiedPreceding, date(2024, time.June, 24)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cal.Adjust(tc.in, tc.convention); !got.Equal(tc.want) {
				t.Errorf("Adjust(%v, %v) = %v, want %v", tc.in, tc.convention, got, tc.want)
			}
		})
	}
}

func TestModifiedPreceding_CrossesMonthStart(t *testing.T) {
	cal := dates.WeekendsOnly{}

	// 2024-09-01 is a Sunday. Preceding would land in August, so modified
	// preceding rolls forward to Monday 2024-09-02 instead.
	if got, want := cal.Adjust(date(2024, time.September, 1), dates.ModifiedPreceding), date(2024, time.September, 2); !got.Equal(want) {
		t.Errorf("Adjust = %v, want %v", got, want)
	}
}

func TestWeekendsOnly_AdvanceMonths(t *testing.T) {
	cal := dates.WeekendsOnly{}

	// One month after 2024-05-21 (Tue) is 2024-06-21 (Fri), already a
	// business day.
	if got, want := cal.Advance(date(2024, time.May, 21), 1, dates.Months, dates.Following), date(2024, time.June, 21); !got.Equal(want) {
		t.Errorf("Advance(1, Months) = %v, want %v", got, want)
	}
	// One month after 2024-05-22 (Wed) is 2024-06-22 (Sat): rolls to Monday.
	if got, want := cal.Advance(date(2024, time.May, 22), 1, dates.Months, dates.Following), date(2024, time.June, 24); !got.Equal(want) {
		t.Errorf("Advance(1, Months) over weekend = %v, want %v", got, want)
	}
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func TestHolidayCalendar_SkipsHolidays(t *testing.T) {
	// GIVEN: A market calendar with 2024-06-24 (Monday) as a holiday
	cal := dates.NewHolidayCalendar("test-market", []dates.Date{date(2024, time.June, 24)})

	// THEN: The holiday is not a business day, weekends are not either
	if cal.IsBusinessDay(date(2024, time.June, 24)) {
		t.Error("holiday should not be a business day")
	}
	if cal.IsBusinessDay(date(2024, time.June, 22)) {
		t.Error("Saturday should not be a business day")
	}
	if !cal.IsBusinessDay(date(2024, time.June, 25)) {
		t.Error("ordinary Tuesday should be a business day")
	}

	// WHEN: Advancing one business day from Friday 2024-06-21
	// THEN: Saturday, Sunday, and the Monday holiday are all skipped
	if got, want := cal.Advance(date(2024, time.June, 21), 1, dates.Days, dates.Following), date(2024, time.June, 25); !got.Equal(want) {
		t.Errorf("Advance = %v, want %v", got, want)
	}
}

func TestHolidayCalendar_Name(t *testing.T) {
	cal := dates.NewHolidayCalendar("krx", nil)
	if cal.Name() != "krx" {
		t.Errorf("Name() = %q", cal.Name())
	}
}

// =============================================================================
// CONVENTION PARSING
// =============================================================================

func TestParseConvention(t *testing.T) {
	cases := map[string]dates.BusinessDayConvention{
		"":                   dates.Following,
		"following":          dates.Following,
		"modified_following": dates.ModifiedFollowing,
		"preceding":          dates.Preceding,
		"modified_preceding": dates.ModifiedPreceding,
		"unadjusted":         dates.Unadjusted,
	}
	for in, want := range cases {
		got, err := dates.ParseConvention(in)
		if err != nil {
			t.Errorf("ParseConvention(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseConvention(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := dates.ParseConvention("nearest"); err == nil {
		t.Error("expected error for unknown convention")
	}
}

func TestConventionStrings_RoundTrip(t *testing.T) {
	for _, name := range dates.Conventions() {
		c, err := dates.ParseConvention(name)
		if err != nil {
			t.Fatalf("ParseConvention(%q) failed: %v", name, err)
		}
		if c.String() != name {
			t.Errorf("String() = %q, want %q", c.String(), name)
		}
	}
}
