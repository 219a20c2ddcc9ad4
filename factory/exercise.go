/*
Package factory provides JSON to Go exercise-object conversion.

PURPOSE:
  Converts JSON exercise and rebate definitions into exercise.Style and
  exercise.RebateSchedule objects. This lets the API accept contract terms
  as data - a desk can describe an exercise schedule in JSON and the
  factory builds the proper Go values.

JSON SCHEMA:
  {
    "exercise": {
      "style": "bermudan",
      "dates": ["2024-03-01", "2024-06-01"],
      "payoff_at_expiry": false
    },
    "rebate": {
      "rebates": [10.0, 20.0],
      "settlement_days": 1,
      "calendar": "weekends",
      "convention": "following"
    }
  }

  European styles use "date"; American styles use "earliest_date" and
  "latest_date" (omit "earliest_date" for a window open since inception).

CALENDAR RESOLUTION:
  "" and "null" resolve to the all-days NullCalendar, "weekends" to the
  weekends-only calendar; any other name is looked up through the
  CalendarSource (the sqlite store in production).

SEE ALSO:
  - exercise package: the constructed objects and their invariants
  - store/sqlite: the production CalendarSource
  - api package: feeds request bodies through this factory
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/exercise-engine/dates"
	"github.com/warp/exercise-engine/exercise"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ExerciseJSON is the JSON representation of an exercise style.
type ExerciseJSON struct {
	Style string `json:"style"` // european, american, bermudan

	// European
	Date string `json:"date,omitempty"`

	// American
	EarliestDate string `json:"earliest_date,omitempty"`
	LatestDate   string `json:"latest_date,omitempty"`

	// Bermudan
	Dates []string `json:"dates,omitempty"`

	PayoffAtExpiry bool `json:"payoff_at_expiry,omitempty"`
}

// RebateJSON is the JSON representation of a rebate schedule. Exactly one of
// Rebate (scalar, broadcast to every date) or Rebates (one per date) must be
// set.
type RebateJSON struct {
	Rebate         *float64  `json:"rebate,omitempty"`
	Rebates        []float64 `json:"rebates,omitempty"`
	SettlementDays int       `json:"settlement_days,omitempty"`
	Calendar       string    `json:"calendar,omitempty"`
	Convention     string    `json:"convention,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// CalendarSource resolves named market calendars. The sqlite store implements
// this; tests may supply a stub.
type CalendarSource interface {
	Calendar(ctx context.Context, name string) (dates.Calendar, error)
}

// Factory converts JSON definitions to exercise objects.
type Factory struct {
	calendars CalendarSource
}

// New creates a factory. A nil source means only the built-in calendars
// ("null", "weekends") are resolvable.
func New(calendars CalendarSource) *Factory {
	return &Factory{calendars: calendars}
}

// ParseExercise parses a JSON string into an exercise style.
func (f *Factory) ParseExercise(jsonStr string) (*exercise.Style, error) {
	var ej ExerciseJSON
	if err := json.Unmarshal([]byte(jsonStr), &ej); err != nil {
		return nil, fmt.Errorf("failed to parse exercise JSON: %w", err)
	}
	return f.BuildExercise(ej)
}

// BuildExercise converts an ExerciseJSON to an exercise.Style.
func (f *Factory) BuildExercise(ej ExerciseJSON) (*exercise.Style, error) {
	switch ej.Style {
	case "european":
		d, err := requireDate("date", ej.Date)
		if err != nil {
			return nil, err
		}
		if ej.PayoffAtExpiry {
			return nil, fmt.Errorf("payoff_at_expiry does not apply to european exercise")
		}
		return exercise.NewEuropean(d), nil

	case "american":
		latest, err := requireDate("latest_date", ej.LatestDate)
		if err != nil {
			return nil, err
		}
		if ej.EarliestDate == "" {
			return exercise.NewAmericanSinceInception(latest, ej.PayoffAtExpiry), nil
		}
		earliest, err := requireDate("earliest_date", ej.EarliestDate)
		if err != nil {
			return nil, err
		}
		return exercise.NewAmerican(earliest, latest, ej.PayoffAtExpiry)

	case "bermudan":
		if len(ej.Dates) == 0 {
			return nil, fmt.Errorf("bermudan exercise requires dates: %w", exercise.ErrNoExerciseDates)
		}
		ds := make([]dates.Date, 0, len(ej.Dates))
		for i, s := range ej.Dates {
			d, err := dates.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("dates[%d]: %w", i, err)
			}
			ds = append(ds, d)
		}
		return exercise.NewBermudan(ds, ej.PayoffAtExpiry)
	}
	return nil, fmt.Errorf("unknown exercise style %q (use european, american, or bermudan)", ej.Style)
}

// BuildRebateSchedule attaches a rebate definition to a built style.
func (f *Factory) BuildRebateSchedule(ctx context.Context, style *exercise.Style, rj RebateJSON) (*exercise.RebateSchedule, error) {
	spec, err := buildSpec(rj)
	if err != nil {
		return nil, err
	}

	cal, err := f.resolveCalendar(ctx, rj.Calendar)
	if err != nil {
		return nil, err
	}

	convention, err := dates.ParseConvention(rj.Convention)
	if err != nil {
		return nil, err
	}
	if rj.SettlementDays < 0 {
		return nil, fmt.Errorf("settlement_days must not be negative, got %d", rj.SettlementDays)
	}

	return exercise.NewRebateSchedule(style, spec, exercise.SettlementTerms{
		Days:       rj.SettlementDays,
		Calendar:   cal,
		Convention: convention,
	})
}

func buildSpec(rj RebateJSON) (exercise.RebateSpec, error) {
	switch {
	case rj.Rebate != nil && len(rj.Rebates) > 0:
		return nil, fmt.Errorf("set either rebate or rebates, not both")
	case rj.Rebate != nil:
		return exercise.ScalarRebate(decimal.NewFromFloat(*rj.Rebate)), nil
	case len(rj.Rebates) > 0:
		amounts := make([]decimal.Decimal, len(rj.Rebates))
		for i, r := range rj.Rebates {
			amounts[i] = decimal.NewFromFloat(r)
		}
		return exercise.PerDateRebates(amounts), nil
	}
	// Neither set: zero rebate on every date.
	return nil, nil
}

func (f *Factory) resolveCalendar(ctx context.Context, name string) (dates.Calendar, error) {
	switch name {
	case "", "null":
		return dates.NullCalendar{}, nil
	case "weekends":
		return dates.WeekendsOnly{}, nil
	}
	if f.calendars == nil {
		return nil, fmt.Errorf("unknown calendar %q", name)
	}
	cal, err := f.calendars.Calendar(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("calendar %q: %w", name, err)
	}
	return cal, nil
}

func requireDate(field, value string) (dates.Date, error) {
	if value == "" {
		return dates.Date{}, fmt.Errorf("%s is required", field)
	}
	d, err := dates.Parse(value)
	if err != nil {
		return dates.Date{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
