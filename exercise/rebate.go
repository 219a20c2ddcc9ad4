/*
rebate.go - Rebate schedules attached to an exercise style

PURPOSE:
  Associates each exercise date with a rebate amount (positive = paid to the
  holder, negative = paid by the holder) plus the settlement terms needed to
  compute the date the rebate is actually payable.

REBATE SPECS:
  A schedule is built from a RebateSpec variant:
    ScalarRebate(r)     broadcasts r to every exercise date
    PerDateRebates(rs)  supplies one amount per date; the count must match

PAYMENT DATES:
  payment date = calendar.Advance(exercise date, settlementDays, Days,
  convention). Legal only for European and Bermudan styles: a continuous
  American window has no single exercise date until the holder actually
  exercises, so the settlement date must be computed by the caller at that
  moment.

SEE ALSO:
  - exercise.go: the wrapped Style
  - dates package: Calendar and BusinessDayConvention
*/
package exercise

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/warp/exercise-engine/dates"
)

// =============================================================================
// REBATE SPEC - Scalar broadcast or per-date vector
// =============================================================================

// RebateSpec describes the rebate amounts for a schedule. Use ScalarRebate
// or PerDateRebates; a nil spec means a zero rebate on every date.
type RebateSpec interface {
	resolve(dateCount int) ([]decimal.Decimal, error)
}

type scalarRebate struct {
	amount decimal.Decimal
}

// ScalarRebate broadcasts a single amount to every exercise date.
func ScalarRebate(amount decimal.Decimal) RebateSpec {
	return scalarRebate{amount: amount}
}

func (r scalarRebate) resolve(dateCount int) ([]decimal.Decimal, error) {
	rebates := make([]decimal.Decimal, dateCount)
	for i := range rebates {
		rebates[i] = r.amount
	}
	return rebates, nil
}

type perDateRebates struct {
	amounts []decimal.Decimal
}

// PerDateRebates supplies one rebate amount per exercise date, in date order.
func PerDateRebates(amounts []decimal.Decimal) RebateSpec {
	return perDateRebates{amounts: amounts}
}

func (r perDateRebates) resolve(dateCount int) ([]decimal.Decimal, error) {
	if len(r.amounts) != dateCount {
		return nil, &SizeMismatchError{Rebates: len(r.amounts), Dates: dateCount}
	}
	rebates := make([]decimal.Decimal, dateCount)
	copy(rebates, r.amounts)
	return rebates, nil
}

// =============================================================================
// SETTLEMENT TERMS
// =============================================================================

// SettlementTerms carries the parameters turning an exercise date into a
// rebate payment date. The zero value means same-day settlement on the
// NullCalendar under the Following convention.
type SettlementTerms struct {
	Days       int
	Calendar   dates.Calendar
	Convention dates.BusinessDayConvention
}

// =============================================================================
// REBATE SCHEDULE
// =============================================================================

// RebateSchedule wraps an exercise style and attaches one rebate amount per
// exercise date. It delegates the style accessors to the wrapped Style and
// is immutable once constructed; holding the style by pointer is safe
// because nothing is ever written through it.
type RebateSchedule struct {
	style          *Style
	rebates        []decimal.Decimal
	settlementDays int
	calendar       dates.Calendar
	convention     dates.BusinessDayConvention
}

// NewRebateSchedule attaches rebates to an existing exercise style.
// A nil spec attaches a zero rebate to every date. Fails with a
// SizeMismatchError when a per-date vector does not match the date count.
func NewRebateSchedule(style *Style, spec RebateSpec, terms SettlementTerms) (*RebateSchedule, error) {
	if style == nil {
		return nil, errors.New("exercise: nil style")
	}
	if spec == nil {
		spec = ScalarRebate(decimal.Zero)
	}
	rebates, err := spec.resolve(style.size())
	if err != nil {
		return nil, err
	}
	cal := terms.Calendar
	if cal == nil {
		cal = dates.NullCalendar{}
	}
	return &RebateSchedule{
		style:          style,
		rebates:        rebates,
		settlementDays: terms.Days,
		calendar:       cal,
		convention:     terms.Convention,
	}, nil
}

// Style returns the wrapped exercise style.
func (r *RebateSchedule) Style() *Style { return r.style }

// Kind returns the wrapped style's tag.
func (r *RebateSchedule) Kind() Kind { return r.style.Kind() }

// Dates returns the wrapped style's exercise dates.
func (r *RebateSchedule) Dates() []dates.Date { return r.style.Dates() }

// DateAt returns the wrapped style's exercise date at the given position.
func (r *RebateSchedule) DateAt(index int) (dates.Date, error) { return r.style.DateAt(index) }

// LastDate returns the wrapped style's expiry.
func (r *RebateSchedule) LastDate() dates.Date { return r.style.LastDate() }

// RebateAt returns the rebate amount owed when the holder exercises on the
// date at the given position. Fails with an IndexError reporting the valid
// range [0, n-1].
func (r *RebateSchedule) RebateAt(index int) (decimal.Decimal, error) {
	if index < 0 || index >= len(r.rebates) {
		return decimal.Decimal{}, &IndexError{
			What:           "rebate",
			Index:          index,
			Size:           len(r.rebates),
			InclusiveRange: true,
		}
	}
	return r.rebates[index], nil
}

// Rebates returns all rebate amounts in exercise-date order.
// The returned slice is a copy.
func (r *RebateSchedule) Rebates() []decimal.Decimal {
	rs := make([]decimal.Decimal, len(r.rebates))
	copy(rs, r.rebates)
	return rs
}

// SettlementDays returns the day offset between exercise and rebate payment.
func (r *RebateSchedule) SettlementDays() int { return r.settlementDays }

// PaymentCalendar returns the calendar used to compute payment dates.
func (r *RebateSchedule) PaymentCalendar() dates.Calendar { return r.calendar }

// PaymentConvention returns the business-day convention for payment dates.
func (r *RebateSchedule) PaymentConvention() dates.BusinessDayConvention { return r.convention }

// RebatePaymentDateAt returns the date the rebate for the exercise date at
// the given position is actually payable:
//
//	calendar.Advance(exerciseDate, settlementDays, Days, convention)
//
// Legal only for European and Bermudan styles. For American styles it fails
// with an UnsupportedStyleError: a continuous window has no well-defined
// exercise date until the holder exercises, so the settlement date must be
// computed by the caller at that moment.
func (r *RebateSchedule) RebatePaymentDateAt(index int) (dates.Date, error) {
	if r.style.Kind() == American {
		return dates.Date{}, &UnsupportedStyleError{Kind: r.style.Kind(), Op: "rebate payment date"}
	}
	d, err := r.style.DateAt(index)
	if err != nil {
		return dates.Date{}, err
	}
	return r.calendar.Advance(d, r.settlementDays, dates.Days, r.convention), nil
}
