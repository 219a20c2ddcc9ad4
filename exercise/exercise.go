/*
Package exercise models the exercise style of a financial option contract:
the dates on which the holder may exercise, the timing convention for payoff
settlement, and an optional rebate schedule paid when early exercise forfeits
value.

KEY CONCEPTS IN THIS FILE (exercise.go):
  - Kind:  American, Bermudan, or European
  - Style: An immutable kind tag plus an ordered sequence of exercise dates

DATE SEMANTICS BY KIND:
  European: exactly one date, the expiry.
  Bermudan: a caller-supplied ascending sequence of discrete dates.
  American: exactly two dates bounding a continuous window
            [earliest, latest]; earliest may be the MinDate sentinel,
            meaning "exercisable since contract inception".

The final date is always the contract's expiry. Every value here is immutable
after construction, so unrestricted concurrent reads are safe without
locking.

SEE ALSO:
  - rebate.go: RebateSchedule wrapping a Style
  - errors.go: the contract-violation taxonomy
  - dates package: the Date value and calendar capability
*/
package exercise

import (
	"github.com/warp/exercise-engine/dates"
)

// =============================================================================
// KIND
// =============================================================================

// Kind tags the exercise style of a contract. It is fixed at construction.
type Kind int

const (
	American Kind = iota
	Bermudan
	European
)

func (k Kind) String() string {
	switch k {
	case American:
		return "american"
	case Bermudan:
		return "bermudan"
	case European:
		return "european"
	}
	return "unknown"
}

// =============================================================================
// STYLE
// =============================================================================

// Style is an exercise style: a kind, its candidate exercise dates in
// chronological order, and the payoff-timing flag for early-exercise kinds.
// A Style is immutable once constructed.
type Style struct {
	kind           Kind
	dates          []dates.Date
	payoffAtExpiry bool
}

// NewEuropean creates a European style exercisable only at date d.
func NewEuropean(d dates.Date) *Style {
	return &Style{kind: European, dates: []dates.Date{d}}
}

// NewAmerican creates an American style exercisable at any time in the
// continuous window [earliest, latest]. If payoffAtExpiry is true the payoff
// is computed and delivered as if exercise happened at expiry, even when the
// holder exercises earlier.
//
// Fails with a DateOrderingError when earliest is after latest.
func NewAmerican(earliest, latest dates.Date, payoffAtExpiry bool) (*Style, error) {
	if earliest.After(latest) {
		return nil, &DateOrderingError{Earliest: earliest, Latest: latest}
	}
	return &Style{
		kind:           American,
		dates:          []dates.Date{earliest, latest},
		payoffAtExpiry: payoffAtExpiry,
	}, nil
}

// NewAmericanSinceInception creates an American style with no lower bound:
// the window starts at the MinDate sentinel, read by consumers as
// "exercisable since contract inception".
func NewAmericanSinceInception(latest dates.Date, payoffAtExpiry bool) *Style {
	return &Style{
		kind:           American,
		dates:          []dates.Date{dates.MinDate(), latest},
		payoffAtExpiry: payoffAtExpiry,
	}
}

// NewBermudan creates a Bermudan style exercisable at exactly the supplied
// dates. The sequence is stored verbatim: it is NOT re-sorted or
// de-duplicated, and the caller is responsible for ascending order. If that
// contract is violated, LastDate will not return the true expiry.
//
// Fails only when exerciseDates is empty.
func NewBermudan(exerciseDates []dates.Date, payoffAtExpiry bool) (*Style, error) {
	if len(exerciseDates) == 0 {
		return nil, ErrNoExerciseDates
	}
	ds := make([]dates.Date, len(exerciseDates))
	copy(ds, exerciseDates)
	return &Style{kind: Bermudan, dates: ds, payoffAtExpiry: payoffAtExpiry}, nil
}

// Kind returns the style tag.
func (s *Style) Kind() Kind { return s.kind }

// PayoffAtExpiry reports whether the payoff is computed at expiry rather
// than at the moment of exercise. Always false for European styles, where
// the two coincide.
func (s *Style) PayoffAtExpiry() bool { return s.payoffAtExpiry }

// DateAt returns the exercise date at the given position.
// Fails with an IndexError reporting the valid range [0, n).
func (s *Style) DateAt(index int) (dates.Date, error) {
	if index < 0 || index >= len(s.dates) {
		return dates.Date{}, &IndexError{What: "exercise date", Index: index, Size: len(s.dates)}
	}
	return s.dates[index], nil
}

// Dates returns all candidate exercise dates in chronological order.
// The returned slice is a copy; mutating it does not affect the style.
func (s *Style) Dates() []dates.Date {
	ds := make([]dates.Date, len(s.dates))
	copy(ds, s.dates)
	return ds
}

// LastDate returns the final exercise date, i.e. the contract's expiry.
// Every constructor guarantees at least one date.
func (s *Style) LastDate() dates.Date {
	return s.dates[len(s.dates)-1]
}

// size is the uncopied date count, shared with the rebate schedule.
func (s *Style) size() int { return len(s.dates) }
