/*
errors.go - Centralized error types for the exercise core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every failure in this package is a contract violation: callers passed an
  index, a size, or an operation the constructed object cannot honor.
  Nothing here is transient and nothing is ever retried.

ERROR CATEGORIES:
  1. Index errors     - Accessor called past the end of a schedule
  2. Shape errors     - Rebate vector does not match the date vector
  3. Legality errors  - Operation undefined for the exercise style

USAGE:
  Callers classify with errors.Is:

    if errors.Is(err, exercise.ErrUnsupportedStyle) {
        // compute the settlement date at actual exercise time instead
    }

SEE ALSO:
  - exercise.go: raises index and ordering errors
  - rebate.go: raises shape and legality errors
*/
package exercise

import (
	"errors"
	"fmt"

	"github.com/warp/exercise-engine/dates"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrIndexOutOfRange is returned when an indexed accessor is called with
	// an index past the end of the exercise-date or rebate sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSizeMismatch is returned when a per-date rebate vector does not have
	// exactly one entry per exercise date.
	ErrSizeMismatch = errors.New("rebate count does not match exercise date count")

	// ErrUnsupportedStyle is returned when an operation is undefined for the
	// exercise style, e.g. a precomputed rebate payment date for a continuous
	// American window.
	ErrUnsupportedStyle = errors.New("operation not supported for exercise style")

	// ErrInvalidDateOrdering is returned when an American window is
	// constructed with its earliest date after its latest date.
	ErrInvalidDateOrdering = errors.New("exercise dates out of order")

	// ErrNoExerciseDates is returned when a Bermudan style is constructed
	// with an empty date sequence. Every accessor assumes at least one date.
	ErrNoExerciseDates = errors.New("no exercise dates supplied")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IndexError reports an out-of-range indexed access together with the range
// that would have been valid.
type IndexError struct {
	What  string // "exercise date" or "rebate"
	Index int
	Size  int

	// InclusiveRange selects how the valid range is reported: rebate lookups
	// report the closed range [0, n-1], date lookups the half-open [0, n).
	InclusiveRange bool
}

func (e *IndexError) Error() string {
	if e.InclusiveRange {
		return fmt.Sprintf("%s with index %d does not exist (valid range [0, %d])",
			e.What, e.Index, e.Size-1)
	}
	return fmt.Sprintf("%s with index %d does not exist (valid range [0, %d))",
		e.What, e.Index, e.Size)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// SizeMismatchError reports a rebate vector whose length does not match the
// exercise-date vector it was supplied for.
type SizeMismatchError struct {
	Rebates int
	Dates   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%d rebates supplied for %d exercise dates", e.Rebates, e.Dates)
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

// UnsupportedStyleError reports an operation that is undefined for the
// style of the wrapped exercise.
type UnsupportedStyleError struct {
	Kind Kind
	Op   string
}

func (e *UnsupportedStyleError) Error() string {
	return fmt.Sprintf("%s is undefined for %s exercise: settlement must be computed by the caller at the time of actual exercise",
		e.Op, e.Kind)
}

func (e *UnsupportedStyleError) Unwrap() error { return ErrUnsupportedStyle }

// DateOrderingError reports an American window whose bounds are reversed.
type DateOrderingError struct {
	Earliest dates.Date
	Latest   dates.Date
}

func (e *DateOrderingError) Error() string {
	return fmt.Sprintf("earliest exercise date %s is after latest exercise date %s",
		e.Earliest, e.Latest)
}

func (e *DateOrderingError) Unwrap() error { return ErrInvalidDateOrdering }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsContractViolation reports whether err is one of the precondition
// violations raised by this package. API layers map these to client errors.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrSizeMismatch) ||
		errors.Is(err, ErrUnsupportedStyle) ||
		errors.Is(err, ErrInvalidDateOrdering) ||
		errors.Is(err, ErrNoExerciseDates)
}
