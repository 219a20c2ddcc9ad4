/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Schedules:
    PreviewScheduleRequest, SchedulePreviewDTO, ScheduleEntryDTO
  Exercises:
    ExerciseValidationDTO (wraps factory.ExerciseJSON input)
  Calendars:
    CalendarDTO, CreateCalendarRequest, HolidayDTO, CreateHolidayRequest

VALIDATION:
  Validation is done in handlers and the factory, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory package: ExerciseJSON / RebateJSON request schemas
*/
package api

import (
	"github.com/warp/exercise-engine/factory"
)

// =============================================================================
// SCHEDULE PREVIEW
// =============================================================================

// PreviewScheduleRequest describes an exercise style plus an optional rebate
// definition to evaluate.
type PreviewScheduleRequest struct {
	Exercise factory.ExerciseJSON `json:"exercise"`
	Rebate   *factory.RebateJSON  `json:"rebate,omitempty"`
}

// ScheduleEntryDTO is one exercise date of a previewed schedule.
// PaymentDate is omitted for American styles, whose settlement date is only
// defined at the moment of actual exercise.
type ScheduleEntryDTO struct {
	Index        int    `json:"index"`
	ExerciseDate string `json:"exercise_date"`
	Rebate       string `json:"rebate"`
	PaymentDate  string `json:"payment_date,omitempty"`
}

// SchedulePreviewDTO is the evaluated schedule.
type SchedulePreviewDTO struct {
	Style          string             `json:"style"`
	LastDate       string             `json:"last_date"`
	PayoffAtExpiry bool               `json:"payoff_at_expiry"`
	SettlementDays int                `json:"settlement_days"`
	Calendar       string             `json:"calendar"`
	Convention     string             `json:"convention"`
	Entries        []ScheduleEntryDTO `json:"entries"`
}

// =============================================================================
// EXERCISE VALIDATION
// =============================================================================

// ExerciseValidationDTO is the normalized form of a validated exercise
// definition.
type ExerciseValidationDTO struct {
	Style          string   `json:"style"`
	Dates          []string `json:"dates"`
	LastDate       string   `json:"last_date"`
	PayoffAtExpiry bool     `json:"payoff_at_expiry"`
}

// =============================================================================
// CALENDARS
// =============================================================================

// CalendarDTO represents a stored market calendar.
type CalendarDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateCalendarRequest is the request to create or update a calendar.
type CreateCalendarRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HolidayDTO represents a stored holiday.
type HolidayDTO struct {
	ID           int64  `json:"id"`
	CalendarName string `json:"calendar_name"`
	Date         string `json:"date"`
	Label        string `json:"label,omitempty"`
}

// CreateHolidayRequest is the request to add a holiday to a calendar.
type CreateHolidayRequest struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
