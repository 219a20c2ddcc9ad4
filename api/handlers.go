/*
handlers.go - HTTP API handlers for the exercise engine

PURPOSE:
  Exposes exercise-schedule evaluation via REST. Handles HTTP
  request/response, JSON serialization, and delegates to the factory and
  the exercise core.

ENDPOINTS:
  Schedules:
    POST   /api/schedules/preview       Evaluate an exercise + rebate definition
    POST   /api/exercises/validate      Normalize and validate an exercise definition

  Calendars:
    GET    /api/calendars               List stored market calendars
    POST   /api/calendars               Create/update a calendar
    GET    /api/calendars/{name}/holidays  List a calendar's holidays
    POST   /api/calendars/{name}/holidays  Add a holiday
    DELETE /api/holidays/{id}           Remove a holiday

  Reference:
    GET    /api/conventions             Supported business-day conventions

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Contract violations (bad indices, size mismatch, reversed windows,
         unsupported style operations), malformed definitions
  - 404: Unknown calendar or holiday
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - factory package: JSON to exercise-object conversion
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/exercise-engine/dates"
	"github.com/warp/exercise-engine/exercise"
	"github.com/warp/exercise-engine/factory"
	"github.com/warp/exercise-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.Factory
}

// NewHandler creates a new handler with the given store. The store doubles
// as the calendar source for the factory.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.New(store),
	}
}

// =============================================================================
// SCHEDULE ENDPOINTS
// =============================================================================

// PreviewSchedule evaluates an exercise + rebate definition and returns the
// full schedule: every exercise date with its rebate and, where legal, its
// payment date.
// POST /api/schedules/preview
func (h *Handler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PreviewScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	style, err := h.Factory.BuildExercise(req.Exercise)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid exercise definition", err)
		return
	}

	var rebate factory.RebateJSON
	if req.Rebate != nil {
		rebate = *req.Rebate
	}
	schedule, err := h.Factory.BuildRebateSchedule(ctx, style, rebate)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sqlite.ErrCalendarNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, "Invalid rebate definition", err)
		return
	}

	dto := SchedulePreviewDTO{
		Style:          schedule.Kind().String(),
		LastDate:       schedule.LastDate().String(),
		PayoffAtExpiry: style.PayoffAtExpiry(),
		SettlementDays: schedule.SettlementDays(),
		Calendar:       schedule.PaymentCalendar().Name(),
		Convention:     schedule.PaymentConvention().String(),
	}

	for i, d := range schedule.Dates() {
		amount, err := schedule.RebateAt(i)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to evaluate schedule", err)
			return
		}
		entry := ScheduleEntryDTO{
			Index:        i,
			ExerciseDate: d.String(),
			Rebate:       amount.String(),
		}
		// American windows have no precomputed payment date; the entry
		// simply omits it.
		if schedule.Kind() != exercise.American {
			paid, err := schedule.RebatePaymentDateAt(i)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to evaluate schedule", err)
				return
			}
			entry.PaymentDate = paid.String()
		}
		dto.Entries = append(dto.Entries, entry)
	}

	writeJSON(w, http.StatusOK, dto)
}

// ValidateExercise builds an exercise definition and returns its normalized
// schedule without attaching rebates.
// POST /api/exercises/validate
func (h *Handler) ValidateExercise(w http.ResponseWriter, r *http.Request) {
	var req factory.ExerciseJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	style, err := h.Factory.BuildExercise(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid exercise definition", err)
		return
	}

	ds := style.Dates()
	dto := ExerciseValidationDTO{
		Style:          style.Kind().String(),
		Dates:          make([]string, len(ds)),
		LastDate:       style.LastDate().String(),
		PayoffAtExpiry: style.PayoffAtExpiry(),
	}
	for i, d := range ds {
		dto.Dates[i] = d.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListConventions returns the supported business-day conventions.
// GET /api/conventions
func (h *Handler) ListConventions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dates.Conventions())
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// ListCalendars returns all stored market calendars.
// GET /api/calendars
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListCalendars(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calendars", err)
		return
	}

	dtos := make([]CalendarDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, CalendarDTO{
			Name:        rec.Name,
			Description: rec.Description,
			CreatedAt:   rec.CreatedAt.Format(dates.Layout),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCalendar creates or updates a named calendar.
// POST /api/calendars
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var req CreateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Calendar name is required", nil)
		return
	}
	// "null" and "weekends" are built-in; storing them would shadow the
	// built-ins in factory resolution.
	if req.Name == "null" || req.Name == "weekends" {
		writeError(w, http.StatusBadRequest, "Calendar name is reserved", nil)
		return
	}

	if err := h.Store.SaveCalendar(r.Context(), sqlite.CalendarRecord{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}
	writeJSON(w, http.StatusCreated, CalendarDTO{Name: req.Name, Description: req.Description})
}

// ListHolidays returns all holidays of a calendar.
// GET /api/calendars/{name}/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	records, err := h.Store.ListHolidays(r.Context(), name)
	if err != nil {
		if errors.Is(err, sqlite.ErrCalendarNotFound) {
			writeError(w, http.StatusNotFound, "Calendar not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, HolidayDTO{
			ID:           rec.ID,
			CalendarName: rec.CalendarName,
			Date:         rec.Date.String(),
			Label:        rec.Label,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to a calendar.
// POST /api/calendars/{name}/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	d, err := dates.Parse(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	id, err := h.Store.AddHoliday(r.Context(), sqlite.HolidayRecord{
		CalendarName: name,
		Date:         d,
		Label:        req.Label,
	})
	if err != nil {
		if errors.Is(err, sqlite.ErrCalendarNotFound) {
			writeError(w, http.StatusNotFound, "Calendar not found", err)
			return
		}
		writeError(w, http.StatusConflict, "Failed to add holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:           id,
		CalendarName: name,
		Date:         d.String(),
		Label:        req.Label,
	})
}

// DeleteHoliday removes a holiday by id.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday id", err)
		return
	}
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
