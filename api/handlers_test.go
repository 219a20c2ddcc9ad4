/*
handlers_test.go - HTTP tests for the exercise engine API

Tests run through the full router with an in-memory sqlite store:
schedule preview across all three styles, exercise validation, and the
calendar/holiday management flow.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/exercise-engine/api"
	"github.com/warp/exercise-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

// =============================================================================
// SCHEDULE PREVIEW
// =============================================================================

func TestPreviewSchedule_European(t *testing.T) {
	// GIVEN: A European expiry with a scalar rebate and T+2 settlement on
	//        the all-days calendar
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{"style": "european", "date": "2024-06-21"},
		"rebate":   map[string]any{"rebate": 100.0, "settlement_days": 2},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.SchedulePreviewDTO
	decode(t, resp, &dto)

	assert.Equal(t, "european", dto.Style)
	assert.Equal(t, "2024-06-21", dto.LastDate)
	assert.Equal(t, 2, dto.SettlementDays)
	assert.Equal(t, "null", dto.Calendar)
	assert.Equal(t, "following", dto.Convention)
	require.Len(t, dto.Entries, 1)
	assert.Equal(t, "2024-06-21", dto.Entries[0].ExerciseDate)
	assert.Equal(t, "100", dto.Entries[0].Rebate)
	assert.Equal(t, "2024-06-23", dto.Entries[0].PaymentDate)
}

func TestPreviewSchedule_AmericanOmitsPaymentDates(t *testing.T) {
	// GIVEN: A continuous American window
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{
			"style":         "american",
			"earliest_date": "2024-01-01",
			"latest_date":   "2024-06-21",
		},
		"rebate": map[string]any{"rebate": 50.0},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.SchedulePreviewDTO
	decode(t, resp, &dto)

	// THEN: Rebates are reported but payment dates are not precomputable
	assert.Equal(t, "american", dto.Style)
	require.Len(t, dto.Entries, 2)
	for _, entry := range dto.Entries {
		assert.Equal(t, "50", entry.Rebate)
		assert.Empty(t, entry.PaymentDate)
	}
}

func TestPreviewSchedule_BermudanPerDateRebates(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{
			"style": "bermudan",
			"dates": []string{"2024-03-01", "2024-06-01"},
		},
		"rebate": map[string]any{"rebates": []float64{10, 20}, "settlement_days": 1},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.SchedulePreviewDTO
	decode(t, resp, &dto)

	require.Len(t, dto.Entries, 2)
	assert.Equal(t, "20", dto.Entries[1].Rebate)
	assert.Equal(t, "2024-06-02", dto.Entries[1].PaymentDate)
}

func TestPreviewSchedule_NoRebateDefaultsToZero(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{"style": "european", "date": "2024-06-21"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.SchedulePreviewDTO
	decode(t, resp, &dto)
	require.Len(t, dto.Entries, 1)
	assert.Equal(t, "0", dto.Entries[0].Rebate)
}

func TestPreviewSchedule_SizeMismatchRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{"style": "european", "date": "2024-06-21"},
		"rebate":   map[string]any{"rebates": []float64{10, 20}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewSchedule_ReversedAmericanRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{
			"style":         "american",
			"earliest_date": "2024-06-21",
			"latest_date":   "2024-01-01",
		},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewSchedule_UnknownCalendar404(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{"style": "european", "date": "2024-06-21"},
		"rebate":   map[string]any{"rebate": 1.0, "calendar": "mars"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// EXERCISE VALIDATION
// =============================================================================

func TestValidateExercise_NormalizesAmerican(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/exercises/validate", map[string]any{
		"style":       "american",
		"latest_date": "2024-06-21",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.ExerciseValidationDTO
	decode(t, resp, &dto)

	assert.Equal(t, "american", dto.Style)
	require.Len(t, dto.Dates, 2)
	assert.Equal(t, "unbounded", dto.Dates[0])
	assert.Equal(t, "2024-06-21", dto.Dates[1])
	assert.Equal(t, "2024-06-21", dto.LastDate)
}

func TestValidateExercise_BadStyle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/exercises/validate", map[string]any{"style": "asian"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// CALENDAR MANAGEMENT
// =============================================================================

func TestCalendarFlow_EndToEnd(t *testing.T) {
	// GIVEN: A stored market calendar with a Monday holiday
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/calendars", map[string]any{
		"name":        "test-market",
		"description": "integration test calendar",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/calendars/test-market/holidays", map[string]any{
		"date":  "2024-06-24",
		"label": "market closure",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var holiday api.HolidayDTO
	decode(t, resp, &holiday)
	assert.NotZero(t, holiday.ID)

	// WHEN: Previewing a schedule settled on that calendar
	resp = postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{"style": "european", "date": "2024-06-21"},
		"rebate":   map[string]any{"rebate": 100.0, "settlement_days": 1, "calendar": "test-market"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.SchedulePreviewDTO
	decode(t, resp, &dto)

	// THEN: Settlement rolls past the weekend and the stored holiday
	require.Len(t, dto.Entries, 1)
	assert.Equal(t, "2024-06-25", dto.Entries[0].PaymentDate)
	assert.Equal(t, "test-market", dto.Calendar)

	// Listing reflects both resources.
	listResp, err := http.Get(srv.URL + "/api/calendars")
	require.NoError(t, err)
	var cals []api.CalendarDTO
	decode(t, listResp, &cals)
	require.Len(t, cals, 1)
	assert.Equal(t, "test-market", cals[0].Name)

	holResp, err := http.Get(srv.URL + "/api/calendars/test-market/holidays")
	require.NoError(t, err)
	var holidays []api.HolidayDTO
	decode(t, holResp, &holidays)
	require.Len(t, holidays, 1)
	assert.Equal(t, "2024-06-24", holidays[0].Date)

	// Deleting the holiday restores plain weekend rolling.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/holidays/1", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/schedules/preview", map[string]any{
		"exercise": map[string]any{"style": "european", "date": "2024-06-21"},
		"rebate":   map[string]any{"rebate": 100.0, "settlement_days": 1, "calendar": "test-market"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &dto)
	assert.Equal(t, "2024-06-24", dto.Entries[0].PaymentDate)
}

func TestCreateCalendar_ReservedNameRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/calendars", map[string]any{"name": "null"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListHolidays_UnknownCalendar404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/calendars/mars/holidays")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListConventions(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/conventions")
	require.NoError(t, err)
	var conventions []string
	decode(t, resp, &conventions)
	assert.Contains(t, conventions, "following")
	assert.Contains(t, conventions, "modified_following")
}
