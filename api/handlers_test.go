package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetrent/reminder-engine/engine"
	"github.com/fleetrent/reminder-engine/store/sqlite"
	"github.com/fleetrent/reminder-engine/templates"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestAPI(t *testing.T) (*sqlite.Store, http.Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	eng := engine.New(store, store, store, store, store, store, templates.NewResolver())
	return store, NewRouter(NewHandler(store, eng))
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// =============================================================================
// HEALTH & SCENARIOS
// =============================================================================

func TestHealth(t *testing.T) {
	_, router := newTestAPI(t)
	rec := doRequest(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoadScenario_Unknown(t *testing.T) {
	_, router := newTestAPI(t)
	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFleetDemoGeneration(t *testing.T) {
	// GIVEN: The fleet-demo scenario
	_, router := newTestAPI(t)
	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/fleet-demo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// WHEN: A generation pass runs
	rec = doRequest(t, router, http.MethodPost, "/api/reminders/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[GenerateResponse](t, rec)

	// THEN: Every pipeline produced its expected reminders.
	// Vehicles: MOT 14-day tier, overdue tax, immobiliser count-up.
	// Documents: licence 5 days out (3 tiers) + insurance 12 days out
	// (2 tiers); the broken reference is skipped.
	// The overdue tax and rental reminders are due in the past, so the
	// sweep expires them within the same pass.
	assert.Equal(t, 3, resp.Report.Vehicles)
	assert.Equal(t, 5, resp.Report.Documents)
	assert.Equal(t, 1, resp.Report.Rentals)
	assert.Equal(t, 2, resp.Report.Fines)
	assert.Equal(t, 2, resp.Report.Expired)
	assert.Equal(t, 11, resp.Created)

	// AND: The key-based pipelines create nothing new on a second pass
	// over unchanged data. Vehicle tracks recount because they delete
	// and recreate, but the pending set stays the same size.
	rec = doRequest(t, router, http.MethodPost, "/api/reminders/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp2 := decodeJSON[GenerateResponse](t, rec)
	assert.Equal(t, 0, resp2.Report.Documents)
	assert.Equal(t, 0, resp2.Report.Rentals)
	assert.Equal(t, 0, resp2.Report.Fines)
	assert.Equal(t, 0, resp2.Report.Expired)
}

// =============================================================================
// LISTING & TRANSITIONS
// =============================================================================

func seedOpenFine(t *testing.T, store *sqlite.Store, router http.Handler) []ReminderDTO {
	t.Helper()
	require.NoError(t, store.SaveFine(context.Background(), sqlite.FineRecord{
		ID: "fine-1", Reference: "PCN-4411", FineType: "Parking",
		Amount: money("65.00"), DueOn: engine.Today(nil).AddDays(6), Status: "Open",
	}))

	rec := doRequest(t, router, http.MethodPost, "/api/reminders/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/reminders/?status=pending&object_id=fine-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reminders := decodeJSON[[]ReminderDTO](t, rec)
	require.Len(t, reminders, 2) // 14 and 7 day tiers
	return reminders
}

func TestDismissFlow(t *testing.T) {
	store, router := newTestAPI(t)
	reminders := seedOpenFine(t, store, router)
	id := reminders[0].ID

	// Dismiss with a note
	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/reminders/%s/dismiss", id),
		TransitionRequest{Note: "fine appealed by customer"})
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeJSON[ReminderDTO](t, rec)
	assert.Equal(t, string(engine.StatusDismissed), dto.Status)

	// Closing an already-closed reminder conflicts
	rec = doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/reminders/%s/done", id), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The audit trail has the dismissal
	rec = doRequest(t, router, http.MethodGet,
		fmt.Sprintf("/api/reminders/%s/actions", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	actions := decodeJSON[[]ActionDTO](t, rec)
	require.Len(t, actions, 1)
	assert.Equal(t, engine.ActionDismissed, actions[0].Action)
	assert.Equal(t, "fine appealed by customer", actions[0].Note)

	// Regenerating does not resurrect the dismissed tier
	rec = doRequest(t, router, http.MethodPost, "/api/reminders/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/reminders/?status=pending&object_id=fine-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeJSON[[]ReminderDTO](t, rec), 1)
}

func TestSnoozeStaysOpen(t *testing.T) {
	store, router := newTestAPI(t)
	reminders := seedOpenFine(t, store, router)
	id := reminders[0].ID

	// Snoozing is a non-terminal transition: the reminder can still be
	// completed afterwards.
	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/reminders/%s/snooze", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/reminders/%s/done", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeJSON[ReminderDTO](t, rec)
	assert.Equal(t, string(engine.StatusDone), dto.Status)
}

func TestGetReminder_NotFound(t *testing.T) {
	_, router := newTestAPI(t)
	rec := doRequest(t, router, http.MethodGet, "/api/reminders/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/reminders/nope/done", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
