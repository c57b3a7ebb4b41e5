/*
handlers.go - HTTP handlers for the reminder service

PURPOSE:
  Thin HTTP layer over the engine. Handlers parse the request, call the
  engine or store, and serialize the response; generation semantics
  live entirely in the engine package.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Reminder not found
  - 409: Conflict (terminal status, invalid transition)
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. The service is expected to run behind
  the platform's gateway; the tenant query parameter is trusted.
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetrent/reminder-engine/engine"
	"github.com/fleetrent/reminder-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *engine.Engine
}

// NewHandler creates a handler over the given store, wiring the engine
// to it for both persistence and source reads.
func NewHandler(store *sqlite.Store, eng *engine.Engine) *Handler {
	return &Handler{Store: store, Engine: eng}
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateReminders runs all four generators and the expiry sweep for
// the tenant in the query string (empty = legacy single-tenant).
func (h *Handler) GenerateReminders(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant")
	ctx := r.Context()

	today := h.Engine.ResolveToday(ctx, tenantID)
	report := h.Engine.RunAll(ctx, tenantID, today)

	log.Printf("[API] Generation pass for tenant %q on %s: %d created, %d expired",
		tenantID, today, report.Created(), report.Expired)

	writeJSON(w, http.StatusOK, GenerateResponse{
		Today:   today.String(),
		Tenant:  tenantID,
		Report:  report,
		Created: report.Created(),
	})
}

// =============================================================================
// REMINDERS
// =============================================================================

// ListReminders returns reminders filtered by the query string.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := engine.ReminderFilter{
		TenantID:   q.Get("tenant"),
		Status:     engine.Status(q.Get("status")),
		ObjectType: engine.ObjectType(q.Get("object_type")),
		ObjectID:   q.Get("object_id"),
		Family:     engine.Family(q.Get("family")),
	}

	reminders, err := h.Store.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reminders", err)
		return
	}

	dtos := make([]ReminderDTO, len(reminders))
	for i, rem := range reminders {
		dtos[i] = toReminderDTO(rem)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetReminder returns a single reminder by id.
func (h *Handler) GetReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rem, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get reminder", err)
		return
	}
	if rem == nil {
		writeError(w, http.StatusNotFound, "Reminder not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toReminderDTO(*rem))
}

// ListActions returns the audit trail of a reminder.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	actions, err := h.Store.ActionsFor(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions", err)
		return
	}

	dtos := make([]ActionDTO, len(actions))
	for i, a := range actions {
		dtos[i] = toActionDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// USER TRANSITIONS
// =============================================================================

// MarkDone, Dismiss and Snooze are the user-driven status transitions.
// Done and dismissed are terminal: once set, no generation pass will
// ever reopen the reminder.
func (h *Handler) MarkDone(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, engine.StatusDone, engine.ActionDone)
}

func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, engine.StatusDismissed, engine.ActionDismissed)
}

func (h *Handler) Snooze(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, engine.StatusSnoozed, engine.ActionSnoozed)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, target engine.Status, action string) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	var req TransitionRequest
	if r.Body != nil {
		// Body is optional; a decode failure on an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	// Conditional update: the open check and the write are one
	// statement, so concurrent transitions on the same reminder cannot
	// both succeed (and cannot double-append audit actions).
	if err := h.Store.Transition(ctx, id, target); err != nil {
		switch {
		case errors.Is(err, engine.ErrReminderNotFound):
			writeError(w, http.StatusNotFound, "Reminder not found", err)
		case errors.Is(err, engine.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "Reminder is already closed", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update reminder", err)
		}
		return
	}

	rem, err := h.Store.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get reminder", err)
		return
	}
	if rem == nil {
		writeError(w, http.StatusNotFound, "Reminder not found", nil)
		return
	}

	a := engine.ReminderAction{
		ID:         uuid.NewString(),
		ReminderID: id,
		Action:     action,
		Note:       req.Note,
		TenantID:   rem.TenantID,
	}
	if err := h.Store.AppendAction(ctx, a); err != nil {
		log.Printf("[API] Failed to record %s action for %s: %v", action, id, err)
	}

	writeJSON(w, http.StatusOK, toReminderDTO(*rem))
}

// =============================================================================
// ADMIN
// =============================================================================

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Reset wipes the database. Dev/demo only.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
