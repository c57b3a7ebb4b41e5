/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the HTTP API, kept separate from the domain types so
  the wire format can evolve without touching the engine. Dates are
  rendered as YYYY-MM-DD strings.
*/
package api

import (
	"encoding/json"

	"github.com/fleetrent/reminder-engine/engine"
)

// ReminderDTO is the wire representation of a reminder.
type ReminderDTO struct {
	ID         string          `json:"id"`
	RuleCode   string          `json:"rule_code"`
	Family     string          `json:"family"`
	ObjectType string          `json:"object_type"`
	ObjectID   string          `json:"object_id"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Severity   string          `json:"severity"`
	DueOn      string          `json:"due_on"`
	RemindOn   string          `json:"remind_on"`
	Status     string          `json:"status"`
	Context    json.RawMessage `json:"context,omitempty"`
	TenantID   string          `json:"tenant_id,omitempty"`
}

func toReminderDTO(r engine.Reminder) ReminderDTO {
	dto := ReminderDTO{
		ID:         r.ID,
		RuleCode:   r.RuleCode,
		Family:     string(r.Family),
		ObjectType: string(r.ObjectType),
		ObjectID:   r.ObjectID,
		Title:      r.Title,
		Message:    r.Message,
		Severity:   string(r.Severity),
		DueOn:      r.DueOn.String(),
		RemindOn:   r.RemindOn.String(),
		Status:     string(r.Status),
		TenantID:   r.TenantID,
	}
	if s, err := engine.MarshalContext(r.Context); err == nil && s != "" {
		dto.Context = json.RawMessage(s)
	}
	return dto
}

// ActionDTO is the wire representation of an audit trail entry.
type ActionDTO struct {
	ID         string `json:"id"`
	ReminderID string `json:"reminder_id"`
	Action     string `json:"action"`
	Note       string `json:"note,omitempty"`
}

func toActionDTO(a engine.ReminderAction) ActionDTO {
	return ActionDTO{
		ID:         a.ID,
		ReminderID: a.ReminderID,
		Action:     a.Action,
		Note:       a.Note,
	}
}

// GenerateResponse reports one full generation pass.
type GenerateResponse struct {
	Today   string           `json:"today"`
	Tenant  string           `json:"tenant,omitempty"`
	Report  engine.RunReport `json:"report"`
	Created int              `json:"created"`
}

// TransitionRequest carries an optional note for done/dismiss/snooze.
type TransitionRequest struct {
	Note string `json:"note"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
