/*
Package engine implements the reminder generation engine for a rental fleet.

PURPOSE:
  This package contains the rule catalog, the best-rule selector, and the
  four generators (vehicles, customer documents, rental charges, fines)
  that decide which reminders are due, plus the idempotent write path that
  persists them without ever resurrecting a reminder a user has closed.

KEY CONCEPTS IN THIS FILE (types.go):
  - Reminder: A persisted notification with a compound identity key
  - Key: The idempotence boundary (rule, object, due date, remind date)
  - Status: Reminder lifecycle, with an explicit terminal set
  - Family: Structured rule grouping (no substring matching on codes)
  - ReminderAction: Append-only audit trail entry

DESIGN PRINCIPLES:
  1. Idempotence: Re-running any generator is always safe; the compound
     key plus the terminal-status guard make repeated passes no-ops.
  2. No resurrection: done/dismissed/expired rows are never overwritten
     by automated generation.
  3. Explicit time: "today" is resolved once per pass and passed in;
     nothing in this package reads the wall clock.
  4. Tenant scoping: every read and write carries an optional tenant id;
     the empty tenant is the legacy single-tenant path.

SEE ALSO:
  - rules.go: Rule catalog and families
  - selector.go: Best-rule selection
  - upsert.go: Idempotent write path and expiry sweep
  - vehicle.go, document.go, rental.go, fine.go: Generators
*/
package engine

// =============================================================================
// OBJECT TYPE - The entity a reminder is about
// =============================================================================

type ObjectType string

const (
	ObjectVehicle  ObjectType = "vehicle"
	ObjectDocument ObjectType = "document"
	ObjectRental   ObjectType = "rental"
	ObjectFine     ObjectType = "fine"
)

// =============================================================================
// STATUS - Reminder lifecycle
// =============================================================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusSnoozed   Status = "snoozed"
	StatusDone      Status = "done"
	StatusDismissed Status = "dismissed"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether a status must never be overwritten by a
// later generation pass. User-closed and swept reminders stay closed.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusDismissed || s == StatusExpired
}

// IsOpen reports whether a reminder is still live (pending or snoozed).
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusSnoozed
}

// =============================================================================
// SEVERITY
// =============================================================================

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// =============================================================================
// KEY - Compound identity / idempotence boundary
// =============================================================================

// Key identifies a reminder for upsert purposes. Two generation passes
// that compute the same key refer to the same reminder; a pass that
// computes a different RemindOn or DueOn (because the entity's dates
// changed) produces a new reminder.
type Key struct {
	RuleCode   string
	ObjectType ObjectType
	ObjectID   string
	DueOn      Date
	RemindOn   Date
}

// =============================================================================
// REMINDER - Persisted notification
// =============================================================================

type Reminder struct {
	ID         string
	RuleCode   string
	Family     Family
	ObjectType ObjectType
	ObjectID   string
	Title      string
	Message    string
	Severity   Severity

	// DueOn is the date the underlying event occurs (MOT expiry, document
	// expiry, oldest overdue charge date). RemindOn is the date from which
	// the reminder should surface.
	DueOn    Date
	RemindOn Date

	Status Status

	// Context is a snapshot of the source entity at generation time,
	// not a live link. See context.go.
	Context Context

	// TenantID is empty on legacy single-tenant deployments.
	TenantID string
}

// Key returns the compound identity key for this reminder.
func (r Reminder) Key() Key {
	return Key{
		RuleCode:   r.RuleCode,
		ObjectType: r.ObjectType,
		ObjectID:   r.ObjectID,
		DueOn:      r.DueOn,
		RemindOn:   r.RemindOn,
	}
}

// =============================================================================
// REMINDER ACTION - Append-only audit trail
// =============================================================================

const (
	ActionExpired   = "expired"
	ActionDone      = "done"
	ActionDismissed = "dismissed"
	ActionSnoozed   = "snoozed"
)

// ReminderAction records what happened to a reminder and when. The sweep
// writes one per auto-expired reminder; user transitions append theirs
// through the API layer.
type ReminderAction struct {
	ID         string
	ReminderID string
	Action     string
	Note       string
	TenantID   string
}
