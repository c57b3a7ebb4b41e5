/*
store.go - Persistence interfaces for reminders and source entities

PURPOSE:
  Defines the interface between the engine and the database. The engine
  owns the reminders and reminder_actions tables; everything else
  (vehicles, documents, charges, fines, settings) is read-only source
  data the generators query.

TENANT SCOPING:
  Every method takes a tenant id. A non-empty tenant id scopes the query
  or write to that tenant's rows; the empty tenant id is the legacy
  single-tenant path and matches rows with no tenant.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite store (all interfaces)
  - engine/store/memory.go:  In-memory store and fixtures for tests

SEE ALSO:
  - upsert.go: The idempotent write logic built on ReminderStore
*/
package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REMINDER STORE
// =============================================================================

// ReminderFilter narrows List results. Zero-valued fields are ignored.
type ReminderFilter struct {
	TenantID   string
	Status     Status
	ObjectType ObjectType
	ObjectID   string
	Family     Family
}

// ReminderStore persists reminders and their audit trail. These are raw
// primitives; the idempotence and no-resurrection rules live in
// upsert.go, not in the store.
type ReminderStore interface {
	// FindByKey returns the reminder at the exact compound key, or nil.
	FindByKey(ctx context.Context, tenantID string, key Key) (*Reminder, error)

	// Put inserts or replaces the reminder at its compound key.
	Put(ctx context.Context, r Reminder) error

	// Get returns a reminder by row id, or nil.
	Get(ctx context.Context, id string) (*Reminder, error)

	// List returns reminders matching the filter, most urgent first
	// (remind_on ascending).
	List(ctx context.Context, f ReminderFilter) ([]Reminder, error)

	// DeleteOpen removes all non-terminal reminders for one object and
	// family, returning how many were removed. Terminal rows are never
	// deleted; they carry the no-resurrection history.
	DeleteOpen(ctx context.Context, tenantID string, objectType ObjectType, objectID string, family Family) (int, error)

	// ListOpenDueBefore returns pending/snoozed reminders whose due date
	// has passed. Input for the expiry sweep.
	ListOpenDueBefore(ctx context.Context, tenantID string, day Date) ([]Reminder, error)

	// SetStatus updates a reminder's status by row id.
	SetStatus(ctx context.Context, id string, status Status) error

	// AppendAction appends an audit trail entry.
	AppendAction(ctx context.Context, a ReminderAction) error

	// ActionsFor returns the audit trail of one reminder, oldest first.
	ActionsFor(ctx context.Context, reminderID string) ([]ReminderAction, error)
}

// =============================================================================
// SOURCE ENTITIES - Read-only inputs to the generators
// =============================================================================

// Vehicle is a fleet vehicle as the vehicle generator sees it. Zero
// dates mean "not set". Disposed vehicles are filtered by the source.
type Vehicle struct {
	ID             string
	Registration   string
	Make           string
	Model          string
	MOTDueOn       Date
	TaxDueOn       Date
	HasImmobiliser bool
	AcquiredOn     Date
	TenantID       string
}

// Document is a customer document with an expiry. CustomerID is empty
// when the customer reference is broken; such documents are skipped.
type Document struct {
	ID           string
	DocumentType string
	Provider     string
	CustomerID   string
	CustomerName string
	EndOn        Date
	PolicyEndOn  Date
	TenantID     string
}

// ExpiresOn returns the effective expiry: the policy end date when
// present, otherwise the document end date.
func (d Document) ExpiresOn() Date {
	if !d.PolicyEndOn.IsZero() {
		return d.PolicyEndOn
	}
	return d.EndOn
}

// IsInsurance classifies the document for rule-family selection.
func (d Document) IsInsurance() bool {
	return d.DocumentType == "Insurance Certificate" || d.Provider != ""
}

// OverdueCharge is one unpaid rental ledger charge past its due date,
// already joined to its rental, customer and vehicle.
type OverdueCharge struct {
	ChargeID        string
	RentalID        string
	RentalReference string
	CustomerName    string
	Registration    string
	Remaining       decimal.Decimal
	DueOn           Date
	TenantID        string
}

// Fine is a traffic or parking fine awaiting payment.
type Fine struct {
	ID           string
	Reference    string
	FineType     string
	Amount       decimal.Decimal
	CustomerName string
	Registration string
	DueOn        Date
	Status       string
	TenantID     string
}

// =============================================================================
// SOURCE INTERFACES
// =============================================================================

// VehicleSource returns non-disposed vehicles that have at least one of:
// an MOT due date, a tax due date, or a missing remote immobiliser.
type VehicleSource interface {
	VehiclesNeedingAttention(ctx context.Context, tenantID string) ([]Vehicle, error)
}

// DocumentSource returns customer documents with a non-null expiry.
// Documents with broken customer references may still be returned
// (with an empty CustomerID); the generator filters them silently.
type DocumentSource interface {
	ExpiringDocuments(ctx context.Context, tenantID string) ([]Document, error)
}

// RentalChargeSource returns unpaid rental charges due before the given
// day, restricted to active rentals with valid customer and vehicle
// references.
type RentalChargeSource interface {
	OverdueCharges(ctx context.Context, tenantID string, day Date) ([]OverdueCharge, error)
}

// FineSource returns fines in an open status (Open, Appealed, Charged)
// that have a due date.
type FineSource interface {
	OpenFines(ctx context.Context, tenantID string) ([]Fine, error)
}

// SettingsSource resolves per-tenant configuration. Timezone returns
// the tenant's configured location, or UTC when none is set.
type SettingsSource interface {
	Timezone(ctx context.Context, tenantID string) (*time.Location, error)
}
