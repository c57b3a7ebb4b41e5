/*
context.go - Per-object-type reminder context

PURPOSE:
  The context snapshot interpolated into reminder titles/messages and
  stored alongside the reminder row. It is a snapshot taken at
  generation time, not a live link: if the vehicle is renamed later,
  existing reminders keep the name they were generated with.

  Each object type carries only the fields that exist for it. A rental
  context has an overdue total; a vehicle context does not. Modelling
  this as one struct per object type (rather than a generic bag) makes
  "field doesn't exist for this entity" a compile error.
*/
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Context is the tagged union of per-entity snapshots. Concrete types:
// VehicleContext, DocumentContext, RentalContext, FineContext.
type Context interface {
	ObjectType() ObjectType
}

// =============================================================================
// VARIANTS
// =============================================================================

type VehicleContext struct {
	VehicleID    string `json:"vehicle_id"`
	Registration string `json:"registration"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	DueOn        string `json:"due_on,omitempty"`
	DayCount     int    `json:"day_count"`
}

func (VehicleContext) ObjectType() ObjectType { return ObjectVehicle }

type DocumentContext struct {
	DocumentID   string `json:"document_id"`
	DocumentType string `json:"document_type"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Provider     string `json:"provider,omitempty"`
	ExpiresOn    string `json:"expires_on"`
}

func (DocumentContext) ObjectType() ObjectType { return ObjectDocument }

type RentalContext struct {
	RentalID     string          `json:"rental_id"`
	Reference    string          `json:"reference,omitempty"`
	CustomerName string          `json:"customer_name"`
	Registration string          `json:"registration"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
	ChargeCount  int             `json:"charge_count"`
	OldestDueOn  string          `json:"oldest_due_on"`
}

func (RentalContext) ObjectType() ObjectType { return ObjectRental }

type FineContext struct {
	FineID       string          `json:"fine_id"`
	Reference    string          `json:"reference,omitempty"`
	FineType     string          `json:"fine_type,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	CustomerName string          `json:"customer_name,omitempty"`
	Registration string          `json:"registration,omitempty"`
	DueOn        string          `json:"due_on"`
}

func (FineContext) ObjectType() ObjectType { return ObjectFine }

// =============================================================================
// SERIALIZATION - Snapshot persistence
// =============================================================================

// MarshalContext serializes a context snapshot for storage. A nil
// context marshals to an empty string.
func MarshalContext(c Context) (string, error) {
	if c == nil {
		return "", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal %s context: %w", c.ObjectType(), err)
	}
	return string(b), nil
}

// UnmarshalContext restores a snapshot for the given object type.
func UnmarshalContext(objectType ObjectType, data string) (Context, error) {
	if data == "" {
		return nil, nil
	}
	var (
		c   Context
		err error
	)
	switch objectType {
	case ObjectVehicle:
		var v VehicleContext
		err = json.Unmarshal([]byte(data), &v)
		c = v
	case ObjectDocument:
		var v DocumentContext
		err = json.Unmarshal([]byte(data), &v)
		c = v
	case ObjectRental:
		var v RentalContext
		err = json.Unmarshal([]byte(data), &v)
		c = v
	case ObjectFine:
		var v FineContext
		err = json.Unmarshal([]byte(data), &v)
		c = v
	default:
		return nil, fmt.Errorf("unknown object type %q", objectType)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s context: %w", objectType, err)
	}
	return c, nil
}
