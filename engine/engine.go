/*
engine.go - Engine wiring and shared generation helpers

PURPOSE:
  Bundles the store, the read-only sources, the rule catalog and the
  template resolver into one Engine value whose methods are the five
  entry points:

    GenerateVehicleReminders
    GenerateDocumentReminders
    GenerateRentalReminders
    GenerateFineReminders
    ExpireOldReminders

  Each is independently invocable, in any order, any number of times.
  RunAll invokes all five for callers that want a full pass.

TIME:
  Every entry point takes the resolved calendar day as a parameter.
  ResolveToday derives it from the tenant's configured timezone once
  per pass; the generators themselves never read the clock.
*/
package engine

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// TemplateResolver renders reminder content. It is a pure function of
// the rule code and context snapshot; the engine never inspects the
// rendered text.
type TemplateResolver interface {
	Title(ruleCode string, c Context) string
	Message(ruleCode string, c Context) string
	Severity(ruleCode string) Severity
}

// Engine generates reminders from the fleet's source entities.
type Engine struct {
	Reminders ReminderStore
	Vehicles  VehicleSource
	Documents DocumentSource
	Charges   RentalChargeSource
	Fines     FineSource
	Settings  SettingsSource

	Catalog   *Catalog
	Templates TemplateResolver
}

// New creates an engine over the given store and sources with the
// default rule catalog.
func New(store ReminderStore, vehicles VehicleSource, documents DocumentSource, charges RentalChargeSource, fines FineSource, settings SettingsSource, templates TemplateResolver) *Engine {
	return &Engine{
		Reminders: store,
		Vehicles:  vehicles,
		Documents: documents,
		Charges:   charges,
		Fines:     fines,
		Settings:  settings,
		Catalog:   DefaultCatalog(),
		Templates: templates,
	}
}

// ResolveToday returns the current calendar day in the tenant's
// configured timezone, falling back to UTC when the lookup fails.
func (e *Engine) ResolveToday(ctx context.Context, tenantID string) Date {
	if e.Settings == nil {
		return Today(nil)
	}
	loc, err := e.Settings.Timezone(ctx, tenantID)
	if err != nil {
		log.Printf("[Engine] Timezone lookup failed for tenant %q, using UTC: %v", tenantID, err)
		return Today(nil)
	}
	return Today(loc)
}

// RunReport holds the per-generator counts of one full pass.
type RunReport struct {
	Vehicles  int `json:"vehicles"`
	Documents int `json:"documents"`
	Rentals   int `json:"rentals"`
	Fines     int `json:"fines"`
	Expired   int `json:"expired"`
}

// Created returns the total number of newly created reminders.
func (r RunReport) Created() int {
	return r.Vehicles + r.Documents + r.Rentals + r.Fines
}

// RunAll invokes every generator and the expiry sweep for one tenant.
// A failed generator is logged and does not prevent the others from
// running; the report reflects whatever each pass managed to create.
func (e *Engine) RunAll(ctx context.Context, tenantID string, today Date) RunReport {
	var report RunReport
	var err error

	if report.Vehicles, err = e.GenerateVehicleReminders(ctx, tenantID, today); err != nil {
		log.Printf("[Engine] Vehicle generation failed: %v", err)
	}
	if report.Documents, err = e.GenerateDocumentReminders(ctx, tenantID, today); err != nil {
		log.Printf("[Engine] Document generation failed: %v", err)
	}
	if report.Rentals, err = e.GenerateRentalReminders(ctx, tenantID, today); err != nil {
		log.Printf("[Engine] Rental generation failed: %v", err)
	}
	if report.Fines, err = e.GenerateFineReminders(ctx, tenantID, today); err != nil {
		log.Printf("[Engine] Fine generation failed: %v", err)
	}
	if report.Expired, err = e.ExpireOldReminders(ctx, tenantID, today); err != nil {
		log.Printf("[Engine] Expiry sweep failed: %v", err)
	}

	return report
}

// newReminder assembles a pending reminder with rendered content.
func (e *Engine) newReminder(r Rule, objectType ObjectType, objectID string, dueOn, remindOn Date, c Context, tenantID string) Reminder {
	return Reminder{
		ID:         uuid.NewString(),
		RuleCode:   r.Code,
		Family:     r.Family,
		ObjectType: objectType,
		ObjectID:   objectID,
		Title:      e.Templates.Title(r.Code, c),
		Message:    e.Templates.Message(r.Code, c),
		Severity:   e.Templates.Severity(r.Code),
		DueOn:      dueOn,
		RemindOn:   remindOn,
		Status:     StatusPending,
		Context:    c,
		TenantID:   tenantID,
	}
}
