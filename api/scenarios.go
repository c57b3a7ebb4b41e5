/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Seeds the database with representative fleet data so the reminder
  pipelines can be exercised end to end without a real tenant. Dates
  are positioned relative to today so every rule tier is reachable on
  the day the scenario is loaded.

SCENARIOS:
  fleet-demo   A small fleet with vehicles at different MOT/tax
               thresholds, an unfitted immobiliser, expiring customer
               documents, an overdue rental and open fines.
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fleetrent/reminder-engine/engine"
	"github.com/fleetrent/reminder-engine/store/sqlite"
)

// LoadScenario seeds the named demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	switch name {
	case "fleet-demo":
		if err := h.loadFleetDemo(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
			return
		}
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", name), nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"scenario": name, "status": "loaded"})
}

func (h *Handler) loadFleetDemo(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}

	today := h.Engine.ResolveToday(ctx, "")
	money := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}

	vehicles := []engine.Vehicle{
		// MOT 10 days out: the 14-day tier should fire.
		{ID: "veh-1", Registration: "LX21 ABC", Make: "Ford", Model: "Transit",
			MOTDueOn: today.AddDays(10), HasImmobiliser: true, AcquiredOn: today.AddDays(-400)},
		// Tax overdue by 3 days: the terminal tier should fire.
		{ID: "veh-2", Registration: "KT19 XYZ", Make: "Vauxhall", Model: "Vivaro",
			TaxDueOn: today.AddDays(-3), HasImmobiliser: true, AcquiredOn: today.AddDays(-200)},
		// Acquired 20 days ago, no immobiliser: 14-day count-up tier.
		{ID: "veh-3", Registration: "MM70 DEF", Make: "Mercedes", Model: "Sprinter",
			MOTDueOn: today.AddDays(90), HasImmobiliser: false, AcquiredOn: today.AddDays(-20)},
	}
	for _, v := range vehicles {
		if err := h.Store.SaveVehicle(ctx, v, false); err != nil {
			return err
		}
	}
	// Disposed vehicle: must never generate.
	disposed := engine.Vehicle{ID: "veh-4", Registration: "GONE 1",
		MOTDueOn: today.AddDays(2), HasImmobiliser: false}
	if err := h.Store.SaveVehicle(ctx, disposed, true); err != nil {
		return err
	}

	customers := map[string]string{
		"cust-1": "Aisha Khan",
		"cust-2": "Tom Brennan",
	}
	for id, name := range customers {
		if err := h.Store.SaveCustomer(ctx, id, name, ""); err != nil {
			return err
		}
	}

	documents := []engine.Document{
		// Licence 5 days from expiry: 30/14/7 day tiers all live.
		{ID: "doc-1", CustomerID: "cust-1", DocumentType: "Driving Licence",
			EndOn: today.AddDays(5)},
		// Insurance certificate classified by provider field.
		{ID: "doc-2", CustomerID: "cust-2", DocumentType: "Insurance Certificate",
			Provider: "Bonzah", PolicyEndOn: today.AddDays(12)},
		// Broken customer reference: silently skipped.
		{ID: "doc-3", CustomerID: "cust-missing", DocumentType: "Passport",
			EndOn: today.AddDays(8)},
	}
	for _, d := range documents {
		if err := h.Store.SaveDocument(ctx, d); err != nil {
			return err
		}
	}

	if err := h.Store.SaveRental(ctx, sqlite.Rental{
		ID: "rent-1", Reference: "R-1001", CustomerID: "cust-1", VehicleID: "veh-1",
	}); err != nil {
		return err
	}
	charges := []sqlite.LedgerEntry{
		{ID: "led-1", RentalID: "rent-1", EntryType: "Charge", Category: "Rental",
			Amount: money("250.00"), Remaining: money("250.00"), DueOn: today.AddDays(-10)},
		{ID: "led-2", RentalID: "rent-1", EntryType: "Charge", Category: "Rental",
			Amount: money("250.00"), Remaining: money("120.50"), DueOn: today.AddDays(-3)},
		// Paid charge: no reminder input.
		{ID: "led-3", RentalID: "rent-1", EntryType: "Charge", Category: "Rental",
			Amount: money("250.00"), Remaining: money("0"), DueOn: today.AddDays(-17)},
	}
	for _, c := range charges {
		if err := h.Store.SaveLedgerEntry(ctx, c); err != nil {
			return err
		}
	}

	fines := []sqlite.FineRecord{
		{ID: "fine-1", Reference: "PCN-4411", FineType: "Parking", CustomerID: "cust-2",
			VehicleID: "veh-2", Amount: money("65.00"), DueOn: today.AddDays(6), Status: "Open"},
		{ID: "fine-2", Reference: "PCN-4412", FineType: "Speeding", CustomerID: "cust-1",
			VehicleID: "veh-1", Amount: money("100.00"), DueOn: today.AddDays(20), Status: "Paid"},
	}
	for _, f := range fines {
		if err := h.Store.SaveFine(ctx, f); err != nil {
			return err
		}
	}

	return h.Store.SaveOrgSettings(ctx, "", "UTC")
}
