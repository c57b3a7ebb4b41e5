/*
engine_test.go - Shared test infrastructure and cross-generator behavior

The per-generator files (vehicle_test.go, document_test.go, ...) cover
each pipeline in isolation; this file covers the properties that span
pipelines: idempotence under repeated runs, the single-live vs
multi-live asymmetry, tenant scoping and source failure isolation.
*/
package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetrent/reminder-engine/engine"
	"github.com/fleetrent/reminder-engine/engine/store"
	"github.com/fleetrent/reminder-engine/templates"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestEngine() (*engine.Engine, *store.Memory, *store.Fixtures) {
	mem := store.NewMemory()
	fx := store.NewFixtures()
	eng := engine.New(mem, fx, fx, fx, fx, fx, templates.NewResolver())
	return eng, mem, fx
}

func d(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

func money(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// pending returns the pending reminders matching the filter.
func pending(t *testing.T, mem *store.Memory, f engine.ReminderFilter) []engine.Reminder {
	t.Helper()
	f.Status = engine.StatusPending
	result, err := mem.List(context.Background(), f)
	require.NoError(t, err)
	return result
}

var testToday = d(2026, time.March, 10)

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestIdempotence_VehicleGenerator(t *testing.T) {
	// GIVEN: A vehicle with an MOT due 10 days out
	eng, mem, fx := newTestEngine()
	fx.Vehicles = []engine.Vehicle{{
		ID: "veh-1", Registration: "LX21 ABC",
		MOTDueOn: testToday.AddDays(10), HasImmobiliser: true,
	}}
	ctx := context.Background()

	// WHEN: The generator runs twice with no underlying data change
	n1, err := eng.GenerateVehicleReminders(ctx, "", testToday)
	require.NoError(t, err)
	require.Equal(t, 1, n1)

	_, err = eng.GenerateVehicleReminders(ctx, "", testToday)
	require.NoError(t, err)

	// THEN: Exactly one VEH_MOT_14D reminder is pending, not two
	reminders := pending(t, mem, engine.ReminderFilter{ObjectID: "veh-1"})
	require.Len(t, reminders, 1)
	assert.Equal(t, "VEH_MOT_14D", reminders[0].RuleCode)
}

func TestIdempotence_DocumentGenerator(t *testing.T) {
	// GIVEN: A document 5 days from expiry (30/14/7 tiers all open)
	eng, mem, fx := newTestEngine()
	fx.Documents = []engine.Document{{
		ID: "doc-1", CustomerID: "cust-1", CustomerName: "Aisha Khan",
		DocumentType: "Driving Licence", EndOn: testToday.AddDays(5),
	}}
	ctx := context.Background()

	n1, err := eng.GenerateDocumentReminders(ctx, "", testToday)
	require.NoError(t, err)
	require.Equal(t, 3, n1)

	// Second run creates nothing new: the compound key dedupes.
	n2, err := eng.GenerateDocumentReminders(ctx, "", testToday)
	require.NoError(t, err)
	assert.Equal(t, 0, n2)

	assert.Len(t, pending(t, mem, engine.ReminderFilter{ObjectID: "doc-1"}), 3)
}

// =============================================================================
// SINGLE-LIVE vs MULTI-LIVE ASYMMETRY
// =============================================================================

func TestVehicleSingleLive_DocumentMultiLive(t *testing.T) {
	// The vehicle tracks delete-and-recreate, so a vehicle never has
	// more than one live MOT reminder; documents accumulate one
	// reminder per opened tier. This asymmetry is deliberate and load
	// bearing - the two pipelines must not be unified silently.
	eng, mem, fx := newTestEngine()
	ctx := context.Background()

	fx.Vehicles = []engine.Vehicle{{
		ID: "veh-1", Registration: "LX21 ABC",
		MOTDueOn: testToday.AddDays(25), HasImmobiliser: true,
	}}
	fx.Documents = []engine.Document{{
		ID: "doc-1", CustomerID: "cust-1", CustomerName: "Aisha Khan",
		DocumentType: "Driving Licence", EndOn: testToday.AddDays(25),
	}}

	// Day 1: 25 days out. Vehicle gets the 30-day tier, document too.
	_, err := eng.GenerateVehicleReminders(ctx, "", testToday)
	require.NoError(t, err)
	_, err = eng.GenerateDocumentReminders(ctx, "", testToday)
	require.NoError(t, err)

	// 15 days later: 10 days out, the 14-day threshold has been crossed.
	later := testToday.AddDays(15)
	_, err = eng.GenerateVehicleReminders(ctx, "", later)
	require.NoError(t, err)
	_, err = eng.GenerateDocumentReminders(ctx, "", later)
	require.NoError(t, err)

	// THEN: The vehicle has exactly one live MOT reminder (the current
	// tier); the document has both tiers pending at once.
	veh := pending(t, mem, engine.ReminderFilter{ObjectID: "veh-1"})
	require.Len(t, veh, 1)
	assert.Equal(t, "VEH_MOT_14D", veh[0].RuleCode)

	doc := pending(t, mem, engine.ReminderFilter{ObjectID: "doc-1"})
	require.Len(t, doc, 2)
	codes := []string{doc[0].RuleCode, doc[1].RuleCode}
	assert.ElementsMatch(t, []string{"DOC_EXP_30D", "DOC_EXP_14D"}, codes)
}

// =============================================================================
// TENANT SCOPING
// =============================================================================

func TestTenantScoping(t *testing.T) {
	// GIVEN: Vehicles in two tenants
	eng, mem, fx := newTestEngine()
	fx.Vehicles = []engine.Vehicle{
		{ID: "veh-a", Registration: "AAA", MOTDueOn: testToday.AddDays(5),
			HasImmobiliser: true, TenantID: "tenant-a"},
		{ID: "veh-b", Registration: "BBB", MOTDueOn: testToday.AddDays(5),
			HasImmobiliser: true, TenantID: "tenant-b"},
	}
	ctx := context.Background()

	// WHEN: Generating for tenant-a only
	n, err := eng.GenerateVehicleReminders(ctx, "tenant-a", testToday)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// THEN: Only tenant-a's vehicle has a reminder, tagged with its tenant
	all := pending(t, mem, engine.ReminderFilter{})
	require.Len(t, all, 1)
	assert.Equal(t, "veh-a", all[0].ObjectID)
	assert.Equal(t, "tenant-a", all[0].TenantID)
}

// =============================================================================
// FAILURE ISOLATION
// =============================================================================

func TestSourceFailure_DoesNotBlockOtherGenerators(t *testing.T) {
	// GIVEN: The vehicle source fails but fines are readable
	eng, mem, fx := newTestEngine()
	fx.VehicleErr = errors.New("connection refused")
	fx.Fines = []engine.Fine{{
		ID: "fine-1", Amount: money("65.00"),
		DueOn: testToday.AddDays(3), Status: "Open",
	}}
	ctx := context.Background()

	// WHEN: A full pass runs
	report := eng.RunAll(ctx, "", testToday)

	// THEN: Vehicle count is zero, fines still generated
	assert.Equal(t, 0, report.Vehicles)
	assert.Equal(t, 2, report.Fines) // 14-day and 7-day tiers open
	assert.Len(t, pending(t, mem, engine.ReminderFilter{ObjectID: "fine-1"}), 2)
}

func TestGeneratorReturnsErrorOnFetchFailure(t *testing.T) {
	eng, _, fx := newTestEngine()
	fx.DocumentErr = errors.New("timeout")

	n, err := eng.GenerateDocumentReminders(context.Background(), "", testToday)
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}
