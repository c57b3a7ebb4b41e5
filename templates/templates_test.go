package templates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fleetrent/reminder-engine/engine"
)

func TestSeverityLadders(t *testing.T) {
	r := NewResolver()

	// Count-down families escalate toward the due date
	assert.Equal(t, engine.SeverityLow, r.Severity("VEH_MOT_30D"))
	assert.Equal(t, engine.SeverityCritical, r.Severity("VEH_MOT_0D"))

	// The count-up immobiliser ladder is inverted
	assert.Equal(t, engine.SeverityLow, r.Severity("IMM_FIT_0D"))
	assert.Equal(t, engine.SeverityCritical, r.Severity("IMM_FIT_30D"))

	assert.Equal(t, engine.SeverityHigh, r.Severity("RENT_OVERDUE_0D"))

	// Unknown codes get a sane default
	assert.Equal(t, engine.SeverityMedium, r.Severity("NOPE_99D"))
}

func TestVehicleRendering(t *testing.T) {
	r := NewResolver()
	c := engine.VehicleContext{
		VehicleID: "veh-1", Registration: "LX21 ABC",
		DueOn: "2026-03-20", DayCount: 10,
	}

	assert.Equal(t, "MOT due: LX21 ABC", r.Title("VEH_MOT_14D", c))
	assert.Contains(t, r.Message("VEH_MOT_14D", c), "2026-03-20")

	// Overdue wording flips once the day count goes negative
	c.DayCount = -3
	assert.Equal(t, "Tax overdue: LX21 ABC", r.Title("VEH_TAX_0D", c))
	assert.Contains(t, r.Message("VEH_TAX_0D", c), "3 day(s) ago")

	c.DayCount = 20
	assert.Equal(t, "No immobiliser fitted: LX21 ABC", r.Title("IMM_FIT_14D", c))
}

func TestDocumentRendering(t *testing.T) {
	r := NewResolver()

	licence := engine.DocumentContext{
		DocumentType: "Driving Licence", CustomerName: "Aisha Khan",
		ExpiresOn: "2026-03-15",
	}
	assert.Equal(t, "Driving Licence expiring for Aisha Khan", r.Title("DOC_EXP_14D", licence))

	// Provider-backed documents read as insurance regardless of type
	insurance := licence
	insurance.DocumentType = "Rental Cover"
	insurance.Provider = "Bonzah"
	assert.Equal(t, "Insurance expiring for Aisha Khan", r.Title("INS_EXP_14D", insurance))
}

func TestRentalAndFineRendering(t *testing.T) {
	r := NewResolver()

	rental := engine.RentalContext{
		RentalID: "rent-1", Reference: "R-1001", CustomerName: "Aisha Khan",
		OverdueTotal: decimal.RequireFromString("370.5"), ChargeCount: 2,
		OldestDueOn: "2026-02-26",
	}
	assert.Equal(t, "Overdue balance on rental R-1001", r.Title("RENT_OVERDUE_0D", rental))
	msg := r.Message("RENT_OVERDUE_0D", rental)
	assert.Contains(t, msg, "370.50")
	assert.Contains(t, msg, "2 overdue charge(s)")

	// Reference falls back to the raw id when unset
	rental.Reference = ""
	assert.Equal(t, "Overdue balance on rental rent-1", r.Title("RENT_OVERDUE_0D", rental))

	fine := engine.FineContext{
		FineID: "fine-1", Reference: "PCN-4411",
		Amount: decimal.RequireFromString("65"), DueOn: "2026-03-16",
	}
	assert.Equal(t, "Fine PCN-4411 payment due", r.Title("FINE_DUE_7D", fine))
	assert.Contains(t, r.Message("FINE_DUE_7D", fine), "65.00")
}
