/*
Package templates renders reminder titles and messages and maps rule
codes to severities.

PURPOSE:
  The engine treats rendering as a pure function of (rule code, context
  snapshot). All user-visible wording lives here so copy changes never
  touch generation logic; refreshed upserts pick new wording up on the
  next pass.

SEVERITY:
  Count-down families escalate as the due date approaches:
  30d low, 14d medium, 7d high, 0d critical. The immobiliser family
  counts up, so its ladder is inverted: the longer the vehicle has gone
  unfitted, the higher the severity. RENT_OVERDUE is always high - it
  only exists once money is already overdue.
*/
package templates

import (
	"fmt"

	"github.com/fleetrent/reminder-engine/engine"
)

// Resolver implements engine.TemplateResolver.
type Resolver struct{}

func NewResolver() *Resolver { return &Resolver{} }

// =============================================================================
// SEVERITY
// =============================================================================

var severityByCode = map[string]engine.Severity{
	"VEH_MOT_30D": engine.SeverityLow,
	"VEH_MOT_14D": engine.SeverityMedium,
	"VEH_MOT_7D":  engine.SeverityHigh,
	"VEH_MOT_0D":  engine.SeverityCritical,

	"VEH_TAX_30D": engine.SeverityLow,
	"VEH_TAX_14D": engine.SeverityMedium,
	"VEH_TAX_7D":  engine.SeverityHigh,
	"VEH_TAX_0D":  engine.SeverityCritical,

	"IMM_FIT_0D":  engine.SeverityLow,
	"IMM_FIT_7D":  engine.SeverityMedium,
	"IMM_FIT_14D": engine.SeverityHigh,
	"IMM_FIT_30D": engine.SeverityCritical,

	"INS_EXP_30D": engine.SeverityLow,
	"INS_EXP_14D": engine.SeverityMedium,
	"INS_EXP_7D":  engine.SeverityHigh,
	"INS_EXP_0D":  engine.SeverityCritical,

	"DOC_EXP_30D": engine.SeverityLow,
	"DOC_EXP_14D": engine.SeverityMedium,
	"DOC_EXP_7D":  engine.SeverityHigh,
	"DOC_EXP_0D":  engine.SeverityCritical,

	"RENT_OVERDUE_0D": engine.SeverityHigh,

	"FINE_DUE_14D": engine.SeverityMedium,
	"FINE_DUE_7D":  engine.SeverityHigh,
	"FINE_DUE_0D":  engine.SeverityCritical,
}

func (Resolver) Severity(ruleCode string) engine.Severity {
	if s, ok := severityByCode[ruleCode]; ok {
		return s
	}
	return engine.SeverityMedium
}

// =============================================================================
// TITLES & MESSAGES
// =============================================================================

func (Resolver) Title(ruleCode string, c engine.Context) string {
	switch v := c.(type) {
	case engine.VehicleContext:
		return vehicleTitle(ruleCode, v)
	case engine.DocumentContext:
		if v.Provider != "" || v.DocumentType == "Insurance Certificate" {
			return fmt.Sprintf("Insurance expiring for %s", v.CustomerName)
		}
		return fmt.Sprintf("%s expiring for %s", v.DocumentType, v.CustomerName)
	case engine.RentalContext:
		return fmt.Sprintf("Overdue balance on rental %s", orRef(v.Reference, v.RentalID))
	case engine.FineContext:
		return fmt.Sprintf("Fine %s payment due", orRef(v.Reference, v.FineID))
	default:
		return ruleCode
	}
}

func (Resolver) Message(ruleCode string, c engine.Context) string {
	switch v := c.(type) {
	case engine.VehicleContext:
		return vehicleMessage(ruleCode, v)
	case engine.DocumentContext:
		return fmt.Sprintf("%s for %s expires on %s.", v.DocumentType, v.CustomerName, v.ExpiresOn)
	case engine.RentalContext:
		return fmt.Sprintf("%s has %d overdue charge(s) totalling %s on rental %s, oldest due %s.",
			v.CustomerName, v.ChargeCount, v.OverdueTotal.StringFixed(2), orRef(v.Reference, v.RentalID), v.OldestDueOn)
	case engine.FineContext:
		return fmt.Sprintf("Fine %s of %s is due on %s.", orRef(v.Reference, v.FineID), v.Amount.StringFixed(2), v.DueOn)
	default:
		return ruleCode
	}
}

func vehicleTitle(ruleCode string, v engine.VehicleContext) string {
	switch {
	case hasFamily(ruleCode, engine.FamilyVehicleMOT):
		if v.DayCount < 0 {
			return fmt.Sprintf("MOT overdue: %s", v.Registration)
		}
		return fmt.Sprintf("MOT due: %s", v.Registration)
	case hasFamily(ruleCode, engine.FamilyVehicleTax):
		if v.DayCount < 0 {
			return fmt.Sprintf("Tax overdue: %s", v.Registration)
		}
		return fmt.Sprintf("Tax due: %s", v.Registration)
	case hasFamily(ruleCode, engine.FamilyImmobiliser):
		return fmt.Sprintf("No immobiliser fitted: %s", v.Registration)
	default:
		return v.Registration
	}
}

func vehicleMessage(ruleCode string, v engine.VehicleContext) string {
	switch {
	case hasFamily(ruleCode, engine.FamilyVehicleMOT):
		if v.DayCount < 0 {
			return fmt.Sprintf("MOT for %s expired on %s (%d day(s) ago).", v.Registration, v.DueOn, -v.DayCount)
		}
		return fmt.Sprintf("MOT for %s is due on %s (%d day(s) away).", v.Registration, v.DueOn, v.DayCount)
	case hasFamily(ruleCode, engine.FamilyVehicleTax):
		if v.DayCount < 0 {
			return fmt.Sprintf("Road tax for %s expired on %s (%d day(s) ago).", v.Registration, v.DueOn, -v.DayCount)
		}
		return fmt.Sprintf("Road tax for %s is due on %s (%d day(s) away).", v.Registration, v.DueOn, v.DayCount)
	case hasFamily(ruleCode, engine.FamilyImmobiliser):
		return fmt.Sprintf("%s has had no remote immobiliser for %d day(s) since acquisition.", v.Registration, v.DayCount)
	default:
		return v.Registration
	}
}

// hasFamily matches a rule code against its family prefix. Codes are
// generated as FAMILY_<lead>D, so a prefix plus underscore is exact.
func hasFamily(ruleCode string, f engine.Family) bool {
	prefix := string(f) + "_"
	return len(ruleCode) > len(prefix) && ruleCode[:len(prefix)] == prefix
}

func orRef(ref, id string) string {
	if ref != "" {
		return ref
	}
	return id
}
