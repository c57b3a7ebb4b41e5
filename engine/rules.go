/*
rules.go - Static rule catalog

PURPOSE:
  Maps (rule family, lead time) to concrete rule codes. The catalog is
  static and in-memory: rules are compiled into the binary, not stored.

FAMILIES:
  VEH_MOT, VEH_TAX   Vehicle MOT/tax expiry, count-down (30/14/7/0)
  IMM_FIT            Immobiliser not fitted, count-up since acquisition
  INS_EXP, DOC_EXP   Customer document expiry, count-down (30/14/7/0)
  RENT_OVERDUE       Overdue rental balance, due-now only
  FINE_DUE           Fine payment deadline, count-down (14/7/0)

INVARIANTS:
  - Lead times within a family are distinct.
  - Every family contains a zero-lead rule, the terminal/overdue case.
    The selector relies on this for its overdue fallback.

Family membership is a structured field on both rules and persisted
reminders. Track cleanup filters on Family, never on code substrings,
so adding a family whose codes share a prefix cannot cause cross-family
deletion.
*/
package engine

import "fmt"

// =============================================================================
// FAMILY
// =============================================================================

type Family string

const (
	FamilyVehicleMOT  Family = "VEH_MOT"
	FamilyVehicleTax  Family = "VEH_TAX"
	FamilyImmobiliser Family = "IMM_FIT"
	FamilyInsurance   Family = "INS_EXP"
	FamilyDocument    Family = "DOC_EXP"
	FamilyRentOverdue Family = "RENT_OVERDUE"
	FamilyFineDue     Family = "FINE_DUE"
)

// CountsUp reports whether the family's day count measures elapsed time
// (days since acquisition) rather than remaining time. For count-up
// families urgency grows with the count, and the remind date is computed
// forward from the anchor date instead of backward from the due date.
func (f Family) CountsUp() bool { return f == FamilyImmobiliser }

// =============================================================================
// RULE
// =============================================================================

// Rule is one lead-time tier within a family.
type Rule struct {
	Code     string
	Family   Family
	LeadDays int
}

func rule(f Family, leadDays int) Rule {
	return Rule{
		Code:     fmt.Sprintf("%s_%dD", f, leadDays),
		Family:   f,
		LeadDays: leadDays,
	}
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog holds rules grouped by family. Use DefaultCatalog outside of
// tests; tests build small malformed catalogs to exercise selector
// edge cases.
type Catalog struct {
	rules map[Family][]Rule
}

func NewCatalog(rules ...Rule) *Catalog {
	c := &Catalog{rules: make(map[Family][]Rule)}
	for _, r := range rules {
		c.rules[r.Family] = append(c.rules[r.Family], r)
	}
	return c
}

// Family returns the rules of a family in catalog order.
func (c *Catalog) Family(f Family) []Rule {
	return c.rules[f]
}

// DefaultCatalog is the production rule table.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		// Vehicle MOT expiry
		rule(FamilyVehicleMOT, 30),
		rule(FamilyVehicleMOT, 14),
		rule(FamilyVehicleMOT, 7),
		rule(FamilyVehicleMOT, 0),

		// Vehicle tax expiry
		rule(FamilyVehicleTax, 30),
		rule(FamilyVehicleTax, 14),
		rule(FamilyVehicleTax, 7),
		rule(FamilyVehicleTax, 0),

		// Immobiliser not fitted (count-up: days since acquisition)
		rule(FamilyImmobiliser, 0),
		rule(FamilyImmobiliser, 7),
		rule(FamilyImmobiliser, 14),
		rule(FamilyImmobiliser, 30),

		// Insurance certificate expiry
		rule(FamilyInsurance, 30),
		rule(FamilyInsurance, 14),
		rule(FamilyInsurance, 7),
		rule(FamilyInsurance, 0),

		// Generic customer document expiry
		rule(FamilyDocument, 30),
		rule(FamilyDocument, 14),
		rule(FamilyDocument, 7),
		rule(FamilyDocument, 0),

		// Overdue rental balance: only ever generated once something is
		// already overdue, so lead tiers would never fire.
		rule(FamilyRentOverdue, 0),

		// Fine payment deadline
		rule(FamilyFineDue, 14),
		rule(FamilyFineDue, 7),
		rule(FamilyFineDue, 0),
	)
}
