/*
selector.go - Best-rule selection

PURPOSE:
  Given a signed day count, pick the single most urgent applicable rule
  from a family. This is the heart of the "one current reminder" tracks
  (vehicle MOT/tax/immobiliser); multi-tier tracks (documents, fines)
  iterate the family directly and skip this selector.

SEMANTICS:
  A rule's window has opened when its reminder date has been reached:
  due date minus lead days for count-down families, anchor date plus
  lead days for count-up. The best rule is the most urgent rule whose
  window is open.

  Count-down families (MOT, tax, document expiry):
    dayCount = days until the due date, negative once overdue.
    Open windows are the tiers with leadDays >= dayCount; the smallest
    of them is the current band. 10 days out against {30,14,7,0} the
    30- and 14-day windows are open and the 14-day rule fires; at 13
    days it still fires; the 7-day rule takes over at 7. Overdue counts
    land on the zero-lead terminal rule. More than 30 days out no
    window is open and nothing fires.

  Count-up families (immobiliser):
    dayCount = days since acquisition, never negative. Open windows are
    the tiers with leadDays <= dayCount; the largest fires - the longer
    the vehicle has gone unfitted, the higher the tier. The zero-lead
    rule matches from day zero, so a well-formed family always fires.

GUARANTEE:
  At most one rule per call, and exactly one whenever any window is
  open. A nil return means no window has opened yet (count-down, far
  from due) or the family is empty or malformed - in both cases the
  caller must not generate.
*/
package engine

import "sort"

// BestRule selects the most urgent rule of the family whose window has
// opened for the given signed day count. Returns nil when no window is
// open or the family is empty/malformed.
func (c *Catalog) BestRule(f Family, dayCount int) *Rule {
	candidates := c.Family(f)
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Rule, len(candidates))
	copy(sorted, candidates)

	if f.CountsUp() {
		// Largest lead at or below the elapsed count.
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].LeadDays > sorted[j].LeadDays
		})
		for i := range sorted {
			if dayCount >= sorted[i].LeadDays {
				return &sorted[i]
			}
		}
		// dayCount should never be negative for count-up families; the
		// zero-lead rule is the explicit fallback if it is.
		for i := range sorted {
			if sorted[i].LeadDays == 0 {
				return &sorted[i]
			}
		}
		return nil
	}

	// Count-down: smallest lead whose window (due - lead) has been
	// reached. Overdue counts match the zero-lead rule here without a
	// separate fallback.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LeadDays < sorted[j].LeadDays
	})
	for i := range sorted {
		if sorted[i].LeadDays >= dayCount {
			return &sorted[i]
		}
	}
	return nil
}
