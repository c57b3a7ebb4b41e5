/*
fine.go - Fine payment deadline generator

PURPOSE:
  Fines in an open status (Open, Appealed, Charged) generate deadline
  reminders on the FINE_DUE ladder (14/7/0 days). Like documents this
  is a multi-tier family: each tier whose window has opened gets its
  own reminder, deduplicated across runs by the compound key.
*/
package engine

import (
	"context"
	"fmt"
	"log"
)

// GenerateFineReminders evaluates open fines with a due date and
// returns the number of newly created reminders.
func (e *Engine) GenerateFineReminders(ctx context.Context, tenantID string, today Date) (int, error) {
	fines, err := e.Fines.OpenFines(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("fetch fines: %w", err)
	}

	created := 0
	for _, f := range fines {
		if f.DueOn.IsZero() {
			continue
		}

		c := FineContext{
			FineID:       f.ID,
			Reference:    f.Reference,
			FineType:     f.FineType,
			Amount:       f.Amount,
			CustomerName: f.CustomerName,
			Registration: f.Registration,
			DueOn:        f.DueOn.String(),
		}

		for _, rule := range e.Catalog.Family(FamilyFineDue) {
			remindOn := f.DueOn.AddDays(-rule.LeadDays)
			if remindOn.After(today) {
				continue
			}
			n, err := e.persist(ctx, e.newReminder(rule, ObjectFine, f.ID, f.DueOn, remindOn, c, f.TenantID))
			if err != nil {
				log.Printf("[Engine] Fine %s rule %s: %v", f.ID, rule.Code, err)
				continue
			}
			created += n
		}
	}
	return created, nil
}
