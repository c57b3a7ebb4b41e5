/*
rental.go - Overdue rental balance generator

PURPOSE:
  A rental can accumulate several overdue charges. Customers get one
  reminder per rental, not one per charge: charges are grouped by
  rental, the remaining amounts summed, and the reminder anchored on
  the oldest overdue due date. The reminder is always due now by
  construction - it only exists once something is already overdue - so
  its remind date is today and the family has a single zero-lead rule.
*/
package engine

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/shopspring/decimal"
)

// GenerateRentalReminders groups overdue charges by rental and returns
// the number of newly created reminders.
func (e *Engine) GenerateRentalReminders(ctx context.Context, tenantID string, today Date) (int, error) {
	charges, err := e.Charges.OverdueCharges(ctx, tenantID, today)
	if err != nil {
		return 0, fmt.Errorf("fetch overdue charges: %w", err)
	}

	type group struct {
		first  OverdueCharge
		total  decimal.Decimal
		count  int
		oldest Date
	}

	groups := make(map[string]*group)
	var order []string
	for _, ch := range charges {
		g, ok := groups[ch.RentalID]
		if !ok {
			g = &group{first: ch, total: decimal.Zero, oldest: ch.DueOn}
			groups[ch.RentalID] = g
			order = append(order, ch.RentalID)
		}
		g.total = g.total.Add(ch.Remaining)
		g.count++
		if ch.DueOn.Before(g.oldest) {
			g.oldest = ch.DueOn
		}
	}
	sort.Strings(order)

	created := 0
	for _, rentalID := range order {
		g := groups[rentalID]

		daysUntil := today.DaysUntil(g.oldest) // negative: already overdue
		rule := e.Catalog.BestRule(FamilyRentOverdue, daysUntil)
		if rule == nil {
			continue
		}

		c := RentalContext{
			RentalID:     rentalID,
			Reference:    g.first.RentalReference,
			CustomerName: g.first.CustomerName,
			Registration: g.first.Registration,
			OverdueTotal: g.total,
			ChargeCount:  g.count,
			OldestDueOn:  g.oldest.String(),
		}

		n, err := e.persist(ctx, e.newReminder(*rule, ObjectRental, rentalID, g.oldest, today, c, g.first.TenantID))
		if err != nil {
			log.Printf("[Engine] Rental %s: %v", rentalID, err)
			continue
		}
		created += n
	}
	return created, nil
}
