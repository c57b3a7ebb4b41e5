/*
vehicle.go - Vehicle reminder generator

PURPOSE:
  Evaluates up to three independent tracks per vehicle:

    MOT          VEH_MOT, count-down to the MOT due date
    Tax          VEH_TAX, count-down to the tax due date
    Immobiliser  IMM_FIT, count-up since acquisition while no remote
                 immobiliser is fitted

  MOT and tax are best-rule tracks: the vehicle crosses thresholds day
  by day (30 -> 14 -> 7 -> 0), and yesterday's tier would be orphaned
  with a stale remind date and rule code if left behind. Each track
  therefore deletes its own non-terminal reminders and writes at most
  one fresh row - at most one live reminder per vehicle per track.
  Cleanup is scoped by family, so refreshing the tax track can never
  touch an MOT reminder.

  The immobiliser obligation is ongoing rather than calendar-fixed, so
  its due date is always "today" and urgency grows with the number of
  days the vehicle has gone unfitted.
*/
package engine

import (
	"context"
	"fmt"
	"log"
)

// GenerateVehicleReminders evaluates every non-disposed vehicle needing
// attention and returns the number of newly created reminders. A write
// failure on one vehicle is logged and skipped; the loop continues.
func (e *Engine) GenerateVehicleReminders(ctx context.Context, tenantID string, today Date) (int, error) {
	vehicles, err := e.Vehicles.VehiclesNeedingAttention(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("fetch vehicles: %w", err)
	}

	created := 0
	for _, v := range vehicles {
		if !v.MOTDueOn.IsZero() {
			n, err := e.countdownTrack(ctx, v, FamilyVehicleMOT, v.MOTDueOn, today)
			if err != nil {
				log.Printf("[Engine] Vehicle %s MOT track: %v", v.ID, err)
			}
			created += n
		}

		if !v.TaxDueOn.IsZero() {
			n, err := e.countdownTrack(ctx, v, FamilyVehicleTax, v.TaxDueOn, today)
			if err != nil {
				log.Printf("[Engine] Vehicle %s tax track: %v", v.ID, err)
			}
			created += n
		}

		if !v.HasImmobiliser && !v.AcquiredOn.IsZero() {
			n, err := e.immobiliserTrack(ctx, v, today)
			if err != nil {
				log.Printf("[Engine] Vehicle %s immobiliser track: %v", v.ID, err)
			}
			created += n
		}
	}
	return created, nil
}

// countdownTrack replaces the track's live reminder with the current
// best-rule tier, if the tier's window has opened.
func (e *Engine) countdownTrack(ctx context.Context, v Vehicle, family Family, dueOn, today Date) (int, error) {
	// Full replace: clear the track before writing the current tier.
	// Terminal rows survive and keep guarding against resurrection.
	if _, err := e.Reminders.DeleteOpen(ctx, v.TenantID, ObjectVehicle, v.ID, family); err != nil {
		return 0, fmt.Errorf("clear %s track: %w", family, err)
	}

	daysUntil := today.DaysUntil(dueOn)
	rule := e.Catalog.BestRule(family, daysUntil)
	if rule == nil {
		return 0, nil
	}

	remindOn := dueOn.AddDays(-rule.LeadDays)
	if remindOn.After(today) {
		// The window hasn't opened yet.
		return 0, nil
	}

	c := VehicleContext{
		VehicleID:    v.ID,
		Registration: v.Registration,
		Make:         v.Make,
		Model:        v.Model,
		DueOn:        dueOn.String(),
		DayCount:     daysUntil,
	}
	return e.persist(ctx, e.newReminder(*rule, ObjectVehicle, v.ID, dueOn, remindOn, c, v.TenantID))
}

// immobiliserTrack fires count-up reminders while the vehicle has no
// remote immobiliser. The due date is always today: the obligation is
// ongoing, not tied to a calendar date.
func (e *Engine) immobiliserTrack(ctx context.Context, v Vehicle, today Date) (int, error) {
	if _, err := e.Reminders.DeleteOpen(ctx, v.TenantID, ObjectVehicle, v.ID, FamilyImmobiliser); err != nil {
		return 0, fmt.Errorf("clear immobiliser track: %w", err)
	}

	daysSince := today.DaysSince(v.AcquiredOn)
	rule := e.Catalog.BestRule(FamilyImmobiliser, daysSince)
	if rule == nil {
		return 0, nil
	}

	remindOn := v.AcquiredOn.AddDays(rule.LeadDays)
	if remindOn.After(today) {
		return 0, nil
	}

	c := VehicleContext{
		VehicleID:    v.ID,
		Registration: v.Registration,
		Make:         v.Make,
		Model:        v.Model,
		DayCount:     daysSince,
	}
	return e.persist(ctx, e.newReminder(*rule, ObjectVehicle, v.ID, today, remindOn, c, v.TenantID))
}

// persist converts upsert's created flag into a count.
func (e *Engine) persist(ctx context.Context, r Reminder) (int, error) {
	createdNew, err := e.upsert(ctx, r)
	if err != nil {
		return 0, err
	}
	if createdNew {
		return 1, nil
	}
	return 0, nil
}
