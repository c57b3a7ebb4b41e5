/*
upsert.go - Idempotent reminder write path and expiry sweep

PURPOSE:
  The only two mutations automated generation is allowed to make:

  upsert:  Write a reminder at its compound key. A terminal row at the
           key wins unconditionally (no resurrection). A live row at
           the key has its content refreshed but its status kept, so
           snoozed reminders stay snoozed and template changes
           self-heal on the next pass.

  ExpireOldReminders: Force pending/snoozed reminders whose due date
           has passed into the expired state, appending one audit
           action per row.

IDEMPOTENCE:
  Running either path twice with unchanged source data is a no-op in
  effect. This is what makes at-least-once re-invocation by the
  scheduler safe without any locking.
*/
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// upsert writes a reminder at its compound key and reports whether a
// new row was created. It returns false both when the key is held by a
// terminal row (write refused) and when a live row was refreshed in
// place.
func (e *Engine) upsert(ctx context.Context, r Reminder) (bool, error) {
	existing, err := e.Reminders.FindByKey(ctx, r.TenantID, r.Key())
	if err != nil {
		return false, fmt.Errorf("find reminder by key: %w", err)
	}

	if existing != nil {
		if existing.Status.IsTerminal() {
			// The user (or the sweep) closed this reminder. Never reopen.
			return false, nil
		}

		// Refresh content in place: keep the row id and the user-visible
		// status, overwrite title/message/severity/context.
		r.ID = existing.ID
		r.Status = existing.Status
		if err := e.Reminders.Put(ctx, r); err != nil {
			return false, fmt.Errorf("refresh reminder %s: %w", r.ID, err)
		}
		return false, nil
	}

	r.Status = StatusPending
	if err := e.Reminders.Put(ctx, r); err != nil {
		return false, fmt.Errorf("create reminder %s: %w", r.RuleCode, err)
	}
	return true, nil
}

// ExpireOldReminders transitions every pending or snoozed reminder whose
// due date is before the given day to expired, appending one audit
// action per reminder. Returns the number expired. A failure on one row
// is logged and does not stop the sweep.
func (e *Engine) ExpireOldReminders(ctx context.Context, tenantID string, today Date) (int, error) {
	stale, err := e.Reminders.ListOpenDueBefore(ctx, tenantID, today)
	if err != nil {
		return 0, fmt.Errorf("list stale reminders: %w", err)
	}

	expired := 0
	for _, r := range stale {
		if err := e.Reminders.SetStatus(ctx, r.ID, StatusExpired); err != nil {
			log.Printf("[Engine] Failed to expire reminder %s: %v", r.ID, err)
			continue
		}
		action := ReminderAction{
			ID:         uuid.NewString(),
			ReminderID: r.ID,
			Action:     ActionExpired,
			Note:       fmt.Sprintf("Auto-expired: due %s, swept %s", r.DueOn, today),
			TenantID:   r.TenantID,
		}
		if err := e.Reminders.AppendAction(ctx, action); err != nil {
			log.Printf("[Engine] Failed to record expiry action for %s: %v", r.ID, err)
		}
		expired++
	}
	return expired, nil
}
