/*
document.go - Customer document reminder generator

PURPOSE:
  Generates expiry reminders for customer documents (licences, permits,
  insurance certificates). Unlike the vehicle tracks this is a
  multi-tier family: every rule whose window has opened gets its own
  reminder, so a document 5 days from expiry can have the 30, 14 and 7
  day tiers pending at once - an escalating paper trail rather than a
  single current reminder. Repeated runs rely entirely on compound-key
  idempotence; nothing is ever deleted here.
*/
package engine

import (
	"context"
	"fmt"
	"log"
)

// GenerateDocumentReminders evaluates documents with an expiry date and
// returns the number of newly created reminders. Documents whose
// customer reference cannot be resolved are skipped silently.
func (e *Engine) GenerateDocumentReminders(ctx context.Context, tenantID string, today Date) (int, error) {
	docs, err := e.Documents.ExpiringDocuments(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("fetch documents: %w", err)
	}

	created := 0
	for _, d := range docs {
		if d.CustomerID == "" {
			// Broken customer reference: filtered, not an error.
			continue
		}
		expires := d.ExpiresOn()
		if expires.IsZero() {
			continue
		}

		family := FamilyDocument
		if d.IsInsurance() {
			family = FamilyInsurance
		}

		c := DocumentContext{
			DocumentID:   d.ID,
			DocumentType: d.DocumentType,
			CustomerID:   d.CustomerID,
			CustomerName: d.CustomerName,
			Provider:     d.Provider,
			ExpiresOn:    expires.String(),
		}

		for _, rule := range e.Catalog.Family(family) {
			remindOn := expires.AddDays(-rule.LeadDays)
			if remindOn.After(today) {
				continue
			}
			n, err := e.persist(ctx, e.newReminder(rule, ObjectDocument, d.ID, expires, remindOn, c, d.TenantID))
			if err != nil {
				log.Printf("[Engine] Document %s rule %s: %v", d.ID, rule.Code, err)
				continue
			}
			created += n
		}
	}
	return created, nil
}
