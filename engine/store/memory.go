// Package store provides in-memory implementations of the engine's
// persistence and source interfaces, for testing and development.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fleetrent/reminder-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory ReminderStore implementation
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	byID      map[string]engine.Reminder
	idByKey   map[string]string
	actions   map[string][]engine.ReminderAction
	actionLog []engine.ReminderAction
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]engine.Reminder),
		idByKey: make(map[string]string),
		actions: make(map[string][]engine.ReminderAction),
	}
}

// keyString flattens tenant + compound key into a map key. Dates are
// rendered as strings so location/monotonic-clock differences in the
// underlying time values can't split identical days.
func keyString(tenantID string, k engine.Key) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", tenantID, k.RuleCode, k.ObjectType, k.ObjectID, k.DueOn, k.RemindOn)
}

func (m *Memory) FindByKey(_ context.Context, tenantID string, k engine.Key) (*engine.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.idByKey[keyString(tenantID, k)]
	if !ok {
		return nil, nil
	}
	r := m.byID[id]
	return &r, nil
}

func (m *Memory) Put(_ context.Context, r engine.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks := keyString(r.TenantID, r.Key())
	if oldID, ok := m.idByKey[ks]; ok && oldID != r.ID {
		delete(m.byID, oldID)
	}
	m.byID[r.ID] = r
	m.idByKey[ks] = r.ID
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*engine.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) List(_ context.Context, f engine.ReminderFilter) ([]engine.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Reminder
	for _, r := range m.byID {
		if f.TenantID != "" && r.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.ObjectType != "" && r.ObjectType != f.ObjectType {
			continue
		}
		if f.ObjectID != "" && r.ObjectID != f.ObjectID {
			continue
		}
		if f.Family != "" && r.Family != f.Family {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].RemindOn.Equal(result[j].RemindOn) {
			return result[i].RemindOn.Before(result[j].RemindOn)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeleteOpen(_ context.Context, tenantID string, objectType engine.ObjectType, objectID string, family engine.Family) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, r := range m.byID {
		if r.TenantID != tenantID || r.ObjectType != objectType || r.ObjectID != objectID || r.Family != family {
			continue
		}
		if r.Status.IsTerminal() {
			continue
		}
		delete(m.byID, id)
		delete(m.idByKey, keyString(r.TenantID, r.Key()))
		deleted++
	}
	return deleted, nil
}

func (m *Memory) ListOpenDueBefore(_ context.Context, tenantID string, day engine.Date) ([]engine.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Reminder
	for _, r := range m.byID {
		if tenantID != "" && r.TenantID != tenantID {
			continue
		}
		if r.Status.IsOpen() && r.DueOn.Before(day) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) SetStatus(_ context.Context, id string, status engine.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byID[id]
	if !ok {
		return engine.ErrReminderNotFound
	}
	r.Status = status
	m.byID[id] = r
	return nil
}

func (m *Memory) AppendAction(_ context.Context, a engine.ReminderAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions[a.ReminderID] = append(m.actions[a.ReminderID], a)
	m.actionLog = append(m.actionLog, a)
	return nil
}

func (m *Memory) ActionsFor(_ context.Context, reminderID string) ([]engine.ReminderAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.ReminderAction, len(m.actions[reminderID]))
	copy(result, m.actions[reminderID])
	return result, nil
}

// AllActions returns every audit entry in append order. Test helper.
func (m *Memory) AllActions() []engine.ReminderAction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.ReminderAction, len(m.actionLog))
	copy(result, m.actionLog)
	return result
}

// =============================================================================
// FIXTURES - In-memory source entities
// =============================================================================

// Fixtures implements every source interface over plain slices. Tests
// and the demo scenarios mutate the fields directly between passes.
type Fixtures struct {
	mu        sync.RWMutex
	Vehicles  []engine.Vehicle
	Documents []engine.Document
	Charges   []engine.OverdueCharge
	Fines     []engine.Fine

	// TimezoneName maps tenant id to an IANA zone name. Missing
	// tenants resolve to UTC.
	TimezoneName map[string]string

	// Errors to inject per source, for failure-path tests.
	VehicleErr  error
	DocumentErr error
	ChargeErr   error
	FineErr     error
}

func NewFixtures() *Fixtures {
	return &Fixtures{TimezoneName: make(map[string]string)}
}

func (f *Fixtures) VehiclesNeedingAttention(_ context.Context, tenantID string) ([]engine.Vehicle, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.VehicleErr != nil {
		return nil, f.VehicleErr
	}
	var result []engine.Vehicle
	for _, v := range f.Vehicles {
		if tenantID != "" && v.TenantID != tenantID {
			continue
		}
		if !v.MOTDueOn.IsZero() || !v.TaxDueOn.IsZero() || !v.HasImmobiliser {
			result = append(result, v)
		}
	}
	return result, nil
}

func (f *Fixtures) ExpiringDocuments(_ context.Context, tenantID string) ([]engine.Document, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.DocumentErr != nil {
		return nil, f.DocumentErr
	}
	var result []engine.Document
	for _, d := range f.Documents {
		if tenantID != "" && d.TenantID != tenantID {
			continue
		}
		if !d.ExpiresOn().IsZero() {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *Fixtures) OverdueCharges(_ context.Context, tenantID string, day engine.Date) ([]engine.OverdueCharge, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.ChargeErr != nil {
		return nil, f.ChargeErr
	}
	var result []engine.OverdueCharge
	for _, c := range f.Charges {
		if tenantID != "" && c.TenantID != tenantID {
			continue
		}
		if c.Remaining.IsPositive() && c.DueOn.Before(day) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *Fixtures) OpenFines(_ context.Context, tenantID string) ([]engine.Fine, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.FineErr != nil {
		return nil, f.FineErr
	}
	open := map[string]bool{"Open": true, "Appealed": true, "Charged": true}
	var result []engine.Fine
	for _, fine := range f.Fines {
		if tenantID != "" && fine.TenantID != tenantID {
			continue
		}
		if open[fine.Status] && !fine.DueOn.IsZero() {
			result = append(result, fine)
		}
	}
	return result, nil
}

func (f *Fixtures) Timezone(_ context.Context, tenantID string) (*time.Location, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name, ok := f.TimezoneName[tenantID]
	if !ok || name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
