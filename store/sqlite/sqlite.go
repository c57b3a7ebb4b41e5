/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements the engine's persistence (ReminderStore) and every
  source-read interface (VehicleSource, DocumentSource,
  RentalChargeSource, FineSource, SettingsSource) using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  reminders:          Generated reminders, unique on the compound key
  reminder_actions:   Append-only audit trail
  vehicles:           Fleet vehicles (MOT/tax/immobiliser fields)
  customers:          Customer records
  customer_documents: Documents with expiry dates
  rentals:            Rental agreements
  ledger_entries:     Rental charges and payments
  fines:              Traffic and parking fines
  org_settings:       Per-tenant configuration (timezone)

COMPOUND KEY:
  The unique index on (tenant_id, rule_code, object_type, object_id,
  due_on, remind_on) is the database-level half of the idempotence
  guarantee; the terminal-status guard in engine/upsert.go is the other
  half.

DATES & AMOUNTS:
  Dates are stored as TEXT in YYYY-MM-DD form (empty string = not set),
  which makes lexicographic comparison equal to date comparison. Money
  is stored as TEXT and parsed with shopspring/decimal; remaining-amount
  positivity is checked client-side to avoid text-affinity surprises.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL for
  better read concurrency and crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fleetrent/reminder-engine/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		rule_code TEXT NOT NULL,
		family TEXT NOT NULL,
		object_type TEXT NOT NULL,
		object_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		severity TEXT NOT NULL,
		due_on TEXT NOT NULL,
		remind_on TEXT NOT NULL,
		status TEXT NOT NULL,
		context_json TEXT,
		tenant_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- The idempotence boundary: one row per compound key per tenant.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reminders_compound_key
		ON reminders(tenant_id, rule_code, object_type, object_id, due_on, remind_on);

	-- Track cleanup (delete-then-recreate) and listing hot paths.
	CREATE INDEX IF NOT EXISTS idx_reminders_object_family
		ON reminders(tenant_id, object_type, object_id, family, status);
	CREATE INDEX IF NOT EXISTS idx_reminders_status_due
		ON reminders(status, due_on);

	CREATE TABLE IF NOT EXISTS reminder_actions (
		id TEXT PRIMARY KEY,
		reminder_id TEXT NOT NULL,
		action TEXT NOT NULL,
		note TEXT,
		tenant_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reminder_actions_reminder
		ON reminder_actions(reminder_id, created_at);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		registration TEXT NOT NULL,
		make TEXT,
		model TEXT,
		mot_due_on TEXT NOT NULL DEFAULT '',
		tax_due_on TEXT NOT NULL DEFAULT '',
		has_immobiliser INTEGER NOT NULL DEFAULT 0,
		acquired_on TEXT NOT NULL DEFAULT '',
		disposed INTEGER NOT NULL DEFAULT 0,
		tenant_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		tenant_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS customer_documents (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		document_type TEXT NOT NULL,
		insurance_provider TEXT NOT NULL DEFAULT '',
		end_on TEXT NOT NULL DEFAULT '',
		policy_end_on TEXT NOT NULL DEFAULT '',
		tenant_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS rentals (
		id TEXT PRIMARY KEY,
		reference TEXT,
		customer_id TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		tenant_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		rental_id TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		remaining_amount TEXT NOT NULL,
		due_on TEXT NOT NULL DEFAULT '',
		tenant_id TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_due
		ON ledger_entries(entry_type, category, due_on);

	CREATE TABLE IF NOT EXISTS fines (
		id TEXT PRIMARY KEY,
		reference TEXT,
		fine_type TEXT,
		customer_id TEXT,
		vehicle_id TEXT,
		amount TEXT NOT NULL,
		due_on TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		tenant_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS org_settings (
		tenant_id TEXT PRIMARY KEY,
		timezone TEXT NOT NULL DEFAULT 'UTC'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all rows. Dev/demo only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"reminders", "reminder_actions", "vehicles", "customers",
		"customer_documents", "rentals", "ledger_entries", "fines",
		"org_settings",
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("reset %s: %w", t, err)
		}
	}
	return nil
}

// =============================================================================
// DATE / AMOUNT HELPERS
// =============================================================================

func dateText(d engine.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func textDate(s string) engine.Date {
	if s == "" {
		return engine.Date{}
	}
	d, err := engine.ParseDate(s)
	if err != nil {
		return engine.Date{}
	}
	return d
}

func textDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nowText() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// REMINDER STORE
// =============================================================================

const reminderColumns = `id, rule_code, family, object_type, object_id,
	title, message, severity, due_on, remind_on, status, context_json, tenant_id`

func scanReminder(scan func(...any) error) (*engine.Reminder, error) {
	var r engine.Reminder
	var dueOn, remindOn, contextJSON string
	err := scan(&r.ID, &r.RuleCode, &r.Family, &r.ObjectType, &r.ObjectID,
		&r.Title, &r.Message, &r.Severity, &dueOn, &remindOn, &r.Status,
		&contextJSON, &r.TenantID)
	if err != nil {
		return nil, err
	}
	r.DueOn = textDate(dueOn)
	r.RemindOn = textDate(remindOn)

	c, err := engine.UnmarshalContext(r.ObjectType, contextJSON)
	if err != nil {
		return nil, fmt.Errorf("reminder %s: %w", r.ID, err)
	}
	r.Context = c
	return &r, nil
}

func (s *Store) FindByKey(ctx context.Context, tenantID string, k engine.Key) (*engine.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+reminderColumns+` FROM reminders
		WHERE tenant_id = ? AND rule_code = ? AND object_type = ?
		  AND object_id = ? AND due_on = ? AND remind_on = ?`,
		tenantID, k.RuleCode, k.ObjectType, k.ObjectID,
		dateText(k.DueOn), dateText(k.RemindOn))

	r, err := scanReminder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find reminder: %w", err)
	}
	return r, nil
}

func (s *Store) Put(ctx context.Context, r engine.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contextJSON, err := engine.MarshalContext(r.Context)
	if err != nil {
		return err
	}

	// INSERT OR REPLACE covers both the fresh insert and the in-place
	// refresh: the engine reuses the existing row id when refreshing,
	// so the compound-key and primary-key conflicts target the same row.
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminders
			(id, rule_code, family, object_type, object_id, title, message,
			 severity, due_on, remind_on, status, context_json, tenant_id,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT created_at FROM reminders WHERE id = ?), ?), ?)`,
		r.ID, r.RuleCode, r.Family, r.ObjectType, r.ObjectID, r.Title,
		r.Message, r.Severity, dateText(r.DueOn), dateText(r.RemindOn),
		r.Status, contextJSON, r.TenantID,
		r.ID, nowText(), nowText())
	if err != nil {
		return fmt.Errorf("put reminder: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*engine.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

func (s *Store) List(ctx context.Context, f engine.ReminderFilter) ([]engine.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE 1=1`
	var args []any
	if f.TenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, f.TenantID)
	}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.ObjectType != "" {
		query += " AND object_type = ?"
		args = append(args, f.ObjectType)
	}
	if f.ObjectID != "" {
		query += " AND object_id = ?"
		args = append(args, f.ObjectID)
	}
	if f.Family != "" {
		query += " AND family = ?"
		args = append(args, f.Family)
	}
	query += " ORDER BY remind_on ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var result []engine.Reminder
	for rows.Next() {
		r, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func (s *Store) DeleteOpen(ctx context.Context, tenantID string, objectType engine.ObjectType, objectID string, family engine.Family) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reminders
		WHERE tenant_id = ? AND object_type = ? AND object_id = ? AND family = ?
		  AND status IN (?, ?)`,
		tenantID, objectType, objectID, family,
		engine.StatusPending, engine.StatusSnoozed)
	if err != nil {
		return 0, fmt.Errorf("delete open reminders: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) ListOpenDueBefore(ctx context.Context, tenantID string, day engine.Date) ([]engine.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + reminderColumns + ` FROM reminders
		WHERE status IN (?, ?) AND due_on <> '' AND due_on < ?`
	args := []any{engine.StatusPending, engine.StatusSnoozed, dateText(day)}
	if tenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, tenantID)
	}
	query += " ORDER BY due_on ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale reminders: %w", err)
	}
	defer rows.Close()

	var result []engine.Reminder
	for rows.Next() {
		r, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id string, status engine.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET status = ?, updated_at = ? WHERE id = ?`,
		status, nowText(), id)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return engine.ErrReminderNotFound
	}
	return nil
}

// Transition moves an open reminder to the target status. The open
// check and the write are one conditional statement, so two racing
// transitions cannot both close the same reminder. Returns
// ErrInvalidTransition when the reminder is already closed.
func (s *Store) Transition(ctx context.Context, id string, target engine.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		target, nowText(), id,
		engine.StatusPending, engine.StatusSnoozed)
	if err != nil {
		return fmt.Errorf("transition reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	var one int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM reminders WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return engine.ErrReminderNotFound
	}
	if err != nil {
		return fmt.Errorf("transition reminder: %w", err)
	}
	return engine.ErrInvalidTransition
}

func (s *Store) AppendAction(ctx context.Context, a engine.ReminderAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_actions (id, reminder_id, action, note, tenant_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ReminderID, a.Action, a.Note, a.TenantID, nowText())
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

func (s *Store) ActionsFor(ctx context.Context, reminderID string) ([]engine.ReminderAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reminder_id, action, COALESCE(note, ''), tenant_id
		FROM reminder_actions WHERE reminder_id = ?
		ORDER BY created_at ASC, id ASC`, reminderID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var result []engine.ReminderAction
	for rows.Next() {
		var a engine.ReminderAction
		if err := rows.Scan(&a.ID, &a.ReminderID, &a.Action, &a.Note, &a.TenantID); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// =============================================================================
// SOURCE READS
// =============================================================================

func (s *Store) VehiclesNeedingAttention(ctx context.Context, tenantID string) ([]engine.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, registration, COALESCE(make, ''), COALESCE(model, ''),
		       mot_due_on, tax_due_on, has_immobiliser, acquired_on, tenant_id
		FROM vehicles
		WHERE disposed = 0
		  AND (mot_due_on <> '' OR tax_due_on <> '' OR has_immobiliser = 0)`
	var args []any
	if tenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, tenantID)
	}
	query += " ORDER BY registration ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	var result []engine.Vehicle
	for rows.Next() {
		var v engine.Vehicle
		var motDue, taxDue, acquired string
		var hasImmobiliser int
		if err := rows.Scan(&v.ID, &v.Registration, &v.Make, &v.Model,
			&motDue, &taxDue, &hasImmobiliser, &acquired, &v.TenantID); err != nil {
			return nil, err
		}
		v.MOTDueOn = textDate(motDue)
		v.TaxDueOn = textDate(taxDue)
		v.AcquiredOn = textDate(acquired)
		v.HasImmobiliser = hasImmobiliser != 0
		result = append(result, v)
	}
	return result, rows.Err()
}

func (s *Store) ExpiringDocuments(ctx context.Context, tenantID string) ([]engine.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// LEFT JOIN keeps documents with broken customer references in the
	// result set (empty customer id); the generator filters them.
	query := `
		SELECT d.id, d.document_type, d.insurance_provider,
		       COALESCE(c.id, ''), COALESCE(c.name, ''),
		       d.end_on, d.policy_end_on, d.tenant_id
		FROM customer_documents d
		LEFT JOIN customers c ON c.id = d.customer_id
		WHERE (d.end_on <> '' OR d.policy_end_on <> '')`
	var args []any
	if tenantID != "" {
		query += " AND d.tenant_id = ?"
		args = append(args, tenantID)
	}
	query += " ORDER BY d.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var result []engine.Document
	for rows.Next() {
		var d engine.Document
		var endOn, policyEndOn string
		if err := rows.Scan(&d.ID, &d.DocumentType, &d.Provider,
			&d.CustomerID, &d.CustomerName, &endOn, &policyEndOn, &d.TenantID); err != nil {
			return nil, err
		}
		d.EndOn = textDate(endOn)
		d.PolicyEndOn = textDate(policyEndOn)
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *Store) OverdueCharges(ctx context.Context, tenantID string, day engine.Date) ([]engine.OverdueCharge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Inner joins enforce the valid customer/vehicle references the
	// rental generator requires.
	query := `
		SELECT l.id, l.rental_id, COALESCE(r.reference, ''), c.name,
		       v.registration, l.remaining_amount, l.due_on, l.tenant_id
		FROM ledger_entries l
		JOIN rentals r ON r.id = l.rental_id AND r.status = 'active'
		JOIN customers c ON c.id = r.customer_id
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE l.entry_type = 'Charge' AND l.category = 'Rental'
		  AND l.due_on <> '' AND l.due_on < ?`
	args := []any{dateText(day)}
	if tenantID != "" {
		query += " AND l.tenant_id = ?"
		args = append(args, tenantID)
	}
	query += " ORDER BY l.due_on ASC, l.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query overdue charges: %w", err)
	}
	defer rows.Close()

	var result []engine.OverdueCharge
	for rows.Next() {
		var ch engine.OverdueCharge
		var remaining, dueOn string
		if err := rows.Scan(&ch.ChargeID, &ch.RentalID, &ch.RentalReference,
			&ch.CustomerName, &ch.Registration, &remaining, &dueOn, &ch.TenantID); err != nil {
			return nil, err
		}
		ch.Remaining = textDecimal(remaining)
		ch.DueOn = textDate(dueOn)
		if !ch.Remaining.IsPositive() {
			continue
		}
		result = append(result, ch)
	}
	return result, rows.Err()
}

func (s *Store) OpenFines(ctx context.Context, tenantID string) ([]engine.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT f.id, COALESCE(f.reference, ''), COALESCE(f.fine_type, ''),
		       f.amount, f.due_on, f.status,
		       COALESCE(c.name, ''), COALESCE(v.registration, ''), f.tenant_id
		FROM fines f
		LEFT JOIN customers c ON c.id = f.customer_id
		LEFT JOIN vehicles v ON v.id = f.vehicle_id
		WHERE f.status IN ('Open', 'Appealed', 'Charged') AND f.due_on <> ''`
	var args []any
	if tenantID != "" {
		query += " AND f.tenant_id = ?"
		args = append(args, tenantID)
	}
	query += " ORDER BY f.due_on ASC, f.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fines: %w", err)
	}
	defer rows.Close()

	var result []engine.Fine
	for rows.Next() {
		var f engine.Fine
		var amount, dueOn string
		if err := rows.Scan(&f.ID, &f.Reference, &f.FineType, &amount,
			&dueOn, &f.Status, &f.CustomerName, &f.Registration, &f.TenantID); err != nil {
			return nil, err
		}
		f.Amount = textDecimal(amount)
		f.DueOn = textDate(dueOn)
		result = append(result, f)
	}
	return result, rows.Err()
}

func (s *Store) Timezone(ctx context.Context, tenantID string) (*time.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT timezone FROM org_settings WHERE tenant_id = ?`, tenantID).Scan(&name)
	if err == sql.ErrNoRows {
		return time.UTC, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query timezone: %w", err)
	}
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// =============================================================================
// SOURCE WRITES - Seeding and demo scenarios
// =============================================================================

func (s *Store) SaveVehicle(ctx context.Context, v engine.Vehicle, disposed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasImmobiliser := 0
	if v.HasImmobiliser {
		hasImmobiliser = 1
	}
	disposedFlag := 0
	if disposed {
		disposedFlag = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO vehicles
			(id, registration, make, model, mot_due_on, tax_due_on,
			 has_immobiliser, acquired_on, disposed, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Registration, v.Make, v.Model, dateText(v.MOTDueOn),
		dateText(v.TaxDueOn), hasImmobiliser, dateText(v.AcquiredOn),
		disposedFlag, v.TenantID)
	if err != nil {
		return fmt.Errorf("save vehicle: %w", err)
	}
	return nil
}

func (s *Store) SaveCustomer(ctx context.Context, id, name, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO customers (id, name, tenant_id) VALUES (?, ?, ?)`,
		id, name, tenantID)
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func (s *Store) SaveDocument(ctx context.Context, d engine.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO customer_documents
			(id, customer_id, document_type, insurance_provider, end_on, policy_end_on, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CustomerID, d.DocumentType, d.Provider,
		dateText(d.EndOn), dateText(d.PolicyEndOn), d.TenantID)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Rental is a rental agreement row for seeding.
type Rental struct {
	ID         string
	Reference  string
	CustomerID string
	VehicleID  string
	Status     string
	TenantID   string
}

func (s *Store) SaveRental(ctx context.Context, r Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Status == "" {
		r.Status = "active"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rentals (id, reference, customer_id, vehicle_id, status, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Reference, r.CustomerID, r.VehicleID, r.Status, r.TenantID)
	if err != nil {
		return fmt.Errorf("save rental: %w", err)
	}
	return nil
}

// LedgerEntry is a rental ledger row for seeding.
type LedgerEntry struct {
	ID        string
	RentalID  string
	EntryType string
	Category  string
	Amount    decimal.Decimal
	Remaining decimal.Decimal
	DueOn     engine.Date
	TenantID  string
}

func (s *Store) SaveLedgerEntry(ctx context.Context, e LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO ledger_entries
			(id, rental_id, entry_type, category, amount, remaining_amount, due_on, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RentalID, e.EntryType, e.Category, e.Amount.String(),
		e.Remaining.String(), dateText(e.DueOn), e.TenantID)
	if err != nil {
		return fmt.Errorf("save ledger entry: %w", err)
	}
	return nil
}

// FineRecord is a fine row for seeding, carrying the raw foreign keys.
type FineRecord struct {
	ID         string
	Reference  string
	FineType   string
	CustomerID string
	VehicleID  string
	Amount     decimal.Decimal
	DueOn      engine.Date
	Status     string
	TenantID   string
}

func (s *Store) SaveFine(ctx context.Context, f FineRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO fines
			(id, reference, fine_type, customer_id, vehicle_id, amount, due_on, status, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Reference, f.FineType, f.CustomerID, f.VehicleID,
		f.Amount.String(), dateText(f.DueOn), f.Status, f.TenantID)
	if err != nil {
		return fmt.Errorf("save fine: %w", err)
	}
	return nil
}

func (s *Store) SaveOrgSettings(ctx context.Context, tenantID, timezone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO org_settings (tenant_id, timezone) VALUES (?, ?)`,
		tenantID, timezone)
	if err != nil {
		return fmt.Errorf("save org settings: %w", err)
	}
	return nil
}
