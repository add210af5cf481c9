/*
Package sqlite provides a SQLite-backed implementation of the engine's
boundary interfaces.

PURPOSE:
  Implements budget.BudgetStore, budget.LedgerPoster,
  budget.AccountDirectory, budget.SuccessorLookup, and budget.AuditLog
  over a single SQLite database. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

SERIALIZATION:
  Budget rows carry a version column; Save issues

    UPDATE budgets SET ... , version = version + 1
    WHERE id = ? AND version = ?

  and reports budget.ErrConcurrentModification when no row matched. Two
  approvers voting at once therefore serialize through retry-on-conflict in
  the service layer, never through blind merges.

RECURRENCE RACE:
  A unique index on (original_budget_id, start_date) guarantees at most one
  successor per period even if two sweep ticks race; the loser's insert
  fails and is treated as a no-op.

POSTINGS:
  The postings table is append-only with a unique idempotency key per
  funding transaction. A funding application commits the key reservation,
  the budget row update, and both postings of the pair in one SQL
  transaction - all or nothing.

WAL MODE:
  The database is opened with WAL for better concurrency: readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/budgets.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()
  svc := budget.NewService(store, store, store, store, store)

SEE ALSO:
  - budget/store.go: Interface contracts
  - budget/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/budget-engine/budget"
)

// Store implements all boundary interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time interface checks.
var (
	_ budget.BudgetStore      = (*Store)(nil)
	_ budget.LedgerPoster     = (*Store)(nil)
	_ budget.AccountDirectory = (*Store)(nil)
	_ budget.SuccessorLookup  = (*Store)(nil)
	_ budget.AuditLog         = (*Store)(nil)
)

// New creates a SQLite store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS budgets (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL,
		available_amount TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		approval_requirement TEXT NOT NULL,
		required_approvals INTEGER NOT NULL DEFAULT 0,
		rejection_reason TEXT NOT NULL DEFAULT '',
		budgeted_account_id TEXT NOT NULL DEFAULT '',
		recurrence_type TEXT NOT NULL DEFAULT 'none',
		recurrence_interval INTEGER NOT NULL DEFAULT 0,
		recurrence_end_date TEXT,
		original_budget_id TEXT NOT NULL DEFAULT '',
		is_recurring_parent INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_budgets_organization
		ON budgets(organization_id);
	CREATE INDEX IF NOT EXISTS idx_budgets_status
		ON budgets(status);

	-- At most one successor per (root, period start). Backs the recurrence
	-- idempotency guarantee against concurrent sweep ticks.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_budgets_unique_successor
		ON budgets(original_budget_id, start_date)
		WHERE original_budget_id != '';

	CREATE TABLE IF NOT EXISTS budget_approvers (
		budget_id TEXT NOT NULL,
		approver_id TEXT NOT NULL,
		approved INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL,
		PRIMARY KEY (budget_id, approver_id),
		FOREIGN KEY (budget_id) REFERENCES budgets(id)
	);

	CREATE TABLE IF NOT EXISTS budget_policies (
		budget_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		FOREIGN KEY (budget_id) REFERENCES budgets(id)
	);

	-- Append-only double-entry postings. No UPDATE, no DELETE.
	CREATE TABLE IF NOT EXISTS postings (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		side TEXT NOT NULL,
		amount TEXT NOT NULL,
		budget_id TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		idempotency_key TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_postings_budget
		ON postings(budget_id);
	CREATE INDEX IF NOT EXISTS idx_postings_idempotency
		ON postings(idempotency_key);

	-- One funding transaction per idempotency key.
	CREATE TABLE IF NOT EXISTS posting_keys (
		idempotency_key TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1
	);

	-- Append-only audit log of engine events.
	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		budget_id TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		amount TEXT,
		detail TEXT NOT NULL DEFAULT '',
		occurred_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_budget
		ON audit_log(budget_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BUDGET STORE
// =============================================================================

const budgetColumns = `id, organization_id, branch_id, name, total_amount,
	available_amount, start_date, end_date, status, approval_requirement,
	required_approvals, rejection_reason, budgeted_account_id,
	recurrence_type, recurrence_interval, recurrence_end_date,
	original_budget_id, is_recurring_parent, version, created_at, updated_at`

func (s *Store) Get(ctx context.Context, id budget.BudgetID) (*budget.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, string(id))
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadApprovers(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadPolicies(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) Create(ctx context.Context, b budget.Budget) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(b.ID), b.OrganizationID, b.BranchID, b.Name,
		b.TotalAmount.String(), b.AvailableAmount.String(),
		b.StartDate.String(), b.EndDate.String(),
		string(b.Status), string(b.ApprovalRequirement), b.RequiredApprovals,
		b.RejectionReason, string(b.BudgetedAccountID),
		string(b.RecurrenceType), b.RecurrenceInterval,
		nullableDate(b.RecurrenceEndDate),
		string(b.OriginalBudgetID), boolToInt(b.IsRecurringParent),
		1, b.CreatedAt.UTC().Format(time.RFC3339), b.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return budget.ErrConcurrentModification
		}
		return err
	}

	if err := writeApprovers(ctx, tx, b); err != nil {
		return err
	}
	if err := writePolicies(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Save(ctx context.Context, b budget.Budget) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateSnapshot(ctx, tx, b); err != nil {
		return err
	}

	// Vote flags change on approval; rewrite the approver rows.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM budget_approvers WHERE budget_id = ?`, string(b.ID)); err != nil {
		return err
	}
	if err := writeApprovers(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

// updateSnapshot issues the version-checked budget UPDATE inside tx,
// distinguishing a missing row from a stale snapshot.
func updateSnapshot(ctx context.Context, tx *sql.Tx, b budget.Budget) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE budgets SET
			total_amount = ?, available_amount = ?, status = ?,
			rejection_reason = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		b.TotalAmount.String(), b.AvailableAmount.String(), string(b.Status),
		b.RejectionReason, b.UpdatedAt.UTC().Format(time.RFC3339),
		string(b.ID), b.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM budgets WHERE id = ?`, string(b.ID)).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return budget.ErrBudgetNotFound
		}
		return budget.ErrConcurrentModification
	}
	return nil
}

func (s *Store) List(ctx context.Context, organizationID string) ([]budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets`
	var args []any
	if organizationID != "" {
		query += ` WHERE organization_id = ?`
		args = append(args, organizationID)
	}
	query += ` ORDER BY created_at DESC`
	return s.queryBudgets(ctx, query, args...)
}

func (s *Store) ListRecurringParents(ctx context.Context) ([]budget.Budget, error) {
	return s.queryBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE is_recurring_parent = 1 ORDER BY id`)
}

func (s *Store) LatestInChain(ctx context.Context, rootID budget.BudgetID) (*budget.Budget, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE id = ? OR original_budget_id = ?
		ORDER BY start_date DESC LIMIT 1`,
		string(rootID), string(rootID))
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadApprovers(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadPolicies(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) queryBudgets(ctx context.Context, query string, args ...any) ([]budget.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := s.loadApprovers(ctx, &result[i]); err != nil {
			return nil, err
		}
		if err := s.loadPolicies(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (*budget.Budget, error) {
	var (
		b                       budget.Budget
		id, status, requirement string
		totalStr, availStr      string
		startStr, endStr        string
		accountID, originalID   string
		recurrenceType          string
		recurrenceEnd           sql.NullString
		isParent                int
		createdStr, updatedStr  string
	)
	err := row.Scan(&id, &b.OrganizationID, &b.BranchID, &b.Name,
		&totalStr, &availStr, &startStr, &endStr, &status, &requirement,
		&b.RequiredApprovals, &b.RejectionReason, &accountID,
		&recurrenceType, &b.RecurrenceInterval, &recurrenceEnd,
		&originalID, &isParent, &b.Version, &createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}

	b.ID = budget.BudgetID(id)
	b.Status = budget.Status(status)
	b.ApprovalRequirement = budget.ApprovalRequirement(requirement)
	b.BudgetedAccountID = budget.AccountID(accountID)
	b.RecurrenceType = budget.RecurrenceType(recurrenceType)
	b.OriginalBudgetID = budget.BudgetID(originalID)
	b.IsRecurringParent = isParent != 0

	if b.TotalAmount, err = budget.NewMoneyFromString(totalStr); err != nil {
		return nil, fmt.Errorf("bad total_amount %q: %w", totalStr, err)
	}
	if b.AvailableAmount, err = budget.NewMoneyFromString(availStr); err != nil {
		return nil, fmt.Errorf("bad available_amount %q: %w", availStr, err)
	}
	if b.StartDate, err = budget.ParseDate(startStr); err != nil {
		return nil, fmt.Errorf("bad start_date %q: %w", startStr, err)
	}
	if b.EndDate, err = budget.ParseDate(endStr); err != nil {
		return nil, fmt.Errorf("bad end_date %q: %w", endStr, err)
	}
	if recurrenceEnd.Valid && recurrenceEnd.String != "" {
		d, derr := budget.ParseDate(recurrenceEnd.String)
		if derr != nil {
			return nil, fmt.Errorf("bad recurrence_end_date %q: %w", recurrenceEnd.String, derr)
		}
		b.RecurrenceEndDate = &d
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) loadApprovers(ctx context.Context, b *budget.Budget) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT approver_id, approved FROM budget_approvers
		WHERE budget_id = ? ORDER BY position`, string(b.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	b.Approvers = nil
	for rows.Next() {
		var id string
		var approved int
		if err := rows.Scan(&id, &approved); err != nil {
			return err
		}
		b.Approvers = append(b.Approvers, budget.Approver{
			ApproverID: budget.ApproverID(id),
			Approved:   approved != 0,
		})
	}
	return rows.Err()
}

func (s *Store) loadPolicies(ctx context.Context, b *budget.Budget) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status FROM budget_policies
		WHERE budget_id = ? ORDER BY position`, string(b.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	b.Policies = nil
	for rows.Next() {
		var p budget.PolicyDocument
		if err := rows.Scan(&p.Name, &p.Status); err != nil {
			return err
		}
		b.Policies = append(b.Policies, p)
	}
	return rows.Err()
}

func writeApprovers(ctx context.Context, tx *sql.Tx, b budget.Budget) error {
	for i, a := range b.Approvers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budget_approvers (budget_id, approver_id, approved, position)
			VALUES (?, ?, ?, ?)`,
			string(b.ID), string(a.ApproverID), boolToInt(a.Approved), i); err != nil {
			return err
		}
	}
	return nil
}

func writePolicies(ctx context.Context, tx *sql.Tx, b budget.Budget) error {
	for i, p := range b.Policies {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budget_policies (budget_id, name, status, position)
			VALUES (?, ?, ?, ?)`,
			string(b.ID), p.Name, p.Status, i); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// LEDGER POSTER
// =============================================================================

func (s *Store) PostTransaction(ctx context.Context, postings []budget.Posting, idempotencyKey string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if idempotencyKey != "" {
		if err := reserveKey(ctx, tx, idempotencyKey); err != nil {
			return err
		}
	}
	if err := insertPostings(ctx, tx, postings, idempotencyKey); err != nil {
		return err
	}
	return tx.Commit()
}

// ApplyFunding lands the key reservation, the version-checked snapshot
// update, and the posting pair in a single SQL transaction. A duplicate key
// or a stale snapshot rolls the whole unit back with nothing written, which
// is what keeps concurrent retries of one funding request from crediting
// the available amount twice.
func (s *Store) ApplyFunding(ctx context.Context, b budget.Budget, postings []budget.Posting, idempotencyKey string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := reserveKey(ctx, tx, idempotencyKey); err != nil {
		return err
	}
	// Funding never touches votes, so the approver rows stay as they are.
	if err := updateSnapshot(ctx, tx, b); err != nil {
		return err
	}
	if err := insertPostings(ctx, tx, postings, idempotencyKey); err != nil {
		return err
	}
	return tx.Commit()
}

func reserveKey(ctx context.Context, tx *sql.Tx, idempotencyKey string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO posting_keys (idempotency_key, created_at)
		VALUES (?, ?)`,
		idempotencyKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		if isUniqueViolation(err) {
			return budget.ErrDuplicateIdempotencyKey
		}
		return err
	}
	return nil
}

func insertPostings(ctx context.Context, tx *sql.Tx, postings []budget.Posting, idempotencyKey string) error {
	for _, p := range postings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO postings (id, account_id, side, amount, budget_id, description, idempotency_key, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, string(p.AccountID), string(p.Side), p.Amount.String(),
			string(p.BudgetID), p.Description, idempotencyKey,
			p.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) HasPosted(ctx context.Context, idempotencyKey string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM posting_keys WHERE idempotency_key = ?`,
		idempotencyKey).Scan(&n)
	return n > 0, err
}

// PostingsForBudget returns every posting emitted for a budget, oldest first.
func (s *Store) PostingsForBudget(ctx context.Context, budgetID budget.BudgetID) ([]budget.Posting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, side, amount, budget_id, description, created_at
		FROM postings WHERE budget_id = ? ORDER BY created_at, id`, string(budgetID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []budget.Posting
	for rows.Next() {
		var (
			p                       budget.Posting
			accountID, side, amount string
			bid, createdStr         string
		)
		if err := rows.Scan(&p.ID, &accountID, &side, &amount, &bid, &p.Description, &createdStr); err != nil {
			return nil, err
		}
		p.AccountID = budget.AccountID(accountID)
		p.Side = budget.PostingSide(side)
		p.BudgetID = budget.BudgetID(bid)
		if p.Amount, err = budget.NewMoneyFromString(amount); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// =============================================================================
// ACCOUNT DIRECTORY
// =============================================================================

func (s *Store) LookupAccount(ctx context.Context, id budget.AccountID) (*budget.AccountRef, error) {
	var ref budget.AccountRef
	var active int
	var idStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, active FROM accounts WHERE id = ?`,
		string(id)).Scan(&idStr, &ref.Name, &ref.Type, &active)
	if err == sql.ErrNoRows {
		return nil, budget.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	ref.ID = budget.AccountID(idStr)
	ref.Active = active != 0
	return &ref, nil
}

// SaveAccount inserts or replaces an account directory entry.
func (s *Store) SaveAccount(ctx context.Context, ref budget.AccountRef) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			type = excluded.type, active = excluded.active`,
		string(ref.ID), ref.Name, ref.Type, boolToInt(ref.Active))
	return err
}

// ListAccounts returns the full account directory.
func (s *Store) ListAccounts(ctx context.Context) ([]budget.AccountRef, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, active FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []budget.AccountRef
	for rows.Next() {
		var ref budget.AccountRef
		var active int
		var idStr string
		if err := rows.Scan(&idStr, &ref.Name, &ref.Type, &active); err != nil {
			return nil, err
		}
		ref.ID = budget.AccountID(idStr)
		ref.Active = active != 0
		result = append(result, ref)
	}
	return result, rows.Err()
}

// =============================================================================
// SUCCESSOR LOOKUP
// =============================================================================

func (s *Store) FindSuccessor(ctx context.Context, originalBudgetID budget.BudgetID, periodStart budget.Date) (*budget.BudgetID, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM budgets WHERE original_budget_id = ? AND start_date = ?`,
		string(originalBudgetID), periodStart.String()).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	bid := budget.BudgetID(id)
	return &bid, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (s *Store) AppendEvents(ctx context.Context, events []budget.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ev := range events {
		var amount any
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO audit_log (id, event_type, budget_id, actor_id, amount, detail, occurred_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, string(ev.Type), string(ev.BudgetID), ev.ActorID,
			amount, ev.Detail, ev.At.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableDate(d *budget.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
