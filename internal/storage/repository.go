// Package storage is the record store: SQLite behind database/sql, schema
// managed by golang-migrate. Reads are equality/range filtered, writes are
// per-record with no multi-record transactions; the last writer wins.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendtrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by point reads when no record matches the key.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (uid, email, display_name, photo_url, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.UID, u.Email, u.DisplayName, u.PhotoURL, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, uid string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name, photo_url, password_hash, created_at
		 FROM users WHERE uid = ?`, uid))
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name, photo_url, password_hash, created_at
		 FROM users WHERE email = ?`, email))
}

func (r *Repository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt string
	err := row.Scan(&u.UID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return u, nil
}

// UpdateDisplayName is a field-level update; no other user fields change.
func (r *Repository) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ? WHERE uid = ?`, displayName, uid)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- budgets ---

// UpsertBudget creates or fully overwrites the budget for (uid, month).
// The composite primary key enforces at most one record per user per month.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, uid, month, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   amount_cents = excluded.amount_cents,
		   created_at   = excluded.created_at`,
		b.ID, b.UID, b.Month, b.Amount.Cents, b.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert budget %s: %w", b.ID, err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"month", b.Month,
		"amount_cents", b.Amount.Cents)
	return nil
}

func (r *Repository) GetBudget(ctx context.Context, uid, month string) (core.Budget, error) {
	var b core.Budget
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, uid, month, amount_cents, created_at FROM budgets WHERE id = ?`,
		core.BudgetID(uid, month)).
		Scan(&b.ID, &b.UID, &b.Month, &b.Amount.Cents, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %s_%s: %w", uid, month, err)
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return b, nil
}

// --- expenses ---

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, uid, title, amount_cents, date, month, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UID, e.Title, e.Amount.Cents, e.Date, e.Month, e.Category,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"date", e.Date,
		"month", e.Month)
	return nil
}

func (r *Repository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, uid, title, amount_cents, date, month, category, created_at
		 FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

// UpdateExpense updates title, amount, date and the month derived from the
// new date. uid and created_at are immutable after creation.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount_cents = ?, date = ?, month = ?, category = ?
		 WHERE id = ?`,
		e.Title, e.Amount.Cents, e.Date, e.Month, e.Category, e.ID)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpensesByMonth returns the user's expenses for one month partition,
// sorted ascending by date string.
func (r *Repository) ListExpensesByMonth(ctx context.Context, uid, month string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, uid, title, amount_cents, date, month, category, created_at
		 FROM expenses WHERE uid = ? AND month = ? ORDER BY date ASC`,
		uid, month)
	if err != nil {
		return nil, fmt.Errorf("list expenses (uid=%s, month=%s): %w", uid, month, err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// ListExpensesByUser returns every expense owned by uid, the superset the
// filter evaluator runs over.
func (r *Repository) ListExpensesByUser(ctx context.Context, uid string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, uid, title, amount_cents, date, month, category, created_at
		 FROM expenses WHERE uid = ? ORDER BY date ASC`, uid)
	if err != nil {
		return nil, fmt.Errorf("list expenses (uid=%s): %w", uid, err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// MonthTotal sums a month's spend in the store, coercing NULL amounts to
// zero. Used by the historical summary so whole record sets never leave
// the database.
func (r *Repository) MonthTotal(ctx context.Context, uid, month string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(COALESCE(amount_cents, 0)), 0)
		 FROM expenses WHERE uid = ? AND month = ?`, uid, month).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("month total (uid=%s, month=%s): %w", uid, month, err)
	}
	return core.Money{Cents: cents}, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// scanExpense coerces a NULL amount to zero cents so one malformed record
// cannot poison an aggregation.
func scanExpense(scan func(dest ...any) error) (core.Expense, error) {
	var e core.Expense
	var amount sql.NullInt64
	var createdAt string
	if err := scan(&e.ID, &e.UID, &e.Title, &amount, &e.Date, &e.Month, &e.Category, &createdAt); err != nil {
		return core.Expense{}, err
	}
	if amount.Valid {
		e.Amount = core.Money{Cents: amount.Int64}
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}
