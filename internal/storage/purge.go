package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// PurgeResult reports the outcome of a bulk account-data deletion. The
// operation issues one delete per record with no transaction, so a partial
// failure is possible; FailedKeys names the survivors, which makes a retry
// idempotent (already-deleted records simply no longer match).
type PurgeResult struct {
	ExpensesDeleted int
	BudgetsDeleted  int
	FailedKeys      []string
}

// Failed reports whether any record survived the purge.
func (p PurgeResult) Failed() bool {
	return len(p.FailedKeys) > 0
}

// DeleteAllUserData removes every expense and budget owned by uid. An error
// is returned only when the record sets cannot be enumerated at all;
// per-record delete failures are collected in the result instead.
func (r *Repository) DeleteAllUserData(ctx context.Context, uid string) (PurgeResult, error) {
	var result PurgeResult

	expenseIDs, err := r.collectKeys(ctx,
		`SELECT id FROM expenses WHERE uid = ?`, uid)
	if err != nil {
		return result, fmt.Errorf("enumerate expenses for purge: %w", err)
	}
	budgetIDs, err := r.collectKeys(ctx,
		`SELECT id FROM budgets WHERE uid = ?`, uid)
	if err != nil {
		return result, fmt.Errorf("enumerate budgets for purge: %w", err)
	}

	for _, id := range expenseIDs {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
			slog.ErrorContext(ctx, "Purge: expense delete failed", "id", id, "error", err)
			result.FailedKeys = append(result.FailedKeys, "expenses/"+id)
			continue
		}
		result.ExpensesDeleted++
	}
	for _, id := range budgetIDs {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
			slog.ErrorContext(ctx, "Purge: budget delete failed", "id", id, "error", err)
			result.FailedKeys = append(result.FailedKeys, "budgets/"+id)
			continue
		}
		result.BudgetsDeleted++
	}

	slog.InfoContext(ctx, "User data purge completed",
		"uid", uid,
		"expenses_deleted", result.ExpensesDeleted,
		"budgets_deleted", result.BudgetsDeleted,
		"failed", len(result.FailedKeys))
	return result, nil
}

func (r *Repository) collectKeys(ctx context.Context, query, uid string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		keys = append(keys, id)
	}
	return keys, rows.Err()
}
