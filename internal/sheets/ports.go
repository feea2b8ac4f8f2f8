package sheets

import (
	"context"

	"spendtrack/internal/core"
)

// Mirror is the outbound port for the append-only backup of record writes.
// The worker replays mirror events against it; deletions are recorded as
// tombstone rows rather than removed in place.
type Mirror interface {
	RecordExpense(ctx context.Context, e core.Expense) error
	RecordExpenseDeletion(ctx context.Context, id, uid string) error
	RecordBudget(ctx context.Context, b core.Budget) error
}
