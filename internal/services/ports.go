package services

import (
	"context"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
)

// Store ports are satisfied by *storage.Repository; services depend on the
// interfaces so business rules stay testable without a database.
type (
	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) error
		GetExpense(ctx context.Context, id string) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
		ListExpensesByMonth(ctx context.Context, uid, month string) ([]core.Expense, error)
		ListExpensesByUser(ctx context.Context, uid string) ([]core.Expense, error)
	}

	BudgetStore interface {
		UpsertBudget(ctx context.Context, b core.Budget) error
		GetBudget(ctx context.Context, uid, month string) (core.Budget, error)
	}

	TotalsStore interface {
		MonthTotal(ctx context.Context, uid, month string) (core.Money, error)
	}

	// Publisher enqueues mirror events. Implemented by *amqp.Client; a nil
	// publisher disables mirroring.
	Publisher interface {
		PublishMirrorEvent(ctx context.Context, event *amqp.MirrorEvent) error
	}
)
