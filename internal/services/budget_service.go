package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// BudgetService reconciles and writes monthly budgets.
type BudgetService struct {
	store     BudgetStore
	publisher Publisher
}

func NewBudgetService(store BudgetStore, publisher Publisher) *BudgetService {
	return &BudgetService{store: store, publisher: publisher}
}

// Reconcile resolves the budget state for (uid, month): a missing record is
// the None state, never zero — zero is a valid explicit budget. A read
// failure falls back to Unset with the error, which renders as "unknown"
// rather than a fabricated value.
func (s *BudgetService) Reconcile(ctx context.Context, uid, month string) (core.BudgetState, error) {
	b, err := s.store.GetBudget(ctx, uid, month)
	if errors.Is(err, storage.ErrNotFound) {
		return core.NoBudget(), nil
	}
	if err != nil {
		return core.UnsetBudget(), fmt.Errorf("fetch budget: %w", err)
	}
	return core.KnownBudget(b.Amount), nil
}

// Set upserts the budget for (uid, month), overwriting any previous value.
func (s *BudgetService) Set(ctx context.Context, uid, month, amount string) (core.Budget, error) {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Budget{}, err
	}

	b := core.Budget{
		ID:        core.BudgetID(uid, month),
		UID:       uid,
		Month:     month,
		Amount:    core.Money{Cents: cents},
		CreatedAt: time.Now(),
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.store.UpsertBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	if s.publisher != nil {
		event := amqp.NewMirrorEvent(amqp.EventBudgetUpsert, b.ID, uid)
		if err := s.publisher.PublishMirrorEvent(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish mirror event",
				"kind", event.Kind,
				"id", event.ID,
				"error", err)
		}
	}
	return b, nil
}
