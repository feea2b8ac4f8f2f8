// Package worker replays mirror events against the Google Sheets backup.
// The primary store is SQLite; events only carry record keys and the worker
// reads current state at processing time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/sheets"
	"spendtrack/internal/storage"
)

// Store is the read surface the worker needs from the repository.
type Store interface {
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	GetBudget(ctx context.Context, uid, month string) (core.Budget, error)
}

type MirrorWorker struct {
	store  Store
	mirror sheets.Mirror
}

func NewMirrorWorker(store Store, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror}
}

// HandleEvent processes one mirror event. A record that vanished between
// the event and processing is skipped, not retried: the matching delete
// event writes the tombstone.
func (w *MirrorWorker) HandleEvent(ctx context.Context, event *amqp.MirrorEvent) error {
	slog.InfoContext(ctx, "Processing mirror event", "kind", event.Kind, "id", event.ID)

	switch event.Kind {
	case amqp.EventExpenseUpsert:
		expense, err := w.store.GetExpense(ctx, event.ID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Expense gone before mirroring, skipping", "id", event.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get expense: %w", err)
		}
		if err := w.mirror.RecordExpense(ctx, expense); err != nil {
			return fmt.Errorf("mirror expense: %w", err)
		}

	case amqp.EventExpenseDelete:
		if err := w.mirror.RecordExpenseDeletion(ctx, event.ID, event.UID); err != nil {
			return fmt.Errorf("mirror expense deletion: %w", err)
		}

	case amqp.EventBudgetUpsert:
		month := strings.TrimPrefix(event.ID, event.UID+"_")
		budget, err := w.store.GetBudget(ctx, event.UID, month)
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Budget gone before mirroring, skipping", "id", event.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get budget: %w", err)
		}
		if err := w.mirror.RecordBudget(ctx, budget); err != nil {
			return fmt.Errorf("mirror budget: %w", err)
		}

	default:
		slog.WarnContext(ctx, "Unknown mirror event kind, dropping", "kind", event.Kind)
	}

	return nil
}

// Run consumes events until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeMirrorEvents(ctx, func(event *amqp.MirrorEvent) error {
		return w.HandleEvent(ctx, event)
	})
}
