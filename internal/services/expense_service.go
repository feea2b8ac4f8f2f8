package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
)

// ErrForbidden is returned when a record exists but belongs to another user.
var ErrForbidden = errors.New("record belongs to another user")

// ExpenseService owns the expense write path: validation, month stamping,
// persistence, and best-effort mirror events.
type ExpenseService struct {
	store     ExpenseStore
	publisher Publisher
}

func NewExpenseService(store ExpenseStore, publisher Publisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// ExpenseInput carries the user-supplied fields of an add or edit.
type ExpenseInput struct {
	Title    string
	Amount   string
	Date     string
	Category string
}

// Add records a new expense for uid. An empty date defaults to today; the
// month partition key is always derived from the date, never trusted from
// the client.
func (s *ExpenseService) Add(ctx context.Context, uid string, in ExpenseInput) (core.Expense, error) {
	now := time.Now()
	date := in.Date
	if date == "" {
		date = now.Format(core.DateLayout)
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	month, err := core.MonthKeyFromDate(date)
	if err != nil {
		return core.Expense{}, core.ErrInvalidDate
	}

	e := core.Expense{
		ID:        uuid.NewString(),
		UID:       uid,
		Title:     in.Title,
		Amount:    core.Money{Cents: cents},
		Date:      date,
		Month:     month,
		Category:  in.Category,
		CreatedAt: now,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, amqp.NewMirrorEvent(amqp.EventExpenseUpsert, e.ID, uid))
	return e, nil
}

// Update edits title, amount, date and category of an owned expense. The
// month field is recomputed from the new date, so a date edit across a
// month boundary moves the record to its new partition instead of silently
// orphaning it. The month the record lived in before the edit is returned
// alongside the updated record so callers can refresh both partitions.
func (s *ExpenseService) Update(ctx context.Context, uid, id string, in ExpenseInput) (core.Expense, string, error) {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, "", fmt.Errorf("load expense: %w", err)
	}
	if existing.UID != uid {
		return core.Expense{}, "", ErrForbidden
	}

	date := in.Date
	if date == "" {
		date = existing.Date
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Expense{}, "", err
	}
	month, err := core.MonthKeyFromDate(date)
	if err != nil {
		return core.Expense{}, "", core.ErrInvalidDate
	}

	updated := existing
	updated.Title = in.Title
	updated.Amount = core.Money{Cents: cents}
	updated.Date = date
	updated.Month = month
	updated.Category = in.Category
	if err := updated.Validate(); err != nil {
		return core.Expense{}, "", err
	}

	if err := s.store.UpdateExpense(ctx, updated); err != nil {
		return core.Expense{}, "", fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, amqp.NewMirrorEvent(amqp.EventExpenseUpsert, id, uid))
	return updated, existing.Month, nil
}

// Delete removes an owned expense.
func (s *ExpenseService) Delete(ctx context.Context, uid, id string) error {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if existing.UID != uid {
		return ErrForbidden
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, amqp.NewMirrorEvent(amqp.EventExpenseDelete, id, uid))
	return nil
}

// ListMonth returns the month's expenses sorted ascending by date.
func (s *ExpenseService) ListMonth(ctx context.Context, uid, month string) ([]core.Expense, error) {
	return s.store.ListExpensesByMonth(ctx, uid, month)
}

// Search evaluates the filter in-process over the user's full record set,
// which is fetched by uid alone.
func (s *ExpenseService) Search(ctx context.Context, uid string, filter core.Filter) ([]core.Expense, error) {
	all, err := s.store.ListExpensesByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list expenses for search: %w", err)
	}
	return filter.Apply(all), nil
}

// publish is best-effort: the record is already durable locally, so a
// mirror failure is logged and the request succeeds.
func (s *ExpenseService) publish(ctx context.Context, event *amqp.MirrorEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMirrorEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish mirror event",
			"kind", event.Kind,
			"id", event.ID,
			"error", err)
	}
}
