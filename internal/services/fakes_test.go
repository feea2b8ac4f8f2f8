package services

import (
	"context"
	"errors"
	"sort"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// fakeStore is an in-memory stand-in for the SQLite repository.
type fakeStore struct {
	expenses map[string]core.Expense
	budgets  map[string]core.Budget
	totals   map[string]int64 // month -> cents, for summary tests
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenses: make(map[string]core.Expense),
		budgets:  make(map[string]core.Budget),
		totals:   make(map[string]int64),
	}
}

func (f *fakeStore) CreateExpense(_ context.Context, e core.Expense) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeStore) GetExpense(_ context.Context, id string) (core.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return core.Expense{}, storage.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) UpdateExpense(_ context.Context, e core.Expense) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.expenses[e.ID]; !ok {
		return storage.ErrNotFound
	}
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id string) error {
	if _, ok := f.expenses[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) ListExpensesByMonth(_ context.Context, uid, month string) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range f.expenses {
		if e.UID == uid && e.Month == month {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeStore) ListExpensesByUser(_ context.Context, uid string) ([]core.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []core.Expense
	for _, e := range f.expenses {
		if e.UID == uid {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeStore) UpsertBudget(_ context.Context, b core.Budget) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.budgets[b.ID] = b
	return nil
}

func (f *fakeStore) GetBudget(_ context.Context, uid, month string) (core.Budget, error) {
	if f.failWith != nil {
		return core.Budget{}, f.failWith
	}
	b, ok := f.budgets[core.BudgetID(uid, month)]
	if !ok {
		return core.Budget{}, storage.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) MonthTotal(_ context.Context, uid, month string) (core.Money, error) {
	if f.failWith != nil {
		return core.Money{}, f.failWith
	}
	return core.Money{Cents: f.totals[month]}, nil
}

// fakePublisher records published mirror events.
type fakePublisher struct {
	events []*amqp.MirrorEvent
	fail   bool
}

func (f *fakePublisher) PublishMirrorEvent(_ context.Context, event *amqp.MirrorEvent) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.events = append(f.events, event)
	return nil
}
