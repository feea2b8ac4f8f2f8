package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
)

func TestExpenseService_Add(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	e, err := svc.Add(context.Background(), "uid-1", ExpenseInput{
		Title:  "Lunch",
		Amount: "12.50",
		Date:   "2025-03-05",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if e.ID == "" {
		t.Error("expected a store-assigned id")
	}
	if e.Amount.Cents != 1250 {
		t.Errorf("amount = %d, want 1250", e.Amount.Cents)
	}
	if e.Month != "2025-03" {
		t.Errorf("month = %q, want derived 2025-03", e.Month)
	}
	if len(pub.events) != 1 || pub.events[0].Kind != amqp.EventExpenseUpsert {
		t.Errorf("expected one upsert mirror event, got %v", pub.events)
	}
}

func TestExpenseService_AddDefaultsDateToToday(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(store, nil)

	e, err := svc.Add(context.Background(), "uid-1", ExpenseInput{Title: "Tea", Amount: "2"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	today := time.Now().Format(core.DateLayout)
	if e.Date != today {
		t.Errorf("date = %q, want today %q", e.Date, today)
	}
	if e.Month != core.MonthKey(time.Now()) {
		t.Errorf("month = %q, want current month", e.Month)
	}
}

func TestExpenseService_AddRejectsBadInput(t *testing.T) {
	svc := NewExpenseService(newFakeStore(), nil)

	tests := []struct {
		name string
		in   ExpenseInput
	}{
		{"empty title", ExpenseInput{Title: " ", Amount: "5", Date: "2025-03-05"}},
		{"bad amount", ExpenseInput{Title: "x", Amount: "abc", Date: "2025-03-05"}},
		{"zero amount", ExpenseInput{Title: "x", Amount: "0", Date: "2025-03-05"}},
		{"bad date", ExpenseInput{Title: "x", Amount: "5", Date: "05-03-2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(context.Background(), "uid-1", tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpenseService_UpdateRecomputesMonth(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(store, nil)

	e, err := svc.Add(context.Background(), "uid-1", ExpenseInput{
		Title: "Rent", Amount: "100", Date: "2025-03-31",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Moving the date across the month boundary must move the partition.
	updated, prevMonth, err := svc.Update(context.Background(), "uid-1", e.ID, ExpenseInput{
		Title: "Rent", Amount: "100", Date: "2025-04-01",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Month != "2025-04" {
		t.Errorf("month = %q, want recomputed 2025-04", updated.Month)
	}
	if prevMonth != "2025-03" {
		t.Errorf("prior month = %q, want the record's pre-edit 2025-03", prevMonth)
	}

	march, _ := svc.ListMonth(context.Background(), "uid-1", "2025-03")
	april, _ := svc.ListMonth(context.Background(), "uid-1", "2025-04")
	if len(march) != 0 || len(april) != 1 {
		t.Errorf("record not moved: march=%d april=%d", len(march), len(april))
	}
}

func TestExpenseService_UpdateKeepsDateWhenOmitted(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(store, nil)

	e, _ := svc.Add(context.Background(), "uid-1", ExpenseInput{
		Title: "Cab", Amount: "30", Date: "2025-03-10",
	})

	updated, prevMonth, err := svc.Update(context.Background(), "uid-1", e.ID, ExpenseInput{
		Title: "Cab home", Amount: "35",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Date != "2025-03-10" || updated.Month != "2025-03" {
		t.Errorf("date/month changed unexpectedly: %q %q", updated.Date, updated.Month)
	}
	if prevMonth != "2025-03" {
		t.Errorf("prior month = %q, want 2025-03", prevMonth)
	}
}

func TestExpenseService_OwnershipEnforced(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(store, nil)

	e, _ := svc.Add(context.Background(), "uid-1", ExpenseInput{
		Title: "Book", Amount: "10", Date: "2025-03-01",
	})

	if _, _, err := svc.Update(context.Background(), "uid-2", e.ID, ExpenseInput{
		Title: "Book", Amount: "10", Date: "2025-03-01",
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update by other user: got %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), "uid-2", e.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete by other user: got %v, want ErrForbidden", err)
	}
}

func TestExpenseService_Delete(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	e, _ := svc.Add(context.Background(), "uid-1", ExpenseInput{
		Title: "Snack", Amount: "3", Date: "2025-03-01",
	})
	if err := svc.Delete(context.Background(), "uid-1", e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(store.expenses) != 0 {
		t.Error("expense still present after delete")
	}
	if pub.events[len(pub.events)-1].Kind != amqp.EventExpenseDelete {
		t.Error("expected a delete mirror event")
	}
}

func TestExpenseService_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(store, &fakePublisher{fail: true})

	if _, err := svc.Add(context.Background(), "uid-1", ExpenseInput{
		Title: "Lunch", Amount: "5", Date: "2025-03-01",
	}); err != nil {
		t.Fatalf("Add should succeed despite broker failure, got %v", err)
	}
	if len(store.expenses) != 1 {
		t.Error("expense should be durable locally")
	}
}

func TestExpenseService_Search(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(store, nil)

	for _, in := range []ExpenseInput{
		{Title: "Coffee", Amount: "3", Date: "2025-03-01", Category: "Food"},
		{Title: "Train", Amount: "20", Date: "2025-02-10", Category: "Travel"},
		{Title: "Iced coffee", Amount: "4", Date: "2025-01-05", Category: "Food"},
	} {
		if _, err := svc.Add(context.Background(), "uid-1", in); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	// Search spans months: the superset is fetched by uid alone.
	got, err := svc.Search(context.Background(), "uid-1", core.Filter{Keyword: "coffee"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 matches across months, got %d", len(got))
	}

	all, err := svc.Search(context.Background(), "uid-1", core.Filter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("empty filter should match all records, got %d", len(all))
	}
}
