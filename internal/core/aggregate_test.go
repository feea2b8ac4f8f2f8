package core

import "testing"

func expenses(amounts ...int64) []Expense {
	out := make([]Expense, len(amounts))
	for i, a := range amounts {
		out[i] = Expense{Amount: Money{Cents: a}, Date: "2025-03-01"}
	}
	return out
}

func TestTotalSpent(t *testing.T) {
	tests := []struct {
		name string
		in   []Expense
		want int64
	}{
		{"empty", nil, 0},
		{"single", expenses(1500), 1500},
		{"several", expenses(100, 250, 50), 400},
		{"zero amount record contributes nothing", expenses(100, 0), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalSpent(tt.in); got.Cents != tt.want {
				t.Errorf("TotalSpent() = %d, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestTotalSpentIdempotent(t *testing.T) {
	in := expenses(100, 250, 50)
	first := TotalSpent(in)
	second := TotalSpent(in)
	if first != second {
		t.Errorf("recomputing over an unchanged set changed the total: %v vs %v", first, second)
	}
}

func TestPercentOfBudget(t *testing.T) {
	tests := []struct {
		name          string
		spent, budget int64
		want          float64
	}{
		{"half spent", 5000, 10000, 50},
		{"overspent clamps to 100", 15000, 10000, 100},
		{"exactly at budget", 10000, 10000, 100},
		{"zero budget yields zero, not a division by zero", 5000, 0, 0},
		{"nothing spent", 0, 10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOfBudget(Money{Cents: tt.spent}, Money{Cents: tt.budget})
			if got != tt.want {
				t.Errorf("PercentOfBudget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Run("known budget", func(t *testing.T) {
		s := Summarize(KnownBudget(Money{Cents: 10000}), expenses(2500, 2500))
		if s.TotalSpent.Cents != 5000 {
			t.Errorf("TotalSpent = %d, want 5000", s.TotalSpent.Cents)
		}
		if s.Remaining.Cents != 5000 {
			t.Errorf("Remaining = %d, want 5000", s.Remaining.Cents)
		}
		if s.Percent != 50 {
			t.Errorf("Percent = %v, want 50", s.Percent)
		}
	})

	t.Run("overspent remaining goes negative", func(t *testing.T) {
		s := Summarize(KnownBudget(Money{Cents: 1000}), expenses(1500))
		if s.Remaining.Cents != -500 {
			t.Errorf("Remaining = %d, want -500", s.Remaining.Cents)
		}
		if s.Percent != 100 {
			t.Errorf("Percent = %v, want clamp at 100", s.Percent)
		}
	})

	t.Run("no budget leaves remaining and percent zero", func(t *testing.T) {
		s := Summarize(NoBudget(), expenses(1500))
		if s.Remaining.Cents != 0 || s.Percent != 0 {
			t.Errorf("unexpected summary without budget: %+v", s)
		}
		if s.TotalSpent.Cents != 1500 {
			t.Errorf("TotalSpent = %d, want 1500", s.TotalSpent.Cents)
		}
	})
}

func TestGroupByDay(t *testing.T) {
	in := []Expense{
		{ID: "a", Date: "2025-03-05", Amount: Money{Cents: 300}},
		{ID: "b", Date: "2025-03-01", Amount: Money{Cents: 100}},
		{ID: "c", Date: "2025-03-05", Amount: Money{Cents: 200}},
	}

	groups := GroupByDay(in)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Date != "2025-03-01" || groups[1].Date != "2025-03-05" {
		t.Errorf("groups out of order: %q, %q", groups[0].Date, groups[1].Date)
	}
	if len(groups[1].Expenses) != 2 {
		t.Errorf("expected 2 records on 2025-03-05, got %d", len(groups[1].Expenses))
	}
	if groups[1].Subtotal.Cents != 500 {
		t.Errorf("subtotal = %d, want 500", groups[1].Subtotal.Cents)
	}
	if groups[0].Subtotal.Cents != 100 {
		t.Errorf("subtotal = %d, want 100", groups[0].Subtotal.Cents)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	if groups := GroupByDay(nil); len(groups) != 0 {
		t.Errorf("expected zero groups, got %d", len(groups))
	}
}

func TestGroupByDayZeroAmountAddsBucketOnly(t *testing.T) {
	base := []Expense{{ID: "a", Date: "2025-03-01", Amount: Money{Cents: 100}}}
	withZero := append(base, Expense{ID: "z", Date: "2025-03-02", Amount: Money{Cents: 0}})

	if TotalSpent(base) != TotalSpent(withZero) {
		t.Error("zero-amount record changed the total")
	}
	if len(GroupByDay(withZero)) != len(GroupByDay(base))+1 {
		t.Error("zero-amount record on a new date should add exactly one bucket")
	}
}
