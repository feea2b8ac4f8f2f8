package core

import "sort"

type (
	// DayGroup is one calendar day's expenses with their subtotal. Groups
	// are keyed by the exact date string, so two records only share a group
	// when their dates are byte-identical.
	DayGroup struct {
		Date     string
		Expenses []Expense
		Subtotal Money
	}

	// MonthSummary is the aggregated view of one month's spend against its
	// budget.
	MonthSummary struct {
		Budget     BudgetState
		TotalSpent Money
		// Remaining is budget minus spend; negative remaining is a valid
		// overspent state, not an error. Zero when no budget is known.
		Remaining Money
		// Percent is spend as a share of budget, clamped to [0, 100].
		// Zero when the budget is absent or zero, which the display layer
		// renders as a distinct "no budget" state instead of a ratio.
		Percent float64
	}
)

// TotalSpent sums expense amounts. Storage hands malformed or missing
// amounts to us as zero cents, so one bad record never poisons the total.
func TotalSpent(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// PercentOfBudget returns spend as a percentage of budget, clamped at 100
// even when overspent. A zero or negative budget yields 0 rather than a
// division by zero.
func PercentOfBudget(spent, budget Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	p := float64(spent.Cents) / float64(budget.Cents) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Summarize computes the month's totals against the reconciled budget state.
func Summarize(budget BudgetState, expenses []Expense) MonthSummary {
	s := MonthSummary{
		Budget:     budget,
		TotalSpent: TotalSpent(expenses),
	}
	if budget.Known() {
		s.Remaining = Money{Cents: budget.Amount.Cents - s.TotalSpent.Cents}
		s.Percent = PercentOfBudget(s.TotalSpent, budget.Amount)
	}
	return s
}

// GroupByDay partitions expenses into per-date buckets ordered by ascending
// date string, which is chronological order under the zero-padded layout.
// Zero expenses yields zero groups; the caller renders the empty state.
func GroupByDay(expenses []Expense) []DayGroup {
	byDate := make(map[string][]Expense)
	for _, e := range expenses {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		groups = append(groups, DayGroup{
			Date:     d,
			Expenses: byDate[d],
			Subtotal: TotalSpent(byDate[d]),
		})
	}
	return groups
}
