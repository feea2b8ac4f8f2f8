package core

import "time"

// BudgetStatus is the reconciliation state of the selected month's budget.
type BudgetStatus int

const (
	// BudgetUnset means no lookup has completed yet.
	BudgetUnset BudgetStatus = iota
	// BudgetNone means the lookup completed and no record exists.
	// Distinct from a budget explicitly set to zero.
	BudgetNone
	// BudgetKnown means the lookup completed and a record was found.
	BudgetKnown
)

// BudgetState carries the tri-state outcome of a budget lookup. Amount is
// meaningful only when Status is BudgetKnown.
type BudgetState struct {
	Status BudgetStatus
	Amount Money
}

func UnsetBudget() BudgetState        { return BudgetState{Status: BudgetUnset} }
func NoBudget() BudgetState           { return BudgetState{Status: BudgetNone} }
func KnownBudget(m Money) BudgetState { return BudgetState{Status: BudgetKnown, Amount: m} }

// Known reports whether a budget record exists for the month.
func (s BudgetState) Known() bool {
	return s.Status == BudgetKnown
}

// ShouldPromptBudget decides whether to proactively ask the user to set a
// budget. All three conditions must hold: today is the first of the month,
// the selected month is the live current month, and no budget record exists
// for it. Browsing a past unset month on the 1st must not prompt.
func ShouldPromptBudget(now time.Time, selectedMonth string, state BudgetState) bool {
	if now.Day() != 1 {
		return false
	}
	if selectedMonth != MonthKey(now) {
		return false
	}
	return state.Status == BudgetNone
}
