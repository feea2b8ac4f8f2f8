package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"spendtrack/internal/cache"
	"spendtrack/internal/core"
)

// handleDashboard renders the main page shell. The budget card and the
// expense list load as HTMX partials keyed by the selected month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	identity, _ := identityFrom(r.Context())

	month := monthParam(r.URL.Query())
	data := struct {
		Greeting   string
		Month      string
		MonthLabel string
		Months     []string
		Today      string
	}{
		Greeting:   identity.FirstName(),
		Month:      month,
		MonthLabel: core.MonthLabel(month),
		Months:     core.MonthsOfYear(time.Now().Year()),
		Today:      time.Now().Format(core.DateLayout),
	}
	s.render(w, r, "dashboard.html", data)
}

// handleBudgetCard renders the budget summary partial for one month.
func (s *Server) handleBudgetCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	identity, _ := identityFrom(r.Context())
	month := monthParam(r.URL.Query())

	state, err := s.budgetState(r.Context(), identity.UID, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget reconcile error", "error", err, "uid", identity.UID, "month", month)
		_, _ = w.Write([]byte(`<section id="budget-card" class="budget-card"><div class="placeholder">Could not load the budget</div></section>`))
		return
	}

	expenses, err := s.monthExpenses(r.Context(), identity.UID, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month expenses error", "error", err, "uid", identity.UID, "month", month)
		_, _ = w.Write([]byte(`<section id="budget-card" class="budget-card"><div class="placeholder">Could not load expenses</div></section>`))
		return
	}

	summary := core.Summarize(state, expenses)

	data := struct {
		Month       string
		MonthLabel  string
		HasBudget   bool
		Budget      string
		TotalSpent  string
		Remaining   string
		Overspent   bool
		Percent     int
		PromptSetup bool
	}{
		Month:       month,
		MonthLabel:  core.MonthLabel(month),
		HasBudget:   summary.Budget.Known(),
		TotalSpent:  formatEuros(summary.TotalSpent.Cents),
		PromptSetup: core.ShouldPromptBudget(time.Now(), month, state),
	}
	if summary.Budget.Known() {
		data.Budget = formatEuros(summary.Budget.Amount.Cents)
		data.Remaining = formatEuros(summary.Remaining.Cents)
		data.Overspent = summary.Remaining.Cents < 0
		data.Percent = int(summary.Percent)
	}

	s.render(w, r, "budget_card.html", data)
}

// handleExpenseList renders the month's expenses grouped by day.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	identity, _ := identityFrom(r.Context())
	month := monthParam(r.URL.Query())

	expenses, err := s.monthExpenses(r.Context(), identity.UID, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month expenses error", "error", err, "uid", identity.UID, "month", month)
		_, _ = w.Write([]byte(`<section id="expense-list" class="expense-list"><div class="placeholder">Could not load expenses</div></section>`))
		return
	}

	type item struct {
		ID       string
		Title    string
		Amount   string
		Category string
		Date     string
	}
	type group struct {
		Date     string
		Day      string
		Subtotal string
		Items    []item
	}

	data := struct {
		Month  string
		Empty  bool
		Groups []group
	}{Month: month, Empty: len(expenses) == 0}

	// Day labels are sequential over the sorted groups, not calendar
	// days: spend on the 5th and the 20th renders as Day 1 and Day 2.
	for i, g := range core.GroupByDay(expenses) {
		day := group{
			Date:     g.Date,
			Day:      fmt.Sprintf("Day %d", i+1),
			Subtotal: formatEuros(g.Subtotal.Cents),
		}
		for _, e := range g.Expenses {
			day.Items = append(day.Items, item{
				ID:       e.ID,
				Title:    e.Title,
				Amount:   formatEuros(e.Amount.Cents),
				Category: e.Category,
				Date:     e.Date,
			})
		}
		data.Groups = append(data.Groups, day)
	}

	s.render(w, r, "expense_list.html", data)
}

// budgetState reconciles via cache; unset outcomes are not cached so the
// next request retries the lookup.
func (s *Server) budgetState(ctx context.Context, uid, month string) (core.BudgetState, error) {
	key := cache.Key(uid, month)
	if state, found := s.stateCache.Get(key); found {
		return state, nil
	}

	state, err := s.budgets.Reconcile(ctx, uid, month)
	if err != nil {
		return state, err
	}
	s.stateCache.Set(key, state)
	return state, nil
}

func (s *Server) monthExpenses(ctx context.Context, uid, month string) ([]core.Expense, error) {
	key := cache.Key(uid, month)
	if items, found := s.listCache.Get(key); found {
		result := make([]core.Expense, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.expenses.ListMonth(cctx, uid, month)
	if err != nil {
		return nil, err
	}
	s.listCache.Set(key, items)
	return items, nil
}
