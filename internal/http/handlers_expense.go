package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"spendtrack/internal/core"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	identity, _ := identityFrom(r.Context())
	input := parseExpenseForm(r.Form)

	expense, err := s.expenses.Add(r.Context(), identity.UID, input)
	if err != nil {
		writeExpenseInputError(w, r, err)
		return
	}

	s.invalidateMonth(identity.UID, expense.Month)

	slog.InfoContext(r.Context(), "Expense created",
		"uid", identity.UID,
		"expense_id", expense.ID,
		"month", expense.Month,
		"amount_cents", expense.Amount.Cents)

	NewHTMXResponse().
		TriggerExpenseSaved(expense.Month).
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Saved %s — %s", expense.Title, formatEuros(expense.Amount.Cents))).
		Write(w)
}

// handleExpenseByID routes /expenses/{id}/update and /expenses/{id}/delete.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/expenses/")
	id, action, ok := strings.Cut(rest, "/")
	if !ok || id == "" {
		NotFoundError("Unknown expense endpoint").Write(w)
		return
	}

	switch action {
	case "update":
		s.handleUpdateExpense(w, r, id)
	case "delete":
		s.handleDeleteExpense(w, r, id)
	default:
		NotFoundError("Unknown expense endpoint").Write(w)
	}
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request, id string) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	identity, _ := identityFrom(r.Context())
	input := parseExpenseForm(r.Form)

	expense, prevMonth, err := s.expenses.Update(r.Context(), identity.UID, id, input)
	if err != nil {
		writeExpenseInputError(w, r, err)
		return
	}

	// An edited date can move the record to another month partition;
	// both the old and the new partition are stale now. The service
	// reports the month the record lived in before the edit.
	s.invalidateMonth(identity.UID, expense.Month)
	if prevMonth != expense.Month {
		s.invalidateMonth(identity.UID, prevMonth)
	}

	slog.InfoContext(r.Context(), "Expense updated",
		"uid", identity.UID,
		"expense_id", expense.ID,
		"month", expense.Month)

	months := []string{expense.Month}
	if prevMonth != expense.Month {
		months = append(months, prevMonth)
	}
	NewHTMXResponse().
		TriggerExpenseSaved(months...).
		TriggerSuccessNotification("Expense updated").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	identity, _ := identityFrom(r.Context())
	month := strings.TrimSpace(r.Form.Get("month"))

	if err := s.expenses.Delete(r.Context(), identity.UID, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			NotFoundError("Expense not found").Write(w)
		case errors.Is(err, services.ErrForbidden):
			ForbiddenError("Not your expense").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Expense delete failed", "error", err, "expense_id", id)
			InternalServerError("Could not delete the expense").Write(w)
		}
		return
	}

	if core.ValidMonthKey(month) {
		s.invalidateMonth(identity.UID, month)
	} else {
		s.invalidateUser(identity.UID)
	}

	slog.InfoContext(r.Context(), "Expense deleted", "uid", identity.UID, "expense_id", id)

	NewHTMXResponse().
		TriggerExpenseDeleted(month).
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}

// handleExpenseSearch renders search results across all of the user's
// expenses, not just the selected month.
func (s *Server) handleExpenseSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	identity, _ := identityFrom(r.Context())

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	results, err := s.expenses.Search(r.Context(), identity.UID, filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense search failed", "error", err, "uid", identity.UID)
		_, _ = w.Write([]byte(`<section id="search-results" class="search-results"><div class="placeholder">Search failed</div></section>`))
		return
	}

	type row struct {
		ID       string
		Title    string
		Amount   string
		Category string
		Date     string
		Month    string
	}
	data := struct {
		Empty bool
		Total string
		Rows  []row
	}{
		Empty: len(results) == 0,
		Total: formatEuros(core.TotalSpent(results).Cents),
	}
	for _, e := range results {
		data.Rows = append(data.Rows, row{
			ID:       e.ID,
			Title:    e.Title,
			Amount:   formatEuros(e.Amount.Cents),
			Category: e.Category,
			Date:     e.Date,
			Month:    e.Month,
		})
	}

	s.render(w, r, "expense_search.html", data)
}

func writeExpenseInputError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		UnprocessableEntityError("Invalid amount").Write(w)
	case errors.Is(err, core.ErrEmptyTitle):
		UnprocessableEntityError("Title is required").Write(w)
	case errors.Is(err, core.ErrInvalidDate):
		UnprocessableEntityError("Invalid date").Write(w)
	case errors.Is(err, storage.ErrNotFound):
		NotFoundError("Expense not found").Write(w)
	case errors.Is(err, services.ErrForbidden):
		ForbiddenError("Not your expense").Write(w)
	default:
		slog.ErrorContext(r.Context(), "Expense write failed", "error", err)
		InternalServerError("Could not save the expense").Write(w)
	}
}
