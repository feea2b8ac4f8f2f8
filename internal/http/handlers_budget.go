package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"spendtrack/internal/core"
)

// handleSetBudget creates or replaces the budget for one month. There is
// exactly one budget record per (user, month); repeated submissions
// overwrite it.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	identity, _ := identityFrom(r.Context())
	month := strings.TrimSpace(r.Form.Get("month"))
	amount := strings.TrimSpace(r.Form.Get("amount"))

	budget, err := s.budgets.Set(r.Context(), identity.UID, month, amount)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidMonth):
			UnprocessableEntityError("Invalid month").Write(w)
		case errors.Is(err, core.ErrInvalidAmount):
			UnprocessableEntityError("Invalid amount").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Budget set failed", "error", err, "uid", identity.UID, "month", month)
			InternalServerError("Could not save the budget").Write(w)
		}
		return
	}

	s.invalidateMonth(identity.UID, budget.Month)

	slog.InfoContext(r.Context(), "Budget set",
		"uid", identity.UID,
		"month", budget.Month,
		"amount_cents", budget.Amount.Cents)

	NewHTMXResponse().
		TriggerBudgetSet(budget.Month).
		TriggerSuccessNotification(fmt.Sprintf("Budget for %s set to %s", core.MonthLabel(budget.Month), formatEuros(budget.Amount.Cents))).
		Write(w)
}
