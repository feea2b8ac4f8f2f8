package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/services"
)

// monthParam reads the "month" query parameter, falling back to the
// current month when absent or malformed.
func monthParam(query url.Values) string {
	if v := strings.TrimSpace(query.Get("month")); v != "" && core.ValidMonthKey(v) {
		return v
	}
	return core.MonthKey(time.Now())
}

// parseExpenseForm builds the service input from submitted form values.
// Amount validation happens in the service; this only shapes the data.
func parseExpenseForm(form url.Values) services.ExpenseInput {
	return services.ExpenseInput{
		Title:    sanitizeInput(form.Get("title")),
		Amount:   strings.TrimSpace(form.Get("amount")),
		Date:     strings.TrimSpace(form.Get("date")),
		Category: sanitizeInput(form.Get("category")),
	}
}

// parseFilter reads search predicates from query values. Absent fields
// stay at their zero value and match everything.
func parseFilter(query url.Values) (core.Filter, error) {
	var f core.Filter

	if v := strings.TrimSpace(query.Get("from")); v != "" {
		t, err := time.Parse(core.DateLayout, v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid from date %q", v)
		}
		f.StartDate = t
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		t, err := time.Parse(core.DateLayout, v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid to date %q", v)
		}
		// The bound is inclusive of the whole day.
		f.EndDate = t.Add(24*time.Hour - time.Nanosecond)
	}
	if v := strings.TrimSpace(query.Get("min")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid minimum amount %q", v)
		}
		f.MinCents = &cents
	}
	if v := strings.TrimSpace(query.Get("max")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid maximum amount %q", v)
		}
		f.MaxCents = &cents
	}
	f.Category = sanitizeInput(query.Get("category"))
	f.Keyword = sanitizeInput(query.Get("q"))

	return f, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// RequireMethod returns an error response when the request method is not
// one of the allowed methods, nil otherwise.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponse {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequirePOST(r *http.Request) *HTMXResponse {
	return RequireMethod(r, http.MethodPost)
}

func RequireDeleteOrPOST(r *http.Request) *HTMXResponse {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the form, returning an error response on failure.
func ParseFormOrFail(r *http.Request) *HTMXResponse {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

func formatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(euros, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-€" + s
	}
	return "€" + s
}
