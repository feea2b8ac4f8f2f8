package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponse_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyHTML("<p>ok</p>").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "<p>ok</p>" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "<p>ok</p>")
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestHTMXResponse_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerExpenseSaved("2025-03").
		TriggerFormReset().
		TriggerSuccessNotification("Saved").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	expectedParts := []string{
		`"expense:saved"`,
		`"form:reset"`,
		`"show-notification"`,
		`"months":["2025-03"]`,
		`"type":"success"`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponse_ExpenseSavedBothMonths(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerExpenseSaved("2025-04", "2025-03").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"months":["2025-04","2025-03"]`) {
		t.Errorf("Both month partitions should be announced: %s", trigger)
	}
}

func TestHTMXResponse_BudgetSet(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerBudgetSet("2025-03").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"budget:set"`) {
		t.Errorf("Missing budget:set trigger: %s", trigger)
	}
	if !strings.Contains(trigger, `"month":"2025-03"`) {
		t.Errorf("Missing month payload: %s", trigger)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponse
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bad request",
			builder:    BadRequestError("Invalid input"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `<div class="error">Invalid input</div>`,
		},
		{
			name:       "unprocessable entity",
			builder:    UnprocessableEntityError("Validation failed"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `<div class="error">Validation failed</div>`,
		},
		{
			name:       "forbidden",
			builder:    ForbiddenError("Not your expense"),
			wantStatus: http.StatusForbidden,
			wantBody:   `<div class="error">Not your expense</div>`,
		},
		{
			name:       "not found",
			builder:    NotFoundError("Expense not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `<div class="error">Expense not found</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()

	BadRequestError("<script>alert('xss')</script>").Write(w)

	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("Error response did not escape HTML")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("Error response did not properly escape HTML entities")
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowedError("GET, POST").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if w.Header().Get("Allow") != "GET, POST" {
		t.Errorf("Allow header = %q, want %q", w.Header().Get("Allow"), "GET, POST")
	}
}
