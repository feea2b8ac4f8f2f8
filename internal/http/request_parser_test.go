package http

import (
	"net/url"
	"testing"
	"time"

	"spendtrack/internal/core"
)

func TestMonthParam(t *testing.T) {
	current := core.MonthKey(time.Now())

	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"explicit month", url.Values{"month": {"2025-03"}}, "2025-03"},
		{"absent defaults to current", url.Values{}, current},
		{"malformed defaults to current", url.Values{"month": {"march"}}, current},
		{"unpadded is rejected", url.Values{"month": {"2025-3"}}, current},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := monthParam(tt.query); got != tt.want {
				t.Errorf("monthParam() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseExpenseForm(t *testing.T) {
	form := url.Values{
		"title":    {"  Groceries  "},
		"amount":   {" 42,50 "},
		"date":     {"2025-03-05"},
		"category": {"food"},
	}

	in := parseExpenseForm(form)
	if in.Title != "Groceries" {
		t.Errorf("Title = %q, want %q", in.Title, "Groceries")
	}
	if in.Amount != "42,50" {
		t.Errorf("Amount = %q, want %q", in.Amount, "42,50")
	}
	if in.Date != "2025-03-05" {
		t.Errorf("Date = %q", in.Date)
	}
	if in.Category != "food" {
		t.Errorf("Category = %q", in.Category)
	}
}

func TestParseFilter(t *testing.T) {
	t.Run("empty query yields empty filter", func(t *testing.T) {
		f, err := parseFilter(url.Values{})
		if err != nil {
			t.Fatalf("parseFilter: %v", err)
		}
		if !f.Empty() {
			t.Errorf("expected empty filter, got %+v", f)
		}
	})

	t.Run("all predicates", func(t *testing.T) {
		f, err := parseFilter(url.Values{
			"from":     {"2025-01-01"},
			"to":       {"2025-03-31"},
			"min":      {"10"},
			"max":      {"99,99"},
			"category": {"food"},
			"q":        {"coffee"},
		})
		if err != nil {
			t.Fatalf("parseFilter: %v", err)
		}
		if f.StartDate.IsZero() || f.EndDate.IsZero() {
			t.Error("date bounds not set")
		}
		if f.MinCents == nil || *f.MinCents != 1000 {
			t.Errorf("MinCents = %v, want 1000", f.MinCents)
		}
		if f.MaxCents == nil || *f.MaxCents != 9999 {
			t.Errorf("MaxCents = %v, want 9999", f.MaxCents)
		}
		if f.Category != "food" || f.Keyword != "coffee" {
			t.Errorf("Category = %q, Keyword = %q", f.Category, f.Keyword)
		}
	})

	t.Run("to bound covers the whole day", func(t *testing.T) {
		f, err := parseFilter(url.Values{"to": {"2025-03-31"}})
		if err != nil {
			t.Fatalf("parseFilter: %v", err)
		}
		endOfDay := time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)
		if f.EndDate.Before(endOfDay) {
			t.Errorf("EndDate %v should include the whole of 2025-03-31", f.EndDate)
		}
	})

	t.Run("malformed inputs error", func(t *testing.T) {
		bad := []url.Values{
			{"from": {"yesterday"}},
			{"to": {"2025-13-01"}},
			{"min": {"abc"}},
			{"max": {"-5"}},
		}
		for _, q := range bad {
			if _, err := parseFilter(q); err == nil {
				t.Errorf("parseFilter(%v) expected error", q)
			}
		}
	})
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keeps\ttabs", "keeps\ttabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatEuros(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "€0,00"},
		{250, "€2,50"},
		{123456, "€1234,56"},
		{-999, "-€9,99"},
		{5, "€0,05"},
	}
	for _, tt := range tests {
		if got := formatEuros(tt.cents); got != tt.want {
			t.Errorf("formatEuros(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
