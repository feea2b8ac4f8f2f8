package core

import (
	"strings"
	"time"
)

// Filter is a set of optional predicates over an expense record. A zero
// field imposes no constraint on its dimension; a record matches only when
// every specified predicate holds. Designed to run in-process over a
// superset fetched by uid alone rather than pushing predicates into the
// store query.
type Filter struct {
	StartDate time.Time
	EndDate   time.Time
	Category  string
	MinCents  *int64
	MaxCents  *int64
	Keyword   string
}

// Empty reports whether no predicate is specified. An empty filter matches
// every record.
func (f Filter) Empty() bool {
	return f.StartDate.IsZero() && f.EndDate.IsZero() &&
		f.Category == "" && f.MinCents == nil && f.MaxCents == nil && f.Keyword == ""
}

// Matches evaluates the filter against one expense. Date bounds test the
// record's creation timestamp; keyword is a case-insensitive substring
// match on the title.
func (f Filter) Matches(e Expense) bool {
	if !f.StartDate.IsZero() && e.CreatedAt.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && e.CreatedAt.After(f.EndDate) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.MinCents != nil && e.Amount.Cents < *f.MinCents {
		return false
	}
	if f.MaxCents != nil && e.Amount.Cents > *f.MaxCents {
		return false
	}
	if f.Keyword != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Keyword)) {
		return false
	}
	return true
}

// Apply returns the subset of expenses matching the filter, preserving
// input order.
func (f Filter) Apply(expenses []Expense) []Expense {
	if f.Empty() {
		return expenses
	}
	var out []Expense
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
