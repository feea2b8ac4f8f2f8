package core

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical expense date format. Zero padding means
	// lexicographic sort on date strings equals chronological sort.
	DateLayout = "2006-01-02"

	// MonthLayout is the canonical month key format ("YYYY-MM"), the
	// partition key for budgets and expenses.
	MonthLayout = "2006-01"
)

// MonthKey derives the canonical month key for a point in time.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// MonthKeyFromDate derives the month key for a "YYYY-MM-DD" date string.
// Used to stamp the denormalized month field on every create and on every
// update that touches the date, so a date edit across a month boundary can
// never orphan the record from its month partition.
func MonthKeyFromDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return MonthKey(t), nil
}

// ValidMonthKey reports whether s is a well-formed month key.
func ValidMonthKey(s string) bool {
	_, err := time.Parse(MonthLayout, s)
	return err == nil
}

// MonthRange enumerates every month key from start to end inclusive, in
// chronological order, crossing year boundaries. If end precedes start or
// either key is malformed the result is empty.
func MonthRange(start, end string) []string {
	from, err := time.Parse(MonthLayout, start)
	if err != nil {
		return nil
	}
	to, err := time.Parse(MonthLayout, end)
	if err != nil {
		return nil
	}

	var keys []string
	for !from.After(to) {
		keys = append(keys, from.Format(MonthLayout))
		from = from.AddDate(0, 1, 0)
	}
	return keys
}

// MonthsOfYear returns the twelve month keys of a calendar year, used to
// populate the month selector.
func MonthsOfYear(year int) []string {
	keys := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		keys = append(keys, fmt.Sprintf("%04d-%02d", year, m))
	}
	return keys
}

// MonthLabel renders a month key as "January 2025" for display. Malformed
// keys are returned unchanged.
func MonthLabel(key string) string {
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}
