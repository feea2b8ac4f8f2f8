package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in cents. Calculations always use cents to avoid
	// floating-point drift; formatting happens at the display layer.
	Money struct {
		Cents int64
	}

	// Expense is a single recorded spending event. Date is kept as a
	// zero-padded "YYYY-MM-DD" string so that lexicographic order equals
	// chronological order. Month is denormalized from Date for querying.
	Expense struct {
		ID        string
		UID       string
		Title     string
		Amount    Money
		Date      string
		Month     string
		Category  string
		CreatedAt time.Time
	}

	// Budget is a user-set spending ceiling for one calendar month.
	// ID is the composite key "{uid}_{month}", which makes a second write
	// for the same (uid, month) an overwrite rather than a duplicate.
	Budget struct {
		ID        string
		UID       string
		Month     string
		Amount    Money
		CreatedAt time.Time
	}

	// User is the authenticated identity that owns budgets and expenses.
	// PasswordHash never leaves the auth/storage layers.
	User struct {
		UID          string
		Email        string
		DisplayName  string
		PhotoURL     string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month key")
	ErrEmptyTitle    = errors.New("empty title")
)

// BudgetID builds the composite budget record key.
func BudgetID(uid, month string) string {
	return uid + "_" + month
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the whole-currency value for display purposes.
// Use cents for calculations.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.Month != "" {
		derived, err := MonthKeyFromDate(e.Date)
		if err != nil || e.Month != derived {
			return ErrInvalidMonth
		}
	}
	return nil
}

func (b Budget) Validate() error {
	// Zero is a valid explicit budget; only negatives are rejected.
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !ValidMonthKey(b.Month) {
		return ErrInvalidMonth
	}
	return nil
}
