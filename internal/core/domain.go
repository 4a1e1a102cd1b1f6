package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Expense is a single spending entry inside a month ledger.
	Expense struct {
		ID        string
		Title     string
		Amount    decimal.Decimal
		CreatedAt time.Time
	}

	// MonthLedger is the salary and expense list of one user for one month.
	// Expenses keep insertion order; use Newest for display order.
	MonthLedger struct {
		Salary   decimal.Decimal
		Expenses []Expense
	}

	// UserRecord is one registered account. Passwords are kept as entered.
	UserRecord struct {
		Username string
		Password string
	}
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
	ErrStorageCorrupt     = errors.New("stored record is corrupt")

	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidSalary = errors.New("invalid salary")
)

// Validate checks the invariants a stored expense must hold.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return Invalid(ErrEmptyTitle)
	}
	if !e.Amount.IsPositive() {
		return Invalid(ErrInvalidAmount)
	}
	return nil
}

// SameUsername compares usernames the way the directory does: case-insensitively.
func SameUsername(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Invalid tags a detail error so callers can match it with errors.Is
// against both ErrInvalidInput and the detail.
func Invalid(detail error) error {
	return invalidError{detail: detail}
}

type invalidError struct {
	detail error
}

func (e invalidError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.detail.Error()
}

func (e invalidError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e invalidError) Unwrap() error {
	return e.detail
}
