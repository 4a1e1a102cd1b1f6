package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: "a", Title: "ok", Amount: dec("1.5")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{ID: "a", Title: "   ", Amount: dec("1")},
		{ID: "a", Title: "x", Amount: dec("0")},
		{ID: "a", Title: "x", Amount: dec("-2")},
	}
	for i, e := range bads {
		err := e.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestLedgerAddKeepsPriorEntries(t *testing.T) {
	base := MonthLedger{Salary: dec("1000")}
	base = base.AddExpense(Expense{ID: "1", Title: "rent", Amount: dec("500")})
	next := base.AddExpense(Expense{ID: "2", Title: "food", Amount: dec("120.50")})

	if len(base.Expenses) != 1 {
		t.Fatalf("receiver changed: %v", base.Expenses)
	}
	if len(next.Expenses) != 2 || next.Expenses[0].ID != "1" || next.Expenses[1].ID != "2" {
		t.Fatalf("expected order-preserving append, got %v", next.Expenses)
	}
	if got := next.TotalSpent(); !got.Equal(dec("620.50")) {
		t.Fatalf("total = %s", got)
	}
	if got := next.Remaining(); !got.Equal(dec("379.50")) {
		t.Fatalf("remaining = %s", got)
	}
}

func TestLedgerDeleteIsIdempotent(t *testing.T) {
	l := MonthLedger{}.
		AddExpense(Expense{ID: "1", Title: "a", Amount: dec("1")}).
		AddExpense(Expense{ID: "2", Title: "b", Amount: dec("2")})

	once := l.DeleteExpense("1")
	twice := once.DeleteExpense("1")

	if len(once.Expenses) != 1 || once.Expenses[0].ID != "2" {
		t.Fatalf("unexpected after delete: %v", once.Expenses)
	}
	if len(twice.Expenses) != len(once.Expenses) || twice.Expenses[0] != once.Expenses[0] {
		t.Fatalf("second delete changed the ledger: %v", twice.Expenses)
	}
	if len(l.Expenses) != 2 {
		t.Fatalf("receiver changed: %v", l.Expenses)
	}
}

func TestLedgerRemainingMayBeNegative(t *testing.T) {
	l := MonthLedger{Salary: dec("100")}.AddExpense(Expense{ID: "1", Title: "tv", Amount: dec("250")})
	if got := l.Remaining(); !got.Equal(dec("-150")) {
		t.Fatalf("remaining = %s", got)
	}
	if !l.Remaining().Equal(l.Salary.Sub(l.TotalSpent())) {
		t.Fatalf("remaining must equal salary - total")
	}
}

func TestLedgerWithSalary(t *testing.T) {
	l := MonthLedger{Salary: dec("10")}
	if _, err := l.WithSalary(dec("-1")); !errors.Is(err, ErrInvalidSalary) {
		t.Fatalf("expected invalid salary, got %v", err)
	}
	next, err := l.WithSalary(dec("0"))
	if err != nil || !next.Salary.IsZero() {
		t.Fatalf("zero salary should be accepted: %v", err)
	}
	if !l.Salary.Equal(dec("10")) {
		t.Fatalf("receiver changed")
	}
}

func TestLedgerNewestBreaksTiesByInsertion(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	l := MonthLedger{}.
		AddExpense(Expense{ID: "rent", Title: "Rent", Amount: dec("700"), CreatedAt: t0}).
		AddExpense(Expense{ID: "coffee", Title: "Coffee", Amount: dec("3"), CreatedAt: t0}).
		AddExpense(Expense{ID: "early", Title: "Early", Amount: dec("1"), CreatedAt: t0.Add(-time.Minute)})

	newest := l.Newest()
	got := []string{newest[0].ID, newest[1].ID, newest[2].ID}
	want := []string{"coffee", "rent", "early"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if l.Expenses[0].ID != "rent" {
		t.Fatalf("storage order must not change")
	}
}

func TestLedgerClearAndNewest(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	l := MonthLedger{Salary: dec("5")}.
		AddExpense(Expense{ID: "old", Title: "a", Amount: dec("1"), CreatedAt: t0}).
		AddExpense(Expense{ID: "new", Title: "b", Amount: dec("1"), CreatedAt: t0.Add(time.Hour)})

	newest := l.Newest()
	if newest[0].ID != "new" || newest[1].ID != "old" {
		t.Fatalf("expected newest first, got %v", newest)
	}
	if l.Expenses[0].ID != "old" {
		t.Fatalf("storage order must not change")
	}

	cleared := l.ClearExpenses()
	if !cleared.IsEmpty() || !cleared.Salary.Equal(dec("5")) {
		t.Fatalf("unexpected cleared ledger: %+v", cleared)
	}
	if _, ok := l.Find("old"); !ok {
		t.Fatalf("expected to find old")
	}
	if _, ok := cleared.Find("old"); ok {
		t.Fatalf("cleared ledger still has old")
	}
}
