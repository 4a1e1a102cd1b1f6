package core

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// The ledger operations below return modified copies and never write
// through the receiver's Expenses slice.

// AddExpense appends e. Callers validate e first.
func (l MonthLedger) AddExpense(e Expense) MonthLedger {
	out := l.clone()
	out.Expenses = append(out.Expenses, e)
	return out
}

// DeleteExpense removes the expense with the given id. A missing id is a no-op.
func (l MonthLedger) DeleteExpense(id string) MonthLedger {
	out := MonthLedger{Salary: l.Salary, Expenses: make([]Expense, 0, len(l.Expenses))}
	for _, e := range l.Expenses {
		if e.ID != id {
			out.Expenses = append(out.Expenses, e)
		}
	}
	return out
}

// ClearExpenses empties the expense list and keeps the salary.
func (l MonthLedger) ClearExpenses() MonthLedger {
	return MonthLedger{Salary: l.Salary, Expenses: []Expense{}}
}

// WithSalary replaces the salary; negative values are rejected.
func (l MonthLedger) WithSalary(v decimal.Decimal) (MonthLedger, error) {
	if v.IsNegative() {
		return l, Invalid(ErrInvalidSalary)
	}
	out := l.clone()
	out.Salary = v
	return out, nil
}

// Find returns the expense with the given id.
func (l MonthLedger) Find(id string) (Expense, bool) {
	i := slices.IndexFunc(l.Expenses, func(e Expense) bool { return e.ID == id })
	if i < 0 {
		return Expense{}, false
	}
	return l.Expenses[i], true
}

// TotalSpent sums every expense amount. Amounts that failed to decode are
// stored as zero and so contribute nothing.
func (l MonthLedger) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Remaining is salary minus spending. Negative means overspent.
func (l MonthLedger) Remaining() decimal.Decimal {
	return l.Salary.Sub(l.TotalSpent())
}

// IsEmpty reports whether the ledger has no expenses.
func (l MonthLedger) IsEmpty() bool {
	return len(l.Expenses) == 0
}

// Newest returns the expenses in display order, most recent first.
// Entries sharing a timestamp keep reverse insertion order.
func (l MonthLedger) Newest() []Expense {
	out := slices.Clone(l.Expenses)
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (l MonthLedger) clone() MonthLedger {
	return MonthLedger{Salary: l.Salary, Expenses: slices.Clone(l.Expenses)}
}
