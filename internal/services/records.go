package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// createdAtLayout matches JavaScript's Date.prototype.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

type (
	ledgerRecord struct {
		Salary   json.RawMessage `json:"salary"`
		Expenses []expenseRecord `json:"expenses"`
	}

	expenseRecord struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		Amount    json.RawMessage `json:"amount"`
		CreatedAt string          `json:"createdAt"`
	}

	userRecord struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
)

func encodeLedger(l core.MonthLedger) (string, error) {
	rec := ledgerRecord{
		Salary:   json.RawMessage(l.Salary.String()),
		Expenses: make([]expenseRecord, 0, len(l.Expenses)),
	}
	for _, e := range l.Expenses {
		createdAt := ""
		if !e.CreatedAt.IsZero() {
			createdAt = e.CreatedAt.UTC().Format(createdAtLayout)
		}
		rec.Expenses = append(rec.Expenses, expenseRecord{
			ID:        e.ID,
			Title:     e.Title,
			Amount:    json.RawMessage(e.Amount.String()),
			CreatedAt: createdAt,
		})
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	return string(raw), nil
}

// decodeLedger never fails: whatever cannot be read falls back to the
// field's default. corrupt reports whether anything was substituted.
func decodeLedger(raw string) (l core.MonthLedger, corrupt bool) {
	l = core.MonthLedger{Salary: decimal.Zero, Expenses: []core.Expense{}}

	var top struct {
		Salary   json.RawMessage `json:"salary"`
		Expenses json.RawMessage `json:"expenses"`
	}
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return l, true
	}

	salary, ok := parseNumber(top.Salary)
	if !ok || salary.IsNegative() {
		salary, corrupt = decimal.Zero, true
	}
	l.Salary = salary

	if isNull(top.Expenses) {
		return l, corrupt
	}
	var items []json.RawMessage
	if err := json.Unmarshal(top.Expenses, &items); err != nil {
		return l, true
	}
	for _, item := range items {
		e, ok, bad := decodeExpense(item)
		if bad {
			corrupt = true
		}
		if ok {
			l.Expenses = append(l.Expenses, e)
		}
	}
	return l, corrupt
}

func decodeExpense(raw json.RawMessage) (e core.Expense, ok bool, corrupt bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return e, false, true
	}

	e.ID, corrupt = textField(fields["id"])
	title, bad := textField(fields["title"])
	e.Title = title
	corrupt = corrupt || bad

	amount, good := parseNumber(fields["amount"])
	if !good || amount.IsNegative() {
		amount, corrupt = decimal.Zero, true
	}
	e.Amount = amount

	if s, bad := textField(fields["createdAt"]); !bad && s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			corrupt = true
		} else {
			e.CreatedAt = t
		}
	}
	return e, true, corrupt
}

// parseNumber accepts JSON numbers and numeric strings. Missing, null and
// blank values read as zero; anything else is malformed.
func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	if isNull(raw) {
		return decimal.Zero, true
	}
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return decimal.Zero, true
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil || !inRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// Stored numbers beyond these bounds are treated as malformed. Formatting a
// decimal costs time and memory proportional to its exponent.
const (
	maxIntegerDigits  = 15
	maxFractionDigits = 20
)

// inRange checks d by its coefficient length and exponent only, so huge
// exponents are rejected without being expanded.
func inRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := int64(d.Exponent())
	if exp < -maxFractionDigits {
		return false
	}
	return int64(d.NumDigits())+exp <= maxIntegerDigits
}

// textField reads a JSON string; numbers are kept as their literal text.
func textField(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), false
	}
	return "", true
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func encodeUsers(users []core.UserRecord) (string, error) {
	recs := make([]userRecord, 0, len(users))
	for _, u := range users {
		recs = append(recs, userRecord{Username: u.Username, Password: u.Password})
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode users: %w", err)
	}
	return string(raw), nil
}

// decodeUsers drops entries without a usable username.
func decodeUsers(raw string) (users []core.UserRecord, corrupt bool) {
	users = []core.UserRecord{}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return users, true
	}
	for _, item := range items {
		var rec struct {
			Username json.RawMessage `json:"username"`
			Password json.RawMessage `json:"password"`
		}
		if err := json.Unmarshal(item, &rec); err != nil {
			corrupt = true
			continue
		}
		var name, password string
		if json.Unmarshal(rec.Username, &name) != nil || name == "" {
			corrupt = true
			continue
		}
		if json.Unmarshal(rec.Password, &password) != nil {
			corrupt = true
		}
		users = append(users, core.UserRecord{Username: name, Password: password})
	}
	return users, corrupt
}
