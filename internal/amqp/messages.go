package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Operations carried by LedgerChangedMessage.
const (
	OpExpenseAdded    = "expense_added"
	OpExpenseDeleted  = "expense_deleted"
	OpExpensesCleared = "expenses_cleared"
	OpSalarySet       = "salary_set"
)

// LedgerChangedMessage announces that one month ledger was saved.
// Amounts travel as decimal strings so no precision is lost in transit.
type LedgerChangedMessage struct {
	User         string    `json:"user"`
	YearMonth    string    `json:"yearMonth"`
	Operation    string    `json:"operation"`
	ExpenseID    string    `json:"expenseId,omitempty"`
	Salary       string    `json:"salary"`
	TotalSpent   string    `json:"totalSpent"`
	ExpenseCount int       `json:"expenseCount"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage stamps a message with the current time.
func NewLedgerChangedMessage(user, yearMonth, operation string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		User:      user,
		YearMonth: yearMonth,
		Operation: operation,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes a message and checks it names a ledger.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.User == "" || msg.YearMonth == "" {
		return nil, errors.New("ledger change message without user or month")
	}
	return &msg, nil
}
