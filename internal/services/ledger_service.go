package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/storage"
)

// ErrNoSession is returned by the persisting helpers when nobody is logged in.
var ErrNoSession = errors.New("no user is logged in")

// Session is what the services need from the current login.
type Session interface {
	User() (string, bool)
}

// ChangePublisher receives a notification after each persisted mutation.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// LedgerService loads, mutates and saves month ledgers, and announces
// each saved change when a publisher is configured.
type LedgerService struct {
	store     storage.Store
	keys      storage.Keys
	publisher ChangePublisher
	newID     func() string
	now       func() time.Time
}

type LedgerOption func(*LedgerService)

// WithPublisher enables change notifications.
func WithPublisher(p ChangePublisher) LedgerOption {
	return func(s *LedgerService) { s.publisher = p }
}

// WithIDGenerator replaces the expense id source.
func WithIDGenerator(f func() string) LedgerOption {
	return func(s *LedgerService) { s.newID = f }
}

// WithClock replaces the time source used for CreatedAt.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

func NewLedgerService(store storage.Store, keys storage.Keys, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		store: store,
		keys:  keys,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyLedger() core.MonthLedger {
	return core.MonthLedger{Salary: decimal.Zero, Expenses: []core.Expense{}}
}

// Load returns the stored ledger, or an empty one when nobody is logged
// in, nothing is stored yet or the stored record cannot be read.
func (s *LedgerService) Load(ctx context.Context, sess Session, ym core.YearMonth) (core.MonthLedger, error) {
	user, ok := sess.User()
	if !ok {
		return emptyLedger(), nil
	}

	key := s.keys.Ledger(user, ym)
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return emptyLedger(), fmt.Errorf("load ledger: %w", err)
	}
	if !found {
		return emptyLedger(), nil
	}

	ledger, corrupt := decodeLedger(raw)
	if corrupt {
		applog.For(ctx, applog.ComponentLedger).WarnContext(ctx, "Stored ledger is corrupt, using defaults for unreadable fields",
			applog.NewFields().
				WithKey(key).
				WithLedger(user, ym.String()).
				WithOperation(applog.OpDecode).
				WithError(core.ErrStorageCorrupt).
				ToSlice()...)
	}
	return ledger, nil
}

// Save replaces the whole stored ledger. It does nothing when nobody is logged in.
func (s *LedgerService) Save(ctx context.Context, sess Session, ym core.YearMonth, ledger core.MonthLedger) error {
	user, ok := sess.User()
	if !ok {
		return nil
	}

	raw, err := encodeLedger(ledger)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.keys.Ledger(user, ym), raw); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// AddExpense validates the input and returns the ledger with a new
// expense appended. The input ledger is left untouched on error.
func (s *LedgerService) AddExpense(ledger core.MonthLedger, title string, amount decimal.Decimal) (core.MonthLedger, core.Expense, error) {
	e := core.Expense{
		ID:        s.newID(),
		Title:     strings.TrimSpace(title),
		Amount:    amount,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := e.Validate(); err != nil {
		return ledger, core.Expense{}, err
	}
	return ledger.AddExpense(e), e, nil
}

// DeleteExpense removes id if present.
func (s *LedgerService) DeleteExpense(ledger core.MonthLedger, id string) core.MonthLedger {
	return ledger.DeleteExpense(id)
}

// ClearExpenses empties the list. Confirming intent is the caller's job.
func (s *LedgerService) ClearExpenses(ledger core.MonthLedger) core.MonthLedger {
	return ledger.ClearExpenses()
}

// SetSalary rejects negative values.
func (s *LedgerService) SetSalary(ledger core.MonthLedger, value decimal.Decimal) (core.MonthLedger, error) {
	return ledger.WithSalary(value)
}

// Add loads the month, appends a new expense, saves and publishes.
// Amounts come from core.ParseAmount or core.AmountFromFloat.
func (s *LedgerService) Add(ctx context.Context, sess Session, ym core.YearMonth, title string, amount decimal.Decimal) (core.MonthLedger, core.Expense, error) {
	var added core.Expense
	change := &ledgerChange{op: amqp.OpExpenseAdded}
	ledger, err := s.mutate(ctx, sess, ym, change, func(l core.MonthLedger) (core.MonthLedger, bool, error) {
		next, e, err := s.AddExpense(l, title, amount)
		if err != nil {
			return l, false, err
		}
		added = e
		change.expenseID = e.ID
		return next, true, nil
	})
	if err != nil {
		return ledger, core.Expense{}, err
	}

	applog.For(ctx, applog.ComponentLedger).InfoContext(ctx, "Expense added",
		applog.NewFields().
			WithExpense(added.ID, added.Title, added.Amount.String()).
			WithOperation(applog.OpCreate).
			ToSlice()...)
	return ledger, added, nil
}

// Delete removes one expense and reports whether it existed. Deleting a
// missing id saves nothing and is not an error.
func (s *LedgerService) Delete(ctx context.Context, sess Session, ym core.YearMonth, id string) (core.MonthLedger, bool, error) {
	removed := false
	change := &ledgerChange{op: amqp.OpExpenseDeleted, expenseID: id}
	ledger, err := s.mutate(ctx, sess, ym, change, func(l core.MonthLedger) (core.MonthLedger, bool, error) {
		if _, ok := l.Find(id); !ok {
			return l, false, nil
		}
		removed = true
		return s.DeleteExpense(l, id), true, nil
	})
	return ledger, removed, err
}

// Clear empties the month's expense list unconditionally.
func (s *LedgerService) Clear(ctx context.Context, sess Session, ym core.YearMonth) (core.MonthLedger, error) {
	return s.mutate(ctx, sess, ym, &ledgerChange{op: amqp.OpExpensesCleared}, func(l core.MonthLedger) (core.MonthLedger, bool, error) {
		return s.ClearExpenses(l), true, nil
	})
}

// ResetMonth clears the list only when it has entries and reports whether it did.
func (s *LedgerService) ResetMonth(ctx context.Context, sess Session, ym core.YearMonth) (core.MonthLedger, bool, error) {
	changed := false
	ledger, err := s.mutate(ctx, sess, ym, &ledgerChange{op: amqp.OpExpensesCleared}, func(l core.MonthLedger) (core.MonthLedger, bool, error) {
		if l.IsEmpty() {
			return l, false, nil
		}
		changed = true
		return s.ClearExpenses(l), true, nil
	})
	return ledger, changed, err
}

// UpdateSalary stores a new salary for the month.
func (s *LedgerService) UpdateSalary(ctx context.Context, sess Session, ym core.YearMonth, value decimal.Decimal) (core.MonthLedger, error) {
	return s.mutate(ctx, sess, ym, &ledgerChange{op: amqp.OpSalarySet}, func(l core.MonthLedger) (core.MonthLedger, bool, error) {
		next, err := s.SetSalary(l, value)
		return next, err == nil, err
	})
}

// ledgerChange describes a mutation for the change feed.
type ledgerChange struct {
	op        string
	expenseID string
}

// mutate runs the load, change, save cycle. fn reports whether anything
// changed; unchanged ledgers are not written.
func (s *LedgerService) mutate(ctx context.Context, sess Session, ym core.YearMonth, change *ledgerChange, fn func(core.MonthLedger) (core.MonthLedger, bool, error)) (core.MonthLedger, error) {
	user, ok := sess.User()
	if !ok {
		return emptyLedger(), ErrNoSession
	}

	current, err := s.Load(ctx, sess, ym)
	if err != nil {
		return current, err
	}

	next, changed, err := fn(current)
	if err != nil || !changed {
		return current, err
	}

	if err := s.Save(ctx, sess, ym, next); err != nil {
		return current, err
	}

	s.publish(ctx, user, ym, change, next)
	return next, nil
}

func (s *LedgerService) publish(ctx context.Context, user string, ym core.YearMonth, change *ledgerChange, ledger core.MonthLedger) {
	if s.publisher == nil {
		return
	}

	msg := amqp.NewLedgerChangedMessage(user, ym.String(), change.op)
	msg.ExpenseID = change.expenseID
	msg.Salary = ledger.Salary.String()
	msg.TotalSpent = ledger.TotalSpent().String()
	msg.ExpenseCount = len(ledger.Expenses)

	// The ledger is already saved; a failed notification is only logged.
	if err := s.publisher.PublishLedgerChanged(ctx, msg); err != nil {
		applog.LogError(ctx, "Failed to publish ledger change", err,
			applog.ComponentLedger, applog.OpPublish,
			applog.NewFields().WithLedger(user, ym.String()))
	}
}
