package storage

import (
	"fmt"

	"bilancio/internal/core"
)

// DefaultPrefix matches the key family names the browser build wrote.
const DefaultPrefix = "expenseTracker"

// Keys builds the three key families. Ledger keys always end with the
// fixed-width YYYY-MM, so they never collide with the two singleton keys
// or with another user's ledgers.
type Keys struct {
	Prefix string
}

// NewKeys returns a key builder; an empty prefix means DefaultPrefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{Prefix: prefix}
}

func (k Keys) Users() string {
	return fmt.Sprintf("%s:users", k.Prefix)
}

func (k Keys) CurrentUser() string {
	return fmt.Sprintf("%s:currentUser", k.Prefix)
}

func (k Keys) Ledger(user string, ym core.YearMonth) string {
	return fmt.Sprintf("%s:%s:%s", k.Prefix, user, ym)
}
