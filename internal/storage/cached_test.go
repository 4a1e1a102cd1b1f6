package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
	"bilancio/internal/storage/memory"
)

type countingStore struct {
	Store
	mu   sync.Mutex
	gets int
	fail error
}

func (c *countingStore) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	c.gets++
	fail := c.fail
	c.mu.Unlock()
	if fail != nil {
		return "", false, fail
	}
	return c.Store.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, key, value string) error {
	if c.fail != nil {
		return c.fail
	}
	return c.Store.Set(ctx, key, value)
}

func TestCachedStoreReadThroughAndAbsence(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: memory.New()}
	s := NewCachedStore(backend, 16, time.Minute)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, backend.gets, "absence should be cached")

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
	require.Equal(t, 1, backend.gets, "write-through should populate the cache")

	require.NoError(t, s.Remove(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 2, backend.gets)
}

func TestCachedStoreBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk gone")
	backend := &countingStore{Store: memory.New(), fail: boom}
	s := NewCachedStore(backend, 16, time.Minute)

	_, _, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.Set(ctx, "k", "v"), boom)
	require.Equal(t, 0, s.Size(), "failures must not be cached")
}

func TestKeysLayout(t *testing.T) {
	k := NewKeys("")
	ym := core.YearMonth{Year: 2026, Month: time.February}
	require.Equal(t, "expenseTracker:users", k.Users())
	require.Equal(t, "expenseTracker:currentUser", k.CurrentUser())
	require.Equal(t, "expenseTracker:Alice:2026-02", k.Ledger("Alice", ym))

	custom := NewKeys("test")
	require.Equal(t, "test:users", custom.Users())

	// A user literally named "users" still gets distinct ledger keys.
	require.NotEqual(t, k.Users(), k.Ledger("users", ym))
}
