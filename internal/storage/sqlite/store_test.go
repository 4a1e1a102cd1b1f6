package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "bilancio.db")

	s, err := NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "expenseTracker:alice:2026-02", `{"salary":1,"expenses":[]}`))
	require.NoError(t, s.Set(ctx, "expenseTracker:alice:2026-02", `{"salary":2,"expenses":[]}`))

	v, ok, err := s.Get(ctx, "expenseTracker:alice:2026-02")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"salary":2,"expenses":[]}`, v)

	require.NoError(t, s.Remove(ctx, "expenseTracker:alice:2026-02"))
	require.NoError(t, s.Remove(ctx, "expenseTracker:alice:2026-02"))
	_, ok, err = s.Get(ctx, "expenseTracker:alice:2026-02")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "bilancio.db")

	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.Equal(t, uint(1), s.SchemaVersion())
	require.NoError(t, s.Set(ctx, "expenseTracker:currentUser", "alice"))
	require.NoError(t, s.Close())

	// Migrations must be idempotent on an existing database.
	s, err = NewStore(dbPath)
	require.NoError(t, err)
	require.Equal(t, uint(1), s.SchemaVersion())
	t.Cleanup(func() { _ = s.Close() })

	v, ok, err := s.Get(ctx, "expenseTracker:currentUser")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", v)
}
