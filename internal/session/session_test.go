package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"bilancio/internal/storage"
	"bilancio/internal/storage/memory"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	keys := storage.NewKeys("")

	s := New(store, keys)
	_, ok := s.User()
	require.False(t, ok)

	_, ok, err := s.Restore(ctx)
	require.NoError(t, err)
	require.False(t, ok, "nothing persisted yet")

	require.NoError(t, s.Begin(ctx, "Alice"))
	user, ok := s.User()
	require.True(t, ok)
	require.Equal(t, "Alice", user)

	raw, ok, _ := store.Get(ctx, "expenseTracker:currentUser")
	require.True(t, ok)
	require.Equal(t, "Alice", raw, "current user is stored as the raw name")

	// A fresh process restores the same user.
	restarted := New(store, keys)
	user, ok, err = restarted.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Alice", user)

	require.NoError(t, restarted.End(ctx))
	_, ok = restarted.User()
	require.False(t, ok)
	_, ok, _ = store.Get(ctx, "expenseTracker:currentUser")
	require.False(t, ok)
}

func TestNilSessionHasNoUser(t *testing.T) {
	var s *Session
	_, ok := s.User()
	require.False(t, ok)
}
