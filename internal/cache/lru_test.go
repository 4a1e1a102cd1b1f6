package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	_, ok := c.Get("a") // a becomes most recent
	require.True(t, ok)

	c.Set("c", "3")
	_, ok = c.Get("b")
	require.False(t, ok, "b should have been evicted")
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", v)
	require.Equal(t, 2, c.Size())
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Second).WithClock(func() time.Time { return now })
	c.Set("x", 1)
	c.Set("y", 2)

	now = now.Add(2 * time.Second)
	_, ok := c.Get("x")
	require.False(t, ok)

	require.Equal(t, 1, c.CleanExpired())
	require.Equal(t, 0, c.Size())
}

func TestManagerCleanNow(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Second).WithClock(func() time.Time { return now })
	c.Set("x", 1)

	m := NewManager(nil)
	m.Register(c)
	require.Equal(t, 0, m.CleanNow())

	now = now.Add(time.Minute)
	require.Equal(t, 1, m.CleanNow())

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}
