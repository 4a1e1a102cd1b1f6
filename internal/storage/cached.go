package storage

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"bilancio/internal/cache"
)

type cachedValue struct {
	value string
	ok    bool
}

// CachedStore is a read-through, write-through cache in front of a Store.
// Absent keys are cached too, so repeated history lookups of empty months
// do not hit the backend.
type CachedStore struct {
	next  Store
	lru   *cache.LRUCache[cachedValue]
	group singleflight.Group
}

// NewCachedStore wraps next with an LRU cache of at most size entries,
// each living for ttl.
func NewCachedStore(next Store, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, lru: cache.NewLRUCache[cachedValue](size, ttl)}
}

// Cleaner exposes the cache for registration with a cache.Manager.
func (s *CachedStore) Cleaner() cache.Cleaner {
	return s.lru
}

// Size returns the number of cached keys.
func (s *CachedStore) Size() int {
	return s.lru.Size()
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.lru.Get(key); ok {
		return v.value, v.ok, nil
	}

	res, err, _ := s.group.Do(key, func() (any, error) {
		value, ok, err := s.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		v := cachedValue{value: value, ok: ok}
		s.lru.Set(key, v)
		return v, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("cached get %s: %w", key, err)
	}
	v := res.(cachedValue)
	return v.value, v.ok, nil
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		s.lru.Delete(key)
		return err
	}
	s.lru.Set(key, cachedValue{value: value, ok: true})
	return nil
}

func (s *CachedStore) Remove(ctx context.Context, key string) error {
	err := s.next.Remove(ctx, key)
	s.lru.Delete(key)
	return err
}
