// Package session tracks which user is logged in. A Session is created
// once per process, restored from the store at startup and handed to
// every operation that needs the current user.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	applog "bilancio/internal/log"
	"bilancio/internal/storage"
)

// Session is the single authenticated username, or none.
type Session struct {
	store storage.Store
	keys  storage.Keys

	mu   sync.RWMutex
	user string
}

func New(store storage.Store, keys storage.Keys) *Session {
	return &Session{store: store, keys: keys}
}

// Restore reads the persisted current user. A missing or blank value
// leaves the session logged out.
func (s *Session) Restore(ctx context.Context) (string, bool, error) {
	v, ok, err := s.store.Get(ctx, s.keys.CurrentUser())
	if err != nil {
		return "", false, fmt.Errorf("restore session: %w", err)
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false, nil
	}

	s.mu.Lock()
	s.user = v
	s.mu.Unlock()

	applog.For(ctx, applog.ComponentSession).DebugContext(ctx, "Session restored", applog.FieldUser, v)
	return v, true, nil
}

// Begin makes username the current user and persists it.
func (s *Session) Begin(ctx context.Context, username string) error {
	if err := s.store.Set(ctx, s.keys.CurrentUser(), username); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}

	s.mu.Lock()
	s.user = username
	s.mu.Unlock()

	applog.For(ctx, applog.ComponentSession).InfoContext(ctx, "Session started",
		applog.FieldUser, username,
		applog.FieldOperation, applog.OpLogin)
	return nil
}

// End logs out and forgets the persisted user.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	user := s.user
	s.user = ""
	s.mu.Unlock()

	if err := s.store.Remove(ctx, s.keys.CurrentUser()); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	applog.For(ctx, applog.ComponentSession).InfoContext(ctx, "Session ended",
		applog.FieldUser, user,
		applog.FieldOperation, applog.OpLogout)
	return nil
}

// User returns the current username.
func (s *Session) User() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.user != ""
}
