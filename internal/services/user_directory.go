package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/storage"
)

var (
	errEmptyUsername = errors.New("empty username")
	errEmptyPassword = errors.New("empty password")
)

// UserDirectory keeps the list of registered accounts under a single key.
type UserDirectory struct {
	store storage.Store
	keys  storage.Keys

	// mu serializes read-modify-write cycles on the users key.
	mu sync.Mutex
}

func NewUserDirectory(store storage.Store, keys storage.Keys) *UserDirectory {
	return &UserDirectory{store: store, keys: keys}
}

// Users returns every registered account in signup order.
func (d *UserDirectory) Users(ctx context.Context) ([]core.UserRecord, error) {
	return d.load(ctx)
}

// Signup registers a new account. Usernames are unique ignoring case.
func (d *UserDirectory) Signup(ctx context.Context, username, password string) (core.UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.UserRecord{}, core.Invalid(errEmptyUsername)
	}
	if password == "" {
		return core.UserRecord{}, core.Invalid(errEmptyPassword)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load(ctx)
	if err != nil {
		return core.UserRecord{}, err
	}
	if indexOfUser(users, username) >= 0 {
		return core.UserRecord{}, fmt.Errorf("%w: %s", core.ErrDuplicateUser, username)
	}

	rec := core.UserRecord{Username: username, Password: password}
	if err := d.save(ctx, append(users, rec)); err != nil {
		return core.UserRecord{}, err
	}

	applog.For(ctx, applog.ComponentDirectory).InfoContext(ctx, "User registered",
		applog.FieldUser, username,
		applog.FieldOperation, applog.OpSignup)
	return rec, nil
}

// Login checks the credentials and returns the record with its stored casing.
func (d *UserDirectory) Login(ctx context.Context, username, password string) (core.UserRecord, error) {
	users, err := d.load(ctx)
	if err != nil {
		return core.UserRecord{}, err
	}

	i := indexOfUser(users, strings.TrimSpace(username))
	if i < 0 || users[i].Password != password {
		applog.For(ctx, applog.ComponentDirectory).WarnContext(ctx, "Login rejected",
			applog.FieldUser, username,
			applog.FieldOperation, applog.OpLogin)
		return core.UserRecord{}, core.ErrInvalidCredentials
	}
	return users[i], nil
}

// ResetPassword overwrites the password of an existing account.
func (d *UserDirectory) ResetPassword(ctx context.Context, username, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.Invalid(errEmptyUsername)
	}
	if newPassword == "" {
		return core.Invalid(errEmptyPassword)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load(ctx)
	if err != nil {
		return err
	}
	i := indexOfUser(users, username)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrUserNotFound, username)
	}

	users[i].Password = newPassword
	if err := d.save(ctx, users); err != nil {
		return err
	}

	applog.For(ctx, applog.ComponentDirectory).InfoContext(ctx, "Password reset",
		applog.FieldUser, users[i].Username,
		applog.FieldOperation, applog.OpReset)
	return nil
}

func (d *UserDirectory) load(ctx context.Context) ([]core.UserRecord, error) {
	key := d.keys.Users()
	raw, ok, err := d.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return []core.UserRecord{}, nil
	}

	users, corrupt := decodeUsers(raw)
	if corrupt {
		applog.For(ctx, applog.ComponentDirectory).WarnContext(ctx, "Stored user list is corrupt, keeping readable entries",
			applog.NewFields().
				WithKey(key).
				WithOperation(applog.OpDecode).
				WithError(core.ErrStorageCorrupt).
				ToSlice()...)
	}
	return users, nil
}

func (d *UserDirectory) save(ctx context.Context, users []core.UserRecord) error {
	raw, err := encodeUsers(users)
	if err != nil {
		return err
	}
	if err := d.store.Set(ctx, d.keys.Users(), raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func indexOfUser(users []core.UserRecord, username string) int {
	for i, u := range users {
		if core.SameUsername(u.Username, username) {
			return i
		}
	}
	return -1
}
