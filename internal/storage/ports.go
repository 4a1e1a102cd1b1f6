// Package storage defines the key-value port every higher layer persists
// through, the key layout shared by all backends and a caching decorator.
package storage

import (
	"context"
)

// Ports for outbound adapters.
type (
	// Reader looks up a single key. A missing key is reported with ok=false
	// and a nil error; err is reserved for backend failures.
	Reader interface {
		Get(ctx context.Context, key string) (value string, ok bool, err error)
	}

	// Writer replaces or deletes a whole value. Removing a missing key is not an error.
	Writer interface {
		Set(ctx context.Context, key, value string) error
		Remove(ctx context.Context, key string) error
	}

	// Store is the flat key-value namespace all records live in.
	Store interface {
		Reader
		Writer
	}
)
