package backend

import (
	"context"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	"bilancio/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the assembled store stack and its cleanup function
type BackendResult struct {
	// Store is the backend wrapped in the read cache when caching is enabled.
	Store storage.Store
	// Publisher is nil when the change feed is disabled or unreachable.
	Publisher *amqp.Client
	// Cache runs periodic expiry of the read cache; nil when disabled.
	Cache   *cache.Manager
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific; empty keeps data in process memory only
	SnapshotPath string

	// Redis specific
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Read cache; size 0 disables it
	CacheSize int
	CacheTTL  time.Duration

	// Change feed; empty URL disables it
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RedisBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
