package backend

import (
	"context"
	"errors"
	"fmt"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	applog "bilancio/internal/log"
	"bilancio/internal/storage"
	"bilancio/internal/storage/memory"
	"bilancio/internal/storage/redis"
	"bilancio/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store   storage.Store
		closers []func() error
		err     error
	)

	switch config.Type {
	case SQLiteBackend:
		store, closers, err = f.createSQLiteBackend(config)
	case RedisBackend:
		store, closers, err = f.createRedisBackend(ctx, config)
	case MemoryBackend:
		store, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: store}

	if config.CacheSize > 0 {
		cached := storage.NewCachedStore(store, config.CacheSize, config.CacheTTL)
		manager := cache.NewManager(f.logger)
		manager.Register(cached.Cleaner())
		manager.StartCleanup(config.CacheTTL)

		result.Store = cached
		result.Cache = manager
		closers = append([]func() error{func() error { manager.Stop(); return nil }}, closers...)

		f.logger.Info("Enabled read cache",
			"size", config.CacheSize,
			"ttl", config.CacheTTL)
	}

	// Initialize AMQP client (optional)
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change feed", applog.FieldError, err)
		} else {
			result.Publisher = client
			closers = append([]func() error{client.Close}, closers...)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Cleanup = func() error {
		var errs []error
		for _, c := range closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (storage.Store, []func() error, error) {
	store, err := sqlite.NewStore(config.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "schema_version", store.SchemaVersion())
	return store, []func() error{store.Close}, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (storage.Store, []func() error, error) {
	store, err := redis.NewStore(ctx, redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Redis store: %w", err)
	}

	f.logger.Info("Initialized Redis backend", "addr", config.RedisAddr, "db", config.RedisDB)
	return store, []func() error{store.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (storage.Store, error) {
	if config.SnapshotPath == "" {
		f.logger.Info("Initialized memory backend without persistence")
		return memory.New(), nil
	}

	store, err := memory.NewFromFile(config.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory snapshot: %w", err)
	}

	f.logger.Info("Initialized memory backend", "snapshot", config.SnapshotPath, "keys", store.Len())
	return store, nil
}
