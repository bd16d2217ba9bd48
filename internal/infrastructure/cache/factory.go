package cache

import (
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/retifica/backend/internal/application/approval"
	"github.com/retifica/backend/internal/infrastructure/auth"
	"github.com/retifica/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory builds Redis backed components and falls back to in-memory ones
// when Redis is disabled or unreachable
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool

	once      sync.Once
	client    *redis.Client
	clientErr error
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory components. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client returns the shared Redis client, connecting on first use.
// It returns nil without error when Redis is disabled.
func (f *Factory) Client() (*redis.Client, error) {
	if !f.redisConfig.Enabled {
		return nil, nil
	}
	f.once.Do(func() {
		f.client, f.clientErr = NewRedisClient(f.redisConfig)
	})
	return f.client, f.clientErr
}

// CreateApprovalLocker returns a Redis locker, or an in-memory one when
// Redis is disabled or (with fallback allowed) unreachable
func (f *Factory) CreateApprovalLocker() (approval.Locker, error) {
	client, err := f.Client()
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required for approval locking but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory approval lock. "+
			"Concurrent approvals on other instances are not serialized.",
			zap.Error(err),
		)
		return NewInMemoryApprovalLocker(), nil
	}
	if client == nil {
		f.logger.Info("Redis disabled, using in-memory approval lock")
		return NewInMemoryApprovalLocker(), nil
	}
	f.logger.Info("using Redis approval lock", zap.String("addr", f.redisConfig.Addr()))
	return NewRedisApprovalLocker(client), nil
}

// CreateRevocationList returns the Redis revocation list sharing the factory's
// client. It returns nil without Redis, which disables revocation checks.
func (f *Factory) CreateRevocationList() (auth.RevocationList, error) {
	client, err := f.Client()
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required for token revocations but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, token revocation checks disabled", zap.Error(err))
		return nil, nil
	}
	if client == nil {
		return nil, nil
	}
	return auth.NewRedisRevocationList(client), nil
}

// Close closes the Redis client if one was opened
func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
