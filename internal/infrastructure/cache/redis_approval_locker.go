package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/retifica/backend/internal/application/approval"
)

const defaultLockPrefix = "lock:"

// redisLock is the part of *redislock.Lock a lease uses
type redisLock interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
	Release(ctx context.Context) error
}

// obtainer hands out redis locks
type obtainer interface {
	obtain(ctx context.Context, key string, ttl time.Duration) (redisLock, error)
}

type redislockObtainer struct {
	client *redislock.Client
}

func (o redislockObtainer) obtain(ctx context.Context, key string, ttl time.Duration) (redisLock, error) {
	lock, err := o.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// RedisApprovalLocker implements approval.Locker with redislock, so that
// several server instances never reconcile the same budget at once
type RedisApprovalLocker struct {
	client    obtainer
	keyPrefix string
}

// NewRedisApprovalLocker creates a locker on top of an existing Redis client
func NewRedisApprovalLocker(client redislock.RedisClient) *RedisApprovalLocker {
	return &RedisApprovalLocker{
		client:    redislockObtainer{client: redislock.New(client)},
		keyPrefix: defaultLockPrefix,
	}
}

// Lock obtains key for ttl without retrying. A lock held elsewhere yields
// approval.ErrLockNotObtained.
func (l *RedisApprovalLocker) Lock(ctx context.Context, key string, ttl time.Duration) (approval.Lease, error) {
	lock, err := l.client.obtain(ctx, l.keyPrefix+key, ttl)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, approval.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return redisLease{lock: lock, key: key}, nil
}

type redisLease struct {
	lock redisLock
	key  string
}

// Refresh implements approval.Lease
func (l redisLease) Refresh(ctx context.Context, ttl time.Duration) error {
	err := l.lock.Refresh(ctx, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return approval.ErrLockLost
	}
	if err != nil {
		return fmt.Errorf("failed to refresh lock %s: %w", l.key, err)
	}
	return nil
}

// Release implements approval.Lease
func (l redisLease) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	// expired before release; nothing left to free
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

var _ approval.Locker = (*RedisApprovalLocker)(nil)
