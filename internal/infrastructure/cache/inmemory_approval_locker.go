package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/application/approval"
)

type heldLock struct {
	token     uuid.UUID
	expiresAt time.Time
}

// InMemoryApprovalLocker implements approval.Locker within one process.
// It is used when Redis is not configured and in tests.
type InMemoryApprovalLocker struct {
	mu    sync.Mutex
	locks map[string]heldLock
	now   func() time.Time
}

// NewInMemoryApprovalLocker creates an empty in-process locker
func NewInMemoryApprovalLocker() *InMemoryApprovalLocker {
	return &InMemoryApprovalLocker{
		locks: make(map[string]heldLock),
		now:   time.Now,
	}
}

// Lock obtains key for ttl. An unexpired lock held by another caller yields
// approval.ErrLockNotObtained.
func (l *InMemoryApprovalLocker) Lock(_ context.Context, key string, ttl time.Duration) (approval.Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[key]; ok && now.Before(held.expiresAt) {
		return nil, approval.ErrLockNotObtained
	}

	token := uuid.New()
	l.locks[key] = heldLock{token: token, expiresAt: now.Add(ttl)}
	return &memoryLease{locker: l, key: key, token: token}, nil
}

// Held reports how many unexpired locks exist
func (l *InMemoryApprovalLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for _, held := range l.locks {
		if now.Before(held.expiresAt) {
			n++
		}
	}
	return n
}

type memoryLease struct {
	locker *InMemoryApprovalLocker
	key    string
	token  uuid.UUID
}

// Refresh implements approval.Lease. An expired lease cannot be revived.
func (m *memoryLease) Refresh(_ context.Context, ttl time.Duration) error {
	l := m.locker
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	held, ok := l.locks[m.key]
	if !ok || held.token != m.token || !now.Before(held.expiresAt) {
		return approval.ErrLockLost
	}
	held.expiresAt = now.Add(ttl)
	l.locks[m.key] = held
	return nil
}

// Release implements approval.Lease
func (m *memoryLease) Release(context.Context) error {
	l := m.locker
	l.mu.Lock()
	defer l.mu.Unlock()
	// a lock that expired and was taken over belongs to someone else
	if held, ok := l.locks[m.key]; ok && held.token == m.token {
		delete(l.locks, m.key)
	}
	return nil
}

var _ approval.Locker = (*InMemoryApprovalLocker)(nil)
