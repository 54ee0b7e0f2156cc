package lock

import (
	"context"
	"sync"
	"time"
)

type lease struct {
	token   string
	expires time.Time
}

// MemoryLock is a process-local Locker for single-instance deployments and tests.
type MemoryLock struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

func NewMemory() *MemoryLock {
	return &MemoryLock{leases: make(map[string]lease), now: time.Now}
}

func (l *MemoryLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if held, ok := l.leases[key]; ok && now.Before(held.expires) {
		return "", ErrHeld
	}
	token := newToken()
	l.leases[key] = lease{token: token, expires: now.Add(ttl)}
	return token, nil
}

// Release frees key if token still owns it. Releasing an expired or stolen
// lease is a no-op.
func (l *MemoryLock) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if held, ok := l.leases[key]; ok && held.token == token {
		delete(l.leases, key)
	}
	return nil
}
