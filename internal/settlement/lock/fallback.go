package lock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"consortium/pkg/platform/circuit"
)

// FallbackLock prefers primary and routes to fallback while primary is
// failing. Report persistence rejects overlapping ranges on its own, so a
// degraded lock still cannot produce two reports for the same blocks.
type FallbackLock struct {
	primary  Locker
	fallback Locker
	breaker  *circuit.Breaker
	logger   *slog.Logger

	mu     sync.Mutex
	issued map[string]Locker
}

func NewFallback(primary, fallback Locker, breaker *circuit.Breaker, logger *slog.Logger) *FallbackLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackLock{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
		issued:   make(map[string]Locker),
	}
}

func (l *FallbackLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token, err := l.primary.Acquire(ctx, key, ttl)
	switch {
	case err == nil || errors.Is(err, ErrHeld):
		if usePrimary, change := l.breaker.RecordSuccess(); change.Closed {
			l.logger.InfoContext(ctx, "lock backend recovered", "breaker", l.breaker.Name())
		} else if !usePrimary && err == nil {
			// still degraded: keep serving from fallback, drop the probe lease
			_ = l.primary.Release(ctx, key, token)
			return l.acquireFallback(ctx, key, ttl)
		}
		if err != nil {
			return "", err
		}
		l.remember(token, l.primary)
		return token, nil
	case errors.Is(err, ErrUnavailable):
		useFallback, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "lock backend unavailable, using fallback", "breaker", l.breaker.Name(), "error", err)
		}
		if !useFallback {
			return "", err
		}
		return l.acquireFallback(ctx, key, ttl)
	default:
		return "", err
	}
}

func (l *FallbackLock) acquireFallback(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token, err := l.fallback.Acquire(ctx, key, ttl)
	if err != nil {
		return "", err
	}
	l.remember(token, l.fallback)
	return token, nil
}

// Release returns the lease to whichever backend issued it.
func (l *FallbackLock) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	backend, ok := l.issued[token]
	delete(l.issued, token)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	return backend.Release(ctx, key, token)
}

func (l *FallbackLock) remember(token string, backend Locker) {
	l.mu.Lock()
	l.issued[token] = backend
	l.mu.Unlock()
}
