// Package lock provides the short-lived mutual exclusion that keeps two
// report creations from settling the same blocks at once.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"consortium/pkg/platform/sentinel"
)

// ErrHeld is returned by Acquire when another holder owns the key.
var ErrHeld = sentinel.ErrAlreadyUsed

// ErrUnavailable is returned when the lock backend cannot be reached.
var ErrUnavailable = sentinel.ErrUnavailable

func newToken() string {
	return uuid.NewString()
}

// Locker is satisfied by every backend in this package.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}
