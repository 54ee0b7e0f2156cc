package lock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consortium/pkg/platform/circuit"
)

// flakyLock fails with ErrUnavailable while down is set.
type flakyLock struct {
	*MemoryLock
	down     bool
	released int
}

func (f *flakyLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.down {
		return "", fmt.Errorf("%w: connection refused", ErrUnavailable)
	}
	return f.MemoryLock.Acquire(ctx, key, ttl)
}

func (f *flakyLock) Release(ctx context.Context, key, token string) error {
	f.released++
	return f.MemoryLock.Release(ctx, key, token)
}

func TestFallbackLock(t *testing.T) {
	ctx := context.Background()
	primary := &flakyLock{MemoryLock: NewMemory()}
	fallback := NewMemory()
	breaker := circuit.New("lock", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	l := NewFallback(primary, fallback, breaker, nil)

	t.Run("healthy primary", func(t *testing.T) {
		token, err := l.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)
		_, err = primary.MemoryLock.Acquire(ctx, "k", time.Minute)
		assert.ErrorIs(t, err, ErrHeld, "lease should live in primary")
		require.NoError(t, l.Release(ctx, "k", token))
	})

	t.Run("failures below threshold surface", func(t *testing.T) {
		primary.down = true
		_, err := l.Acquire(ctx, "k", time.Minute)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.False(t, breaker.IsOpen())
	})

	t.Run("open breaker routes to fallback", func(t *testing.T) {
		token, err := l.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, breaker.IsOpen())

		_, err = fallback.Acquire(ctx, "k", time.Minute)
		assert.ErrorIs(t, err, ErrHeld, "lease should live in fallback")
		require.NoError(t, l.Release(ctx, "k", token))
		_, err = fallback.Acquire(ctx, "k", time.Minute)
		assert.NoError(t, err)
	})

	t.Run("recovery closes breaker", func(t *testing.T) {
		primary.down = false
		token, err := l.Acquire(ctx, "recovered", time.Minute)
		require.NoError(t, err)
		assert.False(t, breaker.IsOpen())
		require.NoError(t, l.Release(ctx, "recovered", token))
	})

	t.Run("unknown token release is a no-op", func(t *testing.T) {
		before := primary.released
		assert.NoError(t, l.Release(ctx, "k", "nope"))
		assert.Equal(t, before, primary.released)
	})
}
