package service

import (
	"context"
	"sync"
	"time"

	dErrors "consortium/pkg/domain-errors"
)

// defaultTxTimeout is the maximum duration for a settlement transaction.
const defaultTxTimeout = 5 * time.Second

// lockingTx gives an in-memory Store the same atomic boundary a database
// transaction gives the Postgres store: one writer at a time, with the
// overlap check and the save inside the same critical section.
type lockingTx struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
}

// NewLockingTx wraps store in a process-wide mutex.
func NewLockingTx(store Store, timeout time.Duration) StoreTx {
	return &lockingTx{store: store, timeout: timeout}
}

func (t *lockingTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx, t.store)
}
