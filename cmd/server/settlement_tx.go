package main

import (
	"context"
	"database/sql"
	"time"

	settlementservice "consortium/internal/settlement/service"
	dErrors "consortium/pkg/domain-errors"
	txcontext "consortium/pkg/platform/tx"
)

const defaultSettlementTxTimeout = 5 * time.Second

// settlementPostgresTx runs service work in one Postgres transaction. The tx
// rides in the context so the audit outbox commits with the report.
type settlementPostgresTx struct {
	db      *sql.DB
	store   settlementservice.Store
	timeout time.Duration
}

func newSettlementPostgresTx(db *sql.DB, store settlementservice.Store, timeout time.Duration) *settlementPostgresTx {
	return &settlementPostgresTx{db: db, store: store, timeout: timeout}
}

func (t *settlementPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store settlementservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultSettlementTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), t.store); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	return nil
}
