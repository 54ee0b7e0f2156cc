package worker

import (
	"context"
	"log/slog"

	audit "consortium/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. Run returns
// once the inbox is closed and drained, so closing the channel is the
// shutdown signal.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run persists events until the inbox closes. Store failures are logged and
// the event dropped; audit emission must never block settlement.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
	}
}
