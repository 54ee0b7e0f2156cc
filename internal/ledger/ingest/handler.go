package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"consortium/internal/platform/kafka/consumer"
	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
	"consortium/pkg/platform/audit"
)

// MovementRecorder persists validated movements.
type MovementRecorder interface {
	RecordMovement(ctx context.Context, movement models.CoinMovement) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// MovementHandler turns consumed records into recorded movements. Records
// that can never succeed are skipped so one bad event does not block the
// partition; anything else is returned so the consumer retries it.
type MovementHandler struct {
	recorder  MovementRecorder
	publisher AuditPublisher
	logger    *slog.Logger
}

func NewMovementHandler(recorder MovementRecorder, publisher AuditPublisher, logger *slog.Logger) *MovementHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovementHandler{
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *MovementHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var event MovementEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.skip(ctx, msg, "malformed json", err)
		return nil
	}

	movement, err := event.ToMovement()
	if err != nil {
		h.skip(ctx, msg, string(dErrors.CodeOf(err)), err)
		return nil
	}

	if err := h.recorder.RecordMovement(ctx, movement); err != nil {
		if permanent(err) {
			h.skip(ctx, msg, string(dErrors.CodeOf(err)), err)
			return nil
		}
		return err
	}

	h.logger.DebugContext(ctx, "coin movement recorded",
		"block_height", movement.BlockHeight,
		"from_member_id", movement.FromMemberID,
		"to_member_id", movement.ToMemberID,
	)
	return nil
}

// permanent reports whether redelivering the movement would fail the same way.
func permanent(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeInvalidMovementAmount, dErrors.CodeInvariantViolation, dErrors.CodeConflict:
		return true
	default:
		return false
	}
}

func (h *MovementHandler) skip(ctx context.Context, msg *consumer.Message, reason string, err error) {
	position := fmt.Sprintf("%s/%d@%d", msg.Topic, msg.Partition, msg.Offset)
	h.logger.WarnContext(ctx, "skipping coin movement",
		"position", position,
		"reason", reason,
		"error", err,
	)
	if h.publisher == nil {
		return
	}
	if emitErr := h.publisher.Emit(ctx, audit.Event{
		Subject:  position,
		Action:   string(audit.EventMovementRejected),
		Decision: "rejected",
		Reason:   err.Error(),
	}); emitErr != nil {
		h.logger.ErrorContext(ctx, "failed to audit rejected movement",
			"position", position,
			"error", emitErr,
		)
	}
}
