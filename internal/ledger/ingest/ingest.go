package ingest

import (
	"log/slog"

	"consortium/internal/platform/kafka/consumer"
)

// NewConsumer wires a MovementHandler onto a group client.
func NewConsumer(client consumer.Client, recorder MovementRecorder, publisher AuditPublisher, logger *slog.Logger) *consumer.Consumer {
	return consumer.New(client,
		NewMovementHandler(recorder, publisher, logger),
		consumer.WithLogger(logger),
	)
}
