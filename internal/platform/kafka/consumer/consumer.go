// Package consumer runs a handler over records from a Kafka consumer group
// with explicit commits.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of one consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. A nil return marks it done; an error leaves
// it uncommitted and the consumer retries it with backoff.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Client is the subset of *kgo.Client the consumer uses.
type Client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
}

const (
	defaultRetryInitial = 100 * time.Millisecond
	defaultRetryMax     = 10 * time.Second
)

type Consumer struct {
	client       Client
	handler      Handler
	logger       *slog.Logger
	retryInitial time.Duration
	retryMax     time.Duration
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) { c.logger = logger }
}

// WithRetryBackoff sets the first and the largest delay between attempts at a
// failing message. The delay doubles after each failure.
func WithRetryBackoff(initial, max time.Duration) Option {
	return func(c *Consumer) {
		c.retryInitial = initial
		c.retryMax = max
	}
}

func New(client Client, handler Handler, opts ...Option) *Consumer {
	c := &Consumer{
		client:       client,
		handler:      handler,
		logger:       slog.Default(),
		retryInitial: defaultRetryInitial,
		retryMax:     defaultRetryMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled or the client is closed. Each poll batch
// is committed once every record in it is handled. A failing record is
// retried in place, so records behind it on the partition wait for it.
// Cancellation during a retry commits the records handled before it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		if err := c.handleBatch(ctx, fetches.Records()); err != nil {
			return err
		}
	}
}

func (c *Consumer) handleBatch(ctx context.Context, records []*kgo.Record) error {
	if len(records) == 0 {
		return nil
	}

	handled := make([]*kgo.Record, 0, len(records))
	for _, rec := range records {
		if !c.handleWithRetry(ctx, rec) {
			break
		}
		handled = append(handled, rec)
	}

	if len(handled) == 0 {
		return nil
	}
	// offsets of handled records are committed even when shutdown interrupted the batch
	if err := c.client.CommitRecords(context.WithoutCancel(ctx), handled...); err != nil {
		return fmt.Errorf("commit offsets: %w", err)
	}
	c.logger.DebugContext(ctx, "committed kafka batch", "records", len(handled))
	return nil
}

// handleWithRetry reports whether rec was handled. It only gives up when ctx
// is done.
func (c *Consumer) handleWithRetry(ctx context.Context, rec *kgo.Record) bool {
	delay := c.retryInitial
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(ctx, toMessage(rec))
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		c.logger.WarnContext(ctx, "kafka handler failed, retrying",
			"topic", rec.Topic,
			"partition", rec.Partition,
			"offset", rec.Offset,
			"attempt", attempt,
			"retry_in_ms", delay.Milliseconds(),
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		delay = min(delay*2, c.retryMax)
	}
}

func toMessage(rec *kgo.Record) *Message {
	msg := &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Timestamp: rec.Timestamp,
	}
	if len(rec.Headers) > 0 {
		msg.Headers = make(map[string]string, len(rec.Headers))
		for _, h := range rec.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg
}
