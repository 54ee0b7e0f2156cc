// Package outbox relays committed audit outbox rows to Kafka.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

type Source interface {
	FetchPending(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Transactor runs fn in one transaction carried by the ctx it is handed.
// Sources that lock fetched rows until commit use it to keep several relays
// from claiming the same entries.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Sink interface {
	Publish(ctx context.Context, entries []Entry) error
}

// Relay polls Source and forwards entries to Sink. Entries are marked
// published only after the sink acknowledges them, so delivery is
// at-least-once.
type Relay struct {
	source    Source
	sink      Sink
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	onRelayed func(n int)
	tx        Transactor
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) { r.interval = d }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) { r.batchSize = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

// WithTransactor runs each fetch, publish and mark cycle in one transaction.
func WithTransactor(tx Transactor) Option {
	return func(r *Relay) { r.tx = tx }
}

// WithOnRelayed registers a callback run after each published batch.
func WithOnRelayed(fn func(n int)) Option {
	return func(r *Relay) { r.onRelayed = fn }
}

func NewRelay(source Source, sink Sink, opts ...Option) *Relay {
	r := &Relay{
		source:    source,
		sink:      sink,
		interval:  time.Second,
		batchSize: 100,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce forwards one batch and reports how many entries were published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var n int
	relay := func(ctx context.Context) error {
		var err error
		n, err = r.relayBatch(ctx)
		return err
	}

	var err error
	if r.tx != nil {
		err = r.tx.RunInTx(ctx, relay)
	} else {
		err = relay(ctx)
	}
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.DebugContext(ctx, "outbox entries relayed", "count", n)
		if r.onRelayed != nil {
			r.onRelayed(n)
		}
	}
	return n, nil
}

func (r *Relay) relayBatch(ctx context.Context) (int, error) {
	entries, err := r.source.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := r.sink.Publish(ctx, entries); err != nil {
		return 0, fmt.Errorf("publish: %w", err)
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := r.source.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}
	return len(entries), nil
}

// Producer is the subset of *kgo.Client the Kafka sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

// Publish keys each record by aggregate ID so events for one subject stay
// on one partition.
func (s *KafkaSink) Publish(ctx context.Context, entries []Entry) error {
	records := make([]*kgo.Record, len(entries))
	for i, e := range entries {
		records[i] = &kgo.Record{
			Topic: s.topic,
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(e.EventType)},
				{Key: "category", Value: []byte(e.AggregateType)},
			},
		}
	}
	return s.producer.ProduceSync(ctx, records...).FirstErr()
}
