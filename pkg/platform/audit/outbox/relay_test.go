package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeSource struct {
	pending   []Entry
	published []uuid.UUID
	fetchErr  error
}

func (f *fakeSource) FetchPending(_ context.Context, limit int) ([]Entry, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	n := min(limit, len(f.pending))
	return f.pending[:n], nil
}

func (f *fakeSource) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	f.published = append(f.published, ids...)
	f.pending = f.pending[len(ids):]
	return nil
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if f.err == nil {
			f.records = append(f.records, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{
			ID:            uuid.New(),
			AggregateType: "compliance",
			AggregateID:   "report-1",
			EventType:     "settlement_report_created",
			Payload:       []byte(`{}`),
		}
	}
	return out
}

func TestRelayOnce_PublishesAndMarks(t *testing.T) {
	source := &fakeSource{pending: entries(3)}
	producer := &fakeProducer{}
	var relayed int
	relay := NewRelay(source, NewKafkaSink(producer, "audit"),
		WithBatchSize(2),
		WithOnRelayed(func(n int) { relayed += n }),
	)

	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, source.published, 2)
	require.Len(t, producer.records, 2)
	assert.Equal(t, "audit", producer.records[0].Topic)
	assert.Equal(t, []byte("report-1"), producer.records[0].Key)

	n, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 3, relayed)
}

func TestRelayOnce_SinkFailureLeavesEntriesPending(t *testing.T) {
	source := &fakeSource{pending: entries(2)}
	producer := &fakeProducer{err: errors.New("broker down")}
	relay := NewRelay(source, NewKafkaSink(producer, "audit"))

	_, err := relay.RelayOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, source.published)
	assert.Len(t, source.pending, 2)
}

func TestRelayOnce_FetchFailure(t *testing.T) {
	relay := NewRelay(&fakeSource{fetchErr: errors.New("db gone")}, NewKafkaSink(&fakeProducer{}, "audit"))
	_, err := relay.RelayOnce(context.Background())
	assert.ErrorContains(t, err, "db gone")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	relay := NewRelay(&fakeSource{}, NewKafkaSink(&fakeProducer{}, "audit"))
	assert.NoError(t, relay.Run(ctx))
}

type txMarker struct{}

// fakeTransactor marks the ctx it hands out so the source can check that a
// whole cycle shares one transaction.
type fakeTransactor struct {
	runs int
}

func (f *fakeTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.runs++
	return fn(context.WithValue(ctx, txMarker{}, f.runs))
}

type txCheckingSource struct {
	fakeSource
	fetchTx, markTx any
}

func (s *txCheckingSource) FetchPending(ctx context.Context, limit int) ([]Entry, error) {
	s.fetchTx = ctx.Value(txMarker{})
	return s.fakeSource.FetchPending(ctx, limit)
}

func (s *txCheckingSource) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	s.markTx = ctx.Value(txMarker{})
	return s.fakeSource.MarkPublished(ctx, ids)
}

func TestRelayOnce_WithTransactorSharesOneTransaction(t *testing.T) {
	source := &txCheckingSource{fakeSource: fakeSource{pending: entries(2)}}
	tx := &fakeTransactor{}
	var relayed int
	relay := NewRelay(source, NewKafkaSink(&fakeProducer{}, "audit"),
		WithTransactor(tx),
		WithOnRelayed(func(n int) { relayed += n }),
	)

	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, tx.runs)
	assert.Equal(t, 1, source.fetchTx)
	assert.Equal(t, 1, source.markTx)
	assert.Equal(t, 2, relayed)
}

func TestRelayOnce_WithTransactorSinkFailure(t *testing.T) {
	source := &txCheckingSource{fakeSource: fakeSource{pending: entries(1)}}
	var relayed int
	relay := NewRelay(source, NewKafkaSink(&fakeProducer{err: errors.New("broker down")}, "audit"),
		WithTransactor(&fakeTransactor{}),
		WithOnRelayed(func(n int) { relayed += n }),
	)

	_, err := relay.RelayOnce(context.Background())
	require.ErrorContains(t, err, "broker down")
	assert.Nil(t, source.markTx)
	assert.Zero(t, relayed)
}
