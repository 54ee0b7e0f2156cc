package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consortium/internal/settlement/lock"
	"consortium/internal/settlement/models"
	"consortium/internal/settlement/service"
	"consortium/internal/settlement/store"
	dErrors "consortium/pkg/domain-errors"
	"consortium/pkg/platform/audit/publisher"
	auditmemory "consortium/pkg/platform/audit/store/memory"
)

func newMemoryService(t *testing.T) (*service.Service, *auditmemory.InMemoryStore) {
	t.Helper()
	st := store.NewInMemory()
	auditStore := auditmemory.NewInMemoryStore()
	svc := service.New(st, service.NewLockingTx(st, 0), lock.NewMemory(),
		service.WithAuditPublisher(publisher.NewPublisher(auditStore)),
	)
	return svc, auditStore
}

func TestService_RecordThenSettle(t *testing.T) {
	ctx := context.Background()
	svc, auditStore := newMemoryService(t)

	for _, m := range []models.CoinMovement{
		mv("bank1", "bank5", 1, 80000),
		mv("bank1", "bank4", 2, 20000),
		mv("bank2", "bank3", 3, 20000),
		mv("bank3", "bank4", 4, 20000),
		mv("bank9", "bank1", 5, 1),
	} {
		require.NoError(t, svc.RecordMovement(ctx, m))
	}

	report, err := svc.CreateReport(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []models.WireEntry{
		{FromMemberID: "bank1", ToMemberID: "bank5", Amount: 80000},
		{FromMemberID: "bank1", ToMemberID: "bank4", Amount: 20000},
		{FromMemberID: "bank2", ToMemberID: "bank4", Amount: 20000},
	}, report.WireEntries)

	stored, err := svc.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.WireEntries, stored.WireEntries)

	byRange, err := svc.FindReportByRange(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, report.ID, byRange.ID)

	events, err := auditStore.ListBySubject(ctx, report.ID.String())
	require.NoError(t, err)
	require.Len(t, events, 1)

	// block 3 is now settled
	err = svc.RecordMovement(ctx, mv("bank1", "bank2", 3, 10))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = svc.CreateReport(ctx, 4, 8)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	next, err := svc.CreateReport(ctx, 5, 8)
	require.NoError(t, err)
	assert.Len(t, next.WireEntries, 1)

	summaries, err := svc.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(1), summaries[0].Range.From)
	assert.Equal(t, int64(5), summaries[1].Range.From)
}

func TestService_EmptyRangeSettlesToEmptyReport(t *testing.T) {
	svc, _ := newMemoryService(t)
	report, err := svc.CreateReport(context.Background(), 100, 200)
	require.NoError(t, err)
	assert.Empty(t, report.NetEntries)
	assert.Empty(t, report.WireEntries)
}

func TestService_ConcurrentCreatesSettleOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)
	for h := int64(1); h <= 50; h++ {
		require.NoError(t, svc.RecordMovement(ctx, mv("bank1", "bank2", h, h)))
	}

	const goroutines = 25
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := range goroutines {
		wg.Add(1)
		go func(offset int64) {
			defer wg.Done()
			_, err := svc.CreateReport(ctx, 1+offset%5, 50)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(goroutines-1), conflicts.Load())

	summaries, err := svc.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
