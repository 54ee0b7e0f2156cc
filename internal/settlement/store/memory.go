package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"consortium/internal/settlement/models"

	"github.com/google/uuid"
)

// InMemoryStore keeps movements and reports in process memory. It backs
// local runs and unit tests; all methods are safe for concurrent use.
type InMemoryStore struct {
	mu        sync.RWMutex
	movements []models.CoinMovement
	reports   map[uuid.UUID]*models.SettlementReport
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{reports: make(map[uuid.UUID]*models.SettlementReport)}
}

// GuardSettledRanges is a no-op: in-memory transactions already run one at
// a time.
func (s *InMemoryStore) GuardSettledRanges(context.Context, GuardMode) error {
	return nil
}

func (s *InMemoryStore) AppendMovement(_ context.Context, movement models.CoinMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, movement)
	return nil
}

// ListMovements returns movements with block heights inside r, in insertion order.
func (s *InMemoryStore) ListMovements(_ context.Context, r models.BlockRange) ([]models.CoinMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CoinMovement
	for _, m := range s.movements {
		if r.Contains(m.BlockHeight) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SaveReport stores report, rejecting it with ErrConflict when its range
// overlaps an existing report.
func (s *InMemoryStore) SaveReport(_ context.Context, report *models.SettlementReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; exists {
		return ErrConflict
	}
	for _, existing := range s.reports {
		if existing.Range.Overlaps(report.Range) {
			return ErrConflict
		}
	}
	s.reports[report.ID] = cloneReport(report)
	return nil
}

func (s *InMemoryStore) FindReportByID(_ context.Context, id uuid.UUID) (*models.SettlementReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneReport(report), nil
}

func (s *InMemoryStore) FindReportByRange(_ context.Context, r models.BlockRange) (*models.SettlementReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, report := range s.reports {
		if report.Range == r {
			return cloneReport(report), nil
		}
	}
	return nil, ErrNotFound
}

// FindOverlappingReport returns the earliest-starting report sharing a block with r.
func (s *InMemoryStore) FindOverlappingReport(_ context.Context, r models.BlockRange) (*models.SettlementReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.SettlementReport
	for _, report := range s.reports {
		if report.Range.Overlaps(r) && (found == nil || report.Range.From < found.Range.From) {
			found = report
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return cloneReport(found), nil
}

// ListReports returns reports ordered by range start.
func (s *InMemoryStore) ListReports(_ context.Context) ([]*models.SettlementReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SettlementReport, 0, len(s.reports))
	for _, report := range s.reports {
		out = append(out, cloneReport(report))
	}
	slices.SortFunc(out, func(a, b *models.SettlementReport) int {
		return cmp.Compare(a.Range.From, b.Range.From)
	})
	return out, nil
}

func cloneReport(r *models.SettlementReport) *models.SettlementReport {
	c := *r
	c.NetEntries = slices.Clone(r.NetEntries)
	c.WireEntries = slices.Clone(r.WireEntries)
	return &c
}
