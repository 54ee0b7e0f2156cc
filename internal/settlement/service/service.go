package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,StoreTx,RangeLocker,AuditPublisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"consortium/internal/settlement/lock"
	"consortium/internal/settlement/metrics"
	"consortium/internal/settlement/models"
	"consortium/internal/settlement/netting"
	"consortium/internal/settlement/store"
	dErrors "consortium/pkg/domain-errors"
	audit "consortium/pkg/platform/audit"
	"consortium/pkg/requestcontext"
)

// Store is the persistence the service needs for movements and reports.
type Store interface {
	GuardSettledRanges(ctx context.Context, mode store.GuardMode) error
	AppendMovement(ctx context.Context, movement models.CoinMovement) error
	ListMovements(ctx context.Context, r models.BlockRange) ([]models.CoinMovement, error)
	SaveReport(ctx context.Context, report *models.SettlementReport) error
	FindReportByID(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error)
	FindReportByRange(ctx context.Context, r models.BlockRange) (*models.SettlementReport, error)
	FindOverlappingReport(ctx context.Context, r models.BlockRange) (*models.SettlementReport, error)
	ListReports(ctx context.Context) ([]*models.SettlementReport, error)
}

// StoreTx runs fn atomically. The ctx handed to fn carries the transaction,
// so anything written through it commits or rolls back with fn.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// RangeLocker serializes report creation across instances.
type RangeLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	reportsLockKey = "settlement:reports"
	defaultLockTTL = 30 * time.Second
	tracerName     = "consortium/internal/settlement/service"
)

// Service orchestrates movement intake and settlement report creation
// around the pure netting engine.
type Service struct {
	store          Store
	tx             StoreTx
	locker         RangeLocker
	engine         *netting.Engine
	lockTTL        time.Duration
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithLockTTL bounds how long a crashed creator can block others.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func New(st Store, tx StoreTx, locker RangeLocker, opts ...Option) *Service {
	s := &Service{
		store:   st,
		tx:      tx,
		locker:  locker,
		engine:  netting.NewEngine(),
		lockTTL: defaultLockTTL,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReport nets every recorded movement in [from, to] and persists the
// resulting report. Ranges that overlap an existing report are refused, so
// no block is ever settled twice.
func (s *Service) CreateReport(ctx context.Context, from, to int64) (report *models.SettlementReport, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "settlement.CreateReport", trace.WithAttributes(
		attribute.Int64("from_block_height", from),
		attribute.Int64("to_block_height", to),
	))
	defer func() {
		s.metrics.ObserveCreateReport(start)
		s.endSpan(span, err)
		if err != nil {
			s.metrics.IncrementReportFailure(string(dErrors.CodeOf(err)))
			s.logger.WarnContext(ctx, "settlement report rejected",
				"from_block_height", from,
				"to_block_height", to,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			s.emit(ctx, audit.EventSettlementReportRejected, fmt.Sprintf("%d-%d", from, to), string(dErrors.CodeOf(err)))
		}
	}()

	blockRange, err := validRange(from, to)
	if err != nil {
		return nil, err
	}

	token, err := s.locker.Acquire(ctx, reportsLockKey, s.lockTTL)
	if err != nil {
		return nil, lockError(err)
	}
	defer func() {
		// release on a fresh context so a cancelled request still frees the lease
		if relErr := s.locker.Release(context.WithoutCancel(ctx), reportsLockKey, token); relErr != nil {
			s.logger.ErrorContext(ctx, "failed to release settlement lock", "error", relErr)
		}
	}()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, st Store) error {
		if err := st.GuardSettledRanges(ctx, store.GuardExclusive); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to guard settled ranges")
		}
		existing, err := st.FindOverlappingReport(ctx, blockRange)
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, fmt.Sprintf(
				"blocks %d-%d are already settled by report %s", existing.Range.From, existing.Range.To, existing.ID))
		case !errors.Is(err, store.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check settled ranges")
		}

		movements, err := st.ListMovements(ctx, blockRange)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movements")
		}

		report, err = s.engine.CreateReport(blockRange, movements)
		if err != nil {
			return err
		}
		report.ID = uuid.New()
		report.CreatedAt = requestcontext.Now(ctx)

		if err := st.SaveReport(ctx, report); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "range overlaps an existing report")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save report")
		}
		s.emit(ctx, audit.EventSettlementReportCreated, report.ID.String(), "")
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "failed to create report")
	}

	volume := report.TotalWireVolume()
	s.metrics.ObserveReport(len(report.WireEntries), len(report.NetEntries), volume)
	span.SetAttributes(
		attribute.String("report_id", report.ID.String()),
		attribute.Int("wire_count", len(report.WireEntries)),
	)
	s.logger.InfoContext(ctx, "settlement report created",
		"report_id", report.ID,
		"from_block_height", from,
		"to_block_height", to,
		"member_count", len(report.NetEntries),
		"wire_count", len(report.WireEntries),
		"wire_volume", volume,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return report, nil
}

// PreviewReport computes the report for [from, to] without locking or
// persisting it. The result has no ID.
func (s *Service) PreviewReport(ctx context.Context, from, to int64) (report *models.SettlementReport, err error) {
	ctx, span := s.tracer.Start(ctx, "settlement.PreviewReport", trace.WithAttributes(
		attribute.Int64("from_block_height", from),
		attribute.Int64("to_block_height", to),
	))
	defer func() { s.endSpan(span, err) }()

	blockRange, err := validRange(from, to)
	if err != nil {
		return nil, err
	}
	movements, err := s.store.ListMovements(ctx, blockRange)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movements")
	}
	report, err = s.engine.CreateReport(blockRange, movements)
	if err != nil {
		return nil, err
	}
	report.CreatedAt = requestcontext.Now(ctx)
	s.emit(ctx, audit.EventSettlementPreviewed, fmt.Sprintf("%d-%d", from, to), "")
	return report, nil
}

func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error) {
	report, err := s.store.FindReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "settlement report not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return report, nil
}

// FindReportByRange returns the report covering exactly [from, to].
func (s *Service) FindReportByRange(ctx context.Context, from, to int64) (*models.SettlementReport, error) {
	blockRange, err := validRange(from, to)
	if err != nil {
		return nil, err
	}
	report, err := s.store.FindReportByRange(ctx, blockRange)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no settlement report for that range")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return report, nil
}

// ListReports returns summaries of every report, ordered by range start.
func (s *Service) ListReports(ctx context.Context) ([]models.ReportSummary, error) {
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	summaries := make([]models.ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, r.Summary())
	}
	return summaries, nil
}

// RecordMovement validates and stores one movement. A movement whose block
// already belongs to a settled report is refused: accepting it would leave
// value that no report will ever net.
func (s *Service) RecordMovement(ctx context.Context, m models.CoinMovement) error {
	movement, err := models.NewCoinMovement(m.FromMemberID, m.ToMemberID, m.BlockHeight, m.Amount)
	if err != nil {
		s.metrics.IncrementMovementRejected(string(dErrors.CodeOf(err)))
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, st Store) error {
		// a report being created for this block holds the guard until it commits
		if err := st.GuardSettledRanges(ctx, store.GuardShared); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to guard settled ranges")
		}
		settled, err := st.FindOverlappingReport(ctx, models.BlockRange{From: movement.BlockHeight, To: movement.BlockHeight})
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, fmt.Sprintf(
				"block %d is already settled by report %s", movement.BlockHeight, settled.ID))
		case !errors.Is(err, store.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check settled ranges")
		}
		if err := st.AppendMovement(ctx, movement); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record movement")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncrementMovementRejected(string(dErrors.CodeOf(err)))
		return asDomainError(err, "failed to record movement")
	}
	s.metrics.IncrementMovementRecorded()
	return nil
}

func validRange(from, to int64) (models.BlockRange, error) {
	r, err := models.NewBlockRange(from, to)
	if err != nil {
		return models.BlockRange{}, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return r, nil
}

func lockError(err error) error {
	switch {
	case errors.Is(err, lock.ErrHeld):
		return dErrors.New(dErrors.CodeConflict, "another settlement report is being created")
	case errors.Is(err, lock.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "settlement lock unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire settlement lock")
	}
}

// asDomainError passes coded errors through and wraps anything else as internal.
func asDomainError(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, subject, reason string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Subject:   subject,
		Action:    string(event),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.OperatorID(ctx),
		Timestamp: requestcontext.Now(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "action", string(event), "error", err)
	}
}
