package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"consortium/internal/settlement/models"
	txcontext "consortium/pkg/platform/tx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	// settledRangesLockKey is the advisory lock id behind GuardSettledRanges.
	settledRangesLockKey int64 = 0x5e771e
)

// PostgresStore persists movements and reports in PostgreSQL. Every method
// runs inside the transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables used by the settlement and audit stores.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// GuardSettledRanges takes a transaction-scoped advisory lock that is
// released at commit or rollback. Without a transaction in ctx it is
// refused, since the lock would end with the statement.
func (s *PostgresStore) GuardSettledRanges(ctx context.Context, mode GuardMode) error {
	tx, ok := txcontext.From(ctx)
	if !ok {
		return fmt.Errorf("guard settled ranges (%s): no transaction in context", mode)
	}
	query := `SELECT pg_advisory_xact_lock_shared($1)`
	if mode == GuardExclusive {
		query = `SELECT pg_advisory_xact_lock($1)`
	}
	if _, err := tx.ExecContext(ctx, query, settledRangesLockKey); err != nil {
		return fmt.Errorf("guard settled ranges (%s): %w", mode, err)
	}
	return nil
}

func (s *PostgresStore) AppendMovement(ctx context.Context, movement models.CoinMovement) error {
	_, err := txcontext.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO coin_movements (from_member_id, to_member_id, block_height, amount)
		VALUES ($1, $2, $3, $4)
	`, string(movement.FromMemberID), string(movement.ToMemberID), movement.BlockHeight, movement.Amount)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMovements(ctx context.Context, r models.BlockRange) ([]models.CoinMovement, error) {
	rows, err := txcontext.QuerierFrom(ctx, s.db).QueryContext(ctx, `
		SELECT from_member_id, to_member_id, block_height, amount
		FROM coin_movements
		WHERE block_height BETWEEN $1 AND $2
		ORDER BY id
	`, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var movements []models.CoinMovement
	for rows.Next() {
		var m models.CoinMovement
		if err := rows.Scan(&m.FromMemberID, &m.ToMemberID, &m.BlockHeight, &m.Amount); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return movements, nil
}

// SaveReport writes the report header and its entries. The overlap exclusion
// constraint surfaces as ErrConflict.
func (s *PostgresStore) SaveReport(ctx context.Context, report *models.SettlementReport) error {
	q := txcontext.QuerierFrom(ctx, s.db)

	_, err := q.ExecContext(ctx, `
		INSERT INTO settlement_reports (id, from_block_height, to_block_height, created_at)
		VALUES ($1, $2, $3, $4)
	`, report.ID, report.Range.From, report.Range.To, report.CreatedAt)
	if err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert report: %w", err)
	}

	if len(report.NetEntries) > 0 {
		members := make([]string, len(report.NetEntries))
		amounts := make([]int64, len(report.NetEntries))
		for i, e := range report.NetEntries {
			members[i] = string(e.MemberID)
			amounts[i] = e.Amount
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO settlement_net_entries (report_id, member_id, amount)
			SELECT $1, m, a FROM unnest($2::text[], $3::bigint[]) AS t(m, a)
		`, report.ID, pq.Array(members), pq.Array(amounts))
		if err != nil {
			return fmt.Errorf("insert net entries: %w", err)
		}
	}

	if len(report.WireEntries) > 0 {
		seqs := make([]int64, len(report.WireEntries))
		from := make([]string, len(report.WireEntries))
		to := make([]string, len(report.WireEntries))
		amounts := make([]int64, len(report.WireEntries))
		for i, w := range report.WireEntries {
			seqs[i] = int64(i)
			from[i] = string(w.FromMemberID)
			to[i] = string(w.ToMemberID)
			amounts[i] = w.Amount
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO settlement_wire_entries (report_id, seq, from_member_id, to_member_id, amount)
			SELECT $1, s, f, t, a FROM unnest($2::int[], $3::text[], $4::text[], $5::bigint[]) AS w(s, f, t, a)
		`, report.ID, pq.Array(seqs), pq.Array(from), pq.Array(to), pq.Array(amounts))
		if err != nil {
			return fmt.Errorf("insert wire entries: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindReportByID(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error) {
	return s.findOne(ctx, `
		SELECT id, from_block_height, to_block_height, created_at
		FROM settlement_reports WHERE id = $1
	`, id)
}

func (s *PostgresStore) FindReportByRange(ctx context.Context, r models.BlockRange) (*models.SettlementReport, error) {
	return s.findOne(ctx, `
		SELECT id, from_block_height, to_block_height, created_at
		FROM settlement_reports WHERE from_block_height = $1 AND to_block_height = $2
	`, r.From, r.To)
}

func (s *PostgresStore) FindOverlappingReport(ctx context.Context, r models.BlockRange) (*models.SettlementReport, error) {
	return s.findOne(ctx, `
		SELECT id, from_block_height, to_block_height, created_at
		FROM settlement_reports
		WHERE from_block_height <= $2 AND to_block_height >= $1
		ORDER BY from_block_height
		LIMIT 1
	`, r.From, r.To)
}

func (s *PostgresStore) ListReports(ctx context.Context) ([]*models.SettlementReport, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, from_block_height, to_block_height, created_at
		FROM settlement_reports
		ORDER BY from_block_height
	`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	var reports []*models.SettlementReport
	for rows.Next() {
		report := &models.SettlementReport{}
		if err := rows.Scan(&report.ID, &report.Range.From, &report.Range.To, &report.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	for _, report := range reports {
		if err := s.loadEntries(ctx, q, report); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*models.SettlementReport, error) {
	q := txcontext.QuerierFrom(ctx, s.db)
	report := &models.SettlementReport{}
	err := q.QueryRowContext(ctx, query, args...).
		Scan(&report.ID, &report.Range.From, &report.Range.To, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	if err := s.loadEntries(ctx, q, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *PostgresStore) loadEntries(ctx context.Context, q txcontext.Querier, report *models.SettlementReport) error {
	report.NetEntries = []models.NetEntry{}
	report.WireEntries = []models.WireEntry{}

	rows, err := q.QueryContext(ctx, `
		SELECT member_id, amount FROM settlement_net_entries
		WHERE report_id = $1 ORDER BY member_id COLLATE "C"
	`, report.ID)
	if err != nil {
		return fmt.Errorf("query net entries: %w", err)
	}
	for rows.Next() {
		var e models.NetEntry
		if err := rows.Scan(&e.MemberID, &e.Amount); err != nil {
			rows.Close()
			return fmt.Errorf("scan net entry: %w", err)
		}
		report.NetEntries = append(report.NetEntries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate net entries: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT from_member_id, to_member_id, amount FROM settlement_wire_entries
		WHERE report_id = $1 ORDER BY seq
	`, report.ID)
	if err != nil {
		return fmt.Errorf("query wire entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w models.WireEntry
		if err := rows.Scan(&w.FromMemberID, &w.ToMemberID, &w.Amount); err != nil {
			return fmt.Errorf("scan wire entry: %w", err)
		}
		report.WireEntries = append(report.WireEntries, w)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate wire entries: %w", err)
	}
	return nil
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation || pgErr.Code == pgExclusionViolation
	}
	return false
}
