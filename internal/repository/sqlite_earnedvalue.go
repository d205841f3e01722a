package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
)

const snapshotColumns = `id, project_id, baseline_id, as_of_date, bac, pv, ev, ac,
		cpi, spi, eac, etc_value, vac, created_at, updated_at`

// SQLiteEarnedValueRepo implements EarnedValueRepo using a SQLite database.
type SQLiteEarnedValueRepo struct {
	db db.DBTX
}

// NewSQLiteEarnedValueRepo creates a new SQLiteEarnedValueRepo.
func NewSQLiteEarnedValueRepo(conn db.DBTX) *SQLiteEarnedValueRepo {
	return &SQLiteEarnedValueRepo{db: conn}
}

func (r *SQLiteEarnedValueRepo) Upsert(ctx context.Context, s *domain.EarnedValueSnapshot) error {
	query := `INSERT INTO earned_value_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, as_of_date) DO UPDATE SET
			baseline_id = excluded.baseline_id,
			bac = excluded.bac, pv = excluded.pv, ev = excluded.ev, ac = excluded.ac,
			cpi = excluded.cpi, spi = excluded.spi, eac = excluded.eac,
			etc_value = excluded.etc_value, vac = excluded.vac,
			updated_at = excluded.updated_at
		RETURNING id, created_at`
	var id, createdAt string
	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.ProjectID,
		nullableString(s.BaselineID),
		s.AsOfDate.Format(dateLayout),
		s.BAC, s.PV, s.EV, s.AC,
		nullableFloat(s.CPI),
		nullableFloat(s.SPI),
		nullableFloat(s.EAC),
		nullableFloat(s.ETC),
		nullableFloat(s.VAC),
		s.CreatedAt.UTC().Format(timeLayout),
		s.UpdatedAt.UTC().Format(timeLayout),
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("upserting earned value snapshot: %w", err)
	}
	s.ID = id
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	return nil
}

func (r *SQLiteEarnedValueRepo) GetByDate(ctx context.Context, projectID string, asOf time.Time) (*domain.EarnedValueSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM earned_value_snapshots
		WHERE project_id = ? AND as_of_date = ?`
	s, err := scanSnapshot(r.db.QueryRowContext(ctx, query, projectID, asOf.Format(dateLayout)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("earned value snapshot %s@%s: %w", projectID, asOf.Format(dateLayout), ErrNotFound)
	}
	return s, err
}

func (r *SQLiteEarnedValueRepo) ListByProject(ctx context.Context, projectID string, from, to *time.Time) ([]*domain.EarnedValueSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM earned_value_snapshots WHERE project_id = ?`
	args := []any{projectID}
	if from != nil {
		query += ` AND as_of_date >= ?`
		args = append(args, from.Format(dateLayout))
	}
	if to != nil {
		query += ` AND as_of_date <= ?`
		args = append(args, to.Format(dateLayout))
	}
	query += ` ORDER BY as_of_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing earned value snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.EarnedValueSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating earned value snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshot(sc rowScanner) (*domain.EarnedValueSnapshot, error) {
	var s domain.EarnedValueSnapshot
	var baselineID sql.NullString
	var asOf, createdAt, updatedAt string
	var cpi, spi, eac, etc, vac sql.NullFloat64
	err := sc.Scan(&s.ID, &s.ProjectID, &baselineID, &asOf, &s.BAC, &s.PV, &s.EV, &s.AC,
		&cpi, &spi, &eac, &etc, &vac, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning earned value snapshot: %w", err)
	}
	s.BaselineID = stringPtr(baselineID)
	s.CPI, s.SPI, s.EAC, s.ETC, s.VAC = floatPtr(cpi), floatPtr(spi), floatPtr(eac), floatPtr(etc), floatPtr(vac)
	if s.AsOfDate, err = time.Parse(dateLayout, asOf); err != nil {
		return nil, fmt.Errorf("parsing as_of_date: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
