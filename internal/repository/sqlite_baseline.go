package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
)

const baselineColumns = `id, organization_id, project_id, name, locked, is_active, created_by, created_at`

const baselineItemColumns = `id, baseline_id, task_id, position, planned_start, planned_end,
		duration_minutes, is_critical, float_minutes`

// SQLiteBaselineRepo implements BaselineRepo using a SQLite database.
// Immutability and the single-active rule are enforced by the schema.
type SQLiteBaselineRepo struct {
	db db.DBTX
}

// NewSQLiteBaselineRepo creates a new SQLiteBaselineRepo.
func NewSQLiteBaselineRepo(conn db.DBTX) *SQLiteBaselineRepo {
	return &SQLiteBaselineRepo{db: conn}
}

func (r *SQLiteBaselineRepo) Create(ctx context.Context, b *domain.Baseline) error {
	query := `INSERT INTO baselines (` + baselineColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.OrganizationID,
		b.ProjectID,
		b.Name,
		boolToInt(b.Locked),
		boolToInt(b.IsActive),
		b.CreatedBy,
		b.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return activeConflict(fmt.Errorf("inserting baseline: %w", err), b.ProjectID)
	}

	itemQuery := `INSERT INTO baseline_items (` + baselineItemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range b.Items {
		item := &b.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.BaselineID = b.ID
		_, err := r.db.ExecContext(ctx, itemQuery,
			item.ID,
			item.BaselineID,
			item.TaskID,
			item.Position,
			nullableTimeToString(item.PlannedStart, timeLayout),
			nullableTimeToString(item.PlannedEnd, timeLayout),
			item.DurationMinutes,
			boolToInt(item.IsCritical),
			item.FloatMinutes,
		)
		if err != nil {
			return fmt.Errorf("inserting baseline item %d: %w", item.Position, err)
		}
	}
	return nil
}

func (r *SQLiteBaselineRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Baseline, error) {
	query := `SELECT ` + baselineColumns + ` FROM baselines WHERE id = ? AND organization_id = ?`
	b, err := scanBaseline(r.db.QueryRowContext(ctx, query, id, orgID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("baseline %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if b.Items, err = r.listItems(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBaselineRepo) GetActive(ctx context.Context, orgID, projectID string) (*domain.Baseline, error) {
	query := `SELECT ` + baselineColumns + ` FROM baselines
		WHERE project_id = ? AND organization_id = ? AND is_active = 1`
	b, err := scanBaseline(r.db.QueryRowContext(ctx, query, projectID, orgID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active baseline for project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if b.Items, err = r.listItems(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBaselineRepo) ListByProject(ctx context.Context, orgID, projectID string) ([]*domain.Baseline, error) {
	query := `SELECT ` + baselineColumns + ` FROM baselines
		WHERE project_id = ? AND organization_id = ?
		ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	var out []*domain.Baseline
	for rows.Next() {
		b, err := scanBaseline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return out, nil
}

func (r *SQLiteBaselineRepo) DeactivateAll(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE baselines SET is_active = 0 WHERE project_id = ? AND is_active = 1`, projectID)
	if err != nil {
		return fmt.Errorf("deactivating baselines: %w", lockedFromTrigger(err, ""))
	}
	return nil
}

func (r *SQLiteBaselineRepo) SetActive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE baselines SET is_active = 1 WHERE id = ?`, id)
	if err != nil {
		return activeConflict(fmt.Errorf("activating baseline: %w", lockedFromTrigger(err, id)), "")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("baseline %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteBaselineRepo) Delete(ctx context.Context, orgID, id string) error {
	if _, err := r.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM baseline_items WHERE baseline_id = ?`, id); err != nil {
		return lockedFromTrigger(fmt.Errorf("deleting baseline items: %w", err), id)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM baselines WHERE id = ?`, id); err != nil {
		return lockedFromTrigger(fmt.Errorf("deleting baseline: %w", err), id)
	}
	return nil
}

func (r *SQLiteBaselineRepo) listItems(ctx context.Context, baselineID string) ([]domain.BaselineItem, error) {
	query := `SELECT ` + baselineItemColumns + ` FROM baseline_items WHERE baseline_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, baselineID)
	if err != nil {
		return nil, fmt.Errorf("listing baseline items: %w", err)
	}
	defer rows.Close()

	var items []domain.BaselineItem
	for rows.Next() {
		var it domain.BaselineItem
		var start, end sql.NullString
		var critical int
		err := rows.Scan(&it.ID, &it.BaselineID, &it.TaskID, &it.Position, &start, &end,
			&it.DurationMinutes, &critical, &it.FloatMinutes)
		if err != nil {
			return nil, fmt.Errorf("scanning baseline item: %w", err)
		}
		it.PlannedStart = parseNullableTime(start, timeLayout)
		it.PlannedEnd = parseNullableTime(end, timeLayout)
		it.IsCritical = intToBool(critical)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline items: %w", err)
	}
	return items, nil
}

func scanBaseline(s rowScanner) (*domain.Baseline, error) {
	var b domain.Baseline
	var locked, active int
	var createdAt string
	err := s.Scan(&b.ID, &b.OrganizationID, &b.ProjectID, &b.Name, &locked, &active, &b.CreatedBy, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning baseline: %w", err)
	}
	b.Locked = intToBool(locked)
	b.IsActive = intToBool(active)
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &b, nil
}

// activeConflict reports a violation of the one-active-baseline index as a conflict.
func activeConflict(err error, projectID string) error {
	if err == nil || !strings.Contains(err.Error(), "UNIQUE constraint failed: baselines.project_id") {
		return err
	}
	return &domain.ConflictError{
		EntityType: domain.AuditEntityBaseline,
		EntityID:   projectID,
		Message:    "another baseline is already active",
	}
}
