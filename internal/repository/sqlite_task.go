package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, organization_id, project_id, title, assignee_id,
		planned_start, planned_end, actual_start, actual_end,
		percent_complete, is_milestone, constraint_type, constraint_date, priority,
		actual_hours, version, deleted_at, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if t.Version == 0 {
		t.Version = 1
	}
	if t.ConstraintType == "" {
		t.ConstraintType = domain.ConstraintNone
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.OrganizationID,
		t.ProjectID,
		t.Title,
		t.AssigneeID,
		nullableTimeToString(t.PlannedStart, timeLayout),
		nullableTimeToString(t.PlannedEnd, timeLayout),
		nullableTimeToString(t.ActualStart, timeLayout),
		nullableTimeToString(t.ActualEnd, timeLayout),
		t.PercentComplete,
		boolToInt(t.IsMilestone),
		string(t.ConstraintType),
		nullableTimeToString(t.ConstraintDate, timeLayout),
		string(t.Priority),
		t.ActualHours,
		t.Version,
		nullableTimeToString(t.DeletedAt, timeLayout),
		t.CreatedAt.UTC().Format(timeLayout),
		t.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE id = ? AND organization_id = ? AND deleted_at IS NULL`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, orgID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, orgID, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE project_id = ? AND organization_id = ? AND deleted_at IS NULL
		ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByIDs(ctx context.Context, orgID string, ids []string) ([]*domain.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, orgID)
	for _, id := range ids {
		args = append(args, id)
	}
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE organization_id = ? AND deleted_at IS NULL AND id IN (` + placeholders(len(ids)) + `)
		ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by id: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	now := nowUTC()
	query := `UPDATE tasks SET title = ?, assignee_id = ?,
		planned_start = ?, planned_end = ?, actual_start = ?, actual_end = ?,
		percent_complete = ?, is_milestone = ?, constraint_type = ?, constraint_date = ?,
		priority = ?, actual_hours = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND organization_id = ? AND version = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.AssigneeID,
		nullableTimeToString(t.PlannedStart, timeLayout),
		nullableTimeToString(t.PlannedEnd, timeLayout),
		nullableTimeToString(t.ActualStart, timeLayout),
		nullableTimeToString(t.ActualEnd, timeLayout),
		t.PercentComplete,
		boolToInt(t.IsMilestone),
		string(t.ConstraintType),
		nullableTimeToString(t.ConstraintDate, timeLayout),
		string(t.Priority),
		t.ActualHours,
		now.Format(timeLayout),
		t.ID,
		t.OrganizationID,
		t.Version,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n == 0 {
		return &domain.ConflictError{
			EntityType: domain.AuditEntityTask,
			EntityID:   t.ID,
			Message:    fmt.Sprintf("version %d is stale or the task no longer exists", t.Version),
		}
	}
	t.Version++
	t.UpdatedAt = now
	return nil
}

func (r *SQLiteTaskRepo) SoftDelete(ctx context.Context, orgID, id string) error {
	now := nowUTC().Format(timeLayout)
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET deleted_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND organization_id = ? AND deleted_at IS NULL`,
		now, now, id, orgID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanTask(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var plannedStart, plannedEnd, actualStart, actualEnd, constraintDate, deletedAt sql.NullString
	var milestone int
	var constraintType, priority, createdAt, updatedAt string
	err := s.Scan(
		&t.ID, &t.OrganizationID, &t.ProjectID, &t.Title, &t.AssigneeID,
		&plannedStart, &plannedEnd, &actualStart, &actualEnd,
		&t.PercentComplete, &milestone, &constraintType, &constraintDate, &priority,
		&t.ActualHours, &t.Version, &deletedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.PlannedStart = parseNullableTime(plannedStart, timeLayout)
	t.PlannedEnd = parseNullableTime(plannedEnd, timeLayout)
	t.ActualStart = parseNullableTime(actualStart, timeLayout)
	t.ActualEnd = parseNullableTime(actualEnd, timeLayout)
	t.ConstraintDate = parseNullableTime(constraintDate, timeLayout)
	t.DeletedAt = parseNullableTime(deletedAt, timeLayout)
	t.IsMilestone = intToBool(milestone)
	t.ConstraintType = domain.ConstraintType(constraintType)
	t.Priority = domain.Priority(priority)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
