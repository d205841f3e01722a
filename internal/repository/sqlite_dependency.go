package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
)

const dependencyColumns = `id, project_id, predecessor_id, successor_id, type, lag_minutes`

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	if err := d.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO dependencies (` + dependencyColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.ProjectID, d.PredecessorID, d.SuccessorID, string(d.Type), d.LagMinutes)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

// ListByProject returns the project's dependencies whose endpoints are both live tasks.
func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	query := `SELECT d.id, d.project_id, d.predecessor_id, d.successor_id, d.type, d.lag_minutes
		FROM dependencies d
		JOIN tasks p ON p.id = d.predecessor_id AND p.deleted_at IS NULL
		JOIN tasks s ON s.id = d.successor_id AND s.deleted_at IS NULL
		WHERE d.project_id = ?
		ORDER BY d.rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	query := `SELECT d.id, d.project_id, d.predecessor_id, d.successor_id, d.type, d.lag_minutes
		FROM dependencies d
		JOIN tasks s ON s.id = d.successor_id AND s.deleted_at IS NULL
		WHERE d.predecessor_id = ?
		ORDER BY d.rowid`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing successors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

// scanDependencies scans multiple dependency rows from *sql.Rows.
func scanDependencies(rows *sql.Rows) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		var typ string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.PredecessorID, &d.SuccessorID, &typ, &d.LagMinutes); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Type = domain.DependencyType(typ)
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
