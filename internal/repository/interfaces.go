package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

// Every read is scoped by organization; a row in another organization is
// reported as ErrNotFound.

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Project, error)
	List(ctx context.Context, orgID string) ([]*domain.Project, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Task, error)
	// ListByProject returns non-deleted tasks in creation order.
	ListByProject(ctx context.Context, orgID, projectID string) ([]*domain.Task, error)
	ListByIDs(ctx context.Context, orgID string, ids []string) ([]*domain.Task, error)
	// Update writes t if its stored version still equals t.Version, then
	// bumps t.Version. A stale version yields *domain.ConflictError.
	Update(ctx context.Context, t *domain.Task) error
	SoftDelete(ctx context.Context, orgID, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
}

type BaselineRepo interface {
	// Create inserts the baseline header and all of its items.
	Create(ctx context.Context, b *domain.Baseline) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Baseline, error)
	GetActive(ctx context.Context, orgID, projectID string) (*domain.Baseline, error)
	// ListByProject returns headers only, newest first.
	ListByProject(ctx context.Context, orgID, projectID string) ([]*domain.Baseline, error)
	DeactivateAll(ctx context.Context, projectID string) error
	SetActive(ctx context.Context, id string) error
	// Delete removes a baseline. Locked baselines are refused by storage
	// with *domain.LockedError.
	Delete(ctx context.Context, orgID, id string) error
}

type EarnedValueRepo interface {
	// Upsert inserts or replaces the snapshot for (project, as-of date). On
	// conflict s.ID and s.CreatedAt are refreshed from the surviving row.
	Upsert(ctx context.Context, s *domain.EarnedValueSnapshot) error
	GetByDate(ctx context.Context, projectID string, asOf time.Time) (*domain.EarnedValueSnapshot, error)
	// ListByProject returns snapshots ordered by as-of date. Nil bounds are open.
	ListByProject(ctx context.Context, projectID string, from, to *time.Time) ([]*domain.EarnedValueSnapshot, error)
}

type AuditRepo interface {
	Record(ctx context.Context, r *domain.AuditRecord) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.AuditRecord, error)
}
