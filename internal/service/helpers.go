package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
)

// loadGraph returns the project's live tasks and the dependencies between them.
func loadGraph(ctx context.Context, tasks repository.TaskRepo, deps repository.DependencyRepo, orgID, projectID string) ([]*domain.Task, []domain.Dependency, error) {
	ts, err := tasks.ListByProject(ctx, orgID, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	ds, err := deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dependencies: %w", err)
	}
	return ts, ds, nil
}

// auditor writes audit records best-effort: a failed insert is reported to
// the observer and never fails the surrounding transaction.
type auditor struct {
	observer UseCaseObserver
}

func (a auditor) record(ctx context.Context, repo repository.AuditRepo, rec *domain.AuditRecord) {
	if err := repo.Record(ctx, rec); err != nil {
		a.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "audit",
			StartedAt: time.Now().UTC(),
			Success:   false,
			Err:       err,
			Fields: map[string]any{
				"entity_type": rec.EntityType,
				"entity_id":   rec.EntityID,
				"action":      rec.Action,
			},
		})
	}
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
