package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

// ErrEmptyProject rejects capturing a baseline of a project with no tasks.
var ErrEmptyProject = domain.NewValidationError("project", "cannot capture a baseline of a project with no tasks")

type baselineService struct {
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	deps      repository.DependencyRepo
	baselines repository.BaselineRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	audit     auditor
}

func NewBaselineService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	baselines repository.BaselineRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) BaselineService {
	obs := useCaseObserverOrNoop(observers)
	return &baselineService{
		projects:  projects,
		tasks:     tasks,
		deps:      deps,
		baselines: baselines,
		uow:       uow,
		observer:  obs,
		audit:     auditor{observer: obs},
	}
}

func (s *baselineService) CreateBaseline(ctx context.Context, req app.CreateBaselineRequest) (baseline *domain.Baseline, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": req.ProjectID, "activate": req.Activate}
	defer observe(ctx, s.observer, "create-baseline", startedAt, fields, &err)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "baseline name is required")
	}
	if _, err = s.projects.GetByID(ctx, req.OrganizationID, req.ProjectID); err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	tasks, deps, err := loadGraph(ctx, s.tasks, s.deps, req.OrganizationID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrEmptyProject
	}

	result := scheduler.ComputeCriticalPath(tasks, deps, scheduler.ModePlanned)
	if result.HasCycle() {
		return nil, fmt.Errorf("capturing baseline: %w", result.Errors[0])
	}

	baseline = &domain.Baseline{
		ID:             uuid.New().String(),
		OrganizationID: req.OrganizationID,
		ProjectID:      req.ProjectID,
		Name:           name,
		Locked:         true,
		IsActive:       req.Activate,
		CreatedBy:      req.ActorID,
		CreatedAt:      nowUTC(),
		Items:          scheduler.BuildBaselineItems(tasks, result),
	}
	fields["item_count"] = len(baseline.Items)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBaselines := repository.NewSQLiteBaselineRepo(tx)
		if req.Activate {
			if err := txBaselines.DeactivateAll(ctx, req.ProjectID); err != nil {
				return err
			}
		}
		if err := txBaselines.Create(ctx, baseline); err != nil {
			return fmt.Errorf("creating baseline: %w", err)
		}
		s.audit.record(ctx, repository.NewSQLiteAuditRepo(tx), &domain.AuditRecord{
			EntityType:     domain.AuditEntityBaseline,
			EntityID:       baseline.ID,
			Action:         domain.AuditActionBaselineCreate,
			OrganizationID: req.OrganizationID,
			ActorID:        req.ActorID,
			Metadata: map[string]any{
				"project_id": req.ProjectID,
				"name":       name,
				"items":      len(baseline.Items),
				"active":     req.Activate,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return baseline, nil
}

func (s *baselineService) ActivateBaseline(ctx context.Context, orgID, baselineID, actorID string) (baseline *domain.Baseline, err error) {
	startedAt := time.Now()
	fields := map[string]any{"baseline": baselineID}
	defer observe(ctx, s.observer, "activate-baseline", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBaselines := repository.NewSQLiteBaselineRepo(tx)
		b, err := txBaselines.GetByID(ctx, orgID, baselineID)
		if err != nil {
			return err
		}
		if err := txBaselines.DeactivateAll(ctx, b.ProjectID); err != nil {
			return err
		}
		if err := txBaselines.SetActive(ctx, b.ID); err != nil {
			return err
		}
		b.IsActive = true
		s.audit.record(ctx, repository.NewSQLiteAuditRepo(tx), &domain.AuditRecord{
			EntityType:     domain.AuditEntityBaseline,
			EntityID:       b.ID,
			Action:         domain.AuditActionBaselineActivate,
			OrganizationID: orgID,
			ActorID:        actorID,
			Metadata:       map[string]any{"project_id": b.ProjectID},
		})
		baseline = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return baseline, nil
}

// CompareBaseline measures slip against the criticality frozen at capture,
// not against the live critical path.
func (s *baselineService) CompareBaseline(ctx context.Context, orgID, baselineID string) (report *scheduler.VarianceReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{"baseline": baselineID}
	defer observe(ctx, s.observer, "compare-baseline", startedAt, fields, &err)

	b, err := s.baselines.GetByID(ctx, orgID, baselineID)
	if err != nil {
		return nil, fmt.Errorf("loading baseline: %w", err)
	}
	current, err := s.tasks.ListByProject(ctx, orgID, b.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	report = scheduler.CompareBaseline(b, current)
	fields["count_late"] = report.CountLate
	fields["max_slip_minutes"] = report.MaxSlipMinutes
	return report, nil
}

func (s *baselineService) GetBaseline(ctx context.Context, orgID, id string) (*domain.Baseline, error) {
	return s.baselines.GetByID(ctx, orgID, id)
}

func (s *baselineService) ListBaselines(ctx context.Context, orgID, projectID string) ([]*domain.Baseline, error) {
	return s.baselines.ListByProject(ctx, orgID, projectID)
}

func (s *baselineService) DeleteBaseline(ctx context.Context, orgID, id string) error {
	b, err := s.baselines.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := b.AssertNotLocked(); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBaselineRepo(tx).Delete(ctx, orgID, id)
	})
}
