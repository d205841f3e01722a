package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

type earnedValueService struct {
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	baselines repository.BaselineRepo
	snapshots repository.EarnedValueRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	audit     auditor
}

func NewEarnedValueService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	baselines repository.BaselineRepo,
	snapshots repository.EarnedValueRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) EarnedValueService {
	obs := useCaseObserverOrNoop(observers)
	return &earnedValueService{
		projects:  projects,
		tasks:     tasks,
		baselines: baselines,
		snapshots: snapshots,
		uow:       uow,
		observer:  obs,
		audit:     auditor{observer: obs},
	}
}

// ComputeEarnedValue evaluates PV at the exact AsOf instant; the snapshot is
// keyed by its UTC calendar day. A zero AsOf means now.
func (s *earnedValueService) ComputeEarnedValue(ctx context.Context, req app.EarnedValueRequest) (snap *domain.EarnedValueSnapshot, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": req.ProjectID}
	defer observe(ctx, s.observer, "compute-earned-value", startedAt, fields, &err)

	return s.compute(ctx, req)
}

func (s *earnedValueService) CreateEarnedValueSnapshot(ctx context.Context, req app.EarnedValueRequest) (snap *domain.EarnedValueSnapshot, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": req.ProjectID}
	defer observe(ctx, s.observer, "create-earned-value-snapshot", startedAt, fields, &err)

	snap, err = s.compute(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["as_of"] = snap.AsOfDate.Format("2006-01-02")

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteEarnedValueRepo(tx).Upsert(ctx, snap); err != nil {
			return err
		}
		s.audit.record(ctx, repository.NewSQLiteAuditRepo(tx), &domain.AuditRecord{
			EntityType:     domain.AuditEntityProject,
			EntityID:       req.ProjectID,
			Action:         domain.AuditActionSnapshot,
			OrganizationID: req.OrganizationID,
			ActorID:        req.ActorID,
			Metadata: map[string]any{
				"snapshot_id": snap.ID,
				"as_of_date":  snap.AsOfDate.Format("2006-01-02"),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *earnedValueService) GetEarnedValueHistory(ctx context.Context, orgID, projectID string, from, to *time.Time) ([]*domain.EarnedValueSnapshot, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("to", "history range ends before it starts")
	}
	if _, err := s.projects.GetByID(ctx, orgID, projectID); err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return s.snapshots.ListByProject(ctx, projectID, from, to)
}

func (s *earnedValueService) compute(ctx context.Context, req app.EarnedValueRequest) (*domain.EarnedValueSnapshot, error) {
	project, err := s.projects.GetByID(ctx, req.OrganizationID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := checkEarnedValuePreconditions(project); err != nil {
		return nil, err
	}
	baseline, err := s.resolveBaseline(ctx, req)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, req.OrganizationID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	res := scheduler.ComputeEarnedValue(scheduler.EarnedValueInput{
		AsOf:             asOf,
		BAC:              project.BudgetAmount,
		LaborRatePerHour: project.LaborRatePerHour,
		Items:            baseline.Items,
		Tasks:            tasks,
	})

	now := nowUTC()
	baselineID := baseline.ID
	return &domain.EarnedValueSnapshot{
		ID:         uuid.New().String(),
		ProjectID:  project.ID,
		BaselineID: &baselineID,
		AsOfDate:   asOfDay(asOf),
		BAC:        res.BAC,
		PV:         res.PV,
		EV:         res.EV,
		AC:         res.AC,
		CPI:        res.CPI,
		SPI:        res.SPI,
		EAC:        res.EAC,
		ETC:        res.ETC,
		VAC:        res.VAC,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// checkEarnedValuePreconditions reports the first missing project setting.
func checkEarnedValuePreconditions(p *domain.Project) error {
	switch {
	case !p.CostTrackingEnabled:
		return &domain.PreconditionError{Reason: domain.CodeCostTrackingDisabled, Message: "cost tracking is not enabled for project " + p.ID}
	case !p.EarnedValueEnabled:
		return &domain.PreconditionError{Reason: domain.CodeEarnedValueDisabled, Message: "earned value is not enabled for project " + p.ID}
	case p.BudgetAmount <= 0:
		return &domain.PreconditionError{Reason: domain.CodeNoBudget, Message: "project " + p.ID + " has no positive budget"}
	}
	return nil
}

func (s *earnedValueService) resolveBaseline(ctx context.Context, req app.EarnedValueRequest) (*domain.Baseline, error) {
	if req.BaselineID != "" {
		b, err := s.baselines.GetByID(ctx, req.OrganizationID, req.BaselineID)
		if err != nil {
			return nil, fmt.Errorf("loading baseline: %w", err)
		}
		if b.ProjectID != req.ProjectID {
			return nil, domain.NewValidationError("baseline_id", "baseline "+b.ID+" belongs to another project")
		}
		return b, nil
	}
	b, err := s.baselines.GetActive(ctx, req.OrganizationID, req.ProjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.PreconditionError{Reason: domain.CodeNoBaseline, Message: "project " + req.ProjectID + " has no active baseline"}
	}
	if err != nil {
		return nil, fmt.Errorf("loading active baseline: %w", err)
	}
	return b, nil
}

func asOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
