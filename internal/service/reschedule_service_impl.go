package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

type rescheduleService struct {
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	audit    auditor
}

func NewRescheduleService(
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) RescheduleService {
	obs := useCaseObserverOrNoop(observers)
	return &rescheduleService{
		tasks:    tasks,
		deps:     deps,
		uow:      uow,
		observer: obs,
		audit:    auditor{observer: obs},
	}
}

// ApplyReschedule loads, changes and validates the task outside any
// transaction. Blocked requests return before a transaction is opened; the
// writes that remain are version-checked inside one transaction.
func (s *rescheduleService) ApplyReschedule(ctx context.Context, req app.RescheduleRequest) (result *app.RescheduleResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task": req.TaskID, "cascade": string(req.Cascade)}
	defer observe(ctx, s.observer, "apply-reschedule", startedAt, fields, &err)

	if req.Changes.Empty() {
		return nil, domain.NewValidationError("changes", "no task fields to change")
	}
	cascade := req.Cascade
	if cascade == "" {
		cascade = domain.CascadeNone
	}
	if cascade != domain.CascadeNone && cascade != domain.CascadeForward {
		return nil, domain.NewValidationError("cascade", fmt.Sprintf("unknown cascade mode %q (expected none|forward)", req.Cascade))
	}

	current, err := s.tasks.GetByID(ctx, req.OrganizationID, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}
	if req.ExpectedVersion != 0 && req.ExpectedVersion != current.Version {
		return nil, &domain.ConflictError{
			EntityType: domain.AuditEntityTask,
			EntityID:   current.ID,
			Message:    fmt.Sprintf("expected version %d, found %d", req.ExpectedVersion, current.Version),
		}
	}

	updated, err := applyTaskChanges(current, req.Changes)
	if err != nil {
		return nil, err
	}

	deps, err := s.deps.ListSuccessors(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("loading successors: %w", err)
	}
	successors, err := s.loadSuccessors(ctx, req.OrganizationID, deps)
	if err != nil {
		return nil, err
	}

	violations := scheduler.DetectSuccessorViolations(updated, deps, successors)
	fields["violations"] = len(violations)
	if len(violations) > 0 && cascade == domain.CascadeNone {
		return nil, &domain.DependencyViolationError{TaskID: updated.ID, Violations: violations}
	}

	var shifted []*domain.Task
	if cascade == domain.CascadeForward {
		shifted = scheduler.CascadeForward(violations, successors)
	}
	fields["shifted"] = len(shifted)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)

		fromVersion := updated.Version
		if err := txTasks.Update(ctx, updated); err != nil {
			return err
		}
		for _, succ := range shifted {
			if err := txTasks.Update(ctx, succ); err != nil {
				return fmt.Errorf("shifting successor %s: %w", succ.ID, err)
			}
		}

		s.audit.record(ctx, txAudit, &domain.AuditRecord{
			EntityType:     domain.AuditEntityTask,
			EntityID:       updated.ID,
			Action:         domain.AuditActionReschedule,
			OrganizationID: req.OrganizationID,
			ActorID:        req.ActorID,
			Metadata: map[string]any{
				"cascade":      string(cascade),
				"from_version": fromVersion,
				"shifted":      len(shifted),
			},
		})
		for _, succ := range shifted {
			s.audit.record(ctx, txAudit, &domain.AuditRecord{
				EntityType:     domain.AuditEntityTask,
				EntityID:       succ.ID,
				Action:         domain.AuditActionCascade,
				OrganizationID: req.OrganizationID,
				ActorID:        req.ActorID,
				Metadata:       map[string]any{"predecessor_id": updated.ID},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app.RescheduleResult{Task: updated, Shifted: shifted, Resolved: resolvedBy(violations, shifted)}, nil
}

func (s *rescheduleService) loadSuccessors(ctx context.Context, orgID string, deps []domain.Dependency) (map[string]*domain.Task, error) {
	ids := make([]string, 0, len(deps))
	seen := make(map[string]bool, len(deps))
	for _, d := range deps {
		if !seen[d.SuccessorID] {
			seen[d.SuccessorID] = true
			ids = append(ids, d.SuccessorID)
		}
	}
	tasks, err := s.tasks.ListByIDs(ctx, orgID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading successor tasks: %w", err)
	}
	out := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		out[t.ID] = t
	}
	return out, nil
}

// applyTaskChanges returns a validated copy of t with changes applied.
func applyTaskChanges(t *domain.Task, c app.TaskChanges) (*domain.Task, error) {
	u := t.Clone()
	if c.PlannedStart != nil {
		v := *c.PlannedStart
		u.PlannedStart = &v
	}
	if c.PlannedEnd != nil {
		v := *c.PlannedEnd
		u.PlannedEnd = &v
	}
	if c.ActualStart != nil {
		v := *c.ActualStart
		u.ActualStart = &v
	}
	if c.ActualEnd != nil {
		v := *c.ActualEnd
		u.ActualEnd = &v
	}
	if c.PercentComplete != nil {
		if err := domain.ValidatePercent(*c.PercentComplete); err != nil {
			return nil, err
		}
		u.PercentComplete = *c.PercentComplete
	}
	if c.IsMilestone != nil {
		u.IsMilestone = *c.IsMilestone
	}
	if c.ConstraintType != nil {
		if !domain.ValidConstraintTypes[*c.ConstraintType] {
			return nil, domain.NewValidationError("constraint_type", fmt.Sprintf("unknown constraint type %q", *c.ConstraintType))
		}
		u.ConstraintType = *c.ConstraintType
	}
	if c.ConstraintDate != nil {
		v := *c.ConstraintDate
		u.ConstraintDate = &v
	}
	if err := u.ValidateDates(); err != nil {
		return nil, err
	}
	return u, nil
}

func resolvedBy(violations []domain.DependencyViolation, shifted []*domain.Task) []domain.DependencyViolation {
	if len(shifted) == 0 {
		return nil
	}
	moved := make(map[string]bool, len(shifted))
	for _, t := range shifted {
		moved[t.ID] = true
	}
	var out []domain.DependencyViolation
	for _, v := range violations {
		if moved[v.SuccessorID] {
			out = append(out, v)
		}
	}
	return out
}
