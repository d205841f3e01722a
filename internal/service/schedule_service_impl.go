package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

type scheduleService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	observer UseCaseObserver
}

func NewScheduleService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		projects: projects,
		tasks:    tasks,
		deps:     deps,
		observer: useCaseObserverOrNoop(observers),
	}
}

// ComputeCriticalPath never fails on a cyclic graph: the cycle is reported in
// Result.Errors so integrity checks can surface it as a finding.
func (s *scheduleService) ComputeCriticalPath(ctx context.Context, req app.CriticalPathRequest) (result *scheduler.Result, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": req.ProjectID}
	defer observe(ctx, s.observer, "compute-critical-path", startedAt, fields, &err)

	mode, perr := scheduler.ParseScheduleMode(string(req.Mode))
	if perr != nil {
		return nil, domain.NewValidationError("mode", perr.Error())
	}
	fields["mode"] = string(mode)

	if _, err = s.projects.GetByID(ctx, req.OrganizationID, req.ProjectID); err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	tasks, deps, err := loadGraph(ctx, s.tasks, s.deps, req.OrganizationID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	result = scheduler.ComputeCriticalPath(tasks, deps, mode)
	fields["task_count"] = len(tasks)
	fields["critical_count"] = len(result.CriticalPath)
	fields["cycle"] = result.HasCycle()
	return result, nil
}
