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

type levelingService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	observer UseCaseObserver
}

func NewLevelingService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	observers ...UseCaseObserver,
) LevelingService {
	return &levelingService{
		projects: projects,
		tasks:    tasks,
		deps:     deps,
		observer: useCaseObserverOrNoop(observers),
	}
}

// RecommendLeveling is read-only. Waterfall projects rank candidates by
// critical path and float; a cyclic waterfall graph degrades to unknown float.
func (s *levelingService) RecommendLeveling(ctx context.Context, req app.LevelingRequest) (recs []domain.LevelingRecommendation, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": req.ProjectID, "entries": len(req.Entries)}
	defer observe(ctx, s.observer, "recommend-leveling", startedAt, fields, &err)

	for i, e := range req.Entries {
		if e.UserID == "" || e.Date.IsZero() {
			return nil, domain.NewValidationError(fmt.Sprintf("entries[%d]", i), "user and date are required")
		}
	}

	project, err := s.projects.GetByID(ctx, req.OrganizationID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	tasks, deps, err := loadGraph(ctx, s.tasks, s.deps, req.OrganizationID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	var cpm *scheduler.Result
	if project.WaterfallEnabled {
		if r := scheduler.ComputeCriticalPath(tasks, deps, scheduler.ModePlanned); !r.HasCycle() {
			cpm = r
		}
	}
	fields["waterfall"] = cpm != nil

	recs = scheduler.RecommendLeveling(req.Entries, tasks, cpm)
	fields["recommendations"] = len(recs)
	return recs, nil
}
