package service

import (
	"context"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/importer"
)

type ScheduleService interface {
	app.CriticalPathUseCase
}

type BaselineService interface {
	app.CreateBaselineUseCase
	app.ActivateBaselineUseCase
	app.CompareBaselineUseCase
	GetBaseline(ctx context.Context, orgID, id string) (*domain.Baseline, error)
	ListBaselines(ctx context.Context, orgID, projectID string) ([]*domain.Baseline, error)
	// DeleteBaseline always refuses locked baselines with *domain.LockedError.
	DeleteBaseline(ctx context.Context, orgID, id string) error
}

type EarnedValueService interface {
	app.EarnedValueUseCase
}

type LevelingService interface {
	app.LevelingUseCase
}

type RescheduleService interface {
	app.RescheduleUseCase
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath, orgID, actorID string, opts ...ImportOption) (*app.ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema, orgID, actorID string, opts ...ImportOption) (*app.ImportResult, error)
}

type ProjectService interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Project, error)
	List(ctx context.Context, orgID string) ([]*domain.Project, error)
	ListTasks(ctx context.Context, orgID, projectID string) ([]*domain.Task, error)
	Resolve(ctx context.Context, orgID, input string) (string, error)
}
