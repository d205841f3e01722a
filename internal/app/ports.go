package app

import (
	"context"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

type CriticalPathUseCase interface {
	ComputeCriticalPath(ctx context.Context, req CriticalPathRequest) (*scheduler.Result, error)
}

type CreateBaselineUseCase interface {
	CreateBaseline(ctx context.Context, req CreateBaselineRequest) (*domain.Baseline, error)
}

type ActivateBaselineUseCase interface {
	ActivateBaseline(ctx context.Context, orgID, baselineID, actorID string) (*domain.Baseline, error)
}

type CompareBaselineUseCase interface {
	CompareBaseline(ctx context.Context, orgID, baselineID string) (*scheduler.VarianceReport, error)
}

type EarnedValueUseCase interface {
	ComputeEarnedValue(ctx context.Context, req EarnedValueRequest) (*domain.EarnedValueSnapshot, error)
	CreateEarnedValueSnapshot(ctx context.Context, req EarnedValueRequest) (*domain.EarnedValueSnapshot, error)
	GetEarnedValueHistory(ctx context.Context, orgID, projectID string, from, to *time.Time) ([]*domain.EarnedValueSnapshot, error)
}

type LevelingUseCase interface {
	RecommendLeveling(ctx context.Context, req LevelingRequest) ([]domain.LevelingRecommendation, error)
}

type RescheduleUseCase interface {
	ApplyReschedule(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error)
}
