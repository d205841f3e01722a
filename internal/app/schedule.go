package app

import (
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

type CriticalPathRequest struct {
	OrganizationID string
	ProjectID      string
	Mode           scheduler.ScheduleMode
}

func NewCriticalPathRequest(orgID, projectID string) CriticalPathRequest {
	return CriticalPathRequest{
		OrganizationID: orgID,
		ProjectID:      projectID,
		Mode:           scheduler.ModePlanned,
	}
}

type CreateBaselineRequest struct {
	OrganizationID string
	ProjectID      string
	Name           string
	ActorID        string
	// Activate makes the new baseline the project's active one, replacing
	// any previously active baseline in the same transaction.
	Activate bool
}

type EarnedValueRequest struct {
	OrganizationID string
	ProjectID      string
	AsOf           time.Time
	// BaselineID selects a specific baseline; empty means the active one.
	BaselineID string
	ActorID    string
}

type LevelingRequest struct {
	OrganizationID string
	ProjectID      string
	Entries        []domain.OverallocationEntry
}

type ImportResult struct {
	Project         *domain.Project
	TaskCount       int
	DependencyCount int
	// RefIDs maps each task ref in the import file to its task id.
	RefIDs map[string]string
}
