package app

import (
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

// TaskChanges lists the fields a reschedule may touch. Nil leaves a field as is.
type TaskChanges struct {
	PlannedStart    *time.Time
	PlannedEnd      *time.Time
	ActualStart     *time.Time
	ActualEnd       *time.Time
	PercentComplete *int
	IsMilestone     *bool
	ConstraintType  *domain.ConstraintType
	ConstraintDate  *time.Time
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.PlannedStart == nil && c.PlannedEnd == nil && c.ActualStart == nil &&
		c.ActualEnd == nil && c.PercentComplete == nil && c.IsMilestone == nil &&
		c.ConstraintType == nil && c.ConstraintDate == nil
}

type RescheduleRequest struct {
	OrganizationID string
	TaskID         string
	ActorID        string
	Changes        TaskChanges
	Cascade        domain.CascadeMode
	// ExpectedVersion, when non-zero, must match the stored task version.
	ExpectedVersion int
}

func NewRescheduleRequest(orgID, taskID string) RescheduleRequest {
	return RescheduleRequest{
		OrganizationID: orgID,
		TaskID:         taskID,
		Cascade:        domain.CascadeNone,
	}
}

type RescheduleResult struct {
	Task *domain.Task
	// Shifted holds the direct successors moved by a forward cascade.
	Shifted []*domain.Task
	// Resolved lists the violations the cascade fixed.
	Resolved []domain.DependencyViolation
}
