package domain

import "time"

// Baseline is an append-only snapshot of a project's planned schedule.
// Every field except IsActive is written once at creation.
type Baseline struct {
	ID             string
	OrganizationID string
	ProjectID      string
	Name           string
	Locked         bool
	IsActive       bool
	CreatedBy      string
	CreatedAt      time.Time
	Items          []BaselineItem
}

type BaselineItem struct {
	ID              string
	BaselineID      string
	TaskID          string
	Position        int
	PlannedStart    *time.Time
	PlannedEnd      *time.Time
	DurationMinutes float64
	IsCritical      bool
	FloatMinutes    float64
}

// AssertNotLocked must guard any path that would mutate a baseline.
func (b *Baseline) AssertNotLocked() error {
	if b.Locked {
		return &LockedError{EntityID: b.ID, Message: "baseline " + b.ID + " is locked and cannot be modified"}
	}
	return nil
}
