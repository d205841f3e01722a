package domain

import "time"

type Task struct {
	ID             string
	OrganizationID string
	ProjectID      string
	Title          string
	AssigneeID     string

	PlannedStart *time.Time
	PlannedEnd   *time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time

	PercentComplete int
	IsMilestone     bool
	ConstraintType  ConstraintType
	ConstraintDate  *time.Time
	Priority        Priority
	ActualHours     float64

	// Version is bumped on every write and guards concurrent updates.
	Version int

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasHardConstraint reports whether the task is pinned to a date and
// therefore cannot be moved by leveling.
func (t *Task) HasHardConstraint() bool {
	return t.ConstraintType == ConstraintMustStartOn || t.ConstraintType == ConstraintMustFinishOn
}

// Clone returns a deep copy so callers can apply changes without
// touching the loaded original.
func (t *Task) Clone() *Task {
	c := *t
	c.PlannedStart = cloneTime(t.PlannedStart)
	c.PlannedEnd = cloneTime(t.PlannedEnd)
	c.ActualStart = cloneTime(t.ActualStart)
	c.ActualEnd = cloneTime(t.ActualEnd)
	c.ConstraintDate = cloneTime(t.ConstraintDate)
	c.DeletedAt = cloneTime(t.DeletedAt)
	return &c
}

// ValidateDates checks that planned and actual ends do not precede their starts.
func (t *Task) ValidateDates() error {
	if t.PlannedStart != nil && t.PlannedEnd != nil && t.PlannedEnd.Before(*t.PlannedStart) {
		return NewValidationError("planned_end", "planned end must not be before planned start")
	}
	if t.ActualStart != nil && t.ActualEnd != nil && t.ActualEnd.Before(*t.ActualStart) {
		return NewValidationError("actual_end", "actual end must not be before actual start")
	}
	return nil
}

// ValidatePercent checks the completion percentage range.
func ValidatePercent(pct int) error {
	if pct < 0 || pct > 100 {
		return NewValidationError("percent_complete", "percent complete must be between 0 and 100")
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
