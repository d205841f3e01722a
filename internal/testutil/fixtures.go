package testutil

import (
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/google/uuid"
)

// TestOrg is the organization every fixture belongs to unless overridden.
const TestOrg = "org-test"

// Day returns midnight UTC for a YYYY-MM-DD string and panics on bad input.
func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// At returns a UTC timestamp for a "YYYY-MM-DD HH:MM" string and panics on bad input.
func At(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Project options
type ProjectOption func(*domain.Project)

func WithBudget(amount, ratePerHour float64) ProjectOption {
	return func(p *domain.Project) {
		p.BudgetAmount = amount
		p.LaborRatePerHour = ratePerHour
	}
}

// WithEarnedValue enables both cost tracking and earned value.
func WithEarnedValue() ProjectOption {
	return func(p *domain.Project) {
		p.CostTrackingEnabled = true
		p.EarnedValueEnabled = true
	}
}

func WithCostTracking(enabled bool) ProjectOption {
	return func(p *domain.Project) {
		p.CostTrackingEnabled = enabled
	}
}

func WithWaterfall() ProjectOption {
	return func(p *domain.Project) {
		p.WaterfallEnabled = true
	}
}

func WithProjectOrg(org string) ProjectOption {
	return func(p *domain.Project) {
		p.OrganizationID = org
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: TestOrg,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithPlannedDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.PlannedStart = &start
		t.PlannedEnd = &end
	}
}

func WithActualDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ActualStart = &start
		t.ActualEnd = &end
	}
}

func WithMilestone() TaskOption {
	return func(t *domain.Task) {
		t.IsMilestone = true
	}
}

func WithConstraint(c domain.ConstraintType, d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ConstraintType = c
		t.ConstraintDate = &d
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithPercentComplete(pct int) TaskOption {
	return func(t *domain.Task) {
		t.PercentComplete = pct
	}
}

func WithActualHours(h float64) TaskOption {
	return func(t *domain.Task) {
		t.ActualHours = h
	}
}

func WithAssignee(id string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = id
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:             uuid.New().String(),
		OrganizationID: TestOrg,
		ProjectID:      projectID,
		Title:          title,
		ConstraintType: domain.ConstraintNone,
		Priority:       domain.PriorityMedium,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dependency options
type DependencyOption func(*domain.Dependency)

func WithDependencyType(typ domain.DependencyType) DependencyOption {
	return func(d *domain.Dependency) {
		d.Type = typ
	}
}

func WithLag(minutes int) DependencyOption {
	return func(d *domain.Dependency) {
		d.LagMinutes = minutes
	}
}

// NewTestDependency links pred to succ finish-to-start with no lag by default.
func NewTestDependency(projectID, predID, succID string, opts ...DependencyOption) domain.Dependency {
	d := domain.Dependency{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		PredecessorID: predID,
		SuccessorID:   succID,
		Type:          domain.FinishToStart,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
