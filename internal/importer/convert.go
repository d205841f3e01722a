package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ProjectGraph is a converted import ready for persistence.
type ProjectGraph struct {
	Project      *domain.Project
	Tasks        []*domain.Task
	Dependencies []domain.Dependency
	// RefIDs maps each task ref to its persisted id.
	RefIDs map[string]string
}

// Convert transforms a validated ImportSchema into domain objects owned by orgID.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, orgID string) (*ProjectGraph, error) {
	now := time.Now().UTC().Truncate(time.Second)

	project := &domain.Project{
		ID:                  uuid.New().String(),
		OrganizationID:      orgID,
		Name:                strings.TrimSpace(schema.Project.Name),
		BudgetAmount:        schema.Project.BudgetAmount,
		LaborRatePerHour:    schema.Project.LaborRatePerHour,
		CostTrackingEnabled: schema.Project.CostTracking,
		EarnedValueEnabled:  schema.Project.EarnedValue,
		WaterfallEnabled:    schema.Project.Waterfall,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	refIDs := make(map[string]string, len(schema.Tasks))

	tasks := make([]*domain.Task, 0, len(schema.Tasks))
	for _, ti := range schema.Tasks {
		id := coalesce(ti.ID, uuid.New().String())
		refIDs[ti.Ref] = id

		task := &domain.Task{
			ID:              id,
			OrganizationID:  orgID,
			ProjectID:       project.ID,
			Title:           strings.TrimSpace(ti.Title),
			AssigneeID:      ti.Assignee,
			PercentComplete: intOr(ti.PercentComplete, 0),
			IsMilestone:     ti.Milestone,
			ConstraintType:  domain.ConstraintType(coalesce(ti.ConstraintType, string(domain.ConstraintNone))),
			Priority:        domain.Priority(coalesce(strings.ToUpper(ti.Priority), string(domain.PriorityMedium))),
			ActualHours:     ti.ActualHours,
			Version:         1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		var err error
		fields := []struct {
			name string
			src  *string
			dst  **time.Time
		}{
			{"planned_start", ti.PlannedStart, &task.PlannedStart},
			{"planned_end", ti.PlannedEnd, &task.PlannedEnd},
			{"actual_start", ti.ActualStart, &task.ActualStart},
			{"actual_end", ti.ActualEnd, &task.ActualEnd},
			{"constraint_date", ti.ConstraintDate, &task.ConstraintDate},
		}
		for _, f := range fields {
			if *f.dst, err = parseOptionalDate(f.src); err != nil {
				return nil, fmt.Errorf("task %q %s: %w", ti.Ref, f.name, err)
			}
		}
		tasks = append(tasks, task)
	}

	deps := make([]domain.Dependency, 0, len(schema.Dependencies))
	for _, d := range schema.Dependencies {
		predID, ok := refIDs[d.Predecessor]
		if !ok {
			return nil, fmt.Errorf("predecessor %q not found", d.Predecessor)
		}
		succID, ok := refIDs[d.Successor]
		if !ok {
			return nil, fmt.Errorf("successor %q not found", d.Successor)
		}
		typ, err := domain.ParseDependencyType(d.Type)
		if err != nil {
			return nil, err
		}
		deps = append(deps, domain.Dependency{
			ID:            uuid.New().String(),
			ProjectID:     project.ID,
			PredecessorID: predID,
			SuccessorID:   succID,
			Type:          typ,
			LagMinutes:    d.LagMinutes,
		})
	}

	return &ProjectGraph{
		Project:      project,
		Tasks:        tasks,
		Dependencies: deps,
		RefIDs:       refIDs,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// coalesce returns the first non-empty value.
func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func intOr(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}
