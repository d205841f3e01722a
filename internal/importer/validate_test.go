package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }
func ptrInt(i int) *int       { return &i }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{Name: "Test Project"},
		Tasks: []TaskImport{
			{Ref: "a", Title: "Design"},
		},
	}
}

func validChainSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			Name:             "Warehouse",
			BudgetAmount:     10000,
			LaborRatePerHour: 50,
			CostTracking:     true,
			EarnedValue:      true,
			Waterfall:        true,
		},
		Tasks: []TaskImport{
			{Ref: "a", Title: "Design", PlannedStart: ptrStr("2025-03-03"), PlannedEnd: ptrStr("2025-03-05"), Priority: "high"},
			{Ref: "b", Title: "Build", PlannedStart: ptrStr("2025-03-05"), PlannedEnd: ptrStr("2025-03-10"), PercentComplete: ptrInt(40)},
			{Ref: "m", Title: "Go live", PlannedStart: ptrStr("2025-03-10"), PlannedEnd: ptrStr("2025-03-10"), Milestone: true},
		},
		Dependencies: []DependencyImport{
			{Predecessor: "a", Successor: "b"},
			{Predecessor: "b", Successor: "m", Type: "FS", LagMinutes: 60},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidChain(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validChainSchema()))
}

func TestValidateImportSchema_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *ImportSchema)
		wantMsg string
	}{
		{"missing project name", func(s *ImportSchema) { s.Project.Name = " " }, "project.name is required"},
		{"negative budget", func(s *ImportSchema) { s.Project.BudgetAmount = -1 }, "project.budget_amount must not be negative"},
		{"missing ref", func(s *ImportSchema) { s.Tasks[0].Ref = "" }, "tasks[0].ref is required"},
		{"missing title", func(s *ImportSchema) { s.Tasks[0].Title = "" }, "tasks[0].title is required"},
		{"percent above range", func(s *ImportSchema) { s.Tasks[0].PercentComplete = ptrInt(101) }, "tasks[0].percent_complete"},
		{"percent below range", func(s *ImportSchema) { s.Tasks[0].PercentComplete = ptrInt(-1) }, "tasks[0].percent_complete"},
		{"bad constraint", func(s *ImportSchema) { s.Tasks[0].ConstraintType = "whenever" }, "tasks[0].constraint_type"},
		{"bad priority", func(s *ImportSchema) { s.Tasks[0].Priority = "urgent" }, "tasks[0].priority"},
		{"bad date", func(s *ImportSchema) { s.Tasks[0].PlannedStart = ptrStr("03/03/2025") }, "tasks[0].planned_start: invalid date"},
		{"end before start", func(s *ImportSchema) {
			s.Tasks[0].PlannedStart = ptrStr("2025-03-05")
			s.Tasks[0].PlannedEnd = ptrStr("2025-03-03")
		}, "tasks[0].planned_end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			tt.mutate(s)
			errs := ValidateImportSchema(s)
			require.NotEmpty(t, errs)
			assert.Contains(t, joinErrors(errs), tt.wantMsg)
		})
	}
}

func TestValidateImportSchema_DuplicateRef(t *testing.T) {
	s := validMinimalSchema()
	s.Tasks = append(s.Tasks, TaskImport{Ref: "a", Title: "Again"})
	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `duplicate ref "a"`)
}

func TestValidateImportSchema_DependencyErrors(t *testing.T) {
	tests := []struct {
		name    string
		dep     DependencyImport
		wantMsg string
	}{
		{"unknown predecessor", DependencyImport{Predecessor: "zz", Successor: "b"}, `predecessor: ref "zz" not found`},
		{"unknown successor", DependencyImport{Predecessor: "a", Successor: "zz"}, `successor: ref "zz" not found`},
		{"self dependency", DependencyImport{Predecessor: "a", Successor: "a"}, "self-dependency"},
		{"unknown type", DependencyImport{Predecessor: "a", Successor: "b", Type: "XX"}, "dependencies[2].type"},
		{"duplicate link", DependencyImport{Predecessor: "a", Successor: "b", Type: "FINISH_TO_START"}, "duplicate FINISH_TO_START link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validChainSchema()
			s.Dependencies = append(s.Dependencies, tt.dep)
			errs := ValidateImportSchema(s)
			require.NotEmpty(t, errs)
			assert.Contains(t, joinErrors(errs), tt.wantMsg)
		})
	}
}

func TestValidateImportSchema_ReportsAllErrors(t *testing.T) {
	s := &ImportSchema{
		Tasks: []TaskImport{
			{Ref: "a"},
			{Ref: "a", Title: "dup", PercentComplete: ptrInt(200)},
		},
		Dependencies: []DependencyImport{{Predecessor: "a", Successor: "missing", Type: "??"}},
	}
	errs := ValidateImportSchema(s)
	// name, title, duplicate ref, percent, missing successor, bad type
	assert.Len(t, errs, 6)
}

func TestValidateImportSchema_LeavesCyclesToValidateAcyclic(t *testing.T) {
	s := validChainSchema()
	s.Dependencies = append(s.Dependencies, DependencyImport{Predecessor: "m", Successor: "a"})
	assert.Empty(t, ValidateImportSchema(s))
}

func TestValidateAcyclic(t *testing.T) {
	assert.NoError(t, ValidateAcyclic(validChainSchema()))

	s := validChainSchema()
	s.Dependencies = append(s.Dependencies, DependencyImport{Predecessor: "m", Successor: "a"})
	err := ValidateAcyclic(s)
	require.Error(t, err)
	assert.Equal(t, "dependencies: cycle a -> b -> m -> a", err.Error())
}

func TestFindCycle_Shapes(t *testing.T) {
	tasks := []TaskImport{{Ref: "a", Title: "A"}, {Ref: "b", Title: "B"}, {Ref: "c", Title: "C"}}
	link := func(p, s string) DependencyImport { return DependencyImport{Predecessor: p, Successor: s} }

	tests := []struct {
		name string
		deps []DependencyImport
		want []string
	}{
		{"none", nil, nil},
		{"diamond is acyclic", []DependencyImport{link("a", "b"), link("a", "c"), link("b", "c")}, nil},
		{"two-node loop", []DependencyImport{link("a", "b"), link("b", "a")}, []string{"a", "b", "a"}},
		{"loop off the first task", []DependencyImport{link("a", "b"), link("b", "c"), link("c", "b")}, []string{"b", "c", "b"}},
		{"loop through an unknown ref", []DependencyImport{link("a", "zz"), link("zz", "a")}, []string{"a", "zz", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ImportSchema{Project: ProjectImport{Name: "P"}, Tasks: tasks, Dependencies: tt.deps}
			assert.Equal(t, tt.want, FindCycle(s))
		})
	}
}

func joinErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}
