package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level YAML structure of a project graph file.
type ImportSchema struct {
	Project      ProjectImport      `yaml:"project"`
	Tasks        []TaskImport       `yaml:"tasks"`
	Dependencies []DependencyImport `yaml:"dependencies,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Name             string  `yaml:"name"`
	BudgetAmount     float64 `yaml:"budget_amount,omitempty"`
	LaborRatePerHour float64 `yaml:"labor_rate_per_hour,omitempty"`
	CostTracking     bool    `yaml:"cost_tracking,omitempty"`
	EarnedValue      bool    `yaml:"earned_value,omitempty"`
	Waterfall        bool    `yaml:"waterfall,omitempty"`
}

// TaskImport defines a task in the import file. Dates accept YYYY-MM-DD or
// RFC 3339. ID is optional; a fresh id is generated when it is empty.
type TaskImport struct {
	Ref             string  `yaml:"ref"`
	ID              string  `yaml:"id,omitempty"`
	Title           string  `yaml:"title"`
	Assignee        string  `yaml:"assignee,omitempty"`
	PlannedStart    *string `yaml:"planned_start,omitempty"`
	PlannedEnd      *string `yaml:"planned_end,omitempty"`
	ActualStart     *string `yaml:"actual_start,omitempty"`
	ActualEnd       *string `yaml:"actual_end,omitempty"`
	PercentComplete *int    `yaml:"percent_complete,omitempty"`
	Milestone       bool    `yaml:"milestone,omitempty"`
	ConstraintType  string  `yaml:"constraint_type,omitempty"`
	ConstraintDate  *string `yaml:"constraint_date,omitempty"`
	Priority        string  `yaml:"priority,omitempty"`
	ActualHours     float64 `yaml:"actual_hours,omitempty"`
}

// DependencyImport links two tasks by ref. Type accepts FS/SS/FF/SF or the
// long names; empty means finish-to-start.
type DependencyImport struct {
	Predecessor string `yaml:"predecessor"`
	Successor   string `yaml:"successor"`
	Type        string `yaml:"type,omitempty"`
	LagMinutes  int    `yaml:"lag_minutes,omitempty"`
}

// LoadImportSchema reads and parses a project graph file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema parses a project graph document.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
