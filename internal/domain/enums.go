package domain

import (
	"fmt"
	"strings"
)

type DependencyType string

const (
	FinishToStart  DependencyType = "FINISH_TO_START"
	StartToStart   DependencyType = "START_TO_START"
	FinishToFinish DependencyType = "FINISH_TO_FINISH"
	StartToFinish  DependencyType = "START_TO_FINISH"
)

// ValidDependencyTypes is the canonical set of accepted dependency types.
var ValidDependencyTypes = map[DependencyType]bool{
	FinishToStart: true, StartToStart: true, FinishToFinish: true, StartToFinish: true,
}

// ParseDependencyType accepts the canonical names and the FS/SS/FF/SF shorthands.
func ParseDependencyType(s string) (DependencyType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FS", string(FinishToStart):
		return FinishToStart, nil
	case "SS", string(StartToStart):
		return StartToStart, nil
	case "FF", string(FinishToFinish):
		return FinishToFinish, nil
	case "SF", string(StartToFinish):
		return StartToFinish, nil
	}
	return "", fmt.Errorf("unknown dependency type %q", s)
}

type ConstraintType string

const (
	ConstraintNone             ConstraintType = "none"
	ConstraintMustStartOn      ConstraintType = "must_start_on"
	ConstraintMustFinishOn     ConstraintType = "must_finish_on"
	ConstraintAsSoonAsPossible ConstraintType = "as_soon_as_possible"
)

var ValidConstraintTypes = map[ConstraintType]bool{
	ConstraintNone: true, ConstraintMustStartOn: true,
	ConstraintMustFinishOn: true, ConstraintAsSoonAsPossible: true,
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Rank orders priorities LOW < MEDIUM < HIGH < CRITICAL. Unknown values rank as MEDIUM.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	default:
		return 1
	}
}

var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
}

type CascadeMode string

const (
	CascadeNone    CascadeMode = "none"
	CascadeForward CascadeMode = "forward"
)

// Audit entity types and actions written by the core.
const (
	AuditEntityTask     = "task"
	AuditEntityBaseline = "baseline"
	AuditEntityProject  = "project"

	AuditActionReschedule       = "reschedule"
	AuditActionCascade          = "cascade_shift"
	AuditActionBaselineCreate   = "baseline_create"
	AuditActionBaselineActivate = "baseline_activate"
	AuditActionSnapshot         = "earned_value_snapshot"
	AuditActionImport           = "import"
)
