package domain

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	CodeValidation          ErrorCode = "VALIDATION_FAILED"
	CodeBaselineLocked      ErrorCode = "BASELINE_LOCKED"
	CodeConflict            ErrorCode = "CONFLICT"
	CodeDependencyViolation ErrorCode = "DEPENDENCY_VIOLATION"

	CodeCostTrackingDisabled ErrorCode = "COST_TRACKING_DISABLED"
	CodeEarnedValueDisabled  ErrorCode = "EARNED_VALUE_DISABLED"
	CodeNoBudget             ErrorCode = "NO_BUDGET"
	CodeNoBaseline           ErrorCode = "NO_BASELINE"
)

// ValidationError rejects structurally invalid input before any write.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return string(CodeValidation) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %s", CodeValidation, e.Field, e.Message)
}

func (e *ValidationError) Code() ErrorCode { return CodeValidation }

// PreconditionError reports a missing project configuration required by an
// operation. Each missing precondition has its own code.
type PreconditionError struct {
	Reason  ErrorCode
	Message string
}

func (e *PreconditionError) Error() string {
	return "invalid configuration: " + string(e.Reason) + ": " + e.Message
}

func (e *PreconditionError) Code() ErrorCode { return e.Reason }

// LockedError is returned when something attempts to mutate a locked baseline.
type LockedError struct {
	EntityID string
	Message  string
}

func (e *LockedError) Error() string {
	return string(CodeBaselineLocked) + ": " + e.Message
}

func (e *LockedError) Code() ErrorCode { return CodeBaselineLocked }

// ConflictError signals that a concurrent writer changed the entity first.
// The core never retries; callers decide.
type ConflictError struct {
	EntityType string
	EntityID   string
	Message    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", CodeConflict, e.EntityType, e.EntityID, e.Message)
}

func (e *ConflictError) Code() ErrorCode { return CodeConflict }

// DependencyViolation describes one successor whose planned start falls
// before the earliest start its dependency allows.
type DependencyViolation struct {
	DependencyID     string
	PredecessorID    string
	SuccessorID      string
	Type             DependencyType
	LagMinutes       int
	CurrentStart     time.Time
	RequiredStart    time.Time
	ShortfallMinutes float64
}

// DependencyViolationError carries every violation found by a blocked reschedule.
type DependencyViolationError struct {
	TaskID     string
	Violations []DependencyViolation
}

func (e *DependencyViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s %s→%s short by %.0fm", v.Type, v.PredecessorID, v.SuccessorID, v.ShortfallMinutes))
	}
	return fmt.Sprintf("%s: rescheduling %s would violate %d dependencies: %s",
		CodeDependencyViolation, e.TaskID, len(e.Violations), strings.Join(parts, "; "))
}

func (e *DependencyViolationError) Code() ErrorCode { return CodeDependencyViolation }
