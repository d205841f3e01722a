package domain

import "fmt"

type Dependency struct {
	ID            string
	ProjectID     string
	PredecessorID string
	SuccessorID   string
	Type          DependencyType
	// LagMinutes may be negative (lead time).
	LagMinutes int
}

// Validate checks the structural invariants of a single dependency.
// Acyclicity of the whole set is checked by the critical path engine.
func (d *Dependency) Validate() error {
	if d.PredecessorID == "" || d.SuccessorID == "" {
		return NewValidationError("dependency", "predecessor and successor are required")
	}
	if d.PredecessorID == d.SuccessorID {
		return NewValidationError("dependency", fmt.Sprintf("task %s cannot depend on itself", d.PredecessorID))
	}
	if !ValidDependencyTypes[d.Type] {
		return NewValidationError("dependency.type", fmt.Sprintf("unknown dependency type %q", d.Type))
	}
	return nil
}
