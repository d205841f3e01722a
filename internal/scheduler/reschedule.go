package scheduler

import (
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

// RequiredSuccessorStart returns the earliest planned start the dependency
// allows for its successor. FS and FF links bound it by pred's end plus lag,
// SS and SF links by pred's start plus lag, as in the forward pass of
// ComputeCriticalPath. ok is false when pred lacks the anchor date.
func RequiredSuccessorStart(pred *domain.Task, dep domain.Dependency) (time.Time, bool) {
	anchor := pred.PlannedEnd
	if dep.Type == domain.StartToStart || dep.Type == domain.StartToFinish {
		anchor = pred.PlannedStart
	}
	if anchor == nil || !domain.ValidDependencyTypes[dep.Type] {
		return time.Time{}, false
	}
	return anchor.Add(time.Duration(dep.LagMinutes) * time.Minute), true
}

// DetectSuccessorViolations checks every dependency where task is the
// predecessor against the successor's current planned start. Successors
// without a planned start cannot be violated.
func DetectSuccessorViolations(task *domain.Task, deps []domain.Dependency, successors map[string]*domain.Task) []domain.DependencyViolation {
	var out []domain.DependencyViolation
	for _, dep := range deps {
		if dep.PredecessorID != task.ID {
			continue
		}
		succ, ok := successors[dep.SuccessorID]
		if !ok || succ.PlannedStart == nil {
			continue
		}
		required, ok := RequiredSuccessorStart(task, dep)
		if !ok || !succ.PlannedStart.Before(required) {
			continue
		}
		out = append(out, domain.DependencyViolation{
			DependencyID:     dep.ID,
			PredecessorID:    task.ID,
			SuccessorID:      succ.ID,
			Type:             dep.Type,
			LagMinutes:       dep.LagMinutes,
			CurrentStart:     *succ.PlannedStart,
			RequiredStart:    required,
			ShortfallMinutes: required.Sub(*succ.PlannedStart).Minutes(),
		})
	}
	return out
}

// CascadeForward resolves violations one hop deep: each violating successor
// moves its start to the latest required start among its violations and its
// end by the same delta. The returned tasks are copies in first-seen order.
func CascadeForward(violations []domain.DependencyViolation, successors map[string]*domain.Task) []*domain.Task {
	required := make(map[string]time.Time)
	var order []string
	for _, v := range violations {
		cur, seen := required[v.SuccessorID]
		if !seen {
			order = append(order, v.SuccessorID)
		}
		if !seen || v.RequiredStart.After(cur) {
			required[v.SuccessorID] = v.RequiredStart
		}
	}

	shifted := make([]*domain.Task, 0, len(order))
	for _, id := range order {
		orig, ok := successors[id]
		if !ok || orig.PlannedStart == nil {
			continue
		}
		s := orig.Clone()
		delta := required[id].Sub(*orig.PlannedStart)
		start := required[id]
		s.PlannedStart = &start
		if s.PlannedEnd != nil {
			end := s.PlannedEnd.Add(delta)
			s.PlannedEnd = &end
		}
		shifted = append(shifted, s)
	}
	return shifted
}
