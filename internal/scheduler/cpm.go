package scheduler

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

type ScheduleMode string

const (
	ModePlanned ScheduleMode = "planned"
	ModeActual  ScheduleMode = "actual"
)

// ParseScheduleMode validates a user-supplied mode. Empty means planned.
func ParseScheduleMode(s string) (ScheduleMode, error) {
	switch ScheduleMode(s) {
	case "", ModePlanned:
		return ModePlanned, nil
	case ModeActual:
		return ModeActual, nil
	}
	return "", fmt.Errorf("unknown schedule mode %q (expected planned|actual)", s)
}

const (
	// DefaultDurationMin applies to tasks lacking either bounding date: one 8-hour day.
	DefaultDurationMin = 480.0

	// criticalToleranceMin absorbs rounding when comparing float to zero.
	criticalToleranceMin = 1.0

	// CycleMessage is the finding reported for a cyclic dependency graph.
	CycleMessage = "Cycle detected in task dependency graph"
)

// ErrCycleDetected is the kind carried by the GraphError reported for cycles.
var ErrCycleDetected = errors.New("cycle detected")

// GraphError is a graph integrity finding. It is returned as data in
// Result.Errors, never as a call failure.
type GraphError struct {
	Kind error
	// TaskIDs lists the tasks that could not be ordered (members of, or
	// downstream of, a cycle).
	TaskIDs []string
}

func (e *GraphError) Error() string {
	if errors.Is(e.Kind, ErrCycleDetected) {
		return CycleMessage
	}
	return e.Kind.Error()
}

func (e *GraphError) Unwrap() error { return e.Kind }

// ScheduleNode is the engine output for one task. All times are minutes
// relative to Result.Anchor.
type ScheduleNode struct {
	TaskID      string
	Duration    float64
	EarlyStart  float64
	EarlyFinish float64
	LateStart   float64
	LateFinish  float64
	TotalFloat  float64
	Critical    bool
}

type Result struct {
	Nodes map[string]*ScheduleNode
	// Order is the full topological order used for both passes.
	Order []string
	// CriticalPath lists critical task ids in topological order.
	CriticalPath  []string
	ProjectFinish float64
	// Anchor is the earliest bounding date seen in the chosen mode; minute 0
	// maps to it. Nil when no task has a date.
	Anchor *time.Time
	Errors []error
}

// HasCycle reports whether the computation stopped on a cycle.
func (r *Result) HasCycle() bool {
	for _, err := range r.Errors {
		if errors.Is(err, ErrCycleDetected) {
			return true
		}
	}
	return false
}

// At converts engine minutes back to a timestamp using the anchor.
func (r *Result) At(minutes float64) *time.Time {
	if r.Anchor == nil {
		return nil
	}
	t := r.Anchor.Add(time.Duration(minutes * float64(time.Minute)))
	return &t
}

type edge struct {
	peer int
	typ  domain.DependencyType
	lag  float64
}

// ComputeCriticalPath runs the CPM forward and backward passes over tasks and
// dependencies. It is pure and deterministic: identical inputs always yield the
// same order. Dependencies referencing unknown tasks are ignored. A cycle stops
// the computation and is reported in Result.Errors with empty results.
func ComputeCriticalPath(tasks []*domain.Task, deps []domain.Dependency, mode ScheduleMode) *Result {
	index := make(map[string]int, len(tasks))
	ordered := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, dup := index[t.ID]; dup {
			continue
		}
		index[t.ID] = len(ordered)
		ordered = append(ordered, t)
	}
	n := len(ordered)

	succ := make([][]edge, n)
	pred := make([][]edge, n)
	indeg := make([]int, n)
	for _, d := range deps {
		from, okFrom := index[d.PredecessorID]
		to, okTo := index[d.SuccessorID]
		if !okFrom || !okTo {
			continue
		}
		lag := float64(d.LagMinutes)
		succ[from] = append(succ[from], edge{peer: to, typ: d.Type, lag: lag})
		pred[to] = append(pred[to], edge{peer: from, typ: d.Type, lag: lag})
		indeg[to]++
	}

	order := topoOrder(succ, indeg)
	if len(order) < n {
		return &Result{
			Nodes:  map[string]*ScheduleNode{},
			Errors: []error{&GraphError{Kind: ErrCycleDetected, TaskIDs: unordered(ordered, order)}},
		}
	}

	nodes := make([]ScheduleNode, n)
	for i, t := range ordered {
		nodes[i] = ScheduleNode{TaskID: t.ID, Duration: TaskDuration(t, mode)}
	}

	// Forward pass.
	var projectFinish float64
	for _, i := range order {
		es := 0.0
		for _, e := range pred[i] {
			if c := forwardAnchor(&nodes[e.peer], e.typ) + e.lag; c > es {
				es = c
			}
		}
		nodes[i].EarlyStart = es
		nodes[i].EarlyFinish = es + nodes[i].Duration
		if nodes[i].EarlyFinish > projectFinish {
			projectFinish = nodes[i].EarlyFinish
		}
	}

	// Backward pass mirrors the anchor each link used going forward.
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		lf := projectFinish
		for _, e := range succ[i] {
			if c := backwardBound(&nodes[i], &nodes[e.peer], e); c < lf {
				lf = c
			}
		}
		nodes[i].LateFinish = lf
		nodes[i].LateStart = lf - nodes[i].Duration
	}

	result := &Result{
		Nodes:         make(map[string]*ScheduleNode, n),
		Order:         make([]string, 0, n),
		ProjectFinish: projectFinish,
		Anchor:        earliestDate(ordered, mode),
	}
	for _, i := range order {
		node := &nodes[i]
		node.TotalFloat = node.LateStart - node.EarlyStart
		node.Critical = math.Abs(node.TotalFloat) < criticalToleranceMin
		result.Nodes[node.TaskID] = node
		result.Order = append(result.Order, node.TaskID)
		if node.Critical {
			result.CriticalPath = append(result.CriticalPath, node.TaskID)
		}
	}
	return result
}

// forwardAnchor returns the predecessor time a link type constrains the
// successor's early start against.
func forwardAnchor(p *ScheduleNode, typ domain.DependencyType) float64 {
	switch typ {
	case domain.StartToStart, domain.StartToFinish:
		return p.EarlyStart
	default: // FINISH_TO_START, FINISH_TO_FINISH
		return p.EarlyFinish
	}
}

// backwardBound returns the latest finish the successor s allows for p.
func backwardBound(p, s *ScheduleNode, e edge) float64 {
	switch e.typ {
	case domain.StartToStart, domain.StartToFinish:
		return s.LateStart - e.lag + p.Duration
	default:
		return s.LateStart - e.lag
	}
}

// TaskDuration returns the task's duration in minutes for the given mode.
// Milestones are always zero; tasks missing a bounding date default to one
// working day.
func TaskDuration(t *domain.Task, mode ScheduleMode) float64 {
	if t.IsMilestone {
		return 0
	}
	start, end := bounds(t, mode)
	if start == nil || end == nil {
		return DefaultDurationMin
	}
	d := end.Sub(*start).Minutes()
	if d < 0 {
		return 0
	}
	return d
}

func bounds(t *domain.Task, mode ScheduleMode) (*time.Time, *time.Time) {
	if mode == ModeActual {
		return t.ActualStart, t.ActualEnd
	}
	return t.PlannedStart, t.PlannedEnd
}

func earliestDate(tasks []*domain.Task, mode ScheduleMode) *time.Time {
	var earliest *time.Time
	for _, t := range tasks {
		start, end := bounds(t, mode)
		for _, d := range []*time.Time{start, end} {
			if d != nil && (earliest == nil || d.Before(*earliest)) {
				v := *d
				earliest = &v
			}
		}
	}
	return earliest
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder is Kahn's algorithm with a min-heap ready queue keyed on input
// position, so ties always break the same way.
func topoOrder(succ [][]edge, indeg []int) []int {
	remaining := make([]int, len(indeg))
	copy(remaining, indeg)

	ready := &indexHeap{}
	for i, d := range remaining {
		if d == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	out := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		out = append(out, i)
		for _, e := range succ[i] {
			remaining[e.peer]--
			if remaining[e.peer] == 0 {
				heap.Push(ready, e.peer)
			}
		}
	}
	return out
}

func unordered(tasks []*domain.Task, order []int) []string {
	seen := make([]bool, len(tasks))
	for _, i := range order {
		seen[i] = true
	}
	var ids []string
	for i, t := range tasks {
		if !seen[i] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
