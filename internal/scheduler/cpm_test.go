package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func planned(id, start, end string) *domain.Task {
	s, e := day(start), day(end)
	return &domain.Task{ID: id, Title: id, PlannedStart: &s, PlannedEnd: &e, Priority: domain.PriorityMedium}
}

func fs(pred, succ string) domain.Dependency {
	return domain.Dependency{ID: pred + "-" + succ, PredecessorID: pred, SuccessorID: succ, Type: domain.FinishToStart}
}

func TestComputeCriticalPath_ChainWithParallelBranch(t *testing.T) {
	tasks := []*domain.Task{
		planned("A", "2025-03-03", "2025-03-05"),
		planned("B", "2025-03-05", "2025-03-08"),
		planned("C", "2025-03-05", "2025-03-06"),
	}
	deps := []domain.Dependency{fs("A", "B"), fs("A", "C")}

	r := ComputeCriticalPath(tasks, deps, ModePlanned)
	require.Empty(t, r.Errors)

	assert.Equal(t, []string{"A", "B", "C"}, r.Order)
	assert.Equal(t, []string{"A", "B"}, r.CriticalPath)
	assert.Equal(t, 7200.0, r.ProjectFinish)
	require.NotNil(t, r.Anchor)
	assert.Equal(t, day("2025-03-03"), *r.Anchor)

	b := r.Nodes["B"]
	assert.Equal(t, 2880.0, b.EarlyStart)
	assert.Equal(t, 7200.0, b.EarlyFinish)
	assert.Equal(t, 0.0, b.TotalFloat)

	c := r.Nodes["C"]
	assert.Equal(t, 2880.0, c.EarlyStart)
	assert.Equal(t, 5760.0, c.LateStart)
	assert.Equal(t, 2880.0, c.TotalFloat)
	assert.False(t, c.Critical)

	assert.Equal(t, day("2025-03-08"), *r.At(r.ProjectFinish))
}

func TestComputeCriticalPath_CycleReportedAsData(t *testing.T) {
	tasks := []*domain.Task{
		planned("A", "2025-03-03", "2025-03-04"),
		planned("B", "2025-03-04", "2025-03-05"),
		planned("C", "2025-03-05", "2025-03-06"),
	}
	deps := []domain.Dependency{fs("A", "B"), fs("B", "A")}

	r := ComputeCriticalPath(tasks, deps, ModePlanned)
	require.Len(t, r.Errors, 1)
	assert.True(t, r.HasCycle())
	assert.Equal(t, CycleMessage, r.Errors[0].Error())
	assert.Empty(t, r.Nodes)
	assert.Empty(t, r.CriticalPath)
	assert.Zero(t, r.ProjectFinish)

	var ge *GraphError
	require.True(t, errors.As(r.Errors[0], &ge))
	assert.Equal(t, []string{"A", "B"}, ge.TaskIDs)
	assert.ErrorIs(t, r.Errors[0], ErrCycleDetected)
}

func TestComputeCriticalPath_MilestoneHasZeroDuration(t *testing.T) {
	a := planned("A", "2025-03-03", "2025-03-04")
	m := planned("M", "2025-03-04", "2025-03-06")
	m.IsMilestone = true

	r := ComputeCriticalPath([]*domain.Task{a, m}, []domain.Dependency{fs("A", "M")}, ModePlanned)
	require.Empty(t, r.Errors)
	assert.Equal(t, 0.0, r.Nodes["M"].Duration)
	assert.Equal(t, r.Nodes["M"].EarlyStart, r.Nodes["M"].EarlyFinish)
	assert.Equal(t, 1440.0, r.ProjectFinish)
	assert.Equal(t, []string{"A", "M"}, r.CriticalPath)
}

func TestComputeCriticalPath_LagDelaysSuccessor(t *testing.T) {
	a := planned("A", "2025-03-03", "2025-03-04")
	b := planned("B", "2025-03-04", "2025-03-05")
	dep := fs("A", "B")
	dep.LagMinutes = 60

	r := ComputeCriticalPath([]*domain.Task{a, b}, []domain.Dependency{dep}, ModePlanned)
	assert.Equal(t, 1500.0, r.Nodes["B"].EarlyStart)
	assert.Equal(t, 2940.0, r.ProjectFinish)
	assert.True(t, r.Nodes["A"].Critical)
}

func TestComputeCriticalPath_StartToStart(t *testing.T) {
	// A has no dates and defaults to one working day.
	a := &domain.Task{ID: "A"}
	b := planned("B", "2025-03-03", "2025-03-04")
	dep := domain.Dependency{PredecessorID: "A", SuccessorID: "B", Type: domain.StartToStart, LagMinutes: 120}

	r := ComputeCriticalPath([]*domain.Task{a, b}, []domain.Dependency{dep}, ModePlanned)
	require.Empty(t, r.Errors)
	assert.Equal(t, DefaultDurationMin, r.Nodes["A"].Duration)
	assert.Equal(t, 120.0, r.Nodes["B"].EarlyStart)
	assert.Equal(t, 1560.0, r.ProjectFinish)
	assert.Equal(t, 0.0, r.Nodes["A"].TotalFloat)
	assert.Equal(t, []string{"A", "B"}, r.CriticalPath)
}

func TestComputeCriticalPath_ActualMode(t *testing.T) {
	a := planned("A", "2025-03-03", "2025-03-04")
	as, ae := day("2025-03-03"), day("2025-03-06")
	a.ActualStart, a.ActualEnd = &as, &ae

	r := ComputeCriticalPath([]*domain.Task{a}, nil, ModeActual)
	assert.Equal(t, 4320.0, r.Nodes["A"].Duration)
}

func TestComputeCriticalPath_IgnoresUnknownEndpoints(t *testing.T) {
	a := planned("A", "2025-03-03", "2025-03-04")
	r := ComputeCriticalPath([]*domain.Task{a}, []domain.Dependency{fs("A", "ghost")}, ModePlanned)
	require.Empty(t, r.Errors)
	assert.Equal(t, []string{"A"}, r.Order)
}

func TestComputeCriticalPath_Empty(t *testing.T) {
	r := ComputeCriticalPath(nil, nil, ModePlanned)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Order)
	assert.Nil(t, r.Anchor)
	assert.Nil(t, r.At(10))
}

func TestComputeCriticalPath_Deterministic(t *testing.T) {
	tasks := []*domain.Task{
		planned("A", "2025-03-03", "2025-03-04"),
		planned("B", "2025-03-03", "2025-03-04"),
		planned("C", "2025-03-03", "2025-03-04"),
		planned("D", "2025-03-03", "2025-03-05"),
	}
	deps := []domain.Dependency{fs("A", "D"), fs("B", "D"), fs("C", "D")}

	first := ComputeCriticalPath(tasks, deps, ModePlanned)
	for i := 0; i < 20; i++ {
		again := ComputeCriticalPath(tasks, deps, ModePlanned)
		assert.Equal(t, first.Order, again.Order)
		assert.Equal(t, first.CriticalPath, again.CriticalPath)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, first.Order)
}

func TestParseScheduleMode(t *testing.T) {
	m, err := ParseScheduleMode("")
	require.NoError(t, err)
	assert.Equal(t, ModePlanned, m)

	m, err = ParseScheduleMode("actual")
	require.NoError(t, err)
	assert.Equal(t, ModeActual, m)

	_, err = ParseScheduleMode("forecast")
	assert.Error(t, err)
}

func TestTaskDuration(t *testing.T) {
	inverted := planned("X", "2025-03-05", "2025-03-03")
	assert.Equal(t, 0.0, TaskDuration(inverted, ModePlanned))
	assert.Equal(t, DefaultDurationMin, TaskDuration(&domain.Task{ID: "Y"}, ModePlanned))
}

// Random DAGs over all four link types with signed lag: edges always point
// from a lower to a higher index, so the graph is acyclic by construction.
func TestComputeCriticalPath_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		base := day("2025-03-03")

		tasks := make([]*domain.Task, n)
		for i := range tasks {
			dur := rapid.IntRange(0, 5000).Draw(rt, "dur")
			s := base
			e := base.Add(time.Duration(dur) * time.Minute)
			tasks[i] = &domain.Task{ID: string(rune('a' + i)), PlannedStart: &s, PlannedEnd: &e}
		}

		var deps []domain.Dependency
		for j := 1; j < n; j++ {
			for i := 0; i < j; i++ {
				if rapid.Bool().Draw(rt, "edge") {
					d := fs(tasks[i].ID, tasks[j].ID)
					d.Type = rapid.SampledFrom(linkTypes).Draw(rt, "type")
					d.LagMinutes = rapid.IntRange(-3000, 3000).Draw(rt, "lag")
					deps = append(deps, d)
				}
			}
		}

		r := ComputeCriticalPath(tasks, deps, ModePlanned)
		if len(r.Errors) != 0 {
			rt.Fatalf("unexpected errors on a DAG: %v", r.Errors)
		}
		if len(r.Order) != n {
			rt.Fatalf("order has %d tasks, want %d", len(r.Order), n)
		}
		if len(r.CriticalPath) == 0 {
			rt.Fatalf("no critical task")
		}

		var maxEF float64
		for _, node := range r.Nodes {
			if node.EarlyStart < 0 {
				rt.Fatalf("%s starts before the anchor", node.TaskID)
			}
			if node.EarlyFinish != node.EarlyStart+node.Duration {
				rt.Fatalf("%s EF != ES + duration", node.TaskID)
			}
			if node.TotalFloat < -1e-9 {
				rt.Fatalf("%s has negative float %v", node.TaskID, node.TotalFloat)
			}
			if node.EarlyFinish > maxEF {
				maxEF = node.EarlyFinish
			}
		}
		if r.ProjectFinish != maxEF {
			rt.Fatalf("project finish %v != max EF %v", r.ProjectFinish, maxEF)
		}
		for _, d := range deps {
			p, s := r.Nodes[d.PredecessorID], r.Nodes[d.SuccessorID]
			if s.EarlyStart < linkAnchor(p, d.Type)+float64(d.LagMinutes) {
				rt.Fatalf("%s link violated: %s starts at %v", d.Type, s.TaskID, s.EarlyStart)
			}
		}
	})
}

var linkTypes = []domain.DependencyType{
	domain.FinishToStart, domain.StartToStart, domain.FinishToFinish, domain.StartToFinish,
}

func linkAnchor(p *ScheduleNode, typ domain.DependencyType) float64 {
	if typ == domain.StartToStart || typ == domain.StartToFinish {
		return p.EarlyStart
	}
	return p.EarlyFinish
}

func TestComputeCriticalPath_LinkTypes(t *testing.T) {
	tests := []struct {
		typ    domain.DependencyType
		lag    int
		wantES float64
	}{
		{domain.FinishToStart, 0, 2880},
		{domain.StartToStart, 0, 0},
		{domain.FinishToFinish, 0, 2880},
		{domain.StartToFinish, 60, 60},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			tasks := []*domain.Task{
				planned("P", "2025-03-03", "2025-03-05"),
				planned("S", "2025-03-03", "2025-03-04"),
			}
			dep := fs("P", "S")
			dep.Type, dep.LagMinutes = tt.typ, tt.lag

			r := ComputeCriticalPath(tasks, []domain.Dependency{dep}, ModePlanned)
			require.Empty(t, r.Errors)
			assert.Equal(t, tt.wantES, r.Nodes["S"].EarlyStart)
			assert.GreaterOrEqual(t, r.Nodes["P"].TotalFloat, 0.0)
			assert.GreaterOrEqual(t, r.Nodes["S"].TotalFloat, 0.0)
		})
	}
}

func TestComputeCriticalPath_NegativeLagOverlapsPredecessor(t *testing.T) {
	tasks := []*domain.Task{
		planned("A", "2025-03-03", "2025-03-05"),
		planned("B", "2025-03-05", "2025-03-06"),
	}
	dep := fs("A", "B")
	dep.LagMinutes = -1440

	r := ComputeCriticalPath(tasks, []domain.Dependency{dep}, ModePlanned)
	require.Empty(t, r.Errors)
	a, b := r.Nodes["A"], r.Nodes["B"]
	assert.Equal(t, 2880.0, a.EarlyFinish)
	assert.Equal(t, 1440.0, b.EarlyStart)
	assert.Less(t, b.EarlyStart, a.EarlyFinish, "a lead lets B start before A finishes")
	assert.GreaterOrEqual(t, a.TotalFloat, 0.0)
}

func TestComputeCriticalPath_ScenarioChain(t *testing.T) {
	tasks := []*domain.Task{
		planned("A", "2026-03-01", "2026-03-02"),
		planned("B", "2026-03-02", "2026-03-04"),
		planned("C", "2026-03-04", "2026-03-05"),
	}
	r := ComputeCriticalPath(tasks, []domain.Dependency{fs("A", "B"), fs("B", "C")}, ModePlanned)
	require.Empty(t, r.Errors)

	assert.Equal(t, []string{"A", "B", "C"}, r.CriticalPath)
	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, 0.0, r.Nodes[id].TotalFloat, id)
	}
	assert.Equal(t, 4*1440.0, r.ProjectFinish)
	assert.Equal(t, day("2026-03-05"), *r.At(r.ProjectFinish))
}

func TestComputeCriticalPath_ScenarioParallelFeeders(t *testing.T) {
	tasks := []*domain.Task{
		planned("A", "2026-03-01", "2026-03-02"),
		planned("B", "2026-03-01", "2026-03-04"),
		planned("C", "2026-03-04", "2026-03-05"),
	}
	r := ComputeCriticalPath(tasks, []domain.Dependency{fs("A", "C"), fs("B", "C")}, ModePlanned)
	require.Empty(t, r.Errors)

	assert.Equal(t, []string{"B", "C"}, r.CriticalPath)
	assert.False(t, r.Nodes["A"].Critical)
	assert.Equal(t, 2880.0, r.Nodes["A"].TotalFloat, "B's duration minus A's")
}

func TestComputeCriticalPath_ThousandTasks(t *testing.T) {
	const n = 1000
	tasks := make([]*domain.Task, n)
	for i := range tasks {
		tasks[i] = planned(fmt.Sprintf("t%04d", i), "2025-03-03", "2025-03-04")
	}

	shapes := map[string][]domain.Dependency{}
	for i := 1; i < n; i++ {
		shapes["chain"] = append(shapes["chain"], fs(tasks[i-1].ID, tasks[i].ID))
		shapes["fan"] = append(shapes["fan"], fs(tasks[0].ID, tasks[i].ID))
	}

	for name, deps := range shapes {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			r := ComputeCriticalPath(tasks, deps, ModePlanned)
			elapsed := time.Since(start)

			require.Empty(t, r.Errors)
			assert.Len(t, r.Order, n)
			assert.Less(t, elapsed, time.Second)
		})
	}
}
