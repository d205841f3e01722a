package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/scheduler"
	"github.com/alexanderramin/plancore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedChain creates A -> B and A -> C where C has two days of float.
func seedChain(t *testing.T, e *testEnv, opts ...testutil.ProjectOption) (*domain.Project, *domain.Task, *domain.Task, *domain.Task) {
	t.Helper()
	p := e.project(t, opts...)
	a := e.task(t, p.ID, "Design", testutil.WithPlannedDates(testutil.Day("2025-03-03"), testutil.Day("2025-03-05")))
	b := e.task(t, p.ID, "Build", testutil.WithPlannedDates(testutil.Day("2025-03-05"), testutil.Day("2025-03-08")))
	c := e.task(t, p.ID, "Docs", testutil.WithPlannedDates(testutil.Day("2025-03-05"), testutil.Day("2025-03-06")))
	e.link(t, p.ID, a.ID, b.ID)
	e.link(t, p.ID, a.ID, c.ID)
	return p, a, b, c
}

func TestComputeCriticalPath_PersistedGraph(t *testing.T) {
	e := newTestEnv(t)
	p, a, b, c := seedChain(t, e)
	obs := &recordingObserver{}
	svc := NewScheduleService(e.projects, e.tasks, e.deps, obs)

	r, err := svc.ComputeCriticalPath(context.Background(), app.NewCriticalPathRequest(testutil.TestOrg, p.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, r.CriticalPath)
	assert.Equal(t, 2880.0, r.Nodes[c.ID].TotalFloat)
	assert.Equal(t, 7200.0, r.ProjectFinish)

	ev := obs.last()
	assert.Equal(t, "compute-critical-path", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 3, ev.Fields["task_count"])
	assert.Equal(t, false, ev.Fields["cycle"])
}

func TestComputeCriticalPath_SoftDeletedTasksLeaveTheGraph(t *testing.T) {
	e := newTestEnv(t)
	p, a, b, c := seedChain(t, e)
	require.NoError(t, e.tasks.SoftDelete(context.Background(), testutil.TestOrg, b.ID))

	svc := NewScheduleService(e.projects, e.tasks, e.deps)
	r, err := svc.ComputeCriticalPath(context.Background(), app.NewCriticalPathRequest(testutil.TestOrg, p.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID}, r.Order)
	assert.Equal(t, []string{a.ID, c.ID}, r.CriticalPath)
}

func TestComputeCriticalPath_CycleIsAFindingNotAFailure(t *testing.T) {
	e := newTestEnv(t)
	p, a, b, _ := seedChain(t, e)
	e.link(t, p.ID, b.ID, a.ID)
	obs := &recordingObserver{}
	svc := NewScheduleService(e.projects, e.tasks, e.deps, obs)

	r, err := svc.ComputeCriticalPath(context.Background(), app.NewCriticalPathRequest(testutil.TestOrg, p.ID))
	require.NoError(t, err)
	assert.True(t, r.HasCycle())
	assert.Equal(t, scheduler.CycleMessage, r.Errors[0].Error())
	assert.Equal(t, true, obs.last().Fields["cycle"])
}

func TestComputeCriticalPath_RejectsUnknownMode(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t)
	svc := NewScheduleService(e.projects, e.tasks, e.deps)

	req := app.NewCriticalPathRequest(testutil.TestOrg, p.ID)
	req.Mode = "forecast"
	_, err := svc.ComputeCriticalPath(context.Background(), req)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mode", ve.Field)
}

func TestComputeCriticalPath_ScopedByOrganization(t *testing.T) {
	e := newTestEnv(t)
	p, _, _, _ := seedChain(t, e)
	svc := NewScheduleService(e.projects, e.tasks, e.deps)

	_, err := svc.ComputeCriticalPath(context.Background(), app.NewCriticalPathRequest("someone-else", p.ID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
