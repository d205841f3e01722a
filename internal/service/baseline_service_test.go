package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/scheduler"
	"github.com/alexanderramin/plancore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBaselineSvc(e *testEnv, observers ...UseCaseObserver) BaselineService {
	return NewBaselineService(e.projects, e.tasks, e.deps, e.baselines, e.uow, observers...)
}

func baselineReq(projectID, name string, activate bool) app.CreateBaselineRequest {
	return app.CreateBaselineRequest{
		OrganizationID: testutil.TestOrg,
		ProjectID:      projectID,
		Name:           name,
		ActorID:        "alice",
		Activate:       activate,
	}
}

func TestCreateBaseline_CapturesScheduleInTopologicalOrder(t *testing.T) {
	e := newTestEnv(t)
	p, a, b, c := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	bl, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "  Plan of record ", false))
	require.NoError(t, err)
	assert.Equal(t, "Plan of record", bl.Name)
	assert.True(t, bl.Locked)
	assert.False(t, bl.IsActive)
	assert.Equal(t, "alice", bl.CreatedBy)

	stored, err := svc.GetBaseline(ctx, testutil.TestOrg, bl.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 3)
	assert.Equal(t, a.ID, stored.Items[0].TaskID)
	assert.Equal(t, b.ID, stored.Items[1].TaskID)
	assert.Equal(t, c.ID, stored.Items[2].TaskID)
	assert.True(t, stored.Items[1].IsCritical)
	assert.False(t, stored.Items[2].IsCritical)
	assert.Equal(t, 2880.0, stored.Items[2].FloatMinutes)
	assert.Equal(t, 4320.0, stored.Items[1].DurationMinutes)

	assert.Equal(t, []string{domain.AuditActionBaselineCreate}, e.auditActions(t, domain.AuditEntityBaseline, bl.ID))
}

func TestCreateBaseline_ItemsAreFrozenAgainstLaterEdits(t *testing.T) {
	e := newTestEnv(t)
	p, _, b, _ := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	bl, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", true))
	require.NoError(t, err)

	moved := e.reload(t, b.ID)
	start, end := testutil.Day("2025-03-10"), testutil.Day("2025-03-13")
	moved.PlannedStart, moved.PlannedEnd = &start, &end
	require.NoError(t, e.tasks.Update(ctx, moved))

	stored, err := svc.GetBaseline(ctx, testutil.TestOrg, bl.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Day("2025-03-05"), *stored.Items[1].PlannedStart)
}

func TestCreateBaseline_ActivateReplacesPreviousActive(t *testing.T) {
	e := newTestEnv(t)
	p, _, _, _ := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	first, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", true))
	require.NoError(t, err)
	second, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v2", true))
	require.NoError(t, err)

	active, err := e.baselines.GetActive(ctx, testutil.TestOrg, p.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	list, err := svc.ListBaselines(ctx, testutil.TestOrg, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	actives := 0
	for _, b := range list {
		if b.IsActive {
			actives++
			assert.NotEqual(t, first.ID, b.ID)
		}
	}
	assert.Equal(t, 1, actives)
}

func TestActivateBaseline_SwitchesActive(t *testing.T) {
	e := newTestEnv(t)
	p, _, _, _ := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	first, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", true))
	require.NoError(t, err)
	_, err = svc.CreateBaseline(ctx, baselineReq(p.ID, "v2", true))
	require.NoError(t, err)

	got, err := svc.ActivateBaseline(ctx, testutil.TestOrg, first.ID, "bob")
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	active, err := e.baselines.GetActive(ctx, testutil.TestOrg, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
	assert.Equal(t, "v1", active.Name)
	assert.Contains(t, e.auditActions(t, domain.AuditEntityBaseline, first.ID), domain.AuditActionBaselineActivate)
}

func TestActivateBaseline_OtherOrganizationNotFound(t *testing.T) {
	e := newTestEnv(t)
	p, _, _, _ := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	bl, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", false))
	require.NoError(t, err)

	_, err = svc.ActivateBaseline(ctx, "intruder", bl.ID, "mallory")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestCreateBaseline_Rejections(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := newBaselineSvc(e)

	t.Run("blank name", func(t *testing.T) {
		p := e.project(t)
		e.task(t, p.ID, "Only")
		_, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "   ", false))
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("empty project", func(t *testing.T) {
		p := e.project(t)
		_, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", false))
		assert.ErrorIs(t, err, ErrEmptyProject)
	})

	t.Run("cyclic graph", func(t *testing.T) {
		p := e.project(t)
		a := e.task(t, p.ID, "A")
		b := e.task(t, p.ID, "B")
		e.link(t, p.ID, a.ID, b.ID)
		e.link(t, p.ID, b.ID, a.ID)
		_, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", false))
		require.Error(t, err)
		assert.ErrorIs(t, err, scheduler.ErrCycleDetected)

		list, err := svc.ListBaselines(ctx, testutil.TestOrg, p.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestCreateBaseline_RollbackKeepsPreviousActive(t *testing.T) {
	e := newTestEnv(t)
	p, _, _, _ := seedChain(t, e)
	ctx := context.Background()

	first, err := newBaselineSvc(e).CreateBaseline(ctx, baselineReq(p.ID, "v1", true))
	require.NoError(t, err)

	// Exec #1 deactivates, #2 inserts the header, #3 the first item.
	e.uow = &testutil.FailingUoW{DB: e.db, FailOn: 3, Err: fmt.Errorf("injected item failure")}
	_, err = newBaselineSvc(e).CreateBaseline(ctx, baselineReq(p.ID, "v2", true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected item failure")

	active, err := e.baselines.GetActive(ctx, testutil.TestOrg, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	list, err := e.baselines.ListByProject(ctx, testutil.TestOrg, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompareBaseline_ReportsSlipAgainstCapturedCriticality(t *testing.T) {
	e := newTestEnv(t)
	p, _, b, c := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	bl, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", true))
	require.NoError(t, err)

	for _, shift := range []struct {
		id         string
		start, end string
	}{
		{b.ID, "2025-03-06", "2025-03-09"},
		{c.ID, "2025-03-07", "2025-03-08"},
	} {
		task := e.reload(t, shift.id)
		s, en := testutil.Day(shift.start), testutil.Day(shift.end)
		task.PlannedStart, task.PlannedEnd = &s, &en
		require.NoError(t, e.tasks.Update(ctx, task))
	}

	report, err := svc.CompareBaseline(ctx, testutil.TestOrg, bl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.CountLate)
	assert.Equal(t, 2880.0, report.MaxSlipMinutes)
	assert.Equal(t, 1440.0, report.CriticalPathSlipMinutes)
}

func TestDeleteBaseline_AlwaysLocked(t *testing.T) {
	e := newTestEnv(t)
	p, _, _, _ := seedChain(t, e)
	svc := newBaselineSvc(e)
	ctx := context.Background()

	bl, err := svc.CreateBaseline(ctx, baselineReq(p.ID, "v1", false))
	require.NoError(t, err)

	err = svc.DeleteBaseline(ctx, testutil.TestOrg, bl.ID)
	var le *domain.LockedError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, domain.CodeBaselineLocked, le.Code())

	_, err = svc.GetBaseline(ctx, testutil.TestOrg, bl.ID)
	assert.NoError(t, err)
}
