package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(projectID string, asOf time.Time, pv float64) *domain.EarnedValueSnapshot {
	now := time.Now().UTC().Truncate(time.Second)
	cpi := 0.9
	return &domain.EarnedValueSnapshot{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		AsOfDate:  asOf,
		BAC:       1000,
		PV:        pv,
		EV:        400,
		AC:        450,
		CPI:       &cpi,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEarnedValueRepo_UpsertSameDateUpdatesRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, db)
	repo := NewSQLiteEarnedValueRepo(db)
	ctx := context.Background()
	day := testutil.Day("2026-03-10")

	first := newSnapshot(proj.ID, day, 500)
	require.NoError(t, repo.Upsert(ctx, first))
	firstID := first.ID

	second := newSnapshot(proj.ID, day, 650)
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, firstID, second.ID, "conflicting upsert keeps the original row id")

	list, err := repo.ListByProject(ctx, proj.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 650.0, list[0].PV)
}

func TestEarnedValueRepo_NullIndicesRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, db)
	repo := NewSQLiteEarnedValueRepo(db)
	ctx := context.Background()
	day := testutil.Day("2026-03-10")

	s := newSnapshot(proj.ID, day, 0)
	baselineID := "bl-1"
	s.BaselineID = &baselineID
	require.NoError(t, repo.Upsert(ctx, s))

	got, err := repo.GetByDate(ctx, proj.ID, day)
	require.NoError(t, err)
	require.NotNil(t, got.CPI)
	assert.Equal(t, 0.9, *got.CPI)
	assert.Nil(t, got.SPI)
	assert.Nil(t, got.EAC)
	require.NotNil(t, got.BaselineID)
	assert.Equal(t, "bl-1", *got.BaselineID)
	assert.True(t, day.Equal(got.AsOfDate))

	_, err = repo.GetByDate(ctx, proj.ID, day.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEarnedValueRepo_ListByProjectRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, db)
	repo := NewSQLiteEarnedValueRepo(db)
	ctx := context.Background()

	for _, d := range []string{"2026-03-12", "2026-03-10", "2026-03-11", "2026-03-13"} {
		require.NoError(t, repo.Upsert(ctx, newSnapshot(proj.ID, testutil.Day(d), 100)))
	}

	from, to := testutil.Day("2026-03-11"), testutil.Day("2026-03-12")
	list, err := repo.ListByProject(ctx, proj.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-11", list[0].AsOfDate.Format("2006-01-02"))
	assert.Equal(t, "2026-03-12", list[1].AsOfDate.Format("2006-01-02"))
}
