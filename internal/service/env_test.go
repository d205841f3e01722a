package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
	"github.com/alexanderramin/plancore/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv bundles the non-transactional repositories over one database.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	projects  *repository.SQLiteProjectRepo
	tasks     *repository.SQLiteTaskRepo
	deps      *repository.SQLiteDependencyRepo
	baselines *repository.SQLiteBaselineRepo
	snapshots *repository.SQLiteEarnedValueRepo
	audit     *repository.SQLiteAuditRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return envFor(testutil.NewTestDB(t))
}

// newFileTestEnv uses a file-backed database so concurrent goroutines hit
// separate connections.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return envFor(testutil.NewFileTestDB(t))
}

func envFor(database *sql.DB) *testEnv {
	return &testEnv{
		db:        database,
		uow:       db.NewSQLiteUnitOfWork(database),
		projects:  repository.NewSQLiteProjectRepo(database),
		tasks:     repository.NewSQLiteTaskRepo(database),
		deps:      repository.NewSQLiteDependencyRepo(database),
		baselines: repository.NewSQLiteBaselineRepo(database),
		snapshots: repository.NewSQLiteEarnedValueRepo(database),
		audit:     repository.NewSQLiteAuditRepo(database),
	}
}

func (e *testEnv) project(t *testing.T, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Warehouse", opts...)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) task(t *testing.T, projectID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, title, opts...)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *testEnv) link(t *testing.T, projectID, predID, succID string, opts ...testutil.DependencyOption) domain.Dependency {
	t.Helper()
	d := testutil.NewTestDependency(projectID, predID, succID, opts...)
	require.NoError(t, e.deps.Create(context.Background(), &d))
	return d
}

func (e *testEnv) reload(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := e.tasks.GetByID(context.Background(), testutil.TestOrg, id)
	require.NoError(t, err)
	return task
}

func (e *testEnv) auditActions(t *testing.T, entityType, entityID string) []string {
	t.Helper()
	recs, err := e.audit.ListByEntity(context.Background(), entityType, entityID)
	require.NoError(t, err)
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Action
	}
	return out
}

// recordingObserver captures use case events for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, ev := range o.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}
