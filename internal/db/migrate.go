package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// LockedMarker prefixes every error raised by the baseline immutability triggers.
const LockedMarker = "BASELINE_LOCKED"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                    TEXT PRIMARY KEY,
		organization_id       TEXT NOT NULL,
		name                  TEXT NOT NULL,
		budget_amount         REAL NOT NULL DEFAULT 0,
		labor_rate_per_hour   REAL NOT NULL DEFAULT 0,
		cost_tracking_enabled INTEGER NOT NULL DEFAULT 0,
		earned_value_enabled  INTEGER NOT NULL DEFAULT 0,
		waterfall_enabled     INTEGER NOT NULL DEFAULT 0,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		organization_id  TEXT NOT NULL,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		assignee_id      TEXT NOT NULL DEFAULT '',
		planned_start    TEXT,
		planned_end      TEXT,
		actual_start     TEXT,
		actual_end       TEXT,
		percent_complete INTEGER NOT NULL DEFAULT 0
		                 CHECK(percent_complete BETWEEN 0 AND 100),
		is_milestone     INTEGER NOT NULL DEFAULT 0,
		constraint_type  TEXT NOT NULL DEFAULT 'none'
		                 CHECK(constraint_type IN ('none','must_start_on','must_finish_on','as_soon_as_possible')),
		constraint_date  TEXT,
		priority         TEXT NOT NULL DEFAULT 'MEDIUM'
		                 CHECK(priority IN ('LOW','MEDIUM','HIGH','CRITICAL')),
		actual_hours     REAL NOT NULL DEFAULT 0,
		version          INTEGER NOT NULL DEFAULT 1,
		deleted_at       TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		type           TEXT NOT NULL DEFAULT 'FINISH_TO_START'
		               CHECK(type IN ('FINISH_TO_START','START_TO_START','FINISH_TO_FINISH','START_TO_FINISH')),
		lag_minutes    INTEGER NOT NULL DEFAULT 0,
		CHECK(predecessor_id != successor_id),
		UNIQUE(predecessor_id, successor_id, type)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_dependencies_project ON dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_predecessor ON dependencies(predecessor_id)`,

	// A project with baselines cannot be hard-deleted.
	`CREATE TABLE IF NOT EXISTS baselines (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE RESTRICT,
		name            TEXT NOT NULL,
		locked          INTEGER NOT NULL DEFAULT 1 CHECK(locked = 1),
		is_active       INTEGER NOT NULL DEFAULT 0,
		created_by      TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_baselines_project ON baselines(project_id)`,

	// At most one active baseline per project.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_baselines_one_active
		ON baselines(project_id) WHERE is_active = 1`,

	`CREATE TABLE IF NOT EXISTS baseline_items (
		id               TEXT PRIMARY KEY,
		baseline_id      TEXT NOT NULL REFERENCES baselines(id) ON DELETE RESTRICT,
		task_id          TEXT NOT NULL,
		position         INTEGER NOT NULL,
		planned_start    TEXT,
		planned_end      TEXT,
		duration_minutes REAL NOT NULL DEFAULT 0,
		is_critical      INTEGER NOT NULL DEFAULT 0,
		float_minutes    REAL NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_baseline_items_baseline ON baseline_items(baseline_id, position)`,

	// Baselines are write-once; only the is_active flag may change.
	`CREATE TRIGGER IF NOT EXISTS trg_baselines_locked
		BEFORE UPDATE OF organization_id, project_id, name, locked, created_by, created_at ON baselines
		BEGIN
			SELECT RAISE(ABORT, 'BASELINE_LOCKED: baseline fields are immutable');
		END`,

	`CREATE TRIGGER IF NOT EXISTS trg_baselines_no_delete
		BEFORE DELETE ON baselines
		WHEN OLD.locked = 1
		BEGIN
			SELECT RAISE(ABORT, 'BASELINE_LOCKED: locked baselines cannot be deleted');
		END`,

	`CREATE TRIGGER IF NOT EXISTS trg_baseline_items_locked
		BEFORE UPDATE ON baseline_items
		BEGIN
			SELECT RAISE(ABORT, 'BASELINE_LOCKED: baseline items are immutable');
		END`,

	`CREATE TRIGGER IF NOT EXISTS trg_baseline_items_no_delete
		BEFORE DELETE ON baseline_items
		WHEN (SELECT locked FROM baselines WHERE id = OLD.baseline_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'BASELINE_LOCKED: baseline items are immutable');
		END`,

	`CREATE TABLE IF NOT EXISTS earned_value_snapshots (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		baseline_id TEXT,
		as_of_date  TEXT NOT NULL,
		bac         REAL NOT NULL,
		pv          REAL NOT NULL,
		ev          REAL NOT NULL,
		ac          REAL NOT NULL,
		cpi         REAL,
		spi         REAL,
		eac         REAL,
		etc_value   REAL,
		vac         REAL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(project_id, as_of_date)
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id              TEXT PRIMARY KEY,
		entity_type     TEXT NOT NULL,
		entity_id       TEXT NOT NULL,
		action          TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		actor_id        TEXT NOT NULL DEFAULT '',
		metadata        TEXT NOT NULL DEFAULT '{}',
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id)`,
}
