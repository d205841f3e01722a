package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/plancore/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a migrated in-memory database on a single connection,
// closed with the test. Reads issued inside an open UnitOfWork would block
// on that connection, so tests read before or after WithinTx.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory plan database")
	t.Cleanup(func() { database.Close() })
	return database
}

// NewFileTestDB returns a migrated WAL database in the test's temp dir.
// Concurrent writers get their own connections and contend on the SQLite
// write lock the way the CLI does.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "plancore_test.db"))
	require.NoError(t, err, "opening file-backed plan database")
	t.Cleanup(func() { database.Close() })
	return database
}

// CountRows counts the rows of table matching where (a SQL condition,
// "1=1" for all rows). It is used to assert that a refused operation wrote
// nothing.
func CountRows(t *testing.T, database *sql.DB, table, where string, args ...any) int {
	t.Helper()
	var n int
	err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE `+where, args...).Scan(&n)
	require.NoError(t, err, "counting %s", table)
	return n
}
