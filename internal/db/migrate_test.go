package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"rosters", "roster_members", "allocation_runs", "assignments"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_roster_members_position", "idx_allocation_runs_roster"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestSchema_RejectsInvalidRows(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO rosters (id, group_count, student_count, created_at) VALUES ('r1', 2, 4, '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO roster_members (roster_id, student_id, group_id, position) VALUES ('r1', 'a', 0, 0)`)
	assert.Error(t, err, "group ids must be positive")

	_, err = db.Exec(`INSERT INTO allocation_runs (id, roster_id, assignments_per_student, seed, strategy, status, created_at)
		VALUES ('run1', 'r1', 1, 7, 'greedy', 'succeeded', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown strategy")

	_, err = db.Exec(`INSERT INTO allocation_runs (id, roster_id, assignments_per_student, seed, strategy, status, created_at)
		VALUES ('run2', 'missing', 1, 7, 'flow', 'succeeded', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "foreign keys are enforced")
}

func TestSchema_AssignmentsRejectDuplicateGroup(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO rosters (id, group_count, student_count, created_at) VALUES ('r1', 3, 3, '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO allocation_runs (id, roster_id, assignments_per_student, seed, strategy, status, created_at)
		VALUES ('run1', 'r1', 2, 7, 'rejection', 'succeeded', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO assignments (run_id, student_id, group_id, slot) VALUES ('run1', 'a', 2, 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO assignments (run_id, student_id, group_id, slot) VALUES ('run1', 'a', 2, 2)`)
	assert.Error(t, err)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}
