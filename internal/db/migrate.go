package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS rosters (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		group_count   INTEGER NOT NULL CHECK(group_count > 0),
		student_count INTEGER NOT NULL CHECK(student_count > 0),
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS roster_members (
		roster_id  TEXT NOT NULL REFERENCES rosters(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		group_id   INTEGER NOT NULL CHECK(group_id > 0),
		position   INTEGER NOT NULL,
		PRIMARY KEY (roster_id, student_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_roster_members_position ON roster_members(roster_id, position)`,

	`CREATE TABLE IF NOT EXISTS allocation_runs (
		id                      TEXT PRIMARY KEY,
		roster_id               TEXT NOT NULL REFERENCES rosters(id) ON DELETE CASCADE,
		assignments_per_student INTEGER NOT NULL CHECK(assignments_per_student > 0),
		seed                    INTEGER NOT NULL,
		strategy                TEXT NOT NULL CHECK(strategy IN ('rejection','flow')),
		status                  TEXT NOT NULL CHECK(status IN ('succeeded','failed')),
		error_code              TEXT NOT NULL DEFAULT '',
		error_message           TEXT NOT NULL DEFAULT '',
		draws                   INTEGER NOT NULL DEFAULT 0,
		rejections              INTEGER NOT NULL DEFAULT 0,
		created_at              TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_allocation_runs_roster ON allocation_runs(roster_id)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		run_id     TEXT NOT NULL REFERENCES allocation_runs(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		group_id   INTEGER NOT NULL CHECK(group_id > 0),
		slot       INTEGER NOT NULL CHECK(slot > 0),
		PRIMARY KEY (run_id, student_id, slot),
		UNIQUE (run_id, student_id, group_id)
	)`,
}
