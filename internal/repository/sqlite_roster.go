package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/peerassign/internal/db"
	"github.com/alexanderramin/peerassign/internal/domain"
)

// SQLiteRosterRepo implements RosterRepo using a SQLite database.
type SQLiteRosterRepo struct {
	db db.DBTX
}

// NewSQLiteRosterRepo creates a new SQLiteRosterRepo.
func NewSQLiteRosterRepo(db db.DBTX) *SQLiteRosterRepo {
	return &SQLiteRosterRepo{db: db}
}

// Create inserts the roster header and all memberships.
func (r *SQLiteRosterRepo) Create(ctx context.Context, ro *domain.Roster) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rosters (id, name, group_count, student_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		ro.ID, ro.Name, ro.GroupCount, ro.StudentCount, formatTime(ro.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting roster: %w", err)
	}

	for _, m := range ro.Members {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO roster_members (roster_id, student_id, group_id, position) VALUES (?, ?, ?, ?)`,
			ro.ID, string(m.StudentID), int(m.GroupID), m.Position,
		)
		if err != nil {
			return fmt.Errorf("inserting roster member %q: %w", m.StudentID, err)
		}
	}
	return nil
}

// GetByID loads a roster with its members in original order.
func (r *SQLiteRosterRepo) GetByID(ctx context.Context, id string) (*domain.Roster, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, group_count, student_count, created_at FROM rosters WHERE id = ?`, id)

	ro, err := scanRoster(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT student_id, group_id, position FROM roster_members WHERE roster_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("listing roster members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Membership
		var student string
		var group int
		if err := rows.Scan(&student, &group, &m.Position); err != nil {
			return nil, fmt.Errorf("scanning roster member: %w", err)
		}
		m.StudentID = domain.StudentID(student)
		m.GroupID = domain.GroupID(group)
		ro.Members = append(ro.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster members: %w", err)
	}
	return ro, nil
}

// List returns roster headers, newest first. Members are not loaded.
func (r *SQLiteRosterRepo) List(ctx context.Context) ([]*domain.Roster, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, group_count, student_count, created_at FROM rosters ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing rosters: %w", err)
	}
	defer rows.Close()

	var out []*domain.Roster
	for rows.Next() {
		ro, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rosters: %w", err)
	}
	return out, nil
}

func (r *SQLiteRosterRepo) DeleteIfUnused(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rosters WHERE id = ? AND NOT EXISTS (SELECT 1 FROM allocation_runs WHERE roster_id = ?)`, id, id)
	if err != nil {
		return false, fmt.Errorf("deleting roster: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoster(row rowScanner) (*domain.Roster, error) {
	var ro domain.Roster
	var createdAt string
	if err := row.Scan(&ro.ID, &ro.Name, &ro.GroupCount, &ro.StudentCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("roster: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning roster: %w", err)
	}
	var err error
	if ro.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &ro, nil
}
