package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/peerassign/internal/db"
	"github.com/alexanderramin/peerassign/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(db db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: db}
}

const runColumns = `id, roster_id, assignments_per_student, seed, strategy, status,
	error_code, error_message, draws, rejections, created_at`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.AllocationRun) error {
	query := `INSERT INTO allocation_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.RosterID,
		run.AssignmentsPerStudent,
		run.Seed,
		string(run.Strategy),
		string(run.Status),
		run.ErrorCode,
		run.ErrorMessage,
		run.Draws,
		run.Rejections,
		formatTime(run.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting allocation run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.AllocationRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM allocation_runs WHERE id = ?`, id)
	return scanRun(row)
}

// GetByPrefix resolves a run from the leading characters of its ID, as shown
// by `runs list`. An ambiguous prefix is an error.
func (r *SQLiteRunRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.AllocationRun, error) {
	if prefix == "" {
		return nil, fmt.Errorf("allocation run: %w", ErrNotFound)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM allocation_runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("looking up run prefix: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("allocation run %q: %w", prefix, ErrNotFound)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", prefix)
	}
}

// List returns the most recent runs first. limit <= 0 means no limit.
func (r *SQLiteRunRepo) List(ctx context.Context, limit int) ([]*domain.AllocationRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM allocation_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing allocation runs: %w", err)
	}
	return scanRuns(rows)
}

func (r *SQLiteRunRepo) AddAssignments(ctx context.Context, assignments []domain.Assignment) error {
	for _, a := range assignments {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO assignments (run_id, student_id, group_id, slot) VALUES (?, ?, ?, ?)`,
			a.RunID, string(a.StudentID), int(a.GroupID), a.Slot,
		)
		if err != nil {
			return fmt.Errorf("inserting assignment %s->%d: %w", a.StudentID, a.GroupID, err)
		}
	}
	return nil
}

// ListAssignments returns assignments in roster order, then slot order.
func (r *SQLiteRunRepo) ListAssignments(ctx context.Context, runID string) ([]domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.run_id, a.student_id, a.group_id, a.slot
		FROM assignments a
		JOIN allocation_runs ar ON ar.id = a.run_id
		LEFT JOIN roster_members m ON m.roster_id = ar.roster_id AND m.student_id = a.student_id
		WHERE a.run_id = ?
		ORDER BY m.position, a.student_id, a.slot`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var student string
		var group int
		if err := rows.Scan(&a.RunID, &student, &group, &a.Slot); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.StudentID = domain.StudentID(student)
		a.GroupID = domain.GroupID(group)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func (r *SQLiteRunRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM allocation_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting allocation run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("allocation run: %w", ErrNotFound)
	}
	return nil
}

func scanRun(row rowScanner) (*domain.AllocationRun, error) {
	var run domain.AllocationRun
	var strategy, status, createdAt string
	err := row.Scan(
		&run.ID, &run.RosterID, &run.AssignmentsPerStudent, &run.Seed, &strategy, &status,
		&run.ErrorCode, &run.ErrorMessage, &run.Draws, &run.Rejections, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("allocation run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning allocation run: %w", err)
	}
	run.Strategy = domain.Strategy(strategy)
	run.Status = domain.RunStatus(status)
	if run.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]*domain.AllocationRun, error) {
	defer rows.Close()
	var out []*domain.AllocationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocation runs: %w", err)
	}
	return out, nil
}
