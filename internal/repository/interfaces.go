package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/peerassign/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type RosterRepo interface {
	Create(ctx context.Context, r *domain.Roster) error
	GetByID(ctx context.Context, id string) (*domain.Roster, error)
	List(ctx context.Context) ([]*domain.Roster, error)
	// DeleteIfUnused removes the roster unless a run still references it.
	DeleteIfUnused(ctx context.Context, id string) (bool, error)
}

type RunRepo interface {
	Create(ctx context.Context, run *domain.AllocationRun) error
	GetByID(ctx context.Context, id string) (*domain.AllocationRun, error)
	GetByPrefix(ctx context.Context, prefix string) (*domain.AllocationRun, error)
	List(ctx context.Context, limit int) ([]*domain.AllocationRun, error)
	AddAssignments(ctx context.Context, assignments []domain.Assignment) error
	ListAssignments(ctx context.Context, runID string) ([]domain.Assignment, error)
	Delete(ctx context.Context, id string) error
}
