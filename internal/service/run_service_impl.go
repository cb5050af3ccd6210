package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/db"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/report"
	"github.com/alexanderramin/peerassign/internal/repository"
)

type runService struct {
	rosters  repository.RosterRepo
	runs     repository.RunRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRunService(rosters repository.RosterRepo, runs repository.RunRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RunService {
	return &runService{
		rosters:  rosters,
		runs:     runs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *runService) List(ctx context.Context, limit int) ([]*domain.AllocationRun, error) {
	return s.runs.List(ctx, limit)
}

func (s *runService) Get(ctx context.Context, ref string) (*contract.RunDetail, error) {
	run, err := resolveRun(ctx, s.runs, ref)
	if err != nil {
		return nil, err
	}
	ro, err := s.rosters.GetByID(ctx, run.RosterID)
	if err != nil {
		return nil, fmt.Errorf("loading roster for run %s: %w", run.DisplayID(), err)
	}
	assignments, err := s.runs.ListAssignments(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &contract.RunDetail{Run: run, Roster: ro, Assignments: assignments}, nil
}

// Export writes the CSV of a succeeded run. The output is identical to what
// the original allocate call produced.
func (s *runService) Export(ctx context.Context, ref string, w io.Writer) error {
	detail, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if detail.Run.Status != domain.RunSucceeded {
		return fmt.Errorf("run %s failed with %s; nothing to export", detail.Run.DisplayID(), detail.Run.ErrorCode)
	}

	order := make([]domain.StudentID, 0, len(detail.Roster.Members))
	own := make(map[domain.StudentID]domain.GroupID, len(detail.Roster.Members))
	for _, m := range detail.Roster.Members {
		order = append(order, m.StudentID)
		own[m.StudentID] = m.GroupID
	}
	groups := make(map[domain.StudentID][]domain.GroupID, len(order))
	for _, a := range detail.Assignments {
		groups[a.StudentID] = append(groups[a.StudentID], a.GroupID)
	}
	return report.WriteAssignments(w, detail.Run.AssignmentsPerStudent, order, own, groups)
}

// Delete removes the run and its assignments, and the roster snapshot once
// no run refers to it.
func (s *runService) Delete(ctx context.Context, ref string) (err error) {
	uc := startUseCase(s.observer, "delete-run")
	defer func() { uc.done(ctx, err) }()
	uc.set("ref", ref)

	run, err := resolveRun(ctx, s.runs, ref)
	if err != nil {
		return err
	}
	uc.set("run_id", run.ID)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRunRepo(tx).Delete(ctx, run.ID); err != nil {
			return err
		}
		removed, err := repository.NewSQLiteRosterRepo(tx).DeleteIfUnused(ctx, run.RosterID)
		if err != nil {
			return err
		}
		uc.set("roster_removed", removed)
		return nil
	})
}

func resolveRun(ctx context.Context, runs repository.RunRepo, ref string) (*domain.AllocationRun, error) {
	run, err := runs.GetByID(ctx, ref)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return runs.GetByPrefix(ctx, ref)
}
