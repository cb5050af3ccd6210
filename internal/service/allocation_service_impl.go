package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/peerassign/internal/allocator"
	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/db"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/random"
	"github.com/alexanderramin/peerassign/internal/repository"
	"github.com/alexanderramin/peerassign/internal/roster"
	"github.com/google/uuid"
)

const defaultRosterName = "roster"

type allocationService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewAllocationService(uow db.UnitOfWork, observers ...UseCaseObserver) AllocationService {
	return &allocationService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *allocationService) Allocate(ctx context.Context, req contract.AllocateRequest) (resp *contract.AllocateResponse, err error) {
	uc := startUseCase(s.observer, "allocate")
	defer func() { uc.done(ctx, err) }()
	startedAt := uc.startedAt
	fields := uc.fields
	fields["k"] = req.AssignmentsPerStudent
	fields["strategy"] = string(req.Strategy)
	fields["dry_run"] = req.DryRun

	idx, err := roster.ParseString(req.RosterText)
	if err != nil {
		return nil, contract.NewAllocationError(err)
	}
	fields["students"] = idx.Size()
	fields["groups"] = idx.GroupCount()

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	} else if seed, err = random.NewSeed(); err != nil {
		return nil, err
	}
	fields["seed"] = seed

	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyRejection
	}

	run := &domain.AllocationRun{
		AssignmentsPerStudent: req.AssignmentsPerStudent,
		Seed:                  seed,
		Strategy:              strategy,
		Status:                domain.RunSucceeded,
		CreatedAt:             startedAt,
	}
	ro := rosterFromIndex(req.RosterName, idx, startedAt)

	res, allocErr := allocator.Allocate(ctx, idx, allocator.Config{
		AssignmentsPerStudent: req.AssignmentsPerStudent,
		Rand:                  allocator.NewSeededRand(seed),
		StallFactor:           req.StallFactor,
		Strategy:              strategy,
	})
	if allocErr == nil {
		allocErr = res.Verify(idx)
	}
	if allocErr != nil {
		ae := contract.NewAllocationError(allocErr)
		run.MarkFailed(string(ae.Code), ae.Message)
		if !req.DryRun && ctx.Err() == nil {
			if recErr := s.persist(ctx, ro, run, nil); recErr != nil {
				fields["record_error"] = recErr.Error()
			} else {
				fields["run_id"] = run.ID
			}
		}
		return nil, ae
	}

	run.Draws = res.Draws
	run.Rejections = res.Rejections
	fields["draws"] = res.Draws
	fields["rejections"] = res.Rejections

	if !req.DryRun {
		if err = s.persist(ctx, ro, run, res); err != nil {
			return nil, fmt.Errorf("storing run: %w", err)
		}
		fields["run_id"] = run.ID
	}

	return &contract.AllocateResponse{Run: run, Roster: idx, Result: res}, nil
}

func (s *allocationService) Quotas(ctx context.Context, rosterText string, k int) (*contract.QuotasResponse, error) {
	idx, err := roster.ParseString(rosterText)
	if err != nil {
		return nil, contract.NewAllocationError(err)
	}
	if k < 1 {
		return nil, contract.NewAllocationError(fmt.Errorf("%w: assignments per student must be at least 1, got %d", allocator.ErrInvalidConfig, k))
	}
	if k >= idx.GroupCount() {
		return nil, contract.NewAllocationError(fmt.Errorf("%w: %d assignments per student needs at least %d groups, roster has %d",
			allocator.ErrInsufficientGroups, k, k+1, idx.GroupCount()))
	}

	quotas := allocator.ComputeQuotas(idx.Groups, idx.Size(), k)
	resp := &contract.QuotasResponse{
		Students: idx.Size(),
		Groups:   idx.GroupCount(),
		K:        k,
		Quotas:   quotas,
		MinLoad:  quotas[0].Slots,
		MaxLoad:  quotas[0].Slots,
	}
	for _, q := range quotas {
		resp.MinLoad = min(resp.MinLoad, q.Slots)
		resp.MaxLoad = max(resp.MaxLoad, q.Slots)
	}
	return resp, nil
}

// persist stores the roster snapshot, the run and, when res is non-nil, its
// assignments in one transaction.
func (s *allocationService) persist(ctx context.Context, ro *domain.Roster, run *domain.AllocationRun, res *allocator.Result) error {
	ro.ID = uuid.New().String()
	run.ID = uuid.New().String()
	run.RosterID = ro.ID
	if err := run.Validate(); err != nil {
		run.ID = ""
		return err
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRosters := repository.NewSQLiteRosterRepo(tx)
		txRuns := repository.NewSQLiteRunRepo(tx)

		if err := txRosters.Create(ctx, ro); err != nil {
			return fmt.Errorf("creating roster: %w", err)
		}
		if err := txRuns.Create(ctx, run); err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
		if res == nil {
			return nil
		}
		if err := txRuns.AddAssignments(ctx, assignmentsOf(run.ID, res)); err != nil {
			return fmt.Errorf("creating assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		run.ID = ""
		return err
	}
	return nil
}

func rosterFromIndex(name string, idx *roster.Index, now time.Time) *domain.Roster {
	if name == "" {
		name = defaultRosterName
	}
	ro := &domain.Roster{
		Name:         name,
		GroupCount:   idx.GroupCount(),
		StudentCount: idx.Size(),
		CreatedAt:    now,
		Members:      make([]domain.Membership, 0, idx.Size()),
	}
	for i, st := range idx.Students {
		ro.Members = append(ro.Members, domain.Membership{
			GroupID:   idx.StudentGroup[st],
			StudentID: st,
			Position:  i,
		})
	}
	return ro
}

func assignmentsOf(runID string, res *allocator.Result) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(res.Order)*res.K)
	for _, st := range res.Order {
		for i, g := range res.Assignments[st] {
			out = append(out, domain.Assignment{RunID: runID, StudentID: st, GroupID: g, Slot: i + 1})
		}
	}
	return out
}
