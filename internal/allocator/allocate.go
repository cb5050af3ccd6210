// Package allocator assigns every student a fixed number of other groups to
// review, keeping the review load on each group balanced.
package allocator

import (
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
)

// DrawStats counts draws made by the rejection loop.
type DrawStats struct {
	Draws      int
	Rejections int
}

// Allocate runs one allocation over idx. Either every student receives a
// complete assignment or an error is returned; there is no partial result.
func Allocate(ctx context.Context, idx *roster.Index, cfg Config) (*Result, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if idx == nil || idx.Size() == 0 || idx.GroupCount() == 0 {
		return nil, roster.ErrEmptyRoster
	}
	k := cfg.AssignmentsPerStudent
	if k >= idx.GroupCount() {
		return nil, fmt.Errorf("%w: %d assignments per student needs at least %d groups, roster has %d",
			ErrInsufficientGroups, k, k+1, idx.GroupCount())
	}

	quotas := ComputeQuotas(idx.Groups, idx.Size(), k)
	res := &Result{
		K:           k,
		Strategy:    cfg.Strategy,
		Order:       slices.Clone(idx.Students),
		Assignments: make(map[domain.StudentID][]domain.GroupID, idx.Size()),
		Quotas:      quotas,
	}

	switch cfg.Strategy {
	case domain.StrategyFlow:
		err = allocateFlow(ctx, idx, quotas, k, cfg.Rand, res)
	default:
		err = allocateRejection(ctx, idx, quotas, cfg, res)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func allocateRejection(ctx context.Context, idx *roster.Index, quotas []Quota, cfg Config, res *Result) error {
	pool := NewPool(quotas)
	for _, s := range idx.Students {
		picks, stats, err := AssignStudent(ctx, pool, cfg.Rand, s, idx.StudentGroup[s], cfg.AssignmentsPerStudent, cfg.StallFactor)
		res.Draws += stats.Draws
		res.Rejections += stats.Rejections
		if err != nil {
			return err
		}
		res.Assignments[s] = picks
	}
	if pool.Len() != 0 {
		return fmt.Errorf("%w: %d pool slots left unassigned", ErrInvariantViolated, pool.Len())
	}
	return nil
}

// AssignStudent draws k groups for one student from pool. Rejected draws
// (own group or already picked) leave the pool untouched; accepted draws
// remove one slot. The loop gives up with a *StallError once the number of
// consecutive rejections exceeds the stall budget. ctx is checked between
// draws. The returned groups are sorted ascending.
func AssignStudent(
	ctx context.Context,
	pool *Pool,
	rng *rand.Rand,
	student domain.StudentID,
	own domain.GroupID,
	k int,
	stallFactor int,
) ([]domain.GroupID, DrawStats, error) {
	if stallFactor <= 0 {
		stallFactor = DefaultStallFactor
	}
	cfg := Config{StallFactor: stallFactor}

	var stats DrawStats
	picks := make([]domain.GroupID, 0, k)
	rejected := 0

	for len(picks) < k {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if pool.Len() == 0 || rejected >= cfg.stallBudget(pool.Len()) {
			return nil, stats, &StallError{
				Student:   student,
				Own:       own,
				Picked:    slices.Clone(picks),
				Needed:    k,
				Attempts:  rejected,
				Remaining: pool.Counts(),
				Eligible:  pool.HasEligible(own, picks),
			}
		}

		i, g := pool.Draw(rng)
		stats.Draws++
		if g == own || slices.Contains(picks, g) {
			stats.Rejections++
			rejected++
			continue
		}
		picks = append(picks, pool.Take(i))
		rejected = 0
	}

	domain.SortGroups(picks)
	return picks, stats, nil
}
