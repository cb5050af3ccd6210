package allocator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRoster(t *testing.T, rng *rand.Rand, groups, minSize, maxSize int) *roster.Index {
	t.Helper()
	rows := make([]roster.Row, 0, groups)
	next := 0
	// Non-contiguous, shuffled group IDs so ordering never depends on ID value.
	ids := rng.Perm(groups * 3)[:groups]
	for gi := range groups {
		size := minSize + rng.Intn(maxSize-minSize+1)
		row := roster.Row{Group: domain.GroupID(ids[gi] + 1), Line: gi + 1}
		for range size {
			row.Members = append(row.Members, domain.StudentID(fmt.Sprintf("st-%03d", next)))
			next++
		}
		rows = append(rows, row)
	}
	idx, err := roster.New(rows)
	require.NoError(t, err)
	return idx
}

// assertInvariants checks the per-student and per-group properties directly,
// independently of Result.Verify.
func assertInvariants(t *testing.T, trial int, idx *roster.Index, res *Result) {
	t.Helper()
	require.NoError(t, res.Verify(idx), "trial %d", trial)

	for _, s := range idx.Students {
		groups := res.Assignments[s]
		// Invariant 1: exactly K groups
		assert.Len(t, groups, res.K, "trial %d: student %s", trial, s)
		// Invariant 2: no self review
		assert.NotContains(t, groups, idx.StudentGroup[s], "trial %d: student %s reviews own group", trial, s)
		// Invariant 3: no duplicate target
		uniq := slices.Compact(slices.Clone(groups))
		assert.Len(t, uniq, len(groups), "trial %d: student %s has duplicates", trial, s)
		assert.True(t, slices.IsSorted(groups), "trial %d: student %s groups unsorted", trial, s)
	}

	// Invariants 4 and 5: loads equal quotas, quotas balanced within one.
	load := res.Load()
	minLoad, maxLoad := -1, 0
	for _, q := range res.Quotas {
		assert.Equal(t, q.Slots, load[q.Group], "trial %d: group %d", trial, q.Group)
		if minLoad < 0 || load[q.Group] < minLoad {
			minLoad = load[q.Group]
		}
		maxLoad = max(maxLoad, load[q.Group])
	}
	assert.LessOrEqual(t, maxLoad-minLoad, 1, "trial %d: unbalanced load", trial)
	assert.Equal(t, res.K*idx.Size(), TotalSlots(res.Quotas), "trial %d", trial)
}

// TestAllocate_Rejection_Invariants property-tests the rejection strategy:
// every run either satisfies all invariants or reports a stall. It never hangs.
func TestAllocate_Rejection_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	succeeded := 0

	for trial := 0; trial < 150; trial++ {
		k := rng.Intn(5) + 1
		groups := k + 1 + rng.Intn(10)
		idx := randomRoster(t, rng, groups, 1, 6)

		cfg := cfgWith(k, rng.Int63(), domain.StrategyRejection)
		res, err := Allocate(context.Background(), idx, cfg)
		if err != nil {
			assert.True(t, errors.Is(err, ErrStalledAllocation), "trial %d: unexpected error %v", trial, err)
			continue
		}
		succeeded++
		assertInvariants(t, trial, idx, res)
		assert.GreaterOrEqual(t, res.Draws, res.K*idx.Size(), "trial %d", trial)
		assert.Equal(t, res.Draws-res.Rejections, res.K*idx.Size(), "trial %d: accepted draws", trial)
	}
	t.Logf("rejection strategy completed %d/150 trials", succeeded)
}

// TestAllocate_Flow_EqualGroups_AlwaysSucceeds: with equal group sizes the
// cyclic assignment g -> g+1..g+K proves feasibility, so the flow strategy
// must succeed for every seed.
func TestAllocate_Flow_EqualGroups_AlwaysSucceeds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		k := rng.Intn(5) + 1
		groups := k + 1 + rng.Intn(8)
		size := rng.Intn(5) + 1
		idx := randomRoster(t, rng, groups, size, size)

		res, err := Allocate(context.Background(), idx, cfgWith(k, rng.Int63(), domain.StrategyFlow))
		require.NoError(t, err, "trial %d: k=%d groups=%d size=%d", trial, k, groups, size)
		assertInvariants(t, trial, idx, res)
		assert.Zero(t, res.Draws)
	}
}

// TestAllocate_Flow_Invariants covers uneven rosters: success implies every
// invariant, failure is always reported as infeasible quotas.
func TestAllocate_Flow_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))

	for trial := 0; trial < 150; trial++ {
		k := rng.Intn(5) + 1
		groups := k + 1 + rng.Intn(10)
		idx := randomRoster(t, rng, groups, 1, 7)

		res, err := Allocate(context.Background(), idx, cfgWith(k, rng.Int63(), domain.StrategyFlow))
		if err != nil {
			assert.ErrorIs(t, err, ErrInfeasibleQuotas, "trial %d", trial)
			continue
		}
		assertInvariants(t, trial, idx, res)
	}
}

// TestAllocate_RejectionSuccessImpliesFlowSuccess: a rejection run that
// finishes is a witness of feasibility, so flow must also find a solution.
func TestAllocate_RejectionSuccessImpliesFlowSuccess(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 60; trial++ {
		k := rng.Intn(4) + 1
		groups := k + 1 + rng.Intn(6)
		idx := randomRoster(t, rng, groups, 1, 5)
		seed := rng.Int63()

		if _, err := Allocate(context.Background(), idx, cfgWith(k, seed, domain.StrategyRejection)); err != nil {
			continue
		}
		res, err := Allocate(context.Background(), idx, cfgWith(k, seed, domain.StrategyFlow))
		require.NoError(t, err, "trial %d", trial)
		assertInvariants(t, trial, idx, res)
	}
}
