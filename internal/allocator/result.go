package allocator

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
)

// Result maps each student to the groups they review, sorted ascending.
type Result struct {
	K           int
	Strategy    domain.Strategy
	Order       []domain.StudentID
	Assignments map[domain.StudentID][]domain.GroupID
	Quotas      []Quota
	Draws       int
	Rejections  int
}

// Load counts how many students review each group.
func (r *Result) Load() map[domain.GroupID]int {
	load := make(map[domain.GroupID]int, len(r.Quotas))
	for _, q := range r.Quotas {
		load[q.Group] = 0
	}
	for _, groups := range r.Assignments {
		for _, g := range groups {
			load[g]++
		}
	}
	return load
}

// ReviewersOf lists the students assigned to review g, in roster order.
func (r *Result) ReviewersOf(g domain.GroupID) []domain.StudentID {
	var out []domain.StudentID
	for _, s := range r.Order {
		if slices.Contains(r.Assignments[s], g) {
			out = append(out, s)
		}
	}
	return out
}

// Verify checks the result against idx: every student has exactly K sorted,
// distinct groups excluding their own, and every group's load matches its
// quota.
func (r *Result) Verify(idx *roster.Index) error {
	if len(r.Assignments) != idx.Size() {
		return fmt.Errorf("%w: %d students assigned, roster has %d", ErrInvariantViolated, len(r.Assignments), idx.Size())
	}
	for _, s := range idx.Students {
		groups, ok := r.Assignments[s]
		if !ok {
			return fmt.Errorf("%w: student %q has no assignment", ErrInvariantViolated, s)
		}
		if len(groups) != r.K {
			return fmt.Errorf("%w: student %q has %d groups, want %d", ErrInvariantViolated, s, len(groups), r.K)
		}
		own := idx.StudentGroup[s]
		for i, g := range groups {
			if g == own {
				return fmt.Errorf("%w: student %q assigned own group %d", ErrInvariantViolated, s, g)
			}
			if i > 0 && groups[i-1] >= g {
				return fmt.Errorf("%w: student %q groups not strictly ascending: %v", ErrInvariantViolated, s, groups)
			}
			if _, known := idx.GroupMembers[g]; !known {
				return fmt.Errorf("%w: student %q assigned unknown group %d", ErrInvariantViolated, s, g)
			}
		}
	}

	load := r.Load()
	lo, hi := -1, -1
	for _, q := range r.Quotas {
		if load[q.Group] != q.Slots {
			return fmt.Errorf("%w: group %d reviewed %d times, quota %d", ErrInvariantViolated, q.Group, load[q.Group], q.Slots)
		}
		if lo < 0 || q.Slots < lo {
			lo = q.Slots
		}
		if q.Slots > hi {
			hi = q.Slots
		}
	}
	if hi-lo > 1 {
		return fmt.Errorf("%w: quotas range from %d to %d", ErrInvariantViolated, lo, hi)
	}
	return nil
}
