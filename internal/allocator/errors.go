package allocator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/peerassign/internal/domain"
)

var (
	// ErrInsufficientGroups indicates K is not smaller than the group count,
	// so no student could avoid their own group.
	ErrInsufficientGroups = errors.New("insufficient groups")

	// ErrStalledAllocation indicates the rejection loop exhausted its retry
	// budget without finding an acceptable draw.
	ErrStalledAllocation = errors.New("stalled allocation")

	// ErrInfeasibleQuotas indicates no assignment can meet the balanced quotas.
	ErrInfeasibleQuotas = errors.New("infeasible quotas")

	// ErrInvalidConfig indicates an unusable allocator configuration.
	ErrInvalidConfig = errors.New("invalid allocator config")

	// ErrInvariantViolated is returned by Result.Verify.
	ErrInvariantViolated = errors.New("allocation invariant violated")
)

// StallError describes where the rejection loop gave up.
type StallError struct {
	Student   domain.StudentID
	Own       domain.GroupID
	Picked    []domain.GroupID
	Needed    int
	Attempts  int
	Remaining map[domain.GroupID]int
	// Eligible is false when no remaining pool entry could ever be accepted.
	Eligible bool
}

func (e *StallError) Error() string {
	reason := "retry budget exhausted"
	if !e.Eligible {
		reason = "no eligible group left in pool"
	}
	return fmt.Sprintf("student %q (group %d): %s after %d rejected draws with %d/%d groups assigned; remaining pool %s",
		e.Student, e.Own, reason, e.Attempts, len(e.Picked), e.Needed, formatCounts(e.Remaining))
}

func (e *StallError) Unwrap() error { return ErrStalledAllocation }

func formatCounts(counts map[domain.GroupID]int) string {
	if len(counts) == 0 {
		return "{}"
	}
	keys := make([]domain.GroupID, 0, len(counts))
	for g := range counts {
		keys = append(keys, g)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, g := range keys {
		parts = append(parts, fmt.Sprintf("%d×%d", g, counts[g]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
