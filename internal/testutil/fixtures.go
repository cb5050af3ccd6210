package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/google/uuid"
)

// RosterText renders groups as tab-separated roster lines. Group IDs are
// assigned 1..n in argument order.
func RosterText(groups ...[]string) string {
	var b strings.Builder
	for i, members := range groups {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(fmt.Sprint(i + 1))
		for _, m := range members {
			b.WriteByte('\t')
			b.WriteString(m)
		}
	}
	return b.String()
}

// GroupsOfSizes builds groups with generated member names s<group>-<n>.
func GroupsOfSizes(sizes ...int) [][]string {
	out := make([][]string, len(sizes))
	for g, n := range sizes {
		for i := 0; i < n; i++ {
			out[g] = append(out[g], fmt.Sprintf("s%d-%d", g+1, i+1))
		}
	}
	return out
}

// Roster options
type RosterOption func(*domain.Roster)

func WithRosterCreatedAt(t time.Time) RosterOption {
	return func(r *domain.Roster) {
		r.CreatedAt = t
	}
}

// NewTestRoster builds a stored roster with group IDs 1..n in argument order.
func NewTestRoster(name string, groups [][]string, opts ...RosterOption) *domain.Roster {
	r := &domain.Roster{
		ID:         uuid.New().String(),
		Name:       name,
		GroupCount: len(groups),
		CreatedAt:  time.Now().UTC(),
	}
	pos := 0
	for g, members := range groups {
		for _, m := range members {
			r.Members = append(r.Members, domain.Membership{
				GroupID:   domain.GroupID(g + 1),
				StudentID: domain.StudentID(m),
				Position:  pos,
			})
			pos++
		}
	}
	r.StudentCount = pos
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run options
type RunOption func(*domain.AllocationRun)

func WithSeed(seed int64) RunOption {
	return func(r *domain.AllocationRun) {
		r.Seed = seed
	}
}

func WithStrategy(s domain.Strategy) RunOption {
	return func(r *domain.AllocationRun) {
		r.Strategy = s
	}
}

func WithFailure(code, message string) RunOption {
	return func(r *domain.AllocationRun) {
		r.MarkFailed(code, message)
	}
}

func WithRunCreatedAt(t time.Time) RunOption {
	return func(r *domain.AllocationRun) {
		r.CreatedAt = t
	}
}

func NewTestRun(rosterID string, k int, opts ...RunOption) *domain.AllocationRun {
	r := &domain.AllocationRun{
		ID:                    uuid.New().String(),
		RosterID:              rosterID,
		AssignmentsPerStudent: k,
		Seed:                  42,
		Strategy:              domain.StrategyRejection,
		Status:                domain.RunSucceeded,
		CreatedAt:             time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
