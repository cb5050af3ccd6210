package contract

import (
	"github.com/alexanderramin/peerassign/internal/allocator"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
)

type AllocateRequest struct {
	RosterText            string
	RosterName            string
	AssignmentsPerStudent int
	// Seed fixes the random source. Nil means a fresh seed is drawn and
	// recorded on the run.
	Seed        *int64
	Strategy    domain.Strategy
	StallFactor int
	DryRun      bool
}

func NewAllocateRequest(rosterText string) AllocateRequest {
	return AllocateRequest{
		RosterText:            rosterText,
		AssignmentsPerStudent: allocator.DefaultAssignmentsPerStudent,
		Strategy:              domain.StrategyRejection,
		StallFactor:           allocator.DefaultStallFactor,
	}
}

type AllocateResponse struct {
	// Run is populated even for dry runs; its ID is empty when nothing was stored.
	Run    *domain.AllocationRun
	Roster *roster.Index
	Result *allocator.Result
}

type QuotasResponse struct {
	Students int
	Groups   int
	K        int
	Quotas   []allocator.Quota
	MinLoad  int
	MaxLoad  int
}

// RunDetail is a stored run with its roster and assignments reloaded.
type RunDetail struct {
	Run         *domain.AllocationRun
	Roster      *domain.Roster
	Assignments []domain.Assignment
}

// Load counts assignments per group.
func (d *RunDetail) Load() map[domain.GroupID]int {
	load := make(map[domain.GroupID]int)
	for _, a := range d.Assignments {
		load[a.GroupID]++
	}
	return load
}
