package domain

import (
	"fmt"
	"time"
)

// AllocationRun records one execution of the allocation engine against a roster.
type AllocationRun struct {
	ID                    string
	RosterID              string
	AssignmentsPerStudent int
	Seed                  int64
	Strategy              Strategy
	Status                RunStatus
	ErrorCode             string
	ErrorMessage          string
	Draws                 int
	Rejections            int
	CreatedAt             time.Time
}

// Assignment pairs a student with one group they must review.
type Assignment struct {
	RunID     string
	StudentID StudentID
	GroupID   GroupID
	Slot      int
}

// MarkFailed records the failure code and message on the run.
func (r *AllocationRun) MarkFailed(code, message string) {
	r.Status = RunFailed
	r.ErrorCode = code
	r.ErrorMessage = message
}

// DisplayID returns the first 8 characters of the run ID.
func (r *AllocationRun) DisplayID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}

// Validate checks the fields required before a run can be stored.
func (r *AllocationRun) Validate() error {
	if r.RosterID == "" {
		return fmt.Errorf("roster ID is required")
	}
	if r.AssignmentsPerStudent < 1 {
		return fmt.Errorf("assignments per student must be positive, got %d", r.AssignmentsPerStudent)
	}
	if !ValidStrategies[string(r.Strategy)] {
		return fmt.Errorf("unknown strategy %q", r.Strategy)
	}
	switch r.Status {
	case RunSucceeded:
	case RunFailed:
		if r.ErrorCode == "" {
			return fmt.Errorf("failed run requires an error code")
		}
	default:
		return fmt.Errorf("unknown run status %q", r.Status)
	}
	return nil
}
