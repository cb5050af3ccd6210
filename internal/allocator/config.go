package allocator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/alexanderramin/peerassign/internal/domain"
)

const (
	// DefaultAssignmentsPerStudent is K when none is configured.
	DefaultAssignmentsPerStudent = 5

	// DefaultStallFactor scales the per-draw retry budget by pool size.
	DefaultStallFactor = 32

	// MinStallBudget is the smallest retry budget for a single accepted draw.
	MinStallBudget = 64
)

// Config controls a single allocation run.
type Config struct {
	AssignmentsPerStudent int
	// Rand drives every draw. A nil Rand is seeded from the clock.
	Rand        *rand.Rand
	StallFactor int
	Strategy    domain.Strategy
}

// DefaultConfig returns a Config with K=5 and the rejection strategy.
func DefaultConfig() Config {
	return Config{
		AssignmentsPerStudent: DefaultAssignmentsPerStudent,
		StallFactor:           DefaultStallFactor,
		Strategy:              domain.StrategyRejection,
	}
}

// NewSeededRand returns a deterministic source for the given seed.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func (c Config) normalize() (Config, error) {
	if c.AssignmentsPerStudent < 1 {
		return c, fmt.Errorf("%w: assignments per student must be at least 1, got %d", ErrInvalidConfig, c.AssignmentsPerStudent)
	}
	if c.StallFactor < 0 {
		return c, fmt.Errorf("%w: stall factor must not be negative, got %d", ErrInvalidConfig, c.StallFactor)
	}
	if c.StallFactor == 0 {
		c.StallFactor = DefaultStallFactor
	}
	if c.Strategy == "" {
		c.Strategy = domain.StrategyRejection
	}
	if !domain.ValidStrategies[string(c.Strategy)] {
		return c, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	if c.Rand == nil {
		c.Rand = NewSeededRand(time.Now().UnixNano())
	}
	return c, nil
}

// stallBudget is the number of consecutive rejected draws tolerated while
// poolLen entries remain.
func (c Config) stallBudget(poolLen int) int {
	return max(MinStallBudget, c.StallFactor*poolLen)
}
