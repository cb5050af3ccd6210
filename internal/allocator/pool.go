package allocator

import (
	"math/rand"
	"slices"

	"github.com/alexanderramin/peerassign/internal/domain"
)

// Pool is the multiset of review slots not yet assigned. It belongs to a
// single allocation run and is consumed as draws are accepted.
type Pool struct {
	slots []domain.GroupID
}

// NewPool lays out each group's slots in quota order.
func NewPool(quotas []Quota) *Pool {
	p := &Pool{slots: make([]domain.GroupID, 0, TotalSlots(quotas))}
	for _, q := range quotas {
		for range q.Slots {
			p.slots = append(p.slots, q.Group)
		}
	}
	return p
}

// Len returns the number of remaining slots.
func (p *Pool) Len() int { return len(p.slots) }

// Draw picks a uniformly random index without removing it.
func (p *Pool) Draw(rng *rand.Rand) (int, domain.GroupID) {
	i := rng.Intn(len(p.slots))
	return i, p.slots[i]
}

// Take removes the slot at index i, keeping the order of the rest.
func (p *Pool) Take(i int) domain.GroupID {
	g := p.slots[i]
	p.slots = slices.Delete(p.slots, i, i+1)
	return g
}

// Counts returns remaining slots per group.
func (p *Pool) Counts() map[domain.GroupID]int {
	counts := make(map[domain.GroupID]int)
	for _, g := range p.slots {
		counts[g]++
	}
	return counts
}

// HasEligible reports whether any remaining slot is neither own nor taken.
func (p *Pool) HasEligible(own domain.GroupID, taken []domain.GroupID) bool {
	for _, g := range p.slots {
		if g != own && !slices.Contains(taken, g) {
			return true
		}
	}
	return false
}
