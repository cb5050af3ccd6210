package allocator

import "github.com/alexanderramin/peerassign/internal/domain"

// Quota is the number of review slots a group should receive.
type Quota struct {
	Group domain.GroupID
	Slots int
}

// ComputeQuotas spreads k*students slots over groups. Every group gets
// floor(avg) or ceil(avg); the first groups in roster order take the ceiling
// so the total is exact.
func ComputeQuotas(groups []domain.GroupID, students, k int) []Quota {
	if len(groups) == 0 {
		return nil
	}
	total := k * students
	lo := total / len(groups)
	// Number of groups that need lo+1 slots. Zero when total divides evenly.
	x := total - lo*len(groups)

	quotas := make([]Quota, len(groups))
	for i, g := range groups {
		slots := lo
		if i < x {
			slots = lo + 1
		}
		quotas[i] = Quota{Group: g, Slots: slots}
	}
	return quotas
}

// TotalSlots sums the quotas.
func TotalSlots(quotas []Quota) int {
	n := 0
	for _, q := range quotas {
		n += q.Slots
	}
	return n
}
