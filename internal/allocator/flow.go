package allocator

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
)

// allocateFlow solves the allocation as a max-flow problem:
// source -> student (cap k) -> other group (cap 1) -> sink (cap quota).
// Unlike the rejection loop it always terminates, and it fails only when the
// balanced quotas cannot be met at all. Adjacency order is shuffled with rng
// so different seeds produce different valid allocations.
func allocateFlow(ctx context.Context, idx *roster.Index, quotas []Quota, k int, rng *rand.Rand, res *Result) error {
	nStudents := idx.Size()
	nGroups := len(quotas)
	source := 0
	sink := nStudents + nGroups + 1
	g := newFlowGraph(sink + 1)

	groupNode := make(map[domain.GroupID]int, nGroups)
	for i, q := range quotas {
		groupNode[q.Group] = nStudents + 1 + i
	}

	studentOrder := rng.Perm(nStudents)
	for _, si := range studentOrder {
		g.addEdge(source, si+1, k)
	}
	for _, si := range studentOrder {
		s := idx.Students[si]
		own := idx.StudentGroup[s]
		for _, gi := range rng.Perm(nGroups) {
			q := quotas[gi]
			if q.Group == own {
				continue
			}
			g.addEdge(si+1, groupNode[q.Group], 1)
		}
	}
	for _, gi := range rng.Perm(nGroups) {
		q := quotas[gi]
		g.addEdge(groupNode[q.Group], sink, q.Slots)
	}

	total := TotalSlots(quotas)
	flow, err := g.maxFlow(ctx, source, sink)
	if err != nil {
		return err
	}
	if flow < total {
		return fmt.Errorf("%w: only %d of %d review slots can be filled under the exclusion rules",
			ErrInfeasibleQuotas, flow, total)
	}

	nodeGroup := make(map[int]domain.GroupID, nGroups)
	for gid, node := range groupNode {
		nodeGroup[node] = gid
	}
	for si, s := range idx.Students {
		picks := make([]domain.GroupID, 0, k)
		for _, e := range g.adj[si+1] {
			// Forward edges have even indices; a saturated one carries flow.
			if e%2 != 0 || g.cap[e] != 0 {
				continue
			}
			if gid, ok := nodeGroup[g.to[e]]; ok {
				picks = append(picks, gid)
			}
		}
		domain.SortGroups(picks)
		res.Assignments[s] = picks
	}
	return nil
}

type flowGraph struct {
	adj [][]int
	to  []int
	cap []int
}

func newFlowGraph(n int) *flowGraph {
	return &flowGraph{adj: make([][]int, n)}
}

// addEdge adds u->v with capacity c and its residual v->u at index e^1.
func (f *flowGraph) addEdge(u, v, c int) {
	f.adj[u] = append(f.adj[u], len(f.to))
	f.to = append(f.to, v)
	f.cap = append(f.cap, c)
	f.adj[v] = append(f.adj[v], len(f.to))
	f.to = append(f.to, u)
	f.cap = append(f.cap, 0)
}

// maxFlow runs Edmonds-Karp from s to t.
func (f *flowGraph) maxFlow(ctx context.Context, s, t int) (int, error) {
	n := len(f.adj)
	prev := make([]int, n)
	seen := make([]bool, n)
	queue := make([]int, 0, n)
	flow := 0

	for {
		if err := ctx.Err(); err != nil {
			return flow, err
		}
		for i := range seen {
			seen[i] = false
			prev[i] = -1
		}
		queue = append(queue[:0], s)
		seen[s] = true
		for len(queue) > 0 && !seen[t] {
			u := queue[0]
			queue = queue[1:]
			for _, e := range f.adj[u] {
				v := f.to[e]
				if seen[v] || f.cap[e] <= 0 {
					continue
				}
				seen[v] = true
				prev[v] = e
				queue = append(queue, v)
			}
		}
		if !seen[t] {
			return flow, nil
		}

		bottleneck := -1
		for v := t; v != s; v = f.to[prev[v]^1] {
			if c := f.cap[prev[v]]; bottleneck < 0 || c < bottleneck {
				bottleneck = c
			}
		}
		for v := t; v != s; v = f.to[prev[v]^1] {
			e := prev[v]
			f.cap[e] -= bottleneck
			f.cap[e^1] += bottleneck
		}
		flow += bottleneck
	}
}
