package merge

import "github.com/rotisserie/eris"

// ErrPartitionInvariant signals an internal engine bug: a merge that would
// split an existing group or cross the exact-name organization boundary.
// It aborts the run with no output.
var ErrPartitionInvariant = eris.New("merge: partition invariant violation")

// partition is a disjoint-set over observation indices. Merges are monotonic:
// groups only grow, and once frozen the structure is read-only.
type partition struct {
	parent []int32
	size   []int32
	frozen bool
}

func newPartition(n int) *partition {
	p := &partition{
		parent: make([]int32, n),
		size:   make([]int32, n),
	}
	for i := range p.parent {
		p.parent[i] = int32(i)
		p.size[i] = 1
	}
	return p
}

// find returns the root of i with path halving.
func (p *partition) find(i int32) int32 {
	for p.parent[i] != i {
		p.parent[i] = p.parent[p.parent[i]]
		i = p.parent[i]
	}
	return i
}

// union merges the groups of a and b. Returns whether a merge happened.
func (p *partition) union(a, b int32) (bool, error) {
	if p.frozen {
		return false, eris.Wrap(ErrPartitionInvariant, "union after freeze")
	}
	ra, rb := p.find(a), p.find(b)
	if ra == rb {
		return false, nil
	}
	if p.size[ra] < p.size[rb] {
		ra, rb = rb, ra
	}
	p.parent[rb] = ra
	p.size[ra] += p.size[rb]
	return true, nil
}

// freeze marks the partition immutable. Conflict resolution and relationship
// building run against a frozen partition only.
func (p *partition) freeze() {
	p.frozen = true
}

// groups returns the members of every group, ordered deterministically:
// groups by their smallest member index, members ascending. Only indices for
// which include returns true participate.
func (p *partition) groups(include func(int32) bool) [][]int32 {
	byRoot := make(map[int32][]int32)
	var order []int32 // roots in first-member order
	for i := int32(0); i < int32(len(p.parent)); i++ {
		if include != nil && !include(i) {
			continue
		}
		r := p.find(i)
		if _, seen := byRoot[r]; !seen {
			order = append(order, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	out := make([][]int32, 0, len(order))
	for _, r := range order {
		out = append(out, byRoot[r])
	}
	return out
}
