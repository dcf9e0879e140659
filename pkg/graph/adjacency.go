package graph

import "slices"

// Adjacency holds one neighbor list per vertex, indexed by vertex id.
// Lists produced by [BuildAdjacency] are sorted in non-decreasing order.
type Adjacency [][]int

// BuildAdjacency derives per-vertex neighbor lists from g.
//
// When directed is false each edge (u, v) with u != v adds v to u's list and
// u to v's list. When directed is true only u's list grows. A self-loop adds
// its vertex once per occurrence in both modes. Duplicate edges yield
// duplicate entries. Every vertex gets a list, so isolated vertices map to an
// empty, non-nil slice.
//
// Runs in O(V + E log E): one counting pass sizes the lists exactly, one pass
// fills them, then each list is sorted.
func BuildAdjacency(g *Graph, directed bool) Adjacency {
	n := g.VertexCount()
	counts := make([]int, n)
	for _, e := range g.edges {
		counts[e.Src]++
		if !directed && !e.IsSelfLoop() {
			counts[e.Dst]++
		}
	}

	adj := make(Adjacency, n)
	for v := range adj {
		adj[v] = make([]int, 0, counts[v])
	}
	for _, e := range g.edges {
		adj[e.Src] = append(adj[e.Src], e.Dst)
		if !directed && !e.IsSelfLoop() {
			adj[e.Dst] = append(adj[e.Dst], e.Src)
		}
	}
	for _, list := range adj {
		slices.Sort(list)
	}
	return adj
}

// Neighbors returns the neighbor list of v.
func (a Adjacency) Neighbors(v int) []int { return a[v] }

// Degree returns the number of entries in v's neighbor list.
func (a Adjacency) Degree(v int) int { return len(a[v]) }

// Entries returns the total number of neighbor entries across all vertices.
func (a Adjacency) Entries() int {
	total := 0
	for _, list := range a {
		total += len(list)
	}
	return total
}

// Sorted reports whether every neighbor list is in non-decreasing order.
func (a Adjacency) Sorted() bool {
	for _, list := range a {
		if !slices.IsSorted(list) {
			return false
		}
	}
	return true
}
