package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Pair is an edge reduced to its endpoints. Pairs built with directed=false
// are normalized so that U <= V.
type Pair struct {
	U, V int
}

// NewPair returns the pair for an edge from u to v.
func NewPair(u, v int, directed bool) Pair {
	if !directed && v < u {
		u, v = v, u
	}
	return Pair{U: u, V: v}
}

// String formats the pair as "(u, v)".
func (p Pair) String() string { return fmt.Sprintf("(%d, %d)", p.U, p.V) }

// ComparePairs orders pairs by U, then V.
func ComparePairs(a, b Pair) int {
	if c := cmp.Compare(a.U, b.U); c != 0 {
		return c
	}
	return cmp.Compare(a.V, b.V)
}

// EdgeSet is a set of vertex pairs. Multiplicity is not recorded.
type EdgeSet map[Pair]struct{}

// EdgeSetOf collects the distinct pairs of g's edges.
func EdgeSetOf(g *Graph, directed bool) EdgeSet {
	s := make(EdgeSet, len(g.edges))
	for _, e := range g.edges {
		s.Add(NewPair(e.Src, e.Dst, directed))
	}
	return s
}

// Add inserts p.
func (s EdgeSet) Add(p Pair) { s[p] = struct{}{} }

// Has reports whether p is in the set.
func (s EdgeSet) Has(p Pair) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of distinct pairs.
func (s EdgeSet) Len() int { return len(s) }

// Equal reports whether s and other hold exactly the same pairs.
func (s EdgeSet) Equal(other EdgeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Difference returns the pairs in s that are not in other, sorted with
// [ComparePairs] so that previews are deterministic.
func (s EdgeSet) Difference(other EdgeSet) []Pair {
	var out []Pair
	for p := range s {
		if !other.Has(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, ComparePairs)
	return out
}

// Unmirrored returns the pairs (u, v) of a directed set, u != v, whose
// reverse (v, u) is missing, sorted with [ComparePairs].
func (s EdgeSet) Unmirrored() []Pair {
	var out []Pair
	for p := range s {
		if p.U != p.V && !s.Has(Pair{U: p.V, V: p.U}) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, ComparePairs)
	return out
}
