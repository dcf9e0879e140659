package graph

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

var (
	// ErrSampleSize is returned when a sample would be empty or larger than
	// the graph.
	ErrSampleSize = errors.New("sample size out of range")

	// ErrSampleStalled is returned when no walk reached the requested number
	// of vertices, usually because every component tried is too small.
	ErrSampleStalled = errors.New("random walk stalled before reaching the sample size")
)

const (
	// walkRestarts is how many start vertices are tried.
	walkRestarts = 16

	// stallFactor times the sample size is the number of consecutive steps
	// without a new vertex after which a walk gives up.
	stallFactor = 100
)

// SampleRandomWalk walks the undirected structure of g from a random vertex,
// stepping to a uniformly chosen neighbor, until size distinct vertices have
// been visited. It returns the subgraph they induce.
//
// Sampled vertices are renumbered 0..size-1 in ascending order of their id
// in g and keep their labels. Each adjacent pair becomes one edge (min, max)
// carrying the label of its first occurrence in g, and edges are sorted.
// Self-loops are dropped.
func SampleRandomWalk(g *Graph, size int, rng *rand.Rand) (*Graph, error) {
	n := g.VertexCount()
	if size < 1 || size > n {
		return nil, fmt.Errorf("%w: %d of %d vertices", ErrSampleSize, size, n)
	}

	adj := BuildAdjacency(g, false)
	for range walkRestarts {
		if ids, ok := walk(adj, size, rng); ok {
			return induce(g, ids), nil
		}
	}
	return nil, fmt.Errorf("%w: %d vertices after %d starts", ErrSampleStalled, size, walkRestarts)
}

func walk(adj Adjacency, size int, rng *rand.Rand) ([]int, bool) {
	cur := rng.IntN(len(adj))
	visited := map[int]struct{}{cur: {}}
	ids := []int{cur}

	for stall := 0; len(ids) < size && stall < stallFactor*size; {
		nb := adj.Neighbors(cur)
		if len(nb) == 0 {
			return nil, false
		}
		cur = nb[rng.IntN(len(nb))]
		if _, ok := visited[cur]; ok {
			stall++
			continue
		}
		visited[cur] = struct{}{}
		ids = append(ids, cur)
		stall = 0
	}
	return ids, len(ids) == size
}

func induce(g *Graph, ids []int) *Graph {
	slices.Sort(ids)
	index := make(map[int]int, len(ids))
	out := New(len(ids))
	for i, id := range ids {
		index[id] = i
		out.labels[i] = g.labels[id]
	}

	first := make(map[Pair]Edge)
	for _, e := range g.edges {
		u, okU := index[e.Src]
		v, okV := index[e.Dst]
		if !okU || !okV || u == v {
			continue
		}
		p := NewPair(u, v, false)
		if _, seen := first[p]; !seen {
			first[p] = Edge{Src: p.U, Dst: p.V, Label: e.Label, HasLabel: e.HasLabel}
		}
	}

	pairs := make([]Pair, 0, len(first))
	for p := range first {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, ComparePairs)
	out.Grow(len(pairs))
	for _, p := range pairs {
		out.edges = append(out.edges, first[p])
	}
	return out
}
