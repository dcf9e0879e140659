package graph

import (
	"errors"
	"fmt"
)

// DefaultLabel is assigned to vertices whose source line carries no label.
const DefaultLabel = 1

var (
	// ErrVertexOutOfRange is returned when a vertex id is negative or not
	// smaller than the declared vertex count.
	ErrVertexOutOfRange = errors.New("vertex id out of range")

	// ErrNegativeCount is returned by [New] callers validating header counts.
	ErrNegativeCount = errors.New("vertex count must not be negative")
)

// Edge is a connection between two vertices. Label is meaningful only when
// HasLabel is true; unlabeled edges are written back without a label.
type Edge struct {
	Src      int
	Dst      int
	Label    int
	HasLabel bool
}

// IsSelfLoop reports whether the edge starts and ends at the same vertex.
func (e Edge) IsSelfLoop() bool { return e.Src == e.Dst }

// Graph is a labeled graph over the dense vertex ids 0..N-1.
//
// Edges are kept in insertion order, duplicates included. The zero value is
// an empty graph with no vertices; use [New] to declare a vertex count.
// Graph is not safe for concurrent mutation.
type Graph struct {
	labels []int
	edges  []Edge
}

// New returns a graph with n vertices, all labeled [DefaultLabel].
// It panics if n is negative; callers parsing untrusted counts validate first.
func New(n int) *Graph {
	if n < 0 {
		panic(ErrNegativeCount)
	}
	labels := make([]int, n)
	for i := range labels {
		labels[i] = DefaultLabel
	}
	return &Graph{labels: labels}
}

// FromLabels returns a graph whose vertex i carries labels[i]. The graph
// takes ownership of labels. Readers use it to size the graph from vertex
// lines actually read rather than from a declared count.
func FromLabels(labels []int) *Graph {
	return &Graph{labels: labels}
}

// VertexCount returns the declared number of vertices.
func (g *Graph) VertexCount() int { return len(g.labels) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Label returns the label of vertex id. It panics if id is out of range.
func (g *Graph) Label(id int) int { return g.labels[id] }

// Labels returns the vertex labels indexed by vertex id.
// The returned slice must not be modified.
func (g *Graph) Labels() []int { return g.labels }

// Edges returns the edges in insertion order.
// The returned slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Contains reports whether id is a valid vertex id of g.
func (g *Graph) Contains(id int) bool { return id >= 0 && id < len(g.labels) }

// SetLabel assigns label to vertex id.
func (g *Graph) SetLabel(id, label int) error {
	if !g.Contains(id) {
		return fmt.Errorf("%w: %d (vertex count %d)", ErrVertexOutOfRange, id, len(g.labels))
	}
	g.labels[id] = label
	return nil
}

// AddEdge appends e. Both endpoints must be valid vertex ids; the graph is
// left unchanged otherwise.
func (g *Graph) AddEdge(e Edge) error {
	for _, v := range [2]int{e.Src, e.Dst} {
		if !g.Contains(v) {
			return fmt.Errorf("%w: %d (vertex count %d)", ErrVertexOutOfRange, v, len(g.labels))
		}
	}
	g.edges = append(g.edges, e)
	return nil
}

// Grow reserves room for n additional edges.
func (g *Graph) Grow(n int) {
	if n > 0 && cap(g.edges)-len(g.edges) < n {
		edges := make([]Edge, len(g.edges), len(g.edges)+n)
		copy(edges, g.edges)
		g.edges = edges
	}
}
