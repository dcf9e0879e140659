package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Stats summarizes the structure of a graph.
type Stats struct {
	Vertices         int     `json:"vertices"`
	Edges            int     `json:"edges"`
	UniqueEdges      int     `json:"unique_edges"`
	DuplicateEdges   int     `json:"duplicate_edges"`
	SelfLoops        int     `json:"self_loops"`
	IsolatedVertices int     `json:"isolated_vertices"`
	MaxDegree        int     `json:"max_degree"`
	AvgDegree        float64 `json:"avg_degree"`
	Components       int     `json:"components"`
	Labels           int     `json:"labels"`
}

// ComputeStats computes [Stats] for g.
//
// AvgDegree is 2E/V over the edge lines as written, which is how query
// graphs are classified. Degrees, duplicates and isolated vertices follow the
// directed flag. Connected components are always computed on the underlying
// undirected simple graph.
func ComputeStats(g *Graph, directed bool) Stats {
	st := Stats{
		Vertices: g.VertexCount(),
		Edges:    g.EdgeCount(),
	}
	if st.Vertices > 0 {
		st.AvgDegree = 2 * float64(st.Edges) / float64(st.Vertices)
	}

	unique := EdgeSetOf(g, directed)
	st.UniqueEdges = unique.Len()
	st.DuplicateEdges = st.Edges - st.UniqueEdges

	for _, list := range BuildAdjacency(g, false) {
		if len(list) == 0 {
			st.IsolatedVertices++
		}
		if !directed {
			st.MaxDegree = max(st.MaxDegree, len(list))
		}
	}
	if directed {
		for _, list := range BuildAdjacency(g, true) {
			st.MaxDegree = max(st.MaxDegree, len(list))
		}
	}

	labels := make(map[int]struct{})
	for _, l := range g.labels {
		labels[l] = struct{}{}
	}
	st.Labels = len(labels)

	ug := simple.NewUndirectedGraph()
	for v := range g.labels {
		ug.AddNode(simple.Node(int64(v)))
	}
	for _, e := range g.edges {
		if e.IsSelfLoop() {
			st.SelfLoops++
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(int64(e.Src)), simple.Node(int64(e.Dst))))
	}
	st.Components = len(topo.ConnectedComponents(ug))

	return st
}
