// Package graph provides the in-memory representation of labeled graphs
// exchanged with the subgraph-matching engine.
//
// # Core Types
//
//   - [Graph]: dense vertex ids 0..N-1, one integer label per vertex, and an
//     ordered list of labeled edges exactly as they appeared in the source
//   - [Adjacency]: per-vertex neighbor lists derived from a Graph
//   - [EdgeSet]: a set of vertex pairs used for structural comparison
//   - [Stats]: summary statistics used to classify query graphs
//
// # Directedness
//
// Every function that derives structure from edges takes an explicit
// directed flag. In undirected mode (the convention of the engine's target
// format) an edge (u, v) appears in the adjacency of both u and v, and
// edge sets store the pair as (min, max). In directed mode only the source
// vertex receives the neighbor and pairs are kept ordered.
//
// # Duplicates and Self-Loops
//
// Duplicate edges are preserved as duplicate adjacency entries; nothing in
// this package deduplicates silently. A self-loop (u, u) contributes u to
// u's neighbor list once per occurrence, in both modes.
//
// # Example
//
//	g := graph.New(3)
//	_ = g.AddEdge(graph.Edge{Src: 0, Dst: 1})
//	_ = g.AddEdge(graph.Edge{Src: 1, Dst: 2})
//	adj := graph.BuildAdjacency(g, false)
//	fmt.Println(adj.Neighbors(1)) // [0 2]
package graph
