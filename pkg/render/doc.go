// Package render draws small graphs with Graphviz, for eyeballing query
// graphs and converted targets.
//
// # Usage
//
//	dot := render.ToDOT(g, render.Options{Labels: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Undirected graphs become a Graphviz "graph" with one line per stored edge;
// directed graphs become a "digraph". Vertices are filled by label so that
// label classes stand out. Rendering is meant for query-sized graphs: [ToDOT]
// callers should check [Options.MaxVertices] via [Check] before drawing a
// data graph.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package render
