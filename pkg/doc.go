// Package pkg provides the libraries behind slfkit, a toolkit for preparing
// graphs for a subgraph-matching engine and benchmarking it.
//
// # Overview
//
// Graphs arrive in the t/v/e edge-list "source" format (or as SNAP edge
// lists) and the engine reads an adjacency "target" format. The pkg
// directory is organized into four main areas:
//
//  1. [graph], [io] - The in-memory graph and both file formats
//  2. [verify] - Round-trip comparison of a source and its target
//  3. [pipeline], [cache] - Cached conversion used by every entry point
//  4. [engine], [experiment] - Engine invocation and experiment campaigns
//
// # Architecture
//
// The typical data flow through slfkit:
//
//	t/v/e source (or SNAP edge list)
//	         ↓
//	    [io] package (parse, with file:line diagnostics)
//	         ↓
//	    [graph] package (adjacency, edge sets, statistics)
//	         ↓
//	    [io] package (atomic target write)
//	         ↓
//	    [verify] package (optional round trip)
//
// The [experiment] package repeats this for a data graph and a categorized
// selection of query graphs and hands the results to [engine].
//
// # Quick Start
//
// Convert one file with caching and verification:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Convert(ctx, pipeline.ConvertOptions{
//	    Source: "query_3.graph",
//	    Target: "query_3.grf",
//	    Verify: true,
//	})
//
// Or use the format packages directly:
//
//	g, _ := io.ImportSource("query_3.graph")
//	adj := graph.BuildAdjacency(g, false)
//	_ = io.ExportTarget(g, adj, "query_3.grf")
//
// # Supporting Packages
//
// [errors] - Code-carrying errors with file and line positions.
//
// [observability] - Hooks for conversion, engine and cache events.
//
// [render] - Graphviz drawings of small graphs.
//
// [buildinfo] - Version information set via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/io/...           # Specific package
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/io
// [verify]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/verify
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/cache
// [engine]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/engine
// [experiment]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/experiment
// [errors]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/render
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/slfkit/pkg/buildinfo
package pkg
