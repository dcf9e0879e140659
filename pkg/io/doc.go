// Package io reads and writes the line-oriented graph descriptions used by
// the subgraph-matching engine and its datasets.
//
// # Formats
//
// Source description (edge list with t/v/e markers):
//
//	t <vertex_count> <edge_count>
//	v <id> <label> [<degree>]      (vertex_count lines)
//	e <src> <dst> [<label>]        (edge_count lines)
//
// Blank lines and lines starting with '#' are skipped anywhere in the file.
// A vertex line without a label gets [graph.DefaultLabel].
//
// Target description (adjacency lists with counts):
//
//	<vertex_count>
//	<id> <label>                   (one line per vertex, ascending id)
//	<neighbor_count>               (then, per vertex in ascending id)
//	<id> <neighbor>                (neighbor_count lines, ascending neighbor)
//
// SNAP edge lists ("u v" per line, '#' comments) can be imported with
// [ReadSNAP] and written back as source descriptions with [WriteSource].
//
// # Errors
//
// Parse failures are returned as *errors.Error values from
// github.com/matzehuels/slfkit/pkg/errors carrying the file name, the 1-based
// line number, and an expected-versus-found message. No partial graph is ever
// returned alongside an error.
//
// # Writing
//
// The Export* functions write through a temporary file in the destination
// directory and rename it into place only after a successful flush and sync,
// so a reader never observes a partially written description. Output is a
// pure function of the graph: converting the same input twice yields
// byte-identical files.
//
// # Concurrency
//
// All functions are safe to call concurrently as long as no two calls write
// the same destination path.
package io
