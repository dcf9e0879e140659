// Package verify checks that a target description faithfully encodes the
// source description it was converted from.
//
// Both files are re-parsed independently and reduced to edge sets, so the
// check is insensitive to neighbor order and to how often an edge was
// listed. In undirected mode every target entry must also be listed under
// its other endpoint. Verification is read-only: a mismatch is reported,
// never repaired.
//
//	report, err := verify.RoundTrip("data.graph", "data.grf", verify.Options{})
//	if err != nil {
//	    return err // one of the files could not be read
//	}
//	if err := report.Err(); err != nil {
//	    return err // VERIFICATION_MISMATCH
//	}
package verify

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
	slfio "github.com/matzehuels/slfkit/pkg/io"
)

// DefaultPreview is the number of differing items listed per category.
const DefaultPreview = 5

// Options controls a round-trip check.
type Options struct {
	// Directed compares ordered pairs. Otherwise pairs are normalized to
	// (min, max) on both sides before comparison.
	Directed bool

	// Preview bounds the number of differences kept in the report.
	// Zero means DefaultPreview; negative disables previews.
	Preview int
}

func (o Options) preview() int {
	switch {
	case o.Preview == 0:
		return DefaultPreview
	case o.Preview < 0:
		return 0
	}
	return o.Preview
}

// LabelMismatch is a vertex whose label differs between the two files.
type LabelMismatch struct {
	Vertex int `json:"vertex"`
	Source int `json:"source"`
	Target int `json:"target"`
}

// Report is the outcome of a round-trip check.
type Report struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	Directed   bool   `json:"directed"`

	SourceVertices   int  `json:"source_vertices"`
	TargetVertices   int  `json:"target_vertices"`
	VertexCountMatch bool `json:"vertex_count_match"`

	// Edge counts are sizes of the normalized edge sets.
	SourceEdges  int  `json:"source_edges"`
	TargetEdges  int  `json:"target_edges"`
	EdgeSetEqual bool `json:"edge_set_equal"`

	// OnlyInSource and OnlyInTarget hold a sorted prefix of each side of the
	// symmetric difference; the totals count all of it.
	OnlyInSource      []graph.Pair `json:"only_in_source,omitempty"`
	OnlyInTarget      []graph.Pair `json:"only_in_target,omitempty"`
	OnlyInSourceTotal int          `json:"only_in_source_total"`
	OnlyInTargetTotal int          `json:"only_in_target_total"`

	// Labels are compared over the vertices both files declare.
	LabelsMatch        bool            `json:"labels_match"`
	LabelMismatches    []LabelMismatch `json:"label_mismatches,omitempty"`
	LabelMismatchTotal int             `json:"label_mismatch_total"`

	// Unmirrored holds a sorted prefix of the target entries (v, u) of an
	// undirected check with no matching (u, v) entry. Always empty when
	// Directed is set.
	Symmetric       bool         `json:"symmetric"`
	Unmirrored      []graph.Pair `json:"unmirrored,omitempty"`
	UnmirroredTotal int          `json:"unmirrored_total"`
}

// OK reports whether vertex counts, edge sets and labels all agree and an
// undirected target lists every edge under both endpoints.
func (r *Report) OK() bool {
	return r.VertexCountMatch && r.EdgeSetEqual && r.LabelsMatch && r.Symmetric
}

// Err returns nil when the report is OK and a VERIFICATION_MISMATCH error
// summarizing the disagreement otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	var parts []string
	if !r.VertexCountMatch {
		parts = append(parts, fmt.Sprintf("vertex count %d vs %d", r.SourceVertices, r.TargetVertices))
	}
	if !r.EdgeSetEqual {
		parts = append(parts, fmt.Sprintf("%d edges only in source, %d only in target",
			r.OnlyInSourceTotal, r.OnlyInTargetTotal))
	}
	if !r.LabelsMatch {
		parts = append(parts, fmt.Sprintf("%d vertex labels differ", r.LabelMismatchTotal))
	}
	if !r.Symmetric {
		parts = append(parts, fmt.Sprintf("%d target entries lack their mirror", r.UnmirroredTotal))
	}
	return errs.New(errs.ErrCodeVerificationMismatch, "%s", strings.Join(parts, "; ")).At(r.TargetPath, 0)
}

// RoundTrip parses sourcePath and targetPath and compares them.
//
// The returned error is non-nil only when a file cannot be read or parsed;
// disagreement between two valid files is described by the Report.
func RoundTrip(sourcePath, targetPath string, opts Options) (*Report, error) {
	src, err := slfio.ImportSource(sourcePath)
	if err != nil {
		return nil, err
	}
	tgt, err := slfio.ImportTarget(targetPath)
	if err != nil {
		return nil, err
	}
	r := Compare(src, tgt, opts)
	r.SourcePath = sourcePath
	r.TargetPath = targetPath
	return r, nil
}

// Compare builds a Report for two already parsed graphs. tgt carries one
// edge per target adjacency entry, as [slfio.ReadTarget] returns it.
func Compare(src, tgt *graph.Graph, opts Options) *Report {
	limit := opts.preview()
	r := &Report{
		Directed:       opts.Directed,
		SourceVertices: src.VertexCount(),
		TargetVertices: tgt.VertexCount(),
	}
	r.VertexCountMatch = r.SourceVertices == r.TargetVertices

	se := graph.EdgeSetOf(src, opts.Directed)
	te := graph.EdgeSetOf(tgt, opts.Directed)
	r.SourceEdges = se.Len()
	r.TargetEdges = te.Len()

	onlySrc := se.Difference(te)
	onlyTgt := te.Difference(se)
	r.OnlyInSourceTotal = len(onlySrc)
	r.OnlyInTargetTotal = len(onlyTgt)
	r.OnlyInSource = head(onlySrc, limit)
	r.OnlyInTarget = head(onlyTgt, limit)
	r.EdgeSetEqual = len(onlySrc) == 0 && len(onlyTgt) == 0

	if !opts.Directed {
		unmirrored := graph.EdgeSetOf(tgt, true).Unmirrored()
		r.UnmirroredTotal = len(unmirrored)
		r.Unmirrored = head(unmirrored, limit)
	}
	r.Symmetric = r.UnmirroredTotal == 0

	n := min(r.SourceVertices, r.TargetVertices)
	for v := 0; v < n; v++ {
		sl, tl := src.Label(v), tgt.Label(v)
		if sl == tl {
			continue
		}
		r.LabelMismatchTotal++
		if len(r.LabelMismatches) < limit {
			r.LabelMismatches = append(r.LabelMismatches, LabelMismatch{Vertex: v, Source: sl, Target: tl})
		}
	}
	r.LabelsMatch = r.LabelMismatchTotal == 0

	return r
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
