package experiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
	slfio "github.com/matzehuels/slfkit/pkg/io"
)

// DefaultSampleCount is the number of queries sampled when none is given.
const DefaultSampleCount = 20

// SampleOptions configures query generation from a data graph.
type SampleOptions struct {
	// DataGraph is a t/v/e source description, or a SNAP edge list when
	// SNAP is set.
	DataGraph string
	SNAP      bool

	// OutputDir receives query_<density>_<size>_<n>.graph files, n = 1..Count.
	OutputDir string

	// Size is the number of vertices per query.
	Size int

	// Count is the number of queries. Zero means DefaultSampleCount.
	Count int

	// Seed makes sampling reproducible. Zero picks a random seed, which is
	// logged and returned in the Sample.
	Seed uint64
}

// Sample is the outcome of GenerateQueries.
type Sample struct {
	Seed    uint64
	Queries []Query
}

// GenerateQueries samples opts.Count query graphs of opts.Size vertices from
// the data graph by random walk and writes them to opts.OutputDir as source
// descriptions. Query n uses its own stream of the seed, so a query can be
// regenerated alone. Existing files with the same names are replaced.
func GenerateQueries(ctx context.Context, opts SampleOptions, logger *log.Logger) (*Sample, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Count == 0 {
		opts.Count = DefaultSampleCount
	}
	if opts.Size < 1 || opts.Count < 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "sample size must be positive and count non-negative, got %d and %d", opts.Size, opts.Count)
	}
	for _, p := range []string{opts.DataGraph, opts.OutputDir} {
		if err := errs.ValidatePath(p); err != nil {
			return nil, err
		}
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}

	var data *graph.Graph
	var err error
	if opts.SNAP {
		data, err = slfio.ImportSNAP(opts.DataGraph, false)
	} else {
		data, err = slfio.ImportSource(opts.DataGraph)
	}
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeIOWrite, err, "create query directory").At(opts.OutputDir, 0)
	}
	logger.Info("sampling queries", "data", opts.DataGraph,
		"vertices", data.VertexCount(), "size", opts.Size, "count", opts.Count, "seed", opts.Seed)

	out := &Sample{Seed: opts.Seed}
	for n := 1; n <= opts.Count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(n)))
		q, err := graph.SampleRandomWalk(data, opts.Size, rng)
		if err != nil {
			if errors.Is(err, graph.ErrSampleSize) || errors.Is(err, graph.ErrSampleStalled) {
				return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "sample query %d", n).At(opts.DataGraph, 0)
			}
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "sample query %d", n)
		}

		cat := Classify(q.VertexCount(), q.EdgeCount())
		name := fmt.Sprintf("query_%s_%d_%d.graph", cat.Density, q.VertexCount(), n)
		path := filepath.Join(opts.OutputDir, name)
		if err := slfio.ExportSource(q, path); err != nil {
			return nil, err
		}
		logger.Debug("sampled query", "file", name, "vertices", q.VertexCount(), "edges", q.EdgeCount())

		out.Queries = append(out.Queries, Query{
			Path:     path,
			Name:     name,
			Vertices: q.VertexCount(),
			Edges:    q.EdgeCount(),
			Category: cat,
			Number:   n,
		})
	}
	return out, nil
}
