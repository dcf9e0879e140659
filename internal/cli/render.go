package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/graph"
	slfio "github.com/matzehuels/slfkit/pkg/io"
	"github.com/matzehuels/slfkit/pkg/render"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file; defaults to the input with the format's extension
	format      string // "svg" or "dot"
	target      bool   // input is an adjacency target description
	directed    bool   // draw arrows
	labels      bool   // show vertex labels next to ids
	edgeLabels  bool   // show edge labels
	maxVertices int    // refuse larger graphs
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, labels: true}

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Draw a small graph as SVG or Graphviz DOT",
		Long: `Draw a query-sized graph for inspection. Vertices are colored by label.

The input is a t/v/e source description unless --target is given. Graphs
with more than --max-vertices vertices are refused; data graphs are too
large to draw meaningfully.`,
		Example: `  slfkit render query_3.graph
  slfkit render --target -f dot -o q.dot query_3.grf`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: graphFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input path with .svg or .dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.target, "target", false, "read an adjacency target description")
	cmd.Flags().BoolVar(&opts.directed, "directed", false, "draw directed edges")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "show vertex labels")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", false, "show edge labels")
	cmd.Flags().IntVar(&opts.maxVertices, "max-vertices", render.DefaultMaxVertices, "largest graph to draw")

	return cmd
}

func validateFormat(f string) error {
	switch f {
	case formatSVG, formatDOT:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", f)
}

// outputPath derives the output file from the input path and format.
func outputPath(input, output, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var (
		g   *graph.Graph
		err error
	)
	if opts.target {
		g, err = slfio.ImportTarget(input)
	} else {
		g, err = slfio.ImportSource(input)
	}
	if err != nil {
		return err
	}

	ropts := render.Options{
		Directed:    opts.directed,
		Labels:      opts.labels,
		EdgeLabels:  opts.edgeLabels,
		MaxVertices: opts.maxVertices,
	}
	if err := render.Check(g, ropts); err != nil {
		return err
	}

	data := []byte(render.ToDOT(g, ropts))
	if opts.format == formatSVG {
		if data, err = render.RenderSVG(ctx, string(data)); err != nil {
			return err
		}
	}

	out := outputPath(input, opts.output, opts.format)
	if err := slfio.WriteBytesAtomic(out, data); err != nil {
		return err
	}
	prog.done("rendered", "vertices", g.VertexCount(), "edges", g.EdgeCount())

	printSuccess("Rendered %s", input)
	printFile(out)
	return nil
}
