package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	directed bool // keep edges one-way instead of mirroring them
	verify   bool // re-read both files and compare after writing
	preview  int  // differences listed per category on mismatch
	noCache  bool // bypass the conversion cache entirely
	refresh  bool // ignore cached entries but store fresh ones
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert <source> <target>",
		Short: "Convert a t/v/e source description into the adjacency target format",
		Long: `Convert a labeled graph from the t/v/e edge-list format into the adjacency
format read by the matching engine.

Undirected graphs (the default) list every edge in the neighbor lists of
both endpoints. With --directed each edge appears only in its source
vertex's list. The target file is replaced atomically, so an interrupted
conversion never leaves a partial file behind.`,
		Example: `  slfkit convert data.graph data.grf
  slfkit convert --verify query_3.graph query_3.grf
  slfkit convert --directed web.graph web.grf`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: graphFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.directed, "directed", false, "treat edges as directed (no mirroring)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "verify the target against the source after writing")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "differences to list per category on mismatch (default 5, negative for none)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the conversion cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and convert again")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, source, target string, opts convertOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Converting "+source+"...")
	spinner.Start()

	res, err := runner.Convert(ctx, pipeline.ConvertOptions{
		Source:   source,
		Target:   target,
		Directed: opts.directed,
		Verify:   opts.verify,
		Preview:  opts.preview,
		Refresh:  opts.refresh,
		Logger:   loggerFromContext(ctx),
	})
	if err != nil && !errs.Is(err, errs.ErrCodeVerificationMismatch) {
		spinner.StopWithError("Conversion failed")
		return err
	}

	spinner.StopWithSuccess("Converted " + source)
	printStats(res.Stats.Vertices, res.Stats.Edges, res.CacheInfo.TargetHit)
	printFile(target)
	printDetail("%s in %s", kb(res.TargetBytes), res.Timing.Total().Round(time.Millisecond))
	if res.Report != nil {
		printNewline()
		printReport(res.Report)
	}
	return err
}

// kb formats a byte count for display.
func kb(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1024), ".0") + " KB"
}
