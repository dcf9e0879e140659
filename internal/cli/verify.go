package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/graph"
	"github.com/matzehuels/slfkit/pkg/verify"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var (
		directed bool
		preview  int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "verify <source> <target>",
		Short: "Check that a target description encodes the same graph as its source",
		Long: `Parse both files and compare vertex counts, vertex labels and the sets of
edges. Duplicate edges and the order of neighbor lists are ignored. Exits
non-zero when the graphs differ.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: graphFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := verify.RoundTrip(args[0], args[1], verify.Options{
				Directed: directed,
				Preview:  preview,
			})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
				return report.Err()
			}
			printReport(report)
			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&directed, "directed", false, "compare ordered pairs instead of unordered ones")
	cmd.Flags().IntVar(&preview, "preview", 0, "differences to list per category (default 5, negative for none)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

// printReport prints a verification report.
func printReport(r *verify.Report) {
	if r.OK() {
		printSuccess("Round trip verified")
		printDetail("%d vertices · %d distinct edges", r.SourceVertices, r.SourceEdges)
		return
	}

	printWarning("Round trip mismatch")
	if !r.VertexCountMatch {
		printKeyValue("vertices", fmt.Sprintf("%d source, %d target", r.SourceVertices, r.TargetVertices))
	}
	if !r.EdgeSetEqual {
		printKeyValue("edges", fmt.Sprintf("%d source, %d target", r.SourceEdges, r.TargetEdges))
		printPairs("only in source", r.OnlyInSource, r.OnlyInSourceTotal)
		printPairs("only in target", r.OnlyInTarget, r.OnlyInTargetTotal)
	}
	if !r.LabelsMatch {
		printKeyValue("labels", fmt.Sprintf("%d differ", r.LabelMismatchTotal))
		for _, m := range r.LabelMismatches {
			printDetail("vertex %d: %d in source, %d in target", m.Vertex, m.Source, m.Target)
		}
		if more := r.LabelMismatchTotal - len(r.LabelMismatches); more > 0 {
			printDetail("... and %d more", more)
		}
	}
	if !r.Symmetric {
		printPairs("missing mirror entry", r.Unmirrored, r.UnmirroredTotal)
	}
}

func printPairs(title string, pairs []graph.Pair, total int) {
	if total == 0 {
		return
	}
	printInfo("%s (%d)", title, total)
	for _, p := range pairs {
		printDetail("(%d, %d)", p.U, p.V)
	}
	if more := total - len(pairs); more > 0 {
		printDetail("... and %d more", more)
	}
}
