package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/experiment"
)

// sampleCommand creates the sample command.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		size  int
		count int
		seed  uint64
		snap  bool
	)

	cmd := &cobra.Command{
		Use:   "sample <data-graph> <query-dir>",
		Short: "Sample query graphs from a data graph by random walk",
		Long: `Generate query graphs for an experiment by walking the data graph.

Each query starts at a random vertex and steps to random neighbors until
--size distinct vertices are visited. The subgraph they induce is written
as query_<density>_<size>_<n>.graph, keeping the data graph's labels.
Edges are treated as undirected.

The same --seed reproduces the same queries; without it a seed is picked
and printed.`,
		Example: `  slfkit sample dblp/data_graph/dblp.graph dblp/query_graph --size 8 --count 50
  slfkit sample com-dblp.ungraph.txt queries --snap --size 16 --seed 7`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: graphFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sample, err := experiment.GenerateQueries(ctx, experiment.SampleOptions{
				DataGraph: args[0],
				SNAP:      snap,
				OutputDir: args[1],
				Size:      size,
				Count:     count,
				Seed:      seed,
			}, loggerFromContext(ctx))
			if err != nil {
				return err
			}

			printSuccess("Sampled %d queries from %s", len(sample.Queries), args[0])
			printKeyValue("seed", strconv.FormatUint(sample.Seed, 10))
			for _, q := range sample.Queries {
				printFile(q.Path)
			}
			if len(sample.Queries) > 0 {
				printNewline()
				printNextStep("Inspect with", "slfkit inspect "+sample.Queries[0].Path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "vertices per query (required)")
	cmd.Flags().IntVar(&count, "count", experiment.DefaultSampleCount, "number of queries")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().BoolVar(&snap, "snap", false, "read the data graph as a SNAP edge list")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}
