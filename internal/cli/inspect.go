package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/experiment"
	"github.com/matzehuels/slfkit/pkg/graph"
)

// inspection is the JSON shape printed by inspect --json.
type inspection struct {
	Path     string              `json:"path"`
	Stats    graph.Stats         `json:"stats"`
	Category experiment.Category `json:"category"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		directed bool
		noCache  bool
		refresh  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Print statistics and the query category of a source description",
		Long: `Parse a t/v/e source description and print its vertex and edge counts,
degree statistics, connected components and the category the experiment
runner would file it under (size small/medium/large, density sparse/dense).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: graphFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := runner.Inspect(ctx, args[0], directed, refresh)
			if err != nil {
				return err
			}
			in := inspection{
				Path:     args[0],
				Stats:    st,
				Category: experiment.Classify(st.Vertices, st.Edges),
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}
			printInspection(in)
			return nil
		},
	}

	cmd.Flags().BoolVar(&directed, "directed", false, "count degrees and duplicates as directed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the statistics cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func printInspection(in inspection) {
	st := in.Stats
	fmt.Println(styleHeading.Render(in.Path))
	printKeyValue("category", styleAccent.Render(in.Category.String()))
	printKeyValue("vertices", strconv.Itoa(st.Vertices))
	printKeyValue("edges", fmt.Sprintf("%d (%d distinct)", st.Edges, st.UniqueEdges))
	printKeyValue("labels", strconv.Itoa(st.Labels))
	printKeyValue("avg degree", strconv.FormatFloat(st.AvgDegree, 'f', 2, 64))
	printKeyValue("max degree", strconv.Itoa(st.MaxDegree))
	printKeyValue("components", strconv.Itoa(st.Components))
	if st.IsolatedVertices > 0 {
		printKeyValue("isolated", strconv.Itoa(st.IsolatedVertices))
	}
	if st.SelfLoops > 0 || st.DuplicateEdges > 0 {
		printWarning("%d self-loops, %d duplicate edges", st.SelfLoops, st.DuplicateEdges)
	}
}
