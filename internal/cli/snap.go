package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// importSNAPCommand creates the import-snap command.
func (c *CLI) importSNAPCommand() *cobra.Command {
	var directed bool

	cmd := &cobra.Command{
		Use:   "import-snap <edge-list> <source>",
		Short: "Convert a SNAP edge list into a t/v/e source description",
		Long: `Read a whitespace-separated "u v" edge list as published by the Stanford
Network Analysis Project and write it as a t/v/e source description.

Lines starting with '#' are skipped. Repeated edges are dropped
(in both orientations unless --directed). The vertex count is the largest
id plus one and every vertex gets label 1.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: graphFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := runner.ImportSNAP(ctx, args[0], args[1], directed)
			if err != nil {
				return err
			}

			printSuccess("Imported %s", args[0])
			printStats(st.Vertices, st.Edges, false)
			printFile(args[1])
			printNewline()
			printNextStep("Convert with", "slfkit convert "+args[1]+" "+targetName(args[1]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&directed, "directed", false, "keep (u, v) and (v, u) as distinct edges")

	return cmd
}

// targetName suggests a target path next to a source path.
func targetName(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".grf"
}
