package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/engine"
)

// logResult pairs a parsed engine log with its path.
type logResult struct {
	Path string `json:"path"`
	engine.Result
}

// resultCommand creates the result command.
func (c *CLI) resultCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "result <log>...",
		Short: "Read the outcome of engine runs from their log files",
		Long: `Parse one or more engine log files and print the status, number of
mappings found and search time of each.

Structured "msg=result" records are preferred. Older logs are scraped for
the "Find mapping number" and "Total Time cost" markers; such results are
marked legacy, and a legacy log without a mapping count is reported as a
timeout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]logResult, 0, len(args))
			for _, path := range args {
				res, err := engine.ParseLogFile(path)
				if err != nil {
					return err
				}
				results = append(results, logResult{Path: path, Result: res})
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, r := range results {
				printLogResult(r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func printLogResult(r logResult) {
	status := string(r.Status)
	switch r.Status {
	case engine.StatusCompleted:
		status = styleOK.Render(status)
	default:
		status = styleWarn.Render(status)
	}

	line := fmt.Sprintf("%s %s", styleValue.Render(r.Path), status)
	line += styleMuted.Render(sep) + styleAccent.Render(strconv.FormatInt(r.Mappings, 10)) + styleMuted.Render(" mappings")
	if r.HasTime {
		line += styleMuted.Render(sep) + styleAccent.Render(strconv.FormatFloat(r.Seconds(), 'f', 3, 64)) + styleMuted.Render(" s")
	}
	if r.Legacy {
		line += styleMuted.Render(" · legacy")
	}
	fmt.Println(line)
}
