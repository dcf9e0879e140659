package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/engine"
	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/experiment"
)

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		configPath string
		noCache    bool
		plan       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an experiment campaign described by a TOML file",
		Long: `Convert every dataset's data graph and a capped, categorized selection of
its query graphs, then run the matching engine once per query and thread
count. Results are appended to one CSV file per dataset inside a fresh
run directory.

With --plan the query selection is printed and nothing is converted or run.`,
		Example: `  slfkit run -c experiment.toml
  slfkit run -c experiment.toml --plan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := experiment.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if plan {
				return printPlan(cmd.Context(), cfg)
			}
			return c.runExperiment(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "experiment.toml", "experiment configuration file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the conversion cache")
	cmd.Flags().BoolVar(&plan, "plan", false, "print the query selection and exit")

	return cmd
}

func (c *CLI) runExperiment(ctx context.Context, cfg *experiment.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	conv, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer conv.Close()

	eng := engine.NewRunner(cfg.Engine.Command, cfg.Engine.Dir, logger.WithPrefix("engine"))
	eng.Grace = time.Duration(cfg.Engine.GraceSeconds) * time.Second

	prog := newProgress(logger)
	sum, err := experiment.NewRunner(cfg, conv, eng, logger).Run(ctx)
	if sum != nil {
		printSummary(sum)
	}
	if err != nil {
		return err
	}
	prog.done("experiment finished", "run", sum.ID)
	return nil
}

func printSummary(sum *experiment.Summary) {
	printNewline()
	printSuccess("Run %s", sum.ID)
	printDetail("Directory: %s", sum.Dir)
	printDetail("Revision: %s", sum.Revision)
	for _, ds := range sum.Datasets {
		printNewline()
		fmt.Println(styleHeading.Render(ds.Name))
		if ds.Err != nil {
			printError("%s", errs.UserMessage(ds.Err))
			continue
		}
		printKeyValue("queries", fmt.Sprint(ds.Queries))
		printKeyValue("runs", fmt.Sprint(ds.Runs))
		printKeyValue("outcomes", formatOutcomes(ds.Outcomes))
		printFile(ds.CSV)
	}
}

// formatOutcomes renders outcome counts in a stable order.
func formatOutcomes(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}

func printPlan(ctx context.Context, cfg *experiment.Config) error {
	logger := loggerFromContext(ctx)
	for _, ds := range cfg.Datasets {
		sel, err := experiment.SelectQueries(ds.QueryDir, ds.QueryPattern, cfg.Run.MaxQueriesPerCategory, logger)
		if err != nil {
			return err
		}
		queries := sel.Ordered(cfg.Run.Categories)

		fmt.Println(styleHeading.Render(ds.Name))
		printKeyValue("data graph", ds.DataGraph)
		printKeyValue("queries", fmt.Sprintf("%d of %d matched, %d skipped", len(queries), sel.Matched, len(sel.Skipped)))
		printKeyValue("runs", fmt.Sprint(len(queries)*len(cfg.Run.Threads)))
		for _, cat := range cfg.Run.Categories {
			qs := sel.ByCategory[cat]
			if len(qs) == 0 {
				continue
			}
			limits := cfg.Limits.AdaptiveLimits(cat)
			printInfo("%s (%d) timeout %ds", styleAccent.Render(cat.String()), len(qs), limits.TimeoutSeconds)
			for _, q := range qs {
				printDetail("%s  %d vertices, %d edges", q.Name, q.Vertices, q.Edges)
			}
		}
		for _, err := range sel.Skipped {
			printWarning("%s", errs.UserMessage(err))
		}
		printNewline()
	}
	return nil
}
