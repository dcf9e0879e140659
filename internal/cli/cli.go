// Package cli implements the slfkit command-line interface.
//
// This package provides commands for converting t/v/e source descriptions
// into the adjacency target format, verifying conversions, inspecting and
// rendering graphs, importing SNAP edge lists, sampling query graphs,
// scraping engine logs and running experiment campaigns. The CLI is built
// using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Convert a source description into a target description
//   - verify: Check a target description against its source
//   - inspect: Print statistics and the query category of a graph
//   - import-snap: Turn a SNAP edge list into a source description
//   - sample: Sample query graphs from a data graph by random walk
//   - render: Draw a small graph as SVG or DOT
//   - result: Parse engine log files
//   - run: Execute an experiment described by a TOML file
//   - cache: Manage the conversion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and --trace
// for logging every conversion, engine and cache event. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slfkit/pkg/buildinfo"
	"github.com/matzehuels/slfkit/pkg/cache"
	"github.com/matzehuels/slfkit/pkg/observability"
	"github.com/matzehuels/slfkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "slfkit"

	// redisKeyPrefix scopes every key this tool writes to a shared Redis.
	redisKeyPrefix = appName + ":"

	// redisEnv is read when --redis is not given.
	redisEnv = "SLFKIT_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	redisURL string
	trace    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "slfkit converts and benchmarks graphs for subgraph matching",
		Long:         `slfkit converts labeled graphs from the t/v/e edge-list format into the adjacency format read by the matching engine, verifies conversions, and drives benchmark campaigns over query sets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.trace {
				c.Logger.SetLevel(log.DebugLevel)
				observability.NewLogHooks(c.Logger).Install()
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.redisURL, "redis", os.Getenv(redisEnv), "redis URL for the conversion cache (default: file cache)")
	root.PersistentFlags().BoolVar(&c.trace, "trace", false, "log conversion, engine and cache events")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.importSNAPCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.resultCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	if c.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.redisURL)
		if err != nil {
			return nil, err
		}
		keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix)
		return pipeline.NewRunner(rc, keyer, c.Logger), nil
	}
	return pipeline.NewRunner(newFileCache(c.Logger), nil, c.Logger), nil
}

// newFileCache opens the XDG cache, falling back to no caching when the
// directory is unavailable.
func newFileCache(logger *log.Logger) cache.Cache {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/slfkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
