// Package experiment runs batches of matching-engine searches over query
// graphs and records one CSV row per run.
//
// An experiment is described by a TOML file:
//
//	output_dir = "results"
//
//	[engine]
//	command = "./build/slf -c %CONFIG%"
//	dir = "/opt/slf"
//
//	[run]
//	threads = [1, 2, 4]
//	max_queries_per_category = 50
//
//	[limits]
//	small_timeout_seconds = 300
//	default_timeout_seconds = 1800
//	result_limit = 100000
//
//	[[dataset]]
//	name = "dblp"
//	data_graph = "dblp/data_graph/dblp.graph"
//	query_dir = "dblp/query_graph"
//
// Relative paths are resolved against the directory of the TOML file.
package experiment

import (
	"errors"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/matzehuels/slfkit/pkg/engine"
	errs "github.com/matzehuels/slfkit/pkg/errors"
)

// Default values applied by ValidateAndSetDefaults.
const (
	DefaultOutputDir             = "results"
	DefaultQueryPattern          = "*.graph"
	DefaultMaxQueriesPerCategory = 50
	DefaultSmallTimeoutSeconds   = 300
	DefaultTimeoutSeconds        = 1800
	DefaultResultLimit           = 100000
	DefaultGraceSeconds          = 30
)

// DefaultThreads are the thread counts every query is run with.
var DefaultThreads = []int{1, 2, 4}

// Config describes an experiment.
type Config struct {
	OutputDir string        `toml:"output_dir"`
	Engine    EngineConfig  `toml:"engine"`
	Run       RunConfig     `toml:"run"`
	Limits    LimitsConfig  `toml:"limits"`
	Datasets  []DatasetSpec `toml:"dataset"`

	validated bool
}

// EngineConfig locates the engine executable.
type EngineConfig struct {
	// Command is split with shell quoting rules; %CONFIG% and %LOG% are
	// substituted per run.
	Command string `toml:"command"`

	// Dir is the engine's working directory.
	Dir string `toml:"dir"`

	GraceSeconds  int    `toml:"grace_seconds"`
	LogLevel      string `toml:"log_level"`
	MaxLogResults int    `toml:"max_log_results"`
}

// RunConfig controls query selection and the run loop.
type RunConfig struct {
	Threads               []int `toml:"threads"`
	MaxQueriesPerCategory int   `toml:"max_queries_per_category"`

	// Categories restricts and orders the categories run. Empty means all,
	// in CategoryOrder.
	Categories []Category `toml:"categories"`

	// Directed converts graphs without mirroring edges.
	Directed bool `toml:"directed"`

	// Parallel bounds concurrent query conversions.
	Parallel int `toml:"parallel"`
}

// LimitsConfig holds the adaptive engine limits.
type LimitsConfig struct {
	SmallTimeoutSeconds   int   `toml:"small_timeout_seconds"`
	DefaultTimeoutSeconds int   `toml:"default_timeout_seconds"`
	ResultLimit           int64 `toml:"result_limit"`
}

// DatasetSpec names a data graph and the directory of its query graphs.
type DatasetSpec struct {
	Name         string `toml:"name"`
	DataGraph    string `toml:"data_graph"`
	QueryDir     string `toml:"query_dir"`
	QueryPattern string `toml:"query_pattern"`
}

// LoadConfig decodes the TOML file at path, resolves relative paths against
// its directory and validates it. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode experiment config").At(path, 0)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String()).At(path, 0)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "resolve config directory").At(path, 0)
	}
	cfg.resolvePaths(base)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		var e *errs.Error
		if errors.As(err, &e) && e.File == "" {
			e.File = path
		}
		return nil, err
	}
	return &cfg, nil
}

// resolvePaths makes every path absolute against base. The engine runs with
// Engine.Dir as its working directory, so relative paths would resolve there.
func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	c.OutputDir = abs(c.OutputDir)
	c.Engine.Dir = abs(c.Engine.Dir)
	for i := range c.Datasets {
		c.Datasets[i].DataGraph = abs(c.Datasets[i].DataGraph)
		c.Datasets[i].QueryDir = abs(c.Datasets[i].QueryDir)
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	if c.Engine.Command == "" {
		c.Engine.Command = engine.DefaultCommand
	}
	if c.Engine.GraceSeconds == 0 {
		c.Engine.GraceSeconds = DefaultGraceSeconds
	}
	if c.Engine.LogLevel == "" {
		c.Engine.LogLevel = engine.DefaultLogLevel
	}
	if c.Engine.GraceSeconds < 0 || c.Engine.MaxLogResults < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "engine grace_seconds and max_log_results must not be negative")
	}

	if len(c.Run.Threads) == 0 {
		c.Run.Threads = append([]int(nil), DefaultThreads...)
	}
	for _, n := range c.Run.Threads {
		if n < 1 {
			return errs.New(errs.ErrCodeInvalidConfig, "thread count must be at least 1, got %d", n)
		}
	}
	if c.Run.MaxQueriesPerCategory == 0 {
		c.Run.MaxQueriesPerCategory = DefaultMaxQueriesPerCategory
	}
	if c.Run.MaxQueriesPerCategory < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_queries_per_category must not be negative")
	}
	if len(c.Run.Categories) == 0 {
		c.Run.Categories = append([]Category(nil), CategoryOrder...)
	}
	if c.Run.Parallel == 0 {
		c.Run.Parallel = runtime.NumCPU()
	}
	if c.Run.Parallel < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "parallel must not be negative")
	}

	if c.Limits.SmallTimeoutSeconds == 0 {
		c.Limits.SmallTimeoutSeconds = DefaultSmallTimeoutSeconds
	}
	if c.Limits.DefaultTimeoutSeconds == 0 {
		c.Limits.DefaultTimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Limits.ResultLimit == 0 {
		c.Limits.ResultLimit = DefaultResultLimit
	}
	if c.Limits.SmallTimeoutSeconds < 0 || c.Limits.DefaultTimeoutSeconds < 0 || c.Limits.ResultLimit < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "limits must not be negative")
	}

	if len(c.Datasets) == 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "at least one [[dataset]] is required")
	}
	seen := make(map[string]bool, len(c.Datasets))
	for i := range c.Datasets {
		ds := &c.Datasets[i]
		if err := errs.ValidateName("dataset", ds.Name); err != nil {
			return err
		}
		if seen[ds.Name] {
			return errs.New(errs.ErrCodeInvalidConfig, "duplicate dataset %q", ds.Name)
		}
		seen[ds.Name] = true
		if ds.DataGraph == "" || ds.QueryDir == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "dataset %q needs data_graph and query_dir", ds.Name)
		}
		if ds.QueryPattern == "" {
			ds.QueryPattern = DefaultQueryPattern
		}
		if _, err := glob.Compile(ds.QueryPattern); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "dataset %q: invalid query_pattern %q", ds.Name, ds.QueryPattern)
		}
	}

	c.validated = true
	return nil
}
