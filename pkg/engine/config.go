// Package engine drives the external subgraph-matching engine.
//
// The engine is a prebuilt executable configured through a JSON file and
// reporting through a text log. This package writes that configuration,
// runs the executable under a deadline and reads the outcome back from the
// log. It knows nothing about how the engine matches.
package engine

import (
	"encoding/json"
	"time"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	slfio "github.com/matzehuels/slfkit/pkg/io"
)

// Defaults for fields the engine requires but the harness rarely changes.
const (
	DefaultLogLevel    = "info"
	DefaultGraphFormat = "grf"
)

// Config is the engine's JSON configuration file.
type Config struct {
	Log LogConfig `json:"log"`
	SLF SLFConfig `json:"slf"`
}

// LogConfig tells the engine where to write its log.
type LogConfig struct {
	Path  string `json:"path"`
	Level string `json:"level"`
}

// SLFConfig holds the search parameters.
type SLFConfig struct {
	ThreadNumber int    `json:"thread_number"`
	GraphFormat  string `json:"graph_format"`

	// MaxLogResults is how many mappings the engine echoes into its log.
	MaxLogResults int `json:"max_log_results"`

	// SearchResultsLimitation stops the search after this many mappings.
	SearchResultsLimitation int64 `json:"search_results_limitation"`

	SearchTimeLimitationSeconds int    `json:"search_time_limitation_seconds"`
	Tasks                       []Task `json:"tasks"`
}

// Task pairs a query graph with the data graph to search, both as target
// descriptions.
type Task struct {
	Query  string `json:"query"`
	Target string `json:"target"`
}

// TimeLimit returns the configured search time limit.
func (c *Config) TimeLimit() time.Duration {
	return time.Duration(c.SLF.SearchTimeLimitationSeconds) * time.Second
}

// SetDefaults fills in the log level and graph format when empty.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.SLF.GraphFormat == "" {
		c.SLF.GraphFormat = DefaultGraphFormat
	}
}

// Validate checks the fields the engine cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Log.Path == "":
		return errs.New(errs.ErrCodeInvalidConfig, "engine log path is required")
	case c.SLF.ThreadNumber < 1:
		return errs.New(errs.ErrCodeInvalidConfig, "thread_number must be at least 1, got %d", c.SLF.ThreadNumber)
	case c.SLF.SearchResultsLimitation < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "search_results_limitation must not be negative")
	case c.SLF.SearchTimeLimitationSeconds < 1:
		return errs.New(errs.ErrCodeInvalidConfig, "search_time_limitation_seconds must be at least 1, got %d", c.SLF.SearchTimeLimitationSeconds)
	case len(c.SLF.Tasks) == 0:
		return errs.New(errs.ErrCodeInvalidConfig, "at least one task is required")
	}
	for i, t := range c.SLF.Tasks {
		if t.Query == "" || t.Target == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "task %d needs both query and target", i)
		}
	}
	return nil
}

// WriteConfig applies defaults, validates c and writes it to path as
// indented JSON, atomically.
func WriteConfig(path string, c *Config) error {
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode engine config")
	}
	return slfio.WriteBytesAtomic(path, append(data, '\n'))
}
