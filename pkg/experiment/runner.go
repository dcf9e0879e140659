package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/slfkit/pkg/buildinfo"
	"github.com/matzehuels/slfkit/pkg/engine"
	errs "github.com/matzehuels/slfkit/pkg/errors"
	slfio "github.com/matzehuels/slfkit/pkg/io"
	"github.com/matzehuels/slfkit/pkg/pipeline"
)

// Engine runs one engine job. *engine.Runner implements it.
type Engine interface {
	Run(ctx context.Context, job engine.Job) (*engine.Outcome, error)
}

// Converter converts a source description into a target description.
// *pipeline.Runner implements it.
type Converter interface {
	Convert(ctx context.Context, opts pipeline.ConvertOptions) (*pipeline.Result, error)
}

// Runner executes an experiment.
type Runner struct {
	Config    *Config
	Converter Converter
	Engine    Engine
	Logger    *log.Logger

	// Now stamps the run directory. Defaults to time.Now.
	Now func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	ID  string
	Dir string

	// Revision identifies the slfkit build that produced the run.
	Revision string

	Datasets []DatasetSummary
}

// DatasetSummary describes the runs of one dataset.
type DatasetSummary struct {
	Name    string
	CSV     string
	Queries int
	Runs    int

	// Outcome counts keyed by status label (SUCCESS, TIMEOUT, ...).
	Outcomes map[string]int

	// Err is set when the dataset was abandoned, e.g. because its data
	// graph could not be converted.
	Err error
}

// NewRunner returns a runner for cfg.
func NewRunner(cfg *Config, conv Converter, eng Engine, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Config: cfg, Converter: conv, Engine: eng, Logger: logger, Now: time.Now}
}

// Run creates a run directory below the configured output directory and
// processes every dataset in turn.
//
// Failures local to a dataset or query are recorded and the run continues.
// Run returns an error only when the run directory or a results file cannot
// be written, or when ctx is canceled.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := r.Config.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	dir := filepath.Join(r.Config.OutputDir, fmt.Sprintf("run_%s_%s", now().Format("20060102_150405"), id[:8]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeIOWrite, err, "create run directory").At(dir, 0)
	}
	if err := writeEffectiveConfig(filepath.Join(dir, "experiment.toml"), r.Config); err != nil {
		return nil, err
	}

	sum := &Summary{ID: id, Dir: dir, Revision: buildinfo.Revision()}
	r.Logger.Info("experiment started", "run", id, "dir", dir, "datasets", len(r.Config.Datasets),
		"version", buildinfo.Version, "revision", sum.Revision)

	for _, ds := range r.Config.Datasets {
		dsum, err := r.runDataset(ctx, dir, ds)
		if dsum != nil {
			sum.Datasets = append(sum.Datasets, *dsum)
		}
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func writeEffectiveConfig(path string, cfg *Config) error {
	return slfio.WriteFileAtomic(path, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(cfg)
	})
}

func (r *Runner) runDataset(ctx context.Context, runDir string, ds DatasetSpec) (*DatasetSummary, error) {
	logger := r.Logger.With("dataset", ds.Name)
	dir := filepath.Join(runDir, ds.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeIOWrite, err, "create dataset directory").At(dir, 0)
	}

	rw, err := CreateResultWriter(filepath.Join(dir, "slf_results_"+ds.Name+".csv"))
	if err != nil {
		return nil, err
	}
	defer rw.Close()

	sum := &DatasetSummary{Name: ds.Name, CSV: rw.Path(), Outcomes: make(map[string]int)}

	dataTarget := filepath.Join(dir, "data_graph_"+ds.Name+".grf")
	if _, err := r.Converter.Convert(ctx, pipeline.ConvertOptions{
		Source:   ds.DataGraph,
		Target:   dataTarget,
		Directed: r.Config.Run.Directed,
		Logger:   logger,
	}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}
		logger.Error("data graph conversion failed", "err", errs.UserMessage(err))
		sum.Err = err
		return sum, nil
	}

	sel, err := SelectQueries(ds.QueryDir, ds.QueryPattern, r.Config.Run.MaxQueriesPerCategory, logger)
	if err != nil {
		logger.Error("query selection failed", "err", errs.UserMessage(err))
		sum.Err = err
		return sum, nil
	}
	queries := sel.Ordered(r.Config.Run.Categories)
	sum.Queries = len(queries)
	logger.Info("selected queries", "matched", sel.Matched, "selected", len(queries), "skipped", len(sel.Skipped))

	targets, convErrs, err := r.convertQueries(ctx, dir, queries)
	if err != nil {
		return sum, err
	}

	for i, q := range queries {
		limits := r.Config.Limits.AdaptiveLimits(q.Category)
		if convErrs[i] != nil {
			logger.Warn("query conversion failed", "query", q.Name, "err", errs.UserMessage(convErrs[i]))
			for _, threads := range r.Config.Run.Threads {
				row := r.row(ds.Name, q, threads, limits)
				row.Status = StatusConvertFailed
				if err := rw.Write(row); err != nil {
					return sum, err
				}
				sum.Outcomes[row.Status]++
			}
			continue
		}

		for _, threads := range r.Config.Run.Threads {
			row, err := r.runQuery(ctx, ds.Name, dir, dataTarget, targets[i], q, threads, limits)
			if err != nil {
				return sum, err
			}
			if err := rw.Write(row); err != nil {
				return sum, err
			}
			sum.Runs++
			sum.Outcomes[row.Status]++
			logger.Info("run finished", "query", q.Name, "threads", threads,
				"status", row.Status, "mappings", row.Mappings)
		}
	}
	return sum, nil
}

// convertQueries converts all queries concurrently. Per-query failures are
// returned in convErrs; err is set only when ctx is canceled.
func (r *Runner) convertQueries(ctx context.Context, dir string, queries []Query) (targets []string, convErrs []error, err error) {
	targets = make([]string, len(queries))
	convErrs = make([]error, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Config.Run.Parallel)
	for i, q := range queries {
		targets[i] = filepath.Join(dir, "query_"+q.Name+".grf")
		g.Go(func() error {
			_, err := r.Converter.Convert(gctx, pipeline.ConvertOptions{
				Source:   q.Path,
				Target:   targets[i],
				Directed: r.Config.Run.Directed,
				Logger:   r.Logger,
			})
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				convErrs[i] = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return targets, convErrs, nil
}

func (r *Runner) runQuery(ctx context.Context, dataset, dir, dataTarget, queryTarget string, q Query, threads int, limits Limits) (Row, error) {
	row := r.row(dataset, q, threads, limits)

	job := engine.Job{
		Name:       q.Name,
		ConfigPath: filepath.Join(dir, "config_run.json"),
		Config: engine.Config{
			Log: engine.LogConfig{
				Path:  filepath.Join(dir, fmt.Sprintf("log_%s_%dt.log", q.Name, threads)),
				Level: r.Config.Engine.LogLevel,
			},
			SLF: engine.SLFConfig{
				ThreadNumber:                threads,
				MaxLogResults:               r.Config.Engine.MaxLogResults,
				SearchResultsLimitation:     limits.ResultLimit,
				SearchTimeLimitationSeconds: limits.TimeoutSeconds,
				Tasks:                       []engine.Task{{Query: queryTarget, Target: dataTarget}},
			},
		},
	}

	out, err := r.Engine.Run(ctx, job)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return row, ctxErr
		}
		r.Logger.Warn("engine run failed", "query", q.Name, "threads", threads, "err", errs.UserMessage(err))
		row.Status = StatusEngineError
		return row, nil
	}

	row.Status = out.Label()
	row.Mappings = out.Mappings
	row.HasTime = out.HasTime
	row.Seconds = out.Seconds()
	return row, nil
}

func (r *Runner) row(dataset string, q Query, threads int, limits Limits) Row {
	return Row{
		Dataset:  dataset,
		Category: q.Category,
		Query:    q.Name,
		Vertices: q.Vertices,
		Edges:    q.Edges,
		Threads:  threads,
		Limit:    limits.ResultLimit,
	}
}
