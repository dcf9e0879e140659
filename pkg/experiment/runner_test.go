package experiment

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slfkit/pkg/engine"
	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/pipeline"
)

// fakeEngine records jobs and answers from a table keyed by job name.
type fakeEngine struct {
	mu       sync.Mutex
	jobs     []engine.Job
	outcomes map[string]*engine.Outcome
	errs     map[string]error
}

func (f *fakeEngine) Run(ctx context.Context, job engine.Job) (*engine.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	if err := f.errs[job.Name]; err != nil {
		return nil, err
	}
	if out, ok := f.outcomes[job.Name]; ok {
		return out, nil
	}
	return &engine.Outcome{Result: engine.Result{Status: engine.StatusCompleted, Mappings: 1, TimeMS: 250, HasTime: true}}, nil
}

type fixture struct {
	cfg    *Config
	engine *fakeEngine
	runner *Runner
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, queries map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	queryDir := filepath.Join(root, "queries")
	if err := os.Mkdir(queryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeQueries(t, queryDir, queries)
	data := filepath.Join(root, "data.graph")
	if err := os.WriteFile(data, []byte(sourceText(30, 40)), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{
		OutputDir: filepath.Join(root, "results"),
		Run:       RunConfig{Threads: []int{1, 4}, Parallel: 2},
		Datasets:  []DatasetSpec{{Name: "toy", DataGraph: data, QueryDir: queryDir}},
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	eng := &fakeEngine{outcomes: map[string]*engine.Outcome{}, errs: map[string]error{}}
	r := NewRunner(cfg, pipeline.NewRunner(nil, nil, logger), eng, logger)
	r.Now = func() time.Time { return time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC) }
	return &fixture{cfg: cfg, engine: eng, runner: r, logs: &logs}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestRunnerRun(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"q_2.graph":   sourceText(4, 3),
		"q_1.graph":   sourceText(4, 3),
		"q_7.graph":   sourceText(25, 24),
		"bad_9.graph": "t 2 1\nv 0 1\nv 1 1\ne 0 5\n",
	})
	fx.engine.outcomes["q_7.graph"] = &engine.Outcome{Result: engine.Result{Status: engine.StatusTimeout, Legacy: true}}

	sum, err := fx.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(sum.Dir), "run_20260301_140509_") || !strings.HasPrefix(sum.ID, filepath.Base(sum.Dir)[len("run_20260301_140509_"):]) {
		t.Errorf("run dir %q does not match run id %q", sum.Dir, sum.ID)
	}
	if _, err := os.Stat(filepath.Join(sum.Dir, "experiment.toml")); err != nil {
		t.Errorf("effective config not written: %v", err)
	}
	if len(sum.Datasets) != 1 {
		t.Fatalf("Datasets = %d", len(sum.Datasets))
	}
	ds := sum.Datasets[0]
	if ds.Err != nil {
		t.Fatalf("dataset error: %v", ds.Err)
	}
	if ds.Queries != 4 || ds.Runs != 6 {
		t.Errorf("Queries = %d, Runs = %d; want 4, 6", ds.Queries, ds.Runs)
	}
	if ds.Outcomes["SUCCESS"] != 4 || ds.Outcomes["TIMEOUT"] != 2 || ds.Outcomes[StatusConvertFailed] != 2 {
		t.Errorf("Outcomes = %v", ds.Outcomes)
	}

	recs := readCSV(t, ds.CSV)
	if strings.Join(recs[0], ",") != "Dataset,PatternCategory,QueryFile,QueryVertices,QueryEdges,Threads,ExecutionTime_s,Result_Count,Status,Notes" {
		t.Errorf("header = %v", recs[0])
	}
	var got []string
	for _, rec := range recs[1:] {
		got = append(got, strings.Join(rec, ","))
	}
	want := []string{
		"toy,small_sparse,q_1.graph,4,3,1,0.25,1,SUCCESS,limit=100000",
		"toy,small_sparse,q_1.graph,4,3,4,0.25,1,SUCCESS,limit=100000",
		"toy,small_sparse,q_2.graph,4,3,1,0.25,1,SUCCESS,limit=100000",
		"toy,small_sparse,q_2.graph,4,3,4,0.25,1,SUCCESS,limit=100000",
		"toy,small_sparse,bad_9.graph,2,1,1,N/A,0,CONVERT_FAILED,limit=100000",
		"toy,small_sparse,bad_9.graph,2,1,4,N/A,0,CONVERT_FAILED,limit=100000",
		"toy,large_sparse,q_7.graph,25,24,1,N/A,0,TIMEOUT,limit=100000",
		"toy,large_sparse,q_7.graph,25,24,4,N/A,0,TIMEOUT,limit=100000",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("rows:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	dsDir := filepath.Join(sum.Dir, "toy")
	for _, name := range []string{"data_graph_toy.grf", "query_q_1.graph.grf", "query_q_7.graph.grf"} {
		if _, err := os.Stat(filepath.Join(dsDir, name)); err != nil {
			t.Errorf("missing converted file %s: %v", name, err)
		}
	}

	if len(fx.engine.jobs) != 6 {
		t.Fatalf("engine ran %d jobs, want 6", len(fx.engine.jobs))
	}
	first := fx.engine.jobs[0]
	if first.Name != "q_1.graph" || first.Config.SLF.ThreadNumber != 1 {
		t.Errorf("first job = %s/%d", first.Name, first.Config.SLF.ThreadNumber)
	}
	if first.Config.SLF.SearchTimeLimitationSeconds != 300 {
		t.Errorf("small query timeout = %d, want 300", first.Config.SLF.SearchTimeLimitationSeconds)
	}
	if last := fx.engine.jobs[5]; last.Config.SLF.SearchTimeLimitationSeconds != 1800 {
		t.Errorf("large query timeout = %d, want 1800", last.Config.SLF.SearchTimeLimitationSeconds)
	}
	task := first.Config.SLF.Tasks[0]
	if task.Query != filepath.Join(dsDir, "query_q_1.graph.grf") || task.Target != filepath.Join(dsDir, "data_graph_toy.grf") {
		t.Errorf("task = %+v", task)
	}
	if first.Config.Log.Path != filepath.Join(dsDir, "log_q_1.graph_1t.log") {
		t.Errorf("log path = %s", first.Config.Log.Path)
	}
}

func TestRunnerEngineError(t *testing.T) {
	fx := newFixture(t, map[string]string{"q_1.graph": sourceText(4, 3)})
	fx.engine.errs["q_1.graph"] = errs.New(errs.ErrCodeEngineFailed, "exec format error")

	sum, err := fx.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if n := sum.Datasets[0].Outcomes[StatusEngineError]; n != 2 {
		t.Errorf("engine errors = %d, want 2", n)
	}
	if !strings.Contains(fx.logs.String(), "engine run failed") {
		t.Error("engine failure should be logged")
	}
}

func TestRunnerDataGraphFailure(t *testing.T) {
	fx := newFixture(t, map[string]string{"q_1.graph": sourceText(4, 3)})
	if err := os.WriteFile(fx.cfg.Datasets[0].DataGraph, []byte("t 1 1\nv 0 1\ne 0 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sum, err := fx.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !errs.Is(sum.Datasets[0].Err, errs.ErrCodeEdgeOutOfRange) {
		t.Errorf("dataset Err = %v, want EDGE_OUT_OF_RANGE", sum.Datasets[0].Err)
	}
	if len(fx.engine.jobs) != 0 {
		t.Errorf("engine should not run without a data graph, ran %d jobs", len(fx.engine.jobs))
	}
}

func TestRunnerCanceled(t *testing.T) {
	fx := newFixture(t, map[string]string{"q_1.graph": sourceText(4, 3)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fx.runner.Run(ctx); err == nil {
		t.Error("Run with canceled context should fail")
	}
}
