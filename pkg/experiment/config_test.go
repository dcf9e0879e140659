package experiment

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/slfkit/pkg/engine"
	errs "github.com/matzehuels/slfkit/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exp.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[[dataset]]
name = "dblp"
data_graph = "dblp/data_graph/dblp.graph"
query_dir = "/abs/query_graph"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	base := filepath.Dir(path)

	if cfg.OutputDir != filepath.Join(base, DefaultOutputDir) {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Engine.Command != engine.DefaultCommand {
		t.Errorf("Engine.Command = %q", cfg.Engine.Command)
	}
	if cfg.Engine.GraceSeconds != DefaultGraceSeconds || cfg.Engine.LogLevel != "info" {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if !slices.Equal(cfg.Run.Threads, []int{1, 2, 4}) {
		t.Errorf("Threads = %v", cfg.Run.Threads)
	}
	if cfg.Run.MaxQueriesPerCategory != 50 || cfg.Run.Parallel < 1 {
		t.Errorf("Run = %+v", cfg.Run)
	}
	if !slices.Equal(cfg.Run.Categories, CategoryOrder) {
		t.Errorf("Categories = %v", cfg.Run.Categories)
	}
	if cfg.Limits != (LimitsConfig{300, 1800, 100000}) {
		t.Errorf("Limits = %+v", cfg.Limits)
	}

	ds := cfg.Datasets[0]
	if ds.DataGraph != filepath.Join(base, "dblp/data_graph/dblp.graph") {
		t.Errorf("DataGraph = %q, want resolved against config dir", ds.DataGraph)
	}
	if ds.QueryDir != "/abs/query_graph" {
		t.Errorf("QueryDir = %q, absolute paths must be kept", ds.QueryDir)
	}
	if ds.QueryPattern != "*.graph" {
		t.Errorf("QueryPattern = %q", ds.QueryPattern)
	}
}

func TestLoadConfigRelativePathIsAbsolute(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := `
output_dir = "results"

[engine]
dir = "slf"

[[dataset]]
name = "toy"
data_graph = "toy/data.graph"
query_dir = "toy/queries"
`
	if err := os.WriteFile("experiment.toml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("experiment.toml")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	// t.TempDir may sit behind a symlink, so compare against the resolved cwd.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"output_dir", cfg.OutputDir, filepath.Join(wd, "results")},
		{"engine.dir", cfg.Engine.Dir, filepath.Join(wd, "slf")},
		{"data_graph", cfg.Datasets[0].DataGraph, filepath.Join(wd, "toy/data.graph")},
		{"query_dir", cfg.Datasets[0].QueryDir, filepath.Join(wd, "toy/queries")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !filepath.IsAbs(tt.got) {
				t.Fatalf("%s = %q, want an absolute path", tt.name, tt.got)
			}
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
output_dir = "/tmp/out"

[engine]
command = "/opt/slf/build/slf -c %CONFIG%"
max_log_results = 10

[run]
threads = [8]
max_queries_per_category = 5
categories = ["large_dense", "small_sparse"]
directed = true
parallel = 2

[limits]
small_timeout_seconds = 10
default_timeout_seconds = 20
result_limit = 7

[[dataset]]
name = "roadNet-CA"
data_graph = "a.graph"
query_dir = "q"
query_pattern = "query_dense_*.graph"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.OutputDir != "/tmp/out" || cfg.Engine.MaxLogResults != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Run.Directed || cfg.Run.Parallel != 2 || cfg.Run.MaxQueriesPerCategory != 5 {
		t.Errorf("Run = %+v", cfg.Run)
	}
	want := []Category{{SizeLarge, DensityDense}, {SizeSmall, DensitySparse}}
	if !slices.Equal(cfg.Run.Categories, want) {
		t.Errorf("Categories = %v, want %v", cfg.Run.Categories, want)
	}
	if cfg.Limits != (LimitsConfig{10, 20, 7}) {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dataset := "\n[[dataset]]\nname = \"d\"\ndata_graph = \"a.graph\"\nquery_dir = \"q\"\n"

	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "output_dir = \n"},
		{"unknown key", "colour = \"red\"\n" + dataset},
		{"no datasets", "output_dir = \"x\"\n"},
		{"bad dataset name", "[[dataset]]\nname = \"../etc\"\ndata_graph = \"a\"\nquery_dir = \"q\"\n"},
		{"duplicate dataset", dataset + dataset},
		{"missing query dir", "[[dataset]]\nname = \"d\"\ndata_graph = \"a\"\n"},
		{"bad pattern", "[[dataset]]\nname = \"d\"\ndata_graph = \"a\"\nquery_dir = \"q\"\nquery_pattern = \"[\"\n"},
		{"zero thread count", "[run]\nthreads = [1, 0]\n" + dataset},
		{"unknown category", "[run]\ncategories = [\"huge_dense\"]\n" + dataset},
		{"negative limit", "[limits]\nresult_limit = -1\n" + dataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("LoadConfig() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig of missing file should fail")
	}
}
