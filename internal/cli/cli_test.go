package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/observability"
)

const scenarioSource = "t 3 2\nv 0 1\nv 1 1\nv 2 1\ne 0 1 1\ne 1 2 1\n"

const scenarioTarget = "3\n0 1\n1 1\n2 1\n1\n0 1\n2\n1 0\n1 2\n1\n2 1\n"

// execute runs the root command with args and an isolated cache.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(redisEnv, "")

	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	return logs.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	want := []string{"convert", "verify", "inspect", "import-snap", "sample", "render", "result", "run", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "query_1.graph")
	dst := filepath.Join(dir, "query_1.grf")
	writeFile(t, src, scenarioSource)

	logs, err := execute(t, "convert", "--verify", src, dst)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != scenarioTarget {
		t.Errorf("target =\n%q\nwant\n%q", got, scenarioTarget)
	}
	if !strings.Contains(logs, "converted") {
		t.Errorf("logs should record the conversion, got %q", logs)
	}
}

func TestConvertCommandMalformed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.graph")
	dst := filepath.Join(dir, "bad.grf")
	writeFile(t, src, "t 2 1\nv 0 1\nv 1 1\ne 0 5 1\n")

	_, err := execute(t, "convert", "--no-cache", src, dst)
	if !errs.Is(err, errs.ErrCodeEdgeOutOfRange) {
		t.Fatalf("convert error = %v, want EDGE_OUT_OF_RANGE", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("no target should be written for a malformed source")
	}
}

func TestVerifyCommandMismatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "q.graph")
	dst := filepath.Join(dir, "q.grf")
	writeFile(t, src, scenarioSource)
	// Vertex 2 lost its edge.
	writeFile(t, dst, "3\n0 1\n1 1\n2 1\n1\n0 1\n1\n1 0\n0\n")

	_, err := execute(t, "verify", src, dst)
	if !errs.Is(err, errs.ErrCodeVerificationMismatch) {
		t.Fatalf("verify error = %v, want VERIFICATION_MISMATCH", err)
	}
}

func TestVerifyCommandOK(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "q.graph")
	dst := filepath.Join(dir, "q.grf")
	writeFile(t, src, scenarioSource)
	writeFile(t, dst, scenarioTarget)

	if _, err := execute(t, "verify", "--json", src, dst); err != nil {
		t.Fatalf("verify error: %v", err)
	}
}

func TestImportSNAPCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "edges.txt")
	out := filepath.Join(dir, "edges.graph")
	writeFile(t, in, "# FromNodeId ToNodeId\n0 1\n1 0\n1 2\n")

	if _, err := execute(t, "import-snap", in, out); err != nil {
		t.Fatalf("import-snap error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != scenarioSource {
		t.Errorf("source =\n%q\nwant\n%q", got, scenarioSource)
	}
}

func TestSampleCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.graph")
	out := filepath.Join(dir, "queries")
	writeFile(t, data, scenarioSource)

	if _, err := execute(t, "sample", data, out, "--size", "2", "--count", "2", "--seed", "5"); err != nil {
		t.Fatalf("sample error: %v", err)
	}
	for _, name := range []string{"query_sparse_2_1.graph", "query_sparse_2_2.graph"} {
		got, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("query %s not written: %v", name, err)
		}
		if !strings.HasPrefix(string(got), "t 2 1\n") {
			t.Errorf("%s = %q, want a 2-vertex, 1-edge source", name, got)
		}
	}

	if _, err := execute(t, "sample", data, out); err == nil {
		t.Error("sample without --size succeeded")
	}
	if _, err := execute(t, "sample", data, out, "--size", "4"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("sample larger than the data graph error = %v, want INVALID_INPUT", err)
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "q.graph")
	writeFile(t, src, scenarioSource)

	if _, err := execute(t, "inspect", "--json", src); err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if _, err := execute(t, "inspect", filepath.Join(dir, "missing.graph")); !errs.Is(err, errs.ErrCodeIORead) {
		t.Errorf("inspect missing file error = %v, want IO_READ", err)
	}
}

func TestResultCommand(t *testing.T) {
	dir := t.TempDir()
	structured := filepath.Join(dir, "log_q_1t.log")
	legacy := filepath.Join(dir, "log_q_2t.log")
	writeFile(t, structured, "level=info msg=result status=completed mappings=12 time_ms=3.5\n")
	writeFile(t, legacy, "Load graphs...\nFind mapping number [7]\nTotal Time cost: [1.25ms]\n")

	if _, err := execute(t, "result", structured, legacy, filepath.Join(dir, "missing.log")); err != nil {
		t.Fatalf("result error: %v", err)
	}
}

func TestRunCommandPlan(t *testing.T) {
	dir := t.TempDir()
	queries := filepath.Join(dir, "queries")
	if err := os.MkdirAll(queries, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "data.graph"), scenarioSource)
	writeFile(t, filepath.Join(queries, "query_dense_4_1.graph"), scenarioSource)
	writeFile(t, filepath.Join(dir, "exp.toml"), `
output_dir = "out"

[[dataset]]
name = "toy"
data_graph = "data.graph"
query_dir = "queries"
`)

	if _, err := execute(t, "run", "-c", filepath.Join(dir, "exp.toml"), "--plan"); err != nil {
		t.Fatalf("run --plan error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Error("--plan must not create the output directory")
	}
}

func TestRunCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "exp.toml")
	writeFile(t, cfg, "output_dir = \"out\"\n")

	_, err := execute(t, "run", "-c", cfg)
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Fatalf("run error = %v, want INVALID_CONFIG", err)
	}
}

func TestTraceInstallsLogHooks(t *testing.T) {
	defer observability.Reset()

	dir := t.TempDir()
	src := filepath.Join(dir, "q.graph")
	writeFile(t, src, scenarioSource)

	logs, err := execute(t, "--trace", "convert", "--no-cache", src, filepath.Join(dir, "q.grf"))
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if !strings.Contains(logs, "convert done") {
		t.Errorf("--trace should log hook events, got %q", logs)
	}
}

func TestFormatOutcomes(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]int
		want string
	}{
		{"empty", nil, "none"},
		{"sorted", map[string]int{"TIMEOUT": 1, "SUCCESS": 4}, "SUCCESS=4 TIMEOUT=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatOutcomes(tt.in); got != tt.want {
				t.Errorf("formatOutcomes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetName(t *testing.T) {
	if got := targetName("snap/web.graph"); got != "snap/web.grf" {
		t.Errorf("targetName() = %q", got)
	}
}

func TestKB(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
	}
	for _, tt := range tests {
		if got := kb(tt.n); got != tt.want {
			t.Errorf("kb(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Setenv(redisEnv, "")
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out.String(), "slfkit") {
		t.Error("bash completion should mention the program name")
	}
}
