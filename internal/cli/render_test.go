package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/slfkit/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name, input, output, format, want string
	}{
		{"derived svg", "q/query_3.graph", "", "svg", "q/query_3.svg"},
		{"derived dot", "query_3.grf", "", "dot", "query_3.dot"},
		{"no extension", "query", "", "svg", "query.svg"},
		{"explicit", "query_3.graph", "out.svg", "svg", "out.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.input, tt.output, tt.format); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.format, got, tt.want)
			}
		})
	}
}

func TestRunRenderDOT(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "query_1.graph")
	if err := os.WriteFile(src, []byte("t 3 2\nv 0 1\nv 1 1\nv 2 2\ne 0 1 1\ne 1 2 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runRender(context.Background(), src, renderOpts{format: formatDOT, labels: true}); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "query_1.dot"))
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	for _, want := range []string{"graph G {", `2 [label="2:2"`, "0 -- 1;", "1 -- 2;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRunRenderTooLarge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.graph")
	if err := os.WriteFile(src, []byte("t 3 0\nv 0 1\nv 1 1\nv 2 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runRender(context.Background(), src, renderOpts{format: formatDOT, maxVertices: 2})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("runRender() error = %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data.dot")); !os.IsNotExist(err) {
		t.Error("no output should be written for a refused graph")
	}
}
