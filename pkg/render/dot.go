package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
)

// DefaultMaxVertices bounds what Check accepts unless overridden.
const DefaultMaxVertices = 500

// Options configures DOT generation.
type Options struct {
	// Directed draws arrows instead of plain lines.
	Directed bool

	// Labels adds the vertex label to each node ("id:label").
	Labels bool

	// EdgeLabels prints edge labels where the edge has one.
	EdgeLabels bool

	// MaxVertices is the limit enforced by Check. Zero means DefaultMaxVertices.
	MaxVertices int
}

// palette fills vertices by label; labels wrap around.
var palette = []string{
	"#ffffff", "#cfe8ff", "#ffe0b3", "#d5f5d5", "#f7d4f7",
	"#fff5b3", "#e0d4ff", "#ffd4d4", "#d4fff7", "#e6e6e6",
}

// Check reports an INVALID_INPUT error when g is too large to draw.
func Check(g *graph.Graph, opts Options) error {
	limit := opts.MaxVertices
	if limit == 0 {
		limit = DefaultMaxVertices
	}
	if g.VertexCount() > limit {
		return errs.New(errs.ErrCodeInvalidInput,
			"graph has %d vertices, rendering is limited to %d", g.VertexCount(), limit)
	}
	return nil
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *graph.Graph, opts Options) string {
	kind, arrow := "graph", "--"
	if opts.Directed {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12, width=0.4, fixedsize=false];\n")
	buf.WriteString("\n")

	for v, label := range g.Labels() {
		text := strconv.Itoa(v)
		if opts.Labels {
			text = fmt.Sprintf("%d:%d", v, label)
		}
		fmt.Fprintf(&buf, "  %d [label=%q, fillcolor=%q];\n", v, text, fillColor(label))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.EdgeLabels && e.HasLabel {
			fmt.Fprintf(&buf, "  %d %s %d [label=%q];\n", e.Src, arrow, e.Dst, strconv.Itoa(e.Label))
			continue
		}
		fmt.Fprintf(&buf, "  %d %s %d;\n", e.Src, arrow, e.Dst)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fillColor(label int) string {
	i := label % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
