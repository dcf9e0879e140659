package io

import (
	"fmt"
	"io"
	"strconv"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
)

// Line markers of the source description.
const (
	markerHeader = "t"
	markerVertex = "v"
	markerEdge   = "e"
)

// Header holds the declared counts of a source description.
type Header struct {
	Vertices int
	Edges    int
}

// ReadSource decodes a source description from r. name identifies the input
// in error messages (usually the file path).
//
// The header must be the first meaningful line. Exactly Header.Vertices
// vertex lines and Header.Edges edge lines must follow, in that order.
// ReadSource returns:
//   - MALFORMED_HEADER if the header marker or counts are invalid
//   - MALFORMED_LINE for bad markers, non-numeric fields, duplicate or
//     out-of-range vertex ids, or lines beyond the declared edges
//   - EDGE_OUT_OF_RANGE if an edge endpoint is not a declared vertex
//   - TRUNCATED_FILE if the input ends before the declared counts are met
//   - IO_READ if r fails
func ReadSource(r io.Reader, name string) (*graph.Graph, error) {
	s := newLineScanner(r, name)

	h, err := readSourceHeader(s)
	if err != nil {
		return nil, err
	}

	vertices := make([]vertexLine, 0, min(h.Vertices, maxPrealloc))
	for i := 0; i < h.Vertices; i++ {
		fields, ok := s.next()
		if !ok {
			if err := s.err(); err != nil {
				return nil, err
			}
			return nil, errs.New(errs.ErrCodeTruncatedFile,
				"expected %d vertex lines, found %d", h.Vertices, i).At(name, s.line)
		}
		switch fields[0] {
		case markerVertex:
		case markerEdge:
			return nil, s.errorf(errs.ErrCodeTruncatedFile,
				"expected %d vertex lines, found %d before the first edge line", h.Vertices, i)
		default:
			return nil, s.errorf(errs.ErrCodeMalformedLine,
				"expected vertex line %q, found %q", markerVertex, fields[0])
		}
		vl, err := readVertex(s, fields, h.Vertices)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, vl)
	}

	// All declared vertex lines are present, so sizing by the header is
	// now bounded by the input.
	g, err := labelGraph(name, h.Vertices, vertices)
	if err != nil {
		return nil, err
	}
	g.Grow(min(h.Edges, maxPrealloc))

	for i := 0; i < h.Edges; i++ {
		fields, ok := s.next()
		if !ok {
			if err := s.err(); err != nil {
				return nil, err
			}
			return nil, errs.New(errs.ErrCodeTruncatedFile,
				"expected %d edge lines, found %d", h.Edges, i).At(name, s.line)
		}
		if fields[0] != markerEdge {
			return nil, s.errorf(errs.ErrCodeMalformedLine,
				"expected edge line %q, found %q", markerEdge, fields[0])
		}
		if err := readEdge(s, g, fields); err != nil {
			return nil, err
		}
	}

	if fields, ok := s.next(); ok {
		return nil, s.errorf(errs.ErrCodeMalformedLine,
			"expected end of input after %d declared edges, found %q line", h.Edges, fields[0])
	}
	if err := s.err(); err != nil {
		return nil, err
	}
	return g, nil
}

func readSourceHeader(s *lineScanner) (Header, error) {
	fields, ok := s.next()
	if !ok {
		if err := s.err(); err != nil {
			return Header{}, err
		}
		return Header{}, s.errorf(errs.ErrCodeMalformedHeader,
			"expected header %q, found empty input", "t <vertices> <edges>")
	}
	if fields[0] != markerHeader {
		return Header{}, s.errorf(errs.ErrCodeMalformedHeader,
			"expected header marker %q, found %q", markerHeader, fields[0])
	}
	if len(fields) < 3 {
		return Header{}, s.errorf(errs.ErrCodeMalformedHeader,
			"expected %q, found %d fields", "t <vertices> <edges>", len(fields))
	}
	n, err := s.count(errs.ErrCodeMalformedHeader, "vertex count", fields[1])
	if err != nil {
		return Header{}, err
	}
	m, err := s.count(errs.ErrCodeMalformedHeader, "edge count", fields[2])
	if err != nil {
		return Header{}, err
	}
	return Header{Vertices: n, Edges: m}, nil
}

// vertexLine is a parsed "v" line, kept until all of them have been read.
type vertexLine struct {
	id, label, line int
}

func readVertex(s *lineScanner, fields []string, n int) (vertexLine, error) {
	if len(fields) < 2 {
		return vertexLine{}, s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "v <id> <label>", len(fields))
	}
	id, err := s.int(errs.ErrCodeMalformedLine, "vertex id", fields[1])
	if err != nil {
		return vertexLine{}, err
	}
	if id < 0 || id >= n {
		return vertexLine{}, s.errorf(errs.ErrCodeMalformedLine,
			"expected vertex id in [0, %d), found %d", n, id)
	}

	label := graph.DefaultLabel
	if len(fields) >= 3 {
		if label, err = s.int(errs.ErrCodeMalformedLine, "vertex label", fields[2]); err != nil {
			return vertexLine{}, err
		}
	}
	return vertexLine{id: id, label: label, line: s.line}, nil
}

// labelGraph builds an n-vertex graph from its vertex lines, rejecting
// repeated ids.
func labelGraph(name string, n int, vertices []vertexLine) (*graph.Graph, error) {
	g := graph.New(n)
	seen := make([]bool, n)
	for _, vl := range vertices {
		if seen[vl.id] {
			return nil, errs.New(errs.ErrCodeMalformedLine, "duplicate vertex id %d", vl.id).At(name, vl.line)
		}
		seen[vl.id] = true
		_ = g.SetLabel(vl.id, vl.label)
	}
	return g, nil
}

func readEdge(s *lineScanner, g *graph.Graph, fields []string) error {
	if len(fields) < 3 {
		return s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "e <src> <dst> [<label>]", len(fields))
	}
	src, err := s.int(errs.ErrCodeMalformedLine, "edge source", fields[1])
	if err != nil {
		return err
	}
	dst, err := s.int(errs.ErrCodeMalformedLine, "edge target", fields[2])
	if err != nil {
		return err
	}
	for _, v := range [2]int{src, dst} {
		if !g.Contains(v) {
			return s.errorf(errs.ErrCodeEdgeOutOfRange,
				"edge (%d, %d) references vertex %d, expected id < vertex count %d", src, dst, v, g.VertexCount())
		}
	}

	e := graph.Edge{Src: src, Dst: dst}
	if len(fields) >= 4 {
		if e.Label, err = s.int(errs.ErrCodeMalformedLine, "edge label", fields[3]); err != nil {
			return err
		}
		e.HasLabel = true
	}
	return g.AddEdge(e)
}

// ImportSource reads the source description at path with [ReadSource].
func ImportSource(path string) (*graph.Graph, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSource(f, path)
}

// ReadSourceHeader reads only the header line of the source description at
// path. It is used to classify query graphs without loading them.
func ReadSourceHeader(path string) (Header, error) {
	f, err := openInput(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return readSourceHeader(newLineScanner(f, path))
}

// WriteSource encodes g as a source description. Vertex lines carry the
// label; edge lines carry the label only when the edge has one.
func WriteSource(w io.Writer, g *graph.Graph) error {
	buf := make([]byte, 0, 64)
	buf = fmt.Appendf(buf, "%s %d %d\n", markerHeader, g.VertexCount(), g.EdgeCount())
	if _, err := w.Write(buf); err != nil {
		return err
	}
	for v, label := range g.Labels() {
		buf = append(buf[:0], markerVertex...)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(label), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		buf = append(buf[:0], markerEdge...)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(e.Src), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(e.Dst), 10)
		if e.HasLabel {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(e.Label), 10)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ExportSource writes g to path as a source description, atomically.
func ExportSource(g *graph.Graph, path string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteSource(w, g)
	})
}
