package io

import (
	"io"
	"strconv"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
)

// WriteTarget encodes g and its adjacency as a target description.
//
// Vertices are written in ascending id order, each neighbor block in
// ascending vertex order, and each block's entries in the order stored in
// adj. Lists built by [graph.BuildAdjacency] are already sorted, which makes
// the output deterministic. adj must have one list per vertex of g.
func WriteTarget(w io.Writer, g *graph.Graph, adj graph.Adjacency) error {
	if len(adj) != g.VertexCount() {
		return errs.New(errs.ErrCodeInternal,
			"adjacency has %d lists, expected %d", len(adj), g.VertexCount())
	}

	buf := make([]byte, 0, 64)
	buf = strconv.AppendInt(buf, int64(g.VertexCount()), 10)
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return err
	}

	for v, label := range g.Labels() {
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(label), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	for v, list := range adj {
		buf = strconv.AppendInt(buf[:0], int64(len(list)), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
		for _, nb := range list {
			buf = strconv.AppendInt(buf[:0], int64(v), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(nb), 10)
			buf = append(buf, '\n')
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportTarget writes the target description of g and adj to path,
// atomically. Any failure is reported as IO_WRITE and leaves path untouched.
func ExportTarget(g *graph.Graph, adj graph.Adjacency, path string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteTarget(w, g, adj)
	})
}

// ReadTarget decodes a target description from r.
//
// The returned graph has one directed edge per adjacency entry, from the
// block's vertex to the listed neighbor, in file order. Callers comparing
// against an undirected source normalize pairs themselves. ReadTarget checks
// that vertex lines enumerate 0..N-1 in order, that every entry of a block
// starts with the block's vertex, and that neighbors are declared vertices.
func ReadTarget(r io.Reader, name string) (*graph.Graph, error) {
	s := newLineScanner(r, name)

	fields, ok := s.next()
	if !ok {
		if err := s.err(); err != nil {
			return nil, err
		}
		return nil, s.errorf(errs.ErrCodeMalformedHeader, "expected vertex count line, found empty input")
	}
	if len(fields) != 1 {
		return nil, s.errorf(errs.ErrCodeMalformedHeader,
			"expected a single vertex count, found %d fields", len(fields))
	}
	n, err := s.count(errs.ErrCodeMalformedHeader, "vertex count", fields[0])
	if err != nil {
		return nil, err
	}

	labels := make([]int, 0, min(n, maxPrealloc))
	for v := 0; v < n; v++ {
		fields, ok := s.next()
		if !ok {
			if err := s.err(); err != nil {
				return nil, err
			}
			return nil, errs.New(errs.ErrCodeTruncatedFile,
				"expected %d vertex lines, found %d", n, v).At(name, s.line)
		}
		if len(fields) < 2 {
			return nil, s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "<id> <label>", len(fields))
		}
		id, err := s.int(errs.ErrCodeMalformedLine, "vertex id", fields[0])
		if err != nil {
			return nil, err
		}
		if id != v {
			return nil, s.errorf(errs.ErrCodeMalformedLine, "expected vertex id %d, found %d", v, id)
		}
		label, err := s.int(errs.ErrCodeMalformedLine, "vertex label", fields[1])
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	g := graph.FromLabels(labels)

	for v := 0; v < n; v++ {
		fields, ok := s.next()
		if !ok {
			if err := s.err(); err != nil {
				return nil, err
			}
			return nil, errs.New(errs.ErrCodeTruncatedFile,
				"expected neighbor count for vertex %d of %d", v, n).At(name, s.line)
		}
		if len(fields) != 1 {
			return nil, s.errorf(errs.ErrCodeMalformedLine,
				"expected neighbor count for vertex %d, found %d fields", v, len(fields))
		}
		count, err := s.count(errs.ErrCodeMalformedLine, "neighbor count", fields[0])
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			if err := readAdjacencyEntry(s, g, v, i, count); err != nil {
				return nil, err
			}
		}
	}

	if fields, ok := s.next(); ok {
		return nil, s.errorf(errs.ErrCodeMalformedLine,
			"expected end of input after %d neighbor blocks, found %q", n, fields[0])
	}
	if err := s.err(); err != nil {
		return nil, err
	}
	return g, nil
}

func readAdjacencyEntry(s *lineScanner, g *graph.Graph, v, i, count int) error {
	fields, ok := s.next()
	if !ok {
		if err := s.err(); err != nil {
			return err
		}
		return errs.New(errs.ErrCodeTruncatedFile,
			"expected %d neighbors for vertex %d, found %d", count, v, i).At(s.name, s.line)
	}
	if len(fields) < 2 {
		return s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "<id> <neighbor>", len(fields))
	}
	id, err := s.int(errs.ErrCodeMalformedLine, "vertex id", fields[0])
	if err != nil {
		return err
	}
	if id != v {
		return s.errorf(errs.ErrCodeMalformedLine, "expected entry for vertex %d, found vertex %d", v, id)
	}
	nb, err := s.int(errs.ErrCodeMalformedLine, "neighbor id", fields[1])
	if err != nil {
		return err
	}
	if !g.Contains(nb) {
		return s.errorf(errs.ErrCodeEdgeOutOfRange,
			"neighbor %d of vertex %d, expected id < vertex count %d", nb, v, g.VertexCount())
	}
	return g.AddEdge(graph.Edge{Src: v, Dst: nb})
}

// ImportTarget reads the target description at path with [ReadTarget].
func ImportTarget(path string) (*graph.Graph, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTarget(f, path)
}
