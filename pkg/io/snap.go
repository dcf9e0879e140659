package io

import (
	"io"
	"slices"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/graph"
)

// ReadSNAP decodes a SNAP-style edge list: one "u v" pair per line, with
// '#' comments. Lines of a source description ("t", "v", "e" markers) are
// accepted too, so a source file can be re-normalized through this path.
//
// Edges are deduplicated (as unordered pairs unless directed is set) and
// returned sorted. The vertex count is the largest id seen plus one; every
// vertex and edge gets label 1. Negative ids and unparsable lines are
// MALFORMED_LINE errors.
func ReadSNAP(r io.Reader, name string, directed bool) (*graph.Graph, error) {
	s := newLineScanner(r, name)

	maxID, maxLine, records := -1, 0, 0
	seen := make(graph.EdgeSet)
	var pairs []graph.Pair

	for {
		fields, ok := s.next()
		if !ok {
			break
		}

		var uf, vf string
		switch fields[0] {
		case markerHeader:
			continue
		case markerVertex:
			if len(fields) < 2 {
				return nil, s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "v <id>", len(fields))
			}
			id, err := snapID(s, fields[1])
			if err != nil {
				return nil, err
			}
			records++
			if id > maxID {
				maxID, maxLine = id, s.line
			}
			continue
		case markerEdge:
			if len(fields) < 3 {
				return nil, s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "e <src> <dst>", len(fields))
			}
			uf, vf = fields[1], fields[2]
		default:
			if len(fields) < 2 {
				return nil, s.errorf(errs.ErrCodeMalformedLine, "expected %q, found %d fields", "<src> <dst>", len(fields))
			}
			uf, vf = fields[0], fields[1]
		}

		u, err := snapID(s, uf)
		if err != nil {
			return nil, err
		}
		v, err := snapID(s, vf)
		if err != nil {
			return nil, err
		}
		records++
		if m := max(u, v); m > maxID {
			maxID, maxLine = m, s.line
		}

		p := graph.NewPair(u, v, directed)
		if !seen.Has(p) {
			seen.Add(p)
			pairs = append(pairs, p)
		}
	}
	if err := s.err(); err != nil {
		return nil, err
	}

	if n := maxID + 1; n > maxPrealloc && n > snapSparsity*records {
		return nil, errs.New(errs.ErrCodeMalformedLine,
			"vertex id %d implies %d vertices from %d lines; at most %d vertices per line are allowed",
			maxID, n, records, snapSparsity).At(name, maxLine)
	}

	slices.SortFunc(pairs, graph.ComparePairs)
	g := graph.New(maxID + 1)
	g.Grow(len(pairs))
	for _, p := range pairs {
		_ = g.AddEdge(graph.Edge{Src: p.U, Dst: p.V, Label: graph.DefaultLabel, HasLabel: true})
	}
	return g, nil
}

// snapSparsity bounds the vertex count a SNAP file may imply per line read,
// so a single huge id cannot size the graph.
const snapSparsity = 64

func snapID(s *lineScanner, field string) (int, error) {
	id, err := s.int(errs.ErrCodeMalformedLine, "vertex id", field)
	if err != nil {
		return 0, err
	}
	if id < 0 || id >= maxCount {
		return 0, s.errorf(errs.ErrCodeMalformedLine, "expected non-negative vertex id, found %d", id)
	}
	return id, nil
}

// ImportSNAP reads the SNAP edge list at path with [ReadSNAP].
func ImportSNAP(path string, directed bool) (*graph.Graph, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSNAP(f, path, directed)
}
