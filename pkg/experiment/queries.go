package experiment

import (
	"cmp"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	slfio "github.com/matzehuels/slfkit/pkg/io"
)

// Query is a query graph selected for a run.
type Query struct {
	Path     string
	Name     string
	Vertices int
	Edges    int
	Category Category

	// Number is the trailing _<n> of the file name, 0 if absent.
	Number int
}

var trailingNumber = regexp.MustCompile(`_(\d+)\.graph$`)

// queryNumber extracts n from names like "query_dense_12_7.graph".
func queryNumber(name string) int {
	m := trailingNumber.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Selection is the outcome of scanning a query directory.
type Selection struct {
	// ByCategory holds the selected queries per category, sorted by Number
	// and capped.
	ByCategory map[Category][]Query

	// Skipped lists files whose header could not be read.
	Skipped []error

	// Matched counts files matching the pattern before capping.
	Matched int
}

// Ordered returns the selected queries of each category in order.
func (s *Selection) Ordered(order []Category) []Query {
	var out []Query
	for _, c := range order {
		out = append(out, s.ByCategory[c]...)
	}
	return out
}

// SelectQueries lists the files in dir whose name matches pattern, reads
// their headers, classifies them and keeps at most perCategory queries per
// category, lowest trailing number first. Unreadable headers are skipped
// and reported, not fatal.
func SelectQueries(dir, pattern string, perCategory int, logger *log.Logger) (*Selection, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid query pattern %q", pattern)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIORead, err, "list query directory").At(dir, 0)
	}

	sel := &Selection{ByCategory: make(map[Category][]Query)}
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		sel.Matched++

		path := filepath.Join(dir, e.Name())
		h, err := slfio.ReadSourceHeader(path)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping query", "file", e.Name(), "err", errs.UserMessage(err))
			}
			sel.Skipped = append(sel.Skipped, err)
			continue
		}
		q := Query{
			Path:     path,
			Name:     e.Name(),
			Vertices: h.Vertices,
			Edges:    h.Edges,
			Category: Classify(h.Vertices, h.Edges),
			Number:   queryNumber(e.Name()),
		}
		sel.ByCategory[q.Category] = append(sel.ByCategory[q.Category], q)
	}

	for c, qs := range sel.ByCategory {
		slices.SortFunc(qs, func(a, b Query) int {
			if n := cmp.Compare(a.Number, b.Number); n != 0 {
				return n
			}
			return cmp.Compare(a.Name, b.Name)
		})
		if perCategory > 0 && len(qs) > perCategory {
			qs = qs[:perCategory]
		}
		sel.ByCategory[c] = qs
	}
	return sel, nil
}
