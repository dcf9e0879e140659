package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/slfkit/pkg/errors"
)

// maxLineSize bounds a single line. Adjacency and edge lines are short; the
// limit only guards against binary input.
const maxLineSize = 16 << 20

// maxCount bounds declared vertex and edge counts to what fits a vertex id.
const maxCount = 1<<31 - 1

// maxPrealloc caps how many vertices or edges are reserved up front from a
// declared count. Storage beyond it grows only as lines are actually read,
// so a short file with a huge header fails with TRUNCATED_FILE instead of
// exhausting memory.
const maxPrealloc = 1 << 20

// lineScanner yields the whitespace-separated fields of each meaningful line
// and tracks the 1-based line number for error reporting.
type lineScanner struct {
	sc   *bufio.Scanner
	name string
	line int
}

func newLineScanner(r io.Reader, name string) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineScanner{sc: sc, name: name}
}

// next returns the fields of the next line that is neither blank nor a
// comment. ok is false at EOF or on a read error; check err afterwards.
func (s *lineScanner) next() (fields []string, ok bool) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		return strings.Fields(text), true
	}
	return nil, false
}

func (s *lineScanner) err() error {
	if err := s.sc.Err(); err != nil {
		return errs.Wrap(errs.ErrCodeIORead, err, "read failed after line %d", s.line).At(s.name, 0)
	}
	return nil
}

// errorf builds a positioned error for the current line.
func (s *lineScanner) errorf(code errs.Code, format string, args ...any) error {
	return errs.New(code, format, args...).At(s.name, s.line)
}

// int parses field as a base-10 integer, reporting what it expected on failure.
func (s *lineScanner) int(code errs.Code, what, field string) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, s.errorf(code, "expected integer %s, found %q", what, field)
	}
	return v, nil
}

// count parses a non-negative count bounded by maxCount.
func (s *lineScanner) count(code errs.Code, what, field string) (int, error) {
	v, err := s.int(code, what, field)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > maxCount {
		return 0, s.errorf(code, "expected non-negative %s, found %d", what, v)
	}
	return v, nil
}
