package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	errs "github.com/matzehuels/slfkit/pkg/errors"
)

// ResultHeader is the header row of a results CSV.
var ResultHeader = []string{
	"Dataset", "PatternCategory", "QueryFile", "QueryVertices", "QueryEdges",
	"Threads", "ExecutionTime_s", "Result_Count", "Status", "Notes",
}

// Status values written for runs that never reached the engine's log.
const (
	StatusConvertFailed = "CONVERT_FAILED"
	StatusEngineError   = "FAILED (error)"
)

// Row is one line of a results CSV.
type Row struct {
	Dataset  string
	Category Category
	Query    string
	Vertices int
	Edges    int
	Threads  int

	// Seconds is the engine-reported search time; HasTime false writes N/A.
	Seconds float64
	HasTime bool

	Mappings int64
	Status   string
	Limit    int64
}

func (r Row) record() []string {
	exec := "N/A"
	if r.HasTime {
		exec = strconv.FormatFloat(r.Seconds, 'f', -1, 64)
	}
	return []string{
		r.Dataset,
		r.Category.String(),
		r.Query,
		strconv.Itoa(r.Vertices),
		strconv.Itoa(r.Edges),
		strconv.Itoa(r.Threads),
		exec,
		strconv.FormatInt(r.Mappings, 10),
		r.Status,
		fmt.Sprintf("limit=%d", r.Limit),
	}
}

// ResultWriter appends rows to a results CSV, flushing after every row so
// that an interrupted run keeps what it measured.
type ResultWriter struct {
	f    *os.File
	w    *csv.Writer
	path string
}

// CreateResultWriter creates (or truncates) the CSV at path and writes the
// header row.
func CreateResultWriter(path string) (*ResultWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIOWrite, err, "create results").At(path, 0)
	}
	rw := &ResultWriter{f: f, w: csv.NewWriter(f), path: path}
	if err := rw.write(ResultHeader); err != nil {
		f.Close()
		return nil, err
	}
	return rw, nil
}

// Path returns the CSV path.
func (rw *ResultWriter) Path() string { return rw.path }

// Write appends r.
func (rw *ResultWriter) Write(r Row) error {
	return rw.write(r.record())
}

func (rw *ResultWriter) write(rec []string) error {
	if err := rw.w.Write(rec); err != nil {
		return errs.Wrap(errs.ErrCodeIOWrite, err, "write results").At(rw.path, 0)
	}
	rw.w.Flush()
	if err := rw.w.Error(); err != nil {
		return errs.Wrap(errs.ErrCodeIOWrite, err, "flush results").At(rw.path, 0)
	}
	return nil
}

// Close syncs and closes the file.
func (rw *ResultWriter) Close() error {
	if err := rw.f.Sync(); err != nil {
		rw.f.Close()
		return errs.Wrap(errs.ErrCodeIOWrite, err, "sync results").At(rw.path, 0)
	}
	return rw.f.Close()
}
