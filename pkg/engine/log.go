package engine

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"

	"github.com/go-logfmt/logfmt"

	errs "github.com/matzehuels/slfkit/pkg/errors"
)

// Status is the outcome of a search as reported by (or inferred from) the
// engine log.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusTimeout   Status = "timeout"
	StatusFailed    Status = "failed"
)

// Result is what the engine log says about one search.
type Result struct {
	Status   Status  `json:"status"`
	Mappings int64   `json:"mappings"`
	TimeMS   float64 `json:"time_ms"`

	// HasTime is false when the log carries no time record.
	HasTime bool `json:"has_time"`

	// Legacy is set when the result was scraped from free-text markers
	// rather than read from a structured record. A legacy timeout is
	// inferred from a missing marker, not reported by the engine.
	Legacy bool `json:"legacy"`
}

// Seconds returns TimeMS in seconds.
func (r Result) Seconds() float64 { return r.TimeMS / 1000 }

var (
	legacyMappings = regexp.MustCompile(`Find mapping number \[(\d+)\]`)
	legacyTime     = regexp.MustCompile(`Total Time cost: \[([0-9.]+)ms\]`)
)

// ParseLog reads an engine log.
//
// Structured records take precedence: the last logfmt line with
// msg=result supplies status, mappings and time_ms. Without one, the legacy
// markers "Find mapping number [n]" and "Total Time cost: [f ms]" are used,
// first occurrence wins, and a missing mapping marker means the search
// timed out.
func ParseLog(r io.Reader) (Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)

	var (
		structured    Result
		hasStructured bool
		legacy        = Result{Status: StatusTimeout, Legacy: true}
		sawMapping    bool
	)

	for sc.Scan() {
		line := sc.Bytes()

		if rec, ok := parseRecord(line); ok {
			structured, hasStructured = rec, true
			continue
		}

		if !sawMapping {
			if m := legacyMappings.FindSubmatch(line); m != nil {
				if n, err := strconv.ParseInt(string(m[1]), 10, 64); err == nil {
					legacy.Mappings = n
					legacy.Status = StatusCompleted
					sawMapping = true
				}
			}
		}
		if !legacy.HasTime {
			if m := legacyTime.FindSubmatch(line); m != nil {
				if f, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
					legacy.TimeMS = f
					legacy.HasTime = true
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeIORead, err, "read engine log")
	}

	if hasStructured {
		return structured, nil
	}
	return legacy, nil
}

// parseRecord decodes line as a logfmt result record. Lines that are not
// valid logfmt or carry another msg are ignored.
func parseRecord(line []byte) (Result, bool) {
	if !bytes.Contains(line, []byte("msg=result")) {
		return Result{}, false
	}
	d := logfmt.NewDecoder(bytes.NewReader(line))
	if !d.ScanRecord() {
		return Result{}, false
	}

	var (
		res    Result
		isRes  bool
		status string
	)
	for d.ScanKeyval() {
		val := string(d.Value())
		switch string(d.Key()) {
		case "msg":
			isRes = val == "result"
		case "status":
			status = val
		case "mappings":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return Result{}, false
			}
			res.Mappings = n
		case "time_ms":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return Result{}, false
			}
			res.TimeMS = f
			res.HasTime = true
		}
	}
	if d.Err() != nil || !isRes {
		return Result{}, false
	}

	switch Status(status) {
	case StatusCompleted, StatusTimeout, StatusFailed:
		res.Status = Status(status)
	default:
		return Result{}, false
	}
	return res, true
}

// ParseLogFile reads the engine log at path. A missing log is treated like
// a log without markers: a legacy timeout.
func ParseLogFile(path string) (Result, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{Status: StatusTimeout, Legacy: true}, nil
	}
	if err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeIORead, err, "open engine log").At(path, 0)
	}
	defer f.Close()

	res, err := ParseLog(f)
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			e.At(path, 0)
		}
		return Result{}, err
	}
	return res, nil
}
