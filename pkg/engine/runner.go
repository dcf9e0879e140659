package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kballard/go-shellquote"

	errs "github.com/matzehuels/slfkit/pkg/errors"
	"github.com/matzehuels/slfkit/pkg/observability"
)

// Placeholders substituted in the command template.
const (
	PlaceholderConfig = "%CONFIG%"
	PlaceholderLog    = "%LOG%"
)

const (
	// DefaultCommand is how the engine is started from its build tree.
	DefaultCommand = "./build/slf -c %CONFIG%"

	// DefaultGrace is added to the search time limit before the process is
	// killed, so that the engine can stop on its own and flush its log.
	DefaultGrace = 30 * time.Second

	// maxOutput bounds the captured stdout/stderr kept per run.
	maxOutput = 64 << 10
)

// Job is one engine invocation.
type Job struct {
	// Name identifies the job in logs and hooks, usually the query file name.
	Name string

	// ConfigPath is where Config is written before the engine starts.
	ConfigPath string

	Config Config
}

// Outcome is the result of running a Job.
type Outcome struct {
	Result

	// ExitCode is the process exit status, -1 if it was killed.
	ExitCode int

	// Killed is set when the deadline expired and the process was stopped.
	Killed bool

	Duration time.Duration

	// Output is the tail of combined stdout and stderr.
	Output []byte
}

// Label renders the outcome the way results tables record it:
// SUCCESS, TIMEOUT or FAILED (code n). A timeout inferred from a missing
// marker does not hide a non-zero exit.
func (o *Outcome) Label() string {
	switch {
	case o.Killed:
		return "TIMEOUT"
	case o.Legacy && o.ExitCode != 0:
		return fmt.Sprintf("FAILED (code %d)", o.ExitCode)
	case o.Status == StatusTimeout:
		return "TIMEOUT"
	case o.Status == StatusFailed:
		return fmt.Sprintf("FAILED (code %d)", o.ExitCode)
	case o.ExitCode != 0:
		return fmt.Sprintf("FAILED (code %d)", o.ExitCode)
	}
	return "SUCCESS"
}

// Runner starts the engine executable.
type Runner struct {
	// Command is the command template, split with shell quoting rules.
	// %CONFIG% and %LOG% are replaced by the job's config and log paths.
	Command string

	// Dir is the working directory of the engine process.
	Dir string

	// Grace is added to the search time limit to form the process deadline.
	Grace time.Duration

	Logger *log.Logger
}

// NewRunner returns a runner for command (DefaultCommand if empty) started
// in dir.
func NewRunner(command, dir string, logger *log.Logger) *Runner {
	if command == "" {
		command = DefaultCommand
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Command: command, Dir: dir, Grace: DefaultGrace, Logger: logger}
}

// Args expands the command template for a config and log path.
func (r *Runner) Args(configPath, logPath string) ([]string, error) {
	words, err := shellquote.Split(r.Command)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid engine command %q", r.Command)
	}
	if len(words) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "engine command is empty")
	}
	repl := strings.NewReplacer(PlaceholderConfig, configPath, PlaceholderLog, logPath)
	for i, w := range words {
		words[i] = repl.Replace(w)
	}
	return words, nil
}

// Run writes the job's config, runs the engine and parses its log.
//
// A non-zero exit status or an expired deadline is not an error: both are
// recorded in the Outcome. Errors are returned when the config cannot be
// written, the process cannot be started, or ctx is canceled.
func (r *Runner) Run(ctx context.Context, job Job) (*Outcome, error) {
	if err := WriteConfig(job.ConfigPath, &job.Config); err != nil {
		return nil, err
	}
	args, err := r.Args(job.ConfigPath, job.Config.Log.Path)
	if err != nil {
		return nil, err
	}

	threads := job.Config.SLF.ThreadNumber
	hooks := observability.Engine()
	hooks.OnEngineStart(ctx, job.Name, threads)

	out, err := r.run(ctx, args, job.Config.TimeLimit()+r.Grace)
	if err != nil {
		hooks.OnEngineComplete(ctx, job.Name, threads, string(StatusFailed), 0, 0, err)
		return nil, err
	}

	res, err := ParseLogFile(job.Config.Log.Path)
	if err != nil {
		hooks.OnEngineComplete(ctx, job.Name, threads, string(StatusFailed), 0, out.Duration, err)
		return nil, err
	}
	out.Result = res
	hooks.OnEngineComplete(ctx, job.Name, threads, string(out.Status), out.Mappings, out.Duration, nil)

	r.Logger.Debug("engine finished",
		"job", job.Name,
		"threads", threads,
		"status", out.Label(),
		"mappings", out.Mappings,
		"exit", out.ExitCode,
		"duration", out.Duration)
	return out, nil
}

func (r *Runner) run(ctx context.Context, args []string, timeout time.Duration) (*Outcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var output tailBuffer
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.Logger.Debug("starting engine", "cmd", shellquote.Join(args...), "dir", r.Dir, "timeout", timeout)
	start := time.Now()
	err := cmd.Run()
	out := &Outcome{Duration: time.Since(start), Output: output.Bytes()}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		out.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		out.Killed = true
		out.ExitCode = -1
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return nil, errs.Wrap(errs.ErrCodeEngineFailed, err, "start engine %s", args[0])
	}
	return out, nil
}

// tailBuffer keeps the last maxOutput bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) > maxOutput {
		p = p[len(p)-maxOutput:]
	}
	if over := t.buf.Len() + len(p) - maxOutput; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) Bytes() []byte {
	return bytes.Clone(t.buf.Bytes())
}
