package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// pipeCloseDelay bounds how long output is read after a run is cancelled.
	pipeCloseDelay = 2 * time.Second
	// maxLoggedLine caps the bytes buffered for one debug log line.
	maxLoggedLine = 64 * 1024
)

// Invocation describes one run of an external tool.
type Invocation struct {
	Name string
	Args []string
	Dir  string
	// Env is the full child environment; nil inherits the parent's.
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult is the outcome of a tool run that managed to start.
type RunResult struct {
	ExitCode int
	Duration time.Duration
}

// ToolRunnerAdapter abstracts running the external Python tooling.
type ToolRunnerAdapter interface {
	// Run executes the invocation, streaming output to the given writers.
	// A non-zero exit is reported in RunResult, not as an error.
	Run(ctx context.Context, inv Invocation) (RunResult, error)

	// LookPath resolves an executable name.
	LookPath(name string) (string, error)
}

// LocalToolRunnerAdapter provides a concrete implementation using os/exec.
type LocalToolRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalToolRunnerAdapter constructs a LocalToolRunnerAdapter. A zero
// timeout means runs are bounded only by the caller's context.
func NewLocalToolRunnerAdapter(timeout time.Duration) *LocalToolRunnerAdapter {
	return &LocalToolRunnerAdapter{timeout: timeout}
}

// LookPath resolves an executable name on PATH.
func (a *LocalToolRunnerAdapter) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found: %w", name, err)
	}

	return path, nil
}

// Run starts the tool and pumps stdout and stderr until it exits.
func (a *LocalToolRunnerAdapter) Run(ctx context.Context, inv Invocation) (RunResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.WaitDelay = pipeCloseDelay
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to open stdout of %s: %w", inv.Name, err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to open stderr of %s: %w", inv.Name, err)
	}

	// Cancellation kills the whole process group; descendants that escaped
	// it lose their pipes after pipeCloseDelay.
	cmd.Cancel = func() error {
		time.AfterFunc(pipeCloseDelay, func() {
			_ = stdout.Close()
			_ = stderr.Close()
		})

		return killProcessGroup(cmd)
	}

	slog.Debug("starting tool", "name", inv.Name, "args", inv.Args, "dir", inv.Dir)

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return RunResult{}, fmt.Errorf("failed to start %s: %w", inv.Name, err)
	}

	var g errgroup.Group

	g.Go(func() error { return pump(stdout, inv.Stdout, inv.Name, "stdout") })
	g.Go(func() error { return pump(stderr, inv.Stderr, inv.Name, "stderr") })

	pumpErr := g.Wait()
	waitErr := cmd.Wait()
	result := RunResult{Duration: time.Since(start)}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s interrupted: %w", inv.Name, ctxErr)
		}

		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, fmt.Errorf("failed to run %s: %w", inv.Name, waitErr)
		}

		result.ExitCode = exitErr.ExitCode()
	}

	if pumpErr != nil {
		return result, fmt.Errorf("failed to copy output of %s: %w", inv.Name, pumpErr)
	}

	slog.Debug("tool finished", "name", inv.Name, "exit_code", result.ExitCode, "duration", result.Duration)

	return result, nil
}

// pump copies r to w unchanged until EOF and mirrors complete lines to the
// debug log. r is always drained, even after w fails.
func pump(r io.Reader, w io.Writer, name, stream string) error {
	lw := &lineLogWriter{w: w, name: name, stream: stream}

	_, err := io.Copy(lw, r)
	lw.flush()

	if err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}

	return lw.err
}

// lineLogWriter forwards writes to w and logs each line at debug level.
// After a write to w fails it keeps accepting input and remembers the error.
type lineLogWriter struct {
	w      io.Writer
	name   string
	stream string
	buf    []byte
	err    error
}

func (l *lineLogWriter) Write(p []byte) (int, error) {
	if l.err == nil && l.w != nil {
		if _, err := l.w.Write(p); err != nil {
			l.err = err
		}
	}

	l.buf = append(l.buf, p...)

	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}

		l.log(l.buf[:i])
		l.buf = l.buf[i+1:]
	}

	if len(l.buf) > maxLoggedLine {
		l.log(l.buf)
		l.buf = l.buf[:0]
	}

	return len(p), nil
}

func (l *lineLogWriter) flush() {
	if len(l.buf) > 0 {
		l.log(l.buf)
		l.buf = nil
	}
}

func (l *lineLogWriter) log(line []byte) {
	slog.Debug("tool output", "name", l.name, "stream", l.stream, "line", string(bytes.TrimRight(line, "\r")))
}
