package adapter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// These tests drive LocalToolRunnerAdapter through /bin/sh so they exercise
// real process plumbing without needing Python tooling installed.

func TestLocalToolRunnerAdapter_Run_Success(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	var stdout, stderr bytes.Buffer

	result, err := adapter.Run(context.Background(), Invocation{
		Name:   "sh",
		Args:   []string{"-c", "echo one; echo two; echo oops 1>&2"},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.ExitCode != 0 {
		t.Fatalf("Run() exit code = %d, want 0", result.ExitCode)
	}

	if stdout.String() != "one\ntwo\n" {
		t.Fatalf("Run() stdout = %q", stdout.String())
	}

	if stderr.String() != "oops\n" {
		t.Fatalf("Run() stderr = %q", stderr.String())
	}
}

func TestLocalToolRunnerAdapter_Run_NonZeroExit(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	result, err := adapter.Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for non-zero exit", err)
	}

	if result.ExitCode != 3 {
		t.Fatalf("Run() exit code = %d, want 3", result.ExitCode)
	}
}

func TestLocalToolRunnerAdapter_Run_DirAndEnv(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)
	dir := t.TempDir()

	var stdout bytes.Buffer

	_, err := adapter.Run(context.Background(), Invocation{
		Name:   "sh",
		Args:   []string{"-c", "pwd; echo $REPO_DIRPATH"},
		Dir:    dir,
		Env:    []string{"REPO_DIRPATH=/src/project"},
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Run() stdout = %q", stdout.String())
	}

	if !strings.HasSuffix(lines[0], strings.TrimPrefix(dir, "/private")) {
		t.Fatalf("Run() did not run in %s: %q", dir, lines[0])
	}

	if lines[1] != "/src/project" {
		t.Fatalf("Run() env not passed: %q", lines[1])
	}
}

func TestLocalToolRunnerAdapter_Run_MissingExecutable(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	_, err := adapter.Run(context.Background(), Invocation{Name: "pyrig-does-not-exist"})
	if err == nil {
		t.Fatalf("Run() expected error for missing executable")
	}
}

func TestLocalToolRunnerAdapter_Run_Timeout(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(50 * time.Millisecond)

	_, err := adapter.Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "exec sleep 5"},
	})
	if err == nil {
		t.Fatalf("Run() expected error when the timeout expires")
	}

	if !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("Run() error = %v, want interrupted", err)
	}
}

func TestLocalToolRunnerAdapter_Run_TimeoutKillsChildProcesses(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(100 * time.Millisecond)

	start := time.Now()

	_, err := adapter.Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "sleep 3; true"},
	})
	elapsed := time.Since(start)

	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("Run() error = %v, want interrupted", err)
	}

	if elapsed >= 2*time.Second {
		t.Fatalf("Run() returned after %s, want the timeout to stop sleep", elapsed)
	}
}

func TestLocalToolRunnerAdapter_Run_CancelKillsChildProcesses(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()

	_, err := adapter.Run(ctx, Invocation{
		Name: "sh",
		Args: []string{"-c", "sleep 3 | cat; echo late"},
	})
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	if elapsed >= 2*time.Second {
		t.Fatalf("Run() returned after %s, want cancellation to stop the pipeline", elapsed)
	}
}

func TestLocalToolRunnerAdapter_Run_VeryLongLine(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer

	result, err := adapter.Run(ctx, Invocation{
		Name:   "sh",
		Args:   []string{"-c", "head -c 2000000 /dev/zero | tr '\\0' x; echo; echo err-done 1>&2; echo done"},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.ExitCode != 0 {
		t.Fatalf("Run() exit code = %d, want 0", result.ExitCode)
	}

	if want := 2000000 + len("\ndone\n"); stdout.Len() != want {
		t.Fatalf("Run() stdout length = %d, want %d", stdout.Len(), want)
	}

	if !strings.HasSuffix(stdout.String(), "x\ndone\n") {
		t.Fatalf("Run() stdout does not end with the trailing output")
	}

	if stderr.String() != "err-done\n" {
		t.Fatalf("Run() stderr = %q", stderr.String())
	}
}

func TestLocalToolRunnerAdapter_Run_OutputPassedThroughUnchanged(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	var stdout bytes.Buffer

	_, err := adapter.Run(context.Background(), Invocation{
		Name:   "sh",
		Args:   []string{"-c", "printf '10%%\\r50%%\\r100%%'"},
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stdout.String() != "10%\r50%\r100%" {
		t.Fatalf("Run() stdout = %q, want progress updates without an added newline", stdout.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestLocalToolRunnerAdapter_Run_WriterErrorDrainsOutput(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := adapter.Run(ctx, Invocation{
		Name:   "sh",
		Args:   []string{"-c", "head -c 1000000 /dev/zero; exit 4"},
		Stdout: failingWriter{},
	})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Run() error = %v, want the writer error", err)
	}

	if result.ExitCode != 4 {
		t.Fatalf("Run() exit code = %d, want 4", result.ExitCode)
	}
}

func TestLineLogWriter_SplitsAcrossWrites(t *testing.T) {
	var out bytes.Buffer

	lw := &lineLogWriter{w: &out, name: "tox", stream: "stdout"}

	for _, chunk := range []string{"py", "thon 3.12\r\nre", "ady"} {
		if n, err := lw.Write([]byte(chunk)); err != nil || n != len(chunk) {
			t.Fatalf("Write(%q) = %d, %v", chunk, n, err)
		}
	}

	if string(lw.buf) != "ready" {
		t.Fatalf("pending line = %q, want %q", lw.buf, "ready")
	}

	lw.flush()

	if len(lw.buf) != 0 {
		t.Fatalf("flush() left %q pending", lw.buf)
	}

	if out.String() != "python 3.12\r\nready" {
		t.Fatalf("forwarded = %q", out.String())
	}
}

func TestLocalToolRunnerAdapter_LookPath(t *testing.T) {
	adapter := NewLocalToolRunnerAdapter(0)

	if _, err := adapter.LookPath("sh"); err != nil {
		t.Fatalf("LookPath(sh) error = %v", err)
	}

	if _, err := adapter.LookPath("pyrig-does-not-exist"); err == nil {
		t.Fatalf("LookPath() expected error for missing executable")
	}
}
