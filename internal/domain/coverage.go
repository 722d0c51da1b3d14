package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

// Coverage report formats.
const (
	FormatText  = "text"
	FormatTable = "table"
)

// DefaultPython is the interpreter used when no tox env python exists.
const DefaultPython = "python3"

// CoverageArgs configures the coverage report.
type CoverageArgs struct {
	ProjectArgs

	// DataFile overrides <workdir>/.coverage.
	DataFile m.Path
	// Python is the fallback interpreter with coverage.py installed.
	Python string
	// Format is FormatText or FormatTable.
	Format string
}

// Coverage prints the report for the coverage data of the last tox run.
func (w *workflow) Coverage(ctx context.Context, args CoverageArgs) error {
	_, workDir, err := w.resolveProject(args.ProjectArgs)
	if err != nil {
		return err
	}

	dataFile := args.DataFile
	if dataFile == "" {
		dataFile = w.fs.JoinPath(string(workDir), coverageName)
	}

	if !w.fs.Exists(dataFile) {
		return fmt.Errorf("%w: %s", m.ErrCoverageDataMissing, dataFile)
	}

	python := w.coveragePython(workDir, args.Python)

	switch args.Format {
	case "", FormatText:
		return w.coverageText(ctx, python, dataFile)
	case FormatTable:
		return w.coverageTable(ctx, python, dataFile)
	default:
		return fmt.Errorf("unsupported coverage format %q (want %q or %q)", args.Format, FormatText, FormatTable)
	}
}

// coveragePython prefers the interpreter of the env recorded by the last run.
func (w *workflow) coveragePython(workDir m.Path, fallback string) string {
	if fallback == "" {
		fallback = DefaultPython
	}

	record, found, err := w.store.LoadRun(w.runRecordPath(workDir))
	if err != nil {
		slog.Warn("Failed to load run record", "workdir", workDir, "error", err)
		return fallback
	}

	if !found {
		return fallback
	}

	envBin := w.envPython(workDir, record.Mode)
	if !w.fs.Exists(envBin) {
		return fallback
	}

	return string(envBin)
}

func (w *workflow) coverageText(ctx context.Context, python string, dataFile m.Path) error {
	var out bytes.Buffer

	result, err := w.runner.Run(ctx, adapter.Invocation{
		Name:   python,
		Args:   []string{"-m", "coverage", "report", "--data-file=" + string(dataFile)},
		Stdout: &out,
		Stderr: w.ui.Stderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to run coverage: %w", err)
	}

	if err := exitStatus("coverage", result); err != nil {
		return err
	}

	return w.ui.DisplayText(ctx, out.String())
}

func (w *workflow) coverageTable(ctx context.Context, python string, dataFile m.Path) error {
	tmpDir, err := w.fs.CreateTempDir("pyrig-coverage-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	defer func() {
		if err := w.fs.RemoveAll(tmpDir); err != nil {
			slog.Error("Failed to cleanup temp dir", "tmpDir", tmpDir, "error", err)
		}
	}()

	jsonPath := w.fs.JoinPath(string(tmpDir), "coverage.json")

	result, err := w.runner.Run(ctx, adapter.Invocation{
		Name:   python,
		Args:   []string{"-m", "coverage", "json", "-q", "--data-file=" + string(dataFile), "-o", string(jsonPath)},
		Stdout: io.Discard,
		Stderr: w.ui.Stderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to run coverage: %w", err)
	}

	if err := exitStatus("coverage", result); err != nil {
		return err
	}

	data, err := w.fs.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read coverage json: %w", err)
	}

	var report m.CoverageReport
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("failed to decode coverage json: %w", err)
	}

	return w.ui.DisplayCoverage(ctx, report)
}

func (w *workflow) envPython(workDir m.Path, mode m.Mode) m.Path {
	return w.fs.JoinPath(string(workDir), string(mode), "bin", "python")
}
