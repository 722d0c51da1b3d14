// Package domain implements the pyrig commands on top of the adapters.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	"pyrig.dev/pkg/pyrig/internal/controller"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

const (
	supportDirName = ".pyrig"
	runRecordName  = "last_run.yaml"
	coverageName   = ".coverage"

	envRepoDir       = "REPO_DIRPATH"
	envToxWorkDir    = "TOX_WORKDIR"
	envDiscoveryPath = "DISCOVERY_FPATH"
)

// Workflow runs the dependency check, the tox suite and the reports built
// on top of it.
type Workflow interface {
	Deps(ctx context.Context, args DepsArgs) error
	Test(ctx context.Context, args TestArgs) error
	Coverage(ctx context.Context, args CoverageArgs) error
	Libs(ctx context.Context, args LibsArgs) error
}

// ProjectArgs locate the project and its tox work directory.
type ProjectArgs struct {
	// Dir is the project directory; empty means the working directory.
	Dir m.Path
	// WorkDirRoot holds the per-project work directories; empty means ~/.tox.
	WorkDirRoot m.Path
}

type workflow struct {
	fs        adapter.ProjectFSAdapter
	runner    adapter.ToolRunnerAdapter
	pyproject adapter.PyprojectReader
	store     adapter.RunStore
	ui        controller.UI
	environ   func() []string
}

// NewWorkflow constructs a Workflow backed by the provided adapters.
func NewWorkflow(
	fs adapter.ProjectFSAdapter,
	runner adapter.ToolRunnerAdapter,
	pyproject adapter.PyprojectReader,
	store adapter.RunStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		fs:        fs,
		runner:    runner,
		pyproject: pyproject,
		store:     store,
		ui:        ui,
		environ:   os.Environ,
	}
}

// resolveProject returns the project directory and its tox work directory.
func (w *workflow) resolveProject(args ProjectArgs) (m.Path, m.Path, error) {
	dir := args.Dir
	if dir == "" {
		wd, err := w.fs.Getwd()
		if err != nil {
			return "", "", err
		}

		dir = wd
	}

	workDir, err := w.fs.WorkDir(args.WorkDirRoot, dir)
	if err != nil {
		return "", "", err
	}

	slog.Debug("resolved project", "dir", dir, "workdir", workDir)

	return dir, workDir, nil
}

func (w *workflow) runRecordPath(workDir m.Path) m.Path {
	return w.fs.JoinPath(string(workDir), supportDirName, runRecordName)
}

// checkTool fails early when command is not an executable on PATH.
// Commands given as a path are left to the runner.
func (w *workflow) checkTool(command string) error {
	if strings.ContainsRune(command, filepath.Separator) {
		return nil
	}

	path, err := w.runner.LookPath(command)
	if err != nil {
		return err
	}

	slog.Debug("resolved tool", "command", command, "path", path)

	return nil
}

// exitStatus converts a non-zero tool exit into an *m.ExitError.
func exitStatus(tool string, result adapter.RunResult) error {
	if result.ExitCode == 0 {
		return nil
	}

	return &m.ExitError{Tool: tool, Code: result.ExitCode}
}

// mergeEnv returns base with the overrides applied. Overridden keys are
// dropped from base and re-added in sorted order.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}

		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s=%s", key, overrides[key]))
	}

	return out
}
