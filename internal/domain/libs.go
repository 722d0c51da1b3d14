package domain

import (
	"context"
	"fmt"
	"slices"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

// LibsArgs configures the installed-libraries listing.
type LibsArgs struct {
	ProjectArgs
}

// Libs lists the packages installed in the project's tox env.
func (w *workflow) Libs(ctx context.Context, args LibsArgs) error {
	_, workDir, err := w.resolveProject(args.ProjectArgs)
	if err != nil {
		return err
	}

	if !w.fs.IsDir(workDir) {
		return fmt.Errorf("%w: %s", m.ErrNoWorkDir, workDir)
	}

	names, err := w.fs.ListDir(workDir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", workDir, err)
	}

	mode := m.ModeRequirements
	if slices.Contains(names, string(m.ModePackage)) {
		mode = m.ModePackage
	}

	python := w.envPython(workDir, mode)

	result, err := w.runner.Run(ctx, adapter.Invocation{
		Name:   string(python),
		Args:   []string{"-m", "pip", "list"},
		Stdout: w.ui.Stdout(),
		Stderr: w.ui.Stderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to run pip in %s env: %w", mode, err)
	}

	return exitStatus("pip", result)
}
