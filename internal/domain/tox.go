package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

// DefaultTestCommand is the test orchestrator executable.
const DefaultTestCommand = "tox"

const launchBanner = "Launching tox tests"

// TestArgs configures one tox run.
type TestArgs struct {
	ProjectArgs

	// Command overrides DefaultTestCommand.
	Command string
	// ToxConfig is the tox configuration; empty uses the bundled tox.ini.
	ToxConfig m.Path
	// Mode forces the env; empty detects it from the project directory.
	Mode m.Mode
	// Extra is passed to tox after the env selection.
	Extra string
	// KeepBuild skips deleting the project's build directory.
	KeepBuild bool
	// Timeout bounds the tox run; zero means no limit.
	Timeout time.Duration
}

// Test runs the tox env matching the project layout.
func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	command := args.Command
	if command == "" {
		command = DefaultTestCommand
	}

	if err := w.checkTool(command); err != nil {
		return err
	}

	dir, workDir, err := w.resolveProject(args.ProjectArgs)
	if err != nil {
		return err
	}

	discoveryPath, err := w.materialize(workDir, adapter.DiscoveryAsset)
	if err != nil {
		return err
	}

	toxConfig := args.ToxConfig
	if toxConfig == "" {
		if toxConfig, err = w.materialize(workDir, adapter.ToxConfigAsset); err != nil {
			return err
		}
	}

	mode, err := w.detectMode(dir, args.Mode)
	if err != nil {
		return err
	}

	argv := []string{"-c", string(toxConfig), "-e", string(mode)}
	if args.Extra != "" {
		argv = append(argv, args.Extra)
	}

	if !args.KeepBuild {
		buildPath, removed, err := w.fs.RemoveBuildDir(dir)
		if err != nil {
			return err
		}

		if removed {
			w.ui.DisplayNotice(ctx, "- Deleting build directory %s", buildPath)
		}
	}

	env := mergeEnv(w.environ(), map[string]string{
		envRepoDir:       string(dir),
		envToxWorkDir:    string(workDir),
		envDiscoveryPath: string(discoveryPath),
	})

	w.ui.DisplayBanner(ctx, launchBanner)
	slog.Info("running tox", "command", command, "args", argv, "mode", mode, "workdir", workDir)

	if args.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, args.Timeout)
		defer cancel()
	}

	started := time.Now()

	result, err := w.runner.Run(ctx, adapter.Invocation{
		Name:   command,
		Args:   argv,
		Dir:    string(dir),
		Env:    env,
		Stdout: w.ui.Stdout(),
		Stderr: w.ui.Stderr(),
	})
	if err != nil {
		slog.Error("Failed to run tox", "command", command, "error", err)
		return fmt.Errorf("failed to run %s: %w", command, err)
	}

	record := m.RunRecord{
		Mode:      mode,
		ToxConfig: toxConfig,
		Extra:     args.Extra,
		StartedAt: started.UTC(),
		Duration:  result.Duration,
		ExitCode:  result.ExitCode,
	}

	if err := w.store.SaveRun(w.runRecordPath(workDir), record); err != nil {
		slog.Warn("Failed to save run record", "workdir", workDir, "error", err)
	}

	w.ui.DisplayRunSummary(ctx, record)

	return exitStatus(command, result)
}

func (w *workflow) detectMode(dir m.Path, forced m.Mode) (m.Mode, error) {
	if forced != "" {
		return m.ParseMode(string(forced))
	}

	isPackage, err := w.fs.IsPackage(dir)
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", dir, err)
	}

	if isPackage {
		return m.ModePackage, nil
	}

	return m.ModeRequirements, nil
}

// materialize writes an embedded support file under <workDir>/.pyrig.
func (w *workflow) materialize(workDir m.Path, name string) (m.Path, error) {
	content, err := adapter.Asset(name)
	if err != nil {
		return "", err
	}

	target := w.fs.JoinPath(string(workDir), supportDirName, name)
	if err := w.fs.WriteFile(target, content, 0o644); err != nil {
		slog.Error("Failed to write support file", "path", target, "error", err)
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	return target, nil
}
