package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

// DefaultDepsCommand is the dependency checker executable.
const DefaultDepsCommand = "deptry"

// DepsArgs configures one run of the dependency checker.
type DepsArgs struct {
	Options m.DepsOptions
	// Command overrides DefaultDepsCommand.
	Command string
	// Dir is the directory the checker runs in; empty means the working directory.
	Dir m.Path
	// ExtraModuleNames are configured package->module entries applied on top
	// of the base mapping and below the built-in defaults.
	ExtraModuleNames m.Mapping
	// ShowVersion prints the checker version instead of running a check.
	ShowVersion bool
}

// Deps forwards the options to the dependency checker and runs it once.
func (w *workflow) Deps(ctx context.Context, args DepsArgs) error {
	command := args.Command
	if command == "" {
		command = DefaultDepsCommand
	}

	if args.ShowVersion {
		return w.runDeps(ctx, command, args.Dir, []string{"--version"})
	}

	opts := args.Options

	if len(opts.Roots) == 0 {
		return fmt.Errorf("%w: at least one root is required", m.ErrRootNotFound)
	}

	for _, root := range opts.Roots {
		if !w.fs.Exists(w.inDir(args.Dir, root)) {
			return fmt.Errorf("%w: %s does not exist", m.ErrRootNotFound, root)
		}
	}

	moduleNames, err := w.resolveModuleNames(args)
	if err != nil {
		return err
	}

	opts.PackageModuleNameMap = moduleNames

	return w.runDeps(ctx, command, args.Dir, BuildDepsArgs(opts))
}

func (w *workflow) runDeps(ctx context.Context, command string, dir m.Path, argv []string) error {
	if err := w.checkTool(command); err != nil {
		return err
	}

	slog.Info("running dependency check", "command", command, "args", argv)

	result, err := w.runner.Run(ctx, adapter.Invocation{
		Name:   command,
		Args:   argv,
		Dir:    string(dir),
		Stdout: w.ui.Stdout(),
		Stderr: w.ui.Stderr(),
	})
	if err != nil {
		slog.Error("Failed to run dependency check", "command", command, "error", err)
		return fmt.Errorf("failed to run %s: %w", command, err)
	}

	return exitStatus(command, result)
}

// resolveModuleNames layers the package->module name mapping: the flag
// value or the [tool.deptry] table, then configured extras, then the
// built-in defaults, which always win.
func (w *workflow) resolveModuleNames(args DepsArgs) (m.Mapping, error) {
	out := m.Mapping{}

	if args.Options.PackageModuleNameMap != nil {
		out.Merge(args.Options.PackageModuleNameMap)
	} else if args.Options.Config != "" {
		project, err := w.pyproject.ReadPyproject(w.inDir(args.Dir, args.Options.Config))
		if err != nil {
			return nil, err
		}

		if project.Found {
			slog.Debug("loaded package module map from pyproject", "path", project.Path, "entries", len(project.PackageModuleNameMap))
		}

		out.Merge(project.PackageModuleNameMap)
	}

	out.Merge(args.ExtraModuleNames)

	for pkg, module := range m.DefaultPackageModuleNames {
		out[pkg] = []string{module}
	}

	return out, nil
}

func (w *workflow) inDir(dir, path m.Path) m.Path {
	if dir == "" || filepath.IsAbs(string(path)) {
		return path
	}

	return w.fs.JoinPath(string(dir), string(path))
}

// BuildDepsArgs renders opts as dependency checker command-line arguments.
// Options left at their zero value are omitted so the checker applies its
// own defaults. Roots come last.
func BuildDepsArgs(opts m.DepsOptions) []string {
	var args []string

	flag := func(name string, on bool) {
		if on {
			args = append(args, name)
		}
	}
	value := func(name, v string) {
		if v != "" {
			args = append(args, name, v)
		}
	}
	list := func(name string, items []string) {
		value(name, strings.Join(items, ","))
	}
	repeated := func(name string, items []string) {
		for _, item := range items {
			value(name, item)
		}
	}
	mapping := func(name string, mp m.Mapping) {
		if len(mp) > 0 {
			value(name, mp.String())
		}
	}

	flag("-v", opts.Verbose)
	value("--config", string(opts.Config))
	flag("--no-ansi", opts.NoANSI)
	list("--ignore", opts.Ignore)
	mapping("--per-rule-ignores", opts.PerRuleIgnores)
	repeated("--exclude", opts.Exclude)
	repeated("--extend-exclude", opts.ExtendExclude)
	flag("--ignore-notebooks", opts.IgnoreNotebooks)
	list("--requirements-files", opts.RequirementsFiles)
	list("--requirements-files-dev", opts.RequirementsFilesDev)
	repeated("--known-first-party", opts.KnownFirstParty)
	value("--json-output", string(opts.JSONOutput))
	mapping("--package-module-name-map", opts.PackageModuleNameMap)
	list("--pep621-dev-dependency-groups", opts.PEP621DevDependencyGroups)
	flag("--experimental-namespace-package", opts.ExperimentalNamespacePackage)

	for _, root := range opts.Roots {
		args = append(args, string(root))
	}

	return args
}
