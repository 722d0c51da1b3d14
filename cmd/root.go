// Package cmd provides the root command and CLI setup for pyrig.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	"pyrig.dev/pkg/pyrig/internal/controller"
	"pyrig.dev/pkg/pyrig/internal/domain"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

var projectFS adapter.ProjectFSAdapter
var toolRunner adapter.ToolRunnerAdapter
var pyprojectReader adapter.PyprojectReader
var runStore adapter.RunStore
var workflow domain.Workflow
var ui controller.UI

// verboseFlag raises the log level to Debug and is forwarded to deptry.
var verboseFlag bool

// logFileFlag overrides log.filename.
var logFileFlag string

// workDirRootFlag overrides tox.workdir_root.
var workDirRootFlag string

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	projectFS = adapter.NewLocalProjectFSAdapter()
	toolRunner = adapter.NewLocalToolRunnerAdapter(0)
	pyprojectReader = adapter.NewTOMLPyprojectReader()
	runStore = adapter.NewRunStore()
	workflow = domain.NewWorkflow(
		projectFS,
		toolRunner,
		pyprojectReader,
		runStore,
		ui,
	)
}

const rootLongDescription = `Pyrig drives the development checks of a Python project from the project
directory: the deptry dependency audit, the tox test matrix, coverage
reports and the packages installed in the tox envs.

Tox runs in the work directory ~/.tox/<project directory name> unless
tox.workdir_root (or --workdir-root) points elsewhere.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pyrig",
		Short:        "Python project checks: deptry, tox and coverage",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "verbose output (debug logging, forwarded to deptry)")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default "+defaultLogFilename+")")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().StringVar(&workDirRootFlag, workDirRootFlagName, "", "directory holding the tox work directories (default ~/.tox)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(workDirRootFlagName), workDirRootKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the root command and exits with the status of the wrapped
// tool when it failed, or 1 for any other error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var exitErr *m.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}

	return 1
}

// projectArgs locates the project in the working directory.
func projectArgs() domain.ProjectArgs {
	return domain.ProjectArgs{
		WorkDirRoot: m.Path(viper.GetString(workDirRootKey)),
	}
}
