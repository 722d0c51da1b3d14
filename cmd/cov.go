package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pyrig.dev/pkg/pyrig/internal/domain"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

var dataFileFlag string
var formatFlag string
var pythonFlag string

func newCovCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cov",
		Short: "Report coverage of the last tox run",
		Long: `Print the coverage report for the .coverage data file in the tox work
directory, using the python of the last tox env when it exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Coverage(cmd.Context(), domain.CoverageArgs{
				ProjectArgs: projectArgs(),
				DataFile:    m.Path(dataFileFlag),
				Python:      viper.GetString(covPythonKey),
				Format:      viper.GetString(covFormatKey),
			})
		},
	}

	configureCovFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(newCovCmd())
}

func configureCovFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dataFileFlag, dataFileFlagName, "", "coverage data file (default <workdir>/.coverage)")

	cmd.Flags().StringVar(&formatFlag, formatFlagName, defaultCovFormat, "report format: text or table")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), covFormatKey)

	cmd.Flags().StringVar(&pythonFlag, pythonFlagName, defaultCovPython, "interpreter with coverage installed, used when no tox env exists")
	bindFlagToConfig(cmd.Flags().Lookup(pythonFlagName), covPythonKey)
}
