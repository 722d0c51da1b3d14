package cmd

import (
	"github.com/spf13/cobra"

	"pyrig.dev/pkg/pyrig/internal/domain"
)

func newLibsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libs",
		Short: "List the packages installed in the tox env",
		Long: `Run pip list with the python of the project's tox env: pkg when it exists
in the work directory, req otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Libs(cmd.Context(), domain.LibsArgs{
				ProjectArgs: projectArgs(),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(newLibsCmd())
}
