package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pyrig.dev/pkg/pyrig/internal/domain"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

const testLongDescription = `Run the tox env matching the project layout.

The env is pkg when the project has a setup.py or pyproject.toml and req
otherwise. Tox gets REPO_DIRPATH, TOX_WORKDIR and DISCOVERY_FPATH in its
environment; without --tox-config the bundled tox.ini is used. EXTRA is
passed to tox after the env selection. A failing tox run sets pyrig's exit
status.`

var modeFlag string
var toxConfigFlag string
var keepBuildFlag bool

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [EXTRA]",
		Short: "Run the tox tests",
		Long:  testLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode m.Mode

			if modeFlag != "" {
				parsed, err := m.ParseMode(modeFlag)
				if err != nil {
					return fmt.Errorf("--%s: %w", modeFlagName, err)
				}

				mode = parsed
			}

			var extra string
			if len(args) > 0 {
				extra = args[0]
			}

			return workflow.Test(cmd.Context(), domain.TestArgs{
				ProjectArgs: projectArgs(),
				Command:     viper.GetString(testCommandKey),
				ToxConfig:   m.Path(viper.GetString(toxConfigKey)),
				Mode:        mode,
				Extra:       extra,
				KeepBuild:   viper.GetBool(keepBuildKey),
				Timeout:     time.Duration(viper.GetInt64(testTimeoutKey)) * time.Second,
			})
		},
	}

	configureTestFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(newTestCmd())
}

func configureTestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modeFlag, modeFlagName, "", "tox env to run: pkg or req (default: detected)")

	cmd.Flags().StringVarP(&toxConfigFlag, toxConfigFlagName, "c", "", "tox configuration file (default: bundled tox.ini)")
	bindFlagToConfig(cmd.Flags().Lookup(toxConfigFlagName), toxConfigKey)

	cmd.Flags().BoolVar(&keepBuildFlag, keepBuildFlagName, defaultKeepBuild, "keep the build directory")
	bindFlagToConfig(cmd.Flags().Lookup(keepBuildFlagName), keepBuildKey)
}
