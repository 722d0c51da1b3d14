package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pyrig.dev/pkg/pyrig/internal/domain"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

const (
	depsConfigFlagName               = "config"
	noANSIFlagName                   = "no-ansi"
	ignoreFlagName                   = "ignore"
	perRuleIgnoresFlagName           = "per-rule-ignores"
	excludeFlagName                  = "exclude"
	extendExcludeFlagName            = "extend-exclude"
	ignoreNotebooksFlagName          = "ignore-notebooks"
	requirementsFilesFlagName        = "requirements-files"
	requirementsFilesDevFlagName     = "requirements-files-dev"
	knownFirstPartyFlagName          = "known-first-party"
	jsonOutputFlagName               = "json-output"
	packageModuleNameMapFlagName     = "package-module-name-map"
	pep621DevGroupsFlagName          = "pep621-dev-dependency-groups"
	experimentalNamespacePkgFlagName = "experimental-namespace-package"
	toolVersionFlagName              = "tool-version"

	defaultDepsConfig           = "pyproject.toml"
	defaultRequirementsFilesDev = "dev-requirements.txt,requirements-dev.txt"
)

const depsLongDescription = `Run deptry on one or more project roots.

Options are forwarded to deptry under the same names; options left unset
are omitted so deptry applies its own defaults. The package to module name
map always carries pyrig's built-in entries (pillow=PIL, beautifulsoup4=bs4,
progressbar2=progressbar, PyYAML=yaml) on top of --package-module-name-map,
or of [tool.deptry] in the config file when the flag is not given, and of
deps.package_module_name_map from pyrig.yaml.`

// depsFlags holds the raw deps flag values.
type depsFlags struct {
	config                       string
	noANSI                       bool
	ignore                       []string
	perRuleIgnores               string
	exclude                      []string
	extendExclude                []string
	ignoreNotebooks              bool
	requirementsFiles            []string
	requirementsFilesDev         []string
	knownFirstParty              []string
	jsonOutput                   string
	packageModuleNameMap         string
	pep621DevDependencyGroups    []string
	experimentalNamespacePackage bool
	toolVersion                  bool
}

func newDepsCmd() *cobra.Command {
	flags := &depsFlags{}

	cmd := &cobra.Command{
		Use:   "deps ROOT...",
		Short: "Check the project's dependencies with deptry",
		Long:  depsLongDescription,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.toolVersion {
				return nil
			}

			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			depsArgs, err := flags.depsArgs(cmd, args)
			if err != nil {
				return err
			}

			return workflow.Deps(cmd.Context(), depsArgs)
		},
	}

	configureDepsFlags(cmd, flags)

	return cmd
}

func init() {
	rootCmd.AddCommand(newDepsCmd())
}

func configureDepsFlags(cmd *cobra.Command, flags *depsFlags) {
	f := cmd.Flags()

	f.StringVar(&flags.config, depsConfigFlagName, defaultDepsConfig, "pyproject.toml file to read deptry settings from")
	f.BoolVar(&flags.noANSI, noANSIFlagName, false, "disable ANSI characters in deptry output")
	f.StringSliceVarP(&flags.ignore, ignoreFlagName, "i", nil, "comma-separated rule codes to ignore, e.g. DEP001,DEP002")
	f.StringVar(&flags.perRuleIgnores, perRuleIgnoresFlagName, "", "per-rule ignores, e.g. DEP001=foo|bar,DEP002=baz")
	f.StringArrayVarP(&flags.exclude, excludeFlagName, "e", nil, "regex of paths to exclude (can be repeated)")
	f.StringArrayVar(&flags.extendExclude, extendExcludeFlagName, nil, "regex of paths to exclude on top of deptry's defaults (can be repeated)")
	f.BoolVar(&flags.ignoreNotebooks, ignoreNotebooksFlagName, false, "do not scan .ipynb files")
	f.StringSliceVar(&flags.requirementsFiles, requirementsFilesFlagName, nil, "comma-separated requirements files")
	f.StringSliceVar(&flags.requirementsFilesDev, requirementsFilesDevFlagName, []string{defaultRequirementsFilesDev}, "comma-separated development requirements files")
	f.StringArrayVar(&flags.knownFirstParty, knownFirstPartyFlagName, nil, "module to treat as first party (can be repeated)")
	f.StringVarP(&flags.jsonOutput, jsonOutputFlagName, "o", "", "write deptry results as JSON to this file")
	f.StringVar(&flags.packageModuleNameMap, packageModuleNameMapFlagName, "", "package to module names, e.g. foo=foo_module|bar")
	f.StringSliceVar(&flags.pep621DevDependencyGroups, pep621DevGroupsFlagName, nil, "comma-separated optional dependency groups holding development dependencies")
	f.BoolVar(&flags.experimentalNamespacePackage, experimentalNamespacePkgFlagName, false, "enable namespace package support in deptry")
	f.BoolVar(&flags.toolVersion, toolVersionFlagName, false, "print the deptry version and exit")
}

func (f *depsFlags) depsArgs(cmd *cobra.Command, args []string) (domain.DepsArgs, error) {
	perRuleIgnores, err := m.ParseMapping(f.perRuleIgnores)
	if err != nil {
		return domain.DepsArgs{}, fmt.Errorf("--%s: %w", perRuleIgnoresFlagName, err)
	}

	opts := m.DepsOptions{
		Roots:                        parsePaths(args),
		Config:                       m.Path(f.config),
		NoANSI:                       f.noANSI,
		Verbose:                      verboseFlag,
		Ignore:                       m.ParseCommaList(f.ignore...),
		PerRuleIgnores:               perRuleIgnores,
		Exclude:                      f.exclude,
		ExtendExclude:                f.extendExclude,
		IgnoreNotebooks:              f.ignoreNotebooks,
		RequirementsFiles:            m.ParseCommaList(f.requirementsFiles...),
		RequirementsFilesDev:         m.ParseCommaList(f.requirementsFilesDev...),
		KnownFirstParty:              f.knownFirstParty,
		JSONOutput:                   m.Path(f.jsonOutput),
		PEP621DevDependencyGroups:    m.ParseCommaList(f.pep621DevDependencyGroups...),
		ExperimentalNamespacePackage: f.experimentalNamespacePackage,
	}

	if cmd.Flags().Changed(packageModuleNameMapFlagName) {
		opts.PackageModuleNameMap, err = m.ParseMapping(f.packageModuleNameMap)
		if err != nil {
			return domain.DepsArgs{}, fmt.Errorf("--%s: %w", packageModuleNameMapFlagName, err)
		}
	}

	extra := m.Mapping{}
	for pkg, modules := range viper.GetStringMapStringSlice(depsModuleMapKey) {
		extra[pkg] = modules
	}

	return domain.DepsArgs{
		Options:          opts,
		Command:          viper.GetString(depsCommandKey),
		ExtraModuleNames: extra,
		ShowVersion:      f.toolVersion,
	}, nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
