package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "pyrig"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	verboseFlagName     = "verbose"
	logFileFlagName     = "log-file"
	workDirRootFlagName = "workdir-root"
	toxConfigFlagName   = "tox-config"
	keepBuildFlagName   = "keep-build"
	modeFlagName        = "mode"
	dataFileFlagName    = "data-file"
	formatFlagName      = "format"
	pythonFlagName      = "python"

	depsCommandKey   = "deps.command"
	depsModuleMapKey = "deps.package_module_name_map"
	testCommandKey   = "test.command"
	toxConfigKey     = "test.tox_config"
	keepBuildKey     = "test.keep_build"
	testTimeoutKey   = "test.timeout"
	workDirRootKey   = "tox.workdir_root"
	covPythonKey     = "cov.python"
	covFormatKey     = "cov.format"

	defaultDepsCommand = "deptry"
	defaultTestCommand = "tox"
	defaultKeepBuild   = false
	defaultTestTimeout = 0
	defaultCovPython   = "python3"
	defaultCovFormat   = "text"

	envPrefix = "PYRIG"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".pyrig.log"
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// configLoadErr is reported once the logger is configured.
var configLoadErr error

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setConfigDefaults()

	configLoadErr = loadConfig()
}

func setConfigDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(depsCommandKey, defaultDepsCommand)
	viper.SetDefault(depsModuleMapKey, map[string][]string{})

	viper.SetDefault(testCommandKey, defaultTestCommand)
	viper.SetDefault(toxConfigKey, "")
	viper.SetDefault(keepBuildKey, defaultKeepBuild)
	viper.SetDefault(testTimeoutKey, defaultTestTimeout)
	viper.SetDefault(workDirRootKey, "")

	viper.SetDefault(covPythonKey, defaultCovPython)
	viper.SetDefault(covFormatKey, defaultCovFormat)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// loadConfig reads pyrig.yaml; a missing file leaves the defaults in place.
func loadConfig() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read %s: %w", configFileName, err)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger points the default slog logger at a rotating log file.
// verbose forces Debug; otherwise log.level applies.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}

			return a
		},
	})

	slog.SetDefault(slog.New(handler))

	if configLoadErr != nil {
		slog.Warn("config file ignored", "error", configLoadErr)
	}
}
