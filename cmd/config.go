package cmd

import (
	"errors"
	"fmt"
	"io"
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

	configBaseName   = "testsplit"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName   = "output"
	rulesFlagName    = "rules"
	parallelFlagName = "parallel"
	verboseFlagName  = "verbose"

	rulesConfigKey    = "rules.file"
	parallelConfigKey = "scan.parallel"

	defaultReportsDir = ".testsplit-reports"
	defaultRulesFile  = "testsplit-rules.yaml"
	defaultParallel   = 1
	defaultModule     = "."

	envPrefix = "TESTSPLIT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename = ".testsplit.log"
)

// ErrUnsupportedConfigVersion is returned when testsplit.yaml was written by a newer release.
var ErrUnsupportedConfigVersion = errors.New("unsupported config version")

// configDefaults seeds viper; `testsplit init` writes these keys to testsplit.yaml.
var configDefaults = map[string]any{
	configVersionKey:  currentConfigVersion,
	outputFlagName:    defaultReportsDir,
	rulesConfigKey:    defaultRulesFile,
	parallelConfigKey: defaultParallel,

	logFilenameKey:   defaultLogFilename,
	logLevelKey:      "info",
	logVerboseKey:    false,
	logMaxSizeKey:    10,
	logMaxBackupsKey: 3,
	logMaxAgeKey:     28,
	logCompressKey:   true,
}

var globalLogger *slog.Logger

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	for key, value := range configDefaults {
		viper.SetDefault(key, value)
	}

	// A missing testsplit.yaml is the common case; flags and env still apply.
	_ = viper.ReadInConfig()
}

// checkConfigVersion rejects config files newer than this binary understands.
func checkConfigVersion() error {
	version := viper.GetInt(configVersionKey)
	if version > currentConfigVersion {
		return fmt.Errorf("%w: %d (max %d)", ErrUnsupportedConfigVersion, version, currentConfigVersion)
	}

	return nil
}

// logConfig mirrors the log.* section of testsplit.yaml.
type logConfig struct {
	Filename   string
	Level      slog.Level
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func loadLogConfig(verbose bool) logConfig {
	cfg := logConfig{
		Filename:   strings.TrimSpace(viper.GetString(logFilenameKey)),
		Level:      parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo),
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	if cfg.Filename == "" {
		cfg.Filename = defaultLogFilename
	}

	if verbose {
		cfg.Level = slog.LevelDebug
	}

	return cfg
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))

	switch level {
	case "":
		return defaultLevel
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4 for debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

func (c logConfig) writer() io.Writer {
	return &lumberjack.Logger{
		Filename:   c.Filename,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}

// configureLogger installs a slog text logger writing to a rotated log file.
// Debug level adds the scanner's per-phase timings.
func configureLogger(cfg logConfig) {
	handler := slog.NewTextHandler(cfg.writer(), &slog.HandlerOptions{
		AddSource: cfg.Level <= slog.LevelDebug,
		Level:     cfg.Level,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
