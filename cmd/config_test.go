package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "testsplit", configBaseName)
	assert.Equal(t, "testsplit.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "rules", rulesFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "rules.file", rulesConfigKey)
	assert.Equal(t, "scan.parallel", parallelConfigKey)
	assert.Equal(t, ".testsplit-reports", defaultReportsDir)
	assert.Equal(t, "testsplit-rules.yaml", defaultRulesFile)
	assert.Equal(t, 1, defaultParallel)
	assert.Equal(t, "TESTSPLIT", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info upper", "INFO", slog.LevelInfo},
		{"warning alias", " warning ", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestLoadLogConfig(t *testing.T) {
	cfg := loadLogConfig(false)
	assert.Equal(t, defaultLogFilename, cfg.Filename)
	assert.Equal(t, slog.LevelInfo, cfg.Level)
	assert.Equal(t, 10, cfg.MaxSize)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 28, cfg.MaxAge)
	assert.True(t, cfg.Compress)

	assert.Equal(t, slog.LevelDebug, loadLogConfig(true).Level)
}

func TestCheckConfigVersion(t *testing.T) {
	t.Cleanup(func() { viper.Set(configVersionKey, currentConfigVersion) })

	viper.Set(configVersionKey, currentConfigVersion)
	require.NoError(t, checkConfigVersion())

	viper.Set(configVersionKey, currentConfigVersion+1)
	assert.ErrorIs(t, checkConfigVersion(), ErrUnsupportedConfigVersion)
}

func TestConfigureLogger_Verbose(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	cfg := loadLogConfig(true)
	cfg.Filename = filepath.Join(t.TempDir(), "testsplit.log")
	configureLogger(cfg)

	assert.NotNil(t, globalLogger)
	assert.Same(t, globalLogger, slog.Default())
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))
}
