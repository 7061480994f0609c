package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/summarycmp/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summarycmp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
tolerance:
  relative_max: 0.5
  relative_median_max: 0.05
  absolute_max: 12.5
  policy: policies/wells.cue

compare:
  fail_mode: collect-all
  parallelism: 4
  negative_values: magnitude
  time_epsilon: 0.001
  keys:
    - "WBHP:*"
    - FOPR

logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.5, cfg.Tolerance.RelativeMax)
	assert.Equal(t, 0.05, cfg.Tolerance.RelativeMedianMax)
	assert.Equal(t, 12.5, cfg.Tolerance.AbsoluteMax)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "policies", "wells.cue"), cfg.Tolerance.Policy)
	assert.Equal(t, "collect-all", cfg.Compare.FailMode)
	assert.Equal(t, 4, cfg.Compare.Parallelism)
	assert.Equal(t, []string{"WBHP:*", "FOPR"}, cfg.Compare.Keys)
	assert.Equal(t, "debug", cfg.Logging.Level)

	ec := cfg.EngineConfig()
	assert.Equal(t, engine.CollectAll, ec.FailMode)
	assert.Equal(t, engine.NegativeMagnitude, ec.NegativeValues)
	assert.Equal(t, 0.001, ec.TimeEpsilon)
	assert.Equal(t, engine.Tolerance{RelativeMax: 0.5, RelativeMedianMax: 0.05, AbsoluteMax: 12.5}, ec.Tolerance.Default)
	assert.NoError(t, ec.Validate())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, engine.DefaultConfig(), cfg.EngineConfig())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SUMMARYCMP_TOLERANCE_RELATIVE_MAX", "0.2")
	t.Setenv("SUMMARYCMP_COMPARE_FAIL_MODE", "collect-all")

	path := writeConfig(t, "tolerance:\n  relative_max: 0.9\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Tolerance.RelativeMax, "environment wins over file")
	assert.Equal(t, "collect-all", cfg.Compare.FailMode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative relative max", func(c *Config) { c.Tolerance.RelativeMax = -1 }, "tolerance.relative_max"},
		{"negative median max", func(c *Config) { c.Tolerance.RelativeMedianMax = -1 }, "tolerance.relative_median_max"},
		{"negative absolute max", func(c *Config) { c.Tolerance.AbsoluteMax = -1 }, "tolerance.absolute_max"},
		{"bad fail mode", func(c *Config) { c.Compare.FailMode = "eventually" }, "compare.fail_mode"},
		{"bad negative policy", func(c *Config) { c.Compare.NegativeValues = "clamp" }, "compare.negative_values"},
		{"zero parallelism", func(c *Config) { c.Compare.Parallelism = 0 }, "compare.parallelism"},
		{"negative epsilon", func(c *Config) { c.Compare.TimeEpsilon = -1 }, "compare.time_epsilon"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf, false)
	logger.Info("hidden")
	logger.Warn("shown", "keyword", "FOPR")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"keyword":"FOPR"`)

	buf.Reset()
	logger = LoggingConfig{Level: "info", Format: "text"}.NewLogger(&buf, true)
	logger.Debug("verbose line")
	assert.True(t, strings.Contains(buf.String(), "verbose line"))
}
