// Package config loads summarycmp settings from an optional YAML file,
// SUMMARYCMP_* environment variables and built-in defaults.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/summarycmp/internal/engine"
)

// EnvPrefix prefixes every environment override, e.g.
// SUMMARYCMP_TOLERANCE_RELATIVE_MAX.
const EnvPrefix = "SUMMARYCMP"

// Config represents the complete application configuration
type Config struct {
	Tolerance ToleranceConfig `mapstructure:"tolerance"`
	Compare   CompareConfig   `mapstructure:"compare"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ToleranceConfig holds the default thresholds and an optional CUE policy
// with per-keyword overrides.
type ToleranceConfig struct {
	RelativeMax       float64 `mapstructure:"relative_max"`
	RelativeMedianMax float64 `mapstructure:"relative_median_max"`
	AbsoluteMax       float64 `mapstructure:"absolute_max"`

	// Policy is a CUE policy file. A relative path is resolved against the
	// config file's directory.
	Policy string `mapstructure:"policy"`
}

// CompareConfig holds comparison run behavior
type CompareConfig struct {
	FailMode       string   `mapstructure:"fail_mode"`
	Parallelism    int      `mapstructure:"parallelism"`
	NegativeValues string   `mapstructure:"negative_values"`
	TimeEpsilon    float64  `mapstructure:"time_epsilon"`
	Keys           []string `mapstructure:"keys"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if path != "" && cfg.Tolerance.Policy != "" && !filepath.IsAbs(cfg.Tolerance.Policy) {
		cfg.Tolerance.Policy = filepath.Join(filepath.Dir(path), cfg.Tolerance.Policy)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("tolerance.relative_max", engine.DefaultRelativeMax)
	v.SetDefault("tolerance.relative_median_max", engine.DefaultRelativeMedianMax)
	v.SetDefault("tolerance.absolute_max", 0.0)
	v.SetDefault("tolerance.policy", "")

	v.SetDefault("compare.fail_mode", string(engine.FailFast))
	v.SetDefault("compare.parallelism", 1)
	v.SetDefault("compare.negative_values", string(engine.NegativeReject))
	v.SetDefault("compare.time_epsilon", engine.DefaultTimeEpsilon)
	v.SetDefault("compare.keys", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Tolerance.RelativeMax < 0 {
		return fmt.Errorf("tolerance.relative_max must be >= 0")
	}
	if c.Tolerance.RelativeMedianMax < 0 {
		return fmt.Errorf("tolerance.relative_median_max must be >= 0")
	}
	if c.Tolerance.AbsoluteMax < 0 {
		return fmt.Errorf("tolerance.absolute_max must be >= 0")
	}

	if _, err := engine.ParseFailMode(c.Compare.FailMode); err != nil {
		return fmt.Errorf("compare.fail_mode: %w", err)
	}
	if _, err := engine.ParseNegativePolicy(c.Compare.NegativeValues); err != nil {
		return fmt.Errorf("compare.negative_values: %w", err)
	}
	if c.Compare.Parallelism < 1 {
		return fmt.Errorf("compare.parallelism must be at least 1")
	}
	if c.Compare.TimeEpsilon < 0 {
		return fmt.Errorf("compare.time_epsilon must be >= 0")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// DefaultTolerance returns the configured default thresholds.
func (c *Config) DefaultTolerance() engine.Tolerance {
	return engine.Tolerance{
		RelativeMax:       c.Tolerance.RelativeMax,
		RelativeMedianMax: c.Tolerance.RelativeMedianMax,
		AbsoluteMax:       c.Tolerance.AbsoluteMax,
	}
}

// EngineConfig builds the engine configuration. Per-keyword overrides from
// Tolerance.Policy are compiled by the caller.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Tolerance:      engine.ToleranceConfig{Default: c.DefaultTolerance()},
		FailMode:       engine.FailMode(c.Compare.FailMode),
		Parallelism:    c.Compare.Parallelism,
		NegativeValues: engine.NegativePolicy(c.Compare.NegativeValues),
		TimeEpsilon:    c.Compare.TimeEpsilon,
		Keys:           append([]string(nil), c.Compare.Keys...),
	}
}

// NewLogger returns a slog logger writing to w in the configured format
// and level. verbose forces debug level.
func (l LoggingConfig) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch l.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
