package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/summarycmp/internal/compiler"
	"github.com/roach88/summarycmp/internal/config"
	"github.com/roach88/summarycmp/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the summarycmp CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "summarycmp",
		Short: "Compare reservoir simulation summary vectors",
		Long: `summarycmp compares the summary vectors of two simulation runs.

Each keyword present in both datasets is aligned on report times,
its deviations are aggregated, and the statistics are judged against
relative and absolute tolerances.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (YAML)")

	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewSuiteCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// commandArgs wraps a positional-args validator so usage mistakes exit with
// ExitCommandError.
func commandArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loadConfig reads the config file named by --config, if any, plus
// SUMMARYCMP_* environment overrides. The result is not validated so flags
// can still be applied.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.ConfigPath)
}

// logger builds the diagnostic logger. Logs go to stderr so they never mix
// with report output.
func (o *RootOptions) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return cfg.Logging.NewLogger(cmd.ErrOrStderr(), o.Verbose)
}

// engineConfig validates cfg and builds the engine configuration, compiling
// the tolerance policy when one is configured.
func engineConfig(cfg *config.Config) (engine.Config, error) {
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("invalid config: %w", err)
	}

	ec := cfg.EngineConfig()
	if cfg.Tolerance.Policy != "" {
		tc, err := compiler.LoadPolicyFile(cfg.Tolerance.Policy, ec.Tolerance.Default)
		if err != nil {
			return engine.Config{}, fmt.Errorf("invalid policy %s: %w", cfg.Tolerance.Policy, err)
		}
		ec.Tolerance = *tc
	}

	if err := ec.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return ec, nil
}
