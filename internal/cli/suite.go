package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/summarycmp/internal/harness"
)

// SuiteOptions holds flags for the suite command.
type SuiteOptions struct {
	*RootOptions
	Update bool   // regenerate golden reports
	Filter string // case filter (glob pattern)
}

// NewSuiteCommand creates the suite command.
func NewSuiteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuiteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suite <suite.yaml>",
		Short: "Run a suite of comparisons",
		Long: `Run every case of a comparison suite and check its expected outcome.

A case passes when its comparison outcome matches the expectation
(expect: pass or fail, optionally expect_code). Cases with a golden
report in <suite dir>/golden/<case>.golden must also reproduce it.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid suite, config, etc.)

Examples:
  summarycmp suite regression/wells.yaml
  summarycmp suite regression/wells.yaml --filter "drift_*"
  summarycmp suite regression/wells.yaml --update`,
		Args:          commandArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden reports")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")

	return cmd
}

func runSuite(opts *SuiteOptions, suitePath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	engCfg, err := engineConfig(cfg)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeConfig, "configuration error", err)
	}

	suite, err := harness.LoadSuite(suitePath)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to load suite", err)
	}
	f.VerboseLog("Loaded suite %s with %d case(s)", suite.Name, len(suite.Cases))

	result, err := harness.Run(cmd.Context(), suite, harness.Options{
		Config:       &engCfg,
		Filter:       opts.Filter,
		UpdateGolden: opts.Update,
		Logger:       opts.logger(cmd, cfg),
	})
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to run suite", err)
	}

	if opts.Format == "json" {
		return outputSuiteJSON(f, result)
	}
	return outputSuiteText(f, result)
}

// outputSuiteJSON outputs the suite result as JSON.
func outputSuiteJSON(f *OutputFormatter, result *harness.SuiteResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Pass() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeSuiteFailed,
			Message: fmt.Sprintf("%d case(s) failed", result.Failed),
		}
	}

	if err := writeJSON(f.Writer, response); err != nil {
		return err
	}

	if !result.Pass() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// outputSuiteText outputs one line per case plus a summary.
func outputSuiteText(f *OutputFormatter, result *harness.SuiteResult) error {
	w := f.Writer

	if result.Total == 0 {
		fmt.Fprintln(w, "No cases found.")
		return nil
	}

	for _, c := range result.Cases {
		if c.Pass {
			if c.Golden == harness.GoldenUpdated {
				fmt.Fprintf(w, "✓ %s (golden updated)\n", c.Name)
			} else {
				fmt.Fprintf(w, "✓ %s\n", c.Name)
			}
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", c.Name)
		for _, e := range c.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Suite %s: %d passed, %d failed, %d total\n", result.Name, result.Passed, result.Failed, result.Total)

	if !result.Pass() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}
