package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/summarycmp/internal/config"
	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/report"
	"github.com/roach88/summarycmp/internal/source"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	RelativeMax       float64
	RelativeMedianMax float64
	AbsoluteMax       float64
	Policy            string
	Keys              []string
	FailMode          string
	Parallel          int
	Negative          string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	return newCompareCommand(&CompareOptions{RootOptions: rootOpts})
}

func newCompareCommand(opts *CompareOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference> <candidate>",
		Short: "Compare two summary datasets",
		Long: `Compare the summary vectors of a reference and a candidate run.

Datasets are YAML/JSON fixtures (.yaml, .yml, .json) or SQLite stores
(.db, .sqlite, .sqlite3). Flags override the config file only when set.

Exit codes:
  0 - Every keyword within tolerance
  1 - Comparison failed (tolerance exceeded, out-of-range timestamp, ...)
  2 - Command error (bad flags, dataset unavailable, keyword mismatch)

Examples:
  summarycmp compare base.yaml rerun.db
  summarycmp compare base.yaml rerun.db --rel-max 0.5 --keys 'WBHP:*'
  summarycmp compare base.yaml rerun.db --fail-mode collect-all --parallel 4
  summarycmp compare base.yaml rerun.db --policy wells.cue --format json`,
		Args:          commandArgs(cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.RelativeMax, "rel-max", engine.DefaultRelativeMax, "maximum relative deviation")
	cmd.Flags().Float64Var(&opts.RelativeMedianMax, "rel-median-max", engine.DefaultRelativeMedianMax, "maximum median relative deviation")
	cmd.Flags().Float64Var(&opts.AbsoluteMax, "abs-max", 0, "maximum absolute deviation (0 disables)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "CUE tolerance policy with per-keyword overrides")
	cmd.Flags().StringSliceVar(&opts.Keys, "keys", nil, "compare only keywords matching these globs")
	cmd.Flags().StringVar(&opts.FailMode, "fail-mode", string(engine.FailFast), "fail-fast|collect-all")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "keywords evaluated concurrently in collect-all mode")
	cmd.Flags().StringVar(&opts.Negative, "negative", string(engine.NegativeReject), "negative value policy (reject|magnitude)")

	return cmd
}

func runCompare(opts *CompareOptions, referencePath, candidatePath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	applyCompareFlags(cmd, opts, cfg)

	engCfg, err := engineConfig(cfg)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeConfig, "configuration error", err)
	}
	logger := opts.logger(cmd, cfg)

	ctx := cmd.Context()
	f.VerboseLog("Loading reference %s", referencePath)
	reference, err := source.Open(ctx, referencePath)
	if err != nil {
		return f.compareFailure(err)
	}
	f.VerboseLog("Loading candidate %s", candidatePath)
	candidate, err := source.Open(ctx, candidatePath)
	if err != nil {
		return f.compareFailure(err)
	}

	var runIDs engine.RunIDGenerator = engine.UUIDv7Generator{}
	if opts.RunIDs != nil {
		runIDs = opts.RunIDs
	}
	eng := engine.New(engCfg, engine.WithLogger(logger), engine.WithRunIDGenerator(runIDs))

	rep, err := eng.CompareDatasets(ctx, reference, candidate)
	if err != nil {
		return f.compareFailure(err)
	}

	if err := writeReport(f, rep); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	if !rep.Pass {
		return WrapExitError(ExitFailure, "comparison failed", rep.Err())
	}
	return nil
}

// applyCompareFlags copies explicitly set flags over the loaded config.
func applyCompareFlags(cmd *cobra.Command, opts *CompareOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("rel-max") {
		cfg.Tolerance.RelativeMax = opts.RelativeMax
	}
	if flags.Changed("rel-median-max") {
		cfg.Tolerance.RelativeMedianMax = opts.RelativeMedianMax
	}
	if flags.Changed("abs-max") {
		cfg.Tolerance.AbsoluteMax = opts.AbsoluteMax
	}
	if flags.Changed("policy") {
		cfg.Tolerance.Policy = opts.Policy
	}
	if flags.Changed("keys") {
		cfg.Compare.Keys = opts.Keys
	}
	if flags.Changed("fail-mode") {
		cfg.Compare.FailMode = opts.FailMode
	}
	if flags.Changed("parallel") {
		cfg.Compare.Parallelism = opts.Parallel
	}
	if flags.Changed("negative") {
		cfg.Compare.NegativeValues = opts.Negative
	}
}

// writeReport renders rep as text, or as a CLIResponse in JSON mode.
func writeReport(f *OutputFormatter, rep *engine.Report) error {
	if f.Format != "json" {
		return report.WriteText(f.Writer, rep)
	}

	resp := CLIResponse{Status: "ok", Data: rep, RunID: rep.RunID}
	if err := rep.Err(); err != nil {
		resp.Status = "error"
		resp.Error = &CLIError{Code: string(engine.ErrCodeToleranceExceeded), Message: err.Error()}
		var ce *engine.CompareError
		if errors.As(err, &ce) {
			resp.Error.Code = string(ce.Code)
			if len(ce.Details) > 0 {
				resp.Error.Details = ce.Details
			}
		}
	}
	return writeJSON(f.Writer, resp)
}
