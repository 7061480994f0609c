package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/roach88/summarycmp/internal/compiler"
	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/source"
)

// Options controls a suite run.
type Options struct {
	// Config is the base comparison config. Nil means engine.DefaultConfig().
	Config *engine.Config

	// Filter selects cases by name (path.Match glob). Empty runs every case.
	Filter string

	// UpdateGolden rewrites golden reports instead of comparing them.
	UpdateGolden bool

	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Run executes every selected case of suite in order.
//
// Case failures are recorded in the result; the returned error is reserved
// for an invalid filter or a cancelled context.
func Run(ctx context.Context, suite *Suite, opts Options) (*SuiteResult, error) {
	if opts.Filter != "" {
		if _, err := path.Match(opts.Filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	logger := opts.logger()
	result := &SuiteResult{Name: suite.Name, Cases: []CaseResult{}}

	for _, c := range suite.Cases {
		if opts.Filter != "" {
			if matched, _ := path.Match(opts.Filter, c.Name); !matched {
				continue
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := RunCase(ctx, suite, c, opts)
		if res.Report != nil && suite.Dir != "" {
			if err := checkGolden(suite, &res, opts.UpdateGolden); err != nil {
				res.AddError(fmt.Sprintf("golden comparison failed: %v", err))
			}
		}

		logger.Info("case finished",
			"suite", suite.Name,
			"case", res.Name,
			"outcome", string(res.Outcome),
			"pass", res.Pass,
		)
		result.add(res)
	}

	return result, nil
}

// RunCase executes a single case and checks its expectation. Golden reports
// are not consulted.
func RunCase(ctx context.Context, suite *Suite, c Case, opts Options) CaseResult {
	res := CaseResult{Name: c.Name, Pass: true}

	cfg, err := caseConfig(suite, c, opts.Config)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = err
		res.AddError(fmt.Sprintf("configuration error: %v", err))
		return res
	}

	eng := engine.New(cfg,
		engine.WithLogger(opts.logger()),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(suite.Name+"/"+c.Name)),
	)

	rep, err := compare(ctx, eng, c)
	var cause error
	switch {
	case err != nil:
		res.Outcome = OutcomeError
		res.Err = err
		cause = err
		var ce *engine.CompareError
		if !errors.As(err, &ce) {
			res.AddError(fmt.Sprintf("execution failed: %v", err))
			return res
		}
		res.Code = ce.Code
	case rep.Pass:
		res.Outcome = OutcomePass
		res.Report = rep
	default:
		res.Outcome = OutcomeFail
		res.Report = rep
		cause = rep.Err()
		var ce *engine.CompareError
		if errors.As(cause, &ce) {
			res.Code = ce.Code
		}
	}

	switch c.ExpectedOutcome() {
	case ExpectPass:
		if res.Outcome != OutcomePass {
			res.AddError(fmt.Sprintf("expected pass, got %s: %v", res.Outcome, cause))
		}
	case ExpectFail:
		if res.Outcome == OutcomePass {
			res.AddError("expected failure, comparison passed")
		}
	}
	if c.ExpectCode != "" && res.Outcome != OutcomePass && res.Code != engine.ErrorCode(c.ExpectCode) {
		res.AddError(fmt.Sprintf("expected code %s, got %s", c.ExpectCode, res.Code))
	}

	return res
}

func compare(ctx context.Context, eng *engine.Engine, c Case) (*engine.Report, error) {
	reference, err := source.Open(ctx, c.Reference)
	if err != nil {
		return nil, err
	}
	candidate, err := source.Open(ctx, c.Candidate)
	if err != nil {
		return nil, err
	}
	return eng.CompareDatasets(ctx, reference, candidate)
}

// caseConfig layers suite settings, then case settings, then the case policy
// over base.
func caseConfig(suite *Suite, c Case, base *engine.Config) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if base != nil {
		cfg = *base
		cfg.Keys = append([]string(nil), base.Keys...)
		cfg.Tolerance.Overrides = append([]engine.Override(nil), base.Tolerance.Overrides...)
	}

	cfg.Tolerance.Default = suite.Tolerance.Apply(cfg.Tolerance.Default)
	cfg.Tolerance.Default = c.Tolerance.Apply(cfg.Tolerance.Default)

	for _, mode := range []string{suite.FailMode, c.FailMode} {
		if mode == "" {
			continue
		}
		fm, err := engine.ParseFailMode(mode)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.FailMode = fm
	}

	if c.NegativeValues != "" {
		np, err := engine.ParseNegativePolicy(c.NegativeValues)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.NegativeValues = np
	}

	if len(c.Keys) > 0 {
		cfg.Keys = append([]string(nil), c.Keys...)
	}

	if c.Policy != "" {
		tc, err := compiler.LoadPolicyFile(c.Policy, cfg.Tolerance.Default)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Tolerance = *tc
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}
