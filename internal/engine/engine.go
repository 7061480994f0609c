package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/summarycmp/internal/summary"
)

// Engine compares summary datasets.
//
// Thread-safety: an Engine holds only read-only configuration and may run
// several comparisons concurrently, provided its RunIDGenerator is safe for
// concurrent use (both provided generators are).
type Engine struct {
	cfg    Config
	calc   Calculator
	runIDs RunIDGenerator
	logger *slog.Logger
}

// EngineOption allows configuration of engine collaborators.
type EngineOption func(*Engine)

// WithLogger sets the logger. Default: discard.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = gen
	}
}

// New creates an Engine for cfg. The configuration is validated on each
// comparison, not here.
//
// cfg.Keys and cfg.Tolerance.Overrides are copied so later changes by the
// caller do not affect the engine.
func New(cfg Config, opts ...EngineOption) *Engine {
	cfg.Keys = append([]string(nil), cfg.Keys...)
	cfg.Tolerance.Overrides = append([]Override(nil), cfg.Tolerance.Overrides...)

	e := &Engine{
		cfg:    cfg,
		calc:   Calculator{Negative: cfg.NegativeValues},
		runIDs: UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Compare materializes both sources and compares them.
//
// Returns an error for an invalid configuration, DATASET_UNAVAILABLE when a
// source cannot be read, KEYWORD_MISMATCH when reconciliation fails, or the
// context's error on cancellation. Every other outcome, including tolerance
// failures, is recorded in the Report.
func (e *Engine) Compare(ctx context.Context, reference, candidate summary.Source) (*Report, error) {
	ref, err := summary.Materialize(ctx, reference)
	if err != nil {
		return nil, NewDatasetUnavailableError(reference.Name(), err)
	}

	cand, err := summary.Materialize(ctx, candidate)
	if err != nil {
		return nil, NewDatasetUnavailableError(candidate.Name(), err)
	}

	return e.CompareDatasets(ctx, ref, cand)
}

// CompareDatasets compares two materialized datasets.
// See Compare for the error contract.
func (e *Engine) CompareDatasets(ctx context.Context, reference, candidate *summary.Dataset) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comparison config: %w", err)
	}

	pairing, err := ReconcileKeys(
		summary.FilterKeywords(reference.Keywords(), e.cfg.Keys),
		summary.FilterKeywords(candidate.Keywords(), e.cfg.Keys),
	)
	if err != nil {
		e.logger.Warn("keyword reconciliation failed", "error", err)
		return nil, err
	}

	timeRef := SideReference
	if len(candidate.Times) < len(reference.Times) {
		timeRef = SideCandidate
	}

	report := &Report{
		RunID:           e.runIDs.Generate(),
		Reference:       reference.Case,
		Candidate:       candidate.Case,
		ShortKeywordSet: pairing.Short,
		TimeReference:   timeRef,
		FailMode:        e.cfg.FailMode,
		Keywords:        pairing.Keywords,
	}

	e.logger.Info("comparison started",
		"run_id", report.RunID,
		"reference", report.Reference,
		"candidate", report.Candidate,
		"keywords", len(pairing.Keywords),
		"fail_mode", string(e.cfg.FailMode),
	)

	if e.cfg.FailMode == CollectAll {
		report.Results, err = e.collectAll(ctx, reference, candidate, pairing.Keywords)
	} else {
		report.Results, report.Skipped, err = e.failFast(ctx, reference, candidate, pairing.Keywords)
	}
	if err != nil {
		return nil, err
	}

	for _, res := range report.Results {
		if !res.Passed() {
			report.Failed++
		}
	}
	report.Pass = report.Failed == 0

	e.logger.Info("comparison finished",
		"run_id", report.RunID,
		"pass", report.Pass,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)

	return report, nil
}

// failFast evaluates keywords in order and stops at the first failure.
func (e *Engine) failFast(ctx context.Context, reference, candidate *summary.Dataset, keywords []string) ([]KeywordResult, int, error) {
	results := make([]KeywordResult, 0, len(keywords))
	for i, kw := range keywords {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		res := e.CompareKeyword(reference, candidate, kw)
		results = append(results, res)
		if !res.Passed() {
			return results, len(keywords) - i - 1, nil
		}
	}
	return results, 0, nil
}

// collectAll evaluates every keyword, concurrently when Parallelism > 1.
// Results are stored by index so ordering matches keywords.
func (e *Engine) collectAll(ctx context.Context, reference, candidate *summary.Dataset, keywords []string) ([]KeywordResult, error) {
	results := make([]KeywordResult, len(keywords))

	if e.cfg.Parallelism < 2 {
		for i, kw := range keywords {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.CompareKeyword(reference, candidate, kw)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Parallelism)
	for i, kw := range keywords {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.CompareKeyword(reference, candidate, kw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CompareKeyword runs the per-keyword pipeline: select the time reference,
// align, compute deviations, aggregate and judge.
//
// The keyword must exist in both datasets. Structural problems are returned
// in KeywordResult.Error with the keyword attached.
func (e *Engine) CompareKeyword(reference, candidate *summary.Dataset, keyword string) KeywordResult {
	res := KeywordResult{
		Keyword:   keyword,
		Tolerance: e.cfg.Tolerance.ForKeyword(keyword),
		Verdict:   Verdict{Keyword: keyword},
	}

	if !reference.Has(keyword) {
		res.Error = NewKeywordMismatchError(keyword, SideCandidate, SideReference)
		return res
	}
	if !candidate.Has(keyword) {
		res.Error = NewKeywordMismatchError(keyword, SideReference, SideCandidate)
		return res
	}
	refSeries, err := reference.TimeSeries(keyword)
	if err != nil {
		res.Error = keywordError(keyword, err)
		return res
	}
	candSeries, err := candidate.TimeSeries(keyword)
	if err != nil {
		res.Error = keywordError(keyword, err)
		return res
	}

	timeRef, checking, _ := SelectReference(refSeries, candSeries)

	pairs, err := Align(timeRef, checking, e.cfg.TimeEpsilon)
	if err != nil {
		res.Error = keywordError(keyword, err)
		e.logger.Warn("keyword failed", "keyword", keyword, "error", res.Error)
		return res
	}

	deviations, err := e.calc.Deviations(pairs)
	if err != nil {
		res.Error = keywordError(keyword, err)
		e.logger.Warn("keyword failed", "keyword", keyword, "error", res.Error)
		return res
	}

	stats, err := Aggregate(deviations)
	if err != nil {
		res.Error = keywordError(keyword, err)
		e.logger.Warn("keyword failed", "keyword", keyword, "error", res.Error)
		return res
	}

	res.Statistics = stats
	res.Verdict = Judge(keyword, stats, res.Tolerance)

	e.logger.Debug("keyword compared",
		"keyword", keyword,
		"samples", stats.SampleCount,
		"max_relative", stats.MaxRelative,
		"median_relative", stats.MedianRelative,
		"pass", res.Verdict.Pass,
	)
	if !res.Verdict.Pass {
		e.logger.Warn("tolerance exceeded", "diagnostic", res.Verdict.Diagnostic())
	}

	return res
}

// keywordError returns err as a CompareError naming keyword. The stats
// helpers only fail on empty input, so a foreign error keeps its message as
// the cause of an EMPTY_DEVIATION_SET.
func keywordError(keyword string, err error) *CompareError {
	var ce *CompareError
	if errors.As(err, &ce) {
		out := *ce
		out.Keyword = keyword
		return &out
	}
	out := NewEmptyDeviationError(keyword)
	out.Err = err
	return out
}
