package harness

import (
	"bytes"

	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/report"
)

// Outcome is what a comparison actually did.
type Outcome string

const (
	// OutcomePass means the report passed.
	OutcomePass Outcome = "pass"

	// OutcomeFail means the report recorded at least one failing keyword.
	OutcomeFail Outcome = "fail"

	// OutcomeError means no report was produced.
	OutcomeError Outcome = "error"
)

// GoldenStatus records how a case's report related to its golden file.
type GoldenStatus string

const (
	GoldenNone     GoldenStatus = ""
	GoldenMatch    GoldenStatus = "match"
	GoldenMismatch GoldenStatus = "mismatch"
	GoldenUpdated  GoldenStatus = "updated"
)

// CaseResult is the outcome of running one case.
type CaseResult struct {
	Name string `json:"name"`

	// Pass is true when the outcome met the case's expectation.
	Pass bool `json:"pass"`

	Outcome Outcome `json:"outcome"`

	// Code is the error code of the first failure, if any.
	Code engine.ErrorCode `json:"code,omitempty"`

	// Errors explains why the case did not pass. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Golden GoldenStatus `json:"golden,omitempty"`

	// Report is nil when Outcome is OutcomeError.
	Report *engine.Report `json:"report,omitempty"`

	// Err is the error that prevented a report.
	Err error `json:"-"`
}

// AddError adds an error message and marks the case as failed.
func (r *CaseResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Text renders the case's report as text. Returns nil when there is no
// report.
func (r *CaseResult) Text() ([]byte, error) {
	if r.Report == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := report.WriteText(&buf, r.Report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SuiteResult is the outcome of running a suite.
type SuiteResult struct {
	Name   string       `json:"name"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// Pass reports whether every case met its expectation.
func (r *SuiteResult) Pass() bool {
	return r.Failed == 0
}

func (r *SuiteResult) add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	r.Total++
	if c.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}
