package engine

import (
	"fmt"
)

// KeywordResult is the outcome of comparing one keyword.
// Exactly one of Error and Verdict is meaningful: a keyword with an Error
// produced no statistics.
type KeywordResult struct {
	Keyword    string        `json:"keyword"`
	Tolerance  Tolerance     `json:"tolerance"`
	Statistics Statistics    `json:"statistics"`
	Verdict    Verdict       `json:"verdict"`
	Error      *CompareError `json:"error,omitempty"`
}

// Passed reports whether the keyword compared cleanly and within tolerance.
func (r KeywordResult) Passed() bool {
	return r.Error == nil && r.Verdict.Pass
}

// Report is the outcome of a comparison run. Immutable once produced.
type Report struct {
	RunID     string `json:"run_id"`
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`

	// ShortKeywordSet is the dataset whose keyword set drove reconciliation.
	ShortKeywordSet Side `json:"short_keyword_set"`

	// TimeReference is the dataset whose report times drove alignment.
	TimeReference Side `json:"time_reference"`

	FailMode FailMode `json:"fail_mode"`

	// Keywords is every reconciled keyword, in evaluation order.
	Keywords []string `json:"keywords"`

	// Results holds one entry per evaluated keyword, in Keywords order. In
	// fail-fast mode it ends at the first failure.
	Results []KeywordResult `json:"results"`

	// Skipped counts keywords not evaluated because of fail-fast.
	Skipped int `json:"skipped"`

	Failed int  `json:"failed"`
	Pass   bool `json:"pass"`
}

// Failures returns the results that did not pass.
func (r *Report) Failures() []KeywordResult {
	var out []KeywordResult
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Err returns nil for a passing report. Otherwise it returns the first
// failure: the keyword's CompareError, or a TOLERANCE_EXCEEDED error carrying
// the verdict diagnostic.
func (r *Report) Err() error {
	if r.Pass {
		return nil
	}
	failures := r.Failures()
	if len(failures) == 0 {
		return &CompareError{Code: ErrCodeToleranceExceeded, Message: "comparison failed"}
	}
	first := failures[0]
	if first.Error != nil {
		return first.Error
	}

	details := make(map[string]string, len(first.Verdict.Violations))
	for _, v := range first.Verdict.Violations {
		details[v.Statistic] = fmt.Sprintf("%s > %s", formatFloat(v.Value), formatFloat(v.Threshold))
	}
	return &CompareError{
		Code:    ErrCodeToleranceExceeded,
		Message: first.Verdict.Diagnostic(),
		Keyword: first.Keyword,
		Details: details,
	}
}
