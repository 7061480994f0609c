package engine

import (
	"errors"
	"fmt"
)

// CompareError represents an error detected during a comparison.
//
// Whole-run errors (DATASET_UNAVAILABLE, KEYWORD_MISMATCH) are returned from
// Engine.Compare. Per-keyword errors are recorded on the KeywordResult.
type CompareError struct {
	// Code identifies the error category.
	Code ErrorCode `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Keyword identifies the affected keyword, if any.
	Keyword string `json:"keyword,omitempty"`

	// Details contains additional context.
	Details map[string]string `json:"details,omitempty"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// ErrorCode categorizes comparison errors.
type ErrorCode string

const (
	// ErrCodeDatasetUnavailable indicates a dataset could not be loaded.
	ErrCodeDatasetUnavailable ErrorCode = "DATASET_UNAVAILABLE"

	// ErrCodeKeywordMismatch indicates the smaller keyword set holds a keyword
	// the larger one lacks.
	ErrCodeKeywordMismatch ErrorCode = "KEYWORD_MISMATCH"

	// ErrCodeOutOfRangeTimestamp indicates a reference time outside the
	// checking series' range. Extrapolation is refused.
	ErrCodeOutOfRangeTimestamp ErrorCode = "OUT_OF_RANGE_TIMESTAMP"

	// ErrCodeEmptyDeviationSet indicates a keyword with zero alignable samples.
	ErrCodeEmptyDeviationSet ErrorCode = "EMPTY_DEVIATION_SET"

	// ErrCodeNegativeValue indicates a negative input under the reject policy.
	ErrCodeNegativeValue ErrorCode = "NEGATIVE_VALUE"

	// ErrCodeNonFiniteValue indicates a NaN or infinite input value.
	ErrCodeNonFiniteValue ErrorCode = "NON_FINITE_VALUE"

	// ErrCodeToleranceExceeded indicates aggregated statistics breached a threshold.
	ErrCodeToleranceExceeded ErrorCode = "TOLERANCE_EXCEEDED"
)

// Fatal reports whether the code aborts the whole comparison.
func (c ErrorCode) Fatal() bool {
	return c == ErrCodeDatasetUnavailable || c == ErrCodeKeywordMismatch
}

// Error implements the error interface.
func (e *CompareError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Keyword != "" {
		msg = fmt.Sprintf("%s (keyword=%s)", msg, e.Keyword)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CompareError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is, or wraps, a CompareError with code.
func HasCode(err error, code ErrorCode) bool {
	var ce *CompareError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsFatal reports whether err is a whole-run comparison error.
// Uses errors.As to handle wrapped errors.
func IsFatal(err error) bool {
	var ce *CompareError
	if errors.As(err, &ce) {
		return ce.Code.Fatal()
	}
	return false
}

// IsDatasetUnavailable returns true if the error is a dataset loading error.
func IsDatasetUnavailable(err error) bool {
	return HasCode(err, ErrCodeDatasetUnavailable)
}

// IsKeywordMismatch returns true if the error is a keyword reconciliation error.
func IsKeywordMismatch(err error) bool {
	return HasCode(err, ErrCodeKeywordMismatch)
}

// IsToleranceExceeded returns true if the error is a tolerance failure.
func IsToleranceExceeded(err error) bool {
	return HasCode(err, ErrCodeToleranceExceeded)
}

// NewDatasetUnavailableError creates a CompareError for a dataset that could not be loaded.
func NewDatasetUnavailableError(location string, err error) *CompareError {
	return &CompareError{
		Code:    ErrCodeDatasetUnavailable,
		Message: fmt.Sprintf("cannot load dataset %s", location),
		Details: map[string]string{"location": location},
		Err:     err,
	}
}

// NewKeywordMismatchError creates a CompareError for a keyword missing from the larger set.
func NewKeywordMismatchError(keyword string, short, long Side) *CompareError {
	return &CompareError{
		Code:    ErrCodeKeywordMismatch,
		Message: fmt.Sprintf("keyword %s from %s not found in %s", keyword, short, long),
		Keyword: keyword,
		Details: map[string]string{
			"short": short.String(),
			"long":  long.String(),
		},
	}
}

// NewOutOfRangeError creates a CompareError for a reference time the checking series cannot cover.
func NewOutOfRangeError(keyword string, t, first, last float64) *CompareError {
	return &CompareError{
		Code:    ErrCodeOutOfRangeTimestamp,
		Message: fmt.Sprintf("reference time %g outside checking range [%g, %g]", t, first, last),
		Keyword: keyword,
		Details: map[string]string{
			"time":  fmt.Sprintf("%g", t),
			"first": fmt.Sprintf("%g", first),
			"last":  fmt.Sprintf("%g", last),
		},
	}
}

// NewEmptyDeviationError creates a CompareError for a keyword with no alignable samples.
func NewEmptyDeviationError(keyword string) *CompareError {
	return &CompareError{
		Code:    ErrCodeEmptyDeviationSet,
		Message: "no alignable samples",
		Keyword: keyword,
	}
}

// NewNegativeValueError creates a CompareError for a negative input value.
func NewNegativeValueError(v1, v2 float64) *CompareError {
	return &CompareError{
		Code:    ErrCodeNegativeValue,
		Message: fmt.Sprintf("negative value in pair (%g, %g)", v1, v2),
	}
}

// NewNonFiniteValueError creates a CompareError for a NaN or infinite input value.
func NewNonFiniteValueError(v1, v2 float64) *CompareError {
	return &CompareError{
		Code:    ErrCodeNonFiniteValue,
		Message: fmt.Sprintf("non-finite value in pair (%g, %g)", v1, v2),
	}
}
