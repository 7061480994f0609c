package compiler

import (
	"fmt"

	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/summary"
)

// Validation error codes (E200-E299)
const (
	ErrUnsupportedType   = "E200" // unsupported value for validation
	ErrInvalidPattern    = "E201" // override pattern is not a valid glob
	ErrDuplicatePattern  = "E202" // override pattern repeats an earlier one
	ErrNegativeThreshold = "E203" // threshold below zero
	ErrEmptyPattern      = "E204" // override pattern is empty
)

// ValidationError represents a policy validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidatePolicy checks a compiled policy.
// Returns all errors found (does not fail-fast).
func ValidatePolicy(v any) []ValidationError {
	switch cfg := v.(type) {
	case *engine.ToleranceConfig:
		return validateToleranceConfig(cfg)
	case engine.ToleranceConfig:
		return validateToleranceConfig(&cfg)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

func validateToleranceConfig(cfg *engine.ToleranceConfig) []ValidationError {
	errs := validateTolerance("tolerance", cfg.Default)

	seen := make(map[string]int)
	for i, o := range cfg.Overrides {
		field := fmt.Sprintf("overrides[%d]", i)

		switch {
		case o.Pattern == "":
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: "pattern must not be empty",
				Code:    ErrEmptyPattern,
			})
		case summary.ValidatePattern(o.Pattern) != nil:
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: fmt.Sprintf("invalid glob pattern %q", o.Pattern),
				Code:    ErrInvalidPattern,
			})
		}

		// A repeated pattern can never match: the earlier one always wins.
		if prev, dup := seen[o.Pattern]; dup && o.Pattern != "" {
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: fmt.Sprintf("pattern %q already used by overrides[%d]", o.Pattern, prev),
				Code:    ErrDuplicatePattern,
			})
		} else {
			seen[o.Pattern] = i
		}

		errs = append(errs, validateTolerance(field, o.Tolerance)...)
	}

	return errs
}

func validateTolerance(field string, t engine.Tolerance) []ValidationError {
	var errs []ValidationError
	checks := []struct {
		name  string
		value float64
	}{
		{"relative_max", t.RelativeMax},
		{"relative_median_max", t.RelativeMedianMax},
		{"absolute_max", t.AbsoluteMax},
	}
	for _, c := range checks {
		if c.value < 0 {
			errs = append(errs, ValidationError{
				Field:   field + "." + c.name,
				Message: fmt.Sprintf("must be >= 0, got %g", c.value),
				Code:    ErrNegativeThreshold,
			})
		}
	}
	return errs
}
