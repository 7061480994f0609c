package engine

import (
	"fmt"

	"github.com/roach88/summarycmp/internal/summary"
)

// Default tolerance thresholds.
const (
	DefaultRelativeMax       = 1.0
	DefaultRelativeMedianMax = 0.1
)

// Tolerance holds the thresholds a keyword's statistics are judged against.
// AbsoluteMax <= 0 disables the absolute check.
type Tolerance struct {
	RelativeMax       float64 `json:"relative_max" yaml:"relative_max"`
	RelativeMedianMax float64 `json:"relative_median_max" yaml:"relative_median_max"`
	AbsoluteMax       float64 `json:"absolute_max,omitempty" yaml:"absolute_max,omitempty"`
}

// DefaultTolerance returns the default thresholds.
func DefaultTolerance() Tolerance {
	return Tolerance{
		RelativeMax:       DefaultRelativeMax,
		RelativeMedianMax: DefaultRelativeMedianMax,
	}
}

// Validate rejects negative thresholds.
func (t Tolerance) Validate() error {
	if t.RelativeMax < 0 {
		return fmt.Errorf("relative_max must be >= 0, got %g", t.RelativeMax)
	}
	if t.RelativeMedianMax < 0 {
		return fmt.Errorf("relative_median_max must be >= 0, got %g", t.RelativeMedianMax)
	}
	if t.AbsoluteMax < 0 {
		return fmt.Errorf("absolute_max must be >= 0, got %g", t.AbsoluteMax)
	}
	return nil
}

// Override applies Tolerance to keywords matching Pattern (path.Match syntax).
type Override struct {
	Pattern   string    `json:"pattern" yaml:"pattern"`
	Tolerance Tolerance `json:"tolerance" yaml:"tolerance"`
}

// ToleranceConfig is the default tolerance plus ordered per-keyword overrides.
// Read-only once the engine is constructed.
type ToleranceConfig struct {
	Default   Tolerance  `json:"default" yaml:"default"`
	Overrides []Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// ForKeyword returns the tolerance of the first override matching keyword,
// or Default when none matches.
func (c ToleranceConfig) ForKeyword(keyword string) Tolerance {
	for _, o := range c.Overrides {
		if summary.MatchKeyword(keyword, []string{o.Pattern}) {
			return o.Tolerance
		}
	}
	return c.Default
}

// Validate checks every threshold and pattern.
func (c ToleranceConfig) Validate() error {
	if err := c.Default.Validate(); err != nil {
		return fmt.Errorf("default tolerance: %w", err)
	}
	for i, o := range c.Overrides {
		if o.Pattern == "" {
			return fmt.Errorf("override %d: pattern must not be empty", i)
		}
		if err := summary.ValidatePattern(o.Pattern); err != nil {
			return fmt.Errorf("override %d: invalid pattern %q: %w", i, o.Pattern, err)
		}
		if err := o.Tolerance.Validate(); err != nil {
			return fmt.Errorf("override %d (%s): %w", i, o.Pattern, err)
		}
	}
	return nil
}

// FailMode selects whether a run stops at the first failing keyword.
type FailMode string

const (
	// FailFast stops at the first failing keyword. Remaining keywords are
	// counted as skipped.
	FailFast FailMode = "fail-fast"

	// CollectAll evaluates every keyword and reports every failure.
	CollectAll FailMode = "collect-all"
)

// ParseFailMode converts a string to a FailMode.
func ParseFailMode(s string) (FailMode, error) {
	switch FailMode(s) {
	case FailFast, CollectAll:
		return FailMode(s), nil
	default:
		return "", fmt.Errorf("invalid fail mode %q (must be %s or %s)", s, FailFast, CollectAll)
	}
}

// NegativePolicy selects how negative input values are handled.
type NegativePolicy string

const (
	// NegativeReject fails the keyword with NEGATIVE_VALUE.
	NegativeReject NegativePolicy = "reject"

	// NegativeMagnitude compares signed values: |v1 - v2| relative to
	// max(|v1|, |v2|).
	NegativeMagnitude NegativePolicy = "magnitude"
)

// ParseNegativePolicy converts a string to a NegativePolicy.
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	switch NegativePolicy(s) {
	case NegativeReject, NegativeMagnitude:
		return NegativePolicy(s), nil
	default:
		return "", fmt.Errorf("invalid negative value policy %q (must be %s or %s)", s, NegativeReject, NegativeMagnitude)
	}
}

// Config configures a comparison run.
type Config struct {
	Tolerance ToleranceConfig

	FailMode FailMode

	// Parallelism bounds concurrent keyword evaluation in collect-all mode.
	// Values below 2 mean sequential.
	Parallelism int

	NegativeValues NegativePolicy

	// TimeEpsilon is the tolerance for treating two report times as equal.
	TimeEpsilon float64

	// Keys restricts the comparison to keywords matching any glob.
	// Empty means every keyword.
	Keys []string
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Tolerance:      ToleranceConfig{Default: DefaultTolerance()},
		FailMode:       FailFast,
		Parallelism:    1,
		NegativeValues: NegativeReject,
		TimeEpsilon:    DefaultTimeEpsilon,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Tolerance.Validate(); err != nil {
		return err
	}
	if _, err := ParseFailMode(string(c.FailMode)); err != nil {
		return err
	}
	if _, err := ParseNegativePolicy(string(c.NegativeValues)); err != nil {
		return err
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be >= 0, got %d", c.Parallelism)
	}
	if c.TimeEpsilon < 0 {
		return fmt.Errorf("time epsilon must be >= 0, got %g", c.TimeEpsilon)
	}
	for _, p := range c.Keys {
		if err := summary.ValidatePattern(p); err != nil {
			return fmt.Errorf("invalid key pattern %q: %w", p, err)
		}
	}
	return nil
}
