package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/summary"
)

// Expected outcomes of a case.
const (
	ExpectPass = "pass"
	ExpectFail = "fail"
)

// Suite is a named batch of comparison cases.
type Suite struct {
	// Name identifies the suite in output.
	Name string `yaml:"name"`

	// Description explains what the suite guards.
	Description string `yaml:"description"`

	// Tolerance overrides the base thresholds for every case.
	Tolerance *ToleranceSpec `yaml:"tolerance,omitempty"`

	// FailMode overrides the base fail mode for every case.
	FailMode string `yaml:"fail_mode,omitempty"`

	Cases []Case `yaml:"cases"`

	// Dir is the directory holding the suite file. Golden reports live in
	// Dir/golden.
	Dir string `yaml:"-"`
}

// Case is a single comparison and its expected outcome.
type Case struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Reference and Candidate are dataset paths (fixture or SQLite store).
	Reference string `yaml:"reference"`
	Candidate string `yaml:"candidate"`

	// Policy is an optional CUE tolerance policy. Its thresholds are applied
	// on top of the suite and case tolerance.
	Policy string `yaml:"policy,omitempty"`

	Tolerance *ToleranceSpec `yaml:"tolerance,omitempty"`

	// Keys restricts the comparison to keywords matching any glob.
	Keys []string `yaml:"keys,omitempty"`

	FailMode       string `yaml:"fail_mode,omitempty"`
	NegativeValues string `yaml:"negative_values,omitempty"`

	// Expect is "pass" (default) or "fail".
	Expect string `yaml:"expect,omitempty"`

	// ExpectCode pins the error code of an expected failure.
	ExpectCode string `yaml:"expect_code,omitempty"`
}

// ToleranceSpec is a partial tolerance. Unset fields keep the inherited value.
type ToleranceSpec struct {
	RelativeMax       *float64 `yaml:"relative_max,omitempty"`
	RelativeMedianMax *float64 `yaml:"relative_median_max,omitempty"`
	AbsoluteMax       *float64 `yaml:"absolute_max,omitempty"`
}

// Apply returns base with the fields set in s replaced.
func (s *ToleranceSpec) Apply(base engine.Tolerance) engine.Tolerance {
	if s == nil {
		return base
	}
	if s.RelativeMax != nil {
		base.RelativeMax = *s.RelativeMax
	}
	if s.RelativeMedianMax != nil {
		base.RelativeMedianMax = *s.RelativeMedianMax
	}
	if s.AbsoluteMax != nil {
		base.AbsoluteMax = *s.AbsoluteMax
	}
	return base
}

// ExpectedOutcome returns the case's expectation, defaulting to pass.
func (c Case) ExpectedOutcome() string {
	if c.Expect == "" {
		return ExpectPass
	}
	return c.Expect
}

// LoadSuite reads a suite file, resolving dataset and policy paths relative
// to the suite file's directory.
func LoadSuite(path string) (*Suite, error) {
	return LoadSuiteWithBasePath(path, filepath.Dir(path))
}

// LoadSuiteWithBasePath reads a suite file, resolving relative dataset and
// policy paths against basePath.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields, or references missing files.
func LoadSuiteWithBasePath(path, basePath string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	suite.Dir = filepath.Dir(path)

	// Resolve before validation so existence checks see real paths.
	for i := range suite.Cases {
		c := &suite.Cases[i]
		c.Reference = resolvePath(basePath, c.Reference)
		c.Candidate = resolvePath(basePath, c.Candidate)
		c.Policy = resolvePath(basePath, c.Policy)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}

	return &suite, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if s.FailMode != "" {
		if _, err := engine.ParseFailMode(s.FailMode); err != nil {
			return err
		}
	}
	if err := validateTolerance("tolerance", s.Tolerance); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if err := validateCase(i, c); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}

// validateCase validates a single case.
func validateCase(index int, c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("cases[%d]: name %q must not contain path separators", index, c.Name)
	}
	if c.Reference == "" {
		return fmt.Errorf("cases[%d]: reference is required", index)
	}
	if c.Candidate == "" {
		return fmt.Errorf("cases[%d]: candidate is required", index)
	}

	for _, p := range []string{c.Reference, c.Candidate, c.Policy} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("cases[%d]: file not found: %s", index, p)
		}
	}

	switch c.Expect {
	case "", ExpectPass, ExpectFail:
	default:
		return fmt.Errorf("cases[%d]: expect must be %s or %s, got %q", index, ExpectPass, ExpectFail, c.Expect)
	}
	if c.ExpectCode != "" {
		if c.ExpectedOutcome() != ExpectFail {
			return fmt.Errorf("cases[%d]: expect_code requires expect: %s", index, ExpectFail)
		}
		if !knownCode(engine.ErrorCode(c.ExpectCode)) {
			return fmt.Errorf("cases[%d]: unknown expect_code %q", index, c.ExpectCode)
		}
	}

	if c.FailMode != "" {
		if _, err := engine.ParseFailMode(c.FailMode); err != nil {
			return fmt.Errorf("cases[%d]: %w", index, err)
		}
	}
	if c.NegativeValues != "" {
		if _, err := engine.ParseNegativePolicy(c.NegativeValues); err != nil {
			return fmt.Errorf("cases[%d]: %w", index, err)
		}
	}
	for _, p := range c.Keys {
		if err := summary.ValidatePattern(p); err != nil {
			return fmt.Errorf("cases[%d]: invalid key pattern %q: %w", index, p, err)
		}
	}

	return validateTolerance(fmt.Sprintf("cases[%d].tolerance", index), c.Tolerance)
}

func validateTolerance(field string, s *ToleranceSpec) error {
	if s == nil {
		return nil
	}
	if err := s.Apply(engine.Tolerance{}).Validate(); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

func knownCode(code engine.ErrorCode) bool {
	switch code {
	case engine.ErrCodeDatasetUnavailable,
		engine.ErrCodeKeywordMismatch,
		engine.ErrCodeOutOfRangeTimestamp,
		engine.ErrCodeEmptyDeviationSet,
		engine.ErrCodeNegativeValue,
		engine.ErrCodeNonFiniteValue,
		engine.ErrCodeToleranceExceeded:
		return true
	}
	return false
}
