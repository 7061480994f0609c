// Package compiler compiles CUE tolerance policies into engine configuration.
//
// A policy file sets the default tolerance and per-keyword overrides:
//
//	tolerance: {
//		relative_max:        1.0
//		relative_median_max: 0.1
//	}
//	overrides: [
//		{pattern: "WBHP:*", relative_max: 0.05},
//	]
//
// Fields left out inherit from the base tolerance (for the default) or from
// the compiled default (for overrides). The first override whose pattern
// matches a keyword wins.
package compiler

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/summarycmp/internal/engine"
)

//go:embed schema.cue
var schemaCUE string

// CompileError is a policy error with its CUE source position, if known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadPolicyFile reads, schema-checks, compiles and validates a policy file.
func LoadPolicyFile(path string, base engine.Tolerance) (*engine.ToleranceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return LoadPolicy(data, path, base)
}

// LoadPolicy compiles policy source. filename is used in error positions.
func LoadPolicy(src []byte, filename string, base engine.Tolerance) (*engine.ToleranceConfig, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("policy_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("policy schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, filename)
	}

	v = schema.LookupPath(cue.ParsePath("#Policy")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, filename)
	}

	cfg, err := CompilePolicy(v, base)
	if err != nil {
		return nil, err
	}

	if errs := ValidatePolicy(cfg); len(errs) > 0 {
		return nil, errs[0]
	}
	return cfg, nil
}

// CompilePolicy converts a policy value into a ToleranceConfig.
// The value is expected to have passed the #Policy schema.
func CompilePolicy(v cue.Value, base engine.Tolerance) (*engine.ToleranceConfig, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, "")
	}

	def, err := parseTolerance(v.LookupPath(cue.ParsePath("tolerance")), base)
	if err != nil {
		return nil, err
	}
	cfg := &engine.ToleranceConfig{Default: def}

	overrides := v.LookupPath(cue.ParsePath("overrides"))
	if !overrides.Exists() {
		return cfg, nil
	}

	iter, err := overrides.List()
	if err != nil {
		return nil, formatCUEError(err, "")
	}
	for i := 0; iter.Next(); i++ {
		o := iter.Value()

		pattern, err := o.LookupPath(cue.ParsePath("pattern")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("overrides[%d].pattern", i),
				Message: "pattern is required and must be a string",
				Pos:     o.Pos(),
			}
		}

		tol, err := parseTolerance(o, def)
		if err != nil {
			return nil, err
		}
		cfg.Overrides = append(cfg.Overrides, engine.Override{Pattern: pattern, Tolerance: tol})
	}

	return cfg, nil
}

// parseTolerance reads the threshold fields of v on top of base.
func parseTolerance(v cue.Value, base engine.Tolerance) (engine.Tolerance, error) {
	tol := base
	if !v.Exists() {
		return tol, nil
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"relative_max", &tol.RelativeMax},
		{"relative_median_max", &tol.RelativeMedianMax},
		{"absolute_max", &tol.AbsoluteMax},
	}
	for _, f := range fields {
		fv := v.LookupPath(cue.ParsePath(f.name))
		if !fv.Exists() {
			continue
		}
		x, err := fv.Float64()
		if err != nil {
			return engine.Tolerance{}, &CompileError{
				Field:   f.name,
				Message: fmt.Sprintf("must be a number: %v", err),
				Pos:     fv.Pos(),
			}
		}
		*f.dst = x
	}
	return tol, nil
}

// formatCUEError extracts position info from CUE errors. Positions in
// preferFile are reported ahead of positions in the embedded schema.
func formatCUEError(err error, preferFile string) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		pos := positions[0]
		for _, p := range positions {
			if preferFile != "" && p.Filename() == preferFile {
				pos = p
				break
			}
		}
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     pos,
		}
	}

	return err
}
