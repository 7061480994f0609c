package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/summarycmp/internal/compiler"
	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/source"
)

// FileValidation holds the validation result of one file.
type FileValidation struct {
	Path   string                     `json:"path"`
	Kind   string                     `json:"kind"` // "policy", "fixture", "store", or "dataset" when unrecognized
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate datasets and tolerance policies",
		Long: `Validate dataset files and CUE tolerance policies without comparing.

Datasets (.yaml, .yml, .json, .db, .sqlite, .sqlite3) are loaded and
checked for report-time ordering, vector lengths and duplicate keywords.
Policies (.cue) are checked against the policy schema, and their override
patterns and thresholds are validated.`,
		Args:          commandArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	errCount := 0
	for _, p := range paths {
		formatter.VerboseLog("Validating %s", p)
		fv := validateFile(cmd.Context(), p)
		if !fv.Valid {
			result.Valid = false
			errCount += len(fv.Errors)
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.Format == "json" {
		return outputValidationJSON(formatter, result, errCount)
	}
	return outputValidationText(formatter, result, errCount)
}

// validateFile dispatches on extension: .cue files are policies, everything
// else must be a dataset.
func validateFile(ctx context.Context, path string) FileValidation {
	if filepath.Ext(path) == ".cue" {
		fv := FileValidation{Path: path, Kind: "policy"}
		fv.Errors = validatePolicyFile(path)
		fv.Valid = len(fv.Errors) == 0
		return fv
	}

	fv := FileValidation{Path: path, Kind: "dataset", Valid: true}
	kind, err := source.DetectKind(path)
	if err == nil {
		fv.Kind = string(kind)
		_, err = source.Open(ctx, path)
	}
	if err != nil {
		// Report the underlying cause; the path is already on the line.
		var ce *engine.CompareError
		if errors.As(err, &ce) && ce.Err != nil {
			err = ce.Err
		}
		fv.Valid = false
		fv.Errors = []compiler.ValidationError{{
			Field:   "dataset",
			Message: err.Error(),
			Code:    ErrCodeInvalidDataset,
		}}
	}
	return fv
}

func validatePolicyFile(path string) []compiler.ValidationError {
	_, err := compiler.LoadPolicyFile(path, engine.DefaultTolerance())
	if err == nil {
		return nil
	}

	var ve compiler.ValidationError
	if errors.As(err, &ve) {
		return []compiler.ValidationError{ve}
	}

	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		line := 0
		if ce.Pos.IsValid() {
			line = ce.Pos.Line()
		}
		return []compiler.ValidationError{{
			Field:   ce.Field,
			Message: ce.Message,
			Code:    ErrCodePolicyCompile,
			Line:    line,
		}}
	}

	return []compiler.ValidationError{{
		Field:   "policy",
		Message: err.Error(),
		Code:    ErrCodeGeneric,
	}}
}

// outputValidationJSON outputs validation results as JSON.
func outputValidationJSON(f *OutputFormatter, result ValidationResult, errCount int) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Valid {
		first := firstValidationError(result)
		response.Status = "error"
		response.Error = &CLIError{Code: first.Code, Message: first.Message}
	}

	if err := writeJSON(f.Writer, response); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
	}
	return nil
}

// outputValidationText outputs one block per file.
func outputValidationText(f *OutputFormatter, result ValidationResult, errCount int) error {
	w := f.Writer

	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s\n", fv.Path)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.Path)
		for _, e := range fv.Errors {
			if e.Line > 0 {
				fmt.Fprintf(w, "  line %d\n", e.Line)
			}
			fmt.Fprintf(w, "  %s: %s\n", e.Code, e.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
	}

	fmt.Fprintln(w, "✓ All files valid")
	return nil
}

func firstValidationError(result ValidationResult) compiler.ValidationError {
	for _, fv := range result.Files {
		if len(fv.Errors) > 0 {
			return fv.Errors[0]
		}
	}
	return compiler.ValidationError{Code: ErrCodeGeneric, Message: "validation failed"}
}
