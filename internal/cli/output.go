package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/summarycmp/internal/engine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Comparison passed, suite passed, files valid
	ExitFailure      = 1 // Comparison failed, suite case failed, validation failed
	ExitCommandError = 2 // Bad flags or config, dataset unavailable, keyword mismatch
)

// CLI error codes for failures that are not comparison errors. Comparison
// errors use their engine code (DATASET_UNAVAILABLE, ...).
const (
	ErrCodeGeneric        = "E001"
	ErrCodeConfig         = "E002" // config file, flags or policy
	ErrCodePolicyCompile  = "E100" // CUE syntax or schema error
	ErrCodeInvalidDataset = "E300"
	ErrCodeSuiteFailed    = "E_SUITE_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty"`  // error details
	RunID  string    `json:"run_id,omitempty"` // comparison run, when there is one
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "TOLERANCE_EXCEEDED", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail returns err as an ExitError. In JSON mode the error is also written
// as a CLIResponse so stdout stays machine-readable; in text mode the caller
// of Execute prints it to stderr.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	if f.Format == "json" {
		var details any
		var ce *engine.CompareError
		if errors.As(err, &ce) && len(ce.Details) > 0 {
			details = ce.Details
		}
		msg := message
		if err != nil {
			msg = fmt.Sprintf("%s: %v", message, err)
		}
		_ = f.Error(code, msg, details)
	}
	return WrapExitError(exitCode, message, err)
}

// compareFailure maps an error from loading or comparing datasets to an exit
// code: fatal comparison codes and non-comparison errors are command errors,
// per-keyword codes are comparison failures.
func (f *OutputFormatter) compareFailure(err error) error {
	var ce *engine.CompareError
	if !errors.As(err, &ce) {
		return f.fail(ExitCommandError, ErrCodeGeneric, "comparison aborted", err)
	}
	exitCode := ExitFailure
	if ce.Code.Fatal() {
		exitCode = ExitCommandError
	}
	return f.fail(exitCode, string(ce.Code), "comparison aborted", err)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
