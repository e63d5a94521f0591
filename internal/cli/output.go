package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/gradebook/internal/backup"
	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation (validation, missing record, invalid backup)
	ExitCommandError = 2 // Command error (bad flags, unreadable config, database not openable)
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeValidation    = "E002" // Record failed validation
	ErrCodeNotFound      = "E003" // Referenced record does not exist
	ErrCodeConflict      = "E004" // Uniqueness rule violated
	ErrCodeInvalidBackup = "E005" // Backup document rejected
	ErrCodeDatabase      = "E006" // Database could not be opened
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeConfig        = "E008" // Configuration could not be loaded
	ErrCodeUsage         = "E009" // Missing or malformed arguments
	ErrCodeScenarioFailed = "E010" // Grading scenario failed
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
	Status   string      `json:"status"`             // "ok" or "error"
	Data     interface{} `json:"data,omitempty"`     // success payload
	Error    *CLIError   `json:"error,omitempty"`    // error details
	Revision int64       `json:"revision,omitempty"` // store revision the data was read at
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Render outputs data as JSON, or calls text to write the human-readable
// form. revision is included in JSON output when non-zero.
func (f *OutputFormatter) Render(data interface{}, revision int64, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:   "ok",
			Data:     data,
			Revision: revision,
		})
	}
	return text(f.Writer)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err through the formatter and returns the ExitError the
// command should return. An ExitError built by this package carries its
// error code as Message and is reported as is.
func (f *OutputFormatter) Fail(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		msg := exitErr.Message
		if exitErr.Err != nil {
			msg = exitErr.Err.Error()
		}
		_ = f.Error(exitErr.Message, msg, nil)
		return exitErr
	}
	code, exit, details := classify(err)
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

// classify maps an error to its CLI error code, exit code and details.
func classify(err error) (string, int, interface{}) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrCodeValidation, ExitFailure, ve.Fields
	case gradebook.IsNotFound(err):
		return ErrCodeNotFound, ExitFailure, nil
	case gradebook.IsConflict(err):
		return ErrCodeConflict, ExitFailure, nil
	case backup.IsInvalidDocument(err):
		return ErrCodeInvalidBackup, ExitFailure, nil
	default:
		return ErrCodeGeneric, ExitFailure, nil
	}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
