package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes. The first three identify which input value could
// not be parsed.
const (
	ExitSuccess          = 0   // Successful execution.
	ExitErrorLowerBound  = 1   // The lower bound is not a number.
	ExitErrorUpperBound  = 2   // The upper bound is not a number.
	ExitErrorSampleCount = 3   // The sample count is not a positive integer.
	ExitErrorCalculation = 4   // The engine rejected the request or failed.
	ExitErrorConfig      = 5   // Invalid flags, environment or profile.
	ExitErrorMismatch    = 6   // Comparison runs disagree beyond the tolerance.
	ExitErrorGeneric     = 7   // Any other failure.
	ExitErrorCanceled    = 130 // Interrupted (SIGINT convention).
)

// ErrMismatch is reported when comparison runs disagree.
var ErrMismatch = errors.New("results differ beyond tolerance")

// ConfigError represents a user configuration error, such as an invalid flag
// value. The application cannot proceed until the input is corrected.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// Input fields identified by a ParseError.
const (
	FieldLowerBound  = "lower bound"
	FieldUpperBound  = "upper bound"
	FieldSampleCount = "sample count"
)

// ParseError reports an input value that could not be converted.
type ParseError struct {
	// Field is one of FieldLowerBound, FieldUpperBound or FieldSampleCount.
	Field string
	// Input is the raw text that was read.
	Input string
	// Cause is the conversion error.
	Cause error
}

// Error returns a message naming the field and the rejected input.
func (e ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Input)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Cause)
}

// Unwrap returns the conversion error.
func (e ParseError) Unwrap() error { return e.Cause }

// ExitCode returns the exit status reserved for the field.
func (e ParseError) ExitCode() int {
	switch e.Field {
	case FieldLowerBound:
		return ExitErrorLowerBound
	case FieldUpperBound:
		return ExitErrorUpperBound
	case FieldSampleCount:
		return ExitErrorSampleCount
	default:
		return ExitErrorConfig
	}
}

// CalculationError encapsulates an integration failure while preserving the
// original cause, typically one of the engine's validation sentinels.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CalculationError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error chain to the process exit code. The outermost
// recognised type wins; unrecognised errors map to ExitErrorGeneric.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsContextError(err) {
		return ExitErrorCanceled
	}

	var (
		parseErr      ParseError
		configErr     ConfigError
		validationErr ValidationError
		calcErr       CalculationError
	)
	switch {
	case errors.As(err, &parseErr):
		return parseErr.ExitCode()
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &calcErr):
		return ExitErrorCalculation
	case errors.Is(err, ErrMismatch):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}
