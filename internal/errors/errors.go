package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the run exceeded its deadline.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was interrupted (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RaceError ties a failure to the worker that produced it. A recovered panic
// inside a racer or bee goroutine surfaces as a RaceError.
type RaceError struct {
	// Racer is the name of the worker that failed.
	Racer string
	// Cause is the underlying error.
	Cause error
}

// Error returns the racer name followed by the cause.
func (e RaceError) Error() string {
	return fmt.Sprintf("racer %q: %v", e.Racer, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e RaceError) Unwrap() error { return e.Cause }

// TimeoutError represents a run that exceeded its configured deadline.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match a TimeoutError.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

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

// PanicError converts a recovered panic value into an error.
func PanicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
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

// HandleRunError prints a user-facing message for err and returns the exit
// code matching its class. A nil error maps to ExitSuccess and prints nothing.
//
// Parameters:
//   - err: The error returned by a run.
//   - elapsed: How long the run lasted before failing.
//   - out: The writer receiving the message.
//
// Returns:
//   - int: The process exit code.
func HandleRunError(err error, elapsed time.Duration, out io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr ConfigError
	var valErr ValidationError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		fmt.Fprintf(out, "Configuration error: %v\n", err)
		return ExitErrorConfig
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "\n⏱️  Race stopped: deadline exceeded after %s\n", elapsed.Round(time.Millisecond))
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "\n\n🛑 Race interrupted! Thanks for watching! 🛑\n")
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "\n❌ Race error: %v\n", err)
		return ExitErrorGeneric
	}
}
