package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the simulation did not finish within its time budget.
	ExitErrorMismatch = 3   // Indicates the bin sum does not match the requested trial count.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ErrNotSealed is returned when a bin store is read before the simulation
// that fills it has confirmed completion.
var ErrNotSealed = errors.New("bin store is not sealed")

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
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

// SimulationError encapsulates a simulation failure while preserving the
// original cause.
type SimulationError struct {
	// Cause is the underlying error that triggered this simulation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e SimulationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error.
func (e SimulationError) Unwrap() error { return e.Cause }

// TimeoutError represents a run that did not complete within its time budget.
// It captures the operation name and the budget that was exceeded.
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

// CancellationError reports that the caller waiting for a run was
// interrupted before the run completed. Cause is the context error (or the
// cancellation cause) observed by the waiter.
type CancellationError struct {
	Operation string
	Cause     error
}

// Error returns a formatted message describing the cancellation.
func (e CancellationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("operation %q was canceled", e.Operation)
	}
	return fmt.Sprintf("operation %q was canceled: %v", e.Operation, e.Cause)
}

// Unwrap returns the cancellation cause.
func (e CancellationError) Unwrap() error { return e.Cause }

// ConservationError reports that the sealed bins do not add up to the number
// of trials that were requested.
type ConservationError struct {
	Expected int64
	Actual   int64
}

// Error returns a formatted message describing the mismatch.
func (e ConservationError) Error() string {
	return fmt.Sprintf("bin sum %d does not match requested trial count %d", e.Actual, e.Expected)
}

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
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
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

// ExitCodeFor maps an error returned by a run to the process exit code.
// A nil error maps to ExitSuccess.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		timeoutErr      TimeoutError
		cancelErr       CancellationError
		configErr       ConfigError
		validationErr   ValidationError
		conservationErr ConservationError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.As(err, &cancelErr):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &conservationErr):
		return ExitErrorMismatch
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
