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
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the operation timed out.
	ExitErrorMismatch   = 3   // Indicates a root mismatch between update methods.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorDiverged   = 5   // Indicates a zero derivative stopped the iteration.
	ExitErrorNoConverge = 6   // Indicates the iteration cap was reached.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinel error classes wrapped by the numerical packages.
var (
	// ErrArithmetic signals an undefined arithmetic step, such as a Newton
	// update with a zero slope.
	ErrArithmetic = errors.New("arithmetic error")
	// ErrPrecondition signals that an input violated a documented precondition.
	ErrPrecondition = errors.New("precondition violation")
	// ErrNoConvergence signals that an iteration budget ran out first.
	ErrNoConvergence = errors.New("did not converge")
)

// ConfigError reports unusable user input: a bad flag, environment value,
// problem file or combination of settings. Cause, when set, holds the
// underlying errors (for example one ValidationError per rejected field).
type ConfigError struct {
	Message string
	Cause   error
}

func (e ConfigError) Error() string { return e.Message }

// Unwrap exposes Cause to errors.Is and errors.As.
func (e ConfigError) Unwrap() error { return e.Cause }

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError names one rejected input and why. Field is the flag
// spelling the user typed, e.g. "--tol".
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// CalculationError ties a solver failure to the method that produced it.
// The message is the cause's own; Method is carried for logs and traces.
type CalculationError struct {
	Method string
	Cause  error
}

func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns Cause.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports that Operation exceeded the configured Limit. It
// unwraps to context.DeadlineExceeded.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap returns context.DeadlineExceeded.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// WrapError prefixes err with a formatted context message, keeping it
// reachable through errors.Is and errors.As. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
