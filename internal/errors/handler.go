package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI escape sequences used to highlight error
// diagnostics. A nil provider disables colors.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// ExitCodeFor classifies err into one of the application exit codes without
// producing any output.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, ErrArithmetic):
		return ExitErrorDiverged
	case errors.Is(err, ErrNoConvergence):
		return ExitErrorNoConverge
	case errors.Is(err, ErrPrecondition):
		return ExitErrorConfig
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		return ExitErrorConfig
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// HandleCalculationError writes a diagnostic for a failed solve to out and
// returns the matching exit code.
//
// Parameters:
//   - err: The error returned by the solver (may be nil).
//   - duration: How long the solve ran before failing (0 if unknown).
//   - out: The writer receiving the diagnostic.
//   - colors: Color provider for the message, or nil for plain text.
//
// Returns:
//   - int: The exit code for the error.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}

	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s", duration)
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		var timeoutErr TimeoutError
		if errors.As(err, &timeoutErr) {
			fmt.Fprintf(out, "%sStatus: Failure (Timeout). The %s limit was reached%s.%s\n",
				colors.Red(), timeoutErr.Limit, elapsed, colors.Reset())
			break
		}
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The execution limit was reached%s.%s\n",
			colors.Red(), elapsed, colors.Reset())
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled by user%s.%s\n", colors.Yellow(), elapsed, colors.Reset())
	case ExitErrorDiverged:
		fmt.Fprintf(out, "%sStatus: Diverged. %v%s\n", colors.Red(), err, colors.Reset())
	case ExitErrorNoConverge:
		fmt.Fprintf(out, "%sStatus: Did not converge. %v%s\n", colors.Yellow(), err, colors.Reset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure. Unexpected error: %v%s\n", colors.Red(), err, colors.Reset())
	}
	return code
}
