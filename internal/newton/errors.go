package newton

import (
	"errors"
	"fmt"

	apperrors "github.com/agbru/rootcalc/internal/errors"
)

// ErrFinished is returned by Step once the driver reached a terminal state.
var ErrFinished = errors.New("iteration already finished")

// ErrInvalidTolerance is returned when the tolerance is not a positive,
// finite number.
var ErrInvalidTolerance = fmt.Errorf("tolerance must be positive and finite: %w", apperrors.ErrPrecondition)

// ZeroDerivativeError reports a step whose slope evaluated to exactly zero.
// The next candidate is undefined, so the solve diverged.
type ZeroDerivativeError struct {
	// Iteration is the 1-based step that failed.
	Iteration int
	// X is the point at which f'(x) == 0.
	X float64
}

func (e *ZeroDerivativeError) Error() string {
	return fmt.Sprintf("derivative is zero at x=%g on iteration %d", e.X, e.Iteration)
}

// Unwrap lets errors.Is match apperrors.ErrArithmetic.
func (e *ZeroDerivativeError) Unwrap() error { return apperrors.ErrArithmetic }

// ConvergenceError reports that the iteration cap was reached while the
// change was still above tolerance.
type ConvergenceError struct {
	Iterations int
	X          float64
	Change     float64
	Tolerance  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d iterations: x=%g, last change %g > tolerance %g",
		e.Iterations, e.X, e.Change, e.Tolerance)
}

// Unwrap lets errors.Is match apperrors.ErrNoConvergence.
func (e *ConvergenceError) Unwrap() error { return apperrors.ErrNoConvergence }
