package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/polynomial"
)

func TestDisplayResult(t *testing.T) {
	t.Parallel()
	result := solvedQuadratic(t)
	p := polynomial.New(1, 0, -4)

	tests := []struct {
		name     string
		opts     orchestration.PresentationOptions
		contains []string
		excludes []string
	}{
		{
			name:     "summary",
			opts:     orchestration.PresentationOptions{Polynomial: p},
			contains: []string{"Method:", "newton", "converged", "Iterations:", "Root:", "2.00000000003", "f(root):"},
			excludes: []string{"Candidates:", "Convergence analysis:"},
		},
		{
			name:     "verbose lists candidates",
			opts:     orchestration.PresentationOptions{Polynomial: p, Verbose: true},
			contains: []string{"Candidates:", "2.16666666667", "2.00641025641"},
		},
		{
			name:     "details prints analysis",
			opts:     orchestration.PresentationOptions{Polynomial: p, Details: true},
			contains: []string{"Convergence analysis:", "Residual", "Estimated order:"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayResult(result, tt.opts, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("output missing %q:\n%s", s, output)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(output, s) {
					t.Errorf("output unexpectedly contains %q:\n%s", s, output)
				}
			}
		})
	}
}

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	ok := solvedQuadratic(t)
	failed := orchestration.SolveResult{
		Name:   "tangent",
		Result: newton.Result{State: newton.Diverged},
		Err:    &newton.ZeroDerivativeError{Iteration: 1, X: 0},
	}

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable([]orchestration.SolveResult{ok, failed}, &buf)
	output := buf.String()
	for _, s := range []string{"Comparison Summary", "Method", "Steps", "newton", "tangent", "converged", "diverged", "derivative is zero"} {
		if !strings.Contains(output, s) {
			t.Errorf("table missing %q:\n%s", s, output)
		}
	}
}

func TestHandleErrorExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"zero derivative", &newton.ZeroDerivativeError{Iteration: 1}, apperrors.ExitErrorDiverged},
		{"no convergence", &newton.ConvergenceError{Iterations: 3}, apperrors.ExitErrorNoConverge},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if got := (CLIResultPresenter{}).HandleError(tt.err, time.Millisecond, &buf); got != tt.want {
				t.Errorf("HandleError() = %d, want %d", got, tt.want)
			}
			if buf.Len() == 0 {
				t.Error("expected a diagnostic")
			}
		})
	}
}
