package newton

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	apperrors "github.com/agbru/rootcalc/internal/errors"
)

var quadratic = []float64{1, 0, -4} // x^2 - 4

func TestSolveReferenceSequence(t *testing.T) {
	t.Parallel()
	res, err := Solve(context.Background(), quadratic, 3, Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	want := []float64{2.1666666666666665, 2.0064102564102564, 2.0000102400262145, 2.000000000026214}
	if diff := cmp.Diff(want, res.Candidates(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
	if res.State != Converged {
		t.Errorf("state = %s, want converged", res.State)
	}
	if res.Steps() != 4 {
		t.Errorf("steps = %d, want 4", res.Steps())
	}
	if math.Abs(res.Root-2) > 1e-4 {
		t.Errorf("root = %v, want within 1e-4 of 2", res.Root)
	}
	if res.LastChange() > 1e-4 {
		t.Errorf("last change %v exceeds tolerance", res.LastChange())
	}
}

func TestRerunFromConvergedRootStaysWithinTolerance(t *testing.T) {
	t.Parallel()
	const tol = 1e-4
	res, err := Solve(context.Background(), quadratic, 3, Options{Tolerance: tol})
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDriver(quadratic, res.Root, Options{Tolerance: tol})
	if err != nil {
		t.Fatal(err)
	}
	it, err := d.Step()
	if err != nil {
		t.Fatalf("Step from root: %v", err)
	}
	if it.Change > tol {
		t.Errorf("step from converged root moved by %v, want <= %v", it.Change, tol)
	}
	if d.State() != Converged {
		t.Errorf("state = %s, want converged", d.State())
	}
}

func TestZeroDerivativeDiverges(t *testing.T) {
	t.Parallel()
	d, err := NewDriver([]float64{1, 0, 1}, 0, Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.Step()
	var zde *ZeroDerivativeError
	if !errors.As(err, &zde) {
		t.Fatalf("Step error = %v, want *ZeroDerivativeError", err)
	}
	if zde.Iteration != 1 || zde.X != 0 {
		t.Errorf("ZeroDerivativeError = %+v, want iteration 1 at x=0", zde)
	}
	if !errors.Is(err, apperrors.ErrArithmetic) {
		t.Error("zero derivative should wrap apperrors.ErrArithmetic")
	}
	if d.State() != Diverged {
		t.Errorf("state = %s, want diverged", d.State())
	}
	if d.X() != 0 {
		t.Errorf("x moved to %v on a failed step", d.X())
	}
	if _, err := d.Step(); !errors.Is(err, ErrFinished) {
		t.Errorf("Step after divergence = %v, want ErrFinished", err)
	}
}

func TestSolveDivergedResult(t *testing.T) {
	t.Parallel()
	res, err := Solve(context.Background(), []float64{1, 0, 1}, 0, Options{Tolerance: 1e-4})
	if !errors.Is(err, apperrors.ErrArithmetic) {
		t.Fatalf("err = %v, want ErrArithmetic", err)
	}
	if res.State != Diverged || res.Steps() != 0 {
		t.Errorf("result = %+v, want diverged with no steps", res)
	}
}

func TestIterationCapExhausts(t *testing.T) {
	t.Parallel()
	// x^2 + 1 has no real root and every step moves by at least 1.
	res, err := Solve(context.Background(), []float64{1, 0, 1}, 0.5, Options{Tolerance: 1e-4, MaxIterations: 10})
	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConvergenceError", err)
	}
	if !errors.Is(err, apperrors.ErrNoConvergence) {
		t.Error("cap error should wrap apperrors.ErrNoConvergence")
	}
	if ce.Iterations != 10 || ce.Tolerance != 1e-4 {
		t.Errorf("ConvergenceError = %+v", ce)
	}
	if res.State != Exhausted || res.Steps() != 10 {
		t.Errorf("state=%s steps=%d, want exhausted after 10", res.State, res.Steps())
	}
	if res.Root != ce.X {
		t.Errorf("root %v != error x %v", res.Root, ce.X)
	}
}

func TestConvergenceOnLastAllowedStepWins(t *testing.T) {
	t.Parallel()
	res, err := Solve(context.Background(), quadratic, 3, Options{Tolerance: 1e-4, MaxIterations: 4})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if res.State != Converged {
		t.Errorf("state = %s, want converged", res.State)
	}
}

func TestLinearConvergesInTwoSteps(t *testing.T) {
	t.Parallel()
	res, err := Solve(context.Background(), []float64{2, -4}, 100, Options{Tolerance: 1e-9})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps() != 2 || res.Root != 2 {
		t.Errorf("got root %v in %d steps, want 2 in 2", res.Root, res.Steps())
	}
}

func TestDoWhileTakesAtLeastOneStep(t *testing.T) {
	t.Parallel()
	// Starting exactly on the root still performs one step.
	res, err := Solve(context.Background(), quadratic, 2, Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps() != 1 || res.Root != 2 {
		t.Errorf("got root %v in %d steps, want 2 in 1", res.Root, res.Steps())
	}
}

func TestNewDriverPreconditions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		coeffs []float64
		tol    float64
	}{
		{"empty", nil, 1e-4},
		{"constant", []float64{3}, 1e-4},
		{"zero tolerance", quadratic, 0},
		{"negative tolerance", quadratic, -1},
		{"NaN tolerance", quadratic, math.NaN()},
		{"infinite tolerance", quadratic, math.Inf(1)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewDriver(tt.coeffs, 1, Options{Tolerance: tt.tol})
			if !errors.Is(err, apperrors.ErrPrecondition) {
				t.Errorf("NewDriver error = %v, want ErrPrecondition", err)
			}
		})
	}
}

func TestDriverCopiesCoefficients(t *testing.T) {
	t.Parallel()
	coeffs := []float64{1, 0, -4}
	d, err := NewDriver(coeffs, 3, Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	coeffs[2] = -9
	if got := d.Polynomial().Evaluate(2); got != 0 {
		t.Errorf("driver polynomial changed with caller slice: p(2) = %v", got)
	}
	if len(d.Derivative()) != len(d.Polynomial())-1 {
		t.Errorf("derivative length %d, want %d", len(d.Derivative()), len(d.Polynomial())-1)
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Solve(ctx, quadratic, 3, Options{Tolerance: 1e-4})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Steps() != 0 || res.State != Initialized {
		t.Errorf("result = %+v, want no steps", res)
	}
}

func TestRunStopsBetweenIterations(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d, err := NewDriver([]float64{1, 0, 1}, 0.5, Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	var seen []int
	res, err := d.Run(ctx, func(it Iterate) {
		seen = append(seen, it.Index)
		if it.Index == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Steps() != 3 || res.State != Iterating {
		t.Errorf("steps=%d state=%s, want 3 iterating", res.Steps(), res.State)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, seen); diff != "" {
		t.Errorf("callback indices (-want +got):\n%s", diff)
	}
}

func TestRunReportsEveryIterate(t *testing.T) {
	t.Parallel()
	d, err := NewDriver(quadratic, 3, Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	var got []Iterate
	res, err := d.Run(context.Background(), func(it Iterate) { got = append(got, it) })
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(res.Iterations, got); diff != "" {
		t.Errorf("callback iterates differ from result (-result +callback):\n%s", diff)
	}
	first := got[0]
	if first.From != 3 || first.Value != 5 || first.Slope != 6 {
		t.Errorf("first iterate = %+v, want from 3, f=5, f'=6", first)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()
	tests := map[State]string{
		Initialized: "initialized",
		Iterating:   "iterating",
		Converged:   "converged",
		Diverged:    "diverged",
		Exhausted:   "exhausted",
		State(42):   "unknown",
		State(-1):   "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
	if Iterating.Terminal() || Initialized.Terminal() {
		t.Error("non-terminal state reported terminal")
	}
}
