package newton

import (
	"context"
	"fmt"
	"math"

	"github.com/agbru/rootcalc/internal/polynomial"
)

// DefaultTolerance is the convergence threshold used when none is given.
const DefaultTolerance = 1e-4

// Options configures a solve.
type Options struct {
	// Tolerance is the largest absolute change between successive iterates
	// that counts as converged. Must be positive.
	Tolerance float64
	// MaxIterations caps the number of steps. Zero or negative means no cap.
	MaxIterations int
	// Method computes the next candidate. Nil selects Direct.
	Method Method
}

// Iterate records one completed step.
type Iterate struct {
	// Index is the 1-based step number.
	Index int
	// From is the point the step started at.
	From float64
	// X is the candidate produced by the step.
	X float64
	// Value is f(From).
	Value float64
	// Slope is f'(From).
	Slope float64
	// Change is |X - From|.
	Change float64
}

// Result is the outcome of a Run.
type Result struct {
	// Root is the last candidate produced, or the initial guess if no step
	// completed.
	Root float64
	// Iterations holds every completed step in order.
	Iterations []Iterate
	// State is the driver state when Run returned.
	State State
}

// Candidates returns the sequence of candidate roots, one per step.
func (r Result) Candidates() []float64 {
	out := make([]float64, len(r.Iterations))
	for i, it := range r.Iterations {
		out[i] = it.X
	}
	return out
}

// Steps returns the number of completed steps.
func (r Result) Steps() int { return len(r.Iterations) }

// LastChange returns the change of the final step, or +Inf if none ran.
func (r Result) LastChange() float64 {
	if len(r.Iterations) == 0 {
		return math.Inf(1)
	}
	return r.Iterations[len(r.Iterations)-1].Change
}

// Driver holds the iteration state for one polynomial and one starting
// point. It is not safe for concurrent use.
type Driver struct {
	poly   polynomial.Polynomial
	deriv  polynomial.Polynomial
	method Method
	opts   Options

	x         float64
	change    float64
	iteration int
	state     State
	err       error
	history   []Iterate
}

// NewDriver copies coeffs, builds the derivative and positions the driver at
// x0.
//
// Returns an error wrapping apperrors.ErrPrecondition when the polynomial has
// fewer than two coefficients or the tolerance is not positive.
func NewDriver(coeffs []float64, x0 float64, opts Options) (*Driver, error) {
	if !(opts.Tolerance > 0) || math.IsInf(opts.Tolerance, 0) {
		return nil, fmt.Errorf("tolerance %g: %w", opts.Tolerance, ErrInvalidTolerance)
	}
	poly := polynomial.New(coeffs...)
	deriv, err := poly.Derivative()
	if err != nil {
		return nil, err
	}
	method := opts.Method
	if method == nil {
		method = Direct{}
	}
	return &Driver{
		poly:   poly,
		deriv:  deriv,
		method: method,
		opts:   opts,
		x:      x0,
		change: math.Inf(1),
		state:  Initialized,
	}, nil
}

// X returns the current iterate.
func (d *Driver) X() float64 { return d.x }

// State returns the current state.
func (d *Driver) State() State { return d.state }

// Iteration returns the number of completed steps.
func (d *Driver) Iteration() int { return d.iteration }

// Change returns the last absolute change, +Inf before the first step.
func (d *Driver) Change() float64 { return d.change }

// Err returns the error that moved the driver into Diverged or Exhausted.
func (d *Driver) Err() error { return d.err }

// Polynomial returns the polynomial being solved.
func (d *Driver) Polynomial() polynomial.Polynomial { return d.poly }

// Derivative returns the derivative owned by the driver.
func (d *Driver) Derivative() polynomial.Polynomial { return d.deriv }

// Step performs one Newton-Raphson update from the current iterate.
//
// On a zero slope the driver moves to Diverged and returns a
// *ZeroDerivativeError without changing x. When the change is within
// tolerance the driver moves to Converged. When the iteration cap is reached
// first, the step is still recorded, the driver moves to Exhausted and a
// *ConvergenceError is returned.
func (d *Driver) Step() (Iterate, error) {
	if d.state.Terminal() {
		return Iterate{}, fmt.Errorf("%w (state %s)", ErrFinished, d.state)
	}
	d.state = Iterating

	index := d.iteration + 1
	y := d.poly.Evaluate(d.x)
	slope := d.deriv.Evaluate(d.x)
	if slope == 0 {
		d.state = Diverged
		d.err = &ZeroDerivativeError{Iteration: index, X: d.x}
		return Iterate{}, d.err
	}

	candidate := d.method.Next(d.x, y, slope)
	it := Iterate{
		Index:  index,
		From:   d.x,
		X:      candidate,
		Value:  y,
		Slope:  slope,
		Change: math.Abs(candidate - d.x),
	}
	d.x = candidate
	d.change = it.Change
	d.iteration = index
	d.history = append(d.history, it)

	switch {
	case it.Change <= d.opts.Tolerance:
		d.state = Converged
	case d.opts.MaxIterations > 0 && index >= d.opts.MaxIterations:
		d.state = Exhausted
		d.err = &ConvergenceError{
			Iterations: index,
			X:          d.x,
			Change:     it.Change,
			Tolerance:  d.opts.Tolerance,
		}
		return it, d.err
	}
	return it, nil
}

// Run steps until the driver reaches a terminal state. onIterate, if not
// nil, is called after every completed step. The context is checked before
// each step; on cancellation Run returns the context error and the partial
// result.
func (d *Driver) Run(ctx context.Context, onIterate func(Iterate)) (Result, error) {
	for !d.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return d.result(), err
		}
		it, err := d.Step()
		if onIterate != nil && it.Index > 0 {
			onIterate(it)
		}
		if err != nil {
			return d.result(), err
		}
	}
	return d.result(), d.err
}

func (d *Driver) result() Result {
	return Result{
		Root:       d.x,
		Iterations: append([]Iterate(nil), d.history...),
		State:      d.state,
	}
}

// Solve runs a fresh Driver from x0 to completion.
func Solve(ctx context.Context, coeffs []float64, x0 float64, opts Options) (Result, error) {
	d, err := NewDriver(coeffs, x0, opts)
	if err != nil {
		return Result{Root: x0, State: Initialized}, err
	}
	return d.Run(ctx, nil)
}
