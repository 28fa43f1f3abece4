package newton

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/rootcalc/internal/progress"
)

// Method computes the next candidate from the current iterate x, the
// function value y = f(x) and the slope f'(x). slope is never zero.
type Method interface {
	Name() string
	Next(x, y, slope float64) float64
}

// Direct is the textbook update x - f(x)/f'(x).
type Direct struct{}

// Name implements Method.
func (Direct) Name() string { return "newton" }

// Next implements Method.
func (Direct) Next(x, y, slope float64) float64 { return x - y/slope }

// Tangent builds the tangent line y = slope*x + b through (x, f(x)) and
// returns its x-intercept -b/slope. Algebraically equal to Direct; the
// rounding differs, which makes it a useful cross-check.
type Tangent struct{}

// Name implements Method.
func (Tangent) Name() string { return "tangent" }

// Next implements Method.
func (Tangent) Next(x, y, slope float64) float64 {
	intercept := y - slope*x
	return -intercept / slope
}

// Problem is the input of a solve.
type Problem struct {
	Coefficients []float64
	InitialGuess float64
}

// Calculator runs a solve with a fixed update method and reports
// per-iteration progress.
type Calculator interface {
	// Name returns the registry key of the method.
	Name() string
	// Description returns a human readable label.
	Description() string
	// Solve runs to completion. Updates, if progressChan is not nil, carry
	// index as their SolverIndex; a final update with Done set is always
	// sent.
	Solve(ctx context.Context, progressChan chan<- progress.IterationUpdate, index int, problem Problem, opts Options) (Result, error)
}

// RootCalculator adapts a Method to the Calculator interface.
type RootCalculator struct {
	method      Method
	description string
}

// NewCalculator wraps method. It panics if method is nil.
func NewCalculator(method Method, description string) *RootCalculator {
	if method == nil {
		panic("newton: nil method")
	}
	if description == "" {
		description = method.Name()
	}
	return &RootCalculator{method: method, description: description}
}

// Name implements Calculator.
func (c *RootCalculator) Name() string { return c.method.Name() }

// Description implements Calculator.
func (c *RootCalculator) Description() string { return c.description }

// Solve implements Calculator.
func (c *RootCalculator) Solve(ctx context.Context, progressChan chan<- progress.IterationUpdate, index int, problem Problem, opts Options) (Result, error) {
	subject := progress.NewSubject()
	if progressChan != nil {
		subject.Register(progress.NewChannelObserver(progressChan))
	}
	return c.SolveWithObservers(ctx, subject, index, problem, opts)
}

// SolveWithObservers runs the solve, notifying every observer registered on
// subject at the time of the call.
func (c *RootCalculator) SolveWithObservers(ctx context.Context, subject *progress.Subject, index int, problem Problem, opts Options) (Result, error) {
	if subject == nil {
		subject = progress.NewSubject()
	}
	notify := subject.Freeze(index)
	opts.Method = c.method

	d, err := NewDriver(problem.Coefficients, problem.InitialGuess, opts)
	if err != nil {
		notify(progress.IterationUpdate{X: problem.InitialGuess, Done: true})
		return Result{Root: problem.InitialGuess}, err
	}

	res, err := d.Run(ctx, func(it Iterate) {
		notify(progress.IterationUpdate{Iteration: it.Index, X: it.X, Change: it.Change})
	})
	notify(progress.IterationUpdate{
		Iteration: d.Iteration(),
		X:         d.X(),
		Change:    d.Change(),
		Done:      true,
	})
	return res, err
}

// ErrUnknownMethod is returned by a factory lookup for an unregistered name.
var ErrUnknownMethod = errors.New("unknown method")

// CalculatorFactory looks up calculators by name.
type CalculatorFactory interface {
	List() []string
	Get(name string) (Calculator, error)
}

// DefaultFactory is a concurrency-safe CalculatorFactory.
type DefaultFactory struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// NewDefaultFactory returns a factory with every built-in method registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{calculators: make(map[string]Calculator)}
	f.mustRegister(NewCalculator(Direct{}, "Newton-Raphson (x - f/f')"))
	f.mustRegister(NewCalculator(Tangent{}, "Tangent intercept (-b/m)"))
	return f
}

func (f *DefaultFactory) mustRegister(c Calculator) {
	if err := f.Register(c); err != nil {
		panic(err)
	}
}

// Register adds c under c.Name(). Registering a name twice is an error.
func (f *DefaultFactory) Register(c Calculator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.calculators[c.Name()]; exists {
		return fmt.Errorf("method %q already registered", c.Name())
	}
	f.calculators[c.Name()] = c
	return nil
}

// List returns the registered names, sorted.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the calculator registered under name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.calculators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return c, nil
}

// MustGet is like Get but panics on an unknown name.
func (f *DefaultFactory) MustGet(name string) Calculator {
	c, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return c
}
