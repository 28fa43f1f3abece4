package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/metrics"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/progress"
)

const (
	// ProgressBufferMultiplier defines the buffer size multiplier for the
	// progress channel. Solvers never block on progress except for their
	// final update, so a modest buffer per solver is enough.
	ProgressBufferMultiplier = 16

	// MismatchFactor scales the tolerance into the largest distance two
	// successful roots may have before they are reported as inconsistent.
	MismatchFactor = 10

	instrumentationName = "github.com/agbru/rootcalc/internal/orchestration"
)

// executeConfig holds the optional collaborators of ExecuteSolves.
type executeConfig struct {
	recorder       *metrics.Recorder
	tracerProvider trace.TracerProvider
	observers      []progress.Observer
}

// ExecuteOption configures ExecuteSolves.
type ExecuteOption func(*executeConfig)

// WithRecorder records every solve in r.
func WithRecorder(r *metrics.Recorder) ExecuteOption {
	return func(c *executeConfig) { c.recorder = r }
}

// WithTracerProvider emits spans through tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) ExecuteOption {
	return func(c *executeConfig) { c.tracerProvider = tp }
}

// WithObservers notifies obs of every update, alongside the progress
// channel. Calculators that cannot take extra observers only feed the
// channel.
func WithObservers(obs ...progress.Observer) ExecuteOption {
	return func(c *executeConfig) { c.observers = append(c.observers, obs...) }
}

// observableCalculator is implemented by calculators that notify a caller
// supplied progress.Subject, such as *newton.RootCalculator.
type observableCalculator interface {
	SolveWithObservers(ctx context.Context, subject *progress.Subject, index int, problem newton.Problem, opts newton.Options) (newton.Result, error)
}

// ExecuteSolves orchestrates the concurrent execution of one or more
// calculators on the same problem.
//
// Each calculator runs in its own errgroup goroutine and shares nothing with
// the others except the progress channel. Errors never cancel sibling
// solves: every calculator runs to its own conclusion and its error is
// stored in the result.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - calculators: The calculators to execute.
//   - problem: Coefficients and initial guess.
//   - solveOpts: Tolerance and iteration cap.
//   - reporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The writer passed to the progress reporter.
//   - opts: Optional metrics and tracing collaborators.
//
// Returns:
//   - []SolveResult: One result per calculator, in input order.
func ExecuteSolves(ctx context.Context, calculators []newton.Calculator, problem newton.Problem, solveOpts newton.Options, reporter ProgressReporter, out io.Writer, opts ...ExecuteOption) []SolveResult {
	cfg := executeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = otel.GetTracerProvider()
	}
	tracer := cfg.tracerProvider.Tracer(instrumentationName)

	ctx, span := tracer.Start(ctx, "orchestration.ExecuteSolves",
		trace.WithAttributes(
			attribute.Int("solvers", len(calculators)),
			attribute.Int("polynomial.degree", len(problem.Coefficients)-1),
			attribute.Float64("tolerance", solveOpts.Tolerance),
		),
	)
	defer span.End()

	results := make([]SolveResult, len(calculators))
	progressChan := make(chan progress.IterationUpdate, max(1, len(calculators))*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	var g errgroup.Group
	for i, calc := range calculators {
		i, calc := i, calc
		g.Go(func() error {
			results[i] = runOne(ctx, tracer, &cfg, calc, progressChan, i, problem, solveOpts)
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("solvers.failed", failed))
	if failed == len(results) && failed > 0 {
		span.SetStatus(codes.Error, "no solver succeeded")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return results
}

func runOne(ctx context.Context, tracer trace.Tracer, cfg *executeConfig, calc newton.Calculator, progressChan chan<- progress.IterationUpdate, index int, problem newton.Problem, opts newton.Options) SolveResult {
	ctx, span := tracer.Start(ctx, "newton.Solve",
		trace.WithAttributes(attribute.String("method", calc.Name())),
	)
	defer span.End()

	recorder := cfg.recorder
	if recorder != nil {
		recorder.SolveStarted()
	}
	start := time.Now()
	res, err := solveObserved(ctx, calc, cfg.observers, progressChan, index, problem, opts)
	elapsed := time.Since(start)

	state := stateLabel(res, err)
	if recorder != nil {
		recorder.ObserveSolve(calc.Name(), state, res.Steps(), elapsed)
	}

	span.SetAttributes(
		attribute.String("state", state),
		attribute.Int("iterations", res.Steps()),
		attribute.Float64("root", res.Root),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if err != nil {
		err = apperrors.CalculationError{Method: calc.Name(), Cause: err}
	}
	return SolveResult{Name: calc.Name(), Result: res, Duration: elapsed, Err: err}
}

func solveObserved(ctx context.Context, calc newton.Calculator, observers []progress.Observer, progressChan chan<- progress.IterationUpdate, index int, problem newton.Problem, opts newton.Options) (newton.Result, error) {
	oc, ok := calc.(observableCalculator)
	if len(observers) == 0 || !ok {
		return calc.Solve(ctx, progressChan, index, problem, opts)
	}
	subject := progress.NewSubject()
	if progressChan != nil {
		subject.Register(progress.NewChannelObserver(progressChan))
	}
	for _, o := range observers {
		subject.Register(o)
	}
	return oc.SolveWithObservers(ctx, subject, index, problem, opts)
}

// stateLabel names the outcome of a solve for metrics and traces.
func stateLabel(res newton.Result, err error) string {
	switch {
	case res.State.Terminal():
		return res.State.String()
	case apperrors.IsContextError(err):
		return "canceled"
	case err != nil:
		return "error"
	}
	return res.State.String()
}

// ErrMismatch reports successful solves whose roots disagree.
var ErrMismatch = errors.New("methods disagree on the root")

// FindMismatch returns ErrMismatch if any two successful results differ by
// more than MismatchFactor * tolerance.
func FindMismatch(results []SolveResult, tolerance float64) error {
	limit := MismatchFactor * tolerance
	var ref *SolveResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if ref == nil {
			ref = &results[i]
			continue
		}
		if d := math.Abs(results[i].Result.Root - ref.Result.Root); !(d <= limit) {
			return fmt.Errorf("%w: %s=%g, %s=%g (|Δ|=%g > %g)", ErrMismatch,
				ref.Name, ref.Result.Root, results[i].Name, results[i].Result.Root, d, limit)
		}
	}
	return nil
}

// AnalyzeComparisonResults processes the results from one or more methods
// and writes a summary report.
//
// It sorts successes first, then by duration, presents the comparison
// table, and determines the global outcome: failure when no method
// succeeded, mismatch when two successful roots are further apart than
// MismatchFactor * tolerance, success otherwise.
//
// Parameters:
//   - results: The solve results to analyze. Sorted in place.
//   - presOpts: Presentation options (polynomial, tolerance, verbosity).
//   - presenter: The result presenter for display formatting.
//   - errHandler: Maps the first error to an exit code when all failed.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []SolveResult, presOpts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *SolveResult
	var firstError error
	var firstErrorDuration time.Duration
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
				firstErrorDuration = results[i].Duration
			}
		} else if firstValid == nil {
			firstValid = &results[i]
		}
	}

	if len(results) > 1 {
		presenter.PresentComparisonTable(results, out)
	}

	if firstValid == nil {
		if len(results) > 1 {
			fmt.Fprintf(out, "\nGlobal Status: Failure. No method could find a root.\n")
		}
		if firstError == nil {
			return apperrors.ExitErrorGeneric
		}
		return errHandler.HandleError(firstError, firstErrorDuration, out)
	}

	if err := FindMismatch(results, presOpts.Tolerance); err != nil {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %v\n", err)
		return apperrors.ExitErrorMismatch
	}

	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All converged roots agree within %g.\n", MismatchFactor*presOpts.Tolerance)
	}
	presenter.PresentResult(*firstValid, presOpts, out)
	return apperrors.ExitSuccess
}
