package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/polynomial"
	"github.com/agbru/rootcalc/internal/progress"
)

// SolveResult encapsulates the outcome of a single method's solve.
// It serves as the shared domain type between orchestration and presentation layers.
type SolveResult struct {
	// Name is the registry key of the method used (e.g., "newton").
	Name string
	// Result holds the candidate sequence and final state. It is populated
	// even on error with whatever steps completed.
	Result newton.Result
	// Duration is the time taken to complete the solve.
	Duration time.Duration
	// Err contains any error that occurred during the solve.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Polynomial polynomial.Polynomial
	Tolerance  float64
	Verbose    bool
	Details    bool
}

// ProgressReporter defines the interface for displaying solve progress.
// Implementations handle the visual representation (spinners, tables) while
// the orchestration layer coordinates the solvers.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving iteration updates from solvers.
	//   - numSolvers: The number of concurrent solvers being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, numSolvers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, numSolvers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, numSolvers int, out io.Writer) {
	f(wg, progressChan, numSolvers, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting solve results.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []SolveResult, out io.Writer)

	// PresentResult displays the final result.
	PresentResult(result SolveResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler handles solve errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
