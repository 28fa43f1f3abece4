package orchestration

import (
	"math"

	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/progress"
)

// ProgressAggregator tracks iteration updates from several solvers and
// turns them into a convergence progress estimate. Both CLI and TUI use it
// so that the aggregation logic lives in one place.
type ProgressAggregator struct {
	tolerance float64
	solvers   []solverProgress
}

type solverProgress struct {
	first     float64
	change    float64
	x         float64
	iteration int
	done      bool
}

// NewProgressAggregator creates an aggregator for numSolvers solvers that
// converge toward tolerance. Returns nil if numSolvers <= 0.
func NewProgressAggregator(numSolvers int, tolerance float64) *ProgressAggregator {
	if numSolvers <= 0 {
		return nil
	}
	solvers := make([]solverProgress, numSolvers)
	for i := range solvers {
		solvers[i] = solverProgress{first: math.Inf(1), change: math.Inf(1)}
	}
	return &ProgressAggregator{tolerance: tolerance, solvers: solvers}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	SolverIndex int
	Iteration   int
	X           float64
	Change      float64
	Done        bool
	// SolverProgress is the updated solver's progress in [0, 1].
	SolverProgress float64
	// AverageProgress is the mean progress across all solvers.
	AverageProgress float64
	// Finished counts solvers that sent their final update.
	Finished int
}

// Update processes a single update and returns the aggregated view.
// Updates for unknown solver indexes only refresh the averages.
func (a *ProgressAggregator) Update(u progress.IterationUpdate) AggregatedProgress {
	ap := AggregatedProgress{
		SolverIndex: u.SolverIndex,
		Iteration:   u.Iteration,
		X:           u.X,
		Change:      u.Change,
		Done:        u.Done,
	}
	if u.SolverIndex >= 0 && u.SolverIndex < len(a.solvers) {
		s := &a.solvers[u.SolverIndex]
		if u.Iteration > 0 {
			if u.Iteration == 1 || math.IsInf(s.first, 1) {
				s.first = u.Change
			}
			s.change = u.Change
			s.x = u.X
			s.iteration = u.Iteration
		}
		s.done = s.done || u.Done
		ap.SolverProgress = a.solverProgress(*s)
	}
	ap.AverageProgress = a.CalculateAverage()
	ap.Finished = a.Finished()
	return ap
}

func (a *ProgressAggregator) solverProgress(s solverProgress) float64 {
	if s.done {
		return 1
	}
	return format.ConvergenceProgress(s.first, s.change, a.tolerance)
}

// CalculateAverage returns the current mean progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	var sum float64
	for _, s := range a.solvers {
		sum += a.solverProgress(s)
	}
	return sum / float64(len(a.solvers))
}

// Finished returns the number of solvers that sent a Done update.
func (a *ProgressAggregator) Finished() int {
	n := 0
	for _, s := range a.solvers {
		if s.done {
			n++
		}
	}
	return n
}

// NumSolvers returns the number of solvers being tracked.
func (a *ProgressAggregator) NumSolvers() int {
	return len(a.solvers)
}

// IsMultiSolver returns true if tracking more than one solver.
func (a *ProgressAggregator) IsMultiSolver() bool {
	return len(a.solvers) > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan progress.IterationUpdate) {
	for range progressChan {
	}
}
