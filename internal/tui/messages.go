package tui

import (
	"time"

	"github.com/agbru/rootcalc/internal/orchestration"
)

// IterationMsg carries one aggregated progress update from a solver.
type IterationMsg struct {
	orchestration.AggregatedProgress
	Generation uint64
}

// ProgressDoneMsg is sent once the progress channel of a run is closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries the per-method results of a comparison run.
type ComparisonResultsMsg struct {
	Results    []orchestration.SolveResult
	Generation uint64
}

// FinalResultMsg carries the result chosen for presentation.
type FinalResultMsg struct {
	Result     orchestration.SolveResult
	Options    orchestration.PresentationOptions
	Generation uint64
}

// ErrorMsg reports that no method produced a root.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// TickMsg drives the elapsed-time display.
type TickMsg time.Time

// SolveCompleteMsg is sent when a run finished and its exit code is known.
type SolveCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
