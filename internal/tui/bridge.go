package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// bubbletea copies the model on every Update, so the bridge goroutines
// need a pointer that survives the copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// iteration updates into IterationMsg values.
type TUIProgressReporter struct {
	ref        *programRef
	tolerance  float64
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress implements orchestration.ProgressReporter.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, numSolvers int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numSolvers, t.tolerance)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		t.ref.Send(IterationMsg{AggregatedProgress: agg.Update(update), Generation: t.generation})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler by sending messages instead of writing text.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.SolveResult, _ io.Writer) {
	cp := make([]orchestration.SolveResult, len(results))
	copy(cp, results)
	t.ref.Send(ComparisonResultsMsg{Results: cp, Generation: t.generation})
}

// PresentResult implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) PresentResult(result orchestration.SolveResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Result: result, Options: opts, Generation: t.generation})
}

// HandleError implements orchestration.ErrorHandler.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: t.generation})
	return apperrors.ExitCodeFor(err)
}
