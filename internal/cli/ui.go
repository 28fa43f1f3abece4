//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/progress"
	"github.com/agbru/rootcalc/internal/ui"
)

const (
	// ProgressRefreshRate is the spinner frame interval and the maximum rate
	// at which the status line is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner whose suffix shows the latest iterate and a convergence bar.
type CLIProgressReporter struct {
	// Tolerance is the convergence target the bar measures against.
	Tolerance float64
}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, numSolvers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numSolvers, r.Tolerance, out)
}

// DisplayProgress renders a spinner for the running solves until
// progressChan is closed, then calls wg.Done.
//
// With a single solver the suffix shows the iteration number, the current
// candidate and the last change. With several solvers it shows how many
// have finished and the mean progress.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.IterationUpdate, numSolvers int, tolerance float64, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numSolvers, tolerance)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" Solving...")
	s.Start()
	defer func() {
		s.Stop()
		fmt.Fprintln(out)
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last orchestration.AggregatedProgress
	dirty := false
	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				if dirty {
					s.UpdateSuffix(progressSuffix(agg, last))
				}
				return
			}
			last = agg.Update(u)
			dirty = true
		case <-ticker.C:
			if dirty {
				s.UpdateSuffix(progressSuffix(agg, last))
				dirty = false
			}
		}
	}
}

// progressSuffix builds the spinner status line.
func progressSuffix(agg *orchestration.ProgressAggregator, ap orchestration.AggregatedProgress) string {
	bar := format.ProgressBar(ap.AverageProgress, ProgressBarWidth)
	if agg.IsMultiSolver() {
		return fmt.Sprintf(" %d/%d methods done %s%s%s %3.0f%%",
			ap.Finished, agg.NumSolvers(), ui.ColorGreen(), bar, ui.ColorReset(), ap.AverageProgress*100)
	}
	return fmt.Sprintf(" iter %s%d%s  x=%s  Δ=%s %s%s%s %3.0f%%",
		ui.ColorYellow(), ap.Iteration, ui.ColorReset(),
		format.FormatRoot(ap.X), format.FormatChange(ap.Change),
		ui.ColorGreen(), bar, ui.ColorReset(), ap.AverageProgress*100)
}
