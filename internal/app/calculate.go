package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/rootcalc/internal/cli"
	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/logging"
	"github.com/agbru/rootcalc/internal/metrics"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/progress"
)

// runSolve orchestrates a one-shot solve from the command line.
func (a *Application) runSolve(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Method, a.Factory)
	a.warnIfOutsideRange()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{Tolerance: a.Config.Tolerance}
	}

	a.Logger.Debug("solve started",
		logging.String("polynomial", a.Config.Coefficients.String()),
		logging.Float64("x0", a.Config.InitialGuess),
		logging.Float64("tolerance", a.Config.Tolerance),
		logging.Int("methods", len(calculatorsToRun)))

	recorder := metrics.NewRecorder()
	results := orchestration.ExecuteSolves(ctx, calculatorsToRun, a.Config.ToNewtonProblem(), a.Config.ToNewtonOptions(),
		progressReporter, progressOut,
		orchestration.WithRecorder(recorder),
		orchestration.WithObservers(progress.NewLoggingObserver(a.Logger)))
	a.markTimeouts(results)

	for _, r := range results {
		if r.Err != nil {
			a.Logger.Debug("solve failed", logging.String("method", r.Name), logging.Err(r.Err))
			continue
		}
		a.Logger.Debug("solve finished",
			logging.String("method", r.Name),
			logging.String("state", r.Result.State.String()),
			logging.Int("iterations", r.Result.Steps()),
			logging.Float64("root", r.Result.Root))
	}

	exitCode := a.analyzeResultsWithOutput(results, out)
	a.writeMetrics(recorder)
	return exitCode
}

// markTimeouts replaces deadline errors with a TimeoutError carrying the
// configured --timeout, so the diagnostic names the limit.
func (a *Application) markTimeouts(results []orchestration.SolveResult) {
	for i := range results {
		var timeoutErr apperrors.TimeoutError
		if !errors.Is(results[i].Err, context.DeadlineExceeded) || errors.As(results[i].Err, &timeoutErr) {
			continue
		}
		results[i].Err = apperrors.CalculationError{
			Method: results[i].Name,
			Cause:  apperrors.TimeoutError{Operation: results[i].Name, Limit: a.Config.Timeout},
		}
	}
}

// warnIfOutsideRange logs a warning when x0 lies outside the configured
// search range. The solve still runs from x0.
func (a *Application) warnIfOutsideRange() {
	if !a.Config.HasRange() || a.Config.InRange(a.Config.InitialGuess) {
		return
	}
	a.Logger.Warn("initial guess lies outside the search range",
		logging.Float64("x0", a.Config.InitialGuess),
		logging.String("range", format.FormatRange(a.Config.LowerBound, a.Config.UpperBound)))
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.SolveResult, out io.Writer) int {
	outputCfg := cli.OutputConfig{
		OutputFile:   a.Config.OutputFile,
		Quiet:        a.Config.Quiet,
		Polynomial:   a.Config.Coefficients,
		InitialGuess: a.Config.InitialGuess,
		Tolerance:    a.Config.Tolerance,
	}
	presOpts := orchestration.PresentationOptions{
		Polynomial: a.Config.Coefficients,
		Tolerance:  a.Config.Tolerance,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}

	bestResult := findBestResult(results)

	// Handle quiet mode: only the root, unless the methods disagree.
	if outputCfg.Quiet && bestResult != nil {
		if err := orchestration.FindMismatch(results, a.Config.Tolerance); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorMismatch
		}
		if err := cli.DisplayResultWithConfig(out, *bestResult, presOpts, outputCfg); err != nil {
			a.Logger.Error("failed to save result", err, logging.String("path", outputCfg.OutputFile))
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	// A quiet run that found no root keeps stdout empty.
	analysisOut := out
	if outputCfg.Quiet {
		analysisOut = a.ErrWriter
	}
	presenter := cli.CLIResultPresenter{}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, analysisOut)

	// AnalyzeComparisonResults sorts successes first.
	if exitCode == apperrors.ExitSuccess && outputCfg.OutputFile != "" && len(results) > 0 {
		if err := cli.WriteResultToFile(results[0], outputCfg); err != nil {
			a.Logger.Error("failed to save result", err, logging.String("path", outputCfg.OutputFile))
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\nResult saved to: %s\n", outputCfg.OutputFile)
	}
	return exitCode
}

// findBestResult returns the fastest successful result, or nil.
func findBestResult(results []orchestration.SolveResult) *orchestration.SolveResult {
	var bestResult *orchestration.SolveResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

// writeMetrics exports the recorder when --metrics-out is set. A failed
// export is logged and does not change the exit code.
func (a *Application) writeMetrics(recorder *metrics.Recorder) {
	path := a.Config.MetricsOut
	if path == "" {
		return
	}
	if err := recorder.WriteTextfile(path); err != nil {
		a.Logger.Error("failed to write metrics", err, logging.String("path", path))
		return
	}
	a.Logger.Debug("metrics written", logging.String("path", path))
}
