package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/polynomial"
	"github.com/agbru/rootcalc/internal/ui"
)

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentComparisonTable displays one row per method with its duration,
// step count, root and status. Padding is computed by hand because the
// cells carry ANSI sequences.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.SolveResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	type row struct {
		name, duration, steps, root, status string
	}
	rows := make([]row, len(results))
	widths := [4]int{len("Method"), len("Duration"), len("Steps"), len("Root")}
	for i, res := range results {
		r := row{
			name:     res.Name,
			duration: durationLabel(res.Duration),
			steps:    fmt.Sprintf("%d", res.Result.Steps()),
			root:     format.FormatRoot(res.Result.Root),
		}
		if res.Err != nil {
			r.status = fmt.Sprintf("%s❌ %s (%v)%s", ui.ColorRed(), res.Result.State, res.Err, ui.ColorReset())
		} else {
			r.status = fmt.Sprintf("%s✅ %s%s", ui.ColorGreen(), res.Result.State, ui.ColorReset())
		}
		for j, cell := range []string{r.name, r.duration, r.steps, r.root} {
			widths[j] = max(widths[j], len([]rune(cell)))
		}
		rows[i] = r
	}

	header := []string{"Method", "Duration", "Steps", "Root"}
	for j, h := range header {
		fmt.Fprintf(out, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[j]-len(h)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", ui.ColorUnderline(), ui.ColorReset())

	for _, r := range rows {
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), r.name, ui.ColorReset(), padRight("", widths[0]-len([]rune(r.name))),
			ui.ColorYellow(), r.duration, ui.ColorReset(), padRight("", widths[1]-len([]rune(r.duration))),
			r.steps, padRight("", widths[2]-len(r.steps)),
			ui.ColorMagenta(), r.root, ui.ColorReset(), padRight("", widths[3]-len(r.root)),
			r.status)
	}
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

func durationLabel(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// PresentResult displays the final result.
func (CLIResultPresenter) PresentResult(result orchestration.SolveResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// HandleError prints a diagnostic for err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayResult writes the root found by a successful solve. With
// opts.Verbose every candidate is listed; with opts.Details the
// convergence statistics are appended.
func DisplayResult(result orchestration.SolveResult, opts orchestration.PresentationOptions, out io.Writer) {
	res := result.Result
	fmt.Fprintf(out, "\n%s--- Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Method:      %s%s%s\n", ui.ColorBlue(), result.Name, ui.ColorReset())
	fmt.Fprintf(out, "Status:      %s%s%s\n", stateColor(res.State), res.State, ui.ColorReset())
	fmt.Fprintf(out, "Iterations:  %s%d%s\n", ui.ColorCyan(), res.Steps(), ui.ColorReset())
	fmt.Fprintf(out, "Time:        %s%s%s\n", ui.ColorYellow(), durationLabel(result.Duration), ui.ColorReset())
	fmt.Fprintf(out, "Last change: %s%s%s\n", ui.ColorCyan(), format.FormatChange(res.LastChange()), ui.ColorReset())
	if len(opts.Polynomial) > 0 {
		fmt.Fprintf(out, "f(root):     %s%g%s\n", ui.ColorCyan(), opts.Polynomial.Evaluate(res.Root), ui.ColorReset())
	}
	fmt.Fprintf(out, "Root:        %s%s%s\n", ui.ColorGreen(), format.FormatRoot(res.Root), ui.ColorReset())

	if opts.Verbose {
		DisplayCandidates(res, out)
	}
	if opts.Details && len(opts.Polynomial) > 0 {
		DisplayAnalysis(opts.Polynomial, res, out)
	}
}

// DisplayCandidates lists every step of res.
func DisplayCandidates(res newton.Result, out io.Writer) {
	fmt.Fprintf(out, "\n%sCandidates:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  %4s  %-22s %-22s %s\n", "#", "x", "f(x_prev)", "|Δx|")
	for _, it := range res.Iterations {
		fmt.Fprintf(out, "  %4d  %-22s %-22s %s\n",
			it.Index, format.FormatRoot(it.X), fmt.Sprintf("%.6g", it.Value), format.FormatChange(it.Change))
	}
}

// DisplayAnalysis prints the convergence statistics of res.
func DisplayAnalysis(p polynomial.Polynomial, res newton.Result, out io.Writer) {
	a := newton.Analyze(p, res)
	fmt.Fprintf(out, "\n%sConvergence analysis:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Residual |f(root)|: %s%.3e%s\n", ui.ColorCyan(), a.Residual, ui.ColorReset())
	if a.Steps > 0 {
		fmt.Fprintf(out, "  Mean step:          %s%.3e%s\n", ui.ColorCyan(), a.MeanChange, ui.ColorReset())
		fmt.Fprintf(out, "  Median step:        %s%.3e%s\n", ui.ColorCyan(), a.MedianChange, ui.ColorReset())
	}
	if a.Order > 0 {
		fmt.Fprintf(out, "  Estimated order:    %s%.2f%s\n", ui.ColorCyan(), a.Order, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "  Estimated order:    n/a (too few steps)\n")
	}
}

func stateColor(s newton.State) string {
	switch s {
	case newton.Converged:
		return ui.ColorGreen()
	case newton.Exhausted:
		return ui.ColorYellow()
	case newton.Diverged:
		return ui.ColorRed()
	}
	return ui.ColorCyan()
}
