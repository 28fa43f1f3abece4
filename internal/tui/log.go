package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/rootcalc/internal/config"
	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
)

// maxLogLines bounds the iteration log; older lines are dropped.
const maxLogLines = 500

// LogModel is the scrolling event log on the left of the dashboard.
type LogModel struct {
	methods []string
	lines   []string
	start   time.Time
	vp      viewport.Model
	follow  bool
}

// NewLogModel creates a log for the given method names, indexed like the
// solver indexes of the run.
func NewLogModel(methods []string) LogModel {
	return LogModel{
		methods: methods,
		start:   time.Now(),
		vp:      viewport.New(0, 0),
		follow:  true,
	}
}

// SetSize updates the panel dimensions, borders included.
func (l *LogModel) SetSize(w, h int) {
	l.vp.Width = max(0, w-2)
	l.vp.Height = max(0, h-3)
	l.refresh()
}

// Reset clears the log and restarts its clock.
func (l *LogModel) Reset() {
	l.lines = nil
	l.start = time.Now()
	l.follow = true
	l.refresh()
}

// Update forwards scroll keys to the viewport. Scrolling up stops the log
// from following new lines until the bottom is reached again.
func (l *LogModel) Update(msg tea.Msg) {
	l.vp, _ = l.vp.Update(msg)
	l.follow = l.vp.AtBottom()
}

func (l *LogModel) add(line string) {
	stamp := dimStyle.Render(fmt.Sprintf("[%7s]", format.FormatExecutionDuration(time.Since(l.start))))
	l.lines = append(l.lines, stamp+" "+line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
	l.refresh()
}

func (l *LogModel) refresh() {
	l.vp.SetContent(strings.Join(l.lines, "\n"))
	if l.follow {
		l.vp.GotoBottom()
	}
}

func (l *LogModel) methodName(index int) string {
	if index >= 0 && index < len(l.methods) {
		return l.methods[index]
	}
	return fmt.Sprintf("#%d", index)
}

// AddExecutionConfig logs the problem being solved.
func (l *LogModel) AddExecutionConfig(cfg config.AppConfig) {
	l.add(fmt.Sprintf("solving %s from x0=%g", logValueStyle.Render(cfg.Coefficients.String()), cfg.InitialGuess))
	maxIter := "unbounded"
	if cfg.MaxIterations > 0 {
		maxIter = fmt.Sprintf("%d", cfg.MaxIterations)
	}
	l.add(fmt.Sprintf("tol=%g max-iter=%s methods=%s", cfg.Tolerance, maxIter, strings.Join(l.methods, ",")))
	if cfg.HasRange() {
		l.add("range " + format.FormatRange(cfg.LowerBound, cfg.UpperBound))
	}
}

// AddIteration logs one iterate. Final updates are not logged; the result
// messages describe the outcome.
func (l *LogModel) AddIteration(msg IterationMsg) {
	if msg.Done || msg.Iteration == 0 {
		return
	}
	l.add(fmt.Sprintf("%s #%-3d x=%s Δ=%s",
		logMethodStyle.Render(fmt.Sprintf("%-8s", l.methodName(msg.SolverIndex))),
		msg.Iteration,
		logValueStyle.Render(format.FormatRoot(msg.X)),
		format.FormatChange(msg.Change)))
}

// AddResults logs one line per method of a comparison.
func (l *LogModel) AddResults(results []orchestration.SolveResult) {
	for _, r := range results {
		name := logMethodStyle.Render(fmt.Sprintf("%-8s", r.Name))
		if r.Err != nil {
			l.add(fmt.Sprintf("%s %s", name, logErrorStyle.Render(r.Err.Error())))
			continue
		}
		l.add(fmt.Sprintf("%s %s root=%s in %d steps (%s)", name,
			logSuccessStyle.Render(r.Result.State.String()),
			format.FormatRoot(r.Result.Root), r.Result.Steps(), format.FormatExecutionDuration(r.Duration)))
	}
}

// AddFinalResult logs the presented root and its convergence statistics.
func (l *LogModel) AddFinalResult(msg FinalResultMsg) {
	res := msg.Result.Result
	l.add(logSuccessStyle.Render(fmt.Sprintf("root = %s (%s, %d steps)",
		format.FormatRoot(res.Root), msg.Result.Name, res.Steps())))
	if len(msg.Options.Polynomial) == 0 {
		return
	}
	a := newton.Analyze(msg.Options.Polynomial, res)
	line := fmt.Sprintf("|f(root)|=%.3e", a.Residual)
	if a.Order > 0 {
		line += fmt.Sprintf(" order≈%.2f", a.Order)
	}
	l.add(line)
}

// AddError logs a failed run.
func (l *LogModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render(fmt.Sprintf("failed after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// AddNotice logs a warning line.
func (l *LogModel) AddNotice(text string) {
	l.add(logWarningStyle.Render(text))
}

// Lines returns the number of log lines held.
func (l LogModel) Lines() int { return len(l.lines) }

// View renders the panel.
func (l LogModel) View() string {
	title := panelTitleStyle.Render("Iterations")
	return panelStyle.Width(l.vp.Width).Render(title + "\n" + l.vp.View())
}
