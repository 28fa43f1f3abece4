package tui

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rootcalc/internal/config"
	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 6
	LogPanelWidthPercent  = 55
	SolverRowsPerMethod   = 2
	tickInterval          = 500 * time.Millisecond
	solversPanelChromeRow = 3
)

// ExecutionState holds the fields of the current run.
type ExecutionState struct {
	ctx         context.Context
	cancel      context.CancelFunc
	calculators []newton.Calculator
	generation  uint64
	done        bool
	exitCode    int
}

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width  int
	height int
	rows   int // solver rows
}

func (l LayoutManager) bodyHeight() int {
	return max(minBodyHeight, l.height-headerHeight-footerHeight)
}

func (l LayoutManager) logWidth() int {
	return l.width * LogPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.logWidth()
}

func (l LayoutManager) solversHeight() int {
	return min(l.bodyHeight()/2, l.rows*SolverRowsPerMethod+solversPanelChromeRow)
}

func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.solversHeight()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	log     LogModel
	solvers SolversModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	opts      []orchestration.ExecuteOption
	ref       *programRef
	paused    bool
}

// NewModel creates the dashboard for a run of calculators on cfg.
func NewModel(parentCtx context.Context, calculators []newton.Calculator, cfg config.AppConfig, version string, opts ...orchestration.ExecuteOption) Model {
	names := make([]string, len(calculators))
	for i, c := range calculators {
		names[i] = c.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)

	log := NewLogModel(names)
	log.AddExecutionConfig(cfg)
	keymap := DefaultKeyMap()

	return Model{
		header:  NewHeaderModel(version, cfg.Coefficients),
		log:     log,
		solvers: NewSolversModel(names),
		chart:   NewChartModel(),
		footer:  NewFooterModel(keymap),
		keymap:  keymap,
		ExecutionState: ExecutionState{
			ctx:         ctx,
			cancel:      cancel,
			calculators: calculators,
			exitCode:    apperrors.ExitSuccess,
		},
		LayoutManager: LayoutManager{rows: len(calculators)},
		parentCtx:     parentCtx,
		config:        cfg,
		opts:          opts,
		ref:           &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startSolveCmd(m.ref, m.ctx, m.calculators, m.config, m.generation, m.opts),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages. Messages tagged with an older
// generation belong to a run that was restarted and are ignored.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case IterationMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.solvers.UpdateIteration(msg)
		if !m.paused {
			m.log.AddIteration(msg)
			m.chart.AddIteration(msg.AggregatedProgress)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.solvers.ApplyResults(msg.Results)
		m.log.AddResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.solvers.ApplyResults([]orchestration.SolveResult{msg.Result})
		m.log.AddFinalResult(msg)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.log.AddError(msg)
		m.footer.SetError(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case SolveCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		if msg.ExitCode == apperrors.ExitErrorMismatch {
			m.log.AddNotice("methods disagree on the root")
			m.footer.SetError(true)
		}
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		if errors.Is(msg.Err, context.DeadlineExceeded) {
			m.exitCode = apperrors.ExitErrorTimeout
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		names := make([]string, len(m.calculators))
		for i, c := range m.calculators {
			names[i] = c.Name()
		}
		m.header.Reset()
		m.log.Reset()
		m.log.AddExecutionConfig(m.config)
		m.chart.Reset()
		m.solvers = NewSolversModel(names)
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.layoutPanels()
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startSolveCmd(m.ref, m.ctx, m.calculators, m.config, m.generation, m.opts),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.log.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.solvers.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.log.View(), rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// ExitCode returns the exit code of the last completed run.
func (m Model) ExitCode() int { return m.exitCode }

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.log.SetSize(m.logWidth(), m.bodyHeight())
	m.solvers.SetSize(m.rightWidth(), m.solversHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run starts the dashboard and blocks until the user quits. It returns the
// exit code of the last run.
func Run(ctx context.Context, calculators []newton.Calculator, cfg config.AppConfig, version string, opts ...orchestration.ExecuteOption) int {
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version, opts...)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return apperrors.ExitCodeFor(ctx.Err())
		}
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startSolveCmd returns a tea.Cmd that runs the orchestration. cfg.Timeout
// bounds the run, not the dashboard, so a timed-out run stays on screen.
func startSolveCmd(ref *programRef, ctx context.Context, calculators []newton.Calculator, cfg config.AppConfig, gen uint64, opts []orchestration.ExecuteOption) tea.Cmd {
	return func() tea.Msg {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		reporter := &TUIProgressReporter{ref: ref, tolerance: cfg.Tolerance, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}

		results := orchestration.ExecuteSolves(ctx, calculators, cfg.ToNewtonProblem(), cfg.ToNewtonOptions(), reporter, io.Discard, opts...)
		presOpts := orchestration.PresentationOptions{
			Polynomial: cfg.Coefficients,
			Tolerance:  cfg.Tolerance,
			Verbose:    cfg.Verbose,
			Details:    cfg.Details,
		}
		// Single runs skip the comparison table, so report them here.
		if len(results) == 1 {
			presenter.PresentComparisonTable(results, io.Discard)
		}
		exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, io.Discard)
		return SolveCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd schedules the next TickMsg.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd waits for the run context to end.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
