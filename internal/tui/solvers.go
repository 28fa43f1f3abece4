package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
)

// solverRow is the live state of one method.
type solverRow struct {
	name      string
	iteration int
	x         float64
	change    float64
	progress  float64
	done      bool
	state     string
	failed    bool
}

// SolversModel shows one row per running method.
type SolversModel struct {
	rows   []solverRow
	width  int
	height int
}

// NewSolversModel creates a panel for the given method names.
func NewSolversModel(methods []string) SolversModel {
	rows := make([]solverRow, len(methods))
	for i, name := range methods {
		rows[i] = solverRow{name: name, change: newton.Result{}.LastChange(), state: "running"}
	}
	return SolversModel{rows: rows}
}

// SetSize updates the panel dimensions, borders included.
func (s *SolversModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// UpdateIteration applies an aggregated update.
func (s *SolversModel) UpdateIteration(msg IterationMsg) {
	if msg.SolverIndex < 0 || msg.SolverIndex >= len(s.rows) {
		return
	}
	r := &s.rows[msg.SolverIndex]
	if msg.Iteration > 0 {
		r.iteration = msg.Iteration
		r.x = msg.X
		r.change = msg.Change
	}
	r.progress = msg.SolverProgress
	r.done = r.done || msg.Done
	if r.done && r.state == "running" {
		r.state = "finished"
	}
}

// ApplyResults records the terminal state of every method.
func (s *SolversModel) ApplyResults(results []orchestration.SolveResult) {
	for _, res := range results {
		for i := range s.rows {
			if s.rows[i].name != res.Name {
				continue
			}
			s.rows[i].done = true
			s.rows[i].state = res.Result.State.String()
			s.rows[i].failed = res.Err != nil
			if res.Err == nil {
				s.rows[i].progress = 1
			}
		}
	}
}

// Progress returns the mean progress of all rows.
func (s SolversModel) Progress() float64 {
	if len(s.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.rows {
		sum += r.progress
	}
	return sum / float64(len(s.rows))
}

// View renders the panel.
func (s SolversModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Methods"))

	barWidth := max(5, (s.width-2)/4)
	for _, r := range s.rows {
		state := statusRunningStyle.Render(r.state)
		switch {
		case r.failed:
			state = statusErrorStyle.Render(r.state)
		case r.state == newton.Converged.String():
			state = statusDoneStyle.Render(r.state)
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" %s %s %s %s",
			valueStyle.Render(fmt.Sprintf("%-8s", r.name)),
			labelStyle.Render(fmt.Sprintf("#%-4d", r.iteration)),
			chartStyle.Render(format.ProgressBar(r.progress, barWidth)),
			state))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("   %s %s  %s %s",
			labelStyle.Render("x"), logValueStyle.Render(format.FormatRoot(r.x)),
			labelStyle.Render("Δ"), logValueStyle.Render(format.FormatChange(r.change))))
	}

	return panelStyle.
		Width(max(0, s.width-2)).
		Height(max(0, s.height-2)).
		Render(lipgloss.NewStyle().MaxWidth(max(0, s.width-2)).Render(b.String()))
}
