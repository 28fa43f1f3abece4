package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rootcalc/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle         lipgloss.Style
	panelTitleStyle    lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	elapsedStyle       lipgloss.Style
	logMethodStyle     lipgloss.Style
	logValueStyle      lipgloss.Style
	logSuccessStyle    lipgloss.Style
	logWarningStyle    lipgloss.Style
	logErrorStyle      lipgloss.Style
	labelStyle         lipgloss.Style
	valueStyle         lipgloss.Style
	chartStyle         lipgloss.Style
	sparklineStyle     lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the theme was chosen from the configuration.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	logMethodStyle = lipgloss.NewStyle().Foreground(t.Accent)
	logValueStyle = lipgloss.NewStyle().Foreground(t.Text)
	logSuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	logWarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	logErrorStyle = lipgloss.NewStyle().Foreground(t.Error)

	labelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	valueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	chartStyle = lipgloss.NewStyle().Foreground(t.Accent)
	sparklineStyle = lipgloss.NewStyle().Foreground(t.Success)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}
