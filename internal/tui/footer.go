package tui

import (
	"github.com/charmbracelet/bubbles/help"
)

// FooterModel renders the status indicator and key help.
type FooterModel struct {
	help    help.Model
	keymap  KeyMap
	paused  bool
	done    bool
	errored bool
	width   int
}

// NewFooterModel creates a footer describing keymap.
func NewFooterModel(keymap KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = valueStyle
	h.Styles.ShortDesc = dimStyle
	h.Styles.FullKey = valueStyle
	h.Styles.FullDesc = dimStyle
	return FooterModel{help: h, keymap: keymap}
}

func (f *FooterModel) SetPaused(p bool) { f.paused = p }
func (f *FooterModel) SetDone(d bool)   { f.done = d }
func (f *FooterModel) SetError(e bool)  { f.errored = e }

// ToggleHelp switches between the short and the full key help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = max(0, w-14)
}

// Status returns the indicator text without styling.
func (f FooterModel) Status() string {
	switch {
	case f.errored:
		return "FAILED"
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	}
	return "SOLVING"
}

// View renders the footer.
func (f FooterModel) View() string {
	status := f.Status()
	var styled string
	switch status {
	case "FAILED":
		styled = statusErrorStyle.Render(status)
	case "DONE":
		styled = statusDoneStyle.Render(status)
	case "PAUSED":
		styled = statusPausedStyle.Render(status)
	default:
		styled = statusRunningStyle.Render(status)
	}
	return " " + styled + "  " + f.help.View(f.keymap)
}
