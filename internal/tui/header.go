package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/polynomial"
)

// HeaderModel renders the top bar: title, polynomial and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	poly      polynomial.Polynomial
	width     int
}

// NewHeaderModel creates a header for poly.
func NewHeaderModel(version string, poly polynomial.Polynomial) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		poly:      poly,
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since start, frozen once SetDone was called.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "rootcalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe +
		logValueStyle.Render("f(x) = "+h.poly.String()) + pipe +
		elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	gap := max(0, h.width-2-lipgloss.Width(left))
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap))
}
