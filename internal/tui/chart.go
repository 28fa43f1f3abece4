package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/rootcalc/internal/orchestration"
)

const (
	// chartDigits is the top of the accuracy axis, about the precision of
	// a float64.
	chartDigits  = 16
	chartHistory = 256
)

// ChartModel plots the accuracy of the first method, in decimal digits
// implied by the step size, and a sparkline of the overall progress.
type ChartModel struct {
	accuracy *RingBuffer
	progress *RingBuffer
	width    int
	height   int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		accuracy: NewRingBuffer(chartHistory),
		progress: NewRingBuffer(chartHistory),
	}
}

// SetSize updates the panel dimensions, borders included.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if inner := w - 2; inner > 0 {
		c.progress.Resize(inner)
	}
}

// Reset clears both series.
func (c *ChartModel) Reset() {
	c.accuracy.Reset()
	c.progress.Reset()
}

// AddIteration records an aggregated update.
func (c *ChartModel) AddIteration(ap orchestration.AggregatedProgress) {
	if ap.SolverIndex == 0 && ap.Iteration > 0 && !ap.Done {
		c.accuracy.Push(AccuracyDigits(ap.Change, chartDigits))
	}
	c.progress.Push(ap.AverageProgress)
}

// View renders the panel.
func (c ChartModel) View() string {
	inner := max(1, c.width-4)
	rows := max(1, c.height-5)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Convergence"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  digits %.1f", c.accuracy.Last())))
	for _, line := range RenderBrailleChart(c.accuracy.Slice(), chartDigits, inner, rows) {
		b.WriteString("\n")
		b.WriteString(chartStyle.Render(line))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("progress "))
	spark := RenderSparkline(c.progress.Slice())
	if r := []rune(spark); len(r) > inner-9 && inner > 9 {
		spark = string(r[len(r)-(inner-9):])
	}
	b.WriteString(sparklineStyle.Render(spark))

	return panelStyle.
		Width(max(0, c.width-2)).
		Height(max(0, c.height-2)).
		Render(b.String())
}
