package tui

import "math"

// sparkRunes are the eight block heights used by RenderSparkline.
var sparkRunes = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent samples of a series.
type RingBuffer struct {
	data  []float64
	next  int
	count int
}

// NewRingBuffer creates a ring buffer holding up to capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(1, capacity))}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.next] = v
	r.next = (r.next + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of samples held.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.next-1+len(r.data))%len(r.data)]
}

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	first := (r.next - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(first+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity and keeps the newest samples that fit.
func (r *RingBuffer) Resize(capacity int) {
	capacity = max(1, capacity)
	if capacity == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > capacity {
		old = old[len(old)-capacity:]
	}
	r.data = make([]float64, capacity)
	r.next, r.count = 0, 0
	for _, v := range old {
		r.Push(v)
	}
}

// Reset drops every sample.
func (r *RingBuffer) Reset() {
	r.next, r.count = 0, 0
}

// RenderSparkline renders values in [0, 1] as a row of block characters.
// Values outside the range are clamped.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	out := make([]rune, len(values))
	for i, v := range values {
		v = math.Max(0, math.Min(1, v))
		out[i] = sparkRunes[min(7, int(v*7))]
	}
	return string(out)
}

// AccuracyDigits converts a step size into the number of correct decimal
// digits it suggests, -log10(change), clamped to [0, limit]. The first step
// has no meaningful change and maps to 0.
func AccuracyDigits(change, limit float64) float64 {
	if math.IsInf(change, 1) || math.IsNaN(change) {
		return 0
	}
	if change <= 0 {
		return limit
	}
	return math.Max(0, math.Min(limit, -math.Log10(change)))
}

// brailleBits[col][row] is the dot bit for a cell position. A braille
// cell is two dots wide and four dots tall.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots values in [0, top] as a dot chart of rows lines
// and width characters, newest values on the right.
func RenderBrailleChart(values []float64, top float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 || !(top > 0) {
		return nil
	}
	dotsX, dotsY := width*2, rows*4

	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = make([]rune, width)
		for j := range cells[i] {
			cells[i][j] = 0x2800
		}
	}

	if len(values) > dotsX {
		values = values[len(values)-dotsX:]
	}
	offset := dotsX - len(values)
	for i, v := range values {
		v = math.Max(0, math.Min(top, v))
		x := offset + i
		y := dotsY - 1 - int(v/top*float64(dotsY-1))
		cells[y/4][x/2] |= brailleBits[x%2][y%4]
	}

	lines := make([]string, rows)
	for i := range cells {
		lines[i] = string(cells[i])
	}
	return lines
}
