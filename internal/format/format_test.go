package format

import (
	"math"
	"testing"
	"time"
)

// TestFormatExecutionDuration verifies duration formatting.
func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0µs"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
		{1500*time.Millisecond + 300*time.Microsecond, "1.5s"},
	}

	for _, tt := range tests {
		got := FormatExecutionDuration(tt.d)
		if got != tt.expected {
			t.Errorf("FormatExecutionDuration(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		length   int
		expected string
	}{
		{0.0, 10, "░░░░░░░░░░"},
		{0.5, 10, "█████░░░░░"},
		{1.0, 10, "██████████"},
		{1.2, 10, "██████████"},  // Cap at 1.0
		{-0.1, 10, "░░░░░░░░░░"}, // Floor at 0.0
		{0.5, 0, ""},
	}

	for _, tt := range tests {
		got := ProgressBar(tt.progress, tt.length)
		if got != tt.expected {
			t.Errorf("ProgressBar(%f, %d) = %s; want %s", tt.progress, tt.length, got, tt.expected)
		}
	}
}

func TestConvergenceProgress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name               string
		first, change, tol float64
		want               float64
	}{
		{"converged", 1, 1e-5, 1e-4, 1},
		{"first step", 1, 1, 1e-4, 0},
		{"halfway in log space", 1, 1e-2, 1e-4, 0.5},
		{"change grew", 1, 10, 1e-4, 0},
		{"unknown first", math.Inf(1), 1e-2, 1e-4, 0},
		{"first already within tolerance", 1e-5, 1e-3, 1e-4, 0},
	}
	for _, tt := range tests {
		got := ConvergenceProgress(tt.first, tt.change, tt.tol)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: ConvergenceProgress(%v, %v, %v) = %v, want %v", tt.name, tt.first, tt.change, tt.tol, got, tt.want)
		}
	}
}

func TestFormatNumbers(t *testing.T) {
	t.Parallel()
	if got := FormatRoot(2.000000000026214); got != "2.00000000003" {
		t.Errorf("FormatRoot = %q", got)
	}
	if got := FormatChange(1.024e-5); got != "1.024e-05" {
		t.Errorf("FormatChange = %q", got)
	}
	if got := FormatChange(math.Inf(1)); got != "-" {
		t.Errorf("FormatChange(+Inf) = %q", got)
	}
	if got := FormatRange(math.Inf(-1), 10); got != "[-∞, 10]" {
		t.Errorf("FormatRange = %q", got)
	}
	if got := FormatRange(-2.5, math.Inf(1)); got != "[-2.5, +∞]" {
		t.Errorf("FormatRange = %q", got)
	}
}
