package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RootDigits is the number of significant digits shown for a root.
const RootDigits = 12

// FormatRoot renders a candidate root with RootDigits significant digits.
func FormatRoot(x float64) string {
	return strconv.FormatFloat(x, 'g', RootDigits, 64)
}

// FormatChange renders a step size in compact scientific notation.
func FormatChange(c float64) string {
	if math.IsInf(c, 1) {
		return "-"
	}
	return fmt.Sprintf("%.3e", c)
}

// FormatRange renders a search interval, using the infinity sign for open
// ends.
func FormatRange(lower, upper float64) string {
	end := func(v float64) string {
		switch {
		case math.IsInf(v, -1):
			return "-∞"
		case math.IsInf(v, 1):
			return "+∞"
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + end(lower) + ", " + end(upper) + "]"
}

// ConvergenceProgress maps the current change onto [0, 1] on a log scale,
// where first is the change of the first step and tolerance the target.
// Returns 1 once change <= tolerance.
func ConvergenceProgress(first, change, tolerance float64) float64 {
	if change <= tolerance {
		return 1
	}
	if !(first > tolerance) || math.IsInf(first, 0) || math.IsNaN(change) {
		return 0
	}
	p := math.Log(first/change) / math.Log(first/tolerance)
	return math.Max(0, math.Min(1, p))
}

// ProgressBar renders a bar of the given length for a progress value in
// [0, 1]. Values outside the range are clamped.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	progress = math.Max(0, math.Min(1, progress))
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}
