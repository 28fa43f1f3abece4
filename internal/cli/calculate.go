package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/rootcalc/internal/config"
	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/ui"
)

// PrintExecutionConfig displays the problem being solved and the
// environment it runs in.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Solving %sf(x) = %s%s from x0 = %s%g%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Coefficients, ui.ColorReset(),
		ui.ColorMagenta(), cfg.InitialGuess, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())

	maxIter := "unbounded"
	if cfg.MaxIterations > 0 {
		maxIter = fmt.Sprintf("%d", cfg.MaxIterations)
	}
	fmt.Fprintf(out, "Stopping rule: |Δx| <= %s%g%s, at most %s%s%s iterations.\n",
		ui.ColorCyan(), cfg.Tolerance, ui.ColorReset(), ui.ColorCyan(), maxIter, ui.ColorReset())
	if cfg.HasRange() {
		fmt.Fprintf(out, "Search range: %s%s%s.\n",
			ui.ColorCyan(), format.FormatRange(cfg.LowerBound, cfg.UpperBound), ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s/%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		runtime.GOOS, runtime.GOARCH, cpuFeatureSuffix())
}

// cpuFeatureSuffix lists the floating-point extensions reported by the CPU.
func cpuFeatureSuffix() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasFMA {
			features = append(features, "FMA")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "AVX2")
		}
	case "arm64":
		if cpu.ARM64.HasFP {
			features = append(features, "FP")
		}
		if cpu.ARM64.HasASIMD {
			features = append(features, "ASIMD")
		}
	}
	if len(features) == 0 {
		return ""
	}
	return " (" + strings.Join(features, ", ") + ")"
}

// PrintExecutionMode displays whether a single method runs or several
// methods are compared.
//
// Parameters:
//   - calculators: The calculators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(calculators []newton.Calculator, out io.Writer) {
	var modeDesc string
	switch len(calculators) {
	case 0:
		modeDesc = "No method selected"
	case 1:
		modeDesc = fmt.Sprintf("Single solve with the %s%s%s method",
			ui.ColorGreen(), calculators[0].Description(), ui.ColorReset())
	default:
		names := make([]string, len(calculators))
		for i, c := range calculators {
			names[i] = c.Name()
		}
		modeDesc = fmt.Sprintf("Parallel comparison of %d methods (%s)", len(calculators), strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
