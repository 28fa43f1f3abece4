// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/polynomial"
	"github.com/agbru/rootcalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the root.
	Quiet bool
	// Polynomial and InitialGuess are recorded in the file header.
	Polynomial   polynomial.Polynomial
	InitialGuess float64
	Tolerance    float64
}

// WriteResultToFile writes a solve result, including every candidate, to
// config.OutputFile. It does nothing when no file is configured.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result orchestration.SolveResult, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "failed to create directory %s", dir)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return apperrors.WrapError(err, "failed to create output file")
	}
	defer file.Close()

	res := result.Result
	fmt.Fprintf(file, "# Polynomial Root Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Polynomial: %s\n", config.Polynomial)
	fmt.Fprintf(file, "# Coefficients: %s\n", config.Polynomial.Format())
	fmt.Fprintf(file, "# x0: %s\n", strconv.FormatFloat(config.InitialGuess, 'g', -1, 64))
	fmt.Fprintf(file, "# Tolerance: %g\n", config.Tolerance)
	fmt.Fprintf(file, "# Method: %s\n", result.Name)
	fmt.Fprintf(file, "# Duration: %s\n", result.Duration)
	fmt.Fprintf(file, "# State: %s\n", res.State)
	fmt.Fprintf(file, "# Iterations: %d\n", res.Steps())
	fmt.Fprintf(file, "\n")
	for _, it := range res.Iterations {
		fmt.Fprintf(file, "%d\t%s\t%s\n", it.Index,
			strconv.FormatFloat(it.X, 'g', -1, 64), strconv.FormatFloat(it.Change, 'g', -1, 64))
	}
	_, err = fmt.Fprintf(file, "\nroot = %s\n", strconv.FormatFloat(res.Root, 'g', -1, 64))
	return err
}

// FormatQuietResult formats a root for quiet mode: the shortest decimal
// representation that round-trips, suitable for scripting.
func FormatQuietResult(root float64) string {
	return strconv.FormatFloat(root, 'g', -1, 64)
}

// DisplayQuietResult outputs a root in quiet mode.
func DisplayQuietResult(out io.Writer, root float64) {
	fmt.Fprintln(out, FormatQuietResult(root))
}

// DisplayResultWithConfig displays a result according to config and saves
// it to a file when one is configured.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result orchestration.SolveResult, opts orchestration.PresentationOptions, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result.Result.Root)
	} else {
		DisplayResult(result, opts, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(result, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
