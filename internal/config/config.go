// Package config defines the application configuration and parses it from
// command-line flags, ROOTCALC_* environment variables and an optional YAML
// problem file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/logging"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/polynomial"
)

const (
	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "ROOTCALC_"

	// DefaultTolerance is the convergence threshold when none is given.
	DefaultTolerance = newton.DefaultTolerance
	// DefaultMaxIterations bounds a solve when no cap is given.
	DefaultMaxIterations = 1000
	// DefaultMethod is the update method used when none is given.
	DefaultMethod = "newton"
	// DefaultTimeout bounds the whole solve.
	DefaultTimeout = 30 * time.Second

	// MethodAll selects every registered method.
	MethodAll = "all"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Problem parameters.
	Coefficients  polynomial.Polynomial
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int
	LowerBound    float64
	UpperBound    float64

	// Method is a registered method name or "all".
	Method  string
	Timeout time.Duration

	Verbose     bool
	Details     bool
	Quiet       bool
	NoColor     bool
	TUI         bool
	Interactive bool

	OutputFile string
	MetricsOut string
	ConfigFile string
	LogLevel   string
	Completion string
}

// Problem holds the numerical inputs of a solve in validatable form.
type Problem struct {
	Coefficients  []float64 `validate:"min=2,dive,finite"`
	InitialGuess  float64   `validate:"finite"`
	Tolerance     float64   `validate:"gt=0,finite"`
	MaxIterations int       `validate:"gte=0"`
	LowerBound    float64   `validate:"ltefield=UpperBound"`
	UpperBound    float64
}

// Problem extracts the numerical inputs.
func (c AppConfig) Problem() Problem {
	return Problem{
		Coefficients:  c.Coefficients,
		InitialGuess:  c.InitialGuess,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
		LowerBound:    c.LowerBound,
		UpperBound:    c.UpperBound,
	}
}

// ToNewtonProblem converts the configuration into solver input.
func (c AppConfig) ToNewtonProblem() newton.Problem {
	return newton.Problem{
		Coefficients: c.Coefficients.Coefficients(),
		InitialGuess: c.InitialGuess,
	}
}

// ToNewtonOptions converts the configuration into solver options.
func (c AppConfig) ToNewtonOptions() newton.Options {
	return newton.Options{
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
}

// HasRange reports whether a finite search range was configured.
func (c AppConfig) HasRange() bool {
	return !math.IsInf(c.LowerBound, 0) || !math.IsInf(c.UpperBound, 0)
}

// InRange reports whether x lies within [LowerBound, UpperBound].
func (c AppConfig) InRange(x float64) bool {
	return x >= c.LowerBound && x <= c.UpperBound
}

// Validate checks the configuration against the available methods.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem found.
func (c AppConfig) Validate(availableMethods []string) error {
	if c.Completion != "" {
		return nil
	}
	if c.Interactive {
		// Problem inputs are collected at the prompt.
		return c.validateRuntime(availableMethods)
	}
	if err := ValidateProblem(c.Problem()); err != nil {
		return err
	}
	return c.validateRuntime(availableMethods)
}

func (c AppConfig) validateRuntime(availableMethods []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Method != MethodAll && !slices.Contains(availableMethods, c.Method) {
		return apperrors.NewConfigError("unrecognized method %q. Valid methods are: %s, %s",
			c.Method, MethodAll, strings.Join(availableMethods, ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// ParseConfig parses command-line arguments, then layers environment
// variables and an optional YAML problem file under them.
// Priority: CLI flags > ROOTCALC_* environment > problem file > defaults.
//
// Parameters:
//   - programName: The program name used in usage messages.
//   - args: The arguments, excluding the program name.
//   - errorWriter: Destination for usage and parse errors.
//   - availableMethods: The registered method names.
//
// Returns:
//   - AppConfig: The parsed and validated configuration.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableMethods []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	coeffs := &coefficientsFlag{p: &config.Coefficients}

	fs.Var(coeffs, "poly", `Polynomial coefficients, highest degree first (e.g. "1,0,-4" or "1 0 -4").`)
	fs.Var(coeffs, "p", "Shorthand for --poly.")
	fs.Float64Var(&config.InitialGuess, "x0", 0, "Initial guess.")
	fs.Float64Var(&config.Tolerance, "tol", DefaultTolerance, "Convergence tolerance on the change between iterates.")
	fs.IntVar(&config.MaxIterations, "max-iter", DefaultMaxIterations, "Iteration cap (0 for no cap).")
	fs.Float64Var(&config.LowerBound, "lower", math.Inf(-1), "Lower bound of the search range (reported only).")
	fs.Float64Var(&config.UpperBound, "upper", math.Inf(1), "Upper bound of the search range (reported only).")
	fs.StringVar(&config.Method, "method", DefaultMethod, fmt.Sprintf("Update method: %s or %s.", strings.Join(availableMethods, ", "), MethodAll))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.Verbose, "v", false, "Print every candidate root.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print every candidate root.")
	fs.BoolVar(&config.Details, "d", false, "Print convergence analysis.")
	fs.BoolVar(&config.Details, "details", false, "Print convergence analysis.")
	fs.BoolVar(&config.Quiet, "q", false, "Print only the root.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the root.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Interactive, "i", false, "Start the interactive prompt.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the interactive prompt.")
	fs.StringVar(&config.OutputFile, "o", "", "Write the result to this file.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result to this file.")
	fs.StringVar(&config.MetricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML problem file.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error, disabled).")
	fs.StringVar(&config.Completion, "completion", "", "Generate a completion script (bash, zsh, fish, powershell).")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		file, err := LoadProblemFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		file.applyTo(&config, fs)
	}
	applyEnvOverrides(&config, fs)

	config.Method = strings.ToLower(config.Method)
	if err := config.Validate(availableMethods); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// coefficientsFlag implements flag.Value for a coefficient list.
type coefficientsFlag struct {
	p *polynomial.Polynomial
}

func (f *coefficientsFlag) String() string {
	if f == nil || f.p == nil || len(*f.p) == 0 {
		return ""
	}
	return f.p.Format()
}

func (f *coefficientsFlag) Set(s string) error {
	p, err := polynomial.Parse(s)
	if err != nil {
		return err
	}
	*f.p = p
	return nil
}
