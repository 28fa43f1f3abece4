package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/rootcalc/internal/format"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/polynomial"
	"github.com/agbru/rootcalc/internal/progress"
	"github.com/agbru/rootcalc/internal/ui"
)

const defaultREPLTimeout = 30 * time.Second

// REPLConfig holds the initial state of an interactive session.
type REPLConfig struct {
	// DefaultMethod is the method used by "solve". "all" or an unknown
	// name selects the first registered method.
	DefaultMethod string
	// Timeout bounds each solve.
	Timeout time.Duration

	Coefficients  polynomial.Polynomial
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int

	// LowerBound and UpperBound delimit the search range. The zero range
	// means unbounded.
	LowerBound float64
	UpperBound float64
}

// REPL is an interactive root-finding session. The polynomial and solver
// options persist between commands.
type REPL struct {
	config        REPLConfig
	factory       newton.CalculatorFactory
	currentMethod string
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a session backed by factory.
func NewREPL(factory newton.CalculatorFactory, config REPLConfig) *REPL {
	current := config.DefaultMethod
	if _, err := factory.Get(current); err != nil {
		if names := factory.List(); len(names) > 0 {
			current = names[0]
		}
	}
	if config.Tolerance <= 0 {
		config.Tolerance = newton.DefaultTolerance
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultREPLTimeout
	}
	if config.LowerBound == 0 && config.UpperBound == 0 {
		config.LowerBound, config.UpperBound = math.Inf(-1), math.Inf(1)
	}
	return &REPL{
		config:        config,
		factory:       factory,
		currentMethod: current,
		in:            os.Stdin,
		out:           os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads and executes commands until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"root> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sPolynomial Root Finder - Interactive Mode%s            %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spoly <c...>%s       - Set coefficients, highest degree first\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sx0 <x>%s            - Set the initial guess\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %stol <t>%s           - Set the tolerance\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smaxiter <n>%s       - Set the iteration cap (0 for none)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %srange [lo hi]%s     - Show, set or clear (range off) the search range\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %seval <x>%s          - Evaluate f(x) and f'(x)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssolve [x0]%s        - Find a root with the current method\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare [x0]%s      - Run every method and compare\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smethod <name>%s     - Change method (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.factory.List(), ", "))
	fmt.Fprintf(r.out, "  %slist%s              - List available methods\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s            - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s              - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s       - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand executes one line. Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "poly", "p":
		r.cmdPoly(args)
	case "x0":
		r.cmdFloat(args, "x0", func(v float64) { r.config.InitialGuess = v })
	case "tol":
		r.cmdFloat(args, "tol", func(v float64) { r.config.Tolerance = v })
	case "maxiter", "max-iter":
		r.cmdMaxIter(args)
	case "range", "r":
		r.cmdRange(args)
	case "eval", "e":
		r.cmdEval(args)
	case "solve", "s":
		if r.applyOptionalX0(args) {
			r.solve()
		}
	case "compare", "cmp":
		if r.applyOptionalX0(args) {
			r.compare()
		}
	case "method", "m":
		r.cmdMethod(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// A bare number solves from that starting point.
		if x0, err := strconv.ParseFloat(cmd, 64); err == nil {
			r.config.InitialGuess = x0
			r.solve()
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

func (r *REPL) cmdPoly(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: poly <c_n> ... <c_0>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	p, err := polynomial.Parse(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid polynomial: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	if p.Len() < 2 {
		fmt.Fprintf(r.out, "%sA polynomial needs at least two coefficients.%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	r.config.Coefficients = p
	fmt.Fprintf(r.out, "f(x) = %s%s%s\n", ui.ColorMagenta(), p, ui.ColorReset())
}

func (r *REPL) cmdFloat(args []string, name string, set func(float64)) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s <value>%s\n", ui.ColorRed(), name, ui.ColorReset())
		return
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	if name == "tol" && !(v > 0) {
		fmt.Fprintf(r.out, "%sTolerance must be greater than 0.%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	set(v)
	fmt.Fprintf(r.out, "%s set to %s%g%s\n", name, ui.ColorGreen(), v, ui.ColorReset())
}

func (r *REPL) cmdMaxIter(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: maxiter <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.MaxIterations = n
	fmt.Fprintf(r.out, "maxiter set to %s%d%s\n", ui.ColorGreen(), n, ui.ColorReset())
}

func (r *REPL) cmdRange(args []string) {
	switch {
	case len(args) == 0:
		fmt.Fprintf(r.out, "range = %s%s%s\n", ui.ColorCyan(), format.FormatRange(r.config.LowerBound, r.config.UpperBound), ui.ColorReset())
		return
	case len(args) == 1 && (args[0] == "off" || args[0] == "clear"):
		r.config.LowerBound, r.config.UpperBound = math.Inf(-1), math.Inf(1)
		fmt.Fprintln(r.out, "range cleared")
		return
	case len(args) != 2:
		fmt.Fprintf(r.out, "%sUsage: range <lower> <upper>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	lo, errLo := strconv.ParseFloat(args[0], 64)
	hi, errHi := strconv.ParseFloat(args[1], 64)
	if errLo != nil || errHi != nil || math.IsNaN(lo) || math.IsNaN(hi) {
		fmt.Fprintf(r.out, "%sInvalid range: %s %s%s\n", ui.ColorRed(), args[0], args[1], ui.ColorReset())
		return
	}
	if lo > hi {
		fmt.Fprintf(r.out, "%sLower bound must not exceed upper bound.%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	r.config.LowerBound, r.config.UpperBound = lo, hi
	fmt.Fprintf(r.out, "range set to %s%s%s\n", ui.ColorGreen(), format.FormatRange(lo, hi), ui.ColorReset())
}

// warnOutsideRange notes an initial guess outside the search range. The
// solve still runs.
func (r *REPL) warnOutsideRange() {
	x0 := r.config.InitialGuess
	if x0 < r.config.LowerBound || x0 > r.config.UpperBound {
		fmt.Fprintf(r.out, "%sWarning: x0 = %g lies outside %s%s\n", ui.ColorYellow(), x0,
			format.FormatRange(r.config.LowerBound, r.config.UpperBound), ui.ColorReset())
	}
}

func (r *REPL) cmdEval(args []string) {
	if !r.requirePolynomial() {
		return
	}
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: eval <x>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	deriv, err := r.config.Coefficients.Derivative()
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "  f(%g)  = %s%g%s\n", x, ui.ColorCyan(), r.config.Coefficients.Evaluate(x), ui.ColorReset())
	fmt.Fprintf(r.out, "  f'(%g) = %s%g%s\n", x, ui.ColorCyan(), deriv.Evaluate(x), ui.ColorReset())
}

// applyOptionalX0 sets the initial guess from args[0] if present.
func (r *REPL) applyOptionalX0(args []string) bool {
	if len(args) == 0 {
		return true
	}
	x0, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return false
	}
	r.config.InitialGuess = x0
	return true
}

func (r *REPL) requirePolynomial() bool {
	if r.config.Coefficients.Len() < 2 {
		fmt.Fprintf(r.out, "%sNo polynomial set. Use: poly 1 0 -4%s\n", ui.ColorRed(), ui.ColorReset())
		return false
	}
	return true
}

func (r *REPL) problem() (newton.Problem, newton.Options) {
	return newton.Problem{
			Coefficients: r.config.Coefficients.Coefficients(),
			InitialGuess: r.config.InitialGuess,
		}, newton.Options{
			Tolerance:     r.config.Tolerance,
			MaxIterations: r.config.MaxIterations,
		}
}

// solve runs the current method with a spinner.
func (r *REPL) solve() {
	if !r.requirePolynomial() {
		return
	}
	calc, err := r.factory.Get(r.currentMethod)
	if err != nil {
		fmt.Fprintf(r.out, "%sMethod not found: %s%s\n", ui.ColorRed(), r.currentMethod, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	r.warnOutsideRange()
	fmt.Fprintf(r.out, "Solving %s%s%s from x0 = %g with %s%s%s...\n",
		ui.ColorMagenta(), r.config.Coefficients, ui.ColorReset(), r.config.InitialGuess,
		ui.ColorCyan(), calc.Name(), ui.ColorReset())

	problem, opts := r.problem()
	progressChan := make(chan progress.IterationUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, opts.Tolerance, r.out)

	start := time.Now()
	res, err := calc.Solve(ctx, progressChan, 0, problem, opts)
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		CLIResultPresenter{}.HandleError(err, duration, r.out)
		return
	}
	DisplayResult(orchestration.SolveResult{Name: calc.Name(), Result: res, Duration: duration},
		orchestration.PresentationOptions{Polynomial: r.config.Coefficients, Tolerance: opts.Tolerance}, r.out)
	fmt.Fprintln(r.out)
}

// compare runs every method sequentially without progress display.
func (r *REPL) compare() {
	if !r.requirePolynomial() {
		return
	}
	problem, opts := r.problem()

	fmt.Fprintf(r.out, "\n%sComparison for %s from x0 = %g:%s\n", ui.ColorBold(), r.config.Coefficients, r.config.InitialGuess, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	var ref *float64
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		start := time.Now()
		res, err := calc.Solve(ctx, nil, 0, problem, opts)
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-10s%s: %sError - %v%s\n",
				ui.ColorYellow(), name, ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if ref == nil {
			root := res.Root
			ref = &root
		} else if math.Abs(res.Root-*ref) > orchestration.MismatchFactor*opts.Tolerance {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-10s%s: %s%-20s%s %3d steps %10s %s\n",
			ui.ColorYellow(), name, ui.ColorReset(),
			ui.ColorGreen(), format.FormatRoot(res.Root), ui.ColorReset(),
			res.Steps(), format.FormatExecutionDuration(duration), status)
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdMethod(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: method <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available methods: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	name := strings.ToLower(args[0])
	calc, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown method: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available methods: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	r.currentMethod = name
	fmt.Fprintf(r.out, "Method changed to: %s%s%s\n", ui.ColorGreen(), calc.Description(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable methods:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		marker := "  "
		if name == r.currentMethod {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), calc.Description())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	poly := "(not set)"
	if r.config.Coefficients.Len() > 0 {
		poly = r.config.Coefficients.String()
	}
	maxIter := "unbounded"
	if r.config.MaxIterations > 0 {
		maxIter = strconv.Itoa(r.config.MaxIterations)
	}
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Polynomial:  %s%s%s\n", ui.ColorCyan(), poly, ui.ColorReset())
	fmt.Fprintf(r.out, "  x0:          %s%g%s\n", ui.ColorCyan(), r.config.InitialGuess, ui.ColorReset())
	fmt.Fprintf(r.out, "  Tolerance:   %s%g%s\n", ui.ColorCyan(), r.config.Tolerance, ui.ColorReset())
	fmt.Fprintf(r.out, "  Max iter:    %s%s%s\n", ui.ColorCyan(), maxIter, ui.ColorReset())
	fmt.Fprintf(r.out, "  Range:       %s%s%s\n", ui.ColorCyan(), format.FormatRange(r.config.LowerBound, r.config.UpperBound), ui.ColorReset())
	fmt.Fprintf(r.out, "  Method:      %s%s%s\n", ui.ColorCyan(), r.currentMethod, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:     %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintln(r.out)
}
