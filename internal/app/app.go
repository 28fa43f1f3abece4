package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/rootcalc/internal/cli"
	"github.com/agbru/rootcalc/internal/config"
	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/logging"
	"github.com/agbru/rootcalc/internal/metrics"
	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/tui"
	"github.com/agbru/rootcalc/internal/ui"
)

// Application represents the rootcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   newton.CalculatorFactory
	ErrWriter io.Writer
	Logger    logging.Logger
	// In feeds the interactive prompt.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application.
func WithFactory(f newton.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLogger replaces the stderr console logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithInput sets the reader of the interactive prompt.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = newton.NewDefaultFactory()
	}

	programName := "rootcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		app.Logger = newConsoleLogger(errWriter, cfg)
	}
	return app, nil
}

// newConsoleLogger builds the human-readable stderr logger at the
// configured level.
func newConsoleLogger(w io.Writer, cfg config.AppConfig) logging.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: time.Kitchen}
	return logging.NewZerologAdapter(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	if a.Config.Interactive {
		return a.runInteractive(out)
	}
	if a.Config.TUI {
		return a.runTUI(ctx, out)
	}
	return a.runSolve(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runInteractive starts the prompt, seeded with whatever problem the flags
// described.
func (a *Application) runInteractive(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultMethod: a.Config.Method,
		Timeout:       a.Config.Timeout,
		Coefficients:  a.Config.Coefficients,
		InitialGuess:  a.Config.InitialGuess,
		Tolerance:     a.Config.Tolerance,
		MaxIterations: a.Config.MaxIterations,
		LowerBound:    a.Config.LowerBound,
		UpperBound:    a.Config.UpperBound,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runTUI launches the interactive TUI dashboard. The timeout bounds each
// run inside the dashboard, not the dashboard itself.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	a.warnIfOutsideRange()
	recorder := metrics.NewRecorder()
	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Method, a.Factory)
	exitCode := tui.Run(ctx, calculatorsToRun, a.Config, Version, orchestration.WithRecorder(recorder))
	a.writeMetrics(recorder)
	return exitCode
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
