package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tulinakaya/galton/internal/cli"
	"github.com/tulinakaya/galton/internal/config"
	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/logging"
	"github.com/tulinakaya/galton/internal/orchestration"
	"github.com/tulinakaya/galton/internal/tui"
	"github.com/tulinakaya/galton/internal/ui"
)

// Application represents the galton application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Runner executes the simulation. New leaves it nil and Run builds a
	// Simulator sized to the machine.
	Runner orchestration.Runner
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRunner sets a custom Runner for the application.
func WithRunner(r orchestration.Runner) AppOption {
	return func(a *Application) { a.Runner = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "galton"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if a.Config.Verbose && !a.Config.TUI {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	return a.runSimulate(ctx, out)
}

// runner returns the configured Runner or a Simulator for this machine.
// Lifecycle logs go to stderr only with --verbose; the dashboard owns the
// terminal and never gets them.
func (a *Application) runner() orchestration.Runner {
	if a.Runner != nil {
		return a.Runner
	}
	var opts []galton.Option
	if a.Config.Verbose && !a.Config.TUI {
		opts = append(opts, galton.WithLogger(logging.NewDefaultLogger()))
	}
	return galton.NewSimulator(opts...)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard. The output and metrics files
// are written from the result hook and their errors reported once the
// dashboard has released the terminal.
func (a *Application) runTUI(ctx context.Context) int {
	var exportErr error
	hook := func(result orchestration.SimulationResult) {
		exportErr = a.exportResult(result, io.Discard)
	}
	code := tui.Run(ctx, a.runner(), a.Config, Version, hook)
	if exportErr != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", exportErr)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
