// Package app wires configuration, logging, metrics and the simulation
// modes into the threadrace command.
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

	"github.com/agbru/threadrace/internal/cli"
	"github.com/agbru/threadrace/internal/config"
	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/hive"
	"github.com/agbru/threadrace/internal/logging"
	"github.com/agbru/threadrace/internal/metrics"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/server"
	"github.com/agbru/threadrace/internal/ui"
)

// Application represents one threadrace invocation.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	In        io.Reader

	clock    race.Clock
	logger   logging.Logger
	raceRec  race.Recorder
	hiveRec  hive.Recorder
	animated bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader interactive prompts read from.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// WithClock replaces the wall clock used by countdowns and simulations.
func WithClock(c race.Clock) AppOption {
	return func(a *Application) { a.clock = c }
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{
		ErrWriter: errWriter,
		In:        os.Stdin,
		clock:     race.SystemClock{},
		logger:    logging.Nop{},
		raceRec:   race.NopRecorder{},
		hiveRec:   hive.NopRecorder{},
	}
	for _, opt := range opts {
		opt(app)
	}

	programName := "threadrace"
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

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// InitErrorCode maps an error returned by New to an exit code. Configuration
// and validation errors are printed to w; flag syntax errors were already
// printed by the flag package.
func InitErrorCode(err error, w io.Writer) int {
	if err == nil || IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	var cfgErr apperrors.ConfigError
	var valErr apperrors.ValidationError
	if errors.As(err, &cfgErr) || errors.As(err, &valErr) {
		return apperrors.HandleRunError(err, 0, w)
	}
	return apperrors.ExitErrorConfig
}

// Run executes the configured mode and returns the process exit code. It
// never panics: a panic escaping a mode is reported as a generic error.
func (a *Application) Run(ctx context.Context, out io.Writer) (code int) {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.Theme, a.Config.NoColor)
	a.logger = logging.NewDefaultLogger().WithLevel(logging.ParseLevel(a.Config.LogLevel))
	a.animated = cli.IsTerminal(out) && !a.Config.Quiet

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("unexpected panic", apperrors.PanicError(r))
			code = apperrors.HandleRunError(apperrors.PanicError(r), 0, out)
		}
	}()

	if a.Config.MetricsAddr != "" {
		stop, err := a.startMetrics(ctx)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error starting metrics server: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		defer stop()
	}

	if a.Config.TUI && !isRaceMode(a.Config.Mode) {
		a.logger.Info("--tui only applies to race modes", logging.String("mode", a.Config.Mode))
	}

	switch a.Config.Mode {
	case config.ModeHive:
		return a.runHive(ctx, out)
	case config.ModeArith:
		return a.runArith(ctx, out)
	case config.ModeDownload:
		return a.runDownload(ctx, out)
	default:
		if a.Config.TUI {
			return a.runTUI(ctx, out)
		}
		return a.runRaces(ctx, out)
	}
}

func isRaceMode(mode string) bool {
	return mode == config.ModeRace || mode == config.ModeSprint
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, config.Modes); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// startMetrics serves /metrics and /healthz until the returned stop function
// is called, and routes race and hive telemetry into the registry.
func (a *Application) startMetrics(ctx context.Context) (func(), error) {
	m := metrics.NewMetrics()
	srvCtx, cancel := context.WithCancel(ctx)
	_, errCh, err := server.New(a.Config.MetricsAddr, m, a.logger).Start(srvCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	a.raceRec = m
	a.hiveRec = m

	return func() {
		cancel()
		if err := <-errCh; err != nil {
			a.logger.Error("metrics server stopped", err)
		}
	}, nil
}
