// Package app wires configuration, the integration engine and the user
// interfaces into the quadcalc command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/agbru/quadcalc/internal/calibration"
	"github.com/agbru/quadcalc/internal/cli"
	"github.com/agbru/quadcalc/internal/config"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/logging"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/tui"
	"github.com/agbru/quadcalc/internal/ui"
)

// Application represents the quadcalc application instance.
type Application struct {
	Config config.AppConfig
	// Function is the integrand and its second derivative.
	Function  integration.Function
	In        io.Reader
	ErrWriter io.Writer

	log        logging.Logger
	logger     zerolog.Logger
	recorder   *metrics.Prometheus
	engineOpts integration.Options
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFunction replaces the default integrand.
func WithFunction(fn integration.Function) AppOption {
	return func(a *Application) { a.Function = fn }
}

// WithInput sets the reader that prompted values are read from.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name. The worker count is resolved from flags, the
// environment, a cached calibration profile and finally the variant default.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{
		Function:  integration.ArctanQuartic,
		In:        os.Stdin,
		ErrWriter: errWriter,
		log:       logging.NewZerologAdapter(zerolog.Nop()),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(app)
	}

	programName := "quadcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	if !cfg.Calibrate {
		workers, ok, err := calibration.LoadCachedCalibration(profilePath(cfg))
		switch {
		case err != nil && cfg.CalibrationProfile != "":
			return nil, apperrors.NewConfigError("calibration profile: %v", err)
		case err != nil:
			fmt.Fprintf(errWriter, "Ignoring unreadable calibration profile: %v\n", err)
		case ok:
			cfg = config.ApplyCalibratedWorkers(cfg, workers)
		}
	}

	app.Config = config.ApplyVariantDefaults(cfg)
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		return apperrors.HandleCalculationError(apperrors.NewConfigError("%v", err), 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	a.engineOpts, err = a.Config.EngineOptions()
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	a.recorder = metrics.NewPrometheus()

	// The form owns the terminal; log lines would corrupt it.
	base := zerolog.Nop()
	if !a.Config.TUI {
		base = logging.NewConsoleLogger(a.ErrWriter, level, a.Config.NoColor)
	}
	a.logger = base.With().Str("component", "engine").Logger()
	a.log = logging.NewZerologAdapter(base.With().Str("component", "app").Logger())
	a.log.Debug("resolved configuration", logging.String("config", a.Config.String()))

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var code int
	switch {
	case a.Config.Calibrate:
		code = a.runCalibration(ctx, out)
	case a.Config.TUI:
		code = a.runTUI(ctx)
	case a.Config.Compare:
		code = a.runCompare(ctx, out)
	default:
		code = a.runCalculate(ctx, out)
	}

	if err := a.writeMetrics(); err != nil {
		a.log.Error("writing metrics", err, logging.String("path", a.Config.MetricsFile))
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code
}

// engineOptions returns the options shared by every engine of a run.
func (a *Application) engineOptions() []integration.Option {
	return []integration.Option{
		integration.WithRecorder(a.recorder),
		integration.WithLogger(a.logger),
	}
}

func (a *Application) writeMetrics() error {
	if a.Config.MetricsFile == "" || a.recorder == nil {
		return nil
	}
	return a.recorder.WriteTextfile(a.Config.MetricsFile)
}

func profilePath(cfg config.AppConfig) string {
	if cfg.CalibrationProfile != "" {
		return cfg.CalibrationProfile
	}
	return calibration.GetDefaultProfilePath()
}

// runCalibration benchmarks worker counts and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	_, err := calibration.RunCalibration(ctx, calibration.Options{
		Engine:      a.engineOpts,
		ProfilePath: profilePath(a.Config),
		Logger:      a.logger,
	}, out)
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive form.
func (a *Application) runTUI(ctx context.Context) int {
	return tui.Run(ctx, a.calculate, a.Config.Variant, a.preset())
}

func (a *Application) preset() cli.Input {
	return cli.Input{Lower: a.Config.Lower, Upper: a.Config.Upper, Samples: a.Config.Samples}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
