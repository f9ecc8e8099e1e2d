// Package config parses the command-line flags and QUADCALC_* environment
// variables into an AppConfig.
package config

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integration"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "QUADCALC_"

// DefaultTolerance is the largest difference accepted between comparison runs.
const DefaultTolerance = 1e-9

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	// Lower, Upper and Samples hold the raw input text. An empty value is
	// read from standard input after a prompt.
	Lower   string
	Upper   string
	Samples string

	// Variant selects the preset: "trapezoid" or "midpoint".
	Variant string
	// Workers overrides the variant's worker count; 0 keeps the default.
	Workers int
	// Threshold is the sample count above which the parallel path runs.
	Threshold uint64
	// MaxSamples is the hard ceiling on the sample count.
	MaxSamples uint64
	// Boundary overrides the variant's final-cell policy when non-empty.
	Boundary string
	// Accumulator selects how partial sums are merged: "fold" or "mutex".
	Accumulator string
	// ReferenceSamples is the minimum sample count of the reference run.
	ReferenceSamples uint64

	// Compare runs the request through every execution strategy.
	Compare bool
	// Tolerance is the largest accepted difference in comparison mode.
	Tolerance float64

	Quiet    bool
	Verbose  bool
	NoColor  bool
	LogLevel string

	// MetricsFile receives the Prometheus text exposition after the run.
	MetricsFile string
	// OutputFile receives the result report.
	OutputFile string

	TUI                bool
	Calibrate          bool
	CalibrationProfile string
	ShowVersion        bool
}

// ParseConfig parses args (without the program name) into an AppConfig,
// applies environment overrides for flags that were not given, and validates
// the result. A --help request returns flag.ErrHelp unchanged; every other
// failure is a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.SortFlags = false

	var cfg AppConfig
	fs.StringVar(&cfg.Lower, "lower", "", "Lower integration bound (prompted when empty).")
	fs.StringVar(&cfg.Upper, "upper", "", "Upper integration bound (prompted when empty).")
	fs.StringVar(&cfg.Samples, "samples", "", "Number of uniform steps (prompted when empty).")
	fs.StringVar(&cfg.Variant, "variant", integration.VariantTrapezoid.Name, "Preset: trapezoid (A) or midpoint (B).")
	fs.IntVar(&cfg.Workers, "workers", 0, "Parallel worker count (0 = variant default).")
	fs.Uint64Var(&cfg.Threshold, "threshold", integration.DefaultParallelThreshold, "Sample count above which the parallel path runs.")
	fs.Uint64Var(&cfg.MaxSamples, "max-samples", integration.DefaultMaxSamples, "Maximum accepted sample count.")
	fs.StringVar(&cfg.Boundary, "boundary", "", "Final-cell policy: truncate or include (empty = variant default).")
	fs.StringVar(&cfg.Accumulator, "accumulator", integration.FoldAccumulation.String(), "Partial-sum merge: fold or mutex.")
	fs.Uint64Var(&cfg.ReferenceSamples, "reference-samples", integration.DefaultReferenceSamples, "Minimum sample count of the reference integration.")
	fs.BoolVar(&cfg.Compare, "compare", false, "Run sequential and parallel strategies and compare the results.")
	fs.Float64Var(&cfg.Tolerance, "tolerance", DefaultTolerance, "Largest accepted difference in --compare mode.")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Print only the result values.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print configuration and memory statistics.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run.")
	fs.StringVarP(&cfg.OutputFile, "output", "o", "", "Write the result report to this file.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Start the interactive terminal interface.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Benchmark worker counts and save a calibration profile.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.quadcalc_calibration.json).")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %v", fs.Args())
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the enumerated and numeric settings. Input values (bounds
// and sample count) are parsed later so that each gets its own exit code.
func (c AppConfig) Validate() error {
	if _, err := integration.LookupVariant(c.Variant); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.Boundary != "" {
		if _, err := integration.ParseBoundary(c.Boundary); err != nil {
			return apperrors.NewConfigError("%v", err)
		}
	}
	if _, err := integration.ParseAccumulation(c.Accumulator); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("invalid worker count %d: must be at least 1 (or 0 for the default)", c.Workers)
	}
	if c.MaxSamples == 0 {
		return apperrors.NewConfigError("--max-samples must be positive")
	}
	if !(c.Tolerance > 0) {
		return apperrors.NewConfigError("--tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Compare && c.TUI {
		return apperrors.NewConfigError("--compare cannot be combined with --tui")
	}
	return nil
}

// EngineOptions converts the configuration into engine options. It must be
// called on a validated configuration after ApplyVariantDefaults.
func (c AppConfig) EngineOptions() (integration.Options, error) {
	variant, err := integration.LookupVariant(c.Variant)
	if err != nil {
		return integration.Options{}, apperrors.NewConfigError("%v", err)
	}
	opts := variant.Options()
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	opts.ParallelThreshold = c.Threshold
	opts.MaxSamples = c.MaxSamples
	if c.Boundary != "" {
		if opts.Boundary, err = integration.ParseBoundary(c.Boundary); err != nil {
			return integration.Options{}, apperrors.NewConfigError("%v", err)
		}
	}
	if opts.Accumulation, err = integration.ParseAccumulation(c.Accumulator); err != nil {
		return integration.Options{}, apperrors.NewConfigError("%v", err)
	}
	return opts, nil
}

// String renders the configuration summary printed in verbose mode.
func (c AppConfig) String() string {
	return fmt.Sprintf("variant=%s workers=%d threshold=%d max-samples=%d boundary=%s accumulator=%s",
		c.Variant, c.Workers, c.Threshold, c.MaxSamples, c.Boundary, c.Accumulator)
}
