// This file contains the environment variable overrides.

package config

import (
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
)

// isFlagSetAny checks if any of the specified flags were explicitly set.
// A shorthand counts as its long name.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override: the env key
// (without the QUADCALC_ prefix), the flag(s) that take precedence over it,
// and a function that applies the value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable
// overrides. Malformed numeric values are ignored.
var envOverrides = []envOverride{
	// Input values
	{"LOWER", []string{"lower"}, func(c *AppConfig, v string) { c.Lower = v }},
	{"UPPER", []string{"upper"}, func(c *AppConfig, v string) { c.Upper = v }},
	{"SAMPLES", []string{"samples"}, func(c *AppConfig, v string) { c.Samples = v }},

	// Engine settings
	{"VARIANT", []string{"variant"}, func(c *AppConfig, v string) { c.Variant = v }},
	{"WORKERS", []string{"workers"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"THRESHOLD", []string{"threshold"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Threshold = parsed
		}
	}},
	{"MAX_SAMPLES", []string{"max-samples"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.MaxSamples = parsed
		}
	}},
	{"BOUNDARY", []string{"boundary"}, func(c *AppConfig, v string) { c.Boundary = v }},
	{"ACCUMULATOR", []string{"accumulator"}, func(c *AppConfig, v string) { c.Accumulator = v }},
	{"REFERENCE_SAMPLES", []string{"reference-samples"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.ReferenceSamples = parsed
		}
	}},
	{"TOLERANCE", []string{"tolerance"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Tolerance = parsed
		}
	}},

	// Outputs
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) { c.MetricsFile = v }},
	{"OUTPUT", []string{"output"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, v string) { c.CalibrationProfile = v }},

	// Boolean switches
	{"COMPARE", []string{"compare"}, func(c *AppConfig, v string) { c.Compare = parseBoolEnv(v, c.Compare) }},
	{"QUIET", []string{"quiet"}, func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
	{"VERBOSE", []string{"verbose"}, func(c *AppConfig, v string) { c.Verbose = parseBoolEnv(v, c.Verbose) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = parseBoolEnv(v, c.NoColor) }},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) { c.TUI = parseBoolEnv(v, c.TUI) }},
	{"CALIBRATE", []string{"calibrate"}, func(c *AppConfig, v string) { c.Calibrate = parseBoolEnv(v, c.Calibrate) }},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
