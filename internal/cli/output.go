// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write to the filesystem.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/ui"
)

// Report is a finished integration as shown to the user.
type Report struct {
	Variant  string
	Lower    float64
	Upper    float64
	Samples  uint64
	Value    float64
	Duration time.Duration
	// Estimate is set for variants that report an error bound.
	Estimate *integration.Estimate
}

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the values, one per line.
	Quiet bool
	// Verbose adds the request summary and timing.
	Verbose bool
}

// formatFloat renders a value with the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatReportLines returns the label/value pairs of a report in display order.
func FormatReportLines(r Report) [][2]string {
	if r.Estimate == nil {
		return [][2]string{{"Integral value", formatFloat(r.Value)}}
	}
	e := r.Estimate
	return [][2]string{
		{"Integral value", formatFloat(e.Value)},
		{"Reference value", formatFloat(e.Reference)},
		{"Absolute error", formatFloat(e.AbsoluteError)},
		{"Error bound", formatFloat(e.ErrorBound)},
		{"Within bound", strconv.FormatBool(e.WithinBound)},
		{"Relative error", formatFloat(e.RelativeErrorPercent) + "%"},
	}
}

// FormatQuietResult returns the report values, one per line, for scripting.
func FormatQuietResult(r Report) string {
	lines := FormatReportLines(r)
	values := make([]string, len(lines))
	for i, l := range lines {
		values[i] = strings.TrimSuffix(l[1], "%")
	}
	return strings.Join(values, "\n")
}

// DisplayQuietResult prints FormatQuietResult.
func DisplayQuietResult(out io.Writer, r Report) {
	fmt.Fprintln(out, FormatQuietResult(r))
}

// DisplayResult prints the report with labels and colours.
func DisplayResult(r Report, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	if verbose {
		fmt.Fprintf(out, "Variant: %s%s%s, interval [%s, %s], %s samples\n",
			ui.ColorMagenta(), r.Variant, ui.ColorReset(),
			formatFloat(r.Lower), formatFloat(r.Upper), format.FormatCount(r.Samples))
		if r.Estimate != nil {
			fmt.Fprintf(out, "Step: %s, reference samples: %s\n",
				formatFloat(r.Estimate.Step), format.FormatCount(r.Estimate.ReferenceSamples))
		}
		fmt.Fprintf(out, "Calculation time: %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(r.Duration), ui.ColorReset())
	}

	for _, l := range FormatReportLines(r) {
		color := ui.ColorGreen()
		if l[0] == "Within bound" && l[1] == "false" {
			color = ui.ColorRed()
		}
		fmt.Fprintf(out, "%-16s %s%s%s\n", l[0]+":", color, l[1], ui.ColorReset())
	}
}

// WriteResultToFile writes a header and the report lines to
// config.OutputFile, creating parent directories. It is a no-op without a path.
func WriteResultToFile(r Report, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Integration Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Variant: %s\n", r.Variant)
	fmt.Fprintf(file, "# Interval: [%s, %s]\n", formatFloat(r.Lower), formatFloat(r.Upper))
	fmt.Fprintf(file, "# Samples: %d\n", r.Samples)
	fmt.Fprintf(file, "# Duration: %s\n", r.Duration)
	fmt.Fprintf(file, "\n")
	for _, l := range FormatReportLines(r) {
		fmt.Fprintf(file, "%s: %s\n", l[0], l[1])
	}
	return file.Close()
}

// DisplayResultWithConfig prints the report in the configured mode and saves
// it when an output file is set.
func DisplayResultWithConfig(out io.Writer, r Report, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, r)
	} else {
		DisplayResult(r, config.Verbose, out)
	}

	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(r, config); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}
