package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, out io.Writer) {
	DisplayProgress(wg, progressChan, numJobs, out)
}

// CLIResultPresenter implements the orchestration presentation interfaces
// for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable prints strategy, duration, value and status
// columns. Padding is computed by hand because the cells carry ANSI codes.
func (p CLIResultPresenter) PresentComparisonTable(results []orchestration.IntegrationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	const (
		nameHeader     = "Strategy"
		durationHeader = "Duration"
		valueHeader    = "Value"
	)
	nameW, durW, valW := len(nameHeader), len(durationHeader), len(valueHeader)
	rows := make([][3]string, len(results))
	for i, res := range results {
		value := "-"
		if res.Err == nil {
			value = formatFloat(res.Value)
		}
		rows[i] = [3]string{res.Name, p.FormatDuration(res.Duration), value}
		nameW = max(nameW, len(rows[i][0]))
		durW = max(durW, len([]rune(rows[i][1])))
		valW = max(valW, len(rows[i][2]))
	}

	u, r := ui.ColorUnderline(), ui.ColorReset()
	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %sStatus%s\n",
		u, nameHeader, r, padRight("", nameW-len(nameHeader)),
		u, durationHeader, r, padRight("", durW-len(durationHeader)),
		u, valueHeader, r, padRight("", valW-len(valueHeader)),
		u, r)

	for i, res := range results {
		status := fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		}
		row := rows[i]
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s   %s\n",
			ui.ColorBlue(), row[0], ui.ColorReset(), padRight("", nameW-len(row[0])),
			ui.ColorYellow(), row[1], ui.ColorReset(), padRight("", durW-len([]rune(row[1]))),
			row[2], padRight("", valW-len(row[2])),
			status)
	}
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult prints the winning comparison result.
func (CLIResultPresenter) PresentResult(result orchestration.IntegrationResult, opts orchestration.PresentationOptions, out io.Writer) {
	r := Report{
		Variant:  opts.Variant,
		Lower:    opts.Lower,
		Upper:    opts.Upper,
		Samples:  opts.Samples,
		Value:    result.Value,
		Duration: result.Duration,
	}
	if opts.Quiet {
		DisplayQuietResult(out, r)
		return
	}
	DisplayResult(r, opts.Verbose, out)
}

// FormatDuration renders durations, showing "< 1µs" for zero.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider supplies the active theme's colours to apperrors.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// DisplayMemoryStats prints the memory used by a run.
func DisplayMemoryStats(d metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(d.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(d.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", d.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(d.PauseTotalNs)/1e6)
}
