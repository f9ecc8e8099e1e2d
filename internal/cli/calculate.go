package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/ui"
)

// PrintExecutionConfig prints the resolved engine settings.
func PrintExecutionConfig(variant string, opts integration.Options, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Variant %s%s%s: %s rule, %s final step.\n",
		ui.ColorMagenta(), variant, ui.ColorReset(), opts.Rule, opts.Boundary)
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Parallelism: %s%d%s workers above %s%s%s samples (max %s), %s accumulation.\n",
		ui.ColorCyan(), opts.Workers, ui.ColorReset(),
		ui.ColorCyan(), format.FormatCount(opts.ParallelThreshold), ui.ColorReset(),
		format.FormatCount(opts.MaxSamples), opts.Accumulation)
}

// PrintExecutionMode prints whether one strategy or a comparison runs.
func PrintExecutionMode(jobs []orchestration.Job, out io.Writer) {
	var modeDesc string
	switch len(jobs) {
	case 0:
		modeDesc = "nothing to run"
	case 1:
		modeDesc = fmt.Sprintf("single integration (%s%s%s)", ui.ColorGreen(), jobs[0].Name(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("comparison of %d strategies", len(jobs))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
