package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/quadcalc/internal/cli"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/orchestration"
)

// runCalculate reads the request, integrates it and presents the report.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	in, code := a.readRequest(out)
	if code != apperrors.ExitSuccess {
		return code
	}

	var collector *metrics.MemoryCollector
	var before metrics.MemorySnapshot
	if a.Config.Verbose {
		collector = metrics.NewMemoryCollector()
		before = collector.Snapshot()
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	} else {
		cli.PrintExecutionConfig(a.Config.Variant, a.engineOpts, out)
		fmt.Fprintf(out, "\n--- Starting Execution ---\n")
	}

	report, err := a.calculateWithProgress(ctx, in, reporter, progressOut)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, report.Duration, a.ErrWriter)
	}

	if err := cli.DisplayResultWithConfig(out, report, a.outputConfig()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if collector != nil {
		cli.DisplayMemoryStats(metrics.Delta(before, collector.Snapshot()), out)
	}
	return apperrors.ExitSuccess
}

// runCompare runs the request through every execution strategy and checks
// that they agree.
func (a *Application) runCompare(ctx context.Context, out io.Writer) int {
	in, code := a.readRequest(out)
	if code != apperrors.ExitSuccess {
		return code
	}

	jobs := orchestration.ComparisonJobs(a.engineOpts, a.engineOptions()...)
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config.Variant, a.engineOpts, out)
		cli.PrintExecutionMode(jobs, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	req := orchestration.Request{
		Integrand: a.Function.F,
		Lower:     in.Lower,
		Upper:     in.Upper,
		Samples:   in.Samples,
	}
	results := orchestration.ExecuteIntegrations(ctx, jobs, req, reporter, progressOut)

	presOpts := orchestration.PresentationOptions{
		Variant: a.Config.Variant,
		Lower:   in.Lower,
		Upper:   in.Upper,
		Samples: in.Samples,
		Verbose: a.Config.Verbose,
		Quiet:   a.Config.Quiet,
	}
	presenter := cli.CLIResultPresenter{}
	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config.Tolerance, presOpts, presenter, presenter, out)

	// Results are sorted fastest first; save the winner.
	if exitCode == apperrors.ExitSuccess && a.Config.OutputFile != "" {
		best := results[0]
		report := cli.Report{
			Variant:  a.Config.Variant,
			Lower:    in.Lower,
			Upper:    in.Upper,
			Samples:  in.Samples,
			Value:    best.Value,
			Duration: best.Duration,
		}
		if err := cli.WriteResultToFile(report, a.outputConfig()); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			fmt.Fprintf(out, "\nResult saved to: %s\n", a.Config.OutputFile)
		}
	}
	return exitCode
}

// readRequest completes the configured values from the input reader. Prompts
// are suppressed in quiet mode.
func (a *Application) readRequest(out io.Writer) (cli.ParsedInput, int) {
	promptOut := out
	if a.Config.Quiet {
		promptOut = io.Discard
	}
	in, err := cli.ReadRequest(a.In, promptOut, a.preset())
	if err != nil {
		return in, apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return in, apperrors.ExitSuccess
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
}

// calculateWithProgress runs calculate while reporter renders the engine's
// progress.
func (a *Application) calculateWithProgress(ctx context.Context, in cli.ParsedInput, reporter orchestration.ProgressReporter, out io.Writer) (cli.Report, error) {
	progressChan := make(chan orchestration.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, progressChan, 1, out)

	report, err := a.calculate(ctx, in, func(done, total int) {
		if total <= 0 {
			return
		}
		select {
		case progressChan <- orchestration.ProgressUpdate{Value: float64(done) / float64(total)}:
		default:
		}
	})

	close(progressChan)
	wg.Wait()
	return report, err
}

// calculate integrates in with the configured variant. Variants that report
// an error bound run the estimator; the others a single integration. Engine
// failures are wrapped in apperrors.CalculationError.
func (a *Application) calculate(ctx context.Context, in cli.ParsedInput, progress integration.ProgressFunc) (cli.Report, error) {
	variant, err := integration.LookupVariant(a.Config.Variant)
	if err != nil {
		return cli.Report{}, apperrors.NewConfigError("%v", err)
	}

	opts := append([]integration.Option{integration.WithOptions(a.engineOpts)}, a.engineOptions()...)
	if progress != nil {
		opts = append(opts, integration.WithProgress(progress))
	}
	engine := integration.NewEngine(opts...)

	report := cli.Report{
		Variant: variant.Name,
		Lower:   in.Lower,
		Upper:   in.Upper,
		Samples: in.Samples,
	}
	start := time.Now()
	if variant.ReportsErrorBound {
		est, err := integration.NewEstimator(engine, a.Config.ReferenceSamples, a.engineOptions()...).
			Estimate(ctx, a.Function, in.Lower, in.Upper, in.Samples)
		report.Duration = time.Since(start)
		if err != nil {
			return report, apperrors.CalculationError{Cause: err}
		}
		report.Value = est.Value
		report.Estimate = &est
		return report, nil
	}

	report.Value, err = engine.Integrate(ctx, a.Function.F, in.Lower, in.Upper, in.Samples)
	report.Duration = time.Since(start)
	if err != nil {
		return report, apperrors.CalculationError{Cause: err}
	}
	return report, nil
}
