package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// ProgressBufferMultiplier sizes the progress channel per job. Sends never
// block: updates that do not fit are dropped.
const ProgressBufferMultiplier = 5

// ExecuteIntegrations runs every job on req concurrently and returns one
// result per job, in job order. A failing job does not stop the others.
// Progress updates flow to reporter until all jobs have finished.
func ExecuteIntegrations(ctx context.Context, jobs []Job, req Request, reporter ProgressReporter, out io.Writer) []IntegrationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]IntegrationResult, len(jobs))
	progressChan := make(chan ProgressUpdate, len(jobs)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(jobs), out)

	for i, job := range jobs {
		g.Go(func() error {
			send := func(value float64) {
				select {
				case progressChan <- ProgressUpdate{JobIndex: i, Value: value}:
				default:
				}
			}

			start := time.Now()
			if err := ctx.Err(); err != nil {
				results[i] = IntegrationResult{Name: job.Name(), Err: err}
				return nil
			}
			value, err := job.Run(ctx, req, func(done, total int) {
				send(float64(done) / float64(total))
			})
			results[i] = IntegrationResult{Name: job.Name(), Value: value, Duration: time.Since(start), Err: err}
			if err == nil {
				send(1)
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results (successes first, fastest first),
// presents the comparison table and checks that every successful value lies
// within tolerance of the fastest one. The tolerance is relative for values
// larger than 1 in magnitude. It returns the process exit code.
func AnalyzeComparisonResults(results []IntegrationResult, tolerance float64, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *IntegrationResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the integration.\n")
		return handler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !consistent(res.Value, firstValid.Value, tolerance) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s = %g disagrees with %s = %g (tolerance %g).\n",
				res.Name, res.Value, firstValid.Name, firstValid.Value, tolerance)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

func consistent(a, b, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}
