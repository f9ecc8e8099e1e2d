package orchestration

import (
	"io"
	"sync"
	"time"
)

// IntegrationResult is the outcome of one job. It is the shared domain type
// between orchestration and presentation.
type IntegrationResult struct {
	// Name identifies the execution strategy (e.g. "parallel/fold").
	Name string
	// Value is the computed integral. It is meaningless when Err is set.
	Value float64
	// Duration is the wall-clock time of the job.
	Duration time.Duration
	// Err is the failure of the job, if any.
	Err error
}

// ProgressUpdate reports the completion fraction of one job.
type ProgressUpdate struct {
	JobIndex int
	Value    float64
}

// PresentationOptions configures how the final result is shown.
type PresentationOptions struct {
	Variant string
	Lower   float64
	Upper   float64
	Samples uint64
	Verbose bool
	Quiet   bool
}

// ProgressReporter displays job progress. DisplayProgress runs in its own
// goroutine, consumes progressChan until it is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer) {
	f(wg, progressChan, numJobs, out)
}

// NullProgressReporter drains the channel without output. Used in quiet mode
// and tests.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders comparison tables and the final result.
type ResultPresenter interface {
	PresentComparisonTable(results []IntegrationResult, out io.Writer)
	PresentResult(result IntegrationResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler prints an integration error and returns the exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
