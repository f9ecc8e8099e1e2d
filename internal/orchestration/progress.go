package orchestration

import (
	"time"

	"github.com/agbru/quadcalc/internal/format"
)

// ProgressAggregator folds per-job updates into one average with an ETA.
// The CLI spinner and the TUI both consume progress through it.
type ProgressAggregator struct {
	state   *format.ProgressWithETA
	numJobs int
}

// NewProgressAggregator returns nil when numJobs <= 0.
func NewProgressAggregator(numJobs int) *ProgressAggregator {
	if numJobs <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:   format.NewProgressWithETA(numJobs),
		numJobs: numJobs,
	}
}

// AggregatedProgress is the view after one update.
type AggregatedProgress struct {
	JobIndex        int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update applies one update.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.JobIndex, update.Value)
	return AggregatedProgress{
		JobIndex:        update.JobIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating, for ticker
// refreshes between updates.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumJobs returns the number of tracked jobs.
func (a *ProgressAggregator) NumJobs() int {
	return a.numJobs
}

// IsMultiJob reports whether more than one job is tracked.
func (a *ProgressAggregator) IsMultiJob() bool {
	return a.numJobs > 1
}

// DrainChannel discards updates until progressChan is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
