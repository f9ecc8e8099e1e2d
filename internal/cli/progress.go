package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/orchestration"
)

// DisplayProgress shows a spinner with an aggregated progress bar until
// progressChan is closed. With no jobs it only drains the channel.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, out io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numJobs)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	label := "Integrating"
	if agg.IsMultiJob() {
		label = fmt.Sprintf("Integrating (%d strategies)", agg.NumJobs())
	}
	render := func(progress float64, eta time.Duration) {
		s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(progress, eta, ProgressBarWidth)))
	}

	render(0, 0)
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				render(agg.CalculateAverage(), 0)
				return
			}
			ap := agg.Update(update)
			render(ap.AverageProgress, ap.ETA)
		case <-ticker.C:
			render(agg.CalculateAverage(), agg.GetETA())
		}
	}
}
