package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ProgressState tracks the completion fraction of several concurrent jobs.
// It is not safe for concurrent use; a single display goroutine owns it.
type ProgressState struct {
	progresses     []float64
	numCalculators int
}

// NewProgressState creates a state for numJobs jobs, all at zero.
func NewProgressState(numJobs int) *ProgressState {
	if numJobs < 0 {
		numJobs = 0
	}
	return &ProgressState{progresses: make([]float64, numJobs), numCalculators: numJobs}
}

// Update records the completion fraction of one job. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(p.progresses) {
		return
	}
	p.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean completion fraction.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numCalculators == 0 {
		return 0
	}
	var total float64
	for _, v := range p.progresses {
		total += v
	}
	return total / float64(p.numCalculators)
}

// maxETA caps displayed estimates.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest rate sample.
const etaSmoothing = 0.3

// ProgressWithETA adds a smoothed completion rate to ProgressState.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates an ETA-aware state for numJobs jobs.
func NewProgressWithETA(numJobs int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numJobs),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records an update and returns the average progress and the
// estimated time remaining (0 while no rate is known yet).
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining at the current rate.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	seconds := remaining / p.progressRate
	if seconds > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(seconds * float64(time.Second))
}

// FormatETA renders an ETA as "45s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		if s := int(eta.Seconds()) % 60; s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	default:
		h := int(eta.Hours())
		if m := int(eta.Minutes()) % 60; m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
}

// ProgressBar renders progress as length block characters.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(math.Round(clamp01(progress) * float64(length)))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
