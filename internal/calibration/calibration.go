// Package calibration benchmarks the parallel integration path at several
// worker counts and persists the fastest one as a profile reused by later
// runs on the same machine.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/quadcalc/internal/integration"
)

const (
	// CalibrationSamples is the sample count of each benchmark run.
	CalibrationSamples uint64 = 2_000_000
	// calibrationRepetitions is the number of timed runs per candidate; the
	// fastest is kept.
	calibrationRepetitions = 3
)

// Benchmark interval of the reference integrand.
const (
	calibrationLower = -1.0
	calibrationUpper = 2.0
)

type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// Options configures RunCalibration.
type Options struct {
	// Engine is the base engine configuration; Workers is overridden per
	// candidate.
	Engine integration.Options
	// Candidates are the worker counts to time. Empty selects
	// GenerateWorkerCounts.
	Candidates []int
	// Samples per run; 0 selects CalibrationSamples.
	Samples uint64
	// ProfilePath receives the profile; empty skips saving.
	ProfilePath string
	Logger      zerolog.Logger
}

// RunCalibration times IntegrateParallel on the reference integrand for every
// candidate, prints a summary table to out and saves the winning worker count.
// It stops early when ctx is canceled.
func RunCalibration(ctx context.Context, opts Options, out io.Writer) (*CalibrationProfile, error) {
	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = GenerateWorkerCounts()
	}
	samples := opts.Samples
	if samples == 0 {
		samples = CalibrationSamples
	}

	fmt.Fprintf(out, "--- Calibration ---\nTiming %d worker counts at %d samples...\n", len(candidates), samples)
	start := time.Now()
	results, err := benchmark(ctx, opts.Engine, candidates, samples, opts.Logger)
	if err != nil {
		return nil, err
	}

	best, ok := fastest(results)
	printCalibrationResults(out, results, best)
	if !ok {
		return nil, fmt.Errorf("calibration failed: no worker count completed")
	}

	profile := NewProfile()
	profile.OptimalWorkers = best
	profile.CalibrationSamples = samples
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	printCalibrationOutput(profile, out)

	if opts.ProfilePath != "" {
		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			return profile, err
		}
		fmt.Fprintf(out, "Profile saved to %s\n", opts.ProfilePath)
	}
	return profile, nil
}

func benchmark(ctx context.Context, base integration.Options, candidates []int, samples uint64, logger zerolog.Logger) ([]calibrationResult, error) {
	results := make([]calibrationResult, 0, len(candidates))
	for _, workers := range candidates {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		opts := base
		opts.Workers = workers
		engine := integration.NewEngine(integration.WithOptions(opts))

		res := calibrationResult{Workers: workers, Duration: time.Duration(1<<63 - 1)}
		for range calibrationRepetitions {
			t0 := time.Now()
			_, err := engine.IntegrateParallel(ctx, integration.ArctanQuartic.F, calibrationLower, calibrationUpper, samples)
			if err != nil {
				res.Err = err
				break
			}
			res.Duration = min(res.Duration, time.Since(t0))
		}
		logger.Debug().Int("workers", workers).Dur("best", res.Duration).Err(res.Err).Msg("calibration candidate")
		results = append(results, res)
	}
	return results, nil
}

// fastest returns the worker count of the quickest successful result. Ties
// go to the smaller count.
func fastest(results []calibrationResult) (int, bool) {
	best, found := 0, false
	var bestDuration time.Duration
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Duration < bestDuration {
			best, bestDuration, found = r.Workers, r.Duration, true
		}
	}
	return best, found
}
