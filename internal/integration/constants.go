package integration

// ─────────────────────────────────────────────────────────────────────────────
// Engine Limits and Defaults
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultMaxSamples is the hard ceiling on the requested sample count.
	// Requests above it fail with ErrSampleCountExceeded.
	DefaultMaxSamples uint64 = 1_000_000_000

	// DefaultParallelThreshold is the sample count above which the dispatcher
	// hands the request to the parallel engine. At or below it a single
	// sequential pass is cheaper than spawning the workers.
	DefaultParallelThreshold uint64 = 10_000

	// TrapezoidWorkers is the worker count of the trapezoid variant.
	TrapezoidWorkers = 16

	// MidpointWorkers is the worker count of the midpoint variant.
	MidpointWorkers = 32

	// DefaultReferenceSamples is the minimum sample count of the reference
	// integration used by the Estimator.
	DefaultReferenceSamples uint64 = 10_000_000

	// ReferenceOversampling is the factor applied to the requested sample
	// count when it exceeds DefaultReferenceSamples.
	ReferenceOversampling = 16
)

// ─────────────────────────────────────────────────────────────────────────────
// Remainder Bound
// ─────────────────────────────────────────────────────────────────────────────

// midpointErrorDenominator is the 24 in (b-a)·h²/24·max|f''|.
const midpointErrorDenominator = 24.0
