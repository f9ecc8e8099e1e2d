// Package integration implements the numerical-integration engine: composite
// trapezoid and midpoint sums over a uniform step, a threshold dispatcher that
// switches between a single sequential pass and a fixed-size worker fan-out,
// and the midpoint remainder-bound estimator.
//
// The parallel path splits [lower, upper] into T equal sub-intervals whose
// bounds are derived from the worker index, computes one local sum per
// sub-interval in its own goroutine, and merges the partial sums through an
// Accumulator. The step is always derived from the global sample count, so
// every worker samples its sub-interval at the density of the whole request.
package integration
