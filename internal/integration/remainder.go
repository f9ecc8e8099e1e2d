package integration

import "math"

// RemainderBound returns the composite midpoint-rule error bound
//
//	(upper - lower) · step² / 24 · max|f''(x)|
//
// where the maximum is taken over the step positions lower + n·step with
// x+step < upper, the same progression AccumulateRange walks in truncate
// mode. Degenerate input (upper <= lower, step <= 0 or NaN) yields 0.
func RemainderBound(secondDerivative Integrand, lower, upper, step float64) float64 {
	if !(step > 0) || !(upper > lower) {
		return 0
	}

	var maxAbs float64
	for n := uint64(0); ; n++ {
		x := lower + float64(n)*step
		if !(x+step < upper) {
			break
		}
		if v := math.Abs(secondDerivative(x)); v > maxAbs {
			maxAbs = v
		}
	}
	return (upper - lower) * step * step / midpointErrorDenominator * maxAbs
}
