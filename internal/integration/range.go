package integration

// AccumulateRange sums the rule's per-cell contribution over the uniform
// progression a, a+step, a+2·step, ... spanning [a, b). A full cell is taken
// while x+step < b; what happens to the remainder depends on boundary.
//
// The returned value is a sum of average heights: multiply by step to obtain
// the area. It is a pure function and safe to call from concurrent workers
// operating on disjoint ranges. Degenerate input (b <= a, step <= 0 or NaN)
// yields 0.
func AccumulateRange(f Integrand, rule Rule, a, b, step float64, boundary Boundary) float64 {
	sum, _ := accumulateRange(f, rule, a, b, step, boundary)
	return sum
}

// accumulateRange is AccumulateRange that also reports how many cells were
// evaluated, for the evaluation counters.
func accumulateRange(f Integrand, rule Rule, a, b, step float64, boundary Boundary) (sum float64, cells uint64) {
	if !(step > 0) || !(b > a) {
		return 0, 0
	}

	// Positions derive from the index so long ranges do not drift.
	var n uint64
	x := a
	for {
		next := a + float64(n+1)*step
		if !(next < b) {
			break
		}
		sum += rule.cell(f, x, next)
		cells++
		n++
		x = next
	}

	if boundary == IncludeFinalStep {
		if width := b - x; width > 0 {
			sum += rule.cell(f, x, b) * (width / step)
			cells++
		}
	}
	return sum, cells
}
