package integration

// Interval is one contiguous sub-range [Lower, Upper) assigned to a worker.
type Interval struct {
	Lower float64
	Upper float64
}

// Width returns Upper - Lower.
func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

// Partition splits [lower, upper] into parts equal-width contiguous
// sub-intervals. Boundary k is lower + k·width/parts, computed from the index
// rather than by repeated addition, so the upper bound of interval k and the
// lower bound of interval k+1 are the same float64. The last upper bound is
// pinned to upper so the tiling covers the interval exactly.
//
// parts below 1 is treated as 1.
func Partition(lower, upper float64, parts int) []Interval {
	if parts < 1 {
		parts = 1
	}
	width := upper - lower
	intervals := make([]Interval, parts)
	for k := range parts {
		intervals[k] = Interval{
			Lower: partitionBound(lower, upper, width, k, parts),
			Upper: partitionBound(lower, upper, width, k+1, parts),
		}
	}
	return intervals
}

func partitionBound(lower, upper, width float64, k, parts int) float64 {
	if k == parts {
		return upper
	}
	return lower + float64(k)*width/float64(parts)
}
