// Candidate worker counts derived from the hardware.

package calibration

import (
	"runtime"
	"slices"

	"github.com/agbru/quadcalc/internal/config"
	"github.com/agbru/quadcalc/internal/integration"
)

// GenerateWorkerCounts returns the worker counts benchmarked by a full
// calibration: powers of two up to four times the CPU count, the CPU count
// itself and the variant defaults. The result is sorted and unique.
//
// Integrand evaluations are cheap and uniform, so counts far above the CPU
// count only add scheduling overhead; small machines still get a few
// oversubscribed candidates.
func GenerateWorkerCounts() []int {
	return workerCountsFor(runtime.NumCPU())
}

func workerCountsFor(numCPU int) []int {
	numCPU = max(numCPU, 1)
	counts := []int{1, numCPU, integration.TrapezoidWorkers, integration.MidpointWorkers}
	for n := 2; n <= 4*numCPU; n *= 2 {
		counts = append(counts, n)
	}
	slices.Sort(counts)
	return slices.Compact(counts)
}

// GenerateQuickWorkerCounts returns a reduced candidate set: sequential, the
// CPU count, the heuristic estimate and the variant defaults.
func GenerateQuickWorkerCounts() []int {
	numCPU := runtime.NumCPU()
	if numCPU == 1 {
		return []int{1}
	}
	counts := []int{1, numCPU, EstimateOptimalWorkers(), integration.TrapezoidWorkers, integration.MidpointWorkers}
	slices.Sort(counts)
	return slices.Compact(counts)
}

// EstimateOptimalWorkers delegates to config.EstimateOptimalWorkers.
func EstimateOptimalWorkers() int { return config.EstimateOptimalWorkers() }
