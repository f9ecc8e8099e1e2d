package calibration

import (
	"runtime"
	"slices"
	"testing"

	"github.com/agbru/quadcalc/internal/integration"
)

func TestWorkerCountsFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numCPU int
		want   []int
	}{
		{1, []int{1, 2, 4, 16, 32}},
		{4, []int{1, 2, 4, 8, 16, 32}},
		{6, []int{1, 2, 4, 6, 8, 16, 32}},
		{16, []int{1, 2, 4, 8, 16, 32, 64}},
		{0, []int{1, 2, 4, 16, 32}},
	}
	for _, tt := range tests {
		if got := workerCountsFor(tt.numCPU); !slices.Equal(got, tt.want) {
			t.Errorf("workerCountsFor(%d) = %v, want %v", tt.numCPU, got, tt.want)
		}
	}
}

func TestGenerateWorkerCounts(t *testing.T) {
	t.Parallel()
	counts := GenerateWorkerCounts()

	if !slices.IsSorted(counts) {
		t.Errorf("counts %v are not sorted", counts)
	}
	if len(slices.Compact(slices.Clone(counts))) != len(counts) {
		t.Errorf("counts %v contain duplicates", counts)
	}
	for _, want := range []int{1, runtime.NumCPU(), integration.TrapezoidWorkers, integration.MidpointWorkers} {
		if !slices.Contains(counts, want) {
			t.Errorf("counts %v should contain %d", counts, want)
		}
	}
	t.Logf("Generated %d worker counts for %d CPUs: %v", len(counts), runtime.NumCPU(), counts)
}

func TestGenerateQuickWorkerCounts(t *testing.T) {
	t.Parallel()
	quick := GenerateQuickWorkerCounts()

	if len(quick) == 0 || quick[0] != 1 {
		t.Errorf("quick counts %v should start with 1", quick)
	}
	if runtime.NumCPU() == 1 {
		if len(quick) != 1 {
			t.Errorf("for 1 CPU, expected [1], got %v", quick)
		}
		return
	}
	if !slices.Contains(quick, EstimateOptimalWorkers()) {
		t.Errorf("quick counts %v should contain the estimate %d", quick, EstimateOptimalWorkers())
	}
}

func TestEstimateOptimalWorkers(t *testing.T) {
	t.Parallel()
	if got := EstimateOptimalWorkers(); got < 1 {
		t.Errorf("EstimateOptimalWorkers() = %d, want >= 1", got)
	}
}
