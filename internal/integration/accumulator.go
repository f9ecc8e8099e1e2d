package integration

import (
	"fmt"
	"strings"
	"sync"
)

// Accumulation selects how partial sums from parallel workers are combined.
type Accumulation int

const (
	// FoldAccumulation gives every worker its own slot and folds the slots in
	// index order once all workers have finished. The result is
	// bit-reproducible across runs.
	FoldAccumulation Accumulation = iota
	// SharedAccumulation adds every partial sum into one shared cell under a
	// mutex. Addition order follows worker completion order.
	SharedAccumulation
)

// String returns the flag spelling of the strategy.
func (a Accumulation) String() string {
	switch a {
	case FoldAccumulation:
		return "fold"
	case SharedAccumulation:
		return "mutex"
	default:
		return fmt.Sprintf("Accumulation(%d)", int(a))
	}
}

// ParseAccumulation converts a flag value into an Accumulation.
func ParseAccumulation(s string) (Accumulation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return FoldAccumulation, nil
	case "mutex", "shared":
		return SharedAccumulation, nil
	}
	return 0, fmt.Errorf("unknown accumulation strategy %q", s)
}

// Accumulator receives one partial sum per worker. Add is called exactly once
// per worker index, possibly concurrently; Sum is called after every Add has
// returned.
type Accumulator interface {
	Add(worker int, partial float64)
	Sum() float64
}

// NewAccumulator returns the accumulator for the strategy sized for workers.
func NewAccumulator(strategy Accumulation, workers int) Accumulator {
	if strategy == SharedAccumulation {
		return &sharedAccumulator{}
	}
	return &foldAccumulator{slots: make([]float64, workers)}
}

// sharedAccumulator is a single float64 guarded by a mutex. Floating-point
// addition is not atomic, so the lock is what makes each Add indivisible.
type sharedAccumulator struct {
	mu    sync.Mutex
	total float64
}

func (s *sharedAccumulator) Add(_ int, partial float64) {
	s.mu.Lock()
	s.total += partial
	s.mu.Unlock()
}

func (s *sharedAccumulator) Sum() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// foldAccumulator owns one slot per worker. Slots are disjoint, so workers
// never contend; the WaitGroup in the caller publishes the writes to Sum.
type foldAccumulator struct {
	slots []float64
}

func (f *foldAccumulator) Add(worker int, partial float64) {
	f.slots[worker] = partial
}

func (f *foldAccumulator) Sum() float64 {
	var total float64
	for _, v := range f.slots {
		total += v
	}
	return total
}
