package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryDelta is the difference between two snapshots taken around a run.
type MemoryDelta struct {
	PeakHeap     uint64 // larger of the two heap readings
	Allocated    uint64 // bytes allocated in between
	NumGC        uint32 // GC cycles completed in between
	PauseTotalNs uint64 // GC pause time in between
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Delta computes the change from before to after. Counters that went
// backwards (snapshots passed in the wrong order) yield zero.
func Delta(before, after MemorySnapshot) MemoryDelta {
	d := MemoryDelta{PeakHeap: max(before.HeapAlloc, after.HeapAlloc)}
	if after.TotalAlloc > before.TotalAlloc {
		d.Allocated = after.TotalAlloc - before.TotalAlloc
	}
	if after.NumGC > before.NumGC {
		d.NumGC = after.NumGC - before.NumGC
	}
	if after.PauseTotalNs > before.PauseTotalNs {
		d.PauseTotalNs = after.PauseTotalNs - before.PauseTotalNs
	}
	return d
}
