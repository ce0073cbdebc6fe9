// Computes heap-wide statistics such as fragmentation and block counts.

package sim

import (
	"github.com/inference-sim/memsim/sim/memory"
)

// Statistics is a point-in-time summary of the heap.
type Statistics struct {
	Clock       int64
	Allocations int
	Releases    int

	FreeBlocks      int
	AllocatedBlocks int
	TotalFree       int // words in free blocks
	TotalAllocated  int // words in allocated blocks, headers included
	AvgFree         float64
	AvgAllocated    float64

	// SatisfiableRequests counts free blocks that could hold a request the
	// size of the average allocated block.
	SatisfiableRequests int
	// UnusableFreePct is the share of free memory that requests of the
	// average allocated size could not occupy.
	UnusableFreePct float64
}

// ComputeStatistics walks the heap and summarizes it.
// Averages and percentages over empty populations are reported as 0.
func ComputeStatistics(heap *memory.Allocator, now int64, allocations, releases int) (Statistics, error) {
	st := Statistics{Clock: now, Allocations: allocations, Releases: releases}

	blocks, err := heap.Blocks()
	if err != nil {
		return st, err
	}
	for _, b := range blocks {
		if b.Header.Use() {
			st.AllocatedBlocks++
			st.TotalAllocated += b.Header.Size()
		} else {
			st.FreeBlocks++
			st.TotalFree += b.Header.Size()
		}
	}
	if st.FreeBlocks > 0 {
		st.AvgFree = float64(st.TotalFree) / float64(st.FreeBlocks)
	}
	if st.AllocatedBlocks > 0 {
		st.AvgAllocated = float64(st.TotalAllocated) / float64(st.AllocatedBlocks)
	}

	// A request of the average size needs one more word for its header.
	need := int(st.AvgAllocated) + 1
	for _, b := range blocks {
		if !b.Header.Use() && b.Header.Size() >= need {
			st.SatisfiableRequests++
		}
	}
	if st.TotalFree > 0 {
		st.UnusableFreePct = 100 * (1 - float64(st.SatisfiableRequests)*st.AvgAllocated/float64(st.TotalFree))
	}
	return st, nil
}
