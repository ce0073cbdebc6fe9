package sim

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/memsim/sim/memory"
	"github.com/inference-sim/memsim/sim/trace"
)

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator) error
}

// AllocationEvent is a request for memory arriving at the allocator.
type AllocationEvent struct {
	time int64 // Simulation time of arrival (in ticks)
}

// NewAllocationEvent returns an allocation request arriving at time.
func NewAllocationEvent(time int64) *AllocationEvent {
	return &AllocationEvent{time: time}
}

// Timestamp returns the scheduled time of the AllocationEvent.
func (e *AllocationEvent) Timestamp() int64 {
	return e.time
}

// Execute draws workload parameters and asks the allocator for a block.
// On success it schedules the block's release and the next request.
// On failure the simulator moves to StateOutOfMemory.
func (e *AllocationEvent) Execute(sim *Simulator) error {
	p := sim.Workload.Next()

	addr, err := sim.Heap.Allocate(p.Size)
	if errors.Is(err, memory.ErrOutOfMemory) {
		free, werr := sim.Heap.FreeBlocks()
		if werr != nil {
			return werr
		}
		sim.State = StateOutOfMemory
		sim.OutOfMemory = &OutOfMemoryReport{Clock: e.time, RequestSize: p.Size, FreeBlocks: free}
		logrus.Infof("<< Allocation of size %d at %d ticks could not be honored", p.Size, e.time)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "allocation at tick %d", e.time)
	}
	logrus.Debugf("<< Allocation of size %d at %d ticks to location %d", p.Size, e.time, addr)

	// On a tie the later-queued request is served first.
	sim.Schedule(NewReleaseEvent(e.time+int64(p.Hold), addr))
	sim.Schedule(NewAllocationEvent(e.time + int64(p.Interarrival)))
	sim.Allocations++
	sim.record(trace.EventRecord{Clock: e.time, Kind: trace.KindAllocation, Address: int(addr), Size: p.Size})

	if every := sim.Config.SnapshotEvery; every > 0 && sim.Allocations%every == 0 && sim.Reporter != nil {
		stats, err := ComputeStatistics(sim.Heap, e.time, sim.Allocations, sim.Releases)
		if err != nil {
			return err
		}
		if err := sim.Reporter.Report(stats); err != nil {
			return errors.Wrap(err, "reporting statistics")
		}
	}
	return nil
}

// ReleaseEvent returns a previously allocated block to the allocator.
type ReleaseEvent struct {
	time    int64          // Simulation time of release (in ticks)
	Address memory.Address // Block handed out by the matching allocation
}

// NewReleaseEvent returns a release of addr scheduled at time.
func NewReleaseEvent(time int64, addr memory.Address) *ReleaseEvent {
	return &ReleaseEvent{time: time, Address: addr}
}

// Timestamp returns the scheduled time of the ReleaseEvent.
func (e *ReleaseEvent) Timestamp() int64 {
	return e.time
}

// Execute releases the block.
func (e *ReleaseEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< Release of location %d at %d ticks", e.Address, e.time)
	if err := sim.Heap.Release(e.Address); err != nil {
		return errors.Wrapf(err, "release at tick %d", e.time)
	}
	sim.Releases++
	sim.record(trace.EventRecord{Clock: e.time, Kind: trace.KindRelease, Address: int(e.Address)})
	return nil
}
