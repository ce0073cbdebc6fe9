// Package sim provides the discrete-event driver for the allocator simulation.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: AllocationEvent and ReleaseEvent, the two things that happen
//   - queue.go: EventQueue, the time-ordered queue with its tie-break rule
//   - simulator.go: the event loop and its terminal states
//
// # Architecture
//
// The allocator itself lives in sim/memory/ and knows nothing about time.
// The sim package owns the clock, the event queue and the counters, and
// drives the allocator one event at a time. Sub-packages:
//   - sim/memory/: address space and boundary-tag allocator
//   - sim/workload/: WorkloadSource implementations (uniform, scripted)
//   - sim/trace/: event trace recording
//
// # Key Interfaces
//
//   - Event: timestamp plus an Execute step against the Simulator
//   - WorkloadSource: request size, holding time and inter-arrival time per allocation
//   - Reporter: receives a Statistics snapshot every SnapshotEvery allocations
package sim
