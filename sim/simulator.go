// sim/simulator.go
package sim

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/memsim/sim/memory"
	"github.com/inference-sim/memsim/sim/trace"
)

// WorkloadParams are the three numbers drawn for each allocation request.
type WorkloadParams struct {
	Size         int // requested payload words
	Hold         int // ticks until the block is released
	Interarrival int // ticks until the next allocation request
}

// WorkloadSource produces request parameters, one set per allocation event.
type WorkloadSource interface {
	Next() WorkloadParams
}

// Reporter receives periodic statistics snapshots.
type Reporter interface {
	Report(Statistics) error
}

// State is the driver's position in its state machine.
type State int

const (
	// StateRunning means events are still being processed.
	StateRunning State = iota
	// StateExhausted means the allocation budget was met.
	StateExhausted
	// StateDrained means the queue emptied before the budget was met.
	StateDrained
	// StateOutOfMemory means an allocation request could not be honored.
	StateOutOfMemory
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExhausted:
		return "exhausted"
	case StateDrained:
		return "drained"
	case StateOutOfMemory:
		return "out-of-memory"
	}
	return "unknown"
}

// OutOfMemoryReport describes the heap at the moment a request failed.
type OutOfMemoryReport struct {
	Clock       int64
	RequestSize int
	FreeBlocks  []memory.FreeBlock // in address order
}

// Simulator is the core object that holds simulation time, heap state, and the event loop.
type Simulator struct {
	Clock  int64
	Config SimConfig
	// Queue has every pending allocation and release event
	Queue *EventQueue
	Heap  *memory.Allocator
	// Workload draws the parameters of each allocation request
	Workload WorkloadSource
	// Reporter, if set, is handed a snapshot every Config.SnapshotEvery allocations
	Reporter Reporter
	// Trace, if set, records events until the Config.TraceReleases-th release
	Trace       *trace.SimulationTrace
	Allocations int
	Releases    int
	State       State
	// OutOfMemory is set when State is StateOutOfMemory
	OutOfMemory *OutOfMemoryReport
}

// NewSimulator formats a fresh address space and queues the first
// allocation request at tick 0.
func NewSimulator(cfg SimConfig, workload WorkloadSource, reporter Reporter) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid simulation config")
	}
	if workload == nil {
		panic("NewSimulator: workload must not be nil")
	}
	heap, err := memory.New(cfg.Capacity, memory.WithStrictRelease(cfg.StrictRelease))
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		Clock:    0,
		Config:   cfg,
		Queue:    NewEventQueue(),
		Heap:     heap,
		Workload: workload,
		Reporter: reporter,
		State:    StateRunning,
	}
	if cfg.TraceReleases > 0 {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{MaxReleases: cfg.TraceReleases})
	}
	s.Schedule(NewAllocationEvent(0))
	return s, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.Queue.Enqueue(ev)
}

// Run processes events until the simulator leaves StateRunning.
// Running out of memory is a terminal state, not an error; errors are
// reserved for invalid releases, heap corruption and reporter failures.
func (sim *Simulator) Run() error {
	for sim.State == StateRunning {
		if err := sim.Step(); err != nil {
			return err
		}
	}
	logrus.Infof("[tick %07d] Simulation ended: %s after %d allocations, %d releases",
		sim.Clock, sim.State, sim.Allocations, sim.Releases)
	return nil
}

// Step processes the earliest pending event.
func (sim *Simulator) Step() error {
	if sim.State != StateRunning {
		return nil
	}
	ev := sim.Queue.DequeueEarliest()
	if ev == nil {
		sim.State = StateDrained
		logrus.Warnf("[tick %07d] Event queue drained after %d of %d allocations",
			sim.Clock, sim.Allocations, sim.Config.Budget)
		return nil
	}
	// advance the clock
	sim.Clock = ev.Timestamp()
	logrus.Debugf("[tick %07d] Executing %T", sim.Clock, ev)
	if err := ev.Execute(sim); err != nil {
		return err
	}
	if sim.Config.CheckInvariants {
		if err := sim.Heap.CheckInvariants(); err != nil {
			return errors.Wrapf(err, "after %T at tick %d", ev, sim.Clock)
		}
	}
	if sim.State == StateRunning && sim.Allocations >= sim.Config.Budget {
		sim.State = StateExhausted
	}
	return nil
}

// Succeeded reports whether the run met its allocation budget.
func (sim *Simulator) Succeeded() bool {
	return sim.State == StateExhausted
}

func (sim *Simulator) record(r trace.EventRecord) {
	if sim.Trace != nil {
		sim.Trace.Record(r)
	}
}
