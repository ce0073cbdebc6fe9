// Package trace provides event-trace recording for allocator simulations.
// This package has no dependencies on sim/ or sim/memory/; it stores pure data types.
package trace

import "fmt"

// EventKind names what happened.
type EventKind string

const (
	KindAllocation EventKind = "allocation"
	KindRelease    EventKind = "release"
)

// EventRecord captures a single processed event.
type EventRecord struct {
	Clock   int64
	Kind    EventKind
	Address int
	Size    int // requested size; 0 for releases
}

func (r EventRecord) String() string {
	if r.Kind == KindAllocation {
		return fmt.Sprintf("Allocation of size %d at time %d to location %d", r.Size, r.Clock, r.Address)
	}
	return fmt.Sprintf("Release memory at location %d at time %d", r.Address, r.Clock)
}
