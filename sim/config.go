package sim

import (
	"github.com/cockroachdb/errors"

	"github.com/inference-sim/memsim/sim/memory"
)

// Range is an inclusive interval of integers.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
	// Dist selects how values are drawn: "uniform" (default) or
	// "exponential" (mean at the midpoint, clamped to [Min, Max]).
	Dist string `yaml:"dist,omitempty"`
}

// Distributions accepted in Range.Dist.
const (
	DistUniform     = "uniform"
	DistExponential = "exponential"
)

// WorkloadConfig parameterizes the synthetic request stream.
type WorkloadConfig struct {
	Size    Range  `yaml:"size"`             // requested payload words
	Hold    Range  `yaml:"hold"`             // ticks between allocation and release
	Arrival Range  `yaml:"arrival"`          // ticks between consecutive allocation requests
	Script  string `yaml:"script,omitempty"` // YAML file of scripted parameters; overrides the ranges
}

// SimConfig groups every knob of a simulation run.
type SimConfig struct {
	Capacity        int            `yaml:"capacity"`         // words in the address space
	Budget          int            `yaml:"budget"`           // successful allocations before the run ends
	SnapshotEvery   int            `yaml:"snapshot_every"`   // allocations between statistics snapshots (0 = never)
	Seed            int64          `yaml:"seed"`             // master seed for the workload RNG
	StrictRelease   bool           `yaml:"strict_release"`   // verify release addresses with a heap walk
	CheckInvariants bool           `yaml:"check_invariants"` // run the heap checker after every event
	TraceReleases   int            `yaml:"trace_releases"`   // events are traced until this many releases (0 = tracing off)
	Workload        WorkloadConfig `yaml:"workload"`
}

// DefaultSimConfig returns the reference configuration: a 2000-word space,
// 4000 allocations, a snapshot every 50, and events traced until the 40th
// release.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Capacity:      2000,
		Budget:        4000,
		SnapshotEvery: 50,
		Seed:          42,
		StrictRelease: true,
		TraceReleases: 40,
		Workload: WorkloadConfig{
			Size:    Range{Min: 1, Max: 100},
			Hold:    Range{Min: 1, Max: 250},
			Arrival: Range{Min: 1, Max: 60},
		},
	}
}

// Validate reports the first configuration error found.
func (c SimConfig) Validate() error {
	if c.Capacity < memory.MinCapacity {
		return errors.Wrapf(memory.ErrCapacity, "capacity %d, need at least %d words", c.Capacity, memory.MinCapacity)
	}
	if c.Budget <= 0 {
		return errors.Newf("budget must be > 0, got %d", c.Budget)
	}
	if c.SnapshotEvery < 0 {
		return errors.Newf("snapshot_every must be >= 0, got %d", c.SnapshotEvery)
	}
	if c.TraceReleases < 0 {
		return errors.Newf("trace_releases must be >= 0, got %d", c.TraceReleases)
	}
	if c.Workload.Script != "" {
		return nil
	}
	for _, field := range []struct {
		name string
		r    Range
	}{
		{"size", c.Workload.Size},
		{"hold", c.Workload.Hold},
		{"arrival", c.Workload.Arrival},
	} {
		name, r := field.name, field.r
		if r.Min < 1 || r.Max < r.Min {
			return errors.Newf("workload %s range [%d,%d] must satisfy 1 <= min <= max", name, r.Min, r.Max)
		}
		if r.Dist != "" && r.Dist != DistUniform && r.Dist != DistExponential {
			return errors.Newf("workload %s: unknown dist %q", name, r.Dist)
		}
	}
	return nil
}
