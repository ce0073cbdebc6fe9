package workload

import (
	"math/rand"

	"github.com/cockroachdb/errors"

	"github.com/inference-sim/memsim/sim"
)

// UniformSource draws request size, holding time and inter-arrival time
// from independent samplers sharing one RNG stream.
// Deterministic given the same config and seed.
type UniformSource struct {
	rng                  *rand.Rand
	size, hold, interval Sampler
}

// NewUniformSource creates a source over the ranges in cfg drawing from rng.
func NewUniformSource(cfg sim.WorkloadConfig, rng *rand.Rand) (*UniformSource, error) {
	size, err := NewSampler(cfg.Size)
	if err != nil {
		return nil, errors.Wrap(err, "size")
	}
	hold, err := NewSampler(cfg.Hold)
	if err != nil {
		return nil, errors.Wrap(err, "hold")
	}
	interval, err := NewSampler(cfg.Arrival)
	if err != nil {
		return nil, errors.Wrap(err, "arrival")
	}
	return &UniformSource{rng: rng, size: size, hold: hold, interval: interval}, nil
}

// Next draws size, hold and inter-arrival, in that order.
func (u *UniformSource) Next() sim.WorkloadParams {
	return sim.WorkloadParams{
		Size:         u.size.Sample(u.rng),
		Hold:         u.hold.Sample(u.rng),
		Interarrival: u.interval.Sample(u.rng),
	}
}

// NewSource builds the workload source for a run: the scripted source when
// cfg.Workload.Script is set, otherwise a UniformSource seeded from the
// workload stream of cfg.Seed.
func NewSource(cfg sim.SimConfig) (sim.WorkloadSource, error) {
	if cfg.Workload.Script != "" {
		script, err := LoadScript(cfg.Workload.Script)
		if err != nil {
			return nil, err
		}
		return script, nil
	}
	uniform, err := NewUniformSource(cfg.Workload, sim.NewSimulationKey(cfg.Seed).WorkloadRNG())
	if err != nil {
		return nil, err
	}
	return uniform, nil
}
