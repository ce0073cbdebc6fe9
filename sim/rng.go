package sim

import "math/rand"

// SimulationKey identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// produce identical event sequences and heap states.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// WorkloadRNG returns a new RNG for request parameters. The key seeds it
// directly, so --seed maps one-to-one onto the stream.
// Each call starts the stream over.
func (k SimulationKey) WorkloadRNG() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}
