package workload

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/errors"

	"github.com/inference-sim/memsim/sim"
)

// Sampler draws one workload parameter.
type Sampler interface {
	// Sample returns a value >= 1.
	Sample(rng *rand.Rand) int
}

// UniformSampler draws uniformly from [min, max].
type UniformSampler struct {
	min, max int
}

func (s *UniformSampler) Sample(rng *rand.Rand) int {
	if s.min == s.max {
		return s.min
	}
	return s.min + rng.Intn(s.max-s.min+1)
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value int
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int {
	return s.value
}

// ExponentialSampler draws exponentially distributed values around mean,
// rounded and clamped to [min, max]. Used for bursty arrivals.
type ExponentialSampler struct {
	mean     float64
	min, max int
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int {
	v := int(math.Round(rng.ExpFloat64() * s.mean))
	return max(s.min, min(v, s.max))
}

// NewSampler returns a sampler for r: constant when the range is a single
// value, otherwise the distribution named by r.Dist.
func NewSampler(r sim.Range) (Sampler, error) {
	if r.Min < 1 || r.Max < r.Min {
		return nil, errors.Newf("range [%d,%d] must satisfy 1 <= min <= max", r.Min, r.Max)
	}
	if r.Min == r.Max {
		return &ConstantSampler{value: r.Min}, nil
	}
	switch r.Dist {
	case "", sim.DistUniform:
		return &UniformSampler{min: r.Min, max: r.Max}, nil
	case sim.DistExponential:
		return &ExponentialSampler{mean: float64(r.Min+r.Max) / 2, min: r.Min, max: r.Max}, nil
	}
	return nil, errors.Newf("unknown dist %q", r.Dist)
}
