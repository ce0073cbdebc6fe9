package workload

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/memsim/sim"
)

// ScriptStep is one scripted allocation request.
type ScriptStep struct {
	Size    int `yaml:"size"`
	Hold    int `yaml:"hold"`
	Arrival int `yaml:"arrival"`
}

// Script is the YAML layout of a scripted workload file:
//
//	steps:
//	  - {size: 10, hold: 100, arrival: 5}
//	  - {size: 90, hold: 20, arrival: 1}
type Script struct {
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptedSource replays a fixed list of parameters, wrapping around
// when it reaches the end.
type ScriptedSource struct {
	steps []sim.WorkloadParams
	next  int
}

// NewScriptedSource returns a source replaying steps in order.
func NewScriptedSource(steps []sim.WorkloadParams) (*ScriptedSource, error) {
	if len(steps) == 0 {
		return nil, errors.New("scripted workload has no steps")
	}
	for i, s := range steps {
		if s.Size < 1 || s.Hold < 1 || s.Interarrival < 1 {
			return nil, errors.Newf("step %d: size, hold and arrival must be >= 1, got %d, %d and %d",
				i, s.Size, s.Hold, s.Interarrival)
		}
	}
	return &ScriptedSource{steps: steps}, nil
}

// Next returns the next scripted step.
func (s *ScriptedSource) Next() sim.WorkloadParams {
	p := s.steps[s.next]
	s.next = (s.next + 1) % len(s.steps)
	return p
}

// LoadScript reads a scripted workload file.
// Uses strict field checking: unknown keys are errors.
func LoadScript(path string) (*ScriptedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading workload script")
	}
	var script Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return nil, errors.Wrapf(err, "parsing workload script %s", path)
	}
	steps := make([]sim.WorkloadParams, 0, len(script.Steps))
	for _, st := range script.Steps {
		steps = append(steps, sim.WorkloadParams{Size: st.Size, Hold: st.Hold, Interarrival: st.Arrival})
	}
	return NewScriptedSource(steps)
}
