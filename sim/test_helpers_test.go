package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedSource returns the same parameters for every request.
type fixedSource struct {
	params WorkloadParams
	calls  int
}

func (f *fixedSource) Next() WorkloadParams {
	f.calls++
	return f.params
}

// recordingReporter keeps every snapshot it is handed.
type recordingReporter struct {
	snapshots []Statistics
}

func (r *recordingReporter) Report(st Statistics) error {
	r.snapshots = append(r.snapshots, st)
	return nil
}

// stubEvent is a no-op event used to exercise queue ordering.
type stubEvent struct {
	time int64
	id   string
}

func (e *stubEvent) Timestamp() int64         { return e.time }
func (e *stubEvent) Execute(*Simulator) error { return nil }

func testConfig(capacity, budget int) SimConfig {
	cfg := DefaultSimConfig()
	cfg.Capacity = capacity
	cfg.Budget = budget
	cfg.SnapshotEvery = 0
	cfg.CheckInvariants = true
	return cfg
}

func newTestSimulator(t *testing.T, cfg SimConfig, params WorkloadParams) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, &fixedSource{params: params}, nil)
	require.NoError(t, err)
	return s
}
