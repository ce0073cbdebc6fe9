package trace

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	// MaxReleases stops the trace at the release that brings the release
	// count to MaxReleases; that release and everything after it are dropped.
	// 0 records every event.
	MaxReleases int
}

// SimulationTrace collects event records during a simulation.
type SimulationTrace struct {
	Config   TraceConfig
	Events   []EventRecord
	Dropped  int // events seen after the trace stopped
	releases int // releases seen, recorded or not
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Events: make([]EventRecord, 0),
	}
}

// Record appends an event record. It reports false when the record was
// dropped because the release limit has been reached.
func (st *SimulationTrace) Record(record EventRecord) bool {
	if record.Kind == KindRelease {
		st.releases++
	}
	if st.Config.MaxReleases > 0 && st.releases >= st.Config.MaxReleases {
		st.Dropped++
		return false
	}
	st.Events = append(st.Events, record)
	return true
}
