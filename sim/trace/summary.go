package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents     int
	Allocations     int
	Releases        int
	MeanRequestSize float64
	MaxRequestSize  int
	LastClock       int64
	Dropped         int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	summary.Dropped = st.Dropped
	totalSize := 0
	for _, r := range st.Events {
		switch r.Kind {
		case KindAllocation:
			summary.Allocations++
			totalSize += r.Size
			if r.Size > summary.MaxRequestSize {
				summary.MaxRequestSize = r.Size
			}
		case KindRelease:
			summary.Releases++
		}
		if r.Clock > summary.LastClock {
			summary.LastClock = r.Clock
		}
	}
	if summary.Allocations > 0 {
		summary.MeanRequestSize = float64(totalSize) / float64(summary.Allocations)
	}
	return summary
}
