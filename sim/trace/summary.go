package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAdmissions      int
	TotalDispatches      int
	MaxQueueDepth        int
	MeanWait             float64
	MaxWait              float64
	DispatchDistribution map[string]int // category → count of dispatches
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAdmissions = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.QueueDepth > summary.MaxQueueDepth {
			summary.MaxQueueDepth = a.QueueDepth
		}
	}

	summary.TotalDispatches = len(st.Dispatches)
	if len(st.Dispatches) > 0 {
		totalWait := 0.0
		for _, d := range st.Dispatches {
			summary.DispatchDistribution[d.Category]++
			totalWait += d.Wait
			if d.Wait > summary.MaxWait {
				summary.MaxWait = d.Wait
			}
		}
		summary.MeanWait = totalWait / float64(len(st.Dispatches))
	}

	return summary
}
