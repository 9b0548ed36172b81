package sim

import (
	"fmt"

	"github.com/inference-sim/queue-sim/sim/trace"
)

// SimConfig selects the discipline and sort for one run. No other setting
// affects which customer is served when.
type SimConfig struct {
	Discipline    string            // "fifo"/"partitioned_fifo" (default) or "priority"/"priority_structure"
	SortAlgorithm SortAlgorithm     // "merge" (default) or "quick"
	Trace         trace.TraceConfig // decision tracing; zero value disables it
	RecordHistory bool              // keep an undo stack of dispatches
}

// DefaultSimConfig returns partitioned FIFO with merge sort and no tracing.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Discipline:    string(DisciplinePartitionedFIFO),
		SortAlgorithm: SortMerge,
	}
}

// Validate checks that every name in the config is recognized.
func (c SimConfig) Validate() error {
	if !IsValidDiscipline(c.Discipline) {
		return fmt.Errorf("unknown discipline %q", c.Discipline)
	}
	if !IsValidSortAlgorithm(string(c.SortAlgorithm)) {
		return fmt.Errorf("unknown sort algorithm %q", c.SortAlgorithm)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("unknown trace level %q", c.Trace.Level)
	}
	return nil
}
