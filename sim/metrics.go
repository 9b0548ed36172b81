// Reduces the served-customer sequence of a run into summary statistics for reporting.

package sim

import (
	"fmt"
	"io"
	"sort"
)

// CategoryStats aggregates the customers of one category.
type CategoryStats struct {
	Count     int     `json:"count" yaml:"count"`
	TotalWait float64 `json:"total_wait" yaml:"total_wait"`
	MeanWait  float64 `json:"mean_wait" yaml:"mean_wait"`
}

// Statistics summarizes one run. Discipline and SortAlgorithm are provenance only.
type Statistics struct {
	Count         int                        `json:"count" yaml:"count"`
	TotalWait     float64                    `json:"total_wait" yaml:"total_wait"`
	MeanWait      float64                    `json:"mean_wait" yaml:"mean_wait"`
	MaxWait       float64                    `json:"max_wait" yaml:"max_wait"`
	TotalService  float64                    `json:"total_service" yaml:"total_service"`
	Makespan      float64                    `json:"makespan" yaml:"makespan"` // ServiceEnd of the last dispatch
	ByCategory    map[Category]CategoryStats `json:"by_category" yaml:"by_category"`
	Discipline    DisciplineKind             `json:"discipline_used" yaml:"discipline_used"`
	SortAlgorithm SortAlgorithm              `json:"sort_algorithm_used" yaml:"sort_algorithm_used"`
}

// ComputeStatistics aggregates the served customers. MeanWait is 0 when none were served.
// Customers without service timestamps are skipped.
func ComputeStatistics(served []*Customer, discipline DisciplineKind, sortAlgorithm SortAlgorithm) *Statistics {
	st := &Statistics{
		ByCategory:    make(map[Category]CategoryStats),
		Discipline:    discipline,
		SortAlgorithm: sortAlgorithm,
	}
	for _, c := range served {
		wait, ok := c.Wait()
		if !ok {
			continue
		}
		st.Count++
		st.TotalWait += wait
		st.TotalService += c.ServiceDuration
		st.MaxWait = max(st.MaxWait, wait)
		st.Makespan = max(st.Makespan, c.ServiceEnd)

		cs := st.ByCategory[c.Category]
		cs.Count++
		cs.TotalWait += wait
		st.ByCategory[c.Category] = cs
	}
	if st.Count > 0 {
		st.MeanWait = st.TotalWait / float64(st.Count)
	}
	for cat, cs := range st.ByCategory {
		cs.MeanWait = cs.TotalWait / float64(cs.Count)
		st.ByCategory[cat] = cs
	}
	return st
}

// TopWaiters returns up to k served customers with the longest waits, longest first.
// Equal waits keep dispatch order.
func TopWaiters(served []*Customer, k int) []*Customer {
	candidates := make([]*Customer, 0, len(served))
	for _, c := range served {
		if c.Served {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		wi, _ := candidates[i].Wait()
		wj, _ := candidates[j].Wait()
		return wi > wj
	})
	if k < len(candidates) {
		candidates = candidates[:max(k, 0)]
	}
	return candidates
}

// Print writes a human-readable summary of the statistics to w.
func (st *Statistics) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "=== Simulation Statistics ===")
	_, _ = fmt.Fprintf(w, "Discipline           : %s\n", st.Discipline)
	_, _ = fmt.Fprintf(w, "Sort Algorithm       : %s (%s)\n", st.SortAlgorithm, ComplexityHint(st.SortAlgorithm))
	_, _ = fmt.Fprintf(w, "Customers Served     : %d\n", st.Count)
	_, _ = fmt.Fprintf(w, "Total Wait           : %.2f min\n", st.TotalWait)
	_, _ = fmt.Fprintf(w, "Mean Wait            : %.2f min\n", st.MeanWait)
	_, _ = fmt.Fprintf(w, "Total Service        : %.2f min\n", st.TotalService)
	if st.Count > 0 {
		_, _ = fmt.Fprintf(w, "Max Wait             : %.2f min\n", st.MaxWait)
		_, _ = fmt.Fprintf(w, "Makespan             : %.2f min\n", st.Makespan)
		for _, cat := range Categories {
			cs, ok := st.ByCategory[cat]
			if !ok {
				continue
			}
			_, _ = fmt.Fprintf(w, "  %-10s: %d served, mean wait %.2f min\n", cat, cs.Count, cs.MeanWait)
		}
	}
}
