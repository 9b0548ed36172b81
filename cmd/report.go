package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	sim "github.com/inference-sim/queue-sim/sim"
)

// Report is everything written to the statistics file for one run.
type Report struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Stats       *sim.Statistics
	Served      []*sim.Customer
}

// NewReport stamps a simulation result with a fresh run ID and the current time.
func NewReport(res *sim.Result) *Report {
	return &Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now(),
		Stats:       res.Stats,
		Served:      res.Served,
	}
}

// defaultReportPath names the report after its generation time.
func defaultReportPath(at time.Time) string {
	return fmt.Sprintf("stats_%s.txt", at.Format("20060102_150405"))
}

// SaveReport writes the report to path, or to stats_<timestamp>.txt when path is empty.
// Returns the path written.
func SaveReport(path string, r *Report) (string, error) {
	if path == "" {
		path = defaultReportPath(r.GeneratedAt)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	if err := WriteReport(file, r); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing report file: %w", err)
	}
	return path, nil
}

// WriteReport renders the report: run metadata, aggregate statistics, then one
// line per served customer in dispatch order.
func WriteReport(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	st := r.Stats

	_, _ = fmt.Fprintln(bw, "Service Queue Simulation Report")
	_, _ = fmt.Fprintf(bw, "Run ID: %s\n", r.RunID)
	_, _ = fmt.Fprintf(bw, "Generated at: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	_, _ = fmt.Fprintf(bw, "Discipline: %s\n", st.Discipline)
	_, _ = fmt.Fprintf(bw, "Sort algorithm: %s\n", st.SortAlgorithm)
	_, _ = fmt.Fprintf(bw, "Sort complexity: %s\n\n", sim.ComplexityHint(st.SortAlgorithm))

	_, _ = fmt.Fprintf(bw, "Customers served: %d\n", st.Count)
	_, _ = fmt.Fprintf(bw, "Total wait (min): %.2f\n", st.TotalWait)
	_, _ = fmt.Fprintf(bw, "Mean wait (min): %.2f\n", st.MeanWait)
	_, _ = fmt.Fprintf(bw, "Total service (min): %.2f\n\n", st.TotalService)

	_, _ = fmt.Fprintln(bw, "Per customer (id, name, category, arrival, start, end, wait):")
	rows := csv.NewWriter(bw)
	for _, c := range r.Served {
		wait, _ := c.Wait()
		row := []string{c.ID, c.Name, string(c.Category),
			minutes(c.ArrivalTime), minutes(c.ServiceStart), minutes(c.ServiceEnd), minutes(wait)}
		if err := rows.Write(row); err != nil {
			return fmt.Errorf("writing report row %s: %w", c.ID, err)
		}
	}
	rows.Flush()
	if err := rows.Error(); err != nil {
		return fmt.Errorf("writing report rows: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func minutes(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
