// Package trace provides decision-trace recording for queue simulation runs.
// It has no dependencies on sim/ and stores pure data types.
package trace

// AdmissionRecord captures one customer entering the waiting queue.
type AdmissionRecord struct {
	CustomerID string
	Category   string
	Clock      float64 // simulated minute of admission
	QueueDepth int     // waiting customers after the push
}

// DispatchRecord captures one dispatch decision: which customer the discipline chose.
type DispatchRecord struct {
	CustomerID string
	Category   string
	Clock      float64 // simulated minute of service start
	Wait       float64
	QueueDepth int // customers still waiting after the pop
}
