// Package sim provides the single-server queue simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - customer.go: Customer lifecycle (waiting → served), categories and priority ranks
//   - queue.go: the two queue disciplines (partitioned FIFO, priority heap)
//   - simulator.go: the time-advancement loop that admits and dispatches customers
//
// # Architecture
//
// Arrivals are ordered once, up front, by one of two hand-written sorts (sort.go).
// The Simulator then jumps its clock from arrival to service end, never idling
// while a customer waits. Statistics are reduced from the served sequence
// afterwards (metrics.go) and never observed mid-run.
//
// Sub-packages:
//   - sim/workload/: CSV input loading and seeded synthetic workload generation
//   - sim/trace/: admission and dispatch decision trace recording
//
// # Key Interfaces
//   - Discipline: Push / PopNext over waiting customers
//   - Sorter: arrival ordering (merge or quick)
package sim
