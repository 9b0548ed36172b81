// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim/trace"
)

// EngineState is the lifecycle state of a Simulator.
type EngineState string

const (
	StateIdle    EngineState = "idle"    // queue empty, arrivals remain
	StateServing EngineState = "serving" // a customer has been popped and is being timestamped
	StateDrained EngineState = "drained" // terminal: no arrivals remain and the queue is empty
)

// ErrAlreadyRun is returned by Run on a Simulator that has already run.
var ErrAlreadyRun = errors.New("simulator has already run")

// Simulator is the core object that holds simulation time, the waiting queue, and the event loop.
// One Simulator runs once. Clock and Discipline belong to the Simulator for the whole run.
type Simulator struct {
	Clock float64
	State EngineState
	// Discipline holds every admitted customer until dispatch
	Discipline Discipline
	// Customers is the input set, in caller order
	Customers []*Customer
	// Served is append-only and ordered by dispatch time
	Served        []*Customer
	MaxQueueDepth int
	// History is nil unless SimConfig.RecordHistory is set
	History *History
	// Trace is nil unless SimConfig.Trace enables it
	Trace *trace.SimulationTrace

	sortAlgorithm SortAlgorithm
	sorter        Sorter
	arrivals      []*Customer // customers sorted by arrival time
	nextArrival   int         // index of the first arrival not yet admitted
	ran           bool
}

// NewSimulator creates a Simulator for the given customers. The customers are not
// validated until Run, so a bad record never leaves a half-built simulator behind.
func NewSimulator(cfg SimConfig, customers []*Customer) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	s := &Simulator{
		Clock:         0,
		State:         StateIdle,
		Discipline:    NewDiscipline(cfg.Discipline),
		Customers:     customers,
		Served:        make([]*Customer, 0, len(customers)),
		sortAlgorithm: cfg.SortAlgorithm,
		sorter:        NewSorter(cfg.SortAlgorithm),
	}
	if s.sortAlgorithm == "" {
		s.sortAlgorithm = SortMerge
	}
	if cfg.RecordHistory {
		s.History = &History{}
	}
	if cfg.Trace.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.Trace)
	}
	return s, nil
}

// SortAlgorithm returns the algorithm used to order arrivals.
func (sim *Simulator) SortAlgorithm() SortAlgorithm {
	return sim.sortAlgorithm
}

func arrivalKey(c *Customer) float64 { return c.ArrivalTime }

// Run validates the input, orders arrivals and serves every customer.
// On a validation error no customer is timestamped.
func (sim *Simulator) Run() error {
	if sim.ran {
		return ErrAlreadyRun
	}
	sim.ran = true

	if err := ValidateCustomers(sim.Customers); err != nil {
		return fmt.Errorf("validating customers: %w", err)
	}
	sim.arrivals = sim.sorter(sim.Customers, arrivalKey)
	logrus.Infof("Starting simulation: %d customers, discipline=%s, sort=%s",
		len(sim.arrivals), sim.Discipline.Kind(), sim.sortAlgorithm)

	for {
		// an empty queue jumps the clock to the next arrival
		if sim.Discipline.Len() == 0 && sim.hasArrivals() {
			sim.State = StateIdle
			sim.Clock = max(sim.Clock, sim.arrivals[sim.nextArrival].ArrivalTime)
		}
		sim.admitArrivals()

		next := sim.Discipline.PopNext()
		if next == nil {
			if sim.hasArrivals() {
				sim.Clock = max(sim.Clock, sim.arrivals[sim.nextArrival].ArrivalTime)
				continue
			}
			sim.State = StateDrained
			break
		}
		sim.serve(next)
		// arrivals during the service window queue up behind the server
		sim.admitArrivals()
		sim.Served = append(sim.Served, next)
	}

	logrus.Infof("[t=%.2f] Simulation ended: %d customers served", sim.Clock, len(sim.Served))
	return nil
}

func (sim *Simulator) hasArrivals() bool {
	return sim.nextArrival < len(sim.arrivals)
}

// admitArrivals pushes every pending arrival with ArrivalTime <= Clock.
func (sim *Simulator) admitArrivals() {
	for sim.hasArrivals() && sim.arrivals[sim.nextArrival].ArrivalTime <= sim.Clock {
		c := sim.arrivals[sim.nextArrival]
		sim.nextArrival++
		sim.Discipline.Push(c)
		depth := sim.Discipline.Len()
		sim.MaxQueueDepth = max(sim.MaxQueueDepth, depth)
		logrus.Debugf("[t=%.2f] << Admit: %s (%s, arrived %.2f), queue=%d", sim.Clock, c.ID, c.Category, c.ArrivalTime, depth)
		if sim.Trace != nil {
			sim.Trace.RecordAdmission(trace.AdmissionRecord{
				CustomerID: c.ID,
				Category:   string(c.Category),
				Clock:      sim.Clock,
				QueueDepth: depth,
			})
		}
	}
}

// serve stamps the service window of c and advances the clock to its end.
func (sim *Simulator) serve(c *Customer) {
	sim.State = StateServing
	c.markServed(max(sim.Clock, c.ArrivalTime))
	sim.Clock = c.ServiceEnd

	wait, _ := c.Wait()
	logrus.Debugf("[t=%.2f] >> Dispatch: %s (%s) start=%.2f end=%.2f wait=%.2f",
		c.ServiceStart, c.ID, c.Category, c.ServiceStart, c.ServiceEnd, wait)
	if sim.History != nil {
		sim.History.Record(c)
	}
	if sim.Trace != nil {
		sim.Trace.RecordDispatch(trace.DispatchRecord{
			CustomerID: c.ID,
			Category:   string(c.Category),
			Clock:      c.ServiceStart,
			Wait:       wait,
			QueueDepth: sim.Discipline.Len(),
		})
	}
}

// Statistics reduces the served sequence of this run.
func (sim *Simulator) Statistics() *Statistics {
	return ComputeStatistics(sim.Served, sim.Discipline.Kind(), sim.sortAlgorithm)
}

// Result is the output of one run: the dispatch-ordered customers and their statistics.
type Result struct {
	Served []*Customer
	Stats  *Statistics
	Trace  *trace.SimulationTrace
	// History is nil unless SimConfig.RecordHistory is set
	History *History
}

// Simulate builds a Simulator, runs it and aggregates the result.
func Simulate(cfg SimConfig, customers []*Customer) (*Result, error) {
	s, err := NewSimulator(cfg, customers)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return &Result{
		Served:  s.Served,
		Stats:   s.Statistics(),
		Trace:   s.Trace,
		History: s.History,
	}, nil
}
