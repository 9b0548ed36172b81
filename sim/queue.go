// Implements the queue disciplines, which hold every admitted customer waiting for the server.
// Customers are pushed on admission and popped once, at dispatch.

package sim

import (
	"container/heap"
	"fmt"
)

// DisciplineKind names a queue discipline.
type DisciplineKind string

const (
	DisciplinePartitionedFIFO   DisciplineKind = "partitioned_fifo"
	DisciplinePriorityStructure DisciplineKind = "priority_structure"
)

// disciplineAliases maps accepted spellings (CLI, YAML) to a discipline kind.
// Empty defaults to partitioned FIFO.
var disciplineAliases = map[string]DisciplineKind{
	"":                   DisciplinePartitionedFIFO,
	"fifo":               DisciplinePartitionedFIFO,
	"list":               DisciplinePartitionedFIFO,
	"partitioned_fifo":   DisciplinePartitionedFIFO,
	"priority":           DisciplinePriorityStructure,
	"heap":               DisciplinePriorityStructure,
	"priority_structure": DisciplinePriorityStructure,
}

// IsValidDiscipline returns true if name is a recognized discipline name or alias.
func IsValidDiscipline(name string) bool {
	_, ok := disciplineAliases[name]
	return ok
}

// ParseDiscipline resolves a name or alias to its canonical kind.
func ParseDiscipline(name string) (DisciplineKind, error) {
	kind, ok := disciplineAliases[name]
	if !ok {
		return "", fmt.Errorf("unknown discipline %q (valid: fifo, priority)", name)
	}
	return kind, nil
}

// Discipline decides which waiting customer is dispatched next.
// Push and PopNext may be interleaved freely.
type Discipline interface {
	// Push admits a customer into the queue.
	Push(c *Customer)
	// PopNext removes and returns the next customer to serve, or nil if the queue is empty.
	PopNext() *Customer
	// Len returns the number of waiting customers.
	Len() int
	// Kind identifies the discipline for reporting.
	Kind() DisciplineKind
}

// NewDiscipline creates a Discipline by name or alias.
// Panics on unrecognized names.
func NewDiscipline(name string) Discipline {
	kind, err := ParseDiscipline(name)
	if err != nil {
		panic(err.Error())
	}
	switch kind {
	case DisciplinePartitionedFIFO:
		return NewPartitionedFIFO()
	case DisciplinePriorityStructure:
		return NewPriorityStructure()
	default:
		panic(fmt.Sprintf("unhandled discipline %q", kind))
	}
}

// FIFOQueue is a first-in first-out queue of customers.
type FIFOQueue struct {
	queue []*Customer
}

// Enqueue adds a customer to the back of the queue.
func (q *FIFOQueue) Enqueue(c *Customer) {
	q.queue = append(q.queue, c)
}

// Dequeue removes the customer at the front. Returns nil if the queue is empty.
func (q *FIFOQueue) Dequeue() *Customer {
	if len(q.queue) == 0 {
		return nil
	}
	c := q.queue[0]
	q.queue[0] = nil
	q.queue = q.queue[1:]
	return c
}

// Len returns the number of customers in the queue.
func (q *FIFOQueue) Len() int {
	return len(q.queue)
}

// PartitionedFIFO keeps one FIFO per category and always drains the highest-priority
// non-empty one. Arrival time only matters through push order within a category.
type PartitionedFIFO struct {
	buckets map[Category]*FIFOQueue
	size    int
}

// NewPartitionedFIFO creates an empty partitioned FIFO with one bucket per known category.
func NewPartitionedFIFO() *PartitionedFIFO {
	p := &PartitionedFIFO{buckets: make(map[Category]*FIFOQueue, len(Categories))}
	for _, cat := range Categories {
		p.buckets[cat] = &FIFOQueue{}
	}
	return p
}

// Push appends c to its category's bucket.
// Panics on an unknown category: customers are validated before a run.
func (p *PartitionedFIFO) Push(c *Customer) {
	bucket, ok := p.buckets[c.Category]
	if !ok {
		panic(fmt.Sprintf("PartitionedFIFO.Push: unknown category %q for customer %q", c.Category, c.ID))
	}
	bucket.Enqueue(c)
	p.size++
}

// PopNext scans corporate, preferred, regular and pops the front of the first non-empty bucket.
func (p *PartitionedFIFO) PopNext() *Customer {
	for _, cat := range Categories {
		if c := p.buckets[cat].Dequeue(); c != nil {
			p.size--
			return c
		}
	}
	return nil
}

func (p *PartitionedFIFO) Len() int { return p.size }

func (p *PartitionedFIFO) Kind() DisciplineKind { return DisciplinePartitionedFIFO }

// queuedCustomer is a heap entry keyed by (rank, arrival, seq).
type queuedCustomer struct {
	rank     int
	arrival  float64
	seq      uint64
	customer *Customer
}

// customerHeap implements heap.Interface as a min-heap on the composite key.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type customerHeap []queuedCustomer

func (h customerHeap) Len() int { return len(h) }
func (h customerHeap) Less(i, j int) bool {
	if h[i].rank != h[j].rank {
		return h[i].rank < h[j].rank
	}
	if h[i].arrival != h[j].arrival {
		return h[i].arrival < h[j].arrival
	}
	return h[i].seq < h[j].seq
}
func (h customerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *customerHeap) Push(x any) {
	*h = append(*h, x.(queuedCustomer))
}

func (h *customerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queuedCustomer{}
	*h = old[0 : n-1]
	return item
}

// PriorityStructure is a single min-heap ordered by rank, then arrival time, then
// insertion sequence. The sequence counter makes the order total.
type PriorityStructure struct {
	heap    customerHeap
	nextSeq uint64
}

// NewPriorityStructure creates an empty priority structure.
func NewPriorityStructure() *PriorityStructure {
	return &PriorityStructure{heap: make(customerHeap, 0)}
}

// Push inserts c with the next sequence number.
// Panics on an unknown category: customers are validated before a run.
func (p *PriorityStructure) Push(c *Customer) {
	rank, ok := c.Category.Rank()
	if !ok {
		panic(fmt.Sprintf("PriorityStructure.Push: unknown category %q for customer %q", c.Category, c.ID))
	}
	heap.Push(&p.heap, queuedCustomer{rank: rank, arrival: c.ArrivalTime, seq: p.nextSeq, customer: c})
	p.nextSeq++
}

// PopNext extracts the customer with the smallest (rank, arrival, seq) key.
func (p *PriorityStructure) PopNext() *Customer {
	if len(p.heap) == 0 {
		return nil
	}
	return heap.Pop(&p.heap).(queuedCustomer).customer
}

func (p *PriorityStructure) Len() int { return len(p.heap) }

func (p *PriorityStructure) Kind() DisciplineKind { return DisciplinePriorityStructure }
