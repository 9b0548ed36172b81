// Defines the Customer struct that models one person waiting for service in the simulation.
// Tracks arrival time, service duration, category, and the service timestamps set at dispatch.

package sim

import (
	"fmt"
	"math"
	"strings"
)

// Category is the service class of a customer. It determines the priority rank.
type Category string

const (
	CategoryCorporate Category = "corporate"
	CategoryPreferred Category = "preferred"
	CategoryRegular   Category = "regular"
)

// Categories lists every known category in dispatch priority order (highest first).
var Categories = []Category{CategoryCorporate, CategoryPreferred, CategoryRegular}

// categoryRanks maps each category to its priority rank. Lower rank is served first.
var categoryRanks = map[Category]int{
	CategoryCorporate: 1,
	CategoryPreferred: 2,
	CategoryRegular:   3,
}

// categoryAliases accepts the spellings found in legacy input files.
var categoryAliases = map[string]Category{
	"corporate":    CategoryCorporate,
	"corporativo":  CategoryCorporate,
	"preferred":    CategoryPreferred,
	"preferencial": CategoryPreferred,
	"regular":      CategoryRegular,
	"comum":        CategoryRegular,
}

// ParseCategory normalizes a raw category string (case-insensitive, aliases allowed).
// The second return value is false when the string names no known category.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Rank returns the priority rank of the category: corporate=1, preferred=2, regular=3.
// Returns 0 and false for an unrecognized category.
func (c Category) Rank() (int, bool) {
	r, ok := categoryRanks[c]
	return r, ok
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := categoryRanks[c]
	return ok
}

// Customer models a single customer's lifecycle in the simulation.
// ServiceStart and ServiceEnd are written exactly once, by the Simulator, at dispatch.
type Customer struct {
	ID              string   // Unique identifier within one input set
	Name            string   // Display label only
	Category        Category // corporate, preferred, regular
	ServiceDuration float64  // Minutes of service once started
	ArrivalTime     float64  // Simulated minute offset at which the customer becomes eligible

	ServiceStart float64 // Set at dispatch
	ServiceEnd   float64 // ServiceStart + ServiceDuration
	Served       bool    // Tracks whether ServiceStart/ServiceEnd have been set
}

// NewCustomer builds an unserved Customer.
func NewCustomer(id, name string, category Category, serviceDuration, arrivalTime float64) *Customer {
	return &Customer{
		ID:              id,
		Name:            name,
		Category:        category,
		ServiceDuration: serviceDuration,
		ArrivalTime:     arrivalTime,
	}
}

// Wait returns ServiceStart - ArrivalTime. ok is false if the customer has not been served.
func (c *Customer) Wait() (wait float64, ok bool) {
	if !c.Served {
		return 0, false
	}
	return c.ServiceStart - c.ArrivalTime, true
}

// TurnaroundTime returns ServiceEnd - ArrivalTime (wait plus service).
// ok is false if the customer has not been served.
func (c *Customer) TurnaroundTime() (float64, bool) {
	if !c.Served {
		return 0, false
	}
	return c.ServiceEnd - c.ArrivalTime, true
}

// markServed stamps the service window. Panics on a second call: a customer is served once.
func (c *Customer) markServed(start float64) {
	if c.Served {
		panic(fmt.Sprintf("customer %q served twice", c.ID))
	}
	c.ServiceStart = start
	c.ServiceEnd = start + c.ServiceDuration
	c.Served = true
}

// ValidationError identifies the input record that failed validation.
type ValidationError struct {
	Index  int    // Position of the record in the input slice
	ID     string // Customer ID of the offending record
	Field  string // "id", "category", "service_duration", "arrival_time", "customer"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid customer %q at index %d: %s: %s", e.ID, e.Index, e.Field, e.Reason)
}

// ValidateCustomers checks every record before a run. It returns the first violation found.
// IDs must be unique within the set. Unknown categories are rejected rather than
// routed to a default bucket.
func ValidateCustomers(customers []*Customer) error {
	seen := make(map[*Customer]bool, len(customers))
	seenIDs := make(map[string]int, len(customers))
	for i, c := range customers {
		if c == nil {
			return &ValidationError{Index: i, Field: "customer", Reason: "nil record"}
		}
		if seen[c] {
			return &ValidationError{Index: i, ID: c.ID, Field: "customer", Reason: "record appears more than once"}
		}
		seen[c] = true
		if first, dup := seenIDs[c.ID]; dup {
			return &ValidationError{Index: i, ID: c.ID, Field: "id", Reason: fmt.Sprintf("duplicate id (first at index %d)", first)}
		}
		seenIDs[c.ID] = i
		if !c.Category.IsValid() {
			return &ValidationError{Index: i, ID: c.ID, Field: "category", Reason: fmt.Sprintf("unknown category %q", c.Category)}
		}
		if err := checkMinutes(c.ServiceDuration); err != "" {
			return &ValidationError{Index: i, ID: c.ID, Field: "service_duration", Reason: err}
		}
		if err := checkMinutes(c.ArrivalTime); err != "" {
			return &ValidationError{Index: i, ID: c.ID, Field: "arrival_time", Reason: err}
		}
		if c.Served {
			return &ValidationError{Index: i, ID: c.ID, Field: "customer", Reason: "already served"}
		}
	}
	return nil
}

func checkMinutes(v float64) string {
	switch {
	case math.IsNaN(v):
		return "must be a number, got NaN"
	case math.IsInf(v, 0):
		return fmt.Sprintf("must be finite, got %v", v)
	case v < 0:
		return fmt.Sprintf("must be non-negative, got %v", v)
	}
	return ""
}
