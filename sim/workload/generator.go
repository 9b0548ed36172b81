package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim"
)

// GeneratorConfig parameterizes a synthetic customer workload.
type GeneratorConfig struct {
	Count          int                      // number of customers
	Seed           int64                    // RNG seed; equal seeds give equal workloads
	ArrivalProcess string                   // "poisson" (default), "gamma", "constant"
	ArrivalRate    float64                  // customers per minute
	ArrivalCV      float64                  // coefficient of variation, gamma only
	MeanService    float64                  // mean service minutes (exponential)
	Mix            map[sim.Category]float64 // relative category weights; nil uses DefaultMix
}

// DefaultMix is the category mix used when GeneratorConfig.Mix is nil.
var DefaultMix = map[sim.Category]float64{
	sim.CategoryCorporate: 0.1,
	sim.CategoryPreferred: 0.2,
	sim.CategoryRegular:   0.7,
}

var firstNames = []string{"Jose", "Maria", "Ana", "Paulo", "Lucas", "Carla", "Rita", "Joao", "Beatriz", "Pedro"}
var lastNames = []string{"Silva", "Souza", "Lima", "Reis", "Melo", "Dias", "Alves", "Costa", "Rocha", "Santos"}

// Validate checks the generator parameters.
func (cfg GeneratorConfig) Validate() error {
	if cfg.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", cfg.Count)
	}
	if cfg.MeanService < 0 || math.IsNaN(cfg.MeanService) || math.IsInf(cfg.MeanService, 0) {
		return fmt.Errorf("mean service must be non-negative and finite, got %v", cfg.MeanService)
	}
	total := 0.0
	for cat, w := range cfg.mix() {
		if !cat.IsValid() {
			return fmt.Errorf("unknown category %q in mix", cat)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight for %s must be non-negative and finite, got %v", cat, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("category mix weights must sum to a positive value")
	}
	return nil
}

func (cfg GeneratorConfig) mix() map[sim.Category]float64 {
	if cfg.Mix == nil {
		return DefaultMix
	}
	return cfg.Mix
}

// Generate produces cfg.Count customers with non-decreasing arrival times.
// Times are rounded to hundredths of a minute so the CSV output round-trips exactly.
func Generate(cfg GeneratorConfig) ([]*sim.Customer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	sampler, err := NewArrivalSampler(cfg.ArrivalProcess, cfg.ArrivalRate, cfg.ArrivalCV)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	// cumulative weights in fixed category order so the draw is deterministic
	mix := cfg.mix()
	cumulative := make([]float64, len(sim.Categories))
	total := 0.0
	for i, cat := range sim.Categories {
		total += mix[cat]
		cumulative[i] = total
	}

	customers := make([]*sim.Customer, 0, cfg.Count)
	clock := 0.0
	for i := 0; i < cfg.Count; i++ {
		clock += sampler.SampleIAT(rng)
		cat := pickCategory(rng.Float64()*total, cumulative)
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		service := 0.0
		if cfg.MeanService > 0 {
			service = roundMinutes(rng.ExpFloat64() * cfg.MeanService)
		}
		customers = append(customers, sim.NewCustomer(fmt.Sprintf("%d", i+1), name, cat, service, roundMinutes(clock)))
	}
	logrus.Debugf("generated %d customers (seed=%d, process=%q, rate=%v/min)", len(customers), cfg.Seed, cfg.ArrivalProcess, cfg.ArrivalRate)
	return customers, nil
}

func pickCategory(u float64, cumulative []float64) sim.Category {
	for i, edge := range cumulative {
		if u < edge {
			return sim.Categories[i]
		}
	}
	// u == total after float rounding; fall back to the last category with weight
	for i := len(cumulative) - 1; i > 0; i-- {
		if cumulative[i] > cumulative[i-1] {
			return sim.Categories[i]
		}
	}
	return sim.Categories[0]
}

func roundMinutes(v float64) float64 {
	return math.Round(v*100) / 100
}
