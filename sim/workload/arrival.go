package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// ArrivalSampler generates inter-arrival times.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in minutes. Never negative.
	SampleIAT(rng *rand.Rand) float64
}

// PoissonSampler generates exponentially-distributed inter-arrival times (CV=1).
type PoissonSampler struct {
	rate float64 // customers per minute
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / s.rate
}

// GammaSampler generates Gamma-distributed inter-arrival times.
// CV > 1 produces bursty arrivals, CV < 1 more regular ones.
type GammaSampler struct {
	shape float64 // 1/CV² (alpha parameter)
	scale float64 // CV²/rate in minutes (beta parameter)
}

func (s *GammaSampler) SampleIAT(rng *rand.Rand) float64 {
	return gammaRand(rng, s.shape, s.scale)
}

// ConstantSampler spaces arrivals evenly at 1/rate minutes.
type ConstantSampler struct {
	iat float64
}

func (s *ConstantSampler) SampleIAT(_ *rand.Rand) float64 {
	return s.iat
}

// gammaRand samples from Gamma(shape, scale) using Marsaglia-Tsang's method.
// For shape < 1: Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := rng.Float64()
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// NewArrivalSampler creates a sampler for the named process at rate customers per minute.
// cv is only read by the gamma process.
func NewArrivalSampler(process string, rate, cv float64) (ArrivalSampler, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("arrival rate must be positive and finite, got %v", rate)
	}
	switch process {
	case "", "poisson":
		return &PoissonSampler{rate: rate}, nil
	case "gamma":
		if cv <= 0 || math.IsNaN(cv) || math.IsInf(cv, 0) {
			return nil, fmt.Errorf("gamma arrival cv must be positive and finite, got %v", cv)
		}
		shape := 1.0 / (cv * cv)
		return &GammaSampler{shape: shape, scale: 1.0 / (rate * shape)}, nil
	case "constant":
		return &ConstantSampler{iat: 1.0 / rate}, nil
	default:
		return nil, fmt.Errorf("unknown arrival process %q (valid: poisson, gamma, constant)", process)
	}
}
