// Package montecarlo simulates stock price paths under geometric Brownian motion and
// reduces the resulting ensemble to target-price probabilities and percentile statistics.
//
// Each step applies the log-normal update
//
//	S(t) = S(t-1) · exp((μ − σ²/2)·dt + σ·√dt·Z),  dt = 1/252
//
// so every simulated price stays strictly positive. Paths are independent and are
// generated in parallel; each path draws from its own PCG stream keyed by the run seed
// and the path index, which makes a seeded run bit-identical for any worker count.
package montecarlo

import (
	"errors"
	"fmt"
	"math"
)

// TradingDaysPerYear fixes the simulation time step at one trading day.
const TradingDaysPerYear = 252

// dt is one trading day expressed as a fraction of a trading year.
const dt = 1.0 / TradingDaysPerYear

// DefaultPathCount is the ensemble size used when callers do not choose one.
const DefaultPathCount = 10000

// DefaultHorizonDays is the horizon used by the analysis pipelines.
const DefaultHorizonDays = 30

// maxLogExcursion bounds the log-price a path may plausibly reach. exp overflows
// past about 709 and reaches the subnormal range below about -708.
const maxLogExcursion = 700

// diffusionSigmas is how many standard deviations of the cumulative shock the
// log-price bound allows for.
const diffusionSigmas = 10

// ErrInvalidParameter is returned, wrapped with the offending field, for any input
// that fails validation. No simulation work is done when it is returned.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params describes one simulation request.
type Params struct {
	StartingPrice        float64
	AnnualizedVolatility float64 // fraction, e.g. 0.30; <= 0 means no random contribution
	HorizonDays          int
	Drift                float64 // annualized
	PathCount            int

	// Seed makes the draws reproducible. Nil seeds from system entropy.
	Seed *uint64

	// Workers bounds path-generation goroutines. 0 uses GOMAXPROCS.
	Workers int
}

// NewParams returns parameters with the conventional defaults: zero drift and
// DefaultPathCount paths, seeded from system entropy.
func NewParams(startingPrice, volatility float64, horizonDays int) Params {
	return Params{
		StartingPrice:        startingPrice,
		AnnualizedVolatility: volatility,
		HorizonDays:          horizonDays,
		PathCount:            DefaultPathCount,
	}
}

// WithSeed returns a copy of p that draws from the given seed.
func (p Params) WithSeed(seed uint64) Params {
	p.Seed = &seed
	return p
}

// Validate checks the parameter invariants.
func (p Params) Validate() error {
	if math.IsNaN(p.StartingPrice) || math.IsInf(p.StartingPrice, 0) || p.StartingPrice <= 0 {
		return fmt.Errorf("%w: starting price must be positive and finite, got %v", ErrInvalidParameter, p.StartingPrice)
	}
	if p.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon days must be at least 1, got %d", ErrInvalidParameter, p.HorizonDays)
	}
	if p.PathCount < 1 {
		return fmt.Errorf("%w: path count must be at least 1, got %d", ErrInvalidParameter, p.PathCount)
	}
	if math.IsNaN(p.AnnualizedVolatility) || math.IsInf(p.AnnualizedVolatility, 0) {
		return fmt.Errorf("%w: volatility must be finite, got %v", ErrInvalidParameter, p.AnnualizedVolatility)
	}
	if math.IsNaN(p.Drift) || math.IsInf(p.Drift, 0) {
		return fmt.Errorf("%w: drift must be finite, got %v", ErrInvalidParameter, p.Drift)
	}
	if excursion := p.logExcursion(); excursion > maxLogExcursion {
		return fmt.Errorf("%w: volatility %v and drift %v over %d days leave the representable price range", ErrInvalidParameter, p.AnnualizedVolatility, p.Drift, p.HorizonDays)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParameter, p.Workers)
	}
	return nil
}

// logExcursion is the largest |log S(T)| the parameters plausibly produce: the
// starting log-price plus the deterministic drift plus diffusionSigmas of noise.
func (p Params) logExcursion() float64 {
	sigma := math.Max(0, p.AnnualizedVolatility)
	horizon := float64(p.HorizonDays) * dt
	return math.Abs(math.Log(p.StartingPrice)) +
		math.Abs(p.Drift-0.5*sigma*sigma)*horizon +
		diffusionSigmas*sigma*math.Sqrt(horizon)
}

// stepTerms precomputes the per-step drift and diffusion coefficients.
func (p Params) stepTerms() (driftTerm, volTerm float64) {
	sigma := math.Max(0, p.AnnualizedVolatility)
	driftTerm = (p.Drift - 0.5*sigma*sigma) * dt
	volTerm = sigma * math.Sqrt(dt)
	return driftTerm, volTerm
}

// Round2 rounds to two decimal places for console and JSON emission.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
