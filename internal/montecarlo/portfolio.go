package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/montanaflynn/stats"
)

// portfolioStream separates portfolio draws from path streams under the same seed.
const portfolioStream = math.MaxUint64

// Position is one holding in a portfolio simulation. Its period return is drawn
// from N(ExpectedReturn, Volatility).
type Position struct {
	Weight         float64 `json:"weight"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
}

// PortfolioParams describes a multi-position simulation.
//
// Positions are sampled independently of each other: there is no cross-asset
// covariance. This is a simplifying assumption, not a model of diversification.
type PortfolioParams struct {
	Capital   float64
	Target    float64
	Positions []Position
	Trials    int
	Seed      *uint64
}

// PortfolioReport summarizes simulated end-of-period portfolio values.
type PortfolioReport struct {
	InitialCapital       float64 `json:"initial_capital"`
	Target               float64 `json:"target"`
	ProbabilityOfSuccess float64 `json:"probability_of_success"`
	ProbabilityPositive  float64 `json:"prob_positive"`
	ExpectedReturnPct    float64 `json:"expected_return"`
	ExpectedFinalValue   float64 `json:"expected_final_value"`
	MedianFinalValue     float64 `json:"median_final_value"`
	WorstCase5Pct        float64 `json:"worst_case_5pct"`
	BestCase95Pct        float64 `json:"best_case_95pct"`
	Trials               int     `json:"trials"`
}

// Rounded returns a copy with every money and percent field rounded to two decimals.
func (r PortfolioReport) Rounded() PortfolioReport {
	r.InitialCapital = Round2(r.InitialCapital)
	r.Target = Round2(r.Target)
	r.ProbabilityOfSuccess = Round2(r.ProbabilityOfSuccess)
	r.ProbabilityPositive = Round2(r.ProbabilityPositive)
	r.ExpectedReturnPct = Round2(r.ExpectedReturnPct)
	r.ExpectedFinalValue = Round2(r.ExpectedFinalValue)
	r.MedianFinalValue = Round2(r.MedianFinalValue)
	r.WorstCase5Pct = Round2(r.WorstCase5Pct)
	r.BestCase95Pct = Round2(r.BestCase95Pct)
	return r
}

// Validate checks the portfolio invariants.
func (p PortfolioParams) Validate() error {
	if !(p.Capital > 0) || math.IsInf(p.Capital, 0) {
		return fmt.Errorf("%w: capital must be positive and finite, got %v", ErrInvalidParameter, p.Capital)
	}
	if !(p.Target > 0) || math.IsInf(p.Target, 0) {
		return fmt.Errorf("%w: target must be positive and finite, got %v", ErrInvalidParameter, p.Target)
	}
	if p.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalidParameter, p.Trials)
	}
	if len(p.Positions) == 0 {
		return fmt.Errorf("%w: at least one position is required", ErrInvalidParameter)
	}
	for i, pos := range p.Positions {
		if math.IsNaN(pos.Weight) || pos.Weight < 0 {
			return fmt.Errorf("%w: position %d weight must be non-negative, got %v", ErrInvalidParameter, i, pos.Weight)
		}
		if math.IsNaN(pos.Volatility) || pos.Volatility < 0 {
			return fmt.Errorf("%w: position %d volatility must be non-negative, got %v", ErrInvalidParameter, i, pos.Volatility)
		}
		if math.IsNaN(pos.ExpectedReturn) || math.IsInf(pos.ExpectedReturn, 0) {
			return fmt.Errorf("%w: position %d expected return must be finite", ErrInvalidParameter, i)
		}
	}
	return nil
}

// SimulatePortfolio draws Trials independent period returns per position and
// reports the distribution of capital + Σ capital·weight·return.
func SimulatePortfolio(p PortfolioParams) (PortfolioReport, error) {
	if err := p.Validate(); err != nil {
		return PortfolioReport{}, err
	}

	r := rand.New(rand.NewPCG(resolveSeed(p.Seed), portfolioStream))
	finals := make([]float64, p.Trials)
	var reached, positive int

	for i := range finals {
		var gain float64
		for _, pos := range p.Positions {
			ret := pos.ExpectedReturn + pos.Volatility*r.NormFloat64()
			gain += p.Capital * pos.Weight * ret
		}
		finals[i] = p.Capital + gain
		if finals[i] >= p.Target {
			reached++
		}
		if gain > 0 {
			positive++
		}
	}

	sort.Float64s(finals)
	data := stats.Float64Data(finals)
	mean, err := stats.Mean(data)
	if err != nil {
		return PortfolioReport{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return PortfolioReport{}, fmt.Errorf("failed to compute median: %w", err)
	}

	n := float64(p.Trials)
	return PortfolioReport{
		InitialCapital:       p.Capital,
		Target:               p.Target,
		ProbabilityOfSuccess: float64(reached) / n * 100,
		ProbabilityPositive:  float64(positive) / n * 100,
		ExpectedReturnPct:    (mean/p.Capital - 1) * 100,
		ExpectedFinalValue:   mean,
		MedianFinalValue:     median,
		WorstCase5Pct:        linearPercentile(finals, 5),
		BestCase95Pct:        linearPercentile(finals, 95),
		Trials:               p.Trials,
	}, nil
}
