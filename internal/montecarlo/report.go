package montecarlo

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// PercentileMethod selects how percentiles are read from the final-price column.
type PercentileMethod int

const (
	// Linear interpolates between the two closest ranks at h = (n−1)·p/100.
	Linear PercentileMethod = iota
	// NearestRank returns the ⌈n·p/100⌉-th smallest value.
	NearestRank
)

func (m PercentileMethod) String() string {
	if m == NearestRank {
		return "nearest-rank"
	}
	return "linear"
}

// StandardPercentiles are always included in a Report.
var StandardPercentiles = []float64{5, 25, 75, 95}

// PercentileValue pairs a rank in [0, 100] with its price.
type PercentileValue struct {
	Rank  float64 `json:"rank"`
	Value float64 `json:"value"`
}

// Report summarizes an ensemble's final prices against one target price.
// Values are kept at full precision; use Record for the rounded form.
type Report struct {
	StartingPrice     float64           `json:"starting_price"`
	TargetPrice       float64           `json:"target_price"`
	RequiredReturnPct float64           `json:"required_return_pct"`
	Probability       float64           `json:"probability"` // percent of paths at or above target
	Mean              float64           `json:"mean"`
	Median            float64           `json:"median"`
	Percentiles       []PercentileValue `json:"percentiles"`
	Method            string            `json:"method"`
	PathCount         int               `json:"path_count"`
	HorizonDays       int               `json:"horizon_days"`
}

// Percentile looks up a computed rank.
func (r Report) Percentile(rank float64) (float64, bool) {
	for _, p := range r.Percentiles {
		if p.Rank == rank {
			return p.Value, true
		}
	}
	return 0, false
}

// Record is the external JSON shape of a probability analysis, rounded to cents.
type Record struct {
	CurrentPrice   float64 `json:"current_price"`
	TargetPrice    float64 `json:"target_price"`
	RequiredReturn float64 `json:"required_return"`
	Probability    float64 `json:"probability"`
	ExpectedPrice  float64 `json:"expected_price"`
	Percentile5    float64 `json:"percentile_5"`
	Percentile25   float64 `json:"percentile_25"`
	MedianPrice    float64 `json:"median_price"`
	Percentile75   float64 `json:"percentile_75"`
	Percentile95   float64 `json:"percentile_95"`
}

// Record rounds the report to two decimals for emission.
func (r Report) Record() Record {
	p5, _ := r.Percentile(5)
	p25, _ := r.Percentile(25)
	p75, _ := r.Percentile(75)
	p95, _ := r.Percentile(95)
	return Record{
		CurrentPrice:   Round2(r.StartingPrice),
		TargetPrice:    Round2(r.TargetPrice),
		RequiredReturn: Round2(r.RequiredReturnPct),
		Probability:    Round2(r.Probability),
		ExpectedPrice:  Round2(r.Mean),
		Percentile5:    Round2(p5),
		Percentile25:   Round2(p25),
		MedianPrice:    Round2(r.Median),
		Percentile75:   Round2(p75),
		Percentile95:   Round2(p95),
	}
}

type summaryOptions struct {
	extra  []float64
	method PercentileMethod
}

// SummaryOption customizes Summarize.
type SummaryOption func(*summaryOptions)

// WithPercentiles adds ranks to the standard set.
func WithPercentiles(ranks ...float64) SummaryOption {
	return func(o *summaryOptions) { o.extra = append(o.extra, ranks...) }
}

// WithMethod selects the percentile definition. Linear is the default.
func WithMethod(m PercentileMethod) SummaryOption {
	return func(o *summaryOptions) { o.method = m }
}

// RequiredReturnPct is the percent move from start to target.
func RequiredReturnPct(start, target float64) float64 {
	return (target/start - 1) * 100
}

// Summarize reduces the final column of e against target.
func Summarize(e *Ensemble, target float64, opts ...SummaryOption) (Report, error) {
	return summarize(e.StartingPrice(), e.HorizonDays(), e.sortedFinalPrices(), target, opts)
}

// SummarizeFinal reduces final prices from SimulateFinal against target. For the
// same parameters and seed it matches Summarize on the full ensemble.
func SummarizeFinal(p Params, final []float64, target float64, opts ...SummaryOption) (Report, error) {
	if len(final) == 0 {
		return Report{}, fmt.Errorf("%w: no final prices to summarize", ErrInvalidParameter)
	}
	if math.IsNaN(p.StartingPrice) || math.IsInf(p.StartingPrice, 0) || p.StartingPrice <= 0 {
		return Report{}, fmt.Errorf("%w: starting price must be positive and finite, got %v", ErrInvalidParameter, p.StartingPrice)
	}
	sorted := make([]float64, len(final))
	copy(sorted, final)
	sort.Float64s(sorted)
	return summarize(p.StartingPrice, p.HorizonDays, sorted, target, opts)
}

func summarize(start float64, horizonDays int, sorted []float64, target float64, opts []SummaryOption) (Report, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return Report{}, fmt.Errorf("%w: target price must be positive and finite, got %v", ErrInvalidParameter, target)
	}

	o := summaryOptions{method: Linear}
	for _, opt := range opts {
		opt(&o)
	}

	ranks := mergeRanks(StandardPercentiles, o.extra)
	for _, rank := range ranks {
		if math.IsNaN(rank) || rank < 0 || rank > 100 || (o.method == NearestRank && rank == 0) {
			return Report{}, fmt.Errorf("%w: percentile rank %v out of range for %s method", ErrInvalidParameter, rank, o.method)
		}
	}

	data := stats.Float64Data(sorted)

	mean, err := stats.Mean(data)
	if err != nil {
		return Report{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Report{}, fmt.Errorf("failed to compute median: %w", err)
	}

	percentiles := make([]PercentileValue, 0, len(ranks))
	for _, rank := range ranks {
		var value float64
		switch o.method {
		case NearestRank:
			value, err = stats.PercentileNearestRank(data, rank)
			if err != nil {
				return Report{}, fmt.Errorf("failed to compute percentile %v: %w", rank, err)
			}
		default:
			value = linearPercentile(sorted, rank)
		}
		percentiles = append(percentiles, PercentileValue{Rank: rank, Value: value})
	}

	return Report{
		StartingPrice:     start,
		TargetPrice:       target,
		RequiredReturnPct: RequiredReturnPct(start, target),
		Probability:       probabilityAtOrAbove(sorted, target),
		Mean:              mean,
		Median:            median,
		Percentiles:       percentiles,
		Method:            o.method.String(),
		PathCount:         len(sorted),
		HorizonDays:       horizonDays,
	}, nil
}

// linearPercentile reads rank from ascending data by linear interpolation.
func linearPercentile(sorted []float64, rank float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * rank / 100
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func mergeRanks(base, extra []float64) []float64 {
	seen := make(map[float64]bool, len(base)+len(extra))
	out := make([]float64, 0, len(base)+len(extra))
	for _, r := range append(append([]float64{}, base...), extra...) {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Float64s(out)
	return out
}
