package montecarlo

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(start, vol float64, days, paths int, seed uint64) Params {
	p := NewParams(start, vol, days).WithSeed(seed)
	p.PathCount = paths
	return p
}

// normalCDF is Φ(x).
func normalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func TestSimulate_PricesPositiveAndDayZero(t *testing.T) {
	e, err := Simulate(seeded(50, 0.8, 60, 500, 1))
	require.NoError(t, err)

	assert.Equal(t, 500, e.PathCount())
	assert.Equal(t, 60, e.HorizonDays())
	for path := 0; path < e.PathCount(); path++ {
		assert.Equal(t, 50.0, e.Price(path, 0))
		for day := 1; day <= e.HorizonDays(); day++ {
			if p := e.Price(path, day); !(p > 0) || math.IsInf(p, 0) {
				t.Fatalf("path %d day %d: price %v not positive and finite", path, day, p)
			}
		}
	}
}

func TestSimulate_ZeroVolatilityIsDeterministic(t *testing.T) {
	for _, vol := range []float64{0, -0.2} {
		p := NewParams(100, vol, 30)
		p.PathCount = 20
		e, err := Simulate(p)
		require.NoError(t, err)

		for path := 0; path < e.PathCount(); path++ {
			for day := 0; day <= e.HorizonDays(); day++ {
				assert.Equal(t, 100.0, e.Price(path, day), "vol=%v path=%d day=%d", vol, path, day)
			}
		}
	}

	p := NewParams(100, 0, 252)
	p.Drift = 0.05
	p.PathCount = 3
	e, err := Simulate(p)
	require.NoError(t, err)
	assert.InDelta(t, 100*math.Exp(0.05), e.Price(2, 252), 1e-9)
}

func TestSimulate_AtStartNearHalf(t *testing.T) {
	e, err := Simulate(seeded(100, 0.2, 30, 10000, 2024))
	require.NoError(t, err)
	assert.InDelta(t, 50, e.ProbabilityAtOrAbove(100), 3)
}

func TestSimulate_ProbabilityMonotonic(t *testing.T) {
	e, err := Simulate(seeded(100, 0.4, 30, 2000, 9))
	require.NoError(t, err)

	prev := 101.0
	for target := 50.0; target <= 200; target += 2.5 {
		p := e.ProbabilityAtOrAbove(target)
		assert.LessOrEqual(t, p, prev, "target %v", target)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
		prev = p
	}
	assert.Equal(t, 100.0, e.ProbabilityAtOrAbove(1e-9))
	assert.Equal(t, 0.0, e.ProbabilityAtOrAbove(1e9))
}

func TestSummarize_PercentileOrdering(t *testing.T) {
	e, err := Simulate(seeded(100, 0.3, 30, 5000, 3))
	require.NoError(t, err)

	for _, method := range []PercentileMethod{Linear, NearestRank} {
		r, err := Summarize(e, 110, WithMethod(method))
		require.NoError(t, err)

		p5, ok := r.Percentile(5)
		require.True(t, ok)
		p25, _ := r.Percentile(25)
		p75, _ := r.Percentile(75)
		p95, _ := r.Percentile(95)

		assert.LessOrEqual(t, p5, p25, method.String())
		assert.LessOrEqual(t, p25, r.Median, method.String())
		assert.LessOrEqual(t, r.Median, p75, method.String())
		assert.LessOrEqual(t, p75, p95, method.String())
		assert.Equal(t, method.String(), r.Method)
	}
}

func TestSummarize_ReferenceScenario(t *testing.T) {
	p := seeded(100, 0.30, 30, 10000, 42)
	e, err := Simulate(p)
	require.NoError(t, err)

	r, err := Summarize(e, 110)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, r.RequiredReturnPct, 1e-9)

	// Closed form for zero drift: P = 1 − Φ((ln(K/S) + σ²T/2) / (σ√T)).
	years := 30.0 / TradingDaysPerYear
	z := (math.Log(1.1) + 0.5*0.09*years) / (0.30 * math.Sqrt(years))
	expected := (1 - normalCDF(z)) * 100
	assert.InDelta(t, expected, r.Probability, 2)

	again, err := Summarize(mustSimulate(t, p), 110)
	require.NoError(t, err)
	assert.Equal(t, r, again)

	rec := r.Record()
	assert.Equal(t, 100.0, rec.CurrentPrice)
	assert.Equal(t, 110.0, rec.TargetPrice)
	assert.Equal(t, 10.0, rec.RequiredReturn)
	assert.Equal(t, Round2(r.Probability), rec.Probability)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var fields map[string]float64
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"current_price", "target_price", "required_return", "probability",
		"expected_price", "percentile_5", "percentile_25", "median_price", "percentile_75", "percentile_95"} {
		assert.Contains(t, fields, key)
	}
}

func mustSimulate(t *testing.T, p Params) *Ensemble {
	t.Helper()
	e, err := Simulate(p)
	require.NoError(t, err)
	return e
}

func TestSimulate_DeterministicAcrossWorkers(t *testing.T) {
	base := seeded(80, 0.5, 20, 3000, 77)

	single := base
	single.Workers = 1
	many := base
	many.Workers = 8

	a := mustSimulate(t, single)
	b := mustSimulate(t, many)
	assert.Equal(t, a.FinalPrices(), b.FinalPrices())
	assert.Equal(t, a.Path(1234), b.Path(1234))
	assert.Equal(t, uint64(77), a.Seed())

	final, err := SimulateFinal(many)
	require.NoError(t, err)
	assert.Equal(t, a.FinalPrices(), final)
}

func TestSimulate_EntropySeedReplays(t *testing.T) {
	p := NewParams(100, 0.3, 10)
	p.PathCount = 100
	e := mustSimulate(t, p)

	replay := mustSimulate(t, p.WithSeed(e.Seed()))
	assert.Equal(t, e.FinalPrices(), replay.FinalPrices())
}

func TestSimulate_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero price", func(p *Params) { p.StartingPrice = 0 }},
		{"negative price", func(p *Params) { p.StartingPrice = -1 }},
		{"NaN price", func(p *Params) { p.StartingPrice = math.NaN() }},
		{"zero horizon", func(p *Params) { p.HorizonDays = 0 }},
		{"zero paths", func(p *Params) { p.PathCount = 0 }},
		{"infinite volatility", func(p *Params) { p.AnnualizedVolatility = math.Inf(1) }},
		{"NaN drift", func(p *Params) { p.Drift = math.NaN() }},
		{"negative workers", func(p *Params) { p.Workers = -1 }},
		{"volatility beyond float range", func(p *Params) { p.AnnualizedVolatility = 100; p.HorizonDays = 252 }},
		{"drift beyond float range", func(p *Params) { p.Drift = 1e4; p.HorizonDays = 252 }},
		{"negative drift beyond float range", func(p *Params) { p.Drift = -1e4; p.HorizonDays = 252 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParams(100, 0.3, 30)
			tt.mutate(&p)

			e, err := Simulate(p)
			assert.Nil(t, e)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)

			_, err = SimulateFinal(p)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestSimulate_ExtremeButRepresentable(t *testing.T) {
	// Large volatility over a short horizon still fits, and every price stays positive.
	p := seeded(100, 5, 10, 500, 3)
	require.NoError(t, p.Validate())

	final, err := SimulateFinal(p)
	require.NoError(t, err)
	for path, price := range final {
		require.True(t, price > 0 && !math.IsInf(price, 0), "path %d final %v", path, price)
	}
}

func TestSummarize_InvalidInputs(t *testing.T) {
	e := mustSimulate(t, seeded(100, 0.3, 5, 100, 1))

	for _, target := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := Summarize(e, target)
		assert.ErrorIs(t, err, ErrInvalidParameter, "target %v", target)
	}

	_, err := Summarize(e, 110, WithPercentiles(101))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Summarize(e, 110, WithPercentiles(0), WithMethod(NearestRank))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSummarizeFinal_MatchesEnsemble(t *testing.T) {
	p := seeded(100, 0.35, 30, 3000, 11)
	p.Workers = 3

	full, err := Summarize(mustSimulate(t, p), 112, WithPercentiles(90))
	require.NoError(t, err)

	final, err := SimulateFinal(p)
	require.NoError(t, err)
	unsorted := append([]float64(nil), final...)

	light, err := SummarizeFinal(p, final, 112, WithPercentiles(90))
	require.NoError(t, err)
	assert.Equal(t, full, light)
	assert.Equal(t, unsorted, final, "input must not be reordered")

	_, err = SummarizeFinal(p, nil, 112)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = SummarizeFinal(p, final, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSummarize_ExtraPercentiles(t *testing.T) {
	e := mustSimulate(t, seeded(100, 0.3, 10, 1000, 5))

	r, err := Summarize(e, 100, WithPercentiles(50, 99, 5))
	require.NoError(t, err)
	require.Len(t, r.Percentiles, 6)

	p50, ok := r.Percentile(50)
	require.True(t, ok)
	assert.InDelta(t, r.Median, p50, 1e-9)

	_, ok = r.Percentile(10)
	assert.False(t, ok)
}

func TestLinearPercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		rank float64
		want float64
	}{
		{0, 1},
		{25, 2},
		{50, 3},
		{10, 1.4},
		{95, 4.8},
		{100, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, linearPercentile(data, tt.rank), 1e-12, "rank %v", tt.rank)
	}
	assert.Equal(t, 7.0, linearPercentile([]float64{7}, 95))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, -2.5, Round2(-2.5))
}

func TestSimulatePortfolio(t *testing.T) {
	seed := uint64(11)
	params := PortfolioParams{
		Capital: 700000,
		Target:  770000,
		Positions: []Position{
			{Weight: 0.5, ExpectedReturn: 0.04, Volatility: 0.10},
			{Weight: 0.5, ExpectedReturn: 0.02, Volatility: 0.05},
		},
		Trials: 5000,
		Seed:   &seed,
	}

	r, err := SimulatePortfolio(params)
	require.NoError(t, err)
	assert.Equal(t, 5000, r.Trials)
	assert.InDelta(t, 3.0, r.ExpectedReturnPct, 0.5)
	assert.LessOrEqual(t, r.WorstCase5Pct, r.MedianFinalValue)
	assert.LessOrEqual(t, r.MedianFinalValue, r.BestCase95Pct)
	assert.Greater(t, r.ProbabilityPositive, r.ProbabilityOfSuccess)

	again, err := SimulatePortfolio(params)
	require.NoError(t, err)
	assert.Equal(t, r, again)

	rounded := r.Rounded()
	assert.Equal(t, Round2(r.ExpectedFinalValue), rounded.ExpectedFinalValue)

	deterministic := params
	deterministic.Positions = []Position{{Weight: 1, ExpectedReturn: 0.1}}
	r, err = SimulatePortfolio(deterministic)
	require.NoError(t, err)
	assert.InDelta(t, 770000, r.MedianFinalValue, 1e-6)
	assert.Equal(t, 100.0, r.ProbabilityPositive)

	bad := params
	bad.Positions = nil
	_, err = SimulatePortfolio(bad)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
