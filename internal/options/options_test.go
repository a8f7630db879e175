package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallProfit(t *testing.T) {
	tests := []struct {
		name       string
		target     float64
		wantProfit float64
		wantReturn float64
	}{
		{"in the money", 120, 2400, 400},
		{"expires worthless", 100, -600, -100},
		{"at breakeven", 108, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CallProfit(100, 105, 3, tt.target, 2)
			assert.Equal(t, StrategyLongCall, s.Strategy)
			assert.InDelta(t, 600, s.TotalCost, 1e-9)
			assert.InDelta(t, tt.wantProfit, s.ProfitLoss, 1e-9)
			assert.InDelta(t, tt.wantReturn, s.ReturnPct, 1e-9)
			assert.InDelta(t, 108, s.Breakeven, 1e-9)
			require.NoError(t, s.Validate())
		})
	}
}

func TestPutProfit(t *testing.T) {
	s := PutProfit(100, 95, 2, 85, 1)
	assert.Equal(t, StrategyLongPut, s.Strategy)
	assert.InDelta(t, 200, s.TotalCost, 1e-9)
	assert.InDelta(t, 800, s.ProfitLoss, 1e-9)
	assert.InDelta(t, 93, s.Breakeven, 1e-9)

	s = PutProfit(100, 95, 2, 110, 3)
	assert.InDelta(t, -600, s.ProfitLoss, 1e-9)
}

func TestZeroContracts(t *testing.T) {
	s := CallProfit(100, 105, 3, 120, 0)
	assert.Equal(t, 0.0, s.TotalCost)
	assert.Equal(t, 0.0, s.ReturnPct)
}

func TestFindOptimalStrikes(t *testing.T) {
	got, err := FindOptimalStrikes(100, 0.43, 700000)
	require.NoError(t, err)
	require.Len(t, got, 14)

	first := got[0]
	assert.Equal(t, 376, first.Contracts)
	assert.InDelta(t, 10, first.PriceIncreaseNeeded, 1e-9)
	assert.InDelta(t, 100, first.Strike, 1e-9)
	assert.InDelta(t, 2, first.Premium, 1e-9)

	for _, s := range got {
		assert.Greater(t, s.ProfitLoss, 0.0)
		assert.LessOrEqual(t, s.TotalCost, 700000.0)
		assert.Contains(t, []float64{10, 15, 20, 25, 30}, s.PriceIncreaseNeeded)
	}

	_, err = FindOptimalStrikes(0, 0.43, 700000)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEstimatedPremium(t *testing.T) {
	assert.InDelta(t, 2.0, EstimatedPremium(100, 0), 1e-12)
	assert.InDelta(t, 2.4, EstimatedPremium(100, 0.10), 1e-12)
}

func TestRequiredMove(t *testing.T) {
	got, err := RequiredMove(700000, 1000000, 3, 105)
	require.NoError(t, err)

	required := 105 + 3 + 300000.0/(2333*100)
	assert.InDelta(t, (required/105-1)*100, got, 1e-9)

	_, err = RequiredMove(100, 1000, 3, 105)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = RequiredMove(700000, 1000000, 0, 105)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestModerateStrategies(t *testing.T) {
	plans, err := ModerateStrategies(ModerateParams{
		StockPrice:     100,
		Ticker:         "MSFT",
		InitialCapital: 700000,
		RequiredProfit: 70000,
		TargetMove:     0.10,
	})
	require.NoError(t, err)
	require.Len(t, plans, 3)

	atm := plans[0]
	assert.Equal(t, "ATM Calls", atm.Strategy)
	assert.Equal(t, 93, atm.Contracts)
	assert.InDelta(t, 23250, atm.TotalCost, 1e-6)
	assert.InDelta(t, 69750, atm.TargetProfit, 1e-6)
	assert.InDelta(t, 23250.0/700000*100, atm.AllocationPct, 1e-9)
	assert.Equal(t, 10.0, atm.RequiredStockMove)

	otm := plans[1]
	assert.Equal(t, "3% OTM Calls", otm.Strategy)
	assert.Equal(t, 127, otm.Contracts)
	assert.InDelta(t, 19050, otm.TotalCost, 1e-6)

	conservative := plans[2]
	assert.Equal(t, "Conservative Diversified", conservative.Strategy)
	assert.Equal(t, 420, conservative.Contracts)
	assert.InDelta(t, 105000, conservative.TotalCost, 1e-6)
	assert.InDelta(t, 750*420, conservative.TargetProfit, 1e-6, "uses the ATM profit per contract")
	assert.Equal(t, 15.0, conservative.AllocationPct)

	for i := range plans {
		require.NoError(t, plans[i].Validate())
	}
}

func TestModerateStrategies_AllocationCap(t *testing.T) {
	// A tiny account cannot fund the profit target inside the caps.
	plans, err := ModerateStrategies(ModerateParams{
		StockPrice:     100,
		Ticker:         "KO",
		InitialCapital: 10000,
		RequiredProfit: 70000,
		TargetMove:     0.10,
	})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Conservative Diversified", plans[0].Strategy)
	assert.Equal(t, 6, plans[0].Contracts)

	_, err = ModerateStrategies(ModerateParams{StockPrice: 100})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		target   float64
		level    string
		prob     float64
		rec      string
		maxLoss  float64
		capValue float64
	}{
		{43, "High", 10, "High risk - consider alternatives", 560000, 700000},
		{20, "Medium", 35, "High risk - consider alternatives", 30000, 100000},
		{10, "Low", 65, "Proceed with caution", 30000, 100000},
		{30, "Medium", 35, "High risk - consider alternatives", 30000, 100000},
	}
	for _, tt := range tests {
		got := AssessRisk(tt.target, tt.capValue)
		assert.Equal(t, tt.level, got.RiskLevel)
		assert.Equal(t, tt.prob, got.Probability)
		assert.Equal(t, tt.rec, got.Recommendation)
		assert.InDelta(t, tt.maxLoss, got.MaxLoss, 1e-9)
	}
}

func TestSizePositions(t *testing.T) {
	got, err := SizePositions(700000, []PositionRequest{
		{Ticker: "MSFT", Allocation: 20, Strike: 430, Premium: 12},
		{Ticker: "GOOGL", Allocation: 20, Strike: 190, Premium: 8},
	})
	require.NoError(t, err)
	require.Len(t, got.Positions, 2)

	assert.InDelta(t, 140000, got.Positions[0].DollarAmount, 1e-9)
	assert.InDelta(t, 21000, got.Positions[0].MaxLoss, 1e-9)
	assert.InDelta(t, 442, got.Positions[0].Breakeven, 1e-9)
	assert.InDelta(t, 198, got.Positions[1].Breakeven, 1e-9)
	assert.InDelta(t, 280000, got.TotalAllocated, 1e-9)
	assert.InDelta(t, 70000, got.CashReserve, 1e-9)

	_, err = SizePositions(700000, []PositionRequest{{Allocation: 60}, {Allocation: 50}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SizePositions(0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
