package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
	"github.com/rewired-gh/tradeoracle/internal/strategy"
)

func TestProbability_GroupsThousands(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Probability(montecarlo.Record{
		CurrentPrice:   1234.5,
		TargetPrice:    1357.95,
		RequiredReturn: 10,
		Probability:    16.49,
	})

	out := buf.String()
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "$1,357.95")
	assert.Contains(t, out, "16.49%")
	assert.Contains(t, out, "Required Return")
}

func TestReport_Investment(t *testing.T) {
	var buf bytes.Buffer
	rec := montecarlo.Record{CurrentPrice: 100, TargetPrice: 143, RequiredReturn: 43, Probability: 0.12}
	port := montecarlo.PortfolioReport{InitialCapital: 700000, Target: 1000000, ProbabilityOfSuccess: 0.4}

	New(&buf).Report(&models.AnalysisReport{
		ID:        "abc",
		Kind:      models.KindInvestment,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Ticker:    "NVDA",
		TopStocks: []models.MomentumRow{{Ticker: "NVDA", CurrentPrice: 880, WeeklyReturn: 4.2, MomentumScore: 31.5}},
		OptionsStrategy: &models.OptionScenario{
			Strategy: "Long Call", StockPrice: 100, Strike: 105, Premium: 3, Contracts: 2333,
			TotalCost: 699900, TargetPrice: 143, ProfitLoss: 8165500, ReturnPct: 1166.67, Breakeven: 108,
		},
		Probability: &rec,
		Portfolio:   &port,
	})

	out := buf.String()
	assert.Contains(t, out, "HIGH-MOMENTUM STOCKS")
	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "Buy 2333 call options")
	assert.Contains(t, out, "$8,165,500.00")
	assert.Contains(t, out, "$700,000.00")
	assert.Contains(t, out, "Report abc saved at 2025-01-02 03:04:05 UTC")
	assert.NotContains(t, out, "MODERATE-RISK")
}

func TestReport_Realistic(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Report(&models.AnalysisReport{
		ID:           "def",
		Kind:         models.KindRealistic,
		CreatedAt:    time.Now(),
		Ticker:       "KO",
		TargetReturn: 10,
		ModerateStocks: []models.ModerateRow{
			{Ticker: "KO", CurrentPrice: 62.5, TargetPrice10Pct: 68.75, Volatility: 14, RiskScore: models.RiskLow, Probability10Pct: 30},
		},
		StrategyPlans: []models.StrategyPlan{{Strategy: "ATM Calls", Ticker: "KO", Strike: 62.5, Contracts: 10, AllocationPct: 15}},
		Ladder:        &models.TargetLadder{StockPrice: 62.5, Prob10Pct: 12.3, Prob5Pct: 25, ProbBreakEven: 49.6},
	})

	out := buf.String()
	assert.Contains(t, out, "10% Return Target")
	assert.Contains(t, out, "MODERATE-RISK STOCKS")
	assert.Contains(t, out, "ATM Calls")
	assert.Contains(t, out, "15.0%")
	assert.Contains(t, out, "Probability of break-even")
	assert.NotContains(t, out, "PORTFOLIO SIMULATION")
}

func TestCatalogs(t *testing.T) {
	now := time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	New(&buf).Aggressive(strategy.Aggressive(now, 700000, 1000000))
	out := buf.String()
	assert.Contains(t, out, "Feb 21 $900 Call")
	assert.Contains(t, out, "Variable daily")
	assert.Contains(t, out, "RISK DISCLAIMER")

	buf.Reset()
	New(&buf).Moderate(strategy.Moderate(now, 700000, 770000))
	out = buf.String()
	assert.Contains(t, out, "Cash Reserve")
	assert.Contains(t, out, "week 1: Enter MSFT, GOOGL positions before earnings")
	assert.Contains(t, out, "Success probability: 40-60%")
}
