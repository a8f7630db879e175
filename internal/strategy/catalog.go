// Package strategy holds the static options strategy catalogs, the historical
// monthly-return precedents and the dashboard defaults served alongside analysis results.
//
// Catalog prices and premiums are illustrative snapshots, not live quotes; contract
// counts are derived from them at build time.
package strategy

import (
	"fmt"
	"time"
)

// TimestampLayout is the minute-resolution stamp written into catalog reports.
const TimestampLayout = "2006-01-02 15:04"

// Play is one catalog entry. Contracts is either a count or a free-text rule such
// as "Variable daily".
type Play struct {
	Ticker          string  `json:"ticker"`
	Strategy        string  `json:"strategy"`
	CurrentPrice    float64 `json:"current_price,omitempty"`
	Option          string  `json:"option,omitempty"`
	OptionPremium   float64 `json:"option_premium,omitempty"`
	Allocation      string  `json:"allocation,omitempty"`
	Contracts       any     `json:"contracts,omitempty"`
	Catalyst        string  `json:"catalyst,omitempty"`
	RiskLevel       string  `json:"risk_level"`
	Probability     string  `json:"probability,omitempty"`
	PotentialReturn string  `json:"potential_return"`
	Rationale       string  `json:"rationale"`
}

// HasOption reports whether the play trades an option (cash reserves do not).
func (p Play) HasOption() bool { return p.Option != "" }

// TargetMetrics states the capital goal of a catalog.
type TargetMetrics struct {
	InitialCapital    float64 `json:"initial_capital"`
	TargetCapital     float64 `json:"target_capital"`
	RequiredGain      float64 `json:"required_gain"`
	RequiredReturnPct float64 `json:"required_return_pct"`
}

func newTargetMetrics(initial, target float64) TargetMetrics {
	return TargetMetrics{
		InitialCapital:    initial,
		TargetCapital:     target,
		RequiredGain:      target - initial,
		RequiredReturnPct: (target/initial - 1) * 100,
	}
}

// Sentiment summarizes the forum mood a catalog was built against.
type Sentiment struct {
	CurrentHype   []string `json:"current_hype,omitempty"`
	MomentumPlays []string `json:"momentum_plays,omitempty"`
	QualityPlays  []string `json:"quality_plays,omitempty"`
	EarningsFocus string   `json:"earnings_focus,omitempty"`
	Avoid         []string `json:"avoid"`
}

// AggressiveReport is the high-risk catalog for a large one-month target.
type AggressiveReport struct {
	AnalysisTimestamp string            `json:"analysis_timestamp"`
	TargetMetrics     TargetMetrics     `json:"target_metrics"`
	Strategies        []Play            `json:"top_5_strategies"`
	PositionSizing    map[string]string `json:"position_sizing"`
	RiskDisclaimer    []string          `json:"risk_disclaimer"`
	Sentiment         Sentiment         `json:"wsb_sentiment"`
}

// ModerateReport is the moderate-risk catalog for a 10% one-month target.
type ModerateReport struct {
	AnalysisTimestamp  string            `json:"analysis_timestamp"`
	RevisedTarget      TargetMetrics     `json:"revised_target"`
	Strategies         []Play            `json:"moderate_strategies"`
	PositionAnalysis   map[string]string `json:"position_analysis"`
	RiskAssessment     map[string]string `json:"risk_assessment"`
	ExecutionPlan      map[string]string `json:"execution_plan"`
	Sentiment          Sentiment         `json:"wsb_sentiment_moderate"`
	SuccessProbability string            `json:"-"`
}

// contractsFor is how many contracts budget buys at premium per share.
func contractsFor(budget, premium float64) int {
	return int(budget / (premium * 100))
}

// Aggressive builds the high-risk catalog for growing initial to target.
func Aggressive(now time.Time, initial, target float64) AggressiveReport {
	return AggressiveReport{
		AnalysisTimestamp: now.Format(TimestampLayout),
		TargetMetrics:     newTargetMetrics(initial, target),
		Strategies: []Play{
			{
				Ticker: "NVDA", Strategy: "Long Calls - Earnings Play", CurrentPrice: 880,
				Option: "Feb 21 $900 Call", OptionPremium: 45, Contracts: contractsFor(initial, 45),
				Catalyst: "Q4 Earnings Feb 21, AI momentum", RiskLevel: "EXTREME", Probability: "25-30%",
				PotentialReturn: "100-150% if beats earnings",
				Rationale:       "AI leader, high IV before earnings, potential gap up",
			},
			{
				Ticker: "TSLA", Strategy: "Long Calls - Momentum", CurrentPrice: 415,
				Option: "Feb 14 $450 Call", OptionPremium: 18, Contracts: contractsFor(initial, 18),
				Catalyst: "Robotaxi updates, delivery numbers", RiskLevel: "EXTREME", Probability: "20-25%",
				PotentialReturn: "150-200% on breakthrough news",
				Rationale:       "High volatility, WSB favorite, news-driven moves",
			},
			{
				Ticker: "SMCI", Strategy: "Long Calls - Recovery Play", CurrentPrice: 38,
				Option: "Feb 21 $45 Call", OptionPremium: 2.5, Contracts: contractsFor(initial, 2.5),
				Catalyst: "Audit completion, reinstatement potential", RiskLevel: "EXTREME", Probability: "15-20%",
				PotentialReturn: "200-300% on positive audit",
				Rationale:       "Oversold, high short interest, binary event",
			},
			{
				Ticker: "SPY", Strategy: "0DTE Calls - Daily Compounding", CurrentPrice: 595,
				Option: "Daily ATM Calls", OptionPremium: 3, Contracts: "Variable daily",
				Catalyst: "Fed speak, economic data", RiskLevel: "EXTREME", Probability: "10-15%",
				PotentialReturn: "2-3% daily compounded",
				Rationale:       "Need 1.2% daily for 30 days, requires perfect timing",
			},
			{
				Ticker: "GME", Strategy: "Long Calls - Squeeze Play", CurrentPrice: 28,
				Option: "Feb 21 $35 Call", OptionPremium: 1.8, Contracts: contractsFor(initial, 1.8),
				Catalyst: "High short interest, WSB momentum", RiskLevel: "EXTREME", Probability: "10-15%",
				PotentialReturn: "300-500% on squeeze",
				Rationale:       "Meme stock, cult following, squeeze potential",
			},
		},
		PositionSizing: map[string]string{
			"aggressive":             "100% in 1-2 positions (highest risk/reward)",
			"moderate_aggressive":    "33% each in 3 positions",
			"diversified_aggressive": "20% each in 5 positions",
			"recommendation":         "DO NOT ATTEMPT - Risk of total loss too high",
		},
		RiskDisclaimer: []string{
			fmt.Sprintf("%.0f%% return in 30 days is EXTREMELY RARE and HIGH RISK", (target/initial-1)*100),
			"Historical probability of success: <5%",
			"Level 1 options (long only) limits hedging ability",
			"Total loss of capital is the most likely outcome",
			"These are gambling strategies, not investments",
			"401K losses cannot be replaced with new contributions easily",
		},
		Sentiment: Sentiment{
			CurrentHype:   []string{"NVDA", "TSLA", "GME", "PLTR", "AMD"},
			MomentumPlays: []string{"Tech earnings", "AI stocks", "EV recovery"},
			Avoid:         []string{"Chinese stocks", "Biotech without catalysts"},
		},
	}
}

// Moderate builds the moderate-risk catalog for growing initial to target. Each
// play's allocation is a fixed share of initial.
func Moderate(now time.Time, initial, target float64) ModerateReport {
	alloc := func(share float64) (string, float64) {
		amount := initial * share
		return fmt.Sprintf("%.0f%% ($%.0fK)", share*100, amount/1000), amount
	}
	a20, b20 := alloc(0.20)
	a15, b15 := alloc(0.15)
	a10, _ := alloc(0.10)

	return ModerateReport{
		AnalysisTimestamp: now.Format(TimestampLayout),
		RevisedTarget:     newTargetMetrics(initial, target),
		Strategies: []Play{
			{
				Ticker: "MSFT", Strategy: "Long Calls - Earnings Play (Conservative)", CurrentPrice: 420,
				Option: "Feb 21 $430 Call", OptionPremium: 12, Allocation: a20, Contracts: contractsFor(b20, 12),
				Catalyst: "Q2 Earnings Jan 24, Cloud growth, AI integration", RiskLevel: "MODERATE",
				Probability: "45-55%", PotentialReturn: "15-25% if beats by 2-3%",
				Rationale: "Stable tech giant, consistent earnings beats, Azure growth",
			},
			{
				Ticker: "GOOGL", Strategy: "Long Calls - Earnings Recovery", CurrentPrice: 185,
				Option: "Feb 21 $190 Call", OptionPremium: 8, Allocation: a20, Contracts: contractsFor(b20, 8),
				Catalyst: "Q4 Earnings, Search revenue, YouTube ads", RiskLevel: "MODERATE",
				Probability: "40-50%", PotentialReturn: "20-30% on strong beat",
				Rationale: "Oversold, strong fundamentals, AI investments paying off",
			},
			{
				Ticker: "SPY", Strategy: "Weekly Calls - Fed/CPI Play", CurrentPrice: 595,
				Option: "Weekly ATM Calls", OptionPremium: 4, Allocation: a15, Contracts: "Variable weekly",
				Catalyst: "Fed meetings, inflation data, economic reports", RiskLevel: "MODERATE",
				Probability: "35-45%", PotentialReturn: "5-8% per week compound",
				Rationale: "Market trend following, lower risk than individual stocks",
			},
			{
				Ticker: "AMD", Strategy: "Long Calls - AI Recovery", CurrentPrice: 172,
				Option: "Mar 21 $180 Call", OptionPremium: 11, Allocation: a20, Contracts: contractsFor(b20, 11),
				Catalyst: "Data center growth, AI chip demand, earnings guidance", RiskLevel: "MODERATE-HIGH",
				Probability: "40-50%", PotentialReturn: "25-40% on strong guidance",
				Rationale: "AI play with more reasonable valuation than NVDA",
			},
			{
				Ticker: "QQQ", Strategy: "Long Calls - Tech Momentum", CurrentPrice: 569,
				Option: "Feb 21 $575 Call", OptionPremium: 15, Allocation: a15, Contracts: contractsFor(b15, 15),
				Catalyst: "Big tech earnings season, Fed dovish pivot", RiskLevel: "MODERATE",
				Probability: "45-55%", PotentialReturn: "12-18% on tech rally",
				Rationale: "Diversified tech exposure, less single-stock risk",
			},
			{
				Ticker: "Cash Reserve", Strategy: "Hold Cash for Opportunities", Allocation: a10,
				RiskLevel: "LOW", PotentialReturn: "0% but preserves capital",
				Rationale: "Dry powder for mid-month opportunities or averaging down",
			},
		},
		PositionAnalysis: map[string]string{
			"target_per_position": "8-15% return per winning trade",
			"diversification":     "5 positions + 10% cash",
			"risk_per_position":   "Max 2% portfolio risk per trade",
			"win_rate_needed":     "3 out of 5 positions profitable",
			"realistic_scenario":  "60% win rate with avg 12% per winner",
		},
		RiskAssessment: map[string]string{
			"success_probability": "40-60%",
			"expected_return":     "6-14% range",
			"max_drawdown":        "15-25% worst case",
			"time_decay_risk":     "Moderate - using 30-45 DTE options",
			"market_risk":         "Moderate - earnings season catalyst dependent",
		},
		ExecutionPlan: map[string]string{
			"week_1": "Enter MSFT, GOOGL positions before earnings",
			"week_2": "Add AMD, QQQ on any dips",
			"week_3": "SPY weekly plays based on Fed/economic data",
			"week_4": "Profit taking and position management",
		},
		Sentiment: Sentiment{
			QualityPlays:  []string{"MSFT", "GOOGL", "AMD", "QQQ"},
			EarningsFocus: "Big tech Q4 results",
			Avoid:         []string{"Meme stocks", "0DTE plays", "Small cap biotechs"},
		},
		SuccessProbability: "40-60%",
	}
}
