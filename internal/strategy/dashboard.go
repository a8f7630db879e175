package strategy

import "time"

// DashboardPosition is one row of the approved dashboard strategy.
type DashboardPosition struct {
	Ticker         string  `json:"ticker"`
	Option         string  `json:"option"`
	Allocation     float64 `json:"allocation"` // percent
	Amount         float64 `json:"amount"`
	Contracts      any     `json:"contracts"`
	Premium        any     `json:"premium"`
	Probability    float64 `json:"probability"`
	ExpectedReturn string  `json:"expectedReturn"`
}

// DashboardMonteCarlo is the precomputed simulation summary shown next to the strategy.
type DashboardMonteCarlo struct {
	SuccessProbability float64 `json:"successProbability"`
	ExpectedValue      float64 `json:"expectedValue"`
	WorstCase5Pct      float64 `json:"worstCase5pct"`
	BestCase95Pct      float64 `json:"bestCase95pct"`
	MedianValue        float64 `json:"medianValue"`
	PositiveReturnProb float64 `json:"positiveReturnProb"`
	Simulations        int     `json:"simulations"`
	Timeframe          int     `json:"timeframe"`
}

// Dashboard is the strategy served before any realistic analysis has been stored.
type Dashboard struct {
	SuccessProbability float64             `json:"successProbability"`
	InitialCapital     float64             `json:"initialCapital"`
	TargetCapital      float64             `json:"targetCapital"`
	ExpectedValue      float64             `json:"expectedValue"`
	TargetReturn       float64             `json:"targetReturn"`
	RiskLevel          string              `json:"riskLevel"`
	Status             string              `json:"status"`
	Positions          []DashboardPosition `json:"positions"`
	MonteCarlo         DashboardMonteCarlo `json:"monteCarlo"`
}

// DefaultDashboard is the approved $700K to $770K plan.
func DefaultDashboard() Dashboard {
	return Dashboard{
		SuccessProbability: 49.3,
		InitialCapital:     700000,
		TargetCapital:      770000,
		ExpectedValue:      769295,
		TargetReturn:       10,
		RiskLevel:          "Moderate",
		Status:             "Approved",
		Positions: []DashboardPosition{
			{Ticker: "MSFT", Option: "Feb 21 $430C", Allocation: 20, Amount: 140000, Contracts: 116, Premium: 12, Probability: 50, ExpectedReturn: "15-25%"},
			{Ticker: "GOOGL", Option: "Feb 21 $190C", Allocation: 20, Amount: 140000, Contracts: 175, Premium: 8, Probability: 45, ExpectedReturn: "20-30%"},
			{Ticker: "AMD", Option: "Mar 21 $180C", Allocation: 20, Amount: 140000, Contracts: 127, Premium: 11, Probability: 45, ExpectedReturn: "25-40%"},
			{Ticker: "QQQ", Option: "Feb 21 $575C", Allocation: 15, Amount: 105000, Contracts: 70, Premium: 15, Probability: 50, ExpectedReturn: "12-18%"},
			{Ticker: "SPY", Option: "Weekly ATM", Allocation: 15, Amount: 105000, Contracts: "Variable", Premium: "ATM", Probability: 40, ExpectedReturn: "5-8%/wk"},
		},
		MonteCarlo: DashboardMonteCarlo{
			SuccessProbability: 49.3,
			ExpectedValue:      769295,
			WorstCase5Pct:      694632,
			BestCase95Pct:      844227,
			MedianValue:        768450,
			PositiveReturnProb: 93.7,
			Simulations:        10000,
			Timeframe:          30,
		},
	}
}

// Quote is a price and daily change in percent.
type Quote struct {
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
}

// MarketSnapshot is the market overview shown on the dashboard.
type MarketSnapshot struct {
	Quotes          map[string]Quote `json:"quotes"`
	VIX             float64          `json:"vix,omitempty"`
	MarketSentiment string           `json:"marketSentiment,omitempty"`
	VolatilityLevel string           `json:"volatilityLevel,omitempty"`
	Source          string           `json:"source"`
	LastUpdate      time.Time        `json:"lastUpdate"`
}

// StaticMarketSnapshot is served when no provider data is available.
func StaticMarketSnapshot(now time.Time) MarketSnapshot {
	return MarketSnapshot{
		Quotes: map[string]Quote{
			"MSFT":  {Price: 430.25, ChangePercent: 1.2},
			"GOOGL": {Price: 196.52, ChangePercent: -0.8},
			"AMD":   {Price: 172.40, ChangePercent: 0.5},
			"QQQ":   {Price: 569.24, ChangePercent: 0.3},
			"SPY":   {Price: 580.15, ChangePercent: 0.1},
			"NVDA":  {Price: 180.77, ChangePercent: 2.1},
		},
		VIX:             15.2,
		MarketSentiment: "Positive",
		VolatilityLevel: "Low-Medium",
		Source:          "static",
		LastUpdate:      now,
	}
}
