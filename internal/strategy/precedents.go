package strategy

import "strings"

// ReturnBand is how often a monthly return range has occurred and under what conditions.
type ReturnBand struct {
	Range            string  `json:"range"`
	LowPct           float64 `json:"low_pct"`
	HighPct          float64 `json:"high_pct,omitempty"` // 0 means open-ended
	Frequency        float64 `json:"frequency"`          // percent of months
	MarketConditions string  `json:"market_conditions"`
}

// Precedents answers a historical precedents query.
type Precedents struct {
	TargetReturn    float64      `json:"target_return"`
	AssetClass      string       `json:"asset_class"`
	MonthlyReturns  []ReturnBand `json:"monthly_returns"`
	MatchingBand    *ReturnBand  `json:"matching_band,omitempty"`
	Recommendations []string     `json:"recommendations"`
}

var monthlyBands = []ReturnBand{
	{Range: "5-10%", LowPct: 5, HighPct: 10, Frequency: 25, MarketConditions: "Normal bull market"},
	{Range: "10-15%", LowPct: 10, HighPct: 15, Frequency: 12, MarketConditions: "Strong earnings season"},
	{Range: "15-20%", LowPct: 15, HighPct: 20, Frequency: 5, MarketConditions: "Major catalysts"},
	{Range: "20%+", LowPct: 20, Frequency: 2, MarketConditions: "Exceptional events"},
}

// HistoricalPrecedents returns the monthly return table and the band containing
// targetReturn (percent). Asset class defaults to "options".
func HistoricalPrecedents(targetReturn float64, assetClass string) Precedents {
	if strings.TrimSpace(assetClass) == "" {
		assetClass = "options"
	}

	bands := make([]ReturnBand, len(monthlyBands))
	copy(bands, monthlyBands)

	p := Precedents{
		TargetReturn:   targetReturn,
		AssetClass:     assetClass,
		MonthlyReturns: bands,
		Recommendations: []string{
			"Focus on earnings-based plays",
			"Diversify across 4-5 positions",
			"Implement strict risk management",
			"Time entries around catalysts",
		},
	}
	for i := range bands {
		b := bands[i]
		if targetReturn >= b.LowPct && (b.HighPct == 0 || targetReturn < b.HighPct) {
			p.MatchingBand = &b
			break
		}
	}
	return p
}
