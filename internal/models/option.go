package models

import (
	"errors"
)

// SharesPerContract is the standard equity option multiplier.
const SharesPerContract = 100

// OptionScenario is the expiry P/L of a long call or long put held to a target price.
type OptionScenario struct {
	Strategy            string  `json:"strategy"` // "Long Call" or "Long Put"
	StockPrice          float64 `json:"stock_price"`
	Strike              float64 `json:"strike"`
	Premium             float64 `json:"premium"`
	Contracts           int     `json:"contracts"`
	TotalCost           float64 `json:"total_cost"`
	TargetPrice         float64 `json:"target_price"`
	ProfitLoss          float64 `json:"profit_loss"`
	ReturnPct           float64 `json:"return_pct"`
	Breakeven           float64 `json:"breakeven"`
	PriceIncreaseNeeded float64 `json:"price_increase_needed,omitempty"`
}

// Validate checks that all scenario fields are valid
func (o *OptionScenario) Validate() error {
	if o.Strategy == "" {
		return errors.New("strategy must not be empty")
	}
	if o.StockPrice <= 0 {
		return errors.New("stock price must be positive")
	}
	if o.Strike <= 0 {
		return errors.New("strike must be positive")
	}
	if o.Premium <= 0 {
		return errors.New("premium must be positive")
	}
	if o.Contracts < 0 {
		return errors.New("contracts must not be negative")
	}
	if o.ProfitLoss < -o.TotalCost-0.005 {
		return errors.New("a long option cannot lose more than its cost")
	}
	return nil
}

// StrategyPlan sizes one options strategy toward a fixed profit target.
type StrategyPlan struct {
	Strategy          string  `json:"strategy"`
	Ticker            string  `json:"ticker"`
	Strike            float64 `json:"strike"`
	Premium           float64 `json:"premium"`
	Contracts         int     `json:"contracts"`
	TotalCost         float64 `json:"total_cost"`
	TargetProfit      float64 `json:"target_profit"`
	RequiredStockMove float64 `json:"required_stock_move"`
	AllocationPct     float64 `json:"allocation_pct"`
}

// Validate checks that all plan fields are valid
func (p *StrategyPlan) Validate() error {
	if p.Strategy == "" {
		return errors.New("strategy must not be empty")
	}
	if p.Ticker == "" {
		return errors.New("ticker must not be empty")
	}
	if p.Contracts <= 0 {
		return errors.New("contracts must be positive")
	}
	if p.TotalCost < 0 {
		return errors.New("total cost must not be negative")
	}
	if p.AllocationPct < 0 || p.AllocationPct > 100 {
		return errors.New("allocation must be between 0 and 100 percent")
	}
	return nil
}
