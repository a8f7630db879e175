package models

import (
	"errors"
	"fmt"
)

// MomentumRow is one ticker's line in the high-momentum ranking. Returns are percents.
type MomentumRow struct {
	Ticker        string  `json:"ticker" csv:"ticker"`
	CurrentPrice  float64 `json:"current_price" csv:"current_price"`
	DailyReturn   float64 `json:"daily_return" csv:"daily_return"`
	WeeklyReturn  float64 `json:"weekly_return" csv:"weekly_return"`
	MonthlyReturn float64 `json:"monthly_return" csv:"monthly_return"`
	RSI           float64 `json:"rsi" csv:"rsi"`
	VolumeSpike   float64 `json:"volume_spike" csv:"volume_spike"`
	AboveSMA5     bool    `json:"above_sma5" csv:"above_sma5"`
	AboveSMA20    bool    `json:"above_sma20" csv:"above_sma20"`
	MomentumScore float64 `json:"momentum_score" csv:"momentum_score"`
}

// Validate checks that all momentum row fields are valid
func (r *MomentumRow) Validate() error {
	if r.Ticker == "" {
		return errors.New("ticker must not be empty")
	}
	if r.CurrentPrice <= 0 {
		return errors.New("current price must be positive")
	}
	if r.RSI < 0 || r.RSI > 100 {
		return errors.New("rsi must be between 0 and 100")
	}
	if r.VolumeSpike < 0 {
		return errors.New("volume spike must not be negative")
	}
	return nil
}

// RiskScore buckets a moderate-risk candidate.
type RiskScore string

const (
	RiskLow    RiskScore = "Low"
	RiskMedium RiskScore = "Medium"
	RiskHigh   RiskScore = "High"
)

// ModerateRow is one ticker's line in the 10% target screening. Returns,
// volatility and probability are percents.
type ModerateRow struct {
	Ticker           string    `json:"ticker" csv:"ticker"`
	CurrentPrice     float64   `json:"current_price" csv:"current_price"`
	TargetPrice10Pct float64   `json:"target_price_10pct" csv:"target_price_10pct"`
	WeeklyReturn     float64   `json:"weekly_return" csv:"weekly_return"`
	MonthlyReturn    float64   `json:"monthly_return" csv:"monthly_return"`
	Volatility       float64   `json:"volatility" csv:"volatility"`
	RSI              float64   `json:"rsi" csv:"rsi"`
	AboveSMA20       bool      `json:"above_sma20" csv:"above_sma20"`
	RiskScore        RiskScore `json:"risk_score" csv:"risk_score"`
	Probability10Pct float64   `json:"probability_10pct" csv:"probability_10pct"`
}

// Validate checks that all moderate row fields are valid
func (r *ModerateRow) Validate() error {
	if r.Ticker == "" {
		return errors.New("ticker must not be empty")
	}
	if r.CurrentPrice <= 0 {
		return errors.New("current price must be positive")
	}
	if r.Volatility < 0 {
		return errors.New("volatility must not be negative")
	}
	if r.RSI < 0 || r.RSI > 100 {
		return errors.New("rsi must be between 0 and 100")
	}
	switch r.RiskScore {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("unknown risk score %q", r.RiskScore)
	}
	if r.Probability10Pct < 0 || r.Probability10Pct > 100 {
		return errors.New("probability must be between 0 and 100")
	}
	return nil
}
