package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
)

// ReportKind names the pipeline that produced a report.
type ReportKind string

const (
	KindInvestment ReportKind = "investment"
	KindRealistic  ReportKind = "realistic"
)

// TargetLadder holds several target probabilities read from one ensemble.
type TargetLadder struct {
	StockPrice    float64 `json:"stock_price"`
	TargetPrice   float64 `json:"target_price"`
	Prob10Pct     float64 `json:"prob_10pct"`
	Prob5Pct      float64 `json:"prob_5pct"`
	ProbBreakEven float64 `json:"prob_break_even"`
	ExpectedPrice float64 `json:"expected_price"`
	MedianPrice   float64 `json:"median_price"`
	Percentile25  float64 `json:"percentile_25"`
	Percentile75  float64 `json:"percentile_75"`
}

// AnalysisReport is the saved result of one analysis run.
//
// Investment reports carry TopStocks, OptionsStrategy and Probability; realistic
// reports carry ModerateStocks, StrategyPlans and Ladder. Both carry Portfolio.
type AnalysisReport struct {
	ID           string     `json:"id"`
	Kind         ReportKind `json:"kind"`
	CreatedAt    time.Time  `json:"timestamp"`
	Strategy     string     `json:"strategy,omitempty"`
	Ticker       string     `json:"ticker,omitempty"`
	TargetReturn float64    `json:"target_return"` // percent

	TopStocks       []MomentumRow      `json:"top_stocks,omitempty"`
	OptionsStrategy *OptionScenario    `json:"options_strategy,omitempty"`
	Probability     *montecarlo.Record `json:"probability_analysis,omitempty"`

	ModerateStocks []ModerateRow  `json:"moderate_stocks,omitempty"`
	StrategyPlans  []StrategyPlan `json:"best_options_strategies,omitempty"`
	Ladder         *TargetLadder  `json:"monte_carlo,omitempty"`

	Portfolio *montecarlo.PortfolioReport `json:"portfolio_simulation,omitempty"`
}

// Validate checks that all report fields are valid
func (r *AnalysisReport) Validate() error {
	if r.ID == "" {
		return errors.New("report ID must not be empty")
	}
	switch r.Kind {
	case KindInvestment, KindRealistic:
	default:
		return fmt.Errorf("unknown report kind %q", r.Kind)
	}
	if r.CreatedAt.IsZero() {
		return errors.New("created at must be set")
	}
	if r.CreatedAt.After(time.Now()) {
		return errors.New("created at must not be in the future")
	}
	if r.TargetReturn <= 0 {
		return errors.New("target return must be positive")
	}
	for i := range r.TopStocks {
		if err := r.TopStocks[i].Validate(); err != nil {
			return fmt.Errorf("top stock %d: %w", i, err)
		}
	}
	for i := range r.ModerateStocks {
		if err := r.ModerateStocks[i].Validate(); err != nil {
			return fmt.Errorf("moderate stock %d: %w", i, err)
		}
	}
	if r.OptionsStrategy != nil {
		if err := r.OptionsStrategy.Validate(); err != nil {
			return fmt.Errorf("options strategy: %w", err)
		}
	}
	for i := range r.StrategyPlans {
		if err := r.StrategyPlans[i].Validate(); err != nil {
			return fmt.Errorf("strategy plan %d: %w", i, err)
		}
	}
	return nil
}
