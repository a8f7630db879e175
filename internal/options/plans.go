package options

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/tradeoracle/internal/models"
)

// ModerateParams sizes the moderate 10% plans.
type ModerateParams struct {
	StockPrice     float64
	Ticker         string
	InitialCapital float64
	RequiredProfit float64
	TargetMove     float64 // fraction, e.g. 0.10
}

// plan describes one moderate strategy before sizing.
type plan struct {
	name          string
	strikeOffset  float64
	premiumPct    float64
	maxAllocation float64
}

var moderatePlans = []plan{
	{name: "ATM Calls", strikeOffset: 0, premiumPct: 0.025, maxAllocation: 0.30},
	{name: "3% OTM Calls", strikeOffset: 0.03, premiumPct: 0.015, maxAllocation: 0.25},
}

// ConservativeAllocation is the fixed portfolio share of the diversified plan.
const ConservativeAllocation = 0.15

// ModerateStrategies sizes ATM calls, 3% OTM calls and a conservative diversified
// ATM position toward RequiredProfit at a TargetMove rise. Plans that lose money at
// the target or exceed their allocation cap are left out.
func ModerateStrategies(p ModerateParams) ([]models.StrategyPlan, error) {
	if p.StockPrice <= 0 || p.InitialCapital <= 0 || p.RequiredProfit <= 0 || p.TargetMove <= 0 {
		return nil, fmt.Errorf("%w: price, capital, profit and move must be positive", ErrInvalidInput)
	}

	capital := decimal.NewFromFloat(p.InitialCapital)
	need := decimal.NewFromFloat(p.RequiredProfit)
	target := p.StockPrice * (1 + p.TargetMove)
	move := percent(p.TargetMove)

	var out []models.StrategyPlan
	var atmPerContract decimal.Decimal

	for _, pl := range moderatePlans {
		strike := p.StockPrice * (1 + pl.strikeOffset)
		premium := p.StockPrice * pl.premiumPct
		perContract := decimal.NewFromFloat(target - strike - premium).Mul(multiplier)
		if pl.strikeOffset == 0 {
			atmPerContract = perContract
		}
		if !perContract.IsPositive() {
			continue
		}

		contracts := need.Div(perContract).IntPart()
		if contracts == 0 {
			continue
		}
		cost := decimal.NewFromFloat(premium).Mul(multiplier).Mul(decimal.NewFromInt(contracts))
		if cost.GreaterThan(capital.Mul(decimal.NewFromFloat(pl.maxAllocation))) {
			continue
		}

		out = append(out, models.StrategyPlan{
			Strategy:          pl.name,
			Ticker:            p.Ticker,
			Strike:            strike,
			Premium:           premium,
			Contracts:         int(contracts),
			TotalCost:         cost.InexactFloat64(),
			TargetProfit:      perContract.Mul(decimal.NewFromInt(contracts)).InexactFloat64(),
			RequiredStockMove: move,
			AllocationPct:     cost.Div(capital).Mul(hundred).InexactFloat64(),
		})
	}

	atm := moderatePlans[0]
	premium := p.StockPrice * atm.premiumPct
	perContractCost := decimal.NewFromFloat(premium).Mul(multiplier)
	contracts := capital.Mul(decimal.NewFromFloat(ConservativeAllocation)).Div(perContractCost).IntPart()
	if contracts > 0 {
		n := decimal.NewFromInt(contracts)
		out = append(out, models.StrategyPlan{
			Strategy:          "Conservative Diversified",
			Ticker:            p.Ticker,
			Strike:            p.StockPrice,
			Premium:           premium,
			Contracts:         int(contracts),
			TotalCost:         perContractCost.Mul(n).InexactFloat64(),
			TargetProfit:      atmPerContract.Mul(n).InexactFloat64(),
			RequiredStockMove: move,
			AllocationPct:     percent(ConservativeAllocation),
		})
	}

	return out, nil
}

// RiskAssessment is a coarse verdict on a return target.
type RiskAssessment struct {
	RiskLevel      string  `json:"risk_level"`
	Probability    float64 `json:"probability"`
	Recommendation string  `json:"recommendation"`
	MaxLoss        float64 `json:"max_loss"`
}

// AssessRisk buckets a target return in percent: above 30 is High, above 15 is
// Medium, otherwise Low.
func AssessRisk(targetReturnPct, portfolioValue float64) RiskAssessment {
	var a RiskAssessment
	lossShare := 0.3
	switch {
	case targetReturnPct > 30:
		a.RiskLevel, a.Probability = "High", 10
		lossShare = 0.8
	case targetReturnPct > 15:
		a.RiskLevel, a.Probability = "Medium", 35
	default:
		a.RiskLevel, a.Probability = "Low", 65
	}

	if a.Probability > 40 {
		a.Recommendation = "Proceed with caution"
	} else {
		a.Recommendation = "High risk - consider alternatives"
	}
	a.MaxLoss = decimal.NewFromFloat(portfolioValue).Mul(decimal.NewFromFloat(lossShare)).InexactFloat64()
	return a
}

// StopLossShare is the per-position loss budget used by SizePositions.
const StopLossShare = 0.15

// CashReserveShare is the portfolio share always held back as cash.
const CashReserveShare = 0.10

// PositionRequest is one line of a sizing request.
type PositionRequest struct {
	Ticker     string  `json:"ticker"`
	Allocation float64 `json:"allocation"` // percent of portfolio
	Strike     float64 `json:"strike"`
	Premium    float64 `json:"premium"`
}

// SizedPosition is a PositionRequest with dollar figures filled in.
type SizedPosition struct {
	PositionRequest
	DollarAmount float64 `json:"dollar_amount"`
	MaxLoss      float64 `json:"max_loss"`
	Breakeven    float64 `json:"breakeven"`
}

// Sizing is the result of SizePositions.
type Sizing struct {
	Positions      []SizedPosition `json:"positions"`
	TotalAllocated float64         `json:"total_allocated"`
	CashReserve    float64         `json:"cash_reserve"`
}

// SizePositions converts percentage allocations into dollar amounts, a 15% stop-loss
// budget and a call breakeven for each position.
func SizePositions(portfolioValue float64, positions []PositionRequest) (Sizing, error) {
	if portfolioValue <= 0 {
		return Sizing{}, fmt.Errorf("%w: portfolio value must be positive", ErrInvalidInput)
	}

	value := decimal.NewFromFloat(portfolioValue)
	total := decimal.Zero
	var allocationSum float64

	out := Sizing{Positions: make([]SizedPosition, 0, len(positions))}
	for i, pos := range positions {
		if pos.Allocation < 0 || pos.Allocation > 100 {
			return Sizing{}, fmt.Errorf("%w: position %d allocation must be between 0 and 100", ErrInvalidInput, i)
		}
		allocationSum += pos.Allocation

		amount := value.Mul(decimal.NewFromFloat(pos.Allocation)).Div(hundred)
		total = total.Add(amount)
		out.Positions = append(out.Positions, SizedPosition{
			PositionRequest: pos,
			DollarAmount:    amount.InexactFloat64(),
			MaxLoss:         amount.Mul(decimal.NewFromFloat(StopLossShare)).InexactFloat64(),
			Breakeven:       decimal.NewFromFloat(pos.Strike).Add(decimal.NewFromFloat(pos.Premium)).InexactFloat64(),
		})
	}
	if allocationSum > 100 {
		return Sizing{}, fmt.Errorf("%w: allocations sum to %.2f%%", ErrInvalidInput, allocationSum)
	}

	out.TotalAllocated = total.InexactFloat64()
	out.CashReserve = value.Mul(decimal.NewFromFloat(CashReserveShare)).InexactFloat64()
	return out, nil
}
