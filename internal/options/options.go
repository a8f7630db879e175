// Package options prices Level 1 option plays (long calls and long puts held to expiry)
// and sizes them against portfolio targets. Premiums are rule-of-thumb estimates, not
// model prices; money arithmetic is done in decimal and converted at the edges.
package options

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/tradeoracle/internal/models"
)

const (
	StrategyLongCall = "Long Call"
	StrategyLongPut  = "Long Put"
)

// ErrInvalidInput is returned for non-positive prices, premiums or capital.
var ErrInvalidInput = errors.New("invalid options input")

var (
	hundred    = decimal.NewFromInt(100)
	multiplier = decimal.NewFromInt(models.SharesPerContract)
)

// CallProfit is the expiry P/L of holding contracts long calls while the stock moves to target.
func CallProfit(stockPrice, strike, premium, target float64, contracts int) models.OptionScenario {
	k := decimal.NewFromFloat(strike)
	p := decimal.NewFromFloat(premium)
	s := decimal.NewFromFloat(target)
	intrinsic := decimal.Max(s.Sub(k), decimal.Zero)
	return scenario(StrategyLongCall, stockPrice, strike, premium, target, contracts, intrinsic, k.Add(p))
}

// PutProfit is the expiry P/L of holding contracts long puts while the stock moves to target.
func PutProfit(stockPrice, strike, premium, target float64, contracts int) models.OptionScenario {
	k := decimal.NewFromFloat(strike)
	p := decimal.NewFromFloat(premium)
	s := decimal.NewFromFloat(target)
	intrinsic := decimal.Max(k.Sub(s), decimal.Zero)
	return scenario(StrategyLongPut, stockPrice, strike, premium, target, contracts, intrinsic, k.Sub(p))
}

func scenario(strategy string, stockPrice, strike, premium, target float64, contracts int, intrinsicPerShare, breakeven decimal.Decimal) models.OptionScenario {
	n := decimal.NewFromInt(int64(contracts))
	cost := decimal.NewFromFloat(premium).Mul(multiplier).Mul(n)
	value := intrinsicPerShare.Mul(multiplier).Mul(n)
	profit := value.Sub(cost)

	var returnPct decimal.Decimal
	if cost.IsPositive() {
		returnPct = profit.Div(cost).Mul(hundred)
	}

	return models.OptionScenario{
		Strategy:    strategy,
		StockPrice:  stockPrice,
		Strike:      strike,
		Premium:     premium,
		Contracts:   contracts,
		TotalCost:   cost.InexactFloat64(),
		TargetPrice: target,
		ProfitLoss:  profit.InexactFloat64(),
		ReturnPct:   returnPct.InexactFloat64(),
		Breakeven:   breakeven.InexactFloat64(),
	}
}

// EstimatedPremium is the rule-of-thumb premium for a call struck offset above spot:
// 2% of spot, growing with distance from the money.
func EstimatedPremium(stockPrice, strikeOffset float64) float64 {
	return stockPrice * 0.02 * (1 + strikeOffset*2)
}

// PriceIncreases and StrikeOffsets span the strike search grid.
var (
	PriceIncreases = []float64{0.10, 0.15, 0.20, 0.25, 0.30}
	StrikeOffsets  = []float64{0, 0.05, 0.10}
)

// FindOptimalStrikes searches ATM and OTM calls across several target moves for
// sizes that would earn capital·targetReturn, keeping only affordable ones.
func FindOptimalStrikes(stockPrice, targetReturn, capital float64) ([]models.OptionScenario, error) {
	if stockPrice <= 0 || capital <= 0 || targetReturn <= 0 {
		return nil, fmt.Errorf("%w: price, capital and target return must be positive", ErrInvalidInput)
	}

	goal := decimal.NewFromFloat(capital).Mul(decimal.NewFromFloat(targetReturn))
	budget := decimal.NewFromFloat(capital)

	var out []models.OptionScenario
	for _, increase := range PriceIncreases {
		target := stockPrice * (1 + increase)
		for _, offset := range StrikeOffsets {
			strike := stockPrice * (1 + offset)
			premium := EstimatedPremium(stockPrice, offset)

			perContract := decimal.NewFromFloat(target - strike - premium).Mul(multiplier)
			if !perContract.IsPositive() {
				continue
			}
			contracts := goal.Div(perContract).IntPart()
			cost := decimal.NewFromFloat(premium).Mul(multiplier).Mul(decimal.NewFromInt(contracts))
			if cost.GreaterThan(budget) {
				continue
			}

			s := CallProfit(stockPrice, strike, premium, target, int(contracts))
			s.PriceIncreaseNeeded = percent(increase)
			out = append(out, s)
		}
	}
	return out, nil
}

// RequiredMove is the percent move above strike a call position must see for the
// whole of currentCapital, spent on premium, to grow to targetCapital.
func RequiredMove(currentCapital, targetCapital, premium, strike float64) (float64, error) {
	if currentCapital <= 0 || premium <= 0 || strike <= 0 {
		return 0, fmt.Errorf("%w: capital, premium and strike must be positive", ErrInvalidInput)
	}
	perContract := decimal.NewFromFloat(premium).Mul(multiplier)
	contracts := decimal.NewFromFloat(currentCapital).Div(perContract).IntPart()
	if contracts == 0 {
		return 0, fmt.Errorf("%w: capital %.2f does not cover one contract at premium %.2f", ErrInvalidInput, currentCapital, premium)
	}

	profit := decimal.NewFromFloat(targetCapital - currentCapital)
	k := decimal.NewFromFloat(strike)
	required := k.Add(decimal.NewFromFloat(premium)).Add(profit.Div(decimal.NewFromInt(contracts).Mul(multiplier)))
	return required.Div(k).Sub(decimal.NewFromInt(1)).Mul(hundred).InexactFloat64(), nil
}

// percent converts a fraction to a percent without binary float noise (0.15 → 15).
func percent(fraction float64) float64 {
	return decimal.NewFromFloat(fraction).Mul(hundred).InexactFloat64()
}
