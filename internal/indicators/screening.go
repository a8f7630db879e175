package indicators

import (
	"fmt"
	"math"
	"sort"

	"github.com/rewired-gh/tradeoracle/internal/models"
)

// MinMomentumBars is the shortest history Momentum accepts (SMA20 and volume ratio).
const MinMomentumBars = 20

// MinModerateBars is the shortest history Moderate accepts (21-bar monthly return).
const MinModerateBars = 21

// Momentum builds the momentum ranking row for one ticker. Values are kept at full
// precision; rounding happens when the row is displayed.
func Momentum(ticker string, bars models.Series) (models.MomentumRow, error) {
	closes := bars.Closes()
	if err := needAtLeast(closes, MinMomentumBars, "momentum"); err != nil {
		return models.MomentumRow{}, err
	}

	price := closes[len(closes)-1]
	daily, _ := ReturnPct(closes, 2)
	weekly, _ := ReturnPct(closes, 5)
	monthly, _ := SinceStartPct(closes)
	sma5, _ := SMA(closes, 5)
	sma20, _ := SMA(closes, 20)

	rsi, err := RSI(closes, RSIPeriod)
	if err != nil {
		return models.MomentumRow{}, err
	}
	spike, err := VolumeRatio(bars.Volumes(), 20)
	if err != nil {
		return models.MomentumRow{}, err
	}

	row := models.MomentumRow{
		Ticker:        ticker,
		CurrentPrice:  price,
		DailyReturn:   daily,
		WeeklyReturn:  weekly,
		MonthlyReturn: monthly,
		RSI:           rsi,
		VolumeSpike:   spike,
		AboveSMA5:     price > sma5,
		AboveSMA20:    price > sma20,
	}
	row.MomentumScore = MomentumScore(row)
	return row, nil
}

// MomentumScore weighs returns, volume and trend flags into one ranking number.
func MomentumScore(r models.MomentumRow) float64 {
	return r.WeeklyReturn*0.3 +
		r.MonthlyReturn*0.3 +
		r.VolumeSpike*10 +
		boolScore(r.AboveSMA5)*10 +
		boolScore(r.AboveSMA20)*10
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Moderate builds the 10% target screening row for one ticker.
func Moderate(ticker string, bars models.Series, targetReturn float64) (models.ModerateRow, error) {
	closes := bars.Closes()
	if err := needAtLeast(closes, MinModerateBars, "moderate screening"); err != nil {
		return models.ModerateRow{}, err
	}

	price := closes[len(closes)-1]
	weekly, _ := ReturnPct(closes, 5)
	monthly, _ := ReturnPct(closes, 21)
	sma20, _ := SMA(closes, 20)

	vol, err := AnnualizedVolatility(closes)
	if err != nil {
		return models.ModerateRow{}, err
	}
	rsi, err := RSI(closes, RSIPeriod)
	if err != nil {
		return models.ModerateRow{}, err
	}

	return models.ModerateRow{
		Ticker:           ticker,
		CurrentPrice:     price,
		TargetPrice10Pct: price * (1 + targetReturn),
		WeeklyReturn:     weekly,
		MonthlyReturn:    monthly,
		Volatility:       vol,
		RSI:              rsi,
		AboveSMA20:       price > sma20,
		RiskScore:        Risk(vol, monthly, rsi),
		Probability10Pct: Probability10Pct(vol, monthly),
	}, nil
}

// Risk scores volatility, recent return and RSI from 1 (best) to 3 each and
// buckets the total: ≤4 Low, ≤6 Medium, otherwise High.
func Risk(volatility, monthlyReturn, rsi float64) models.RiskScore {
	score := 0

	switch {
	case volatility < 25:
		score++
	case volatility < 40:
		score += 2
	default:
		score += 3
	}

	switch {
	case monthlyReturn > 5:
		score++
	case monthlyReturn > 0:
		score += 2
	default:
		score += 3
	}

	switch {
	case rsi >= 40 && rsi <= 60:
		score++
	case rsi >= 30 && rsi <= 70:
		score += 2
	default:
		score += 3
	}

	switch {
	case score <= 4:
		return models.RiskLow
	case score <= 6:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// Probability10Pct is a lookup-table estimate, in percent, of a 10% gain within
// a month. It is a heuristic, not a model output, and is clamped to [5, 65].
func Probability10Pct(volatility, recentReturn float64) float64 {
	var p float64
	switch {
	case volatility < 20:
		p = 25
	case volatility < 30:
		p = 35
	case volatility < 40:
		p = 40
	default:
		p = 30
	}

	switch {
	case recentReturn > 10:
		p += 15
	case recentReturn > 5:
		p += 10
	case recentReturn > 0:
		p += 5
	default:
		p -= 10
	}

	return math.Min(math.Max(p, 5), 65)
}

// RankByMomentum sorts rows by descending momentum score. Ties keep input order.
func RankByMomentum(rows []models.MomentumRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MomentumScore > rows[j].MomentumScore })
}

// RankByProbability sorts rows by descending heuristic probability. Ties keep input order.
func RankByProbability(rows []models.ModerateRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Probability10Pct > rows[j].Probability10Pct })
}

// Describe renders a one-line summary for logs.
func Describe(r models.MomentumRow) string {
	return fmt.Sprintf("%s $%.2f week %+.2f%% month %+.2f%% score %.1f", r.Ticker, r.CurrentPrice, r.WeeklyReturn, r.MonthlyReturn, r.MomentumScore)
}
