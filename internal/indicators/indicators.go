// Package indicators computes the technical indicators and heuristic scores used to
// screen tickers: simple returns, moving averages, RSI, volume spikes, annualized
// volatility, momentum ranking and the moderate-risk tables.
//
// All functions take values in ascending date order and read the most recent value
// at the end of the slice.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// RSIPeriod is the default RSI lookback.
const RSIPeriod = 14

// ErrInsufficientData is returned when a series is too short for the requested window.
var ErrInsufficientData = errors.New("insufficient data")

func needAtLeast(values []float64, n int, what string) error {
	if len(values) < n {
		return fmt.Errorf("%w: %s needs %d values, have %d", ErrInsufficientData, what, n, len(values))
	}
	return nil
}

// PctChange returns the simple returns between consecutive values, len(values)-1 long.
func PctChange(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i]/values[i-1] - 1
	}
	return out
}

// ReturnPct is the percent change from the k-th most recent value to the last one.
// k = 1 is the last value itself, so ReturnPct(v, 5) spans four intervals.
func ReturnPct(values []float64, k int) (float64, error) {
	if k < 1 {
		return 0, fmt.Errorf("offset must be at least 1, got %d", k)
	}
	if err := needAtLeast(values, k, "return"); err != nil {
		return 0, err
	}
	last := values[len(values)-1]
	base := values[len(values)-k]
	return (last/base - 1) * 100, nil
}

// SinceStartPct is the percent change from the first value to the last.
func SinceStartPct(values []float64) (float64, error) {
	return ReturnPct(values, len(values))
}

// SMA is the mean of the last window values.
func SMA(values []float64, window int) (float64, error) {
	if window < 1 {
		return 0, fmt.Errorf("window must be at least 1, got %d", window)
	}
	if err := needAtLeast(values, window, "moving average"); err != nil {
		return 0, err
	}
	return stats.Mean(values[len(values)-window:])
}

// RSI is the relative strength index over the last period price changes, using
// simple rolling means of gains and losses. A window with no losses reads 100;
// a flat window reads 50.
func RSI(closes []float64, period int) (float64, error) {
	if period < 1 {
		return 0, fmt.Errorf("period must be at least 1, got %d", period)
	}
	if err := needAtLeast(closes, period+1, "rsi"); err != nil {
		return 0, err
	}

	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50, nil
	case avgLoss == 0:
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// VolumeRatio is the last volume divided by the mean volume of the last window days.
func VolumeRatio(volumes []float64, window int) (float64, error) {
	avg, err := SMA(volumes, window)
	if err != nil {
		return 0, err
	}
	if avg == 0 {
		return 0, nil
	}
	return volumes[len(volumes)-1] / avg, nil
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled by
// √252, in percent.
func AnnualizedVolatility(closes []float64) (float64, error) {
	if err := needAtLeast(closes, 3, "volatility"); err != nil {
		return 0, err
	}
	sd, err := stats.StandardDeviationSample(PctChange(closes))
	if err != nil {
		return 0, fmt.Errorf("failed to compute standard deviation: %w", err)
	}
	return sd * math.Sqrt(TradingDaysPerYear) * 100, nil
}
