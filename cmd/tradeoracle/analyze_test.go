package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/tradeoracle/internal/analyzer"
	"github.com/rewired-gh/tradeoracle/internal/config"
	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/storage"
)

func TestFailureTracker(t *testing.T) {
	boom := errors.New("upstream unavailable")

	type outcome struct {
		notifyFailure  bool
		recoveredAfter int
	}
	tests := []struct {
		name    string
		results []error
		want    []outcome
	}{
		{
			name:    "steady success stays quiet",
			results: []error{nil, nil},
			want:    []outcome{{}, {}},
		},
		{
			name:    "only the first failure of a streak notifies",
			results: []error{boom, boom, boom},
			want:    []outcome{{notifyFailure: true}, {}, {}},
		},
		{
			name:    "recovery reports the streak length once",
			results: []error{nil, boom, boom, nil, nil},
			want:    []outcome{{}, {notifyFailure: true}, {}, {recoveredAfter: 2}, {}},
		},
		{
			name:    "a new streak after recovery notifies again",
			results: []error{boom, nil, boom},
			want:    []outcome{{notifyFailure: true}, {recoveredAfter: 1}, {notifyFailure: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f failureTracker
			for i, err := range tt.results {
				notify, recovered := f.observe(err)
				assert.Equal(t, tt.want[i], outcome{notify, recovered}, "cycle %d", i)
			}
		})
	}
}

func TestPlanFromCSV(t *testing.T) {
	rows := []models.ModerateRow{
		{Ticker: "KO", CurrentPrice: 62.5, TargetPrice10Pct: 68.75, Volatility: 14, RSI: 61, RiskScore: models.RiskMedium, Probability10Pct: 30},
		{Ticker: "MSFT", CurrentPrice: 420, TargetPrice10Pct: 462, Volatility: 22.5, RSI: 48, AboveSMA20: true, RiskScore: models.RiskLow, Probability10Pct: 45},
	}
	data, err := storage.ModerateCSV(rows)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "moderate.csv")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	a := analyzer.New(nil,
		config.StrategyConfig{InitialCapital: 700000, ModerateTarget: 770000},
		config.SimulationConfig{Paths: 500, HorizonDays: 30, Volatility: 0.30, Reproducible: true, Seed: 7},
	)
	p := &pipeline{fromCSV: path}

	r, err := p.planFromCSV(a)
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Equal(t, models.KindRealistic, r.Kind)
	assert.Equal(t, "MSFT", r.Ticker)
	require.Len(t, r.ModerateStocks, 2)
	assert.Equal(t, "KO", r.ModerateStocks[1].Ticker)
	require.NotNil(t, r.Ladder)
	assert.Equal(t, 420.0, r.Ladder.StockPrice)

	_, err = (&pipeline{fromCSV: filepath.Join(t.TempDir(), "absent.csv")}).planFromCSV(a)
	assert.Error(t, err)
}
