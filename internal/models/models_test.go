package models

import (
	"testing"
	"time"
)

func TestBarValidate(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		bar     Bar
		wantErr bool
	}{
		{
			name:    "valid bar",
			bar:     Bar{Date: day, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
			wantErr: false,
		},
		{
			name:    "close only",
			bar:     Bar{Date: day, Close: 10.5},
			wantErr: false,
		},
		{
			name:    "missing date",
			bar:     Bar{Close: 10},
			wantErr: true,
		},
		{
			name:    "zero close",
			bar:     Bar{Date: day},
			wantErr: true,
		},
		{
			name:    "low above high",
			bar:     Bar{Date: day, High: 9, Low: 10, Close: 9.5},
			wantErr: true,
		},
		{
			name:    "negative volume",
			bar:     Bar{Date: day, Close: 10, Volume: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bar.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Bar.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeries(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := Series{
		{Date: day, Close: 10, Volume: 100},
		{Date: day.AddDate(0, 0, 1), Close: 11, Volume: 200},
	}

	if err := s.Validate(); err != nil {
		t.Fatalf("Series.Validate() unexpected error: %v", err)
	}
	if got := s.Closes(); len(got) != 2 || got[1] != 11 {
		t.Errorf("Closes() = %v", got)
	}
	if got := s.Volumes(); got[0] != 100 {
		t.Errorf("Volumes() = %v", got)
	}
	last, ok := s.Last()
	if !ok || last.Close != 11 {
		t.Errorf("Last() = %v, %v", last, ok)
	}

	s[1].Date = day
	if err := s.Validate(); err == nil {
		t.Error("expected error for non-increasing dates")
	}

	if _, ok := (Series{}).Last(); ok {
		t.Error("Last() on empty series should report false")
	}
}

func TestMomentumRowValidate(t *testing.T) {
	tests := []struct {
		name    string
		row     MomentumRow
		wantErr bool
	}{
		{"valid", MomentumRow{Ticker: "NVDA", CurrentPrice: 120, RSI: 55, VolumeSpike: 1.2}, false},
		{"empty ticker", MomentumRow{CurrentPrice: 120}, true},
		{"zero price", MomentumRow{Ticker: "NVDA"}, true},
		{"rsi out of range", MomentumRow{Ticker: "NVDA", CurrentPrice: 1, RSI: 101}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.row.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("MomentumRow.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModerateRowValidate(t *testing.T) {
	valid := ModerateRow{Ticker: "MSFT", CurrentPrice: 420, Volatility: 22, RSI: 50, RiskScore: RiskLow, Probability10Pct: 40}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := valid
	bad.RiskScore = "Extreme"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown risk score")
	}

	bad = valid
	bad.Probability10Pct = 120
	if err := bad.Validate(); err == nil {
		t.Error("expected error for probability above 100")
	}
}

func TestOptionScenarioValidate(t *testing.T) {
	valid := OptionScenario{
		Strategy:    "Long Call",
		StockPrice:  100,
		Strike:      105,
		Premium:     3,
		Contracts:   2,
		TotalCost:   600,
		TargetPrice: 90,
		ProfitLoss:  -600,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := valid
	bad.ProfitLoss = -700
	if err := bad.Validate(); err == nil {
		t.Error("expected error for loss beyond cost")
	}

	bad = valid
	bad.Premium = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero premium")
	}
}

func TestAnalysisReportValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		report  AnalysisReport
		wantErr bool
	}{
		{
			name:    "valid investment report",
			report:  AnalysisReport{ID: "r-1", Kind: KindInvestment, CreatedAt: now, TargetReturn: 43},
			wantErr: false,
		},
		{
			name:    "empty ID",
			report:  AnalysisReport{Kind: KindInvestment, CreatedAt: now, TargetReturn: 43},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			report:  AnalysisReport{ID: "r-1", Kind: "yolo", CreatedAt: now, TargetReturn: 43},
			wantErr: true,
		},
		{
			name:    "future timestamp",
			report:  AnalysisReport{ID: "r-1", Kind: KindRealistic, CreatedAt: now.Add(time.Hour), TargetReturn: 10},
			wantErr: true,
		},
		{
			name: "invalid nested row",
			report: AnalysisReport{
				ID: "r-1", Kind: KindRealistic, CreatedAt: now, TargetReturn: 10,
				ModerateStocks: []ModerateRow{{Ticker: "KO"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("AnalysisReport.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
