package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradeoracle/internal/analyzer"
	"github.com/rewired-gh/tradeoracle/internal/config"
	"github.com/rewired-gh/tradeoracle/internal/console"
	"github.com/rewired-gh/tradeoracle/internal/indicators"
	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/marketdata"
	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/storage"
	"github.com/rewired-gh/tradeoracle/internal/telegram"
)

var (
	pipelineEvery    time.Duration
	realisticFromCSV string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the aggressive momentum options analysis",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runPipeline(models.KindInvestment)
	},
}

var realisticCmd = &cobra.Command{
	Use:   "realistic",
	Short: "Run the moderate-risk 10% return analysis",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runPipeline(models.KindRealistic)
	},
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, realisticCmd} {
		c.Flags().DurationVar(&pipelineEvery, "every", 0, "Repeat the analysis at this interval until interrupted")
	}
	realisticCmd.Flags().StringVar(&realisticFromCSV, "from-csv", "", "Plan from an exported moderate screening CSV instead of fetching prices")
}

type pipeline struct {
	cfg      *config.Config
	kind     models.ReportKind
	provider marketdata.Provider
	store    *storage.Storage
	notifier *telegram.Client
	out      *console.Console
	fromCSV  string
}

// failureTracker decides which cycle outcomes of a repeating run are worth a
// notification: the first failure of a streak and the success that ends it.
type failureTracker struct {
	consecutive int
}

// observe records one cycle result. notifyFailure is set on the first failure of
// a streak; recoveredAfter is the streak length when a success ends one, else 0.
func (f *failureTracker) observe(err error) (notifyFailure bool, recoveredAfter int) {
	if err != nil {
		f.consecutive++
		return f.consecutive == 1, 0
	}
	recoveredAfter, f.consecutive = f.consecutive, 0
	return false, recoveredAfter
}

func runPipeline(kind models.ReportKind) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := marketdata.New(cfg.MarketData)
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	notifier, err := newTelegram(cfg)
	if err != nil {
		return err
	}

	p := &pipeline{
		cfg:      cfg,
		kind:     kind,
		provider: provider,
		store:    store,
		notifier: notifier,
		out:      console.New(os.Stdout),
	}
	if kind == models.KindRealistic {
		p.fromCSV = realisticFromCSV
	}

	ctx, cancel := signalContext()
	defer cancel()

	if pipelineEvery <= 0 {
		err := p.cycle(ctx)
		if err != nil {
			p.notifyError(err)
		}
		return err
	}

	logger.Info("Running %s analysis every %v", kind, pipelineEvery)
	ticker := time.NewTicker(pipelineEvery)
	defer ticker.Stop()

	var failures failureTracker
	handleCycleResult := func(err error) {
		notifyFailure, recoveredAfter := failures.observe(err)
		if err != nil {
			logger.Error("Analysis cycle failed: %v", err)
		}
		if notifyFailure {
			p.notifyError(err)
		}
		if recoveredAfter > 0 && p.notifier != nil {
			if sendErr := p.notifier.SendRecovery(recoveredAfter); sendErr != nil {
				logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
			}
		}
	}

	handleCycleResult(p.cycle(ctx))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return nil
		case <-ticker.C:
			handleCycleResult(p.cycle(ctx))
		}
	}
}

func (p *pipeline) notifyError(err error) {
	if p.notifier == nil {
		return
	}
	if sendErr := p.notifier.SendError(err); sendErr != nil {
		logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
	}
}

// cycle runs one analysis, prints it, writes the results file and screening CSV,
// and records the report. A fresh Analyzer per cycle keeps price history current.
func (p *pipeline) cycle(ctx context.Context) error {
	start := time.Now()
	logger.Info("Starting %s analysis", p.kind)

	a := analyzer.New(p.provider, p.cfg.Strategy, p.cfg.Simulation)

	var (
		report      *models.AnalysisReport
		err         error
		resultsPath string
	)
	switch p.kind {
	case models.KindRealistic:
		if p.fromCSV != "" {
			report, err = p.planFromCSV(a)
		} else {
			report, err = a.Realistic(ctx)
		}
		resultsPath = p.cfg.Strategy.RealisticResults
	default:
		report, err = a.Investment(ctx)
		resultsPath = p.cfg.Strategy.InvestmentResults
	}
	if err != nil {
		return fmt.Errorf("%s analysis failed: %w", p.kind, err)
	}

	p.out.Report(report)

	filePerm := os.FileMode(p.cfg.Storage.FilePermissions)
	dirPerm := os.FileMode(p.cfg.Storage.DirPermissions)

	if err := storage.WriteJSON(resultsPath, report, filePerm, dirPerm); err != nil {
		return err
	}
	logger.Info("Results saved to %s", resultsPath)

	if csvPath, err := storage.ExportScreening(p.cfg.Storage.CSVDir, report, filePerm, dirPerm); err != nil {
		logger.Warn("Failed to export screening CSV: %v", err)
	} else {
		logger.Debug("Screening table exported to %s", csvPath)
	}

	if err := p.store.AddReport(report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	if removed := p.store.RotateReports(); removed > 0 {
		logger.Debug("Rotated %d old reports", removed)
	}
	if err := p.store.Save(); err != nil {
		return err
	}

	if p.notifier != nil {
		if err := p.notifier.SendReport(report); err != nil {
			logger.Error("Failed to send Telegram notification: %v", err)
		} else {
			logger.Info("Sent Telegram report notification")
		}
	}

	logger.Info("%s analysis completed in %v", p.kind, time.Since(start))
	return nil
}

func (p *pipeline) planFromCSV(a *analyzer.Analyzer) (*models.AnalysisReport, error) {
	data, err := os.ReadFile(p.fromCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to read screening CSV: %w", err)
	}
	rows, err := storage.ReadModerateCSV(data)
	if err != nil {
		return nil, err
	}
	indicators.RankByProbability(rows)
	logger.Info("Planning from %d screened stocks in %s", len(rows), p.fromCSV)
	return a.RealisticFromScreening(rows)
}
