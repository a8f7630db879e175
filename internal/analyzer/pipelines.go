package analyzer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
	"github.com/rewired-gh/tradeoracle/internal/options"
)

// Investment plan constants: a 43% target on a 5% OTM call priced at 3% of spot.
const (
	InvestmentTargetMove    = 0.43
	InvestmentStrikeOffset  = 0.05
	InvestmentPremiumShare  = 0.03
	InvestmentTopStocks     = 5
	RealisticTargetMove     = 0.10
	RealisticPortfolioSize  = 5
	RealisticExpectedReturn = 0.10
	RealisticPlanLimit      = 3
)

// InvestmentPositions is the fixed three-position mix for the aggressive portfolio.
var InvestmentPositions = []montecarlo.Position{
	{Weight: 0.4, ExpectedReturn: 0.20, Volatility: 0.35},
	{Weight: 0.3, ExpectedReturn: 0.15, Volatility: 0.30},
	{Weight: 0.3, ExpectedReturn: 0.10, Volatility: 0.25},
}

func (a *Analyzer) pathParams(price, volatility float64) montecarlo.Params {
	p := montecarlo.NewParams(price, volatility, a.sim.HorizonDays)
	p.PathCount = a.sim.Paths
	p.Drift = a.sim.Drift
	p.Workers = a.sim.Workers
	p.Seed = a.sim.SeedPtr()
	return p
}

func (a *Analyzer) newReport(kind models.ReportKind) *models.AnalysisReport {
	return &models.AnalysisReport{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: a.now().UTC(),
	}
}

// Investment runs the aggressive pipeline: rank the momentum universe, size a
// 5% OTM call on the leader against a 43% move, estimate the probability of that
// move and simulate the fixed three-position portfolio against the aggressive target.
func (a *Analyzer) Investment(ctx context.Context) (*models.AnalysisReport, error) {
	logger.Info("Analyzing %d high-momentum stocks", len(a.strategy.MomentumTickers))
	rows, err := a.MomentumRanking(ctx, a.strategy.MomentumTickers)
	if err != nil {
		return nil, err
	}

	top := rows[0]
	price := top.CurrentPrice
	target := price * (1 + InvestmentTargetMove)
	strike := price * (1 + InvestmentStrikeOffset)
	premium := price * InvestmentPremiumShare
	contracts := int(a.strategy.InitialCapital / (premium * models.SharesPerContract))
	scenario := options.CallProfit(price, strike, premium, target, contracts)
	logger.Info("Options strategy for %s: %d calls at strike %.2f, premium %.2f", top.Ticker, contracts, strike, premium)

	params := a.pathParams(price, a.sim.Volatility)
	final, err := montecarlo.SimulateFinal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate %s: %w", top.Ticker, err)
	}
	summary, err := montecarlo.SummarizeFinal(params, final, target)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize %s: %w", top.Ticker, err)
	}
	record := summary.Record()

	portfolio, err := montecarlo.SimulatePortfolio(montecarlo.PortfolioParams{
		Capital:   a.strategy.InitialCapital,
		Target:    a.strategy.AggressiveTarget,
		Positions: InvestmentPositions,
		Trials:    a.sim.Paths,
		Seed:      a.sim.SeedPtr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to simulate portfolio: %w", err)
	}
	portfolio = portfolio.Rounded()

	r := a.newReport(models.KindInvestment)
	r.Strategy = "Momentum long calls"
	r.Ticker = top.Ticker
	r.TargetReturn = montecarlo.Round2(InvestmentTargetMove * 100)
	r.TopStocks = rows[:min(len(rows), InvestmentTopStocks)]
	r.OptionsStrategy = &scenario
	r.Probability = &record
	r.Portfolio = &portfolio

	logger.Info("Investment analysis complete: %s probability %.2f%%, portfolio success %.2f%%",
		top.Ticker, record.Probability, portfolio.ProbabilityOfSuccess)
	return r, nil
}

// Realistic runs the 10% pipeline: screen the moderate universe, then plan on the
// screened rows with RealisticFromScreening.
func (a *Analyzer) Realistic(ctx context.Context) (*models.AnalysisReport, error) {
	logger.Info("Screening %d moderate-risk stocks", len(a.strategy.ModerateTickers))
	rows, err := a.ModerateScreening(ctx, a.strategy.ModerateTickers, RealisticTargetMove)
	if err != nil {
		return nil, err
	}
	return a.RealisticFromScreening(rows)
}

// RealisticFromScreening sizes the moderate strategies on the most probable
// candidate, reads +10%, +5% and break-even probabilities from one ensemble at the
// candidate's own volatility and simulates an equal-weight portfolio of the top
// candidates against the moderate target. rows must be ranked by probability, as
// ModerateScreening returns them or as an exported screening CSV stores them.
func (a *Analyzer) RealisticFromScreening(rows []models.ModerateRow) (*models.AnalysisReport, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("realistic plan: %w", ErrNoCandidates)
	}

	top := rows[0]
	plans, err := options.ModerateStrategies(options.ModerateParams{
		StockPrice:     top.CurrentPrice,
		Ticker:         top.Ticker,
		InitialCapital: a.strategy.InitialCapital,
		RequiredProfit: a.strategy.ModerateTarget - a.strategy.InitialCapital,
		TargetMove:     RealisticTargetMove,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to size strategies for %s: %w", top.Ticker, err)
	}
	if len(plans) > RealisticPlanLimit {
		plans = plans[:RealisticPlanLimit]
	}

	ladder, err := a.ladder(top.CurrentPrice, top.Volatility/100)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate %s: %w", top.Ticker, err)
	}

	picks := rows[:min(len(rows), RealisticPortfolioSize)]
	weight := 1 / float64(len(picks))
	positions := make([]montecarlo.Position, len(picks))
	for i, row := range picks {
		positions[i] = montecarlo.Position{
			Weight:         weight,
			ExpectedReturn: RealisticExpectedReturn,
			Volatility:     row.Volatility / 100 / 2,
		}
	}
	portfolio, err := montecarlo.SimulatePortfolio(montecarlo.PortfolioParams{
		Capital:   a.strategy.InitialCapital,
		Target:    a.strategy.ModerateTarget,
		Positions: positions,
		Trials:    a.sim.Paths,
		Seed:      a.sim.SeedPtr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to simulate portfolio: %w", err)
	}
	portfolio = portfolio.Rounded()

	r := a.newReport(models.KindRealistic)
	r.Strategy = "Moderate 10% options"
	r.Ticker = top.Ticker
	r.TargetReturn = montecarlo.Round2(RealisticTargetMove * 100)
	r.ModerateStocks = rows
	r.StrategyPlans = plans
	r.Ladder = &ladder
	r.Portfolio = &portfolio

	logger.Info("Realistic analysis complete: %s 10%% probability %.2f%%, portfolio success %.2f%%",
		top.Ticker, ladder.Prob10Pct, portfolio.ProbabilityOfSuccess)
	return r, nil
}

// ladder reads several target probabilities from a single ensemble.
func (a *Analyzer) ladder(price, volatility float64) (models.TargetLadder, error) {
	ens, err := montecarlo.Simulate(a.pathParams(price, volatility))
	if err != nil {
		return models.TargetLadder{}, err
	}
	target := price * (1 + RealisticTargetMove)
	summary, err := montecarlo.Summarize(ens, target)
	if err != nil {
		return models.TargetLadder{}, err
	}
	p25, _ := summary.Percentile(25)
	p75, _ := summary.Percentile(75)

	return models.TargetLadder{
		StockPrice:    montecarlo.Round2(price),
		TargetPrice:   montecarlo.Round2(target),
		Prob10Pct:     montecarlo.Round2(summary.Probability),
		Prob5Pct:      montecarlo.Round2(ens.ProbabilityAtOrAbove(price * 1.05)),
		ProbBreakEven: montecarlo.Round2(ens.ProbabilityAtOrAbove(price)),
		ExpectedPrice: montecarlo.Round2(summary.Mean),
		MedianPrice:   montecarlo.Round2(summary.Median),
		Percentile25:  montecarlo.Round2(p25),
		Percentile75:  montecarlo.Round2(p75),
	}, nil
}
