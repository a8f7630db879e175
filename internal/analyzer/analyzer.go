// Package analyzer runs the two options analysis pipelines over live price history:
// the aggressive momentum plan and the realistic 10% plan. Each pipeline screens a
// ticker universe, prices an options position on the best candidate, runs Monte Carlo
// probability analysis and simulates a diversified portfolio.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/rewired-gh/tradeoracle/internal/config"
	"github.com/rewired-gh/tradeoracle/internal/indicators"
	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/marketdata"
	"github.com/rewired-gh/tradeoracle/internal/models"
)

// ErrNoCandidates is returned when no ticker in the universe could be screened.
var ErrNoCandidates = errors.New("no ticker could be analyzed")

// maxFetches bounds concurrent history requests to the provider.
const maxFetches = 4

type cacheKey struct {
	ticker   string
	lookback int
}

// Analyzer screens tickers and builds analysis reports. History is cached per
// ticker and lookback for the Analyzer's lifetime.
type Analyzer struct {
	provider marketdata.Provider
	strategy config.StrategyConfig
	sim      config.SimulationConfig
	now      func() time.Time

	mu    sync.Mutex
	cache map[cacheKey]models.Series
}

// New creates an Analyzer over provider.
func New(provider marketdata.Provider, strategy config.StrategyConfig, sim config.SimulationConfig) *Analyzer {
	return &Analyzer{
		provider: provider,
		strategy: strategy,
		sim:      sim,
		now:      time.Now,
		cache:    make(map[cacheKey]models.Series),
	}
}

// history returns cached bars or fetches them.
func (a *Analyzer) history(ctx context.Context, ticker string, lookback int) (models.Series, error) {
	key := cacheKey{ticker: ticker, lookback: lookback}

	a.mu.Lock()
	bars, ok := a.cache[key]
	a.mu.Unlock()
	if ok {
		return bars, nil
	}

	bars, err := marketdata.History(ctx, a.provider, ticker, lookback, a.now())
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[key] = bars
	a.mu.Unlock()
	return bars, nil
}

// screen fetches every ticker concurrently and applies fn. Tickers that fail to
// fetch or screen are logged and skipped; output keeps input order.
func screen[T any](ctx context.Context, a *Analyzer, tickers []string, lookback int, fn func(string, models.Series) (T, error)) []T {
	results := make([]*T, len(tickers))
	p := pool.New().WithMaxGoroutines(maxFetches)
	for i, ticker := range tickers {
		p.Go(func() {
			bars, err := a.history(ctx, ticker, lookback)
			if err != nil {
				logger.Warn("Skipping %s: %v", ticker, err)
				return
			}
			row, err := fn(ticker, bars)
			if err != nil {
				logger.Warn("Skipping %s: %v", ticker, err)
				return
			}
			results[i] = &row
		})
	}
	p.Wait()

	out := make([]T, 0, len(tickers))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// MomentumRanking screens tickers over the momentum lookback and returns them by
// descending momentum score.
func (a *Analyzer) MomentumRanking(ctx context.Context, tickers []string) ([]models.MomentumRow, error) {
	rows := screen(ctx, a, tickers, a.strategy.MomentumLookback, indicators.Momentum)
	if len(rows) == 0 {
		return nil, fmt.Errorf("momentum ranking of %d tickers: %w", len(tickers), ErrNoCandidates)
	}
	indicators.RankByMomentum(rows)
	for _, r := range rows {
		logger.Debug("Momentum: %s", indicators.Describe(r))
	}
	return rows, nil
}

// ModerateScreening screens tickers for a targetReturn (fraction) move over the
// moderate lookback and returns them by descending heuristic probability.
func (a *Analyzer) ModerateScreening(ctx context.Context, tickers []string, targetReturn float64) ([]models.ModerateRow, error) {
	rows := screen(ctx, a, tickers, a.strategy.ModerateLookback, func(ticker string, bars models.Series) (models.ModerateRow, error) {
		return indicators.Moderate(ticker, bars, targetReturn)
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("moderate screening of %d tickers: %w", len(tickers), ErrNoCandidates)
	}
	indicators.RankByProbability(rows)
	return rows, nil
}

// LatestQuote is the most recent close and its change from the prior close.
type LatestQuote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	ChangePct float64   `json:"change"`
	Volume    float64   `json:"volume"`
	Date      time.Time `json:"date"`
}

// Quotes returns the latest close for each ticker that has at least two bars.
func (a *Analyzer) Quotes(ctx context.Context, tickers []string) []LatestQuote {
	return screen(ctx, a, tickers, a.strategy.MomentumLookback, func(ticker string, bars models.Series) (LatestQuote, error) {
		change, err := indicators.ReturnPct(bars.Closes(), 2)
		if err != nil {
			return LatestQuote{}, err
		}
		last, _ := bars.Last()
		return LatestQuote{Ticker: ticker, Price: last.Close, ChangePct: change, Volume: last.Volume, Date: last.Date}, nil
	})
}
