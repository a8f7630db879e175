// Package marketdata fetches daily price history for tickers from one of several
// upstream providers behind a common Provider interface.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rewired-gh/tradeoracle/internal/config"
	"github.com/rewired-gh/tradeoracle/internal/models"
)

// ErrNoData is returned when a provider answers but has no bars for the ticker and window.
var ErrNoData = errors.New("no price data")

// Provider returns daily bars in ascending date order.
type Provider interface {
	Name() string
	DailyBars(ctx context.Context, ticker string, from, to time.Time) (models.Series, error)
}

// New builds the provider selected by cfg.Provider.
func New(cfg config.MarketDataConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "yahoo", "":
		return NewYahooClient(cfg.YahooBaseURL, cfg.Timeout, cfg.MaxRetries, cfg.RetryDelayBase), nil
	case "polygon":
		return NewPolygonClient(cfg.PolygonAPIKey, cfg.MaxRetries, cfg.RetryDelayBase), nil
	case "alpaca":
		return NewAlpacaClient(cfg.AlpacaAPIKey, cfg.AlpacaAPISecret, cfg.MaxRetries, cfg.RetryDelayBase), nil
	default:
		return nil, fmt.Errorf("unknown market data provider: %s", cfg.Provider)
	}
}

// History fetches the last lookbackDays calendar days of bars ending at now.
func History(ctx context.Context, p Provider, ticker string, lookbackDays int, now time.Time) (models.Series, error) {
	from := now.AddDate(0, 0, -lookbackDays)
	bars, err := p.DailyBars(ctx, ticker, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s bars from %s: %w", ticker, p.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	return bars, nil
}

// normalize drops unusable bars, sorts by date and removes duplicate days.
func normalize(bars []models.Bar) models.Series {
	out := make(models.Series, 0, len(bars))
	for _, b := range bars {
		if b.Validate() != nil {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && sameDay(deduped[n-1].Date, b.Date) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
