package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/models"
)

// AlpacaClient reads daily bars from the Alpaca market data API.
type AlpacaClient struct {
	client         *marketdata.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewAlpacaClient creates a market data client for the given key pair.
func NewAlpacaClient(apiKey, apiSecret string, maxRetries int, retryDelayBase time.Duration) *AlpacaClient {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &AlpacaClient{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// Name identifies the provider in logs and errors.
func (c *AlpacaClient) Name() string { return "alpaca" }

// DailyBars retrieves split-adjusted daily bars for ticker between from and to.
// The Alpaca SDK does not take a context; ctx only bounds the retry loop.
func (c *AlpacaClient) DailyBars(ctx context.Context, ticker string, from, to time.Time) (models.Series, error) {
	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      from,
		End:        to,
		Adjustment: marketdata.Split,
	}

	var raw []marketdata.Bar
	err := retry(ctx, c.maxRetries, c.retryDelayBase, func() error {
		var err error
		raw, err = c.client.GetBars(ticker, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bars: %w", err)
	}

	bars := make([]models.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, fromAlpacaBar(b))
	}

	series := normalize(bars)
	logger.Debug("Fetched %d bars for %s from alpaca", len(series), ticker)
	return series, nil
}

func fromAlpacaBar(b marketdata.Bar) models.Bar {
	return models.Bar{
		Date:   b.Timestamp.UTC(),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: float64(b.Volume),
	}
}

// retry runs fn up to attempts times with linear backoff between failures.
func retry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		logger.Warn("Market data attempt %d/%d failed: %v", i+1, attempts, lastErr)
		if !sleepCtx(ctx, time.Duration(i+1)*base) {
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
