package marketdata

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	pmodels "github.com/polygon-io/client-go/rest/models"

	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/models"
)

// PolygonClient reads daily aggregates from Polygon.io.
type PolygonClient struct {
	client         *polygon.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewPolygonClient creates an aggregates client for apiKey.
func NewPolygonClient(apiKey string, maxRetries int, retryDelayBase time.Duration) *PolygonClient {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &PolygonClient{
		client:         polygon.New(apiKey),
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// Name identifies the provider in logs and errors.
func (c *PolygonClient) Name() string { return "polygon" }

// DailyBars retrieves adjusted daily aggregates for ticker between from and to.
func (c *PolygonClient) DailyBars(ctx context.Context, ticker string, from, to time.Time) (models.Series, error) {
	params := pmodels.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   pmodels.Day,
		From:       pmodels.Millis(from),
		To:         pmodels.Millis(to),
	}.WithOrder(pmodels.Asc).WithAdjusted(true)

	var bars []models.Bar
	err := retry(ctx, c.maxRetries, c.retryDelayBase, func() error {
		bars = bars[:0]
		iter := c.client.ListAggs(ctx, params)
		for iter.Next() {
			bars = append(bars, fromAgg(iter.Item()))
		}
		return iter.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list aggregates: %w", err)
	}

	series := normalize(bars)
	logger.Debug("Fetched %d bars for %s from polygon", len(series), ticker)
	return series, nil
}

func fromAgg(a pmodels.Agg) models.Bar {
	return models.Bar{
		Date:   time.Time(a.Timestamp).UTC(),
		Open:   a.Open,
		High:   a.High,
		Low:    a.Low,
		Close:  a.Close,
		Volume: a.Volume,
	}
}
