package repository

import (
	"context"

	"FinBeta/internal/domain/models"
)

// MarketData returns one TimeSeries per requested ticker. Implementations
// return models.EstimationError values of kind fetch on failure.
type MarketData interface {
	Fetch(ctx context.Context, tickers []string, period string, interval models.Interval) (map[string]models.TimeSeries, error)
}

// MarketDataFunc adapts a plain function to MarketData.
type MarketDataFunc func(ctx context.Context, tickers []string, period string, interval models.Interval) (map[string]models.TimeSeries, error)

func (f MarketDataFunc) Fetch(ctx context.Context, tickers []string, period string, interval models.Interval) (map[string]models.TimeSeries, error) {
	return f(ctx, tickers, period, interval)
}

// Publisher sends estimation replies to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, reply models.EstimateReply) error
	Close() error
}

type Metrics interface {
	RecordEstimate(interval, result string)
	RecordError(kind string)
	RecordBeta(asset, market string, beta float64)
	RecordLatency(op string, seconds float64)
	RecordFetch(source, result string)
}
