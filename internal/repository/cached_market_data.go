package repository

import (
	"context"
	"errors"
	"time"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
	"FinBeta/pkg/cache"
	"FinBeta/pkg/logger"
)

type cachedPoint struct {
	T time.Time `json:"t"`
	V float64   `json:"v"`
}

// CachedMarketData serves series from a cache and falls through to the
// wrapped source for the tickers it does not hold. Keys include the
// current date so entries never outlive the trading day they were read on.
type CachedMarketData struct {
	next    domrepo.MarketData
	cache   cache.Service
	ttl     time.Duration
	source  string
	metrics domrepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

var _ domrepo.MarketData = (*CachedMarketData)(nil)

func NewCachedMarketData(next domrepo.MarketData, c cache.Service, ttl time.Duration, source string, m domrepo.Metrics, log *logger.Logger) *CachedMarketData {
	return &CachedMarketData{next: next, cache: c, ttl: ttl, source: source, metrics: m, log: log, now: time.Now}
}

func (c *CachedMarketData) key(ticker, period string, interval models.Interval) string {
	return cache.Key("series", c.source, ticker, period, string(interval), c.now().UTC().Format(time.DateOnly))
}

func (c *CachedMarketData) Fetch(ctx context.Context, tickers []string, period string, interval models.Interval) (map[string]models.TimeSeries, error) {
	out := make(map[string]models.TimeSeries, len(tickers))
	var missing []string
	for _, t := range tickers {
		if _, done := out[t]; done {
			continue
		}
		pts, err := cache.GetJSON[[]cachedPoint](ctx, c.cache, c.key(t, period, interval))
		if err != nil {
			if !errors.Is(err, cache.ErrCacheMiss) {
				c.log.Warn("series cache read failed", logger.String("ticker", t), logger.Error(err))
			}
			c.metrics.RecordFetch(c.source, "miss")
			missing = append(missing, t)
			continue
		}
		c.metrics.RecordFetch(c.source, "hit")
		out[t] = fromCached(t, pts)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.next.Fetch(ctx, missing, period, interval)
	if err != nil {
		c.metrics.RecordFetch(c.source, "error")
		return nil, err
	}
	for t, s := range fresh {
		out[t] = s
		if err := cache.SetJSON(ctx, c.cache, c.key(t, period, interval), toCached(s), c.ttl); err != nil {
			c.log.Warn("series cache write failed", logger.String("ticker", t), logger.Error(err))
		}
	}
	return out, nil
}

// toCached keeps only usable points; NaN does not survive JSON.
func toCached(s models.TimeSeries) []cachedPoint {
	pts := make([]cachedPoint, 0, s.Len())
	for _, p := range s.Points {
		if p.Missing() {
			continue
		}
		pts = append(pts, cachedPoint{T: p.Time, V: p.Value})
	}
	return pts
}

func fromCached(ticker string, pts []cachedPoint) models.TimeSeries {
	s := models.TimeSeries{Ticker: ticker, Points: make([]models.Observation, len(pts))}
	for i, p := range pts {
		s.Points[i] = models.Observation{Time: p.T, Value: p.V}
	}
	return s
}
