package yahoo

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FinBeta/internal/domain/models"
	"FinBeta/internal/domain/repository"
	pkghttp "FinBeta/pkg/http"
	"FinBeta/pkg/logger"
	"FinBeta/pkg/util"
)

const chartPath = "/v8/finance/chart/"

// Client reads daily, weekly or monthly closes from the Yahoo v8 chart API.
// Adjusted closes are used when the response carries them.
type Client struct {
	http  *pkghttp.Client
	hosts []string
	log   *logger.Logger
	now   func() time.Time
}

var _ repository.MarketData = (*Client)(nil)

func NewClient(hc *pkghttp.Client, hosts []string, log *logger.Logger) *Client {
	return &Client{http: hc, hosts: hosts, log: log, now: time.Now}
}

// Fetch downloads every ticker over period. The first failing ticker aborts
// the call with a fetch error naming it.
func (c *Client) Fetch(ctx context.Context, tickers []string, period string, interval models.Interval) (map[string]models.TimeSeries, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	q, err := c.rangeQuery(period)
	if err != nil {
		return nil, models.NewFetchError(strings.Join(tickers, ","), err)
	}
	q.Set("interval", interval.ProviderCode())
	q.Set("includeAdjustedClose", "true")
	q.Set("events", "div,splits")

	out := make(map[string]models.TimeSeries, len(tickers))
	for _, t := range tickers {
		if _, done := out[t]; done {
			continue
		}
		start := time.Now()
		s, err := c.chart(ctx, t, q, interval)
		if err != nil {
			c.log.Warn("yahoo fetch failed", logger.String("ticker", t), logger.Error(err))
			return nil, models.NewFetchError(t, err)
		}
		c.log.Debug("yahoo fetch ok",
			logger.String("ticker", t),
			logger.Int("points", s.Len()),
			logger.Duration("duration_ms", time.Since(start)))
		out[t] = s
	}
	return out, nil
}

func (c *Client) rangeQuery(period string) (url.Values, error) {
	q := url.Values{}
	if strings.EqualFold(strings.TrimSpace(period), "max") {
		q.Set("range", "max")
		return q, nil
	}
	now := c.now().UTC()
	from, err := util.PeriodStart(now, period)
	if err != nil {
		return nil, err
	}
	q.Set("period1", strconv.FormatInt(from.Unix(), 10))
	q.Set("period2", strconv.FormatInt(now.Unix(), 10))
	return q, nil
}

// chart tries each host in turn; the HTTP client retries within a host.
func (c *Client) chart(ctx context.Context, ticker string, q url.Values, interval models.Interval) (models.TimeSeries, error) {
	var lastErr error
	for _, host := range c.hosts {
		var resp chartResponse
		err := c.http.GetJSON(ctx, &pkghttp.RequestOptions{
			URL:         strings.TrimRight(host, "/") + chartPath + url.PathEscape(ticker),
			QueryParams: q,
		}, &resp)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return resp.series(ticker, interval)
	}
	if lastErr == nil {
		lastErr = errors.New("no hosts configured")
	}
	return models.TimeSeries{}, lastErr
}
