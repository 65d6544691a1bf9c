package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
	"FinBeta/internal/service/ratelimit"
	"FinBeta/internal/services/capm"
	"FinBeta/internal/services/regression"
	"FinBeta/internal/usecase"
	xhttp "FinBeta/pkg/http"
	"FinBeta/pkg/logger"
	"FinBeta/pkg/metrics"
)

var t0 = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func monthly(values ...float64) models.TimeSeries {
	s := models.TimeSeries{}
	for i, v := range values {
		s.Points = append(s.Points, models.Observation{Time: t0.AddDate(0, i, 0), Value: v})
	}
	return s
}

func newEcho(data domrepo.MarketData, limiter *ratelimit.Limiter, checks map[string]HealthCheck) *echo.Echo {
	uc := usecase.NewEstimateUseCase(data, capm.NewEstimator(regression.New()), metrics.Nop{}, logger.NewNop())
	e := echo.New()
	NewCAPMEchoHandler(logger.NewNop(), uc, limiter, checks).RegisterRoutes(e)
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func fixedData(series map[string]models.TimeSeries) domrepo.MarketData {
	return domrepo.MarketDataFunc(func(context.Context, []string, string, models.Interval) (map[string]models.TimeSeries, error) {
		return series, nil
	})
}

func TestEstimateOK(t *testing.T) {
	data := fixedData(map[string]models.TimeSeries{
		"MSFT":  monthly(100, 103, 100.94, 106.0, 104.94, 109.14),
		"^GSPC": monthly(1000, 1020, 1010, 1040, 1035, 1060),
		"^IRX":  monthly(1.2, 1.2, 1.2, 1.2, 1.2, 1.2),
	})
	rec := get(newEcho(data, nil, nil), "/api/capm?asset=msft")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Status int               `json:"status"`
		Data   models.CAPMResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Status)
	assert.Equal(t, "MSFT", body.Data.AssetTicker)
	assert.Equal(t, models.IntervalMonthly, body.Data.Interval)
	assert.Equal(t, 5, body.Data.Observations)
	assert.NotZero(t, body.Data.Beta)
}

func TestEstimateErrorStatus(t *testing.T) {
	fetchFail := domrepo.MarketDataFunc(func(context.Context, []string, string, models.Interval) (map[string]models.TimeSeries, error) {
		return nil, models.NewFetchError("MSFT", errors.New("status 404"))
	})
	flat := fixedData(map[string]models.TimeSeries{
		"MSFT":  monthly(100, 101, 102, 103),
		"^GSPC": monthly(1000, 1000, 1000, 1000),
		"^IRX":  monthly(1, 1, 1, 1),
	})
	short := fixedData(map[string]models.TimeSeries{
		"MSFT":  monthly(100),
		"^GSPC": monthly(1000),
		"^IRX":  monthly(1),
	})

	cases := []struct {
		name string
		data domrepo.MarketData
		path string
		code int
	}{
		{"missing asset", flat, "/api/capm", http.StatusBadRequest},
		{"bad interval", flat, "/api/capm?asset=MSFT&interval=quarterly", http.StatusBadRequest},
		{"bad period", flat, "/api/capm?asset=MSFT&period=abc", http.StatusBadRequest},
		{"fetch", fetchFail, "/api/capm?asset=MSFT", http.StatusBadGateway},
		{"regression", flat, "/api/capm?asset=MSFT", http.StatusUnprocessableEntity},
		{"insufficient", short, "/api/capm?asset=MSFT", http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(newEcho(tc.data, nil, nil), tc.path)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestEstimateRateLimited(t *testing.T) {
	e := newEcho(fixedData(nil), ratelimit.New(0.001, 1), nil)
	get(e, "/api/capm?asset=MSFT")
	rec := get(e, "/api/capm?asset=MSFT")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealth(t *testing.T) {
	ok := get(newEcho(fixedData(nil), nil, map[string]HealthCheck{
		"clickhouse": func(context.Context) error { return nil },
	}), "/healthz")
	assert.Equal(t, http.StatusOK, ok.Code)

	down := get(newEcho(fixedData(nil), nil, map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	}), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, down.Code)
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(down.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"redis": "dial tcp: refused"}, body.Data)
}
