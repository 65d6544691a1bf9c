package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
	"FinBeta/internal/services/capm"
	"FinBeta/internal/services/regression"
	"FinBeta/pkg/logger"
)

type recordingMetrics struct {
	mu        sync.Mutex
	estimates map[string]int
	errors    map[string]int
	betas     map[string]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{estimates: map[string]int{}, errors: map[string]int{}, betas: map[string]float64{}}
}

func (m *recordingMetrics) RecordEstimate(interval, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimates[interval+"/"+result]++
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *recordingMetrics) RecordBeta(asset, market string, beta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.betas[asset+"/"+market] = beta
}

func (m *recordingMetrics) RecordLatency(string, float64) {}
func (m *recordingMetrics) RecordFetch(string, string)    {}

type capturePublisher struct {
	replies []models.EstimateReply
	err     error
}

func (p *capturePublisher) Publish(_ context.Context, r models.EstimateReply) error {
	if p.err != nil {
		return p.err
	}
	p.replies = append(p.replies, r)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

var t0 = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

func prices(start float64, rets []float64) models.TimeSeries {
	s := models.TimeSeries{Points: []models.Observation{{Time: t0, Value: start}}}
	for i, r := range rets {
		prev := s.Points[len(s.Points)-1].Value
		s.Points = append(s.Points, models.Observation{Time: t0.AddDate(0, i+1, 0), Value: prev * (1 + r)})
	}
	return s
}

// marketData serves a market with beta 2 against it and a flat zero yield.
func marketData(calls *int) domrepo.MarketData {
	mRet := []float64{0.01, -0.02, 0.03, 0.005, -0.01, 0.02}
	aRet := make([]float64, len(mRet))
	for i, r := range mRet {
		aRet[i] = 2 * r
	}
	rf := prices(0, nil)
	for i := range mRet {
		rf.Points = append(rf.Points, models.Observation{Time: t0.AddDate(0, i+1, 0), Value: 0})
	}
	return domrepo.MarketDataFunc(func(_ context.Context, tickers []string, _ string, _ models.Interval) (map[string]models.TimeSeries, error) {
		if calls != nil {
			*calls++
		}
		return map[string]models.TimeSeries{
			tickers[0]: prices(100, aRet),
			tickers[1]: prices(4000, mRet),
			tickers[2]: rf,
		}, nil
	})
}

func newUseCase(data domrepo.MarketData, m domrepo.Metrics) *EstimateUseCase {
	return NewEstimateUseCase(data, capm.NewEstimator(regression.New()), m, logger.NewNop())
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(models.CAPMRequest{Asset: " msft ", Market: "^gspc", RiskFree: "^irx", Period: "5y", Interval: "1mo"})
	require.NoError(t, err)
	assert.Equal(t, models.EstimateRequest{Asset: "MSFT", Market: "^GSPC", RiskFree: "^IRX", Period: "5y", Interval: models.IntervalMonthly}, req)

	_, err = BuildRequest(models.CAPMRequest{Asset: "A", Market: "M", RiskFree: "R", Period: "5y", Interval: "quarterly"})
	assert.ErrorIs(t, err, models.ErrUnsupportedInterval)

	_, err = BuildRequest(models.CAPMRequest{Asset: "A", Market: "M", RiskFree: "R", Period: "forever", Interval: "daily"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEstimateRecordsSuccess(t *testing.T) {
	m := newRecordingMetrics()
	uc := newUseCase(marketData(nil), m)

	res, err := uc.Estimate(context.Background(), models.EstimateRequest{
		Asset: "A", Market: "M", RiskFree: "RF", Period: "1y", Interval: models.IntervalMonthly,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Beta, 1e-9)
	assert.Equal(t, 6, res.Observations)
	assert.Equal(t, 1, m.estimates["monthly/ok"])
	assert.InDelta(t, 2, m.betas["A/M"], 1e-9)
}

func TestEstimateUnsupportedIntervalSkipsFetch(t *testing.T) {
	calls := 0
	m := newRecordingMetrics()
	uc := newUseCase(marketData(&calls), m)

	_, err := uc.Estimate(context.Background(), models.EstimateRequest{
		Asset: "A", Market: "M", RiskFree: "RF", Period: "1y", Interval: models.Interval("quarterly"),
	})
	assert.ErrorIs(t, err, models.ErrUnsupportedInterval)
	assert.Zero(t, calls)
	assert.Equal(t, 1, m.errors["unsupported_interval"])
}

func TestEstimateFetchError(t *testing.T) {
	m := newRecordingMetrics()
	data := domrepo.MarketDataFunc(func(context.Context, []string, string, models.Interval) (map[string]models.TimeSeries, error) {
		return nil, models.NewFetchError("^IRX", errors.New("status 404"))
	})
	_, err := newUseCase(data, m).Estimate(context.Background(), models.EstimateRequest{
		Asset: "A", Market: "M", RiskFree: "^IRX", Period: "1y", Interval: models.IntervalDaily,
	})
	assert.ErrorIs(t, err, models.ErrFetch)
	assert.Equal(t, 1, m.errors["fetch"])
	assert.Equal(t, 1, m.estimates["daily/error"])
}

func TestKafkaHandlerRepliesWithResult(t *testing.T) {
	pub := &capturePublisher{}
	h := NewKafkaEstimateHandler("capm.requests", newUseCase(marketData(nil), newRecordingMetrics()), pub, newRecordingMetrics(), logger.NewNop())
	assert.Equal(t, "capm.requests", h.Topic())

	body, _ := json.Marshal(map[string]string{"request_id": "r-1", "asset": "msft", "interval": "monthly"})
	require.NoError(t, h.Handle(context.Background(), nil, body))

	require.Len(t, pub.replies, 1)
	r := pub.replies[0]
	assert.Equal(t, "r-1", r.RequestID)
	require.NotNil(t, r.Result)
	assert.Nil(t, r.Error)
	assert.Equal(t, "MSFT", r.Result.AssetTicker)
	assert.Equal(t, "^GSPC", r.Result.MarketTicker)
	assert.Equal(t, "5y", r.Result.Period)
}

func TestKafkaHandlerRepliesWithErrorKind(t *testing.T) {
	pub := &capturePublisher{}
	h := NewKafkaEstimateHandler("capm.requests", newUseCase(marketData(nil), newRecordingMetrics()), pub, newRecordingMetrics(), logger.NewNop())

	cases := []struct {
		body string
		kind models.ErrorKind
	}{
		{`{"asset":"MSFT","interval":"hourly"}`, models.KindUnsupportedInterval},
		{`{"interval":"monthly"}`, models.KindInvalidRequest},
		{`{"asset":"MSFT","period":"forever"}`, models.KindInvalidRequest},
	}
	for _, tc := range cases {
		require.NoError(t, h.Handle(context.Background(), []byte("key-1"), []byte(tc.body)))
	}
	require.Len(t, pub.replies, len(cases))
	for i, tc := range cases {
		r := pub.replies[i]
		assert.Equal(t, "key-1", r.RequestID)
		assert.Nil(t, r.Result)
		require.NotNil(t, r.Error, tc.body)
		assert.Equal(t, tc.kind, r.Error.Kind, tc.body)
	}
}

func TestKafkaHandlerErrors(t *testing.T) {
	m := newRecordingMetrics()
	h := NewKafkaEstimateHandler("capm.requests", newUseCase(marketData(nil), m), &capturePublisher{}, m, logger.NewNop())
	assert.Error(t, h.Handle(context.Background(), nil, []byte("{not json")))
	assert.Equal(t, 1, m.errors["consumer_unmarshal"])

	failing := &capturePublisher{err: errors.New("broker down")}
	h = NewKafkaEstimateHandler("capm.requests", newUseCase(marketData(nil), m), failing, m, logger.NewNop())
	err := h.Handle(context.Background(), []byte("k"), []byte(`{"asset":"MSFT"}`))
	assert.ErrorContains(t, err, "broker down")
	assert.Equal(t, 1, m.errors["reply_publish"])
}
