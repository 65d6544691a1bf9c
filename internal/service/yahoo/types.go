package yahoo

import (
	"errors"
	"fmt"
	"math"

	"FinBeta/internal/domain/models"
	"FinBeta/pkg/util"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GmtOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// closes prefers the adjusted series when it lines up with the timestamps.
func (r *chartResult) closes() []*float64 {
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == len(r.Timestamp) {
		return r.Indicators.AdjClose[0].AdjClose
	}
	if len(r.Indicators.Quote) > 0 {
		return r.Indicators.Quote[0].Close
	}
	return nil
}

// series converts the chart payload into a TimeSeries keyed by the start day
// of each sampling period. Null closes are skipped; when two bars fall into
// the same period the later one wins.
func (cr *chartResponse) series(ticker string, interval models.Interval) (models.TimeSeries, error) {
	if cr.Chart.Error != nil {
		return models.TimeSeries{}, fmt.Errorf("yahoo %s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return models.TimeSeries{}, errors.New("empty chart result")
	}
	r := cr.Chart.Result[0]
	closes := r.closes()
	if len(closes) != len(r.Timestamp) {
		return models.TimeSeries{}, fmt.Errorf("close/timestamp length mismatch: %d vs %d", len(closes), len(r.Timestamp))
	}

	out := models.TimeSeries{Ticker: ticker}
	for i, ts := range r.Timestamp {
		v := closes[i]
		if v == nil || math.IsNaN(*v) {
			continue
		}
		day := interval.BucketStart(util.ExchangeDate(ts, r.Meta.GmtOffset))
		if n := len(out.Points); n > 0 && !day.After(out.Points[n-1].Time) {
			if day.Equal(out.Points[n-1].Time) {
				out.Points[n-1].Value = *v
			}
			continue
		}
		out.Points = append(out.Points, models.Observation{Time: day, Value: *v})
	}
	if len(out.Points) == 0 {
		return models.TimeSeries{}, errors.New("no observations in range")
	}
	return out, nil
}
