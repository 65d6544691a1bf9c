package capm

import (
	"math"

	"FinBeta/internal/domain/models"
)

// SimpleReturns computes r_t = (P_t - P_{t-1}) / P_{t-1}.
// The first observation has no predecessor and is dropped, so the result has
// len(prices)-1 points (none for fewer than two prices). A non-positive or
// missing previous price yields a missing return.
func SimpleReturns(prices models.TimeSeries) models.ReturnSeries {
	out := models.ReturnSeries{Ticker: prices.Ticker}
	if len(prices.Points) < 2 {
		return out
	}
	out.Points = make([]models.Observation, 0, len(prices.Points)-1)
	for i := 1; i < len(prices.Points); i++ {
		prev := prices.Points[i-1]
		cur := prices.Points[i]
		r := math.NaN()
		if !prev.Missing() && !cur.Missing() && prev.Value > 0 {
			r = (cur.Value - prev.Value) / prev.Value
		}
		out.Points = append(out.Points, models.Observation{Time: cur.Time, Value: r})
	}
	return out
}

// PeriodicRate converts an annualized yield quoted in percent (5.25 means
// 5.25%) into a rate per sampling interval.
func PeriodicRate(yieldPct float64, interval models.Interval) (float64, error) {
	divisor := interval.PeriodsPerYear()
	if divisor == 0 {
		return 0, models.NewUnsupportedIntervalError("periodic rate", string(interval))
	}
	return (yieldPct / 100) / float64(divisor), nil
}

// RiskFreeRates converts a yield series into periodic rates and shifts them
// forward one period: the rate for period t is the one known at its start,
// i.e. derived from the yield observed at t-1. The first timestamp has no
// prior yield and is dropped.
func RiskFreeRates(yields models.TimeSeries, interval models.Interval) (models.RiskFreeRateSeries, error) {
	if err := interval.Validate(); err != nil {
		return models.RiskFreeRateSeries{}, err
	}
	out := models.RiskFreeRateSeries{Ticker: yields.Ticker}
	if len(yields.Points) < 2 {
		return out, nil
	}
	out.Points = make([]models.Observation, 0, len(yields.Points)-1)
	for i := 1; i < len(yields.Points); i++ {
		prev := yields.Points[i-1]
		rate := math.NaN()
		if !prev.Missing() {
			r, err := PeriodicRate(prev.Value, interval)
			if err != nil {
				return models.RiskFreeRateSeries{}, err
			}
			rate = r
		}
		out.Points = append(out.Points, models.Observation{Time: yields.Points[i].Time, Value: rate})
	}
	return out, nil
}
