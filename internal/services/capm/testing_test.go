package capm

import (
	"time"

	"FinBeta/internal/domain/models"
)

var t0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func month(i int) time.Time { return t0.AddDate(0, i, 0) }

func seriesOf(ticker string, values ...float64) models.TimeSeries {
	s := models.TimeSeries{Ticker: ticker}
	for i, v := range values {
		s.Points = append(s.Points, models.Observation{Time: month(i), Value: v})
	}
	return s
}
