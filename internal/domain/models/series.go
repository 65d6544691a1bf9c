package models

import (
	"math"
	"time"
)

// Observation is one (timestamp, value) pair of a series.
// A NaN or infinite Value marks the observation as missing.
type Observation struct {
	Time  time.Time
	Value float64
}

// Missing reports whether the observation carries no usable value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value) || math.IsInf(o.Value, 0)
}

// TimeSeries is an ordered sequence of observations for one ticker.
// Timestamps are strictly increasing.
type TimeSeries struct {
	Ticker string
	Points []Observation
}

func (s TimeSeries) Len() int { return len(s.Points) }

// Times returns the timestamps of the series.
func (s TimeSeries) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Values returns the values of the series.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// ReturnSeries holds periodic simple returns derived from a price series.
type ReturnSeries = TimeSeries

// RiskFreeRateSeries holds periodic risk-free rates already shifted forward
// one period.
type RiskFreeRateSeries = TimeSeries

// AlignedDataset is the asset, market and risk-free series restricted to the
// timestamps all three have in common.
type AlignedDataset struct {
	Times    []time.Time
	Asset    []float64
	Market   []float64
	RiskFree []float64
}

func (d AlignedDataset) Len() int { return len(d.Times) }

// ExcessReturnPair is one regression sample.
type ExcessReturnPair struct {
	Time   time.Time
	Asset  float64
	Market float64
}
