package capm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinBeta/internal/domain/models"
)

func TestAlignIntersectsOnTimestamp(t *testing.T) {
	asset := seriesOf("A", 10, 11, 12, 13, 14)
	market := seriesOf("M", 100, 101, 102, 103, 104)
	rf := seriesOf("RF", 5, 5, 5, 5, 5)

	// drop month 1 from market and make month 3 missing in rf
	market.Points = append(market.Points[:1], market.Points[2:]...)
	rf.Points[3].Value = math.NaN()

	got, err := Align(asset, market, rf)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []float64{10, 12, 14}, got.Asset)
	assert.Equal(t, []float64{100, 102, 104}, got.Market)
	assert.Equal(t, []float64{5, 5, 5}, got.RiskFree)
	assert.True(t, got.Times[0].Equal(month(0)))
	assert.True(t, got.Times[2].Equal(month(4)))
}

func TestAlignSortsAscending(t *testing.T) {
	asset := seriesOf("A", 1, 2, 3)
	asset.Points[0], asset.Points[2] = asset.Points[2], asset.Points[0]

	got, err := Align(asset, seriesOf("M", 1, 2, 3), seriesOf("RF", 1, 2, 3))
	require.NoError(t, err)
	for i := 1; i < got.Len(); i++ {
		assert.True(t, got.Times[i-1].Before(got.Times[i]))
	}
	assert.Equal(t, []float64{1, 2, 3}, got.Asset)
}

func TestAlignEmptyIntersection(t *testing.T) {
	asset := seriesOf("A", 1, 2)
	market := models.TimeSeries{Ticker: "M", Points: []models.Observation{{Time: month(5), Value: 1}}}

	_, err := Align(asset, market, seriesOf("RF", 1, 2))
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestAlignSingleCommonTimestamp(t *testing.T) {
	asset := seriesOf("A", 1, 2, 3)
	market := models.TimeSeries{Ticker: "M", Points: []models.Observation{{Time: month(1), Value: 7}}}

	got, err := Align(asset, market, seriesOf("RF", 4, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, 0, SimpleReturns(column("A", got.Times, got.Asset)).Len())
}
