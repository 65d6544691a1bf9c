package capm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinBeta/internal/domain/models"
)

func TestExcessReturns(t *testing.T) {
	asset := seriesOf("A", 0.10, 0.02, -0.01)
	market := seriesOf("M", 0.05, 0.01, 0.00)
	rf := seriesOf("RF", 0.001, math.NaN(), 0.002)

	got, err := ExcessReturns(asset, market, rf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.099, got[0].Asset, 1e-12)
	assert.InDelta(t, 0.049, got[0].Market, 1e-12)
	assert.InDelta(t, -0.012, got[1].Asset, 1e-12)
	assert.InDelta(t, -0.002, got[1].Market, 1e-12)
	assert.True(t, got[1].Time.Equal(month(2)))
}

func TestExcessReturnsNoOverlap(t *testing.T) {
	asset := seriesOf("A", 0.1)
	market := models.TimeSeries{Ticker: "M", Points: []models.Observation{{Time: month(3), Value: 0.1}}}
	_, err := ExcessReturns(asset, market, seriesOf("RF", 0))
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}
