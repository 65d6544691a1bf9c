package regression

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"FinBeta/internal/domain/models"
)

func designOf(x []float64) [][]float64 {
	d := make([][]float64, len(x))
	for i, v := range x {
		d[i] = []float64{1, v}
	}
	return d
}

func TestFitExactProportional(t *testing.T) {
	x := []float64{0.01, -0.02, 0.03, 0.015, -0.005, 0.04}
	for _, k := range []float64{0.5, 1, 1.7, -0.8} {
		y := make([]float64, len(x))
		for i, v := range x {
			y[i] = k * v
		}
		fit, err := New().Fit(y, designOf(x))
		require.NoError(t, err)
		assert.InDelta(t, k, fit.Slope, 1e-9)
		assert.InDelta(t, 0, fit.Intercept, 1e-12)
		assert.InDelta(t, 1, fit.RSquared, 1e-9)
	}
}

func TestFitMatchesClosedForm(t *testing.T) {
	x := []float64{0.012, -0.031, 0.044, 0.005, -0.017, 0.021, 0.009, -0.002}
	y := []float64{0.020, -0.041, 0.050, 0.001, -0.010, 0.035, 0.004, 0.003}

	fit, err := New().Fit(y, designOf(x))
	require.NoError(t, err)

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	assert.InDelta(t, beta, fit.Slope, 1e-10)
	assert.InDelta(t, alpha, fit.Intercept, 1e-10)
	assert.InDelta(t, stat.RSquared(x, y, nil, alpha, beta), fit.RSquared, 1e-10)

	assert.Equal(t, float64(len(x)), fit.Summary["nobs"])
	assert.Equal(t, float64(len(x)-2), fit.Summary["df_resid"])
	for _, k := range []string{"std_err_slope", "t_slope", "p_slope", "adj_r_squared", "f_statistic"} {
		assert.Contains(t, fit.Summary, k)
	}
	p := fit.Summary["p_slope"]
	assert.True(t, p >= 0 && p <= 1)
}

func TestFitZeroVarianceRegressor(t *testing.T) {
	// returns of 100,105,110.25 are 0.05 up to rounding
	x := []float64{105.0/100 - 1, 110.25/105 - 1}
	y := []float64{0.10, 0.10}
	_, err := New().Fit(y, designOf(x))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrRegression))
}

func TestFitRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		y      []float64
		design [][]float64
	}{
		"single row":      {[]float64{1}, [][]float64{{1, 2}}},
		"length mismatch": {[]float64{1, 2, 3}, [][]float64{{1, 2}, {1, 3}}},
		"wrong columns":   {[]float64{1, 2}, [][]float64{{1, 2, 3}, {1, 3, 4}}},
		"nan":             {[]float64{1, math.NaN()}, [][]float64{{1, 2}, {1, 3}}},
		"all zero x":      {[]float64{1, 2}, [][]float64{{1, 0}, {1, 0}}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New().Fit(tc.y, tc.design)
			assert.ErrorIs(t, err, models.ErrRegression)
		})
	}
}

func TestFitTwoPointsOmitsInferenceStats(t *testing.T) {
	fit, err := New().Fit([]float64{0.1, 0.3}, designOf([]float64{0.01, 0.02}))
	require.NoError(t, err)
	assert.InDelta(t, 20, fit.Slope, 1e-9)
	assert.NotContains(t, fit.Summary, "p_slope")
	assert.Equal(t, 0.0, fit.Summary["df_resid"])
}
