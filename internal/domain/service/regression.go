package service

import "FinBeta/internal/domain/models"

// Fit is the output of a single-factor least-squares regression.
type Fit struct {
	Intercept float64
	Slope     float64
	RSquared  float64
	Summary   models.RegressionSummary
}

// Regressor fits y as an affine function of the single regressor column of
// the design matrix. Rows of y and design are paired by position.
type Regressor interface {
	Fit(y []float64, design [][]float64) (Fit, error)
}
