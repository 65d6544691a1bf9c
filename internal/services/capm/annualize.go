package capm

import (
	"math"

	"FinBeta/internal/domain/models"
)

// Annualize compounds a periodic alpha over one year:
// (1 + alpha)^periodsPerYear - 1.
// An unsupported interval compounds once (periodsPerYear = 1); the estimator
// rejects such intervals before it gets here.
func Annualize(alphaPeriodic float64, interval models.Interval) float64 {
	ppy := interval.PeriodsPerYear()
	if ppy == 0 {
		ppy = 1
	}
	return math.Pow(1+alphaPeriodic, float64(ppy)) - 1
}

// Deannualize is the inverse of Annualize.
func Deannualize(alphaAnnualized float64, interval models.Interval) float64 {
	ppy := interval.PeriodsPerYear()
	if ppy == 0 {
		ppy = 1
	}
	return math.Pow(1+alphaAnnualized, 1/float64(ppy)) - 1
}
