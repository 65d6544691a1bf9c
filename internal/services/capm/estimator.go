package capm

import (
	"fmt"

	"FinBeta/internal/domain/models"
	domsvc "FinBeta/internal/domain/service"
)

// Estimator runs the CAPM pipeline over already-fetched series:
// align, returns, risk-free conversion, excess returns, regression,
// annualization.
type Estimator struct {
	reg domsvc.Regressor
}

func NewEstimator(reg domsvc.Regressor) *Estimator {
	return &Estimator{reg: reg}
}

// Run estimates Alpha and Beta for req from series keyed by ticker. The first
// failing stage aborts the run and its tagged error is returned unchanged.
func (e *Estimator) Run(req models.EstimateRequest, series map[string]models.TimeSeries) (models.CAPMResult, error) {
	if err := req.Interval.Validate(); err != nil {
		return models.CAPMResult{}, err
	}

	asset, err := pick(series, req.Asset)
	if err != nil {
		return models.CAPMResult{}, err
	}
	market, err := pick(series, req.Market)
	if err != nil {
		return models.CAPMResult{}, err
	}
	riskFree, err := pick(series, req.RiskFree)
	if err != nil {
		return models.CAPMResult{}, err
	}

	data, err := Align(asset, market, riskFree)
	if err != nil {
		return models.CAPMResult{}, err
	}

	assetRet := SimpleReturns(column(req.Asset, data.Times, data.Asset))
	marketRet := SimpleReturns(column(req.Market, data.Times, data.Market))
	if assetRet.Len() == 0 {
		return models.CAPMResult{}, models.NewInsufficientDataError("returns",
			"%d aligned observation(s), need at least 2", data.Len())
	}
	rf, err := RiskFreeRates(column(req.RiskFree, data.Times, data.RiskFree), req.Interval)
	if err != nil {
		return models.CAPMResult{}, err
	}

	sample, err := ExcessReturns(assetRet, marketRet, rf)
	if err != nil {
		return models.CAPMResult{}, err
	}

	y := make([]float64, len(sample))
	design := make([][]float64, len(sample))
	for i, s := range sample {
		y[i] = s.Asset
		design[i] = []float64{1, s.Market}
	}
	fit, err := e.reg.Fit(y, design)
	if err != nil {
		return models.CAPMResult{}, err
	}

	return models.CAPMResult{
		AssetTicker:     req.Asset,
		MarketTicker:    req.Market,
		RiskFreeTicker:  req.RiskFree,
		Period:          req.Period,
		Interval:        req.Interval,
		Beta:            fit.Slope,
		AlphaPeriodic:   fit.Intercept,
		AlphaAnnualized: Annualize(fit.Intercept, req.Interval),
		RSquared:        fit.RSquared,
		Observations:    len(sample),
		Start:           sample[0].Time,
		End:             sample[len(sample)-1].Time,
		Summary:         fit.Summary,
	}, nil
}

func pick(series map[string]models.TimeSeries, ticker string) (models.TimeSeries, error) {
	s, ok := series[ticker]
	if !ok {
		return models.TimeSeries{}, models.NewFetchError(ticker, fmt.Errorf("no series returned"))
	}
	if s.Ticker == "" {
		s.Ticker = ticker
	}
	return s, nil
}
