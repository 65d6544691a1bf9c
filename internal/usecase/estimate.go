package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
	"FinBeta/internal/services/capm"
	"FinBeta/pkg/logger"
	"FinBeta/pkg/util"
)

// ErrInvalidRequest marks request problems found before any data is fetched.
var ErrInvalidRequest = errors.New("invalid request")

// EstimateUseCase fetches the three series of a request and runs the
// estimator over them.
type EstimateUseCase struct {
	data    domrepo.MarketData
	est     *capm.Estimator
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewEstimateUseCase(data domrepo.MarketData, est *capm.Estimator, metrics domrepo.Metrics, log *logger.Logger) *EstimateUseCase {
	return &EstimateUseCase{data: data, est: est, metrics: metrics, log: log}
}

// BuildRequest turns a bound request DTO into an EstimateRequest. Tickers are
// normalized, the interval must parse and the period must be understood by
// the data sources.
func BuildRequest(r models.CAPMRequest) (models.EstimateRequest, error) {
	iv, err := models.ParseInterval(r.Interval)
	if err != nil {
		return models.EstimateRequest{}, err
	}
	req := models.EstimateRequest{
		Asset:    util.NormalizeTicker(r.Asset),
		Market:   util.NormalizeTicker(r.Market),
		RiskFree: util.NormalizeTicker(r.RiskFree),
		Period:   r.Period,
		Interval: iv,
	}
	if !util.ValidPeriod(req.Period) {
		return models.EstimateRequest{}, fmt.Errorf("%w: period %q", ErrInvalidRequest, r.Period)
	}
	if req.Asset == "" || req.Market == "" || req.RiskFree == "" {
		return models.EstimateRequest{}, fmt.Errorf("%w: asset, market and riskfree are required", ErrInvalidRequest)
	}
	return req, nil
}

// Estimate runs one estimation end to end.
func (uc *EstimateUseCase) Estimate(ctx context.Context, req models.EstimateRequest) (models.CAPMResult, error) {
	start := time.Now()
	log := uc.log.With(
		logger.String("asset", req.Asset),
		logger.String("market", req.Market),
		logger.String("riskfree", req.RiskFree),
		logger.String("period", req.Period),
		logger.String("interval", req.Interval.String()),
	)

	if err := req.Interval.Validate(); err != nil {
		uc.fail(log, req, err)
		return models.CAPMResult{}, err
	}

	fetchStart := time.Now()
	series, err := uc.data.Fetch(ctx, req.Tickers(), req.Period, req.Interval)
	uc.metrics.RecordLatency("fetch", time.Since(fetchStart).Seconds())
	if err != nil {
		uc.fail(log, req, err)
		return models.CAPMResult{}, err
	}

	res, err := uc.est.Run(req, series)
	if err != nil {
		uc.fail(log, req, err)
		return models.CAPMResult{}, err
	}

	uc.metrics.RecordLatency("estimate", time.Since(start).Seconds())
	uc.metrics.RecordEstimate(req.Interval.String(), "ok")
	uc.metrics.RecordBeta(req.Asset, req.Market, res.Beta)
	log.Info("capm estimated",
		logger.Float("beta", res.Beta),
		logger.Float("alpha_annualized", res.AlphaAnnualized),
		logger.Float("r_squared", res.RSquared),
		logger.Int("observations", res.Observations),
		logger.Duration("duration_ms", time.Since(start)))
	return res, nil
}

func (uc *EstimateUseCase) fail(log *logger.Logger, req models.EstimateRequest, err error) {
	kind := string(models.KindOf(err))
	if kind == "" {
		kind = string(models.KindInternal)
	}
	uc.metrics.RecordEstimate(req.Interval.String(), "error")
	uc.metrics.RecordError(kind)
	if kind == string(models.KindInternal) || kind == string(models.KindFetch) {
		log.Error("capm estimation failed", logger.String("kind", kind), logger.Error(err))
		return
	}
	log.Warn("capm estimation rejected", logger.String("kind", kind), logger.Error(err))
}
