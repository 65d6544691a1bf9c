package models

import "time"

// RegressionSummary is the open-ended diagnostic output of the regression,
// keyed by statistic name (nobs, std_err_alpha, p_value_beta, ...).
type RegressionSummary map[string]float64

// CAPMResult is the immutable output of one estimation run.
type CAPMResult struct {
	AssetTicker     string            `json:"asset_ticker"`
	MarketTicker    string            `json:"market_ticker"`
	RiskFreeTicker  string            `json:"risk_free_ticker"`
	Period          string            `json:"period"`
	Interval        Interval          `json:"interval"`
	Beta            float64           `json:"beta"`
	AlphaPeriodic   float64           `json:"alpha_periodic"`
	AlphaAnnualized float64           `json:"alpha_annualized"`
	RSquared        float64           `json:"r_squared"`
	Observations    int               `json:"observations"`
	Start           time.Time         `json:"start"`
	End             time.Time         `json:"end"`
	Summary         RegressionSummary `json:"summary,omitempty"`
}

// EstimateRequest identifies one estimation run.
type EstimateRequest struct {
	Asset    string
	Market   string
	RiskFree string
	Period   string
	Interval Interval
}

// Tickers returns the tickers in fetch order: asset, market, risk-free.
func (r EstimateRequest) Tickers() []string {
	return []string{r.Asset, r.Market, r.RiskFree}
}
