package capm

import "FinBeta/internal/domain/models"

// ExcessReturns subtracts the periodic risk-free rate from the asset and
// market returns at every timestamp where all three are present. Rows are
// emitted in the asset series order, which is ascending time.
func ExcessReturns(asset, market models.ReturnSeries, riskFree models.RiskFreeRateSeries) ([]models.ExcessReturnPair, error) {
	mk := valuesByTime(market)
	rf := valuesByTime(riskFree)

	out := make([]models.ExcessReturnPair, 0, len(asset.Points))
	for _, p := range asset.Points {
		if p.Missing() {
			continue
		}
		k := p.Time.UnixNano()
		m, ok := mk[k]
		if !ok {
			continue
		}
		r, ok := rf[k]
		if !ok {
			continue
		}
		out = append(out, models.ExcessReturnPair{
			Time:   p.Time,
			Asset:  p.Value - r,
			Market: m - r,
		})
	}
	if len(out) == 0 {
		return nil, models.NewInsufficientDataError("excess returns",
			"no overlapping return observations for %s and %s", asset.Ticker, market.Ticker)
	}
	return out, nil
}
