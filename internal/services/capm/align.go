package capm

import (
	"sort"
	"time"

	"FinBeta/internal/domain/models"
)

type alignedRow struct {
	t                      time.Time
	asset, market, riskFree float64
}

// Align intersects the asset, market and risk-free series on timestamp
// equality. Observations with a missing value never take part in the join,
// so a timestamp survives only if all three series carry a usable value
// there. The result is in ascending time order.
func Align(asset, market, riskFree models.TimeSeries) (models.AlignedDataset, error) {
	mk := valuesByTime(market)
	rf := valuesByTime(riskFree)

	rows := make([]alignedRow, 0, len(asset.Points))
	seen := make(map[int64]struct{}, len(asset.Points))
	for _, p := range asset.Points {
		if p.Missing() {
			continue
		}
		k := p.Time.UnixNano()
		if _, dup := seen[k]; dup {
			continue
		}
		mv, ok := mk[k]
		if !ok {
			continue
		}
		rv, ok := rf[k]
		if !ok {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, alignedRow{t: p.Time, asset: p.Value, market: mv, riskFree: rv})
	}

	if len(rows) == 0 {
		return models.AlignedDataset{}, models.NewInsufficientDataError("align",
			"no common timestamps across %s, %s and %s", asset.Ticker, market.Ticker, riskFree.Ticker)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].t.Before(rows[j].t) })

	out := models.AlignedDataset{
		Times:    make([]time.Time, len(rows)),
		Asset:    make([]float64, len(rows)),
		Market:   make([]float64, len(rows)),
		RiskFree: make([]float64, len(rows)),
	}
	for i, r := range rows {
		out.Times[i] = r.t
		out.Asset[i] = r.asset
		out.Market[i] = r.market
		out.RiskFree[i] = r.riskFree
	}
	return out, nil
}

func valuesByTime(s models.TimeSeries) map[int64]float64 {
	m := make(map[int64]float64, len(s.Points))
	for _, p := range s.Points {
		if p.Missing() {
			continue
		}
		m[p.Time.UnixNano()] = p.Value
	}
	return m
}

// column rebuilds a TimeSeries from one column of an aligned dataset.
func column(ticker string, times []time.Time, values []float64) models.TimeSeries {
	pts := make([]models.Observation, len(times))
	for i := range times {
		pts[i] = models.Observation{Time: times[i], Value: values[i]}
	}
	return models.TimeSeries{Ticker: ticker, Points: pts}
}
