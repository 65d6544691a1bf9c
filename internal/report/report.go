// Package report renders a CAPMResult as a plain-text analysis.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"FinBeta/internal/domain/models"
)

const rule = "=================================================="

// Options controls optional report sections.
type Options struct {
	Summary bool
}

// Write renders res to w.
func Write(w io.Writer, res models.CAPMResult, opts Options) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "CAPM Analysis: %s vs %s\n", res.AssetTicker, res.MarketTicker)
	fmt.Fprintf(&b, "Period: %s, Interval: %s, Risk-free: %s\n", res.Period, res.Interval, res.RiskFreeTicker)
	if !res.Start.IsZero() {
		fmt.Fprintf(&b, "Sample: %s to %s (%d observations)\n",
			res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), res.Observations)
	}
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "Beta:         %.4f\n", res.Beta)
	fmt.Fprintf(&b, "Alpha:        %.4f%% (annualized)\n", res.AlphaAnnualized*100)
	fmt.Fprintf(&b, "R-squared:    %.4f\n", res.RSquared)

	b.WriteString("\n--- Interpretation ---\n")
	fmt.Fprintf(&b, "Beta = %.2f: for every 1%% move in the market (%s), %s is expected to move %.2f%%.\n",
		res.Beta, res.MarketTicker, res.AssetTicker, res.Beta)
	b.WriteString("   " + betaLine(res) + "\n")

	fmt.Fprintf(&b, "\nAlpha = %.2f%%: after accounting for market risk (Beta), the asset has\n", res.AlphaAnnualized*100)
	b.WriteString("   " + alphaLine(res.AlphaAnnualized) + "\n")

	fmt.Fprintf(&b, "\nR-squared = %.2f: %.0f%% of %s's price movements are explained by movements in the market (%s).\n",
		res.RSquared, res.RSquared*100, res.AssetTicker, res.MarketTicker)

	if opts.Summary && len(res.Summary) > 0 {
		b.WriteString("\n--- Regression Summary ---\n")
		writeSummary(&b, res.Summary)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func betaLine(res models.CAPMResult) string {
	switch {
	case res.Beta > 1:
		return fmt.Sprintf("(%s is more volatile than the market.)", res.AssetTicker)
	case res.Beta < 1:
		return fmt.Sprintf("(%s is less volatile than the market.)", res.AssetTicker)
	default:
		return fmt.Sprintf("(%s moves in line with the market.)", res.AssetTicker)
	}
}

func alphaLine(alpha float64) string {
	switch {
	case alpha > 0:
		return fmt.Sprintf("outperformed its expected return by %.2f%% per year.", alpha*100)
	case alpha < 0:
		return fmt.Sprintf("underperformed its expected return by %.2f%% per year.", math.Abs(alpha*100))
	default:
		return "performed exactly as expected."
	}
}

// writeSummary prints the known statistics first, in a fixed order, then
// anything else alphabetically.
func writeSummary(b *strings.Builder, s models.RegressionSummary) {
	order := []string{
		"nobs", "df_resid", "intercept", "slope",
		"std_err_intercept", "std_err_slope",
		"t_intercept", "t_slope", "p_intercept", "p_slope",
		"r_squared", "adj_r_squared", "resid_std_err", "sse", "f_statistic",
	}
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		seen[k] = true
		if v, ok := s[k]; ok {
			fmt.Fprintf(b, "%-20s %14.6g\n", k, v)
		}
	}
	var rest []string
	for k := range s {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Fprintf(b, "%-20s %14.6g\n", k, s[k])
	}
}
