package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"FinBeta/internal/domain/models"
	domsvc "FinBeta/internal/domain/service"
)

// relSpread is the smallest regressor spread, relative to its magnitude,
// that still counts as variance.
const relSpread = 1e-10

// OLS fits y = a + b*x by least squares on a two-column design [1, x].
type OLS struct{}

func New() *OLS { return &OLS{} }

var _ domsvc.Regressor = (*OLS)(nil)

func (o *OLS) Fit(y []float64, design [][]float64) (domsvc.Fit, error) {
	n := len(y)
	if n != len(design) {
		return domsvc.Fit{}, models.NewRegressionError("response has %d rows, design has %d", n, len(design))
	}
	if n < 2 {
		return domsvc.Fit{}, models.NewRegressionError("need at least 2 observations, got %d", n)
	}

	X := mat.NewDense(n, 2, nil)
	x := make([]float64, n)
	for i, row := range design {
		if len(row) != 2 {
			return domsvc.Fit{}, models.NewRegressionError("design row %d has %d columns, want 2", i, len(row))
		}
		if !finite(row[0]) || !finite(row[1]) || !finite(y[i]) {
			return domsvc.Fit{}, models.NewRegressionError("non-finite value at row %d", i)
		}
		X.Set(i, 0, row[0])
		X.Set(i, 1, row[1])
		x[i] = row[1]
	}
	if degenerate(x) {
		return domsvc.Fit{}, models.NewRegressionError("zero variance in regressor")
	}

	var coef mat.VecDense
	if err := coef.SolveVec(X, mat.NewVecDense(n, y)); err != nil {
		return domsvc.Fit{}, models.NewRegressionError("least squares: %v", err)
	}
	a, b := coef.AtVec(0), coef.AtVec(1)
	if !finite(a) || !finite(b) {
		return domsvc.Fit{}, models.NewRegressionError("non-finite coefficients")
	}

	yMean := stat.Mean(y, nil)
	var sse, sst float64
	for i := range y {
		e := y[i] - (a + b*x[i])
		sse += e * e
		d := y[i] - yMean
		sst += d * d
	}
	r2 := 1.0
	if sst > 0 {
		r2 = clamp01(1 - sse/sst)
	}

	return domsvc.Fit{
		Intercept: a,
		Slope:     b,
		RSquared:  r2,
		Summary:   summarize(x, a, b, r2, sse, sst),
	}, nil
}

// summarize builds the diagnostic map. Statistics that are undefined for the
// sample (no residual degrees of freedom, perfect fit) are left out.
func summarize(x []float64, a, b, r2, sse, sst float64) models.RegressionSummary {
	n := len(x)
	df := n - 2
	s := models.RegressionSummary{
		"nobs":      float64(n),
		"df_resid":  float64(df),
		"intercept": a,
		"slope":     b,
		"r_squared": r2,
		"sse":       sse,
	}
	if df <= 0 {
		return s
	}

	xMean := stat.Mean(x, nil)
	var sxx float64
	for _, v := range x {
		d := v - xMean
		sxx += d * d
	}
	sigma2 := sse / float64(df)
	seB := math.Sqrt(sigma2 / sxx)
	seA := math.Sqrt(sigma2 * (1/float64(n) + xMean*xMean/sxx))

	put := func(k string, v float64) {
		if finite(v) {
			s[k] = v
		}
	}
	put("adj_r_squared", 1-(1-r2)*float64(n-1)/float64(df))
	put("resid_std_err", math.Sqrt(sigma2))
	put("std_err_intercept", seA)
	put("std_err_slope", seB)

	if seA > 0 && seB > 0 {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
		tA, tB := a/seA, b/seB
		put("t_intercept", tA)
		put("t_slope", tB)
		put("p_intercept", 2*t.Survival(math.Abs(tA)))
		put("p_slope", 2*t.Survival(math.Abs(tB)))
	}
	if sse > 0 {
		put("f_statistic", (sst-sse)/sigma2)
	}
	return s
}

func degenerate(x []float64) bool {
	lo, hi := x[0], x[0]
	scale := math.Abs(x[0])
	for _, v := range x[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		return true
	}
	return (hi-lo)/scale <= relSpread
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
